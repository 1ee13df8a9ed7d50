/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package integration

import (
	"time"

	. "github.com/onsi/gomega"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	dnsv1alpha1 "github.com/dnsops/coredns-operator/api/dns/v1alpha1"
	"github.com/dnsops/coredns-operator/pkg/consts"
)

const (
	timeout  = time.Second * 10
	interval = time.Millisecond * 250
)

// newNamespace creates a fresh namespace for a test. Tests get their own
// namespace because the workload object names are fixed per namespace.
func newNamespace() string {
	ns := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{GenerateName: "dns-test-"},
	}
	Expect(k8sClient.Create(ctx, ns)).To(Succeed())
	return ns.Name
}

// getCorefile returns the live Corefile text, or "" while it does not exist.
func getCorefile(namespace string) string {
	var cm corev1.ConfigMap
	if err := k8sClient.Get(ctx, types.NamespacedName{Name: consts.ConfigMapName, Namespace: namespace}, &cm); err != nil {
		return ""
	}
	return cm.Data[consts.CorefileKey]
}

// getPhase returns the instance's current phase, or "" on any error.
func getPhase(namespace, name string) string {
	var instance dnsv1alpha1.CoreDNS
	if err := k8sClient.Get(ctx, types.NamespacedName{Name: name, Namespace: namespace}, &instance); err != nil {
		return ""
	}
	return instance.Status.Phase
}

// getAppliedHash returns the instance's recorded hash, or "" on any error.
func getAppliedHash(namespace, name string) string {
	var instance dnsv1alpha1.CoreDNS
	if err := k8sClient.Get(ctx, types.NamespacedName{Name: name, Namespace: namespace}, &instance); err != nil {
		return ""
	}
	return instance.Status.AppliedHash
}

// readyReason returns the Ready condition reason of the instance.
func readyReason(namespace, name string) string {
	var instance dnsv1alpha1.CoreDNS
	if err := k8sClient.Get(ctx, types.NamespacedName{Name: name, Namespace: namespace}, &instance); err != nil {
		return ""
	}
	for _, c := range instance.Status.Conditions {
		if c.Type == consts.ConditionTypeReady {
			return c.Reason
		}
	}
	return ""
}
