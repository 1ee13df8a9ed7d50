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
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	dnsv1alpha1 "github.com/dnsops/coredns-operator/api/dns/v1alpha1"
	"github.com/dnsops/coredns-operator/pkg/consts"
)

var _ = Describe("DNSServer controller", func() {
	Context("When a valid DNSServer exists alongside a CoreDNS instance", func() {
		It("Should mark the server Ready and fold it into the Corefile", func() {
			namespace := newNamespace()

			instance := &dnsv1alpha1.CoreDNS{
				ObjectMeta: metav1.ObjectMeta{Name: "dns", Namespace: namespace},
				Spec: dnsv1alpha1.CoreDNSSpec{
					Forward: []string{"8.8.8.8"},
				},
			}
			Expect(k8sClient.Create(ctx, instance)).To(Succeed())

			Eventually(func() string {
				return getPhase(namespace, "dns")
			}, timeout, interval).Should(Equal(consts.PhaseConverged))

			server := &dnsv1alpha1.DNSServer{
				ObjectMeta: metav1.ObjectMeta{Name: "corp", Namespace: namespace},
				Spec: dnsv1alpha1.DNSServerSpec{
					Address: "10.0.0.53",
					Zone:    "corp.example.com",
				},
			}
			Expect(k8sClient.Create(ctx, server)).To(Succeed())

			Eventually(func() bool {
				var current dnsv1alpha1.DNSServer
				if err := k8sClient.Get(ctx, types.NamespacedName{Name: "corp", Namespace: namespace}, &current); err != nil {
					return false
				}
				return meta.IsStatusConditionTrue(current.Status.Conditions, consts.ConditionTypeReady)
			}, timeout, interval).Should(BeTrue())

			Eventually(func() string {
				return getCorefile(namespace)
			}, timeout, interval).Should(ContainSubstring("corp.example.com:53 {"))

			corefile := getCorefile(namespace)
			Expect(corefile).To(ContainSubstring("forward . 10.0.0.53"))
			Expect(strings.Index(corefile, ".:53 {")).To(BeNumerically("<", strings.Index(corefile, "corp.example.com:53 {")),
				"extra server blocks follow the primary block")
		})
	})

	Context("When a DNSServer has an unparseable address", func() {
		It("Should mark the server not Ready and leave the Corefile alone", func() {
			namespace := newNamespace()

			instance := &dnsv1alpha1.CoreDNS{
				ObjectMeta: metav1.ObjectMeta{Name: "dns", Namespace: namespace},
				Spec: dnsv1alpha1.CoreDNSSpec{
					Forward: []string{"8.8.8.8"},
				},
			}
			Expect(k8sClient.Create(ctx, instance)).To(Succeed())

			Eventually(func() string {
				return getPhase(namespace, "dns")
			}, timeout, interval).Should(Equal(consts.PhaseConverged))

			server := &dnsv1alpha1.DNSServer{
				ObjectMeta: metav1.ObjectMeta{Name: "broken", Namespace: namespace},
				Spec: dnsv1alpha1.DNSServerSpec{
					Address: "not an address",
				},
			}
			Expect(k8sClient.Create(ctx, server)).To(Succeed())

			Eventually(func() string {
				var current dnsv1alpha1.DNSServer
				if err := k8sClient.Get(ctx, types.NamespacedName{Name: "broken", Namespace: namespace}, &current); err != nil {
					return ""
				}
				condition := meta.FindStatusCondition(current.Status.Conditions, consts.ConditionTypeReady)
				if condition == nil {
					return ""
				}
				return string(condition.Status)
			}, timeout, interval).Should(Equal(string(metav1.ConditionFalse)))

			Consistently(func() string {
				return getCorefile(namespace)
			}, "2s", interval).ShouldNot(ContainSubstring("not an address"))
		})
	})

	Context("When a DNSServer points back at the cluster DNS service", func() {
		It("Should reject the contribution as a forwarding loop", func() {
			namespace := newNamespace()

			instance := &dnsv1alpha1.CoreDNS{
				ObjectMeta: metav1.ObjectMeta{Name: "dns", Namespace: namespace},
				Spec: dnsv1alpha1.CoreDNSSpec{
					Forward: []string{"8.8.8.8"},
				},
			}
			Expect(k8sClient.Create(ctx, instance)).To(Succeed())

			Eventually(func() string {
				return getPhase(namespace, "dns")
			}, timeout, interval).Should(Equal(consts.PhaseConverged))

			var svc corev1.Service
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: consts.ServiceName, Namespace: namespace}, &svc)).To(Succeed())

			server := &dnsv1alpha1.DNSServer{
				ObjectMeta: metav1.ObjectMeta{Name: "self", Namespace: namespace},
				Spec: dnsv1alpha1.DNSServerSpec{
					Address: svc.Spec.ClusterIP,
					Zone:    "loop.example.com",
				},
			}
			Expect(k8sClient.Create(ctx, server)).To(Succeed())

			Eventually(func() string {
				var current dnsv1alpha1.DNSServer
				if err := k8sClient.Get(ctx, types.NamespacedName{Name: "self", Namespace: namespace}, &current); err != nil {
					return ""
				}
				condition := meta.FindStatusCondition(current.Status.Conditions, consts.ConditionTypeReady)
				if condition == nil {
					return ""
				}
				return condition.Reason
			}, timeout, interval).Should(Equal(consts.ReasonValidationFailed))

			Consistently(func() string {
				return getCorefile(namespace)
			}, "2s", interval).ShouldNot(ContainSubstring("loop.example.com"))
		})
	})

	Context("When a DNSServer is removed", func() {
		It("Should drop its block from the Corefile", func() {
			namespace := newNamespace()

			instance := &dnsv1alpha1.CoreDNS{
				ObjectMeta: metav1.ObjectMeta{Name: "dns", Namespace: namespace},
				Spec: dnsv1alpha1.CoreDNSSpec{
					Forward: []string{"8.8.8.8"},
				},
			}
			Expect(k8sClient.Create(ctx, instance)).To(Succeed())

			server := &dnsv1alpha1.DNSServer{
				ObjectMeta: metav1.ObjectMeta{Name: "corp", Namespace: namespace},
				Spec: dnsv1alpha1.DNSServerSpec{
					Address: "10.0.0.53",
					Zone:    "corp.example.com",
				},
			}
			Expect(k8sClient.Create(ctx, server)).To(Succeed())

			Eventually(func() string {
				return getCorefile(namespace)
			}, timeout, interval).Should(ContainSubstring("corp.example.com:53 {"))

			Expect(k8sClient.Delete(ctx, server)).To(Succeed())

			Eventually(func() string {
				return getCorefile(namespace)
			}, timeout, interval).ShouldNot(ContainSubstring("corp.example.com"))
		})
	})
})
