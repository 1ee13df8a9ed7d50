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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	dnsv1alpha1 "github.com/dnsops/coredns-operator/api/dns/v1alpha1"
	"github.com/dnsops/coredns-operator/pkg/consts"
)

var _ = Describe("Corefile override and invalid intent", func() {
	const override = `.:53 {
    errors
    forward . 9.9.9.9
}
`

	Context("When corefileOverride is set", func() {
		It("Should use the override verbatim regardless of other fields", func() {
			namespace := newNamespace()

			instance := &dnsv1alpha1.CoreDNS{
				ObjectMeta: metav1.ObjectMeta{Name: "dns", Namespace: namespace},
				Spec: dnsv1alpha1.CoreDNSSpec{
					Forward:          []string{"8.8.8.8"},
					CorefileOverride: override,
				},
			}
			Expect(k8sClient.Create(ctx, instance)).To(Succeed())

			Eventually(func() string {
				return getCorefile(namespace)
			}, timeout, interval).Should(Equal(override))

			Eventually(func() string {
				return getPhase(namespace, "dns")
			}, timeout, interval).Should(Equal(consts.PhaseConverged))
			firstHash := getAppliedHash(namespace, "dns")

			By("changing computed fields under the override")
			Eventually(func() error {
				var current dnsv1alpha1.CoreDNS
				if err := k8sClient.Get(ctx, types.NamespacedName{Name: "dns", Namespace: namespace}, &current); err != nil {
					return err
				}
				current.Spec.Forward = []string{"1.1.1.1"}
				current.Spec.ClusterDomain = "other.local"
				return k8sClient.Update(ctx, &current)
			}, timeout, interval).Should(Succeed())

			Consistently(func() string {
				return getCorefile(namespace)
			}, "2s", interval).Should(Equal(override))
			Expect(getAppliedHash(namespace, "dns")).To(Equal(firstHash))
		})
	})

	Context("When the intent cannot be rendered", func() {
		It("Should block with InvalidIntent and never touch the workload", func() {
			namespace := newNamespace()

			instance := &dnsv1alpha1.CoreDNS{
				ObjectMeta: metav1.ObjectMeta{Name: "dns", Namespace: namespace},
				Spec:       dnsv1alpha1.CoreDNSSpec{},
			}
			Expect(k8sClient.Create(ctx, instance)).To(Succeed())

			Eventually(func() string {
				return getPhase(namespace, "dns")
			}, timeout, interval).Should(Equal(consts.PhaseFailed))
			Expect(readyReason(namespace, "dns")).To(Equal(consts.ReasonInvalidIntent))

			Consistently(func() bool {
				var cm corev1.ConfigMap
				err := k8sClient.Get(ctx, types.NamespacedName{Name: consts.ConfigMapName, Namespace: namespace}, &cm)
				return apierrors.IsNotFound(err)
			}, "2s", interval).Should(BeTrue(), "no apply may be attempted for invalid intent")
		})

		It("Should recover once the intent is corrected", func() {
			namespace := newNamespace()

			instance := &dnsv1alpha1.CoreDNS{
				ObjectMeta: metav1.ObjectMeta{Name: "dns", Namespace: namespace},
				Spec:       dnsv1alpha1.CoreDNSSpec{},
			}
			Expect(k8sClient.Create(ctx, instance)).To(Succeed())

			Eventually(func() string {
				return getPhase(namespace, "dns")
			}, timeout, interval).Should(Equal(consts.PhaseFailed))

			Eventually(func() error {
				var current dnsv1alpha1.CoreDNS
				if err := k8sClient.Get(ctx, types.NamespacedName{Name: "dns", Namespace: namespace}, &current); err != nil {
					return err
				}
				current.Spec.Forward = []string{"8.8.8.8"}
				return k8sClient.Update(ctx, &current)
			}, timeout, interval).Should(Succeed())

			Eventually(func() string {
				return getPhase(namespace, "dns")
			}, timeout, interval).Should(Equal(consts.PhaseConverged))
			Eventually(func() string {
				return getCorefile(namespace)
			}, timeout, interval).Should(ContainSubstring("forward . 8.8.8.8"))
		})
	})
})
