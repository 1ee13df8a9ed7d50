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
	externaldnsv1alpha1 "sigs.k8s.io/external-dns/apis/v1alpha1"

	dnsv1alpha1 "github.com/dnsops/coredns-operator/api/dns/v1alpha1"
	"github.com/dnsops/coredns-operator/pkg/consts"
)

var _ = Describe("Advertise host", func() {
	Context("When spec.advertiseHost is set", func() {
		It("Should create a DNSEndpoint targeting the service address and remove it when cleared", func() {
			namespace := newNamespace()

			instance := &dnsv1alpha1.CoreDNS{
				ObjectMeta: metav1.ObjectMeta{Name: "dns", Namespace: namespace},
				Spec: dnsv1alpha1.CoreDNSSpec{
					Forward:       []string{"8.8.8.8"},
					AdvertiseHost: "dns.example.com",
				},
			}
			Expect(k8sClient.Create(ctx, instance)).To(Succeed())

			Eventually(func() string {
				return getPhase(namespace, "dns")
			}, timeout, interval).Should(Equal(consts.PhaseConverged))

			var service corev1.Service
			Expect(k8sClient.Get(ctx, types.NamespacedName{Name: consts.ServiceName, Namespace: namespace}, &service)).To(Succeed())
			Expect(service.Spec.ClusterIP).NotTo(BeEmpty())

			endpointKey := types.NamespacedName{Name: "dns-advertise", Namespace: namespace}
			Eventually(func() bool {
				var endpoint externaldnsv1alpha1.DNSEndpoint
				if err := k8sClient.Get(ctx, endpointKey, &endpoint); err != nil {
					return false
				}
				if len(endpoint.Spec.Endpoints) != 1 {
					return false
				}
				record := endpoint.Spec.Endpoints[0]
				return record.DNSName == "dns.example.com" &&
					record.RecordType == "A" &&
					len(record.Targets) == 1 &&
					record.Targets[0] == service.Spec.ClusterIP
			}, timeout, interval).Should(BeTrue())

			By("clearing advertiseHost")
			Eventually(func() error {
				var current dnsv1alpha1.CoreDNS
				if err := k8sClient.Get(ctx, types.NamespacedName{Name: "dns", Namespace: namespace}, &current); err != nil {
					return err
				}
				current.Spec.AdvertiseHost = ""
				return k8sClient.Update(ctx, &current)
			}, timeout, interval).Should(Succeed())

			Eventually(func() bool {
				var endpoint externaldnsv1alpha1.DNSEndpoint
				err := k8sClient.Get(ctx, endpointKey, &endpoint)
				return apierrors.IsNotFound(err)
			}, timeout, interval).Should(BeTrue())
		})
	})
})
