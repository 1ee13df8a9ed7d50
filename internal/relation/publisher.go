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

// Package relation publishes the DNS provider facts to downstream
// consumers: a ConfigMap carrying the service address, and optionally an
// external-dns DNSEndpoint advertising it under a hostname.
package relation

import (
	"context"
	"fmt"
	"reflect"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"
	externaldnsv1alpha1 "sigs.k8s.io/external-dns/apis/v1alpha1"
	externaldnsendpoint "sigs.k8s.io/external-dns/endpoint"

	dnsv1alpha1 "github.com/dnsops/coredns-operator/api/dns/v1alpha1"
	"github.com/dnsops/coredns-operator/internal/dnsprovider"
	"github.com/dnsops/coredns-operator/pkg/consts"
)

// Publisher writes provider facts for consumers of the DNS deployment.
type Publisher struct {
	client.Client
}

// Publish upserts the provider ConfigMap with the fact. Publishing an
// unchanged fact is a no-op, so consumers never observe duplicate events.
// The live ConfigMap is always consulted: an out-of-band deletion must be
// repaired on the next trigger, so the cache is never trusted here.
func (p *Publisher) Publish(ctx context.Context, instance *dnsv1alpha1.CoreDNS, fact dnsprovider.Fact) error {
	logger := log.FromContext(ctx)

	desired := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      consts.ProviderConfigMapName,
			Namespace: instance.Namespace,
			Labels: map[string]string{
				consts.ManagedByLabel: consts.ManagedByValue,
				consts.InstanceLabel:  instance.Name,
			},
			OwnerReferences: []metav1.OwnerReference{
				*metav1.NewControllerRef(instance, dnsv1alpha1.GroupVersion.WithKind("CoreDNS")),
			},
		},
		Data: map[string]string{
			"domain": fact.Domain,
			"sdn-ip": fact.Address,
			"port":   fact.Port,
		},
	}

	var existing corev1.ConfigMap
	err := p.Get(ctx, client.ObjectKeyFromObject(desired), &existing)
	if apierrors.IsNotFound(err) {
		if err := p.Create(ctx, desired); err != nil {
			return err
		}
		logger.Info("Published DNS provider facts", "address", fact.Address, "domain", fact.Domain)
		dnsprovider.Set(instance.Namespace, &fact)
		return nil
	}
	if err != nil {
		return err
	}

	if reflect.DeepEqual(existing.Data, desired.Data) {
		dnsprovider.Set(instance.Namespace, &fact)
		return nil
	}

	patch := client.MergeFrom(existing.DeepCopy())
	existing.Data = desired.Data
	if err := p.Patch(ctx, &existing, patch); err != nil {
		return err
	}
	logger.Info("Updated DNS provider facts", "address", fact.Address, "domain", fact.Domain)
	dnsprovider.Set(instance.Namespace, &fact)
	return nil
}

// Withdraw removes the published facts for a torn-down instance.
func (p *Publisher) Withdraw(ctx context.Context, namespace string) error {
	dnsprovider.Clear(namespace)

	var cm corev1.ConfigMap
	err := p.Get(ctx, types.NamespacedName{Name: consts.ProviderConfigMapName, Namespace: namespace}, &cm)
	if apierrors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := p.Delete(ctx, &cm); err != nil && !apierrors.IsNotFound(err) {
		return err
	}
	return nil
}

// Advertise upserts a DNSEndpoint A record mapping host to the service
// address, for external-dns to realize. Host comes from
// spec.advertiseHost; no-op when the record already matches.
func (p *Publisher) Advertise(ctx context.Context, instance *dnsv1alpha1.CoreDNS, host, address string) error {
	desired := p.buildDNSEndpoint(instance, host, address)

	var existing externaldnsv1alpha1.DNSEndpoint
	err := p.Get(ctx, client.ObjectKeyFromObject(desired), &existing)
	if apierrors.IsNotFound(err) {
		return p.Create(ctx, desired)
	}
	if err != nil {
		return err
	}
	if reflect.DeepEqual(existing.Spec, desired.Spec) {
		return nil
	}
	patch := client.MergeFrom(existing.DeepCopy())
	existing.Spec = desired.Spec
	existing.Labels = desired.Labels
	return p.Patch(ctx, &existing, patch)
}

// Unadvertise deletes the DNSEndpoint when advertiseHost is cleared.
func (p *Publisher) Unadvertise(ctx context.Context, instance *dnsv1alpha1.CoreDNS) error {
	var existing externaldnsv1alpha1.DNSEndpoint
	err := p.Get(ctx, types.NamespacedName{
		Name:      endpointName(instance),
		Namespace: instance.Namespace,
	}, &existing)
	if apierrors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := p.Delete(ctx, &existing); err != nil && !apierrors.IsNotFound(err) {
		return err
	}
	return nil
}

func endpointName(instance *dnsv1alpha1.CoreDNS) string {
	return fmt.Sprintf("%s-advertise", instance.Name)
}

func (p *Publisher) buildDNSEndpoint(instance *dnsv1alpha1.CoreDNS, host, address string) *externaldnsv1alpha1.DNSEndpoint {
	return &externaldnsv1alpha1.DNSEndpoint{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "externaldns.k8s.io/v1alpha1",
			Kind:       "DNSEndpoint",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      endpointName(instance),
			Namespace: instance.Namespace,
			Labels: map[string]string{
				consts.ManagedByLabel: consts.ManagedByValue,
				consts.InstanceLabel:  instance.Name,
			},
			OwnerReferences: []metav1.OwnerReference{
				*metav1.NewControllerRef(instance, dnsv1alpha1.GroupVersion.WithKind("CoreDNS")),
			},
		},
		Spec: externaldnsv1alpha1.DNSEndpointSpec{
			Endpoints: []*externaldnsendpoint.Endpoint{
				{
					DNSName:    host,
					RecordType: "A",
					Targets:    externaldnsendpoint.Targets{address},
				},
			},
		},
	}
}
