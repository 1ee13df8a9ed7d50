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

// Package workload is the apply side of the reconciler: it owns the
// ConfigMap, Deployment and Service that make up a CoreDNS deployment and
// reports the observable state back to the controller.
package workload

import (
	"context"
	"reflect"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	dnsv1alpha1 "github.com/dnsops/coredns-operator/api/dns/v1alpha1"
	"github.com/dnsops/coredns-operator/internal/corefile"
	"github.com/dnsops/coredns-operator/internal/reconcile"
	"github.com/dnsops/coredns-operator/pkg/consts"
)

// Applier converges the workload objects for a CoreDNS instance.
type Applier struct {
	client.Client

	// DefaultImage is used when the instance does not pin one.
	DefaultImage string
}

// Apply writes the Corefile ConfigMap and converges the Deployment and
// Service. The artifact hash is stamped into the pod template so pods
// roll on config change. The first failed write aborts the apply; errors
// carry a transient/fatal classification.
func (a *Applier) Apply(ctx context.Context, instance *dnsv1alpha1.CoreDNS, art corefile.Artifact) error {
	image := instance.Spec.Image
	if image == "" {
		image = a.DefaultImage
	}

	if err := a.applyConfigMap(ctx, ConfigMap(instance, art)); err != nil {
		return Classify(err)
	}
	if err := a.applyDeployment(ctx, Deployment(instance, image, art)); err != nil {
		return Classify(err)
	}
	if err := a.applyService(ctx, Service(instance)); err != nil {
		return Classify(err)
	}
	return nil
}

// ObservedHash re-derives the applied hash from the live workload
// instead of trusting stale status, so a crash mid-apply is recovered on
// the next trigger. A hash only counts as applied when the Corefile
// ConfigMap and the Deployment's pod template agree on it; any
// disagreement (partial apply) reports "" and forces a fresh apply.
func (a *Applier) ObservedHash(ctx context.Context, namespace string) (string, error) {
	var cm corev1.ConfigMap
	err := a.Get(ctx, types.NamespacedName{Name: consts.ConfigMapName, Namespace: namespace}, &cm)
	if err != nil {
		if apierrors.IsNotFound(err) {
			return "", nil
		}
		return "", err
	}
	text, ok := cm.Data[consts.CorefileKey]
	if !ok {
		return "", nil
	}
	hash := corefile.Sum(text)

	var deploy appsv1.Deployment
	err = a.Get(ctx, types.NamespacedName{Name: consts.DeploymentName, Namespace: namespace}, &deploy)
	if err != nil {
		if apierrors.IsNotFound(err) {
			return "", nil
		}
		return "", err
	}
	if deploy.Spec.Template.Annotations[consts.CorefileHashAnnot] != hash {
		return "", nil
	}
	return hash, nil
}

// ServiceAddress returns the ClusterIP of the DNS service, or "" while
// the service has no address yet.
func (a *Applier) ServiceAddress(ctx context.Context, namespace string) (string, error) {
	var svc corev1.Service
	err := a.Get(ctx, types.NamespacedName{Name: consts.ServiceName, Namespace: namespace}, &svc)
	if err != nil {
		if apierrors.IsNotFound(err) {
			return "", nil
		}
		return "", err
	}
	ip := svc.Spec.ClusterIP
	if ip == "" || ip == corev1.ClusterIPNone {
		return "", nil
	}
	return ip, nil
}

func (a *Applier) applyConfigMap(ctx context.Context, desired *corev1.ConfigMap) error {
	var existing corev1.ConfigMap
	err := a.Get(ctx, client.ObjectKeyFromObject(desired), &existing)
	if apierrors.IsNotFound(err) {
		return a.Create(ctx, desired)
	}
	if err != nil {
		return err
	}
	if reflect.DeepEqual(existing.Data, desired.Data) &&
		existing.Annotations[consts.CorefileHashAnnot] == desired.Annotations[consts.CorefileHashAnnot] {
		return nil
	}
	patch := client.MergeFrom(existing.DeepCopy())
	existing.Data = desired.Data
	existing.Labels = desired.Labels
	existing.Annotations = desired.Annotations
	return a.Patch(ctx, &existing, patch)
}

func (a *Applier) applyDeployment(ctx context.Context, desired *appsv1.Deployment) error {
	logger := log.FromContext(ctx)

	var existing appsv1.Deployment
	err := a.Get(ctx, client.ObjectKeyFromObject(desired), &existing)
	if apierrors.IsNotFound(err) {
		return a.Create(ctx, desired)
	}
	if err != nil {
		return err
	}
	if reflect.DeepEqual(existing.Spec.Template.Annotations, desired.Spec.Template.Annotations) &&
		reflect.DeepEqual(existing.Spec.Replicas, desired.Spec.Replicas) &&
		containersEqual(existing.Spec.Template.Spec.Containers, desired.Spec.Template.Spec.Containers) {
		return nil
	}
	logger.Info("Rolling CoreDNS deployment",
		"hash", desired.Spec.Template.Annotations[consts.CorefileHashAnnot])
	patch := client.MergeFrom(existing.DeepCopy())
	existing.Spec = desired.Spec
	existing.Labels = desired.Labels
	return a.Patch(ctx, &existing, patch)
}

func (a *Applier) applyService(ctx context.Context, desired *corev1.Service) error {
	var existing corev1.Service
	err := a.Get(ctx, client.ObjectKeyFromObject(desired), &existing)
	if apierrors.IsNotFound(err) {
		return a.Create(ctx, desired)
	}
	if err != nil {
		return err
	}
	if reflect.DeepEqual(existing.Spec.Selector, desired.Spec.Selector) &&
		reflect.DeepEqual(existing.Spec.Ports, desired.Spec.Ports) {
		return nil
	}
	patch := client.MergeFrom(existing.DeepCopy())
	existing.Spec.Selector = desired.Spec.Selector
	existing.Spec.Ports = desired.Spec.Ports
	existing.Labels = desired.Labels
	return a.Patch(ctx, &existing, patch)
}

func containersEqual(a, b []corev1.Container) bool {
	if len(a) != len(b) || len(a) == 0 {
		return len(a) == len(b)
	}
	// Image and resources are the only container fields driven by spec.
	return a[0].Image == b[0].Image &&
		reflect.DeepEqual(a[0].Resources.Limits, b[0].Resources.Limits)
}

// Classify wraps an API error with its retry classification. Conflicts,
// timeouts and unavailability are transient; schema and authorization
// failures require operator intervention.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case apierrors.IsInvalid(err), apierrors.IsBadRequest(err),
		apierrors.IsForbidden(err), apierrors.IsUnauthorized(err),
		apierrors.IsRequestEntityTooLargeError(err):
		return &reconcile.ApplyError{Err: err, Retryable: false}
	default:
		return &reconcile.ApplyError{Err: err, Retryable: true}
	}
}
