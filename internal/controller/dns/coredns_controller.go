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

package dns

import (
	"context"
	"fmt"
	"sort"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/handler"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"
	externaldnsv1alpha1 "sigs.k8s.io/external-dns/apis/v1alpha1"

	dnsv1alpha1 "github.com/dnsops/coredns-operator/api/dns/v1alpha1"
	"github.com/dnsops/coredns-operator/internal/corefile"
	"github.com/dnsops/coredns-operator/internal/dnsprovider"
	core "github.com/dnsops/coredns-operator/internal/reconcile"
	"github.com/dnsops/coredns-operator/internal/relation"
	"github.com/dnsops/coredns-operator/internal/workload"
	"github.com/dnsops/coredns-operator/pkg/consts"
)

// CoreDNSReconciler reconciles a CoreDNS object
type CoreDNSReconciler struct {
	client.Client
	Scheme    *runtime.Scheme
	Applier   *workload.Applier
	Publisher *relation.Publisher
}

//+kubebuilder:rbac:groups=dns.dnsops.io,resources=corednses,verbs=get;list;watch;create;update;patch;delete
//+kubebuilder:rbac:groups=dns.dnsops.io,resources=corednses/status,verbs=get;update;patch
//+kubebuilder:rbac:groups=dns.dnsops.io,resources=corednses/finalizers,verbs=update
//+kubebuilder:rbac:groups=dns.dnsops.io,resources=dnsservers,verbs=get;list;watch
//+kubebuilder:rbac:groups=externaldns.k8s.io,resources=dnsendpoints,verbs=get;list;watch;create;update;patch;delete
//+kubebuilder:rbac:groups=apps,resources=deployments,verbs=get;list;watch;create;update;patch;delete
//+kubebuilder:rbac:groups="",resources=configmaps;services,verbs=get;list;watch;create;update;patch;delete

// Reconcile is part of the main kubernetes reconciliation loop which aims to
// move the current state of the cluster closer to the desired state.
//
// The decision itself is delegated to the pure kernel in
// internal/reconcile; this driver only gathers intent, performs the apply
// and records the outcome.
func (r *CoreDNSReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	// Retrieve the CoreDNS instance. Workload objects are garbage
	// collected through owner references; the published facts are
	// withdrawn explicitly so consumers see the relation go away.
	var instance dnsv1alpha1.CoreDNS
	if err := r.Get(ctx, req.NamespacedName, &instance); err != nil {
		if apierrors.IsNotFound(err) {
			logger.Info("CoreDNS deleted", "name", req.Name, "namespace", req.Namespace, "action", "withdrawing provider facts")
			if err := r.Publisher.Withdraw(ctx, req.Namespace); err != nil {
				logger.Error(err, "failed to withdraw provider facts")
				return ctrl.Result{}, err
			}
			return ctrl.Result{}, nil
		}
		logger.Error(err, "unable to fetch CoreDNS")
		return ctrl.Result{}, err
	}

	// Ensure singleton per namespace: two instances would fight over the
	// same fixed-name workload objects.
	if err := r.validateSingleton(ctx, &instance); err != nil {
		logger.Error(err, "singleton validation failed")
		return r.updateStatusFailed(ctx, &instance, consts.ReasonSingletonViolation, err.Error())
	}

	intent, err := r.buildIntent(ctx, &instance)
	if err != nil {
		logger.Error(err, "failed to build intent")
		return ctrl.Result{}, err
	}

	// The live workload is the authoritative observed state. Status is a
	// user-visible record only; re-deriving from the workload recovers a
	// crash between the apply and the status write.
	observedHash, err := r.Applier.ObservedHash(ctx, instance.Namespace)
	if err != nil {
		logger.Error(err, "failed to read observed workload state")
		return ctrl.Result{}, err
	}
	observed := core.ObservedState{
		AppliedHash:    observedHash,
		ServiceAddress: instance.Status.ServiceAddress,
	}

	decision := core.Decide(intent, observed)
	switch decision.Action {
	case core.ActionFail:
		logger.Error(decision.Err, "intent cannot be rendered")
		return r.updateStatusFailed(ctx, &instance, consts.ReasonInvalidIntent, decision.Err.Error())

	case core.ActionApply:
		logger.Info("Applying rendered Corefile", "hash", decision.Artifact.Hash)
		if err := r.Applier.Apply(ctx, &instance, decision.Artifact); err != nil {
			if core.Retryable(err) {
				logger.Error(err, "apply failed transiently, will retry")
				if _, serr := r.updateStatusPending(ctx, &instance, consts.ReasonApplyTransient, err.Error()); serr != nil {
					logger.Error(serr, "failed to update status after transient apply failure")
				}
				// Returning the error lets the workqueue requeue with backoff.
				return ctrl.Result{}, err
			}
			logger.Error(err, "apply failed fatally, operator intervention required")
			return r.updateStatusFailed(ctx, &instance, consts.ReasonApplyFatal, err.Error())
		}
		observed = core.Commit(observed, decision.Artifact)

	case core.ActionNoOp:
		logger.V(1).Info("Workload already matches intent", "hash", observed.AppliedHash)
	}

	// Surface the service address and publish it to consumers.
	address, err := r.Applier.ServiceAddress(ctx, instance.Namespace)
	if err != nil {
		logger.Error(err, "failed to read service address")
		return ctrl.Result{}, err
	}
	if address == "" {
		return r.updateStatusPending(ctx, &instance, consts.ReasonServiceAddressPending,
			"Waiting for the DNS service to be assigned an address")
	}
	observed.ServiceAddress = address

	domain := intent.ClusterDomain
	if domain == "" {
		domain = consts.DefaultClusterDomain
	}
	if err := r.Publisher.Publish(ctx, &instance, dnsprovider.Fact{
		Domain:  domain,
		Address: address,
		Port:    "53",
	}); err != nil {
		logger.Error(err, "failed to publish provider facts")
		return ctrl.Result{}, err
	}

	if instance.Spec.AdvertiseHost != "" {
		if err := r.Publisher.Advertise(ctx, &instance, instance.Spec.AdvertiseHost, address); err != nil {
			logger.Error(err, "failed to advertise DNS service address")
			return ctrl.Result{}, err
		}
	} else {
		if err := r.Publisher.Unadvertise(ctx, &instance); err != nil {
			logger.Error(err, "failed to remove stale advertisement")
			return ctrl.Result{}, err
		}
	}

	return r.updateStatusConverged(ctx, &instance, observed)
}

// validateSingleton ensures only one CoreDNS resource exists per namespace
func (r *CoreDNSReconciler) validateSingleton(ctx context.Context, current *dnsv1alpha1.CoreDNS) error {
	var instances dnsv1alpha1.CoreDNSList
	if err := r.List(ctx, &instances, client.InNamespace(current.Namespace)); err != nil {
		return fmt.Errorf("failed to list CoreDNS instances: %w", err)
	}

	if len(instances.Items) > 1 {
		return fmt.Errorf("only one CoreDNS resource is allowed per namespace, found %d", len(instances.Items))
	}

	return nil
}

// buildIntent assembles the rendering intent from the spec plus the
// DNSServer resources in the namespace. Inline extra servers come first;
// DNSServers follow in creation order (name breaks ties) so the rendered
// output is stable across reconciliations.
func (r *CoreDNSReconciler) buildIntent(ctx context.Context, instance *dnsv1alpha1.CoreDNS) (corefile.Intent, error) {
	logger := log.FromContext(ctx)

	intent := corefile.Intent{
		Forward:       instance.Spec.Forward,
		ClusterDomain: instance.Spec.ClusterDomain,
		Override:      instance.Spec.CorefileOverride,
	}
	for _, s := range instance.Spec.ExtraServers {
		intent.ExtraServers = append(intent.ExtraServers, corefile.ExtraServer{
			Name:    s.Name,
			Address: s.Address,
			Zone:    s.Zone,
		})
	}

	var servers dnsv1alpha1.DNSServerList
	if err := r.List(ctx, &servers, client.InNamespace(instance.Namespace)); err != nil {
		return corefile.Intent{}, fmt.Errorf("failed to list DNSServers: %w", err)
	}

	items := servers.Items
	sort.Slice(items, func(i, j int) bool {
		ti, tj := items[i].CreationTimestamp, items[j].CreationTimestamp
		if !ti.Equal(&tj) {
			return ti.Before(&tj)
		}
		return items[i].Name < items[j].Name
	})

	for _, s := range items {
		if !meta.IsStatusConditionTrue(s.Status.Conditions, consts.ConditionTypeReady) {
			// Validation problems are surfaced on the DNSServer's own
			// status; skipping keeps one bad contribution from blocking
			// the whole deployment. The watch fires again once the
			// DNSServer controller marks it Ready.
			logger.V(1).Info("Skipping DNSServer that is not Ready", "dnsServer", s.Name)
			continue
		}
		zone := s.Spec.Zone
		if zone == "" {
			zone = "."
		}
		intent.ExtraServers = append(intent.ExtraServers, corefile.ExtraServer{
			Name:    s.Name,
			Address: s.Spec.Address,
			Zone:    zone,
		})
	}

	return intent, nil
}

// updateStatusConverged updates the CoreDNS status to Converged
func (r *CoreDNSReconciler) updateStatusConverged(ctx context.Context, instance *dnsv1alpha1.CoreDNS, observed core.ObservedState) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	instance.Status.Phase = consts.PhaseConverged
	instance.Status.AppliedHash = observed.AppliedHash
	instance.Status.ServiceAddress = observed.ServiceAddress
	meta.SetStatusCondition(&instance.Status.Conditions, metav1.Condition{
		Type:               consts.ConditionTypeReady,
		Status:             metav1.ConditionTrue,
		ObservedGeneration: instance.Generation,
		Reason:             consts.ReasonReconciliationSucceeded,
		Message:            "CoreDNS workload matches the declared configuration",
	})

	if err := r.Status().Update(ctx, instance); err != nil {
		if apierrors.IsConflict(err) {
			logger.Info("CoreDNS status update conflict (Converged), will retry")
			return ctrl.Result{Requeue: true}, nil
		}
		logger.Error(err, "failed to update CoreDNS status to Converged")
		return ctrl.Result{}, err
	}

	logger.Info("CoreDNS reconciled successfully", "hash", observed.AppliedHash, "serviceAddress", observed.ServiceAddress)
	return ctrl.Result{}, nil
}

// updateStatusPending updates the CoreDNS status to Pending
func (r *CoreDNSReconciler) updateStatusPending(ctx context.Context, instance *dnsv1alpha1.CoreDNS, reason, message string) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	instance.Status.Phase = consts.PhasePending
	meta.SetStatusCondition(&instance.Status.Conditions, metav1.Condition{
		Type:               consts.ConditionTypeReady,
		Status:             metav1.ConditionFalse,
		ObservedGeneration: instance.Generation,
		Reason:             reason,
		Message:            message,
	})

	if err := r.Status().Update(ctx, instance); err != nil {
		if apierrors.IsConflict(err) {
			logger.Info("CoreDNS status update conflict (Pending), will retry")
			return ctrl.Result{Requeue: true}, nil
		}
		logger.Error(err, "failed to update CoreDNS status to Pending")
		return ctrl.Result{}, err
	}

	logger.Info("CoreDNS marked as Pending", "reason", reason, "message", message)
	return ctrl.Result{}, nil
}

// updateStatusFailed updates the CoreDNS status to Failed
func (r *CoreDNSReconciler) updateStatusFailed(ctx context.Context, instance *dnsv1alpha1.CoreDNS, reason, message string) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	instance.Status.Phase = consts.PhaseFailed
	meta.SetStatusCondition(&instance.Status.Conditions, metav1.Condition{
		Type:               consts.ConditionTypeReady,
		Status:             metav1.ConditionFalse,
		ObservedGeneration: instance.Generation,
		Reason:             reason,
		Message:            message,
	})

	if err := r.Status().Update(ctx, instance); err != nil {
		if apierrors.IsConflict(err) {
			logger.Info("CoreDNS status update conflict (Failed), will retry")
			return ctrl.Result{Requeue: true}, nil
		}
		logger.Error(err, "failed to update CoreDNS status to Failed")
		return ctrl.Result{}, err
	}

	logger.Info("CoreDNS marked as Failed", "reason", reason, "message", message)
	// Return nil to stop the reconciliation loop, as the status is correctly reported as Failed.
	return ctrl.Result{}, nil
}

// mapDNSServerToCoreDNS returns the CoreDNS instances in a DNSServer's namespace
func (r *CoreDNSReconciler) mapDNSServerToCoreDNS(ctx context.Context, obj client.Object) []reconcile.Request {
	var instances dnsv1alpha1.CoreDNSList
	if err := r.List(ctx, &instances, client.InNamespace(obj.GetNamespace())); err != nil {
		return nil
	}

	var requests []reconcile.Request
	for _, instance := range instances.Items {
		requests = append(requests, reconcile.Request{
			NamespacedName: types.NamespacedName{
				Name:      instance.Name,
				Namespace: instance.Namespace,
			},
		})
	}

	return requests
}

// SetupWithManager sets up the controller with the Manager.
func (r *CoreDNSReconciler) SetupWithManager(mgr ctrl.Manager) error {
	// Register ExternalDNS types with the scheme
	if err := externaldnsv1alpha1.AddToScheme(mgr.GetScheme()); err != nil {
		return err
	}

	return ctrl.NewControllerManagedBy(mgr).
		For(&dnsv1alpha1.CoreDNS{}).
		Owns(&corev1.ConfigMap{}).
		Owns(&appsv1.Deployment{}).
		Owns(&corev1.Service{}).
		Owns(&externaldnsv1alpha1.DNSEndpoint{}).
		Watches(
			&dnsv1alpha1.DNSServer{},
			handler.EnqueueRequestsFromMapFunc(r.mapDNSServerToCoreDNS),
		).
		Complete(r)
}
