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
	"net"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	dnsv1alpha1 "github.com/dnsops/coredns-operator/api/dns/v1alpha1"
	"github.com/dnsops/coredns-operator/internal/dnsprovider"
	"github.com/dnsops/coredns-operator/pkg/consts"
)

// DNSServerReconciler reconciles a DNSServer object
type DNSServerReconciler struct {
	client.Client
	Scheme *runtime.Scheme
}

//+kubebuilder:rbac:groups=dns.dnsops.io,resources=dnsservers,verbs=get;list;watch;create;update;patch;delete
//+kubebuilder:rbac:groups=dns.dnsops.io,resources=dnsservers/status,verbs=get;update;patch

// Reconcile validates a contributed upstream server and records the
// result on its status. The CoreDNS controller watches DNSServers and
// folds valid ones into the rendered Corefile.
func (r *DNSServerReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	var server dnsv1alpha1.DNSServer
	if err := r.Get(ctx, req.NamespacedName, &server); err != nil {
		if apierrors.IsNotFound(err) {
			// The CoreDNS controller re-renders via its own watch.
			return ctrl.Result{}, nil
		}
		logger.Error(err, "unable to fetch DNSServer")
		return ctrl.Result{}, err
	}

	if err := r.validateSpec(&server); err != nil {
		logger.Error(err, "spec validation failed")
		return r.updateStatus(ctx, &server, metav1.ConditionFalse, consts.ReasonValidationFailed, err.Error())
	}

	// A server pointing back at the cluster DNS service would forward
	// queries to itself. CoreDNS's loop plugin would halt the server, so
	// reject the contribution up front.
	fact, err := dnsprovider.Fetch(ctx, r.Client, server.Namespace)
	if err != nil {
		logger.Error(err, "failed to read provider facts")
		return ctrl.Result{}, err
	}
	if fact != nil && fact.Address != "" && hostPart(server.Spec.Address) == fact.Address {
		err := fmt.Errorf("address %q is the cluster DNS service address, forwarding to it would loop", server.Spec.Address)
		logger.Error(err, "spec validation failed")
		return r.updateStatus(ctx, &server, metav1.ConditionFalse, consts.ReasonValidationFailed, err.Error())
	}

	return r.updateStatus(ctx, &server, metav1.ConditionTrue, consts.ReasonReconciliationSucceeded,
		"DNSServer is valid and available for rendering")
}

// validateSpec validates the DNSServer spec fields
func (r *DNSServerReconciler) validateSpec(server *dnsv1alpha1.DNSServer) error {
	addr := server.Spec.Address
	if addr == "" {
		return fmt.Errorf("address cannot be empty")
	}

	if net.ParseIP(hostPart(addr)) == nil {
		return fmt.Errorf("address %q is not a valid IP or IP:port", addr)
	}

	if zone := server.Spec.Zone; zone != "" && zone != "." && strings.ContainsAny(zone, " \t{}") {
		return fmt.Errorf("zone %q is not a valid zone name", zone)
	}

	return nil
}

// hostPart strips an optional port from a resolver address
func hostPart(addr string) string {
	if h, _, err := net.SplitHostPort(addr); err == nil {
		return h
	}
	return addr
}

func (r *DNSServerReconciler) updateStatus(ctx context.Context, server *dnsv1alpha1.DNSServer, status metav1.ConditionStatus, reason, message string) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	meta.SetStatusCondition(&server.Status.Conditions, metav1.Condition{
		Type:               consts.ConditionTypeReady,
		Status:             status,
		ObservedGeneration: server.Generation,
		Reason:             reason,
		Message:            message,
	})

	if err := r.Status().Update(ctx, server); err != nil {
		if apierrors.IsConflict(err) {
			logger.Info("DNSServer status update conflict, will retry")
			return ctrl.Result{Requeue: true}, nil
		}
		logger.Error(err, "failed to update DNSServer status")
		return ctrl.Result{}, err
	}

	logger.Info("DNSServer reconciled", "reason", reason)
	return ctrl.Result{}, nil
}

// SetupWithManager sets up the controller with the Manager.
func (r *DNSServerReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&dnsv1alpha1.DNSServer{}).
		Complete(r)
}
