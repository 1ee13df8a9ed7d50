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

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// CoreDNSSpec defines the desired state of a CoreDNS deployment
type CoreDNSSpec struct {
	// Forward lists the upstream resolver addresses queries outside the
	// cluster domain are forwarded to
	// +optional
	Forward []string `json:"forward,omitempty"`

	// ClusterDomain is the cluster-internal DNS domain served by the
	// kubernetes plugin. Defaults to "cluster.local".
	// +optional
	ClusterDomain string `json:"clusterDomain,omitempty"`

	// CorefileOverride replaces the rendered Corefile verbatim.
	// When set, all other rendering fields are ignored.
	// +optional
	CorefileOverride string `json:"corefileOverride,omitempty"`

	// ExtraServers lists additional server blocks appended after the
	// primary one, in the order given
	// +optional
	ExtraServers []ExtraServer `json:"extraServers,omitempty"`

	// Image is the CoreDNS container image reference. Defaults to the
	// operator's --coredns-image flag.
	// +optional
	Image string `json:"image,omitempty"`

	// Replicas is the number of CoreDNS pods
	// +optional
	Replicas *int32 `json:"replicas,omitempty"`

	// MemoryLimit bounds the CoreDNS container memory (e.g. "170Mi")
	// +optional
	MemoryLimit string `json:"memoryLimit,omitempty"`

	// AdvertiseHost is an optional FQDN published as an A record for the
	// DNS service address via external-dns
	// +optional
	AdvertiseHost string `json:"advertiseHost,omitempty"`
}

// ExtraServer defines an additional upstream server block
type ExtraServer struct {
	// Name identifies the server block (used as its zone when Zone is empty)
	// +kubebuilder:validation:Required
	Name string `json:"name"`

	// Address is the upstream resolver address for this block
	// +kubebuilder:validation:Required
	Address string `json:"address"`

	// Zone restricts the block to a zone. Defaults to Name.
	// +optional
	Zone string `json:"zone,omitempty"`
}

// CoreDNSStatus defines the observed state of CoreDNS
type CoreDNSStatus struct {
	// Phase is one of Converged, Pending or Failed
	// +optional
	Phase string `json:"phase,omitempty"`

	// AppliedHash is the digest of the last successfully applied Corefile
	// +optional
	AppliedHash string `json:"appliedHash,omitempty"`

	// ServiceAddress is the ClusterIP of the DNS service
	// +optional
	ServiceAddress string `json:"serviceAddress,omitempty"`

	// Conditions represent the latest available observations
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status
//+kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
//+kubebuilder:printcolumn:name="Address",type=string,JSONPath=`.status.serviceAddress`
//+kubebuilder:storageversion

// CoreDNS is the Schema for the corednses API
type CoreDNS struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   CoreDNSSpec   `json:"spec,omitempty"`
	Status CoreDNSStatus `json:"status,omitempty"`
}

//+kubebuilder:object:root=true

// CoreDNSList contains a list of CoreDNS
type CoreDNSList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []CoreDNS `json:"items"`
}

func init() {
	SchemeBuilder.Register(&CoreDNS{}, &CoreDNSList{})
}
