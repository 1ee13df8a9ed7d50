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

// DNSServerSpec defines an upstream server contributed by another component.
// DNSServer resources in a CoreDNS namespace are appended to the rendered
// Corefile after the spec's inline extra servers.
type DNSServerSpec struct {
	// Address is the resolver address (IP or host:port)
	// +kubebuilder:validation:Required
	Address string `json:"address"`

	// Zone restricts forwarding to a zone. Defaults to ".".
	// +optional
	Zone string `json:"zone,omitempty"`
}

// DNSServerStatus defines the observed state of DNSServer
type DNSServerStatus struct {
	// Conditions represent the latest available observations
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status
//+kubebuilder:printcolumn:name="Address",type=string,JSONPath=`.spec.address`
//+kubebuilder:printcolumn:name="Zone",type=string,JSONPath=`.spec.zone`

// DNSServer is the Schema for the dnsservers API
type DNSServer struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   DNSServerSpec   `json:"spec,omitempty"`
	Status DNSServerStatus `json:"status,omitempty"`
}

//+kubebuilder:object:root=true

// DNSServerList contains a list of DNSServer
type DNSServerList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []DNSServer `json:"items"`
}

func init() {
	SchemeBuilder.Register(&DNSServer{}, &DNSServerList{})
}
