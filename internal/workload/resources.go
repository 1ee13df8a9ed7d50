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

package workload

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	dnsv1alpha1 "github.com/dnsops/coredns-operator/api/dns/v1alpha1"
	"github.com/dnsops/coredns-operator/internal/corefile"
	"github.com/dnsops/coredns-operator/pkg/consts"
)

// Labels returns the common labels for workload objects owned by instance.
func Labels(instance *dnsv1alpha1.CoreDNS) map[string]string {
	return map[string]string{
		"k8s-app":             "kube-dns",
		consts.ManagedByLabel: consts.ManagedByValue,
		consts.InstanceLabel:  instance.Name,
	}
}

func ownerRef(instance *dnsv1alpha1.CoreDNS) metav1.OwnerReference {
	return *metav1.NewControllerRef(instance, dnsv1alpha1.GroupVersion.WithKind("CoreDNS"))
}

// ConfigMap builds the Corefile ConfigMap for the given artifact.
func ConfigMap(instance *dnsv1alpha1.CoreDNS, art corefile.Artifact) *corev1.ConfigMap {
	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:            consts.ConfigMapName,
			Namespace:       instance.Namespace,
			Labels:          Labels(instance),
			OwnerReferences: []metav1.OwnerReference{ownerRef(instance)},
			Annotations: map[string]string{
				consts.CorefileHashAnnot: art.Hash,
			},
		},
		Data: map[string]string{
			consts.CorefileKey: art.Text,
		},
	}
}

// Deployment builds the CoreDNS Deployment. The artifact hash is stamped
// into the pod template annotations so a config change rolls the pods.
func Deployment(instance *dnsv1alpha1.CoreDNS, image string, art corefile.Artifact) *appsv1.Deployment {
	labels := Labels(instance)
	replicas := int32(1)
	if instance.Spec.Replicas != nil {
		replicas = *instance.Spec.Replicas
	}
	memoryLimit := instance.Spec.MemoryLimit
	if memoryLimit == "" {
		memoryLimit = consts.DefaultMemoryLimit
	}

	maxUnavailable := intstr.FromInt32(1)
	corefileMode := int32(0444)

	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:            consts.DeploymentName,
			Namespace:       instance.Namespace,
			Labels:          labels,
			OwnerReferences: []metav1.OwnerReference{ownerRef(instance)},
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{
				MatchLabels: map[string]string{
					"k8s-app":            "kube-dns",
					consts.InstanceLabel: instance.Name,
				},
			},
			Strategy: appsv1.DeploymentStrategy{
				Type: appsv1.RollingUpdateDeploymentStrategyType,
				RollingUpdate: &appsv1.RollingUpdateDeployment{
					MaxUnavailable: &maxUnavailable,
				},
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: labels,
					Annotations: map[string]string{
						consts.CorefileHashAnnot: art.Hash,
						"prometheus.io/port":     "9153",
						"prometheus.io/scrape":   "true",
					},
				},
				Spec: corev1.PodSpec{
					DNSPolicy: corev1.DNSDefault,
					Containers: []corev1.Container{
						{
							Name:            "coredns",
							Image:           image,
							ImagePullPolicy: corev1.PullIfNotPresent,
							Args:            []string{"-conf", consts.CorefileMountPath + "/" + consts.CorefileKey},
							Ports: []corev1.ContainerPort{
								{Name: "dns", ContainerPort: consts.DNSPort, Protocol: corev1.ProtocolUDP},
								{Name: "dns-tcp", ContainerPort: consts.DNSPort, Protocol: corev1.ProtocolTCP},
								{Name: "metrics", ContainerPort: consts.MetricsPort, Protocol: corev1.ProtocolTCP},
							},
							Resources: corev1.ResourceRequirements{
								Limits: corev1.ResourceList{
									corev1.ResourceMemory: resource.MustParse(memoryLimit),
								},
								Requests: corev1.ResourceList{
									corev1.ResourceCPU:    resource.MustParse("100m"),
									corev1.ResourceMemory: resource.MustParse("70Mi"),
								},
							},
							SecurityContext: &corev1.SecurityContext{
								AllowPrivilegeEscalation: boolPtr(false),
								ReadOnlyRootFilesystem:   boolPtr(true),
								Capabilities: &corev1.Capabilities{
									Add:  []corev1.Capability{"NET_BIND_SERVICE"},
									Drop: []corev1.Capability{"all"},
								},
							},
							LivenessProbe: &corev1.Probe{
								ProbeHandler: corev1.ProbeHandler{
									HTTPGet: &corev1.HTTPGetAction{
										Path:   "/health",
										Port:   intstr.FromInt32(8080),
										Scheme: corev1.URISchemeHTTP,
									},
								},
								InitialDelaySeconds: 60,
								TimeoutSeconds:      5,
								SuccessThreshold:    1,
								FailureThreshold:    5,
							},
							ReadinessProbe: &corev1.Probe{
								ProbeHandler: corev1.ProbeHandler{
									HTTPGet: &corev1.HTTPGetAction{
										Path:   "/ready",
										Port:   intstr.FromInt32(8181),
										Scheme: corev1.URISchemeHTTP,
									},
								},
							},
							VolumeMounts: []corev1.VolumeMount{
								{Name: "config-volume", MountPath: consts.CorefileMountPath, ReadOnly: true},
							},
						},
					},
					Volumes: []corev1.Volume{
						{
							Name: "config-volume",
							VolumeSource: corev1.VolumeSource{
								ConfigMap: &corev1.ConfigMapVolumeSource{
									LocalObjectReference: corev1.LocalObjectReference{Name: consts.ConfigMapName},
									Items: []corev1.KeyToPath{
										{Key: consts.CorefileKey, Path: consts.CorefileKey, Mode: &corefileMode},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

// Service builds the DNS Service. The name is fixed to kube-dns so the
// cluster's resolv.conf plumbing keeps working.
func Service(instance *dnsv1alpha1.CoreDNS) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:            consts.ServiceName,
			Namespace:       instance.Namespace,
			Labels:          Labels(instance),
			OwnerReferences: []metav1.OwnerReference{ownerRef(instance)},
		},
		Spec: corev1.ServiceSpec{
			Selector: map[string]string{
				"k8s-app":            "kube-dns",
				consts.InstanceLabel: instance.Name,
			},
			Ports: []corev1.ServicePort{
				{Name: "dns", Port: consts.DNSPort, Protocol: corev1.ProtocolUDP, TargetPort: intstr.FromString("dns")},
				{Name: "dns-tcp", Port: consts.DNSPort, Protocol: corev1.ProtocolTCP, TargetPort: intstr.FromString("dns-tcp")},
				{Name: "metrics", Port: consts.MetricsPort, Protocol: corev1.ProtocolTCP, TargetPort: intstr.FromString("metrics")},
			},
		},
	}
}

func boolPtr(b bool) *bool { return &b }
