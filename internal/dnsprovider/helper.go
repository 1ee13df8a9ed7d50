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

package dnsprovider

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/dnsops/coredns-operator/pkg/consts"
)

// Fetch retrieves the provider fact using a cache-first approach.
// It tries the in-memory cache first, then falls back to the published
// provider ConfigMap as the authoritative source. Returns nil when
// nothing has been published yet.
func Fetch(ctx context.Context, c client.Client, namespace string) (*Fact, error) {
	// Fast path: try cache first
	fact := Get(namespace)
	if fact != nil {
		return fact, nil
	}

	// Fallback: read the published ConfigMap (authoritative source)
	var cm corev1.ConfigMap
	err := c.Get(ctx, types.NamespacedName{Name: consts.ProviderConfigMapName, Namespace: namespace}, &cm)
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	fact = &Fact{
		Domain:  cm.Data["domain"],
		Address: cm.Data["sdn-ip"],
		Port:    cm.Data["port"],
	}
	return fact, nil
}
