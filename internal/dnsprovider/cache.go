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
	"sync"
)

// Fact is the provider data published to downstream consumers. The only
// contractually stable field is Address.
type Fact struct {
	Domain  string
	Address string
	Port    string
}

// Facts are published per namespace, so the cache is keyed the same way.
// A cache hit is a hint only; the published ConfigMap stays the
// authoritative record.
var (
	cache     = map[string]*Fact{}
	cacheLock sync.RWMutex
)

// Set updates the cached provider fact for a namespace
func Set(namespace string, fact *Fact) {
	cacheLock.Lock()
	defer cacheLock.Unlock()
	cache[namespace] = fact
}

// Get retrieves the cached provider fact for a namespace
func Get(namespace string) *Fact {
	cacheLock.RLock()
	defer cacheLock.RUnlock()
	fact := cache[namespace]
	if fact == nil {
		return nil
	}
	// Return a copy to prevent external modification
	copy := *fact
	return &copy
}

// Clear removes the cached provider fact for a namespace
func Clear(namespace string) {
	cacheLock.Lock()
	defer cacheLock.Unlock()
	delete(cache, namespace)
}
