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

// Package corefile renders a CoreDNS Corefile from declared intent.
// Rendering is pure: no I/O, and identical intent always yields
// byte-identical output.
package corefile

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Intent is the desired DNS configuration to render.
type Intent struct {
	// Forward lists upstream resolver addresses for the primary block
	Forward []string

	// ClusterDomain is the zone served by the kubernetes plugin
	ClusterDomain string

	// Override, when non-empty, is used verbatim as the Corefile and all
	// other fields are ignored
	Override string

	// ExtraServers are appended after the primary block in order
	ExtraServers []ExtraServer
}

// ExtraServer is an additional server block forwarding a zone to one upstream.
type ExtraServer struct {
	Name    string
	Address string
	Zone    string
}

// Artifact is a rendered Corefile plus its content digest.
type Artifact struct {
	Text string
	Hash string
}

// InvalidIntentError reports intent that can never render. It is not
// retryable; the intent has to change.
type InvalidIntentError struct {
	Reason string
}

func (e *InvalidIntentError) Error() string {
	return fmt.Sprintf("invalid intent: %s", e.Reason)
}

// IsInvalidIntent reports whether err is an InvalidIntentError.
func IsInvalidIntent(err error) bool {
	var iie *InvalidIntentError
	return errors.As(err, &iie)
}

// Sum returns the content digest used for Artifact.Hash.
func Sum(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Render produces the Corefile for the given intent.
//
// When Override is set it wins: the artifact text is exactly the override
// and no other field influences the output. Otherwise at least one forward
// target is required; there is no resolvable default.
func Render(in Intent) (Artifact, error) {
	if in.Override != "" {
		return artifact(in.Override), nil
	}

	if len(in.Forward) == 0 {
		return Artifact{}, &InvalidIntentError{Reason: "no forward targets and no corefile override"}
	}
	for i, f := range in.Forward {
		if strings.TrimSpace(f) == "" {
			return Artifact{}, &InvalidIntentError{Reason: fmt.Sprintf("forward[%d] is empty", i)}
		}
	}

	domain := in.ClusterDomain
	if domain == "" {
		domain = "cluster.local"
	}

	var b strings.Builder
	fmt.Fprintf(&b, primaryBlock, domain, strings.Join(in.Forward, " "))

	for i, s := range in.ExtraServers {
		if strings.TrimSpace(s.Address) == "" {
			return Artifact{}, &InvalidIntentError{Reason: fmt.Sprintf("extra server %q has no address", s.Name)}
		}
		zone := s.Zone
		if zone == "" {
			zone = s.Name
		}
		if zone == "" {
			return Artifact{}, &InvalidIntentError{Reason: fmt.Sprintf("extra server %d has no name or zone", i)}
		}
		fmt.Fprintf(&b, extraBlock, zone, s.Address)
	}

	return artifact(b.String()), nil
}

func artifact(text string) Artifact {
	return Artifact{Text: text, Hash: Sum(text)}
}

// primaryBlock matches the Corefile shipped with the upstream CoreDNS
// kubernetes deployment: errors, health with lameduck, the kubernetes
// plugin with reverse-zone fallthrough, prometheus metrics, forwarding,
// and a 30s cache.
const primaryBlock = `.:53 {
    errors
    health {
      lameduck 5s
    }
    ready
    kubernetes %s in-addr.arpa ip6.arpa {
      fallthrough in-addr.arpa ip6.arpa
      pods insecure
    }
    prometheus :9153
    forward . %s
    cache 30
    loop
    reload
    loadbalance
}
`

const extraBlock = `%s:53 {
    forward . %s
}
`
