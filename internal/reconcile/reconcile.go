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

// Package reconcile holds the decision kernel of the operator: given the
// declared intent and the last observed state, decide whether the workload
// needs a new Corefile. The kernel performs no I/O; the controller owns the
// apply call and feeds its outcome back through Commit and NextPhase.
package reconcile

import (
	"errors"
	"fmt"

	"github.com/dnsops/coredns-operator/internal/corefile"
	"github.com/dnsops/coredns-operator/pkg/consts"
)

// Action is the outcome of a decision.
type Action string

const (
	// ActionNoOp means the observed state already matches the intent.
	ActionNoOp Action = "NoOp"
	// ActionApply means the rendered artifact must be applied.
	ActionApply Action = "Apply"
	// ActionFail means the intent can never be applied as given.
	ActionFail Action = "Fail"
)

// ObservedState is the externally persisted record of what was last
// applied. It is only ever advanced through Commit, after a successful
// apply; a failed apply leaves it untouched.
type ObservedState struct {
	AppliedHash    string
	ServiceAddress string
}

// Decision is the result of comparing intent against observed state.
type Decision struct {
	Action   Action
	Artifact corefile.Artifact
	Err      error
}

// Decide renders the intent and compares the artifact hash against the
// observed state. Repeated decisions with unchanged intent and state are
// stable: once an apply has been committed, Decide returns NoOp.
func Decide(in corefile.Intent, obs ObservedState) Decision {
	art, err := corefile.Render(in)
	if err != nil {
		return Decision{Action: ActionFail, Err: err}
	}
	if art.Hash == obs.AppliedHash {
		return Decision{Action: ActionNoOp, Artifact: art}
	}
	return Decision{Action: ActionApply, Artifact: art}
}

// Commit returns the observed state after a successful apply of art.
// Callers must only invoke it once the apply has succeeded, so that no
// state is ever visible as applied-but-not-recorded or vice versa.
func Commit(obs ObservedState, art corefile.Artifact) ObservedState {
	obs.AppliedHash = art.Hash
	return obs
}

// ApplyError wraps a failure of the workload collaborator with its
// retry classification.
type ApplyError struct {
	Err       error
	Retryable bool
}

func (e *ApplyError) Error() string {
	kind := "fatal"
	if e.Retryable {
		kind = "transient"
	}
	return fmt.Sprintf("apply failed (%s): %v", kind, e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }

// Retryable reports whether err is worth re-attempting on the next
// trigger. Unclassified errors are treated as transient so that an
// unexpected failure does not wedge the workload.
func Retryable(err error) bool {
	var ae *ApplyError
	if errors.As(err, &ae) {
		return ae.Retryable
	}
	return !corefile.IsInvalidIntent(err)
}

// NextPhase maps a decision and the outcome of its apply call onto the
// user-visible phase.
//
//	Converged    intent matches the workload
//	Pending      an apply is outstanding or failed transiently
//	Failed       invalid intent or a fatal apply error
func NextPhase(d Decision, applyErr error) string {
	switch d.Action {
	case ActionNoOp:
		return consts.PhaseConverged
	case ActionFail:
		return consts.PhaseFailed
	case ActionApply:
		if applyErr == nil {
			return consts.PhaseConverged
		}
		if Retryable(applyErr) {
			return consts.PhasePending
		}
		return consts.PhaseFailed
	}
	return consts.PhaseFailed
}
