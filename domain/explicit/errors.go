// Copyright 2026 The JazzPetri Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package explicit

import "errors"

// Sentinel errors for the explicit-value domain.
var (
	// ErrNotContradicting is returned by Block when the concrete state
	// satisfies the expression to be blocked.
	ErrNotContradicting = errors.New("concrete state does not contradict expression")

	// ErrNotContained is returned by Block when the concrete state is not a
	// state of the label.
	ErrNotContained = errors.New("concrete state not contained in label")

	// ErrDuplicateAction is returned when two outcomes share an action name.
	ErrDuplicateAction = errors.New("duplicate action")

	// ErrNoOutcomes is returned for a command without outcomes.
	ErrNoOutcomes = errors.New("command has no outcomes")
)
