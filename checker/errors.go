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

package checker

import (
	"errors"

	"github.com/jazzpetri/probcheck/arg"
)

// Sentinel errors for checker operations.
//
// Every failure of a solve call aborts it: the caller receives either a
// probability or one of these errors, never a partial result.
var (
	// ErrNoAbstractionMode is returned when neither may- nor must-mode
	// strengthening is enabled.
	ErrNoAbstractionMode = errors.New("neither may nor must abstraction mode selected")

	// ErrInvalidConfig is returned when the configuration fails validation.
	ErrInvalidConfig = errors.New("invalid checker configuration")

	// ErrInvalidThreshold is returned for thresholds outside (0, 1).
	ErrInvalidThreshold = errors.New("threshold must be in (0, 1)")

	// ErrNondeterministicTransition is returned when the concrete transition
	// function yields other than exactly one successor for an action.
	ErrNondeterministicTransition = errors.New("concrete transition is not deterministic")

	// ErrBlockFailed wraps a failed strengthening of an abstract label.
	ErrBlockFailed = errors.New("block failed")

	// ErrInvariantViolated is returned by CheckInvariants.
	ErrInvariantViolated = errors.New("graph invariant violated")

	// ErrNodeLimit is returned when exploration exceeds Config.MaxNodes.
	ErrNodeLimit = errors.New("node limit reached")

	// ErrRoundLimit is returned when BRTDP does not converge within
	// Config.MaxRounds. The bounds reached so far stay available via Bounds.
	ErrRoundLimit = errors.New("round limit reached")

	// ErrUnknownStrategy is returned for unknown strategy names or values.
	ErrUnknownStrategy = errors.New("unknown successor selection strategy")
)

// ErrTargetNotInEdge is returned when back-propagating a label over an
// edge that does not lead to the relabelled node.
var ErrTargetNotInEdge = arg.ErrTargetNotInEdge
