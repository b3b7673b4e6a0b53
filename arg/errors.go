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

package arg

import "errors"

// Sentinel errors for graph operations.
var (
	// ErrUnknownNode is returned when a NodeID does not belong to the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownEdge is returned when an EdgeID does not belong to the graph.
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrTargetNotInEdge is returned when asking an edge for the action
	// leading to a node that is not one of its branch targets.
	ErrTargetNotInEdge = errors.New("target not in edge")

	// ErrSelfCover is returned when a node would cover itself.
	ErrSelfCover = errors.New("node cannot cover itself")

	// ErrCoveredCoverer is returned when the coverer is itself covered.
	ErrCoveredCoverer = errors.New("coverer is covered")

	// ErrCoveringNode is returned when covering a node that covers others.
	ErrCoveringNode = errors.New("node covers other nodes")
)
