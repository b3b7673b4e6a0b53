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
	"fmt"

	"github.com/jazzpetri/probcheck/arg"
)

// CheckInvariants verifies the graph built by the last solve call:
//   - every node's label contains its concrete state
//   - every covered node's label is below its coverer's label
//   - no coverer is itself covered
//
// Returns the first violation wrapped in ErrInvariantViolated.
func (c *Checker[SC, SA, A, E]) CheckInvariants() error {
	for _, id := range c.graph.Nodes() {
		node := c.graph.Node(id)
		if !c.domain.CheckContainment(node.Concrete, node.Label) {
			return fmt.Errorf("%w: node %d: label %v does not contain %v",
				ErrInvariantViolated, id, node.Label, node.Concrete)
		}
		if !node.IsCovered() {
			continue
		}
		cov := c.graph.Node(node.CoveredBy())
		if cov.IsCovered() {
			return fmt.Errorf("%w: coverer %d of node %d is covered", ErrInvariantViolated, cov.ID, id)
		}
		if !c.domain.IsLeq(node.Label, cov.Label) {
			return fmt.Errorf("%w: node %d: label %v is not below coverer %d label %v",
				ErrInvariantViolated, id, node.Label, cov.ID, cov.Label)
		}
	}
	if c.root != arg.NoNode && c.graph.Node(c.root).IsCovered() {
		return fmt.Errorf("%w: initial node is covered", ErrInvariantViolated)
	}
	return nil
}
