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
	"github.com/jazzpetri/probcheck/arg"
	"github.com/jazzpetri/probcheck/solver"
)

// FullyExpanded explores the whole abstract reachability graph
// breadth-first and solves it exactly.
//
// Every dequeued node is expanded; its children are closed and enqueued
// unless covered. Nodes whose covering is withdrawn are enqueued again.
// Once the queue is empty the graph is solved as a stochastic game in which
// non-covered error nodes are targets and covered nodes move to their
// coverer with probability one.
//
// Parameters:
//   - useBoundedVI: solve with interval iteration and end-component
//     collapsing instead of plain value iteration
//   - threshold: solver convergence threshold in (0, 1)
//
// Returns the probability of reaching an error node from the initial node
// under Config.Goal. Repeated calls on identical input give identical results.
func (c *Checker[SC, SA, A, E]) FullyExpanded(useBoundedVI bool, threshold float64) (p float64, err error) {
	if err := checkThreshold(threshold); err != nil {
		return 0, err
	}
	c.begin()
	finish := c.startSolve("fully_expanded", map[string]interface{}{
		"bounded_vi": useBoundedVI,
		"threshold":  threshold,
	})
	defer func() { finish(p, err) }()

	queue := []arg.NodeID{c.root}
	c.onUncover = func(n arg.NodeID) { queue = append(queue, n) }

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		node := c.graph.Node(n)
		if node.Expanded || node.IsCovered() {
			continue
		}
		children, err := c.expand(n)
		if err != nil {
			return 0, err
		}
		for _, child := range children {
			if !c.graph.Node(child).IsCovered() {
				queue = append(queue, child)
			}
		}
	}

	res, err := solver.Solve(c.game(), solver.Options{
		Goal:      c.cfg.Goal,
		Threshold: threshold,
		Bounded:   useBoundedVI,
	})
	if err != nil {
		return 0, err
	}
	return res.Values[c.root], nil
}

// game converts the graph into a stochastic game with one position per node.
func (c *Checker[SC, SA, A, E]) game() *solver.Game {
	n := c.graph.Len()
	g := &solver.Game{
		Choices: make([][]solver.Choice, n),
		Targets: make([]bool, n),
	}
	for _, id := range c.graph.Nodes() {
		node := c.graph.Node(id)
		switch {
		case node.IsCovered():
			g.Choices[id] = []solver.Choice{{Branches: []solver.Branch{{Target: int(node.CoveredBy()), Prob: 1}}}}
		case node.Error:
			g.Targets[id] = true
		default:
			for _, eid := range node.Out() {
				e := c.graph.Edge(eid)
				entries := e.Branches.Entries()
				ch := solver.Choice{Branches: make([]solver.Branch, len(entries))}
				for i, b := range entries {
					ch.Branches[i] = solver.Branch{Target: int(b.Outcome.Target), Prob: b.Prob}
				}
				g.Choices[id] = append(g.Choices[id], ch)
			}
		}
	}
	return g
}
