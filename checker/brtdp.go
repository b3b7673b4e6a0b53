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
	"math"

	"github.com/jazzpetri/probcheck/arg"
	"github.com/jazzpetri/probcheck/dist"
	"github.com/jazzpetri/probcheck/eventlog"
	"github.com/jazzpetri/probcheck/mec"
	"github.com/jazzpetri/probcheck/solver"
)

// tieTolerance is the distance below which two values count as equal when
// choosing the best edge or branch.
const tieTolerance = 1e-12

// BRTDP bounds the reachability probability by bounded real-time dynamic
// programming.
//
// Every node carries an upper bound U and a lower bound L, starting at 1
// and 0 (1 and 1 for error nodes, 0 and 0 for dead ends). Each round
//  1. samples a trace from the initial node, expanding unexpanded nodes on
//     the way and following the goal-optimal edge and a strategy-selected
//     branch, until an absorbing node or a node with U == L is reached or
//     the trace grows beyond three times the number of nodes;
//  2. merges end components found around newly covered nodes;
//  3. updates the bounds of the trace nodes in reverse order.
//
// Rounds repeat until U - L of the initial node is at most threshold; the
// midpoint is returned. Runs are reproducible for a fixed Config.Seed.
//
// Parameters:
//   - strategy: branch selection strategy
//   - threshold: required gap in (0, 1)
//
// Returns ErrRoundLimit if Config.MaxRounds is reached first.
func (c *Checker[SC, SA, A, E]) BRTDP(strategy Strategy, threshold float64) (p float64, err error) {
	if err := checkThreshold(threshold); err != nil {
		return 0, err
	}
	if strategy < MaxDiff || strategy > RoundRobin {
		return 0, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(strategy))
	}
	c.begin()
	finish := c.startSolve("brtdp", map[string]interface{}{
		"strategy":  strategy.String(),
		"threshold": threshold,
	})
	defer func() { finish(p, err) }()

	var covered []arg.NodeID
	c.onCover = func(n arg.NodeID) { covered = append(covered, n) }
	c.onUncover = c.resetUncovered

	for round := 1; ; round++ {
		covered = covered[:0]
		trace, expanded, err := c.sampleTrace(strategy)
		if err != nil {
			return 0, err
		}

		candidates := covered
		if expanded > 0 {
			// an expansion may close a cycle through an older covering
			candidates = c.coveredNodes()
		}
		c.mergeEndComponents(candidates)
		c.propagate(trace)

		b := c.Bounds()
		c.history = append(c.history, b)
		c.obs.Metrics.Inc(MetricRounds)
		c.obs.Metrics.Set(MetricGap, b.Gap())
		c.obs.Metrics.Observe(MetricTraceLength, float64(len(trace)))
		c.obs.Logger.Debug("round completed", map[string]interface{}{
			"run_id": c.runID,
			"round":  round,
			"lower":  b.Lower,
			"upper":  b.Upper,
			"trace":  len(trace),
			"nodes":  c.graph.Len(),
		})
		c.record(eventlog.EventRoundCompleted, arg.NoNode, map[string]interface{}{
			"round": round,
			"lower": b.Lower,
			"upper": b.Upper,
		})

		if b.Gap() <= threshold {
			return b.Mid(), nil
		}
		if c.cfg.MaxRounds > 0 && round >= c.cfg.MaxRounds {
			return 0, fmt.Errorf("%w: %d rounds, bounds [%v, %v]", ErrRoundLimit, round, b.Lower, b.Upper)
		}
	}
}

// Bounds returns the current bounds of the initial node. Before the first
// solve call it returns the trivial bounds [0, 1].
func (c *Checker[SC, SA, A, E]) Bounds() Bounds {
	if c.root == arg.NoNode {
		return Bounds{Lower: 0, Upper: 1}
	}
	u, l := c.value(c.root)
	return Bounds{Lower: l, Upper: u}
}

// History returns the bounds of the initial node after every BRTDP round
// of the last call.
func (c *Checker[SC, SA, A, E]) History() []Bounds {
	return append([]Bounds(nil), c.history...)
}

// NodeBounds returns the bounds of node n, read through its coverer.
func (c *Checker[SC, SA, A, E]) NodeBounds(n arg.NodeID) Bounds {
	u, l := c.value(n)
	return Bounds{Lower: l, Upper: u}
}

// value returns U and L of n; covered nodes read their coverer's bounds.
func (c *Checker[SC, SA, A, E]) value(n arg.NodeID) (upper, lower float64) {
	n = c.resolve(n)
	return c.upper[n], c.lower[n]
}

// resolve returns the coverer of a covered node, or n itself.
func (c *Checker[SC, SA, A, E]) resolve(n arg.NodeID) arg.NodeID {
	if node := c.graph.Node(n); node.IsCovered() {
		return node.CoveredBy()
	}
	return n
}

// sampleTrace runs one simulation from the initial node. It returns the
// trace and the number of nodes expanded on the way.
func (c *Checker[SC, SA, A, E]) sampleTrace(strategy Strategy) ([]arg.NodeID, int, error) {
	trace := []arg.NodeID{c.root}
	onTrace := map[arg.NodeID]bool{c.root: true}
	cur := c.root
	expanded := 0

	for {
		node := c.graph.Node(cur)
		if node.IsCovered() {
			cur = node.CoveredBy()
			trace = append(trace, cur)
			onTrace[cur] = true
			continue
		}
		if !node.Expanded {
			if _, err := c.expand(cur); err != nil {
				return nil, 0, err
			}
			expanded++
		}
		if node.Absorbing() {
			break
		}
		if u, l := c.value(cur); u == l {
			break
		}
		if len(trace) > 3*c.graph.Len() {
			break
		}

		next, ok := c.successor(cur, strategy, onTrace)
		if !ok {
			break
		}
		trace = append(trace, next)
		if nn := c.graph.Node(next); nn.IsCovered() {
			next = nn.CoveredBy()
			trace = append(trace, next)
		}
		onTrace[next] = true
		cur = next
	}
	return trace, expanded, nil
}

// boundary returns the edges the value of n is computed over: the exits of
// its merge group, or its own outgoing edges.
func (c *Checker[SC, SA, A, E]) boundary(n arg.NodeID) []arg.EdgeID {
	if g := c.groups[n]; g != nil {
		return g.exits
	}
	return c.graph.Node(n).Out()
}

// expected returns the expectation of the upper (or lower) bounds over the
// branches of edge e.
func (c *Checker[SC, SA, A, E]) expected(e *arg.Edge[A, E], useUpper bool) float64 {
	return dist.Expected(e.Branches, func(b arg.Branch[A]) float64 {
		u, l := c.value(b.Target)
		if useUpper {
			return u
		}
		return l
	})
}

// successor picks the next trace node from n: the optimistic best boundary
// edge (ties broken at random), then a branch by strategy. onTrace holds
// the nodes the current trace already visited.
func (c *Checker[SC, SA, A, E]) successor(n arg.NodeID, strategy Strategy, onTrace map[arg.NodeID]bool) (arg.NodeID, bool) {
	edges := c.boundary(n)
	if len(edges) == 0 {
		return arg.NoNode, false
	}

	useUpper := c.cfg.Goal == solver.Max
	values := make([]float64, len(edges))
	for i, eid := range edges {
		values[i] = c.expected(c.graph.Edge(eid), useUpper)
	}
	pick := c.argBest(values, !useUpper)
	e := c.graph.Edge(edges[pick])

	entries := e.Branches.Entries()
	return entries[c.branch(e, strategy, onTrace)].Outcome.Target, true
}

// branch selects the index of the branch of e to follow.
func (c *Checker[SC, SA, A, E]) branch(e *arg.Edge[A, E], strategy Strategy, onTrace map[arg.NodeID]bool) int {
	entries := e.Branches.Entries()
	gaps := make([]float64, len(entries))
	for i, b := range entries {
		u, l := c.value(b.Outcome.Target)
		gaps[i] = u - l
	}

	switch strategy {
	case Random:
		return c.sampleBranch(e)
	case WeightedMax, WeightedRandom:
		weights := make([]float64, len(entries))
		positive := false
		for i, b := range entries {
			weights[i] = b.Prob * gaps[i]
			positive = positive || weights[i] > 0
		}
		if !positive {
			return c.sampleBranch(e)
		}
		if strategy == WeightedMax {
			// a heaviest branch leading back into the trace is sampled instead
			i := c.argBest(weights, false)
			if !onTrace[c.resolve(entries[i].Outcome.Target)] {
				return i
			}
		}
		if i := dist.SampleWeighted(weights, c.rng); i >= 0 {
			return i
		}
		return c.sampleBranch(e)
	case RoundRobin:
		return e.NextRoundRobin()
	default:
		return c.argBest(gaps, false)
	}
}

// sampleBranch samples a branch index by probability.
func (c *Checker[SC, SA, A, E]) sampleBranch(e *arg.Edge[A, E]) int {
	picked := e.Branches.Sample(c.rng)
	for i, b := range e.Branches.Entries() {
		if b.Outcome == picked {
			return i
		}
	}
	return 0
}

// argBest returns the index of the largest (or smallest) value, choosing
// uniformly at random among ties.
func (c *Checker[SC, SA, A, E]) argBest(values []float64, smallest bool) int {
	best := values[0]
	for _, v := range values[1:] {
		if (smallest && v < best) || (!smallest && v > best) {
			best = v
		}
	}
	var ties []int
	for i, v := range values {
		if math.Abs(v-best) <= tieTolerance {
			ties = append(ties, i)
		}
	}
	if len(ties) == 1 {
		return ties[0]
	}
	return ties[c.rng.IntN(len(ties))]
}

// propagate updates the bounds along trace in reverse order.
func (c *Checker[SC, SA, A, E]) propagate(trace []arg.NodeID) {
	for i := len(trace) - 1; i >= 0; i-- {
		n := trace[i]
		if node := c.graph.Node(n); node.IsCovered() {
			cov := node.CoveredBy()
			c.upper[n], c.lower[n] = c.upper[cov], c.lower[cov]
			continue
		}
		c.update(n)
	}
}

// update recomputes the bounds of the non-covered node n and of its merge
// group. Bounds only tighten.
func (c *Checker[SC, SA, A, E]) update(n arg.NodeID) {
	node := c.graph.Node(n)
	switch {
	case node.Error:
		c.upper[n], c.lower[n] = 1, 1
		return
	case !node.Expanded:
		return
	}

	g := c.groups[n]
	if g != nil && g.zero {
		c.setGroup(g, 0, 0)
		return
	}
	edges := c.boundary(n)
	if len(edges) == 0 {
		c.upper[n], c.lower[n] = 0, 0
		return
	}

	u, l := c.cfg.Goal.Worst(), c.cfg.Goal.Worst()
	for _, eid := range edges {
		e := c.graph.Edge(eid)
		if v := c.expected(e, true); c.cfg.Goal.Better(v, u) {
			u = v
		}
		if v := c.expected(e, false); c.cfg.Goal.Better(v, l) {
			l = v
		}
	}

	if g == nil {
		c.upper[n] = math.Min(c.upper[n], u)
		c.lower[n] = math.Max(c.lower[n], l)
		return
	}
	for _, m := range g.members {
		if c.graph.Node(m).IsCovered() {
			continue
		}
		u = math.Min(u, c.upper[m])
		l = math.Max(l, c.lower[m])
	}
	c.setGroup(g, u, l)
}

// group is a merged end component. All members share one pair of bounds,
// computed over the edges leaving the component.
type group struct {
	members []arg.NodeID
	exits   []arg.EdgeID
	// zero is set when staying inside the component is optimal: under Min,
	// or when nothing leaves it.
	zero bool
}

// coveredNodes lists every covered node of the graph.
func (c *Checker[SC, SA, A, E]) coveredNodes() []arg.NodeID {
	var out []arg.NodeID
	for _, n := range c.graph.Nodes() {
		if c.graph.Node(n).IsCovered() {
			out = append(out, n)
		}
	}
	return out
}

// mergeEndComponents merges the maximal end component around every
// candidate into one group.
func (c *Checker[SC, SA, A, E]) mergeEndComponents(candidates []arg.NodeID) {
	seen := make(map[arg.NodeID]bool, len(candidates))
	for _, n := range candidates {
		if seen[n] || !c.graph.Node(n).IsCovered() {
			continue
		}
		comp := mec.Find[arg.NodeID](c.graph, n)
		for _, m := range comp.Members() {
			seen[m] = true
		}
		if comp.Len() > 1 {
			c.merge(comp)
		}
	}
}

// merge installs comp as a group, replacing the groups of its members.
// A component that is already installed is left alone.
func (c *Checker[SC, SA, A, E]) merge(comp mec.Component[arg.NodeID]) {
	members := comp.Members()
	if g := c.groups[members[0]]; g != nil && len(g.members) == len(members) {
		same := true
		for _, m := range members {
			same = same && c.groups[m] == g
		}
		if same {
			return
		}
	}

	g := &group{members: members}
	settled := true
	for _, m := range members {
		node := c.graph.Node(m)
		if node.IsCovered() {
			continue
		}
		settled = settled && node.Expanded
		for _, eid := range node.Out() {
			if !comp.Internal(c.graph.Edge(eid).Targets()) {
				g.exits = append(g.exits, eid)
			}
		}
	}
	g.zero = settled && (c.cfg.Goal == solver.Min || len(g.exits) == 0)

	u, l := 1.0, 0.0
	for _, m := range members {
		c.groups[m] = g
		if c.graph.Node(m).IsCovered() {
			continue
		}
		u = math.Min(u, c.upper[m])
		l = math.Max(l, c.lower[m])
	}
	if g.zero {
		u, l = 0, 0
	}
	c.setGroup(g, u, l)

	c.obs.Metrics.Inc(MetricECMerges)
	c.obs.Logger.Debug("end component merged", map[string]interface{}{
		"run_id":  c.runID,
		"members": len(members),
		"exits":   len(g.exits),
		"zero":    g.zero,
	})
	c.record(eventlog.EventECMerged, members[0], map[string]interface{}{
		"members": len(members),
		"exits":   len(g.exits),
		"zero":    g.zero,
	})
}

// setGroup writes the same bounds into every member of g.
func (c *Checker[SC, SA, A, E]) setGroup(g *group, upper, lower float64) {
	for _, m := range g.members {
		c.upper[m], c.lower[m] = upper, lower
	}
}

// resetUncovered gives an uncovered node fresh bounds and dissolves its
// merge group. The other members keep their bounds.
func (c *Checker[SC, SA, A, E]) resetUncovered(n arg.NodeID) {
	c.upper[n], c.lower[n] = 1, 0
	if g := c.groups[n]; g != nil {
		for _, m := range g.members {
			delete(c.groups, m)
		}
	}
}
