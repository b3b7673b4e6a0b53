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
	"github.com/jazzpetri/probcheck/dist"
	"github.com/jazzpetri/probcheck/eventlog"
)

// relabel is one pending strengthening in the changeAbstractLabel worklist.
// Either label is the new label (explicit), or expr is blocked out of the
// node's label as it is when the item is processed.
type relabel[SA, E any] struct {
	node     arg.NodeID
	label    SA
	explicit bool
	expr     E

	// coverer is set for re-strengthening a covered node; the item is
	// dropped if the node is no longer covered by it.
	coverer arg.NodeID
}

// expand evaluates the commands of node n, strengthens its label and
// creates one child per action of every enabled standard command. It
// returns the created children. Expanding an expanded or error node is a
// no-op.
func (c *Checker[SC, SA, A, E]) expand(n arg.NodeID) ([]arg.NodeID, error) {
	node := c.graph.Node(n)
	if node.Expanded || node.Error {
		return nil, nil
	}
	sc := node.Concrete

	errCmds := c.model.ErrorCommands(sc)
	for _, cmd := range errCmds {
		if !c.domain.IsEnabled(sc, cmd) {
			continue
		}
		// every state of an error node's label must be an error state,
		// otherwise covering by it would report errors that do not exist
		label, err := c.block(node.Label, c.domain.Negate(cmd.Guard), sc, n)
		if err != nil {
			return nil, err
		}
		if err := c.changeAbstractLabel(n, label); err != nil {
			return nil, err
		}
		if err := c.graph.MarkError(n); err != nil {
			return nil, err
		}
		if err := c.graph.MarkExpanded(n); err != nil {
			return nil, err
		}
		c.upper[n], c.lower[n] = 1, 1
		c.obs.Metrics.Inc(MetricNodesExpanded)
		c.record(eventlog.EventNodeError, n, map[string]interface{}{"command": cmd.Name})
		return nil, nil
	}

	stdCmds := c.model.StandardCommands(sc)
	label := node.Label
	var err error
	if c.cfg.UseMust {
		for _, cmds := range [][]Command[A, E]{errCmds, stdCmds} {
			for _, cmd := range cmds {
				if c.domain.IsEnabled(sc, cmd) || !c.domain.MayBeEnabled(label, cmd) {
					continue
				}
				if label, err = c.block(label, cmd.Guard, sc, n); err != nil {
					return nil, err
				}
			}
		}
	}
	if c.cfg.UseMay {
		for _, cmd := range stdCmds {
			if !c.domain.IsEnabled(sc, cmd) || c.domain.MustBeEnabled(label, cmd) {
				continue
			}
			if label, err = c.block(label, c.domain.Negate(cmd.Guard), sc, n); err != nil {
				return nil, err
			}
		}
	}
	if err := c.changeAbstractLabel(n, label); err != nil {
		return nil, err
	}

	var children []arg.NodeID
	for _, cmd := range stdCmds {
		if !c.domain.IsEnabled(sc, cmd) {
			continue
		}
		created, err := c.createChildren(n, cmd)
		if err != nil {
			return nil, err
		}
		children = append(children, created...)
	}
	if err := c.graph.MarkExpanded(n); err != nil {
		return nil, err
	}
	if len(children) == 0 {
		c.upper[n], c.lower[n] = 0, 0
	}
	c.obs.Metrics.Inc(MetricNodesExpanded)
	c.record(eventlog.EventNodeExpanded, n, map[string]interface{}{"children": len(children)})

	for _, child := range children {
		if err := c.close(child); err != nil {
			return nil, err
		}
	}
	return children, nil
}

// createChildren adds one child per action of cmd and the edge leading to them.
func (c *Checker[SC, SA, A, E]) createChildren(n arg.NodeID, cmd Command[A, E]) ([]arg.NodeID, error) {
	node := c.graph.Node(n)
	entries := make([]dist.Entry[arg.Branch[A]], 0, cmd.Result.Len())
	created := make([]arg.NodeID, 0, cmd.Result.Len())

	for _, e := range cmd.Result.Entries() {
		succ := c.domain.ConcreteTransFunc(node.Concrete, e.Outcome)
		if len(succ) != 1 {
			return nil, fmt.Errorf("%w: command %q action %v at node %d yields %d states",
				ErrNondeterministicTransition, cmd.Name, e.Outcome, n, len(succ))
		}
		if c.cfg.MaxNodes > 0 && c.graph.Len() >= c.cfg.MaxNodes {
			return nil, fmt.Errorf("%w: %d nodes", ErrNodeLimit, c.cfg.MaxNodes)
		}
		var label SA
		if c.cfg.EagerPostImage {
			label = c.domain.PostImage(node.Label, e.Outcome)
		} else {
			label = c.domain.TopAfter(node.Label, e.Outcome)
		}
		child := c.addNode(succ[0], label)
		entries = append(entries, dist.Entry[arg.Branch[A]]{
			Outcome: arg.Branch[A]{Action: e.Outcome, Target: child},
			Prob:    e.Prob,
		})
		created = append(created, child)
	}

	branches, err := dist.New(entries...)
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", cmd.Name, err)
	}
	if _, err := c.graph.CreateEdge(n, branches, cmd.Guard); err != nil {
		return nil, err
	}
	return created, nil
}

// close covers n by the first uncovered node whose label contains n's
// concrete state. Nodes with the same concrete key are tried first. A node
// that already covers a sibling created in the same expansion stays
// uncovered.
func (c *Checker[SC, SA, A, E]) close(n arg.NodeID) error {
	node := c.graph.Node(n)
	if node.IsCovered() || len(node.Covers()) > 0 {
		return nil
	}

	try := func(cand arg.NodeID) bool {
		if cand == n {
			return false
		}
		cn := c.graph.Node(cand)
		return !cn.IsCovered() && c.domain.CheckContainment(node.Concrete, cn.Label)
	}

	coverer := arg.NoNode
	if k, ok := any(node.Concrete).(arg.Keyer); ok {
		for _, cand := range c.graph.FindByKey(k.Key()) {
			if try(cand) {
				coverer = cand
				break
			}
		}
	}
	if coverer == arg.NoNode {
		for _, cand := range c.graph.Nodes() {
			if try(cand) {
				coverer = cand
				break
			}
		}
	}
	if coverer == arg.NoNode {
		return nil
	}

	if err := c.graph.Cover(n, coverer); err != nil {
		return err
	}
	c.obs.Metrics.Inc(MetricNodesCovered)
	c.record(eventlog.EventNodeCovered, n, map[string]interface{}{"coverer": int(coverer)})
	if c.onCover != nil {
		c.onCover(n)
	}
	return c.strengthenForCovering(n)
}

// strengthenForCovering shrinks the label of the covered node n into its
// coverer's label.
func (c *Checker[SC, SA, A, E]) strengthenForCovering(n arg.NodeID) error {
	node := c.graph.Node(n)
	cov := c.graph.Node(node.CoveredBy())
	if c.domain.IsLeq(node.Label, cov.Label) {
		return nil
	}
	label, err := c.block(node.Label, c.domain.Negate(c.domain.LabelExpr(cov.Label)), node.Concrete, n)
	if err != nil {
		return err
	}
	return c.changeAbstractLabel(n, label)
}

// changeAbstractLabel sets the label of n and restores the graph
// invariants: nodes covered by a relabelled node are uncovered or
// re-strengthened, and every parent is strengthened so that its successor
// under the edge's action stays inside the new label. Parents are
// processed through a worklist, so arbitrarily long back-propagation does
// not grow the stack.
func (c *Checker[SC, SA, A, E]) changeAbstractLabel(n arg.NodeID, label SA) error {
	queue := []relabel[SA, E]{{node: n, label: label, explicit: true, coverer: arg.NoNode}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		node := c.graph.Node(item.node)

		if item.coverer != arg.NoNode && node.CoveredBy() != item.coverer {
			continue
		}
		next := item.label
		if !item.explicit {
			var err error
			if next, err = c.block(node.Label, item.expr, node.Concrete, item.node); err != nil {
				return err
			}
		}
		if c.sameLabel(node.Label, next) {
			continue
		}
		if err := c.graph.SetLabel(item.node, next); err != nil {
			return err
		}
		c.obs.Metrics.Inc(MetricLabelChanges)
		c.record(eventlog.EventLabelChanged, item.node, map[string]interface{}{"label": fmt.Sprint(next)})

		for _, covered := range node.Covers() {
			cn := c.graph.Node(covered)
			if !c.domain.CheckContainment(cn.Concrete, next) {
				c.uncover(covered)
				continue
			}
			if !c.domain.IsLeq(cn.Label, next) {
				queue = append(queue, relabel[SA, E]{
					node:    covered,
					expr:    c.domain.Negate(c.domain.LabelExpr(next)),
					coverer: item.node,
				})
			}
		}

		for _, eid := range node.Back() {
			action, err := c.graph.ActionOf(eid, item.node)
			if err != nil {
				return err
			}
			queue = append(queue, relabel[SA, E]{
				node:    c.graph.Edge(eid).Source,
				expr:    c.domain.Negate(c.domain.PreImage(next, action)),
				coverer: arg.NoNode,
			})
		}
	}
	return nil
}

// uncover withdraws the covering of n and notifies the running exploration.
func (c *Checker[SC, SA, A, E]) uncover(n arg.NodeID) {
	coverer := c.graph.Node(n).CoveredBy()
	if !c.graph.Uncover(n) {
		return
	}
	c.obs.Metrics.Inc(MetricNodesUncovered)
	c.obs.Logger.Debug("node uncovered", map[string]interface{}{
		"run_id":  c.runID,
		"node":    int(n),
		"coverer": int(coverer),
	})
	c.record(eventlog.EventNodeUncovered, n, map[string]interface{}{"coverer": int(coverer)})
	if c.onUncover != nil {
		c.onUncover(n)
	}
}

// block wraps Domain.Block failures in ErrBlockFailed.
func (c *Checker[SC, SA, A, E]) block(sa SA, expr E, sc SC, n arg.NodeID) (SA, error) {
	label, err := c.domain.Block(sa, expr, sc)
	if err != nil {
		var zero SA
		return zero, fmt.Errorf("%w at node %d: %w", ErrBlockFailed, n, err)
	}
	return label, nil
}

// sameLabel reports label equality in the domain's order.
func (c *Checker[SC, SA, A, E]) sameLabel(a, b SA) bool {
	return c.domain.IsLeq(a, b) && c.domain.IsLeq(b, a)
}
