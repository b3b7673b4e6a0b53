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

// Package arg stores abstract reachability graphs.
//
// An abstract reachability graph (ARG) pairs every explored concrete state
// with an abstract label over-approximating the states the node stands for.
// Nodes and edges live in an arena and refer to each other by index, so the
// graph can hold cycles (covering pointers, back-edges) without pointer
// tangles.
//
// The graph only grows: nodes and edges are never removed. Covering is the
// only relation that can be withdrawn.
//
// # Usage
//
//	g := arg.New[State, Label, string, Expr]()
//	root := g.AddNode(init, top)
//	child := g.AddNode(next, top)
//	eid, _ := g.CreateEdge(root, dist.Dirac(arg.Branch[string]{Action: "a", Target: child}), guard)
//	_ = g.Cover(child, root)
package arg

import (
	"fmt"
	"sort"

	"github.com/jazzpetri/probcheck/dist"
)

// NodeID addresses a node in the arena. IDs are assigned sequentially from 0.
type NodeID int

// EdgeID addresses an edge in the arena.
type EdgeID int

// NoNode is the NodeID of an absent node.
const NoNode NodeID = -1

// Keyer is implemented by concrete states that have a canonical string key.
// Keyed states are indexed so exact matches can be found without a scan.
type Keyer interface {
	Key() string
}

// Branch is one outcome of an edge: the action taken and the node it leads to.
type Branch[A comparable] struct {
	Action A
	Target NodeID
}

// Node is one explored (concrete state, abstract label) pair.
type Node[SC, SA any] struct {
	// ID is the sequential identity of the node
	ID NodeID

	// Concrete is the exact state the node was reached in
	Concrete SC

	// Label over-approximates the states the node represents
	Label SA

	// Expanded is set once the node's commands have been evaluated
	Expanded bool

	// Error marks an absorbing node in which an error command is enabled
	Error bool

	coveredBy NodeID
	covers    map[NodeID]struct{}
	out       []EdgeID
	back      []EdgeID
}

// IsCovered reports whether another node covers n.
func (n *Node[SC, SA]) IsCovered() bool {
	return n.coveredBy != NoNode
}

// CoveredBy returns the covering node, or NoNode.
func (n *Node[SC, SA]) CoveredBy() NodeID {
	return n.coveredBy
}

// Covers returns the nodes covered by n in ID order.
func (n *Node[SC, SA]) Covers() []NodeID {
	out := make([]NodeID, 0, len(n.covers))
	for id := range n.covers {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Out returns the outgoing edges in creation order.
func (n *Node[SC, SA]) Out() []EdgeID {
	return append([]EdgeID(nil), n.out...)
}

// Back returns the incoming edges in creation order.
func (n *Node[SC, SA]) Back() []EdgeID {
	return append([]EdgeID(nil), n.back...)
}

// Absorbing reports whether no exploration can continue from n:
// n is an error node, or it is expanded without outgoing edges.
func (n *Node[SC, SA]) Absorbing() bool {
	return n.Error || (n.Expanded && len(n.out) == 0)
}

// Edge is one probabilistic command instance leaving a node.
// The branch order is fixed at creation.
type Edge[A comparable, E any] struct {
	// ID is the sequential identity of the edge
	ID EdgeID

	// Source is the node the edge leaves
	Source NodeID

	// Branches is the distribution over (action, target) pairs
	Branches dist.Distribution[Branch[A]]

	// Guard is the guard of the command the edge was created from
	Guard E

	cursor int
}

// Targets returns the branch targets in branch order.
func (e *Edge[A, E]) Targets() []NodeID {
	entries := e.Branches.Entries()
	out := make([]NodeID, len(entries))
	for i, b := range entries {
		out[i] = b.Outcome.Target
	}
	return out
}

// NextRoundRobin returns the index of the branch to take on this visit and
// advances the per-edge cursor.
func (e *Edge[A, E]) NextRoundRobin() int {
	i := e.cursor % e.Branches.Len()
	e.cursor = (i + 1) % e.Branches.Len()
	return i
}

// Graph is the arena holding all nodes and edges of one exploration.
// A Graph is not safe for concurrent use.
type Graph[SC, SA any, A comparable, E any] struct {
	nodes []*Node[SC, SA]
	edges []*Edge[A, E]
	byKey map[string][]NodeID
}

// New creates an empty graph.
func New[SC, SA any, A comparable, E any]() *Graph[SC, SA, A, E] {
	return &Graph[SC, SA, A, E]{byKey: make(map[string][]NodeID)}
}

// Reset discards every node and edge.
func (g *Graph[SC, SA, A, E]) Reset() {
	g.nodes = nil
	g.edges = nil
	g.byKey = make(map[string][]NodeID)
}

// Len returns the number of nodes.
func (g *Graph[SC, SA, A, E]) Len() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph[SC, SA, A, E]) EdgeCount() int {
	return len(g.edges)
}

// Nodes returns all node IDs in creation order.
func (g *Graph[SC, SA, A, E]) Nodes() []NodeID {
	out := make([]NodeID, len(g.nodes))
	for i := range g.nodes {
		out[i] = NodeID(i)
	}
	return out
}

// AddNode appends a node and returns its ID.
// Concrete states implementing Keyer are indexed for FindByKey.
func (g *Graph[SC, SA, A, E]) AddNode(sc SC, label SA) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, &Node[SC, SA]{
		ID:        id,
		Concrete:  sc,
		Label:     label,
		coveredBy: NoNode,
		covers:    make(map[NodeID]struct{}),
	})
	if k, ok := any(sc).(Keyer); ok {
		key := k.Key()
		g.byKey[key] = append(g.byKey[key], id)
	}
	return id
}

// Node returns the node with the given ID, or nil if it does not exist.
func (g *Graph[SC, SA, A, E]) Node(id NodeID) *Node[SC, SA] {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// Edge returns the edge with the given ID, or nil if it does not exist.
func (g *Graph[SC, SA, A, E]) Edge(id EdgeID) *Edge[A, E] {
	if id < 0 || int(id) >= len(g.edges) {
		return nil
	}
	return g.edges[id]
}

func (g *Graph[SC, SA, A, E]) node(id NodeID) (*Node[SC, SA], error) {
	n := g.Node(id)
	if n == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	return n, nil
}

// FindByKey returns the nodes whose concrete state has the given key,
// in creation order.
func (g *Graph[SC, SA, A, E]) FindByKey(key string) []NodeID {
	return append([]NodeID(nil), g.byKey[key]...)
}

// CreateEdge appends an edge leaving source and registers it as a
// back-edge on every branch target.
func (g *Graph[SC, SA, A, E]) CreateEdge(source NodeID, branches dist.Distribution[Branch[A]], guard E) (EdgeID, error) {
	src, err := g.node(source)
	if err != nil {
		return 0, err
	}
	if branches.Len() == 0 {
		return 0, fmt.Errorf("%w: edge without branches", dist.ErrInvalidDistribution)
	}
	for _, b := range branches.Entries() {
		if _, err := g.node(b.Outcome.Target); err != nil {
			return 0, err
		}
	}

	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, &Edge[A, E]{ID: id, Source: source, Branches: branches, Guard: guard})
	src.out = append(src.out, id)

	seen := make(map[NodeID]struct{}, branches.Len())
	for _, b := range branches.Entries() {
		t := b.Outcome.Target
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		g.nodes[t].back = append(g.nodes[t].back, id)
	}
	return id, nil
}

// ActionOf returns the action of the edge's branch leading to target.
func (g *Graph[SC, SA, A, E]) ActionOf(edge EdgeID, target NodeID) (A, error) {
	var zero A
	e := g.Edge(edge)
	if e == nil {
		return zero, fmt.Errorf("%w: %d", ErrUnknownEdge, edge)
	}
	for _, b := range e.Branches.Entries() {
		if b.Outcome.Target == target {
			return b.Outcome.Action, nil
		}
	}
	return zero, fmt.Errorf("%w: edge %d, node %d", ErrTargetNotInEdge, edge, target)
}

// Cover records that coverer covers n, replacing any previous coverer.
// Coverings never chain: a covered node covers nothing and a coverer is
// never covered.
func (g *Graph[SC, SA, A, E]) Cover(n, coverer NodeID) error {
	covered, err := g.node(n)
	if err != nil {
		return err
	}
	by, err := g.node(coverer)
	if err != nil {
		return err
	}
	if n == coverer {
		return fmt.Errorf("%w: %d", ErrSelfCover, n)
	}
	if by.IsCovered() {
		return fmt.Errorf("%w: %d is covered by %d", ErrCoveredCoverer, coverer, by.coveredBy)
	}
	if len(covered.covers) > 0 {
		return fmt.Errorf("%w: %d", ErrCoveringNode, n)
	}
	g.Uncover(n)
	covered.coveredBy = coverer
	by.covers[n] = struct{}{}
	return nil
}

// Uncover withdraws the covering of n. It reports whether n was covered.
func (g *Graph[SC, SA, A, E]) Uncover(n NodeID) bool {
	node := g.Node(n)
	if node == nil || !node.IsCovered() {
		return false
	}
	delete(g.nodes[node.coveredBy].covers, n)
	node.coveredBy = NoNode
	return true
}

// SetLabel replaces the abstract label of n.
func (g *Graph[SC, SA, A, E]) SetLabel(n NodeID, label SA) error {
	node, err := g.node(n)
	if err != nil {
		return err
	}
	node.Label = label
	return nil
}

// MarkExpanded sets the expanded flag of n.
func (g *Graph[SC, SA, A, E]) MarkExpanded(n NodeID) error {
	node, err := g.node(n)
	if err != nil {
		return err
	}
	node.Expanded = true
	return nil
}

// MarkError turns n into a permanent error node.
func (g *Graph[SC, SA, A, E]) MarkError(n NodeID) error {
	node, err := g.node(n)
	if err != nil {
		return err
	}
	node.Error = true
	return nil
}

// Successors returns the nodes exploration continues with from n: the
// coverer of a covered node, nothing for an error node, and every branch
// target otherwise.
func (g *Graph[SC, SA, A, E]) Successors(n NodeID) []NodeID {
	var out []NodeID
	for _, c := range g.Choices(n) {
		out = append(out, c...)
	}
	return out
}

// Choices returns, per outgoing edge, the full target set of that edge.
// A covered node has the single choice {coverer}; error nodes have none.
// Choices makes the graph usable with the mec package.
func (g *Graph[SC, SA, A, E]) Choices(n NodeID) [][]NodeID {
	node := g.Node(n)
	if node == nil || node.Error {
		return nil
	}
	if node.IsCovered() {
		return [][]NodeID{{node.coveredBy}}
	}
	out := make([][]NodeID, len(node.out))
	for i, eid := range node.out {
		out[i] = g.edges[eid].Targets()
	}
	return out
}
