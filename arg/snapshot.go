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

import (
	"encoding/json"
	"fmt"
)

// Snapshot is a serializable view of a graph for debugging output.
// Concrete states, labels, actions and guards are rendered with fmt.
type Snapshot struct {
	Nodes []SnapshotNode `json:"nodes"`
}

// SnapshotNode is the serializable form of one node and its outgoing edges.
type SnapshotNode struct {
	ID        int            `json:"id"`
	Concrete  string         `json:"concrete"`
	Label     string         `json:"label"`
	Expanded  bool           `json:"expanded"`
	Error     bool           `json:"error,omitempty"`
	CoveredBy *int           `json:"covered_by,omitempty"`
	Edges     []SnapshotEdge `json:"edges,omitempty"`
}

// SnapshotEdge is the serializable form of one edge.
type SnapshotEdge struct {
	ID       int              `json:"id"`
	Guard    string           `json:"guard"`
	Branches []SnapshotBranch `json:"branches"`
}

// SnapshotBranch is one (action, target, probability) triple.
type SnapshotBranch struct {
	Action string  `json:"action"`
	Target int     `json:"target"`
	Prob   float64 `json:"prob"`
}

// Snapshot captures the current graph.
func (g *Graph[SC, SA, A, E]) Snapshot() Snapshot {
	s := Snapshot{Nodes: make([]SnapshotNode, 0, len(g.nodes))}
	for _, n := range g.nodes {
		sn := SnapshotNode{
			ID:       int(n.ID),
			Concrete: fmt.Sprint(n.Concrete),
			Label:    fmt.Sprint(n.Label),
			Expanded: n.Expanded,
			Error:    n.Error,
		}
		if n.IsCovered() {
			by := int(n.coveredBy)
			sn.CoveredBy = &by
		}
		for _, eid := range n.out {
			e := g.edges[eid]
			se := SnapshotEdge{ID: int(e.ID), Guard: fmt.Sprint(e.Guard)}
			for _, b := range e.Branches.Entries() {
				se.Branches = append(se.Branches, SnapshotBranch{
					Action: fmt.Sprint(b.Outcome.Action),
					Target: int(b.Outcome.Target),
					Prob:   b.Prob,
				})
			}
			sn.Edges = append(sn.Edges, se)
		}
		s.Nodes = append(s.Nodes, sn)
	}
	return s
}

// JSON renders the snapshot as indented JSON.
func (s Snapshot) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// Stats summarizes a snapshot.
type Stats struct {
	Nodes    int `json:"nodes"`
	Edges    int `json:"edges"`
	Covered  int `json:"covered"`
	Errors   int `json:"errors"`
	Expanded int `json:"expanded"`
}

// Stats counts nodes by status.
func (s Snapshot) Stats() Stats {
	var st Stats
	for _, n := range s.Nodes {
		st.Nodes++
		st.Edges += len(n.Edges)
		if n.CoveredBy != nil {
			st.Covered++
		}
		if n.Error {
			st.Errors++
		}
		if n.Expanded {
			st.Expanded++
		}
	}
	return st
}
