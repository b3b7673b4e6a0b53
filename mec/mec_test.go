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

package mec

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// choiceGraph is a Graph backed by a literal adjacency map.
type choiceGraph map[int][][]int

func (g choiceGraph) Choices(v int) [][]int {
	return g[v]
}

func sorted(c Component[int]) []int {
	m := c.Members()
	sort.Ints(m)
	return m
}

func TestFind_SimpleCycle(t *testing.T) {
	// 0 -> 1 -> 2 -> 0, each deterministic
	g := choiceGraph{
		0: {{1}},
		1: {{2}},
		2: {{0}},
	}
	c := Find[int](g, 1)
	assert.Equal(t, []int{0, 1, 2}, sorted(c))
	assert.True(t, c.Contains(0))
	assert.False(t, c.Contains(5))
}

func TestFind_ProbabilisticExitBreaksComponent(t *testing.T) {
	// 0 has a single choice that goes to 1 or to the sink 3.
	// 1 -> 0 deterministically. The SCC {0,1} is not an end component
	// because 0 cannot stay inside it.
	g := choiceGraph{
		0: {{1, 3}},
		1: {{0}},
		3: nil,
	}
	c := Find[int](g, 1)
	assert.Equal(t, []int{1}, sorted(c))
}

func TestFind_AlternativeChoiceKeepsComponent(t *testing.T) {
	// Same as above, but 0 also has a choice that stays.
	g := choiceGraph{
		0: {{1, 3}, {1}},
		1: {{0}},
		3: nil,
	}
	c := Find[int](g, 0)
	assert.Equal(t, []int{0, 1}, sorted(c))
}

func TestFind_NeedsSeveralRounds(t *testing.T) {
	// 0 <-> 1 <-> 2, but 2's only way back to 1 also reaches 3,
	// and 3 -> 2. After removing 3 (it cannot reach back to 0),
	// 2's choice {1,3} is no longer internal, which then removes 2.
	g := choiceGraph{
		0: {{1}},
		1: {{0}, {2}},
		2: {{1, 3}},
		3: {{4}},
		4: nil,
	}
	c := Find[int](g, 0)
	assert.Equal(t, []int{0, 1}, sorted(c))
}

func TestFind_AbsorbingRoot(t *testing.T) {
	g := choiceGraph{0: nil}
	c := Find[int](g, 0)
	assert.Equal(t, 1, c.Len())
}

func TestComponent_Internal(t *testing.T) {
	c := newComponent([]int{1, 2})
	assert.True(t, c.Internal([]int{1, 2}))
	assert.False(t, c.Internal([]int{1, 3}))
}

func TestDecompose(t *testing.T) {
	// {0,1} is an end component; 2 has a self loop; 3 -> 4 is transient.
	g := choiceGraph{
		0: {{1}},
		1: {{0}, {3}},
		2: {{2}},
		3: {{4, 0}},
		4: nil,
	}
	comps := Decompose[int](g, []int{0, 1, 2, 3, 4})
	require.Len(t, comps, 2)

	var got [][]int
	for _, c := range comps {
		got = append(got, sorted(c))
	}
	sort.Slice(got, func(i, j int) bool { return got[i][0] < got[j][0] })
	assert.Equal(t, [][]int{{0, 1}, {2}}, got)
}

func TestDecompose_RestrictedVertexSet(t *testing.T) {
	// The cycle 0 -> 1 -> 0 is cut because 1 is not part of the vertex set.
	g := choiceGraph{
		0: {{1}},
		1: {{0}},
	}
	assert.Empty(t, Decompose[int](g, []int{0}))
	assert.Empty(t, Decompose[int](g, nil))
}

func TestDecompose_DeepChainDoesNotRecurse(t *testing.T) {
	const n = 200000
	g := make(choiceGraph, n)
	vertices := make([]int, n)
	for i := 0; i < n; i++ {
		g[i] = [][]int{{(i + 1) % n}}
		vertices[i] = i
	}
	comps := Decompose[int](g, vertices)
	require.Len(t, comps, 1)
	assert.Equal(t, n, comps[0].Len())
}
