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

// Package mec computes end components of probabilistic graphs.
//
// A probabilistic graph is given by its choices: every vertex offers a list
// of choices, and every choice is the full set of vertices it may lead to.
// An end component is a strongly connected set of vertices in which every
// vertex keeps at least one choice whose targets all stay inside the set.
//
// Plain strongly connected components are not enough: a choice that leaves
// the set with positive probability cannot be used to stay inside it. Both
// Find and Decompose therefore iterate, restricting the usable choices to
// those that lie completely inside the previous round's component, until
// the component no longer shrinks.
//
// All traversals use explicit stacks, so deep graphs do not grow the
// goroutine stack.
package mec

// Graph exposes the choices of every vertex.
// A vertex without choices is absorbing.
type Graph[V comparable] interface {
	Choices(v V) [][]V
}

// Component is a set of vertices in discovery order.
type Component[V comparable] struct {
	members []V
	set     map[V]struct{}
}

func newComponent[V comparable](members []V) Component[V] {
	c := Component[V]{members: members, set: make(map[V]struct{}, len(members))}
	for _, v := range members {
		c.set[v] = struct{}{}
	}
	return c
}

// Members returns the vertices of the component.
func (c Component[V]) Members() []V {
	out := make([]V, len(c.members))
	copy(out, c.members)
	return out
}

// Contains reports whether v belongs to the component.
func (c Component[V]) Contains(v V) bool {
	_, ok := c.set[v]
	return ok
}

// Len returns the number of vertices in the component.
func (c Component[V]) Len() int {
	return len(c.members)
}

// Internal reports whether every target of choice lies in the component.
func (c Component[V]) Internal(choice []V) bool {
	for _, t := range choice {
		if !c.Contains(t) {
			return false
		}
	}
	return true
}

// Find returns the maximal end component candidate containing root.
//
// The first round works on everything reachable from root. Each following
// round keeps only the choices whose whole target set lies inside the
// previous round's strongly connected component of root, and recomputes
// that component with a forward and a backward pass. The loop stops when
// the component is stable.
//
// The result always contains root. A result of size one is an end
// component only if root has a choice that leads back to itself.
func Find[V comparable](g Graph[V], root V) Component[V] {
	current := newComponent(reach(root, func(v V) []V { return flatten(g.Choices(v)) }))

	for {
		allowed := func(v V) []V {
			var out []V
			for _, c := range g.Choices(v) {
				if current.Internal(c) {
					out = append(out, c...)
				}
			}
			return out
		}

		forward := reach(root, allowed)
		inForward := newComponent(forward)

		preds := make(map[V][]V, len(forward))
		for _, v := range forward {
			for _, t := range allowed(v) {
				if inForward.Contains(t) {
					preds[t] = append(preds[t], v)
				}
			}
		}
		backward := newComponent(reach(root, func(v V) []V { return preds[v] }))

		scc := make([]V, 0, backward.Len())
		for _, v := range forward {
			if backward.Contains(v) {
				scc = append(scc, v)
			}
		}

		if len(scc) == current.Len() {
			return current
		}
		current = newComponent(scc)
	}
}

// Decompose returns every maximal end component among vertices.
// Choices that leave the vertex set are never usable.
func Decompose[V comparable](g Graph[V], vertices []V) []Component[V] {
	comp := make(map[V]int, len(vertices))
	for _, v := range vertices {
		comp[v] = 0
	}
	parts := 1
	if len(vertices) == 0 {
		return nil
	}

	allowed := func(v V) []V {
		cv := comp[v]
		var out []V
		for _, c := range g.Choices(v) {
			ok := true
			for _, t := range c {
				if ct, present := comp[t]; !present || ct != cv {
					ok = false
					break
				}
			}
			if ok {
				out = append(out, c...)
			}
		}
		return out
	}

	var sccs [][]V
	for {
		changed := false
		live := make([]V, 0, len(comp))
		for _, v := range vertices {
			if _, present := comp[v]; !present {
				continue
			}
			if len(allowed(v)) == 0 {
				delete(comp, v)
				changed = true
				continue
			}
			live = append(live, v)
		}

		sccs = tarjan(live, func(v V) []V {
			var out []V
			for _, t := range allowed(v) {
				if _, present := comp[t]; present {
					out = append(out, t)
				}
			}
			return out
		})

		if len(sccs) != parts {
			changed = true
		}
		parts = len(sccs)
		for i, scc := range sccs {
			for _, v := range scc {
				comp[v] = i
			}
		}
		if !changed {
			break
		}
	}

	out := make([]Component[V], 0, len(sccs))
	for _, scc := range sccs {
		out = append(out, newComponent(scc))
	}
	return out
}

// reach returns the vertices reachable from root in DFS preorder.
func reach[V comparable](root V, succ func(V) []V) []V {
	seen := map[V]struct{}{root: {}}
	order := []V{root}
	stack := []V{root}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, t := range succ(v) {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			order = append(order, t)
			stack = append(stack, t)
		}
	}
	return order
}

func flatten[V comparable](choices [][]V) []V {
	var out []V
	for _, c := range choices {
		out = append(out, c...)
	}
	return out
}

// tarjan computes strongly connected components of the vertices in order.
// succ must only return vertices that are part of order.
func tarjan[V comparable](order []V, succ func(V) []V) [][]V {
	type frame struct {
		v     V
		succs []V
		i     int
	}

	index := make(map[V]int, len(order))
	low := make(map[V]int, len(order))
	onStack := make(map[V]bool, len(order))
	var stack []V
	var sccs [][]V
	next := 0

	visit := func(v V) {
		index[v] = next
		low[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true
	}

	for _, s := range order {
		if _, seen := index[s]; seen {
			continue
		}
		visit(s)
		calls := []frame{{v: s, succs: succ(s)}}

		for len(calls) > 0 {
			f := &calls[len(calls)-1]
			if f.i < len(f.succs) {
				w := f.succs[f.i]
				f.i++
				if _, seen := index[w]; !seen {
					visit(w)
					calls = append(calls, frame{v: w, succs: succ(w)})
				} else if onStack[w] && index[w] < low[f.v] {
					low[f.v] = index[w]
				}
				continue
			}

			v := f.v
			calls = calls[:len(calls)-1]
			if len(calls) > 0 {
				p := calls[len(calls)-1].v
				if low[v] < low[p] {
					low[p] = low[v]
				}
			}
			if low[v] == index[v] {
				var scc []V
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					scc = append(scc, w)
					if w == v {
						break
					}
				}
				sccs = append(sccs, scc)
			}
		}
	}
	return sccs
}
