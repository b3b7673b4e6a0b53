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

// Package solver computes reachability probabilities on finite stochastic
// games by value iteration.
//
// Two modes are available:
//   - Plain value iteration starts from 0 (1 on targets) and stops once no
//     value changes by more than the threshold in one sweep. The result is a
//     lower bound that is close to the true value, but the stopping rule
//     gives no guarantee.
//   - Bounded value iteration additionally iterates an upper bound from 1.
//     End components would keep the upper bound stuck at 1, so they are
//     handled first: under Min every end component is fixed to 0, under Max
//     every end component is collapsed into a single quotient state whose
//     choices are the ones leaving it. Iteration stops once upper and lower
//     bound are within the threshold everywhere.
//
// # Usage
//
//	res, err := solver.Solve(game, solver.Options{Goal: solver.Max, Threshold: 1e-8, Bounded: true})
//	p := res.Values[initial]
package solver

import (
	"fmt"
	"math"

	"github.com/jazzpetri/probcheck/mec"
)

// Options configures a solve.
type Options struct {
	// Goal selects maximal or minimal reachability.
	Goal Goal

	// Threshold is the convergence threshold (must be positive).
	Threshold float64

	// Bounded enables interval iteration with end-component collapsing.
	Bounded bool
}

// Result holds the per-position values of a solve.
type Result struct {
	// Values is Lower for plain iteration and the midpoint of Lower and
	// Upper for bounded iteration.
	Values []float64

	// Lower holds the lower bounds.
	Lower []float64

	// Upper holds the upper bounds (nil for plain iteration).
	Upper []float64

	// Iterations is the number of Bellman sweeps performed.
	Iterations int
}

// Solve computes the reachability probability of the target positions.
func Solve(g *Game, opts Options) (Result, error) {
	if !(opts.Threshold > 0) {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidThreshold, opts.Threshold)
	}
	if err := g.Validate(); err != nil {
		return Result{}, err
	}
	if opts.Bounded {
		return solveBounded(g, opts), nil
	}
	return solvePlain(g, opts), nil
}

func solvePlain(g *Game, opts Options) Result {
	n := g.Len()
	lower := make([]float64, n)
	for p := 0; p < n; p++ {
		if g.Targets[p] {
			lower[p] = 1
		}
	}

	iterations := 0
	for {
		iterations++
		delta := 0.0
		for p := 0; p < n; p++ {
			if g.Targets[p] || len(g.Choices[p]) == 0 {
				continue
			}
			v := bellman(opts.Goal, g.Choices[p], lower)
			if d := math.Abs(v - lower[p]); d > delta {
				delta = d
			}
			lower[p] = v
		}
		if delta < opts.Threshold {
			break
		}
	}

	return Result{Values: lower, Lower: lower, Iterations: iterations}
}

// quotient maps positions onto groups: an end component becomes one group,
// every other position is a group of its own.
type quotient struct {
	groupOf []int
	members [][]int
	exits   [][]Choice
	zero    []bool
}

func buildQuotient(g *Game, goal Goal) *quotient {
	n := g.Len()
	q := &quotient{groupOf: make([]int, n)}
	for p := range q.groupOf {
		q.groupOf[p] = -1
	}

	candidates := make([]int, 0, n)
	for p := 0; p < n; p++ {
		if !g.Targets[p] {
			candidates = append(candidates, p)
		}
	}
	for _, c := range mec.Decompose[int](graphView{g}, candidates) {
		id := len(q.members)
		members := c.Members()
		q.members = append(q.members, members)
		var exits []Choice
		for _, p := range members {
			q.groupOf[p] = id
			for _, ch := range g.Choices[p] {
				if !leavesNone(ch, c) {
					exits = append(exits, ch)
				}
			}
		}
		q.exits = append(q.exits, exits)
		// staying forever never reaches a target
		q.zero = append(q.zero, goal == Min || len(exits) == 0)
	}

	for p := 0; p < n; p++ {
		if q.groupOf[p] >= 0 {
			continue
		}
		q.groupOf[p] = len(q.members)
		q.members = append(q.members, []int{p})
		if g.Targets[p] {
			q.exits = append(q.exits, nil)
		} else {
			q.exits = append(q.exits, g.Choices[p])
		}
		q.zero = append(q.zero, false)
	}
	return q
}

func leavesNone(ch Choice, c mec.Component[int]) bool {
	for _, b := range ch.Branches {
		if !c.Contains(b.Target) {
			return false
		}
	}
	return true
}

func solveBounded(g *Game, opts Options) Result {
	q := buildQuotient(g, opts.Goal)
	n := g.Len()
	lower := make([]float64, n)
	upper := make([]float64, n)

	for id, members := range q.members {
		target := len(members) == 1 && g.Targets[members[0]]
		dead := q.zero[id] || (!target && len(q.exits[id]) == 0)
		for _, p := range members {
			switch {
			case target:
				lower[p], upper[p] = 1, 1
			case dead:
				lower[p], upper[p] = 0, 0
			default:
				lower[p], upper[p] = 0, 1
			}
		}
	}

	iterations := 0
	for {
		iterations++
		gap := 0.0
		for id, members := range q.members {
			if len(q.exits[id]) == 0 || q.zero[id] || g.Targets[members[0]] {
				continue
			}
			l := bellman(opts.Goal, q.exits[id], lower)
			u := bellman(opts.Goal, q.exits[id], upper)
			for _, p := range members {
				lower[p] = math.Max(lower[p], l)
				upper[p] = math.Min(upper[p], u)
				if d := upper[p] - lower[p]; d > gap {
					gap = d
				}
			}
		}
		if gap <= opts.Threshold {
			break
		}
	}

	values := make([]float64, n)
	for p := range values {
		values[p] = (lower[p] + upper[p]) / 2
	}
	return Result{Values: values, Lower: lower, Upper: upper, Iterations: iterations}
}

// bellman returns the goal-optimal expected value over choices.
func bellman(goal Goal, choices []Choice, values []float64) float64 {
	best := goal.Worst()
	for _, c := range choices {
		v := 0.0
		for _, b := range c.Branches {
			v += b.Prob * values[b.Target]
		}
		if goal.Better(v, best) {
			best = v
		}
	}
	if math.IsInf(best, 0) {
		return 0
	}
	return best
}
