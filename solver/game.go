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

package solver

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for solver operations.
var (
	// ErrInvalidGame is returned when a game is malformed: a branch points
	// outside the position range, a choice is not a distribution, or the
	// target vector does not match the number of positions.
	ErrInvalidGame = errors.New("invalid game")

	// ErrInvalidThreshold is returned for thresholds that are not positive.
	ErrInvalidThreshold = errors.New("threshold must be positive")

	// ErrUnknownGoal is returned when parsing an unrecognised goal name.
	ErrUnknownGoal = errors.New("unknown goal")
)

// Goal selects whether reachability probability is maximised or minimised.
type Goal int

const (
	// Max maximises the probability of reaching a target.
	Max Goal = iota
	// Min minimises the probability of reaching a target.
	Min
)

// String returns "max" or "min".
func (g Goal) String() string {
	switch g {
	case Max:
		return "max"
	case Min:
		return "min"
	default:
		return fmt.Sprintf("goal(%d)", int(g))
	}
}

// ParseGoal parses "max" or "min" (case-insensitive).
func ParseGoal(s string) (Goal, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "max":
		return Max, nil
	case "min":
		return Min, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownGoal, s)
	}
}

// Better reports whether a is strictly preferable to b under g.
func (g Goal) Better(a, b float64) bool {
	if g == Min {
		return a < b
	}
	return a > b
}

// Worst returns the value every candidate improves on.
func (g Goal) Worst() float64 {
	if g == Min {
		return math.Inf(1)
	}
	return math.Inf(-1)
}

// MarshalYAML encodes the goal by name.
func (g Goal) MarshalYAML() (interface{}, error) {
	return g.String(), nil
}

// UnmarshalYAML decodes a goal name.
func (g *Goal) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseGoal(value.Value)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Branch is one probabilistic outcome of a choice.
type Branch struct {
	Target int
	Prob   float64
}

// Choice is one action available in a position.
type Choice struct {
	Branches []Branch
}

// Game is a finite stochastic reachability game with a single optimising
// player. Positions are numbered 0..len(Choices)-1. A position without
// choices is absorbing. Target positions count as reached and their
// choices are ignored.
type Game struct {
	Choices [][]Choice
	Targets []bool
}

// Len returns the number of positions.
func (g *Game) Len() int {
	return len(g.Choices)
}

// Validate checks the structural integrity of the game.
func (g *Game) Validate() error {
	if len(g.Targets) != len(g.Choices) {
		return fmt.Errorf("%w: %d targets for %d positions", ErrInvalidGame, len(g.Targets), len(g.Choices))
	}
	for p, choices := range g.Choices {
		for ci, c := range choices {
			if len(c.Branches) == 0 {
				return fmt.Errorf("%w: position %d choice %d has no branches", ErrInvalidGame, p, ci)
			}
			sum := 0.0
			for _, b := range c.Branches {
				if b.Target < 0 || b.Target >= len(g.Choices) {
					return fmt.Errorf("%w: position %d choice %d targets %d", ErrInvalidGame, p, ci, b.Target)
				}
				if b.Prob < 0 || math.IsNaN(b.Prob) {
					return fmt.Errorf("%w: position %d choice %d has probability %v", ErrInvalidGame, p, ci, b.Prob)
				}
				sum += b.Prob
			}
			if math.Abs(sum-1) > 1e-9 {
				return fmt.Errorf("%w: position %d choice %d sums to %v", ErrInvalidGame, p, ci, sum)
			}
		}
	}
	return nil
}

// choiceTargets lists the target sets of the choices of p. Targets are
// treated as absorbing.
func (g *Game) choiceTargets(p int) [][]int {
	if g.Targets[p] {
		return nil
	}
	out := make([][]int, len(g.Choices[p]))
	for i, c := range g.Choices[p] {
		ts := make([]int, len(c.Branches))
		for j, b := range c.Branches {
			ts[j] = b.Target
		}
		out[i] = ts
	}
	return out
}

// graphView adapts a Game to mec.Graph.
type graphView struct{ g *Game }

func (v graphView) Choices(p int) [][]int { return v.g.choiceTargets(p) }
