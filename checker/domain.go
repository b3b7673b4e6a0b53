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

import "github.com/jazzpetri/probcheck/dist"

// Command is one guarded probabilistic command. It is enabled in a
// concrete state iff its guard holds there; taking it picks an action
// from Result.
type Command[A comparable, E any] struct {
	// Name identifies the command in logs and snapshots
	Name string

	// Guard is the enabling condition
	Guard E

	// Result is the distribution over the actions the command may take
	Result dist.Distribution[A]
}

// Model supplies the commands of the system under analysis.
type Model[SC any, A comparable, E any] interface {
	// StandardCommands returns the candidate standard commands of sc.
	StandardCommands(sc SC) []Command[A, E]

	// ErrorCommands returns the candidate error commands of sc. A node in
	// which an error command is enabled is an error node.
	ErrorCommands(sc SC) []Command[A, E]
}

// Domain supplies the concrete and abstract semantics the checker is
// generic over. SC is the concrete state type, SA the abstract label type,
// A the action type and E the expression type of guards and blocked
// predicates.
//
// All methods are treated as blocking pure functions.
type Domain[SC, SA any, A comparable, E any] interface {
	// IsEnabled reports exact enabledness of cmd in sc.
	IsEnabled(sc SC, cmd Command[A, E]) bool

	// MayBeEnabled over-approximates enabledness of cmd in the states of sa.
	MayBeEnabled(sa SA, cmd Command[A, E]) bool

	// MustBeEnabled under-approximates enabledness of cmd in the states of sa.
	MustBeEnabled(sa SA, cmd Command[A, E]) bool

	// CheckContainment reports whether sa over-approximates sc.
	CheckContainment(sc SC, sa SA) bool

	// IsLeq is the partial order of labels: every state of a is a state of b.
	IsLeq(a, b SA) bool

	// ConcreteTransFunc returns the successors of sc under action a.
	// Exactly one successor is required.
	ConcreteTransFunc(sc SC, a A) []SC

	// Block strengthens sa to exclude expr while still containing sc.
	// It fails if sc does not contradict expr or is not contained in sa.
	Block(sa SA, expr E, sc SC) (SA, error)

	// PreImage returns the predicate whose states lead into sa under a.
	PreImage(sa SA, a A) E

	// PostImage returns the label of the states reached from sa under a.
	PostImage(sa SA, a A) SA

	// TopAfter returns the least informative label for a successor under a.
	TopAfter(sa SA, a A) SA

	// Negate returns the complement of e.
	Negate(e E) E

	// LabelExpr returns the predicate describing the states of sa.
	LabelExpr(sa SA) E
}
