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

package explicit

import (
	"fmt"
	"sort"

	"github.com/jazzpetri/probcheck/checker"
)

// Domain is the explicit-value abstraction: labels are partial
// valuations, and blocking an expression starts tracking the variables it
// reads. It implements checker.Domain for the commands of one Program.
type Domain struct {
	program *Program
}

var _ checker.Domain[Valuation, Label, string, Expr] = (*Domain)(nil)
var _ checker.Model[Valuation, string, Expr] = (*Program)(nil)

// NewDomain creates the domain of p.
func NewDomain(p *Program) *Domain {
	return &Domain{program: p}
}

// IsEnabled evaluates the guard of cmd in sc.
func (d *Domain) IsEnabled(sc Valuation, cmd Command) bool {
	return cmd.Guard.Eval(sc)
}

// MayBeEnabled reports whether some state of sa may satisfy the guard.
func (d *Domain) MayBeEnabled(sa Label, cmd Command) bool {
	return cmd.Guard.Partial(sa) != No
}

// MustBeEnabled reports whether every state of sa satisfies the guard.
func (d *Domain) MustBeEnabled(sa Label, cmd Command) bool {
	return cmd.Guard.Partial(sa) == Yes
}

// CheckContainment reports whether sc is a state of sa.
func (d *Domain) CheckContainment(sc Valuation, sa Label) bool {
	return sa.Contains(sc)
}

// IsLeq reports whether a is at least as precise as b.
func (d *Domain) IsLeq(a, b Label) bool {
	return a.Leq(b)
}

// ConcreteTransFunc applies the update of action a. An unknown action has
// no successor.
func (d *Domain) ConcreteTransFunc(sc Valuation, a string) []Valuation {
	u, ok := d.program.Update(a)
	if !ok {
		return nil
	}
	return []Valuation{u.Apply(sc)}
}

// Block tracks every variable expr reads at its value in sc. Since sc
// falsifies expr, so does every state of the result.
//
// Returns ErrNotContained if sc is not a state of sa and
// ErrNotContradicting if sc satisfies expr.
func (d *Domain) Block(sa Label, expr Expr, sc Valuation) (Label, error) {
	if !sa.Contains(sc) {
		return nil, fmt.Errorf("%w: %v in %v", ErrNotContained, sc, sa)
	}
	if expr.Eval(sc) {
		return nil, fmt.Errorf("%w: %v satisfies %v", ErrNotContradicting, sc, expr)
	}
	return sa.Track(sc, Vars(expr)...), nil
}

// PreImage returns the predicate describing the states that reach sa
// under action a.
func (d *Domain) PreImage(sa Label, a string) Expr {
	u, _ := d.program.Update(a)
	return d.LabelExpr(sa).Substitute(u)
}

// PostImage keeps the tracked variables that a leaves alone and the ones
// it assigns a value computable from sa; every other variable is dropped.
func (d *Domain) PostImage(sa Label, a string) Label {
	u, _ := d.program.Update(a)
	out := make(Label, len(sa))
	for name, val := range sa {
		if _, assigned := u[name]; !assigned {
			out[name] = val
		}
	}
	for name, t := range u {
		if val, ok := t.Partial(sa); ok {
			out[name] = val
		}
	}
	return out
}

// TopAfter returns top.
func (d *Domain) TopAfter(Label, string) Label {
	return Top()
}

// Negate returns the negation of e.
func (d *Domain) Negate(e Expr) Expr {
	return Not(e)
}

// LabelExpr returns the conjunction of the equalities sa tracks, ordered
// by variable name.
func (d *Domain) LabelExpr(sa Label) Expr {
	names := make([]string, 0, len(sa))
	for name := range sa {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]Expr, len(names))
	for i, name := range names {
		parts[i] = Eq(Var(name), Const(sa[name]))
	}
	return And(parts...)
}
