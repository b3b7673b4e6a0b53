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
	"sort"
	"strconv"
	"strings"
)

// Truth is the value of an expression over a label: known true, known
// false, or unknown because it depends on an untracked variable.
type Truth int

const (
	// Unknown means the label has states on both sides.
	Unknown Truth = iota
	// Yes means every state of the label satisfies the expression.
	Yes
	// No means no state of the label satisfies the expression.
	No
)

func truthOf(b bool) Truth {
	if b {
		return Yes
	}
	return No
}

// Term is an integer expression over program variables.
type Term interface {
	// Eval evaluates the term in v.
	Eval(v Valuation) int
	// Partial evaluates the term over l; ok is false if it depends on an
	// untracked variable.
	Partial(l Label) (val int, ok bool)
	// Substitute replaces every variable assigned by u by its right-hand side.
	Substitute(u Update) Term

	collect(into map[string]struct{})
	String() string
}

type constTerm int

// Const returns the constant term n.
func Const(n int) Term { return constTerm(n) }

func (c constTerm) Eval(Valuation) int { return int(c) }
func (c constTerm) Partial(Label) (int, bool) { return int(c), true }
func (c constTerm) Substitute(Update) Term { return c }
func (c constTerm) collect(map[string]struct{}) {}
func (c constTerm) String() string { return strconv.Itoa(int(c)) }

type varTerm string

// Var returns the term reading variable name.
func Var(name string) Term { return varTerm(name) }

func (x varTerm) Eval(v Valuation) int { return v[string(x)] }

func (x varTerm) Partial(l Label) (int, bool) {
	val, ok := l[string(x)]
	return val, ok
}

func (x varTerm) Substitute(u Update) Term {
	if t, ok := u[string(x)]; ok {
		return t
	}
	return x
}

func (x varTerm) collect(into map[string]struct{}) { into[string(x)] = struct{}{} }
func (x varTerm) String() string { return string(x) }

type arithTerm struct {
	op   byte
	a, b Term
}

// Plus returns a + b.
func Plus(a, b Term) Term { return arithTerm{op: '+', a: a, b: b} }

// Minus returns a - b.
func Minus(a, b Term) Term { return arithTerm{op: '-', a: a, b: b} }

func (t arithTerm) apply(a, b int) int {
	if t.op == '-' {
		return a - b
	}
	return a + b
}

func (t arithTerm) Eval(v Valuation) int { return t.apply(t.a.Eval(v), t.b.Eval(v)) }

func (t arithTerm) Partial(l Label) (int, bool) {
	a, ok := t.a.Partial(l)
	if !ok {
		return 0, false
	}
	b, ok := t.b.Partial(l)
	if !ok {
		return 0, false
	}
	return t.apply(a, b), true
}

func (t arithTerm) Substitute(u Update) Term {
	return arithTerm{op: t.op, a: t.a.Substitute(u), b: t.b.Substitute(u)}
}

func (t arithTerm) collect(into map[string]struct{}) {
	t.a.collect(into)
	t.b.collect(into)
}

func (t arithTerm) String() string {
	return "(" + t.a.String() + " " + string(t.op) + " " + t.b.String() + ")"
}

// Expr is a boolean expression over program variables. It is used for
// command guards and for the predicates the checker blocks out of labels.
type Expr interface {
	// Eval evaluates the expression in v.
	Eval(v Valuation) bool
	// Partial evaluates the expression over every state of l.
	Partial(l Label) Truth
	// Substitute replaces every variable assigned by u by its right-hand
	// side, giving the weakest precondition of the expression under u.
	Substitute(u Update) Expr

	collect(into map[string]struct{})
	String() string
}

// Vars returns the variables e reads, sorted.
func Vars(e Expr) []string {
	set := make(map[string]struct{})
	e.collect(set)
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

type constExpr bool

// True is the expression satisfied by every state.
func True() Expr { return constExpr(true) }

// False is the expression satisfied by no state.
func False() Expr { return constExpr(false) }

func (c constExpr) Eval(Valuation) bool { return bool(c) }
func (c constExpr) Partial(Label) Truth { return truthOf(bool(c)) }
func (c constExpr) Substitute(Update) Expr { return c }
func (c constExpr) collect(map[string]struct{}) {}
func (c constExpr) String() string { return strconv.FormatBool(bool(c)) }

type cmpExpr struct {
	op   string
	a, b Term
}

// Eq returns a == b.
func Eq(a, b Term) Expr { return cmpExpr{op: "==", a: a, b: b} }

// Lt returns a < b.
func Lt(a, b Term) Expr { return cmpExpr{op: "<", a: a, b: b} }

func (c cmpExpr) holds(a, b int) bool {
	if c.op == "<" {
		return a < b
	}
	return a == b
}

func (c cmpExpr) Eval(v Valuation) bool { return c.holds(c.a.Eval(v), c.b.Eval(v)) }

func (c cmpExpr) Partial(l Label) Truth {
	a, ok := c.a.Partial(l)
	if !ok {
		return Unknown
	}
	b, ok := c.b.Partial(l)
	if !ok {
		return Unknown
	}
	return truthOf(c.holds(a, b))
}

func (c cmpExpr) Substitute(u Update) Expr {
	return cmpExpr{op: c.op, a: c.a.Substitute(u), b: c.b.Substitute(u)}
}

func (c cmpExpr) collect(into map[string]struct{}) {
	c.a.collect(into)
	c.b.collect(into)
}

func (c cmpExpr) String() string { return c.a.String() + " " + c.op + " " + c.b.String() }

type notExpr struct{ e Expr }

// Not returns the negation of e. Constants and double negations are
// simplified.
func Not(e Expr) Expr {
	switch x := e.(type) {
	case constExpr:
		return !x
	case notExpr:
		return x.e
	}
	return notExpr{e: e}
}

func (n notExpr) Eval(v Valuation) bool { return !n.e.Eval(v) }

func (n notExpr) Partial(l Label) Truth {
	switch n.e.Partial(l) {
	case Yes:
		return No
	case No:
		return Yes
	}
	return Unknown
}

func (n notExpr) Substitute(u Update) Expr { return Not(n.e.Substitute(u)) }
func (n notExpr) collect(into map[string]struct{}) { n.e.collect(into) }
func (n notExpr) String() string { return "!(" + n.e.String() + ")" }

type junction struct {
	and   bool
	parts []Expr
}

// And returns the conjunction of parts; the empty conjunction is True.
func And(parts ...Expr) Expr {
	if len(parts) == 0 {
		return True()
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return junction{and: true, parts: parts}
}

// Or returns the disjunction of parts; the empty disjunction is False.
func Or(parts ...Expr) Expr {
	if len(parts) == 0 {
		return False()
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return junction{and: false, parts: parts}
}

func (j junction) Eval(v Valuation) bool {
	for _, p := range j.parts {
		if p.Eval(v) != j.and {
			return !j.and
		}
	}
	return j.and
}

// Partial short-circuits: a known false conjunct (true disjunct) decides
// the result even if other parts are unknown.
func (j junction) Partial(l Label) Truth {
	dominant := truthOf(!j.and)
	result := truthOf(j.and)
	for _, p := range j.parts {
		switch p.Partial(l) {
		case dominant:
			return dominant
		case Unknown:
			result = Unknown
		}
	}
	return result
}

func (j junction) Substitute(u Update) Expr {
	parts := make([]Expr, len(j.parts))
	for i, p := range j.parts {
		parts[i] = p.Substitute(u)
	}
	return junction{and: j.and, parts: parts}
}

func (j junction) collect(into map[string]struct{}) {
	for _, p := range j.parts {
		p.collect(into)
	}
}

func (j junction) String() string {
	sep := " || "
	if j.and {
		sep = " && "
	}
	parts := make([]string, len(j.parts))
	for i, p := range j.parts {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}
