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

// Valuation is a concrete state: the value of every program variable.
// Variables that are not set read as 0.
type Valuation map[string]int

// Key returns a canonical string for the valuation, e.g. "x=0,y=1".
// Valuations with equal keys are equal.
func (v Valuation) Key() string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(v[name]))
	}
	return b.String()
}

// String returns the key of the valuation in braces.
func (v Valuation) String() string {
	return "{" + v.Key() + "}"
}

// Clone returns a copy of v.
func (v Valuation) Clone() Valuation {
	out := make(Valuation, len(v))
	for name, val := range v {
		out[name] = val
	}
	return out
}

// Label is an abstract state: a partial valuation. It stands for every
// valuation that agrees with it on the variables it tracks. The empty
// label is top.
type Label map[string]int

// Top returns the label that contains every valuation.
func Top() Label {
	return Label{}
}

// Contains reports whether v agrees with l on every tracked variable.
func (l Label) Contains(v Valuation) bool {
	for name, val := range l {
		if v[name] != val {
			return false
		}
	}
	return true
}

// Leq reports whether every state of l is a state of o, i.e. l tracks
// every variable o tracks, with the same value.
func (l Label) Leq(o Label) bool {
	for name, val := range o {
		if got, ok := l[name]; !ok || got != val {
			return false
		}
	}
	return true
}

// Track returns a copy of l that additionally tracks names with their
// values in v.
func (l Label) Track(v Valuation, names ...string) Label {
	out := make(Label, len(l)+len(names))
	for name, val := range l {
		out[name] = val
	}
	for _, name := range names {
		out[name] = v[name]
	}
	return out
}

// String renders the label like a valuation; top renders as "{}".
func (l Label) String() string {
	return Valuation(l).String()
}

// Update is a parallel assignment: every right-hand side is evaluated in
// the state before the update.
type Update map[string]Term

// Apply returns the successor of v under u.
func (u Update) Apply(v Valuation) Valuation {
	out := v.Clone()
	for name, t := range u {
		out[name] = t.Eval(v)
	}
	return out
}
