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

// Package dist provides finite discrete probability distributions.
//
// A Distribution is immutable once constructed. Its outcomes keep the order
// in which they were first supplied, so iteration over a distribution is
// deterministic. Strategies that cycle through outcomes (round-robin) rely
// on that order.
//
// # Usage
//
//	d, err := dist.New(
//	    dist.Entry[string]{Outcome: "loop", Prob: 0.3},
//	    dist.Entry[string]{Outcome: "fail", Prob: 0.7},
//	)
//	v := dist.Expected(d, func(a string) float64 { return values[a] })
package dist

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// Tolerance is the maximum deviation of the probability mass from 1.
const Tolerance = 1e-10

// ErrInvalidDistribution is returned when the supplied probabilities do not
// form a probability distribution.
var ErrInvalidDistribution = errors.New("invalid probability distribution")

// Entry is one outcome of a distribution together with its probability.
type Entry[T comparable] struct {
	Outcome T
	Prob    float64
}

// Distribution is a finite discrete probability distribution over T.
// The zero value is not a valid distribution; use New or Dirac.
type Distribution[T comparable] struct {
	entries []Entry[T]
	index   map[T]int
}

// New creates a distribution from the given entries.
//
// Entries with the same outcome are merged, keeping the position of the first
// occurrence. Entries with zero probability are dropped.
//
// Returns ErrInvalidDistribution if there are no entries, any probability is
// negative or NaN, or the probabilities do not sum to 1 within Tolerance.
func New[T comparable](entries ...Entry[T]) (Distribution[T], error) {
	if len(entries) == 0 {
		return Distribution[T]{}, fmt.Errorf("%w: no outcomes", ErrInvalidDistribution)
	}

	d := Distribution[T]{
		entries: make([]Entry[T], 0, len(entries)),
		index:   make(map[T]int, len(entries)),
	}
	sum := 0.0
	for _, e := range entries {
		if math.IsNaN(e.Prob) || math.IsInf(e.Prob, 0) || e.Prob < 0 {
			return Distribution[T]{}, fmt.Errorf("%w: probability %v of outcome %v", ErrInvalidDistribution, e.Prob, e.Outcome)
		}
		sum += e.Prob
		if e.Prob == 0 {
			continue
		}
		if i, ok := d.index[e.Outcome]; ok {
			d.entries[i].Prob += e.Prob
			continue
		}
		d.index[e.Outcome] = len(d.entries)
		d.entries = append(d.entries, e)
	}

	if math.Abs(sum-1) >= Tolerance {
		return Distribution[T]{}, fmt.Errorf("%w: probabilities sum to %v", ErrInvalidDistribution, sum)
	}
	return d, nil
}

// MustNew is like New but panics on invalid input.
// It is intended for distribution literals in tests and examples.
func MustNew[T comparable](entries ...Entry[T]) Distribution[T] {
	d, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return d
}

// Dirac returns the distribution that assigns probability 1 to t.
func Dirac[T comparable](t T) Distribution[T] {
	return Distribution[T]{
		entries: []Entry[T]{{Outcome: t, Prob: 1}},
		index:   map[T]int{t: 0},
	}
}

// Len returns the number of outcomes with non-zero probability.
func (d Distribution[T]) Len() int {
	return len(d.entries)
}

// Entries returns a copy of the outcomes and their probabilities in order.
func (d Distribution[T]) Entries() []Entry[T] {
	out := make([]Entry[T], len(d.entries))
	copy(out, d.entries)
	return out
}

// Support returns the outcomes in order.
func (d Distribution[T]) Support() []T {
	out := make([]T, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.Outcome
	}
	return out
}

// Prob returns the probability of t (0 if t is not in the support).
func (d Distribution[T]) Prob(t T) float64 {
	i, ok := d.index[t]
	if !ok {
		return 0
	}
	return d.entries[i].Prob
}

// Contains reports whether t has non-zero probability.
func (d Distribution[T]) Contains(t T) bool {
	_, ok := d.index[t]
	return ok
}

// Sample draws an outcome according to the distribution.
func (d Distribution[T]) Sample(rng *rand.Rand) T {
	r := rng.Float64()
	acc := 0.0
	for _, e := range d.entries {
		acc += e.Prob
		if r < acc {
			return e.Outcome
		}
	}
	// rounding: the accumulated mass may fall just short of 1
	return d.entries[len(d.entries)-1].Outcome
}

// String renders the distribution as {outcome: p, ...}.
func (d Distribution[T]) String() string {
	s := "{"
	for i, e := range d.entries {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%v: %g", e.Outcome, e.Prob)
	}
	return s + "}"
}

// Map applies f to every outcome. Outcomes with equal images are merged.
func Map[T, U comparable](d Distribution[T], f func(T) U) Distribution[U] {
	out := Distribution[U]{
		entries: make([]Entry[U], 0, len(d.entries)),
		index:   make(map[U]int, len(d.entries)),
	}
	for _, e := range d.entries {
		u := f(e.Outcome)
		if i, ok := out.index[u]; ok {
			out.entries[i].Prob += e.Prob
			continue
		}
		out.index[u] = len(out.entries)
		out.entries = append(out.entries, Entry[U]{Outcome: u, Prob: e.Prob})
	}
	return out
}

// Expected returns the expectation of v under d.
func Expected[T comparable](d Distribution[T], v func(T) float64) float64 {
	sum := 0.0
	for _, e := range d.entries {
		sum += e.Prob * v(e.Outcome)
	}
	return sum
}

// SampleWeighted picks an index with probability proportional to weights.
// Negative weights count as zero. If all weights are zero it returns -1.
func SampleWeighted(weights []float64, rng *rand.Rand) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}
	r := rng.Float64() * total
	acc := 0.0
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		last = i
		if r < acc {
			return i
		}
	}
	return last
}
