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

package dist

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Valid(t *testing.T) {
	d, err := New(
		Entry[string]{Outcome: "a", Prob: 0.25},
		Entry[string]{Outcome: "b", Prob: 0.75},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, d.Len())
	assert.Equal(t, []string{"a", "b"}, d.Support())
	assert.InDelta(t, 0.25, d.Prob("a"), 1e-12)
	assert.Equal(t, 0.0, d.Prob("missing"))
	assert.True(t, d.Contains("b"))
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry[int]
	}{
		{"empty", nil},
		{"negative", []Entry[int]{{1, -0.1}, {2, 1.1}}},
		{"short mass", []Entry[int]{{1, 0.5}, {2, 0.4}}},
		{"excess mass", []Entry[int]{{1, 0.5}, {2, 0.5 + 1e-9}}},
		{"nan", []Entry[int]{{1, math.NaN()}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.entries...)
			assert.ErrorIs(t, err, ErrInvalidDistribution)
		})
	}
}

func TestNew_WithinTolerance(t *testing.T) {
	d, err := New(Entry[int]{1, 0.1}, Entry[int]{2, 0.2}, Entry[int]{3, 0.7})
	require.NoError(t, err)
	sum := 0.0
	for _, e := range d.Entries() {
		assert.GreaterOrEqual(t, e.Prob, 0.0)
		sum += e.Prob
	}
	assert.Less(t, math.Abs(sum-1), Tolerance)
}

func TestNew_MergesDuplicatesAndDropsZero(t *testing.T) {
	d := MustNew(
		Entry[string]{"x", 0.2},
		Entry[string]{"z", 0},
		Entry[string]{"y", 0.5},
		Entry[string]{"x", 0.3},
	)
	assert.Equal(t, []string{"x", "y"}, d.Support())
	assert.InDelta(t, 0.5, d.Prob("x"), 1e-12)
	assert.False(t, d.Contains("z"))
}

func TestMustNew_Panics(t *testing.T) {
	assert.Panics(t, func() { MustNew(Entry[int]{1, 0.4}) })
}

func TestDirac(t *testing.T) {
	d := Dirac("s1")
	assert.Equal(t, 1, d.Len())
	assert.Equal(t, 1.0, d.Prob("s1"))
	assert.Equal(t, "s1", d.Sample(rand.New(rand.NewPCG(1, 2))))
}

func TestMap_MergesImages(t *testing.T) {
	d := MustNew(Entry[int]{1, 0.2}, Entry[int]{2, 0.3}, Entry[int]{3, 0.5})
	parity := Map(d, func(i int) bool { return i%2 == 0 })

	assert.Equal(t, 2, parity.Len())
	assert.InDelta(t, 0.7, parity.Prob(false), 1e-12)
	assert.InDelta(t, 0.3, parity.Prob(true), 1e-12)
}

func TestExpected(t *testing.T) {
	d := MustNew(Entry[string]{"loop", 0.3}, Entry[string]{"err", 0.7})
	v := Expected(d, func(s string) float64 {
		if s == "err" {
			return 1
		}
		return 0.5
	})
	assert.InDelta(t, 0.85, v, 1e-12)
}

func TestSample_Frequencies(t *testing.T) {
	d := MustNew(Entry[string]{"a", 0.2}, Entry[string]{"b", 0.8})
	rng := rand.New(rand.NewPCG(42, 7))

	counts := map[string]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		counts[d.Sample(rng)]++
	}
	assert.InDelta(t, 0.2, float64(counts["a"])/n, 0.02)
	assert.InDelta(t, 0.8, float64(counts["b"])/n, 0.02)
}

func TestSampleWeighted(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))

	assert.Equal(t, -1, SampleWeighted([]float64{0, 0}, rng))
	assert.Equal(t, 1, SampleWeighted([]float64{0, 2, -1}, rng))

	hits := 0
	for i := 0; i < 10000; i++ {
		if SampleWeighted([]float64{1, 3}, rng) == 1 {
			hits++
		}
	}
	assert.InDelta(t, 0.75, float64(hits)/10000, 0.03)
}

func TestString(t *testing.T) {
	d := MustNew(Entry[string]{"a", 0.5}, Entry[string]{"b", 0.5})
	assert.Equal(t, "{a: 0.5, b: 0.5}", d.String())
}
