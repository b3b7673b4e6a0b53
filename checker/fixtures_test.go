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

package checker_test

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jazzpetri/probcheck/checker"
	"github.com/jazzpetri/probcheck/domain/explicit"
)

type explicitChecker = checker.Checker[explicit.Valuation, explicit.Label, string, explicit.Expr]

var (
	x = explicit.Var("x")
	y = explicit.Var("y")
)

func c(n int) explicit.Term { return explicit.Const(n) }

func xIs(n int) explicit.Expr { return explicit.Eq(x, c(n)) }

func set(name string, t explicit.Term) explicit.Update {
	return explicit.Update{name: t}
}

// model bundles a program with its initial state.
type model struct {
	program *explicit.Program
	initial explicit.Valuation
}

// geometricModel: from x=0, stay with 0.3 or move to the error state x=1
// with 0.7. Error is reached with probability 1.
func geometricModel(t *testing.T) model {
	t.Helper()
	p := explicit.NewProgram()
	require.NoError(t, p.AddCommand("step", explicit.True(),
		explicit.Do("stay", 0.3, set("x", c(0))),
		explicit.Do("fail", 0.7, set("x", c(1))),
	))
	p.AddErrorCommand("failed", xIs(1))
	return model{program: p, initial: explicit.Valuation{"x": 0}}
}

// unreachableModel: x=0 moves to the absorbing state x=1; no error
// command is ever enabled.
func unreachableModel(t *testing.T) model {
	t.Helper()
	p := explicit.NewProgram()
	require.NoError(t, p.AddCommand("go", xIs(0), explicit.Do("go", 1, set("x", c(1)))))
	return model{program: p, initial: explicit.Valuation{"x": 0}}
}

// disabledModel: the only command has guard False.
func disabledModel(t *testing.T) model {
	t.Helper()
	p := explicit.NewProgram()
	require.NoError(t, p.AddCommand("never", explicit.False(), explicit.Do("never", 1, set("x", c(1)))))
	p.AddErrorCommand("failed", xIs(1))
	return model{program: p, initial: explicit.Valuation{"x": 0}}
}

// coveringModel has a variable y that never influences reachability:
//
//	x=0: 0.5 -> (x=1, y=1-y), 0.5 -> x=2 (dead end)
//	x=1: 0.4 -> x=0,          0.6 -> x=3 (error)
//
// From x=0 the error is reached with probability 0.3/0.8 = 0.375 whatever
// the value of y.
func coveringModel(t *testing.T) model {
	t.Helper()
	p := explicit.NewProgram()
	require.NoError(t, p.AddCommand("left", xIs(0),
		explicit.Do("a1", 0.5, explicit.Update{"x": c(1), "y": explicit.Minus(c(1), y)}),
		explicit.Do("a2", 0.5, set("x", c(2))),
	))
	require.NoError(t, p.AddCommand("right", xIs(1),
		explicit.Do("a3", 0.4, set("x", c(0))),
		explicit.Do("a4", 0.6, set("x", c(3))),
	))
	p.AddErrorCommand("failed", xIs(3))
	return model{program: p, initial: explicit.Valuation{"x": 0, "y": 0}}
}

// cycleModel has an end component {x=0, x=1}: x=1 may go back to x=0
// forever or gamble 50/50 between the error x=2 and the dead end x=3.
// The maximal probability is 0.5, the minimal one 0.
func cycleModel(t *testing.T) model {
	t.Helper()
	p := explicit.NewProgram()
	require.NoError(t, p.AddCommand("forth", xIs(0), explicit.Do("forth", 1, set("x", c(1)))))
	require.NoError(t, p.AddCommand("back", xIs(1), explicit.Do("back", 1, set("x", c(0)))))
	require.NoError(t, p.AddCommand("gamble", xIs(1),
		explicit.Do("win", 0.5, set("x", c(2))),
		explicit.Do("lose", 0.5, set("x", c(3))),
	))
	p.AddErrorCommand("failed", xIs(2))
	return model{program: p, initial: explicit.Valuation{"x": 0}}
}

// lingeringModel is geometricModel with the weights swapped: the self-loop
// carries 0.7 and the error 0.3. Error is still reached with probability 1.
func lingeringModel(t *testing.T) model {
	t.Helper()
	p := explicit.NewProgram()
	require.NoError(t, p.AddCommand("step", explicit.True(),
		explicit.Do("stay", 0.7, set("x", c(0))),
		explicit.Do("fail", 0.3, set("x", c(1))),
	))
	p.AddErrorCommand("failed", xIs(1))
	return model{program: p, initial: explicit.Valuation{"x": 0}}
}

// siblingModel creates several children with the same state in one
// expansion:
//
//	x=0: loop  0.4 -> x=0,   0.6 -> x=1
//	     split 0.125 -> x=1, 0.5 -> x=2 (dead end), 0.375 -> x=1
//	x=1: 1 -> x=3 (error)
//
// The maximal probability is 1 (loop), the minimal one 0.5 (split).
func siblingModel(t *testing.T) model {
	t.Helper()
	p := explicit.NewProgram()
	require.NoError(t, p.AddCommand("loop", xIs(0),
		explicit.Do("again", 0.4, set("x", c(0))),
		explicit.Do("on", 0.6, set("x", c(1))),
	))
	require.NoError(t, p.AddCommand("split", xIs(0),
		explicit.Do("s1", 0.125, set("x", c(1))),
		explicit.Do("s2", 0.5, set("x", c(2))),
		explicit.Do("s3", 0.375, set("x", c(1))),
	))
	require.NoError(t, p.AddCommand("finish", xIs(1), explicit.Do("finish", 1, set("x", c(3)))))
	p.AddErrorCommand("failed", xIs(3))
	return model{program: p, initial: explicit.Valuation{"x": 0}}
}

// randomModel builds a program over x in [0, n) with the error at x=n-1.
// Every other state has up to two commands with up to three outcomes each,
// or none at all. Targets may repeat within a command.
func randomModel(t *testing.T, rng *rand.Rand) model {
	t.Helper()
	n := 3 + rng.IntN(4)
	p := explicit.NewProgram()
	for s := 0; s < n-1; s++ {
		if rng.IntN(5) == 0 {
			continue
		}
		commands := 1 + rng.IntN(2)
		for k := 0; k < commands; k++ {
			outcomes := make([]explicit.Outcome, 1+rng.IntN(3))
			weights := make([]float64, len(outcomes))
			total := 0.0
			for i := range weights {
				weights[i] = 0.1 + rng.Float64()
				total += weights[i]
			}
			rest := 1.0
			for i := range outcomes {
				prob := weights[i] / total
				if i == len(outcomes)-1 {
					prob = rest
				}
				rest -= prob
				action := fmt.Sprintf("s%dc%do%d", s, k, i)
				outcomes[i] = explicit.Do(action, prob, set("x", c(rng.IntN(n))))
			}
			require.NoError(t, p.AddCommand(fmt.Sprintf("s%dc%d", s, k), xIs(s), outcomes...))
		}
	}
	p.AddErrorCommand("failed", xIs(n-1))
	return model{program: p, initial: explicit.Valuation{"x": 0}}
}

// counterModel counts up forever; the error is never reached but every
// state is new.
func counterModel(t *testing.T) model {
	t.Helper()
	p := explicit.NewProgram()
	require.NoError(t, p.AddCommand("inc", explicit.True(),
		explicit.Do("inc", 1, set("x", explicit.Plus(x, c(1))))))
	p.AddErrorCommand("negative", explicit.Lt(x, c(0)))
	return model{program: p, initial: explicit.Valuation{"x": 0}}
}

func newChecker(t *testing.T, m model, cfg checker.Config, opts ...checker.Option) *explicitChecker {
	t.Helper()
	ch, err := checker.New[explicit.Valuation, explicit.Label, string, explicit.Expr](
		m.program, explicit.NewDomain(m.program), m.initial, explicit.Top(), cfg, opts...)
	require.NoError(t, err)
	return ch
}

func newDebugLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
