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

package main

import (
	"fmt"
	"sort"

	"github.com/jazzpetri/probcheck/domain/explicit"
)

// builtin is a named model shipped with the command.
type builtin struct {
	description string
	build       func() (*explicit.Program, explicit.Valuation, error)
}

var builtins = map[string]builtin{
	"geometric": {
		description: "retry loop failing with probability 0.7 per step (P = 1)",
		build:       geometric,
	},
	"unreachable": {
		description: "single step into an absorbing safe state (P = 0)",
		build:       unreachable,
	},
	"disabled": {
		description: "only command is never enabled (P = 0)",
		build:       disabled,
	},
	"covering": {
		description: "irrelevant variable y is abstracted away (P = 0.375)",
		build:       covering,
	},
	"cycle": {
		description: "end component with a 50/50 exit (max P = 0.5, min P = 0)",
		build:       cycle,
	},
}

// modelNames returns the builtin names, sorted.
func modelNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupModel(name string) (*explicit.Program, explicit.Valuation, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, nil, fmt.Errorf("unknown model %q (available: %v)", name, modelNames())
	}
	return b.build()
}

var (
	x = explicit.Var("x")
	y = explicit.Var("y")
)

func xIs(n int) explicit.Expr { return explicit.Eq(x, explicit.Const(n)) }

func assign(n int) explicit.Update { return explicit.Update{"x": explicit.Const(n)} }

func geometric() (*explicit.Program, explicit.Valuation, error) {
	p := explicit.NewProgram()
	err := p.AddCommand("step", explicit.True(),
		explicit.Do("retry", 0.3, assign(0)),
		explicit.Do("fail", 0.7, assign(1)),
	)
	p.AddErrorCommand("failed", xIs(1))
	return p, explicit.Valuation{"x": 0}, err
}

func unreachable() (*explicit.Program, explicit.Valuation, error) {
	p := explicit.NewProgram()
	err := p.AddCommand("go", xIs(0), explicit.Do("go", 1, assign(1)))
	return p, explicit.Valuation{"x": 0}, err
}

func disabled() (*explicit.Program, explicit.Valuation, error) {
	p := explicit.NewProgram()
	err := p.AddCommand("never", explicit.False(), explicit.Do("never", 1, assign(1)))
	p.AddErrorCommand("failed", xIs(1))
	return p, explicit.Valuation{"x": 0}, err
}

func covering() (*explicit.Program, explicit.Valuation, error) {
	p := explicit.NewProgram()
	if err := p.AddCommand("left", xIs(0),
		explicit.Do("a1", 0.5, explicit.Update{"x": explicit.Const(1), "y": explicit.Minus(explicit.Const(1), y)}),
		explicit.Do("a2", 0.5, assign(2)),
	); err != nil {
		return nil, nil, err
	}
	if err := p.AddCommand("right", xIs(1),
		explicit.Do("a3", 0.4, assign(0)),
		explicit.Do("a4", 0.6, assign(3)),
	); err != nil {
		return nil, nil, err
	}
	p.AddErrorCommand("failed", xIs(3))
	return p, explicit.Valuation{"x": 0, "y": 0}, nil
}

func cycle() (*explicit.Program, explicit.Valuation, error) {
	p := explicit.NewProgram()
	for _, add := range []func() error{
		func() error { return p.AddCommand("forth", xIs(0), explicit.Do("forth", 1, assign(1))) },
		func() error { return p.AddCommand("back", xIs(1), explicit.Do("back", 1, assign(0))) },
		func() error {
			return p.AddCommand("gamble", xIs(1),
				explicit.Do("win", 0.5, assign(2)),
				explicit.Do("lose", 0.5, assign(3)))
		},
	} {
		if err := add(); err != nil {
			return nil, nil, err
		}
	}
	p.AddErrorCommand("failed", xIs(2))
	return p, explicit.Valuation{"x": 0}, nil
}
