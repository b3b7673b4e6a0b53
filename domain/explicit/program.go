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

	"github.com/jazzpetri/probcheck/checker"
	"github.com/jazzpetri/probcheck/dist"
)

// Command is a guarded command of an explicit program. Its actions are
// named by string; the program maps every action to its update.
type Command = checker.Command[string, Expr]

// Outcome is one probabilistic branch of a command.
type Outcome struct {
	Action string
	Prob   float64
	Update Update
}

// Do is shorthand for an Outcome literal.
func Do(action string, prob float64, u Update) Outcome {
	return Outcome{Action: action, Prob: prob, Update: u}
}

// Program is a guarded-command program over integer variables. It
// implements checker.Model; every command is a candidate in every state
// and enabledness is decided by its guard.
type Program struct {
	standard []Command
	errors   []Command
	updates  map[string]Update
}

// NewProgram creates an empty program.
func NewProgram() *Program {
	return &Program{updates: make(map[string]Update)}
}

// AddCommand adds a standard command.
//
// Parameters:
//   - name: command name used in logs
//   - guard: enabling condition
//   - outcomes: the branches; probabilities must form a distribution and
//     action names must be unique across the program
//
// Returns ErrNoOutcomes, ErrDuplicateAction or dist.ErrInvalidDistribution.
func (p *Program) AddCommand(name string, guard Expr, outcomes ...Outcome) error {
	if len(outcomes) == 0 {
		return fmt.Errorf("%w: %q", ErrNoOutcomes, name)
	}
	entries := make([]dist.Entry[string], len(outcomes))
	seen := make(map[string]bool, len(outcomes))
	for i, o := range outcomes {
		if _, dup := p.updates[o.Action]; dup || seen[o.Action] {
			return fmt.Errorf("%w: %q in command %q", ErrDuplicateAction, o.Action, name)
		}
		seen[o.Action] = true
		entries[i] = dist.Entry[string]{Outcome: o.Action, Prob: o.Prob}
	}
	result, err := dist.New(entries...)
	if err != nil {
		return fmt.Errorf("command %q: %w", name, err)
	}

	for _, o := range outcomes {
		p.updates[o.Action] = o.Update
	}
	p.standard = append(p.standard, Command{Name: name, Guard: guard, Result: result})
	return nil
}

// AddErrorCommand adds an error command: a state in which guard holds is
// an error state.
func (p *Program) AddErrorCommand(name string, guard Expr) {
	p.errors = append(p.errors, Command{Name: name, Guard: guard, Result: dist.Dirac(name)})
}

// StandardCommands returns every standard command.
func (p *Program) StandardCommands(Valuation) []Command {
	return p.standard
}

// ErrorCommands returns every error command.
func (p *Program) ErrorCommands(Valuation) []Command {
	return p.errors
}

// Update returns the update of action.
func (p *Program) Update(action string) (Update, bool) {
	u, ok := p.updates[action]
	return u, ok
}
