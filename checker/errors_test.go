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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jazzpetri/probcheck/checker"
	"github.com/jazzpetri/probcheck/domain/explicit"
	"github.com/jazzpetri/probcheck/solver"
)

// forkingDomain returns every concrete successor twice.
type forkingDomain struct{ *explicit.Domain }

func (d forkingDomain) ConcreteTransFunc(sc explicit.Valuation, a string) []explicit.Valuation {
	succ := d.Domain.ConcreteTransFunc(sc, a)
	return append(succ, succ...)
}

var errRefused = errors.New("refused")

// refusingDomain cannot strengthen any label.
type refusingDomain struct{ *explicit.Domain }

func (d refusingDomain) Block(explicit.Label, explicit.Expr, explicit.Valuation) (explicit.Label, error) {
	return nil, errRefused
}

func newCheckerWithDomain(t *testing.T, m model, d checker.Domain[explicit.Valuation, explicit.Label, string, explicit.Expr]) *explicitChecker {
	t.Helper()
	ch, err := checker.New[explicit.Valuation, explicit.Label, string, explicit.Expr](
		m.program, d, m.initial, explicit.Top(), checker.DefaultConfig())
	require.NoError(t, err)
	return ch
}

func TestNew_RejectsBadConfig(t *testing.T) {
	m := geometricModel(t)
	d := explicit.NewDomain(m.program)

	noMode := checker.DefaultConfig()
	noMode.UseMay, noMode.UseMust = false, false
	_, err := checker.New[explicit.Valuation, explicit.Label, string, explicit.Expr](m.program, d, m.initial, explicit.Top(), noMode)
	assert.ErrorIs(t, err, checker.ErrNoAbstractionMode)

	badGoal := checker.DefaultConfig()
	badGoal.Goal = solver.Goal(7)
	_, err = checker.New[explicit.Valuation, explicit.Label, string, explicit.Expr](m.program, d, m.initial, explicit.Top(), badGoal)
	assert.ErrorIs(t, err, checker.ErrInvalidConfig)

	_, err = checker.New[explicit.Valuation, explicit.Label, string, explicit.Expr](nil, d, m.initial, explicit.Top(), checker.DefaultConfig())
	assert.ErrorIs(t, err, checker.ErrInvalidConfig)
}

func TestSolve_RejectsBadArguments(t *testing.T) {
	ch := newChecker(t, geometricModel(t), checker.DefaultConfig())

	for _, threshold := range []float64{0, -1, 1, 2} {
		_, err := ch.FullyExpanded(true, threshold)
		assert.ErrorIs(t, err, checker.ErrInvalidThreshold, "threshold %v", threshold)
		_, err = ch.BRTDP(checker.MaxDiff, threshold)
		assert.ErrorIs(t, err, checker.ErrInvalidThreshold, "threshold %v", threshold)
	}

	_, err := ch.BRTDP(checker.Strategy(42), 1e-3)
	assert.ErrorIs(t, err, checker.ErrUnknownStrategy)
	_, err = ch.BRTDP(checker.Strategy(-1), 1e-3)
	assert.ErrorIs(t, err, checker.ErrUnknownStrategy)
}

func TestSolve_NondeterministicTransition(t *testing.T) {
	m := geometricModel(t)
	ch := newCheckerWithDomain(t, m, forkingDomain{explicit.NewDomain(m.program)})

	_, err := ch.FullyExpanded(true, 1e-6)
	assert.ErrorIs(t, err, checker.ErrNondeterministicTransition)
	_, err = ch.BRTDP(checker.Random, 1e-6)
	assert.ErrorIs(t, err, checker.ErrNondeterministicTransition)
}

func TestSolve_BlockFailure(t *testing.T) {
	m := geometricModel(t)
	ch := newCheckerWithDomain(t, m, refusingDomain{explicit.NewDomain(m.program)})

	_, err := ch.FullyExpanded(false, 1e-6)
	require.Error(t, err)
	assert.ErrorIs(t, err, checker.ErrBlockFailed)
	assert.ErrorIs(t, err, errRefused)

	_, err = ch.BRTDP(checker.MaxDiff, 1e-6)
	assert.ErrorIs(t, err, checker.ErrBlockFailed)
}

func TestSolve_BlockOutsideLabelFails(t *testing.T) {
	m := coveringModel(t)
	ch, err := checker.New[explicit.Valuation, explicit.Label, string, explicit.Expr](
		m.program, explicit.NewDomain(m.program), m.initial, explicit.Label{"x": 5}, checker.DefaultConfig())
	require.NoError(t, err)

	_, err = ch.FullyExpanded(true, 1e-6)
	assert.ErrorIs(t, err, checker.ErrBlockFailed)
	assert.ErrorIs(t, err, explicit.ErrNotContained)
}

func TestSolve_NodeLimit(t *testing.T) {
	cfg := checker.DefaultConfig()
	cfg.MaxNodes = 10
	ch := newChecker(t, counterModel(t), cfg)

	_, err := ch.FullyExpanded(true, 1e-6)
	assert.ErrorIs(t, err, checker.ErrNodeLimit)
	assert.LessOrEqual(t, ch.Graph().Len(), 10)

	_, err = ch.BRTDP(checker.MaxDiff, 1e-6)
	assert.ErrorIs(t, err, checker.ErrNodeLimit)
}

func TestBRTDP_RoundLimit(t *testing.T) {
	cfg := checker.DefaultConfig()
	cfg.MaxRounds = 2
	ch := newChecker(t, geometricModel(t), cfg)

	_, err := ch.BRTDP(checker.MaxDiff, 1e-9)
	require.ErrorIs(t, err, checker.ErrRoundLimit)
	assert.Len(t, ch.History(), 2)

	b := ch.Bounds()
	assert.Greater(t, b.Gap(), 1e-9)
	assert.Greater(t, b.Lower, 0.0)
	assert.InDelta(t, 1.0, b.Upper, 1e-12)
}
