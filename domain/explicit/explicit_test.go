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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jazzpetri/probcheck/dist"
)

func TestValuation_Key(t *testing.T) {
	v := Valuation{"y": 1, "x": 0}
	assert.Equal(t, "x=0,y=1", v.Key())
	assert.Equal(t, "{x=0,y=1}", v.String())
	assert.Equal(t, v.Key(), v.Clone().Key())
	assert.Equal(t, "", Valuation{}.Key())
}

func TestLabel_Order(t *testing.T) {
	top := Top()
	x0 := Label{"x": 0}
	x0y1 := Label{"x": 0, "y": 1}

	assert.True(t, x0.Leq(top))
	assert.True(t, x0y1.Leq(x0))
	assert.False(t, x0.Leq(x0y1))
	assert.False(t, Label{"x": 1}.Leq(x0))

	assert.True(t, top.Contains(Valuation{"x": 7}))
	assert.True(t, x0.Contains(Valuation{"x": 0, "y": 5}))
	assert.False(t, x0y1.Contains(Valuation{"x": 0, "y": 5}))

	tracked := x0.Track(Valuation{"x": 0, "y": 3}, "y")
	assert.Equal(t, Label{"x": 0, "y": 3}, tracked)
	assert.Equal(t, Label{"x": 0}, x0, "Track must not modify the receiver")
}

func TestUpdate_IsParallel(t *testing.T) {
	swap := Update{"x": Var("y"), "y": Var("x")}
	next := swap.Apply(Valuation{"x": 1, "y": 2})
	assert.Equal(t, Valuation{"x": 2, "y": 1}, next)

	flip := Update{"y": Minus(Const(1), Var("y"))}
	assert.Equal(t, 1, flip.Apply(Valuation{"y": 0})["y"])
}

func TestExpr_Eval(t *testing.T) {
	v := Valuation{"x": 1, "y": 2}
	tests := []struct {
		name string
		e    Expr
		want bool
	}{
		{"true", True(), true},
		{"false", False(), false},
		{"eq", Eq(Var("x"), Const(1)), true},
		{"lt", Lt(Var("y"), Var("x")), false},
		{"plus", Eq(Plus(Var("x"), Const(1)), Var("y")), true},
		{"not", Not(Eq(Var("x"), Const(1))), false},
		{"and", And(Eq(Var("x"), Const(1)), Lt(Var("x"), Var("y"))), true},
		{"or", Or(Eq(Var("x"), Const(0)), Eq(Var("y"), Const(2))), true},
		{"empty and", And(), true},
		{"empty or", Or(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.e.Eval(v))
		})
	}
}

func TestExpr_Partial(t *testing.T) {
	l := Label{"x": 0}
	xIs0 := Eq(Var("x"), Const(0))
	yIs0 := Eq(Var("y"), Const(0))

	assert.Equal(t, Yes, xIs0.Partial(l))
	assert.Equal(t, No, Not(xIs0).Partial(l))
	assert.Equal(t, Unknown, yIs0.Partial(l))
	assert.Equal(t, No, And(Not(xIs0), yIs0).Partial(l))
	assert.Equal(t, Yes, Or(yIs0, xIs0).Partial(l))
	assert.Equal(t, Unknown, And(xIs0, yIs0).Partial(l))
	assert.Equal(t, Unknown, Eq(Plus(Var("x"), Var("y")), Const(0)).Partial(l))
}

func TestExpr_SubstituteAndVars(t *testing.T) {
	e := And(Eq(Var("x"), Const(1)), Lt(Var("y"), Const(3)))
	pre := e.Substitute(Update{"x": Plus(Var("x"), Const(1))})

	assert.True(t, pre.Eval(Valuation{"x": 0, "y": 0}))
	assert.False(t, pre.Eval(Valuation{"x": 1, "y": 0}))
	assert.Equal(t, []string{"x", "y"}, Vars(e))
	assert.Empty(t, Vars(True()))
	assert.Equal(t, "((x + 1) == 1 && y < 3)", pre.String())
}

func TestNot_Simplifies(t *testing.T) {
	e := Eq(Var("x"), Const(0))
	assert.Equal(t, e, Not(Not(e)))
	assert.Equal(t, False(), Not(True()))
}

func counterProgram(t *testing.T) *Program {
	t.Helper()
	p := NewProgram()
	require.NoError(t, p.AddCommand("inc", Lt(Var("x"), Const(2)),
		Do("inc", 0.5, Update{"x": Plus(Var("x"), Const(1))}),
		Do("stay", 0.5, Update{}),
	))
	p.AddErrorCommand("overflow", Eq(Var("x"), Const(2)))
	return p
}

func TestProgram_Commands(t *testing.T) {
	p := counterProgram(t)
	sc := Valuation{"x": 0}
	require.Len(t, p.StandardCommands(sc), 1)
	require.Len(t, p.ErrorCommands(sc), 1)

	cmd := p.StandardCommands(sc)[0]
	assert.Equal(t, []string{"inc", "stay"}, cmd.Result.Support())

	_, ok := p.Update("inc")
	assert.True(t, ok)
	_, ok = p.Update("missing")
	assert.False(t, ok)
}

func TestProgram_AddCommandErrors(t *testing.T) {
	p := counterProgram(t)

	err := p.AddCommand("again", True(), Do("inc", 1, Update{}))
	assert.ErrorIs(t, err, ErrDuplicateAction)

	err = p.AddCommand("twice", True(), Do("a", 0.5, Update{}), Do("a", 0.5, Update{}))
	assert.ErrorIs(t, err, ErrDuplicateAction)

	err = p.AddCommand("none", True())
	assert.ErrorIs(t, err, ErrNoOutcomes)

	err = p.AddCommand("short", True(), Do("b", 0.4, Update{}))
	assert.ErrorIs(t, err, dist.ErrInvalidDistribution)
	_, ok := p.Update("b")
	assert.False(t, ok, "a rejected command must not register its actions")
}

func TestDomain_Enabledness(t *testing.T) {
	p := counterProgram(t)
	d := NewDomain(p)
	inc := p.StandardCommands(nil)[0]

	assert.True(t, d.IsEnabled(Valuation{"x": 1}, inc))
	assert.False(t, d.IsEnabled(Valuation{"x": 2}, inc))

	assert.True(t, d.MayBeEnabled(Top(), inc))
	assert.False(t, d.MustBeEnabled(Top(), inc))
	assert.True(t, d.MustBeEnabled(Label{"x": 0}, inc))
	assert.False(t, d.MayBeEnabled(Label{"x": 2}, inc))
}

func TestDomain_Block(t *testing.T) {
	d := NewDomain(counterProgram(t))
	sc := Valuation{"x": 0, "y": 4}

	got, err := d.Block(Top(), Eq(Var("x"), Const(2)), sc)
	require.NoError(t, err)
	assert.Equal(t, Label{"x": 0}, got)
	assert.True(t, d.CheckContainment(sc, got))
	assert.True(t, d.IsLeq(got, Top()))

	_, err = d.Block(Top(), Eq(Var("x"), Const(0)), sc)
	assert.ErrorIs(t, err, ErrNotContradicting)

	_, err = d.Block(Label{"x": 1}, False(), sc)
	assert.ErrorIs(t, err, ErrNotContained)

	same, err := d.Block(Label{"x": 0}, False(), sc)
	require.NoError(t, err)
	assert.Equal(t, Label{"x": 0}, same)
}

func TestDomain_Transitions(t *testing.T) {
	d := NewDomain(counterProgram(t))

	succ := d.ConcreteTransFunc(Valuation{"x": 1}, "inc")
	require.Len(t, succ, 1)
	assert.Equal(t, Valuation{"x": 2}, succ[0])
	assert.Empty(t, d.ConcreteTransFunc(Valuation{"x": 1}, "missing"))

	assert.Equal(t, Label{"x": 2}, d.PostImage(Label{"x": 1}, "inc"))
	assert.Equal(t, Label{"y": 1}, d.PostImage(Label{"y": 1}, "inc"), "untracked x stays untracked")
	assert.Equal(t, Label{"x": 1}, d.PostImage(Label{"x": 1}, "stay"))
	assert.Equal(t, Top(), d.TopAfter(Label{"x": 1}, "inc"))

	pre := d.PreImage(Label{"x": 2}, "inc")
	assert.True(t, pre.Eval(Valuation{"x": 1}))
	assert.False(t, pre.Eval(Valuation{"x": 2}))
	assert.Equal(t, True(), d.PreImage(Top(), "inc"))
}

func TestDomain_LabelExpr(t *testing.T) {
	d := NewDomain(NewProgram())
	l := Label{"y": 1, "x": 0}
	e := d.LabelExpr(l)

	assert.Equal(t, "(x == 0 && y == 1)", e.String())
	assert.Equal(t, Yes, e.Partial(l))
	assert.Equal(t, True(), d.LabelExpr(Top()))
	assert.False(t, d.Negate(e).Eval(Valuation{"x": 0, "y": 1}))
}
