package qubo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type label = Str

func bexpr(l label) *Expr[Str, label, Int, float64] { return BinaryExpr[Str, label, Int, float64](l) }
func nexpr(n float64) *Expr[Str, label, Int, float64] {
	return NumberExpr[Str, label, Int, float64](n)
}

func TestExprEqualStructural(t *testing.T) {
	a := bexpr("x").Add(nexpr(1))
	b := bexpr("x").Add(nexpr(1))
	c := bexpr("x").Add(nexpr(2))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestExprZeroAndOne(t *testing.T) {
	zero := ZeroExpr[Str, label, Int, float64]()
	one := OneExpr[Str, label, Int, float64]()
	v, ok := zero.Calculate(func(Qubit[label]) bool { return true })
	require.True(t, ok)
	assert.Equal(t, 0.0, v)
	v, ok = one.Calculate(func(Qubit[label]) bool { return true })
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestExprSpinMapping(t *testing.T) {
	e := SpinExpr[Str, label, Int, float64]("s")
	on := Labeled[label]("s")
	v, ok := e.Calculate(func(q Qubit[label]) bool { return q == on })
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
	v, ok = e.Calculate(func(Qubit[label]) bool { return false })
	require.True(t, ok)
	assert.Equal(t, -1.0, v)
}

func TestExprCalculateMulShortCircuitsOnUnresolvedPlaceholder(t *testing.T) {
	e := MulExpr[Str, label, Int, float64](bexpr("x"), PlaceholderExpr[Str, label, Int, float64]("w"))
	v, ok := e.Calculate(func(Qubit[label]) bool { return false }) // x == 0
	require.True(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestExprCalculateMulUnresolvedWhenNonzero(t *testing.T) {
	e := MulExpr[Str, label, Int, float64](bexpr("x"), PlaceholderExpr[Str, label, Int, float64]("w"))
	_, ok := e.Calculate(func(Qubit[label]) bool { return true }) // x == 1, w unresolved
	assert.False(t, ok)
}

func TestExprFeedDictShallow(t *testing.T) {
	inner := bexpr("x").WithConstraint(Int(1), func(float64) bool { return true })
	e := inner.Add(PlaceholderExpr[Str, label, Int, float64]("p"))
	fed := e.FeedDict(map[Str]float64{"p": 7})
	// the Add recurses, the Constraint child is untouched.
	assert.Equal(t, exprConstraint, fed.children[0].kind)
	assert.Equal(t, exprNumber, fed.children[1].kind)
	assert.Equal(t, 7.0, fed.children[1].num)
}

func TestExprCompileSimpleBinaryModel(t *testing.T) {
	e := bexpr("x").Add(bexpr("y")).Add(nexpr(-1))
	squared := e.Mul(e)
	model, err := squared.Compile()
	require.NoError(t, err)
	assert.NotEmpty(t, model.GetQubits())
}

func TestExprWithConstraintRegistersPredicate(t *testing.T) {
	e := bexpr("x").Add(bexpr("y")).Add(nexpr(-1)).WithConstraint(Int(1), func(v float64) bool { return v == 0 })
	model, err := e.Compile()
	require.NoError(t, err)
	require.Len(t, model.Constraints(), 1)

	qubits := model.GetQubits()
	index := map[Qubit[label]]int{}
	for i, q := range qubits {
		index[q] = i
	}
	state := NewBitState(len(qubits))
	state.Set(index[Labeled[label]("x")], true)
	// y stays 0, so x + y - 1 == 0: satisfied.
	assert.True(t, model.Constraints()[0].IsSatisfied(index, state))

	state.Set(index[Labeled[label]("y")], true)
	// x + y - 1 == 1: unsatisfied.
	assert.False(t, model.Constraints()[0].IsSatisfied(index, state))
}

func TestExprCompileResolvesPlaceholderAndSolvesQubo(t *testing.T) {
	e := MulExpr[Str, label, Int, float64](PlaceholderExpr[Str, label, Int, float64]("w"), bexpr("x"))
	model, err := e.Compile()
	require.NoError(t, err)
	resolved, err := model.FeedDict(map[Str]float64{"w": 3})
	require.NoError(t, err)
	_, quad, err := resolved.GenerateQubo(func(Placeholder[Unit, Int]) float64 { return 0 })
	require.NoError(t, err)
	assert.Equal(t, 3.0, quad.GetWeight(0, 0))
}
