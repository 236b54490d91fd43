package qubo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolutionViewGetAndEnergy(t *testing.T) {
	e := bexpr("x").Add(bexpr("y")).Add(nexpr(-1)).
		WithConstraint(Int(1), func(v float64) bool { return v == 0 })
	model, err := e.Compile()
	require.NoError(t, err)

	qubits := model.GetQubits()
	state := NewBitState(len(qubits))
	var xIdx, yIdx int
	for i, qb := range qubits {
		if l, ok := qb.Label(); ok {
			switch l {
			case "x":
				xIdx = i
			case "y":
				yIdx = i
			}
		}
	}
	state.Set(xIdx, true)
	_ = yIdx

	solution := SingleSolution[float64]{State: state, Energy: 0, Occurrences: 3}
	view := NewSolutionView[Str, label, Int, float64](model, solution)

	v, ok := view.Get("x")
	require.True(t, ok)
	assert.True(t, v)

	v, ok = view.Get("y")
	require.True(t, ok)
	assert.False(t, v)

	assert.Equal(t, 0.0, view.Energy())
	assert.Equal(t, 3, view.Occurrences())
	assert.True(t, view.IsFeasible())
}

func TestSolutionViewUnsatisfiedConstraints(t *testing.T) {
	e := bexpr("x").Add(bexpr("y")).Add(nexpr(-1)).
		WithConstraint(Int(1), func(v float64) bool { return v == 0 })
	model, err := e.Compile()
	require.NoError(t, err)

	qubits := model.GetQubits()
	state := NewBitState(len(qubits))
	// leave both x and y false: x + y - 1 == -1, unsatisfied.
	view := NewSolutionView[Str, label, Int, float64](model, SingleSolution[float64]{State: state})
	assert.False(t, view.IsFeasible())
	assert.Equal(t, []Int{1}, view.UnsatisfiedConstraints())
}
