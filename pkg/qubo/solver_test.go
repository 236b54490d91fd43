package qubo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleSolverFindsFeasibleOneHot(t *testing.T) {
	// one-hot-of-two: exactly one of x, y must be true.
	e := bexpr("x").Add(bexpr("y")).Add(nexpr(-1)).
		WithConstraint(Int(1), func(v float64) bool { return v == 0 })
	unresolved, err := e.Compile()
	require.NoError(t, err)

	resolved, err := unresolved.FeedDict(map[Str]float64{})
	require.NoError(t, err)

	solver := NewSimpleSolver[label, Int, float64](resolved,
		WithIterations(3), WithGenerations(3), WithSamples(8),
		WithBetaSchedule(CountRangeBetaSchedule(0.1, 5, 8)),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	view, err := solver.Solve(ctx)
	require.NoError(t, err)
	assert.True(t, view.IsFeasible())

	xv, _ := view.Get("x")
	yv, _ := view.Get("y")
	assert.True(t, xv != yv, "exactly one of x, y must be set")
}

func TestSimpleSolverEmptyModel(t *testing.T) {
	e := nexpr(0)
	unresolved, err := e.Compile()
	require.NoError(t, err)
	resolved, err := unresolved.FeedDict(map[Str]float64{})
	require.NoError(t, err)

	solver := NewSimpleSolver[label, Int, float64](resolved)
	_, err = solver.Solve(context.Background())
	assert.ErrorIs(t, err, ErrEmptyModel)
}
