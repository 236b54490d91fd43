package qubo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceOrderBringsDegreeDownToTwo(t *testing.T) {
	e := ExpandedFromTerm[Int, Str, Int, float64](NewQubitSet(q(0), q(1), q(2)), SNumber[Str, Int, float64](1))
	var builder Builder[Int]
	reduced, err := ReduceOrder[Int, Str, Int, float64](e, &builder, 2, 100)
	require.NoError(t, err)
	assert.LessOrEqual(t, reduced.GetOrder(), 2)
}

func TestReduceOrderNoopWhenAlreadyReduced(t *testing.T) {
	e := ExpandedFromTerm[Int, Str, Int, float64](NewQubitSet(q(0), q(1)), SNumber[Str, Int, float64](1))
	var builder Builder[Int]
	reduced, err := ReduceOrder[Int, Str, Int, float64](e, &builder, 2, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, reduced.GetOrder())
	assert.Len(t, reduced.terms, 1)
}

func TestReduceOrderIntroducesAncilla(t *testing.T) {
	e := ExpandedFromTerm[Int, Str, Int, float64](NewQubitSet(q(0), q(1), q(2), q(3)), SNumber[Str, Int, float64](2))
	var builder Builder[Int]
	reduced, err := ReduceOrder[Int, Str, Int, float64](e, &builder, 2, 100)
	require.NoError(t, err)
	assert.LessOrEqual(t, reduced.GetOrder(), 2)
	found := false
	for qb := range reduced.GetQubits() {
		if qb.IsAncilla() {
			found = true
		}
	}
	assert.True(t, found, "reducing a degree-4 term must introduce at least one ancilla")
}

// gadgetIdentity builds the signed gadget for a d-qubit set, multiplies it
// by a unit coefficient of that sign (+1 or -1, as applyReplace multiplies
// it by the replaced term's coefficient), then checks that minimizing over
// every ancilla assignment reproduces that coefficient times the product
// x_1*...*x_d exactly for every assignment of the x's -- the defining
// property of the Rosenberg/Boros-Hammer construction (spec.md §4.4).
func gadgetIdentity(t *testing.T, d int, sign bool) {
	t.Helper()
	xs := make([]Qubit[Int], d)
	for i := range xs {
		xs[i] = q(i)
	}
	var builder Builder[Int]
	exp := generateReplaceSigned[Int, Str, Int, float64](NewQubitSet(xs...), &builder, sign)
	coeff := 1.0
	if !sign {
		coeff = -1
	}

	ancillas := make([]Qubit[Int], 0)
	for qb := range exp.GetQubits() {
		if qb.IsAncilla() {
			ancillas = append(ancillas, qb)
		}
	}
	allQubits := append(append([]Qubit[Int]{}, xs...), ancillas...)
	_, model, err := exp.GenerateQubo(allQubits, func(Placeholder[Str, Int]) float64 { return 0 })
	require.NoError(t, err)

	for xmask := 0; xmask < (1 << d); xmask++ {
		x := make([]bool, d)
		product := 1.0
		for i := 0; i < d; i++ {
			x[i] = xmask&(1<<i) != 0
			if !x[i] {
				product = 0
			}
		}
		best := 0.0
		have := false
		for amask := 0; amask < (1 << len(ancillas)); amask++ {
			state := make([]bool, len(allQubits))
			copy(state, x)
			for i := range ancillas {
				state[d+i] = amask&(1<<i) != 0
			}
			e := coeff * model.Energy(state)
			if !have || e < best {
				best, have = e, true
			}
		}
		assert.InDelta(t, coeff*product, best, 1e-9, "d=%d sign=%v xmask=%d", d, sign, xmask)
	}
}

func TestGeneralGadgetPositiveEvenDegree(t *testing.T) { gadgetIdentity(t, 4, true) }
func TestGeneralGadgetPositiveOddDegree(t *testing.T)  { gadgetIdentity(t, 3, true) }
func TestGeneralGadgetPositiveDegreeFive(t *testing.T) { gadgetIdentity(t, 5, true) }
func TestGeneralGadgetNegativeDegree(t *testing.T)     { gadgetIdentity(t, 3, false) }
func TestGeneralGadgetNegativePair(t *testing.T)       { gadgetIdentity(t, 2, false) }

func TestIndeterminateGadgetPenaltyEnforcesEquality(t *testing.T) {
	x, y, w := q(0), q(1), ancillaQubit[Int](0)
	penalty := indeterminateGadgetPenalty[Int, Str, Int, float64](x, y, w, 10)
	_, model, err := penalty.GenerateQubo([]Qubit[Int]{x, y, w}, func(Placeholder[Str, Int]) float64 { return 0 })
	require.NoError(t, err)

	cases := []struct {
		x, y, w bool
		minimal bool
	}{
		{false, false, false, true},
		{true, false, false, true},
		{false, true, false, true},
		{true, true, true, true},
		{true, true, false, false},
		{true, false, true, false},
	}
	var minEnergy float64 = 1e18
	for _, c := range cases {
		e := model.Energy([]bool{c.x, c.y, c.w})
		if e < minEnergy {
			minEnergy = e
		}
	}
	for _, c := range cases {
		e := model.Energy([]bool{c.x, c.y, c.w})
		if c.minimal {
			assert.Equal(t, minEnergy, e)
		} else {
			assert.Greater(t, e, minEnergy)
		}
	}
}
