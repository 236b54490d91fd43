package qubo

import "math"

// rejectThreshold is 64*ln(2) = -ln(2^-64): once beta*delta exceeds it, a
// move's acceptance probability exp(-beta*delta) is below 2^-64, finer than
// the 2^-63 step of nextFloat64, so the annealer rejects the move without
// calling math.Exp (spec.md §4.6, "fast-reject threshold").
const rejectThreshold = 44.36142

// energyDiffs maintains, for each qubit i, the energy change that
// flipping i right now would cause, updated incrementally in O(degree)
// time per accepted flip rather than recomputed from scratch every sweep
// (spec.md §4.6; original_source/classical_solver/src/algo.rs).
type energyDiffs[R Real] struct {
	diff []R
}

// newEnergyDiffs computes the initial per-qubit flip cost for state
// against model.
func newEnergyDiffs[R Real](model *QuadraticModel[R], state *BitState) *energyDiffs[R] {
	n := model.Size()
	ed := &energyDiffs[R]{diff: make([]R, n)}
	for i := 0; i < n; i++ {
		ed.diff[i] = flipCost(model, state, i)
	}
	return ed
}

// flipCost computes qubit i's flip cost from scratch: sign * (diag[i] +
// sum_{j != i} w_ij * x_j), where sign is +1 if x_i is currently false
// (flipping turns it on) or -1 if currently true.
func flipCost[R Real](model *QuadraticModel[R], state *BitState, i int) R {
	field := model.GetWeight(i, i)
	model.Neighbors(i, func(j int, w R) bool {
		if state.Get(j) {
			field += w
		}
		return true
	})
	if state.Get(i) {
		return -field
	}
	return field
}

// diffFor returns qubit i's current flip cost.
func (ed *energyDiffs[R]) diffFor(i int) R { return ed.diff[i] }

// applyFlip updates ed to reflect that qubit k has just been flipped in
// state (state must already carry the new value of bit k).
func (ed *energyDiffs[R]) applyFlip(model *QuadraticModel[R], state *BitState, k int) {
	var delta R
	if state.Get(k) {
		delta = 1
	} else {
		delta = -1
	}
	model.Neighbors(k, func(j int, w R) bool {
		var sign R = 1
		if state.Get(j) {
			sign = -1
		}
		ed.diff[j] += sign * w * delta
		return true
	})
	ed.diff[k] = -ed.diff[k]
}

// annealResult is the outcome of one run of simulatedAnneal: the final
// state reached and its energy.
type annealResult[R Real] struct {
	state  *BitState
	energy R
}

// simulatedAnneal runs one simulated-annealing trajectory over model
// starting from a random initial state. For each beta in schedule, it
// sweeps sweepsPerRound times; within a sweep every qubit is visited once
// in strict index order 0..N-1 (spec.md §4.6, §5 -- visitation order is
// never shuffled). A proposed flip is accepted if it lowers energy, or
// probabilistically via exp(-beta * delta) otherwise.
func simulatedAnneal[R Real](model *QuadraticModel[R], schedule []float64, sweepsPerRound int, rng *xorshiftRNG) annealResult[R] {
	n := model.Size()
	state := NewBitState(n)
	for i := 0; i < n; i++ {
		state.Set(i, rng.nextBool())
	}
	ed := newEnergyDiffs(model, state)

	for _, beta := range schedule {
		for sweep := 0; sweep < sweepsPerRound; sweep++ {
			for i := 0; i < n; i++ {
				delta := ed.diffFor(i)
				if shouldAccept(delta, beta, rng) {
					state.Flip(i)
					ed.applyFlip(model, state, i)
				}
			}
		}
	}

	return annealResult[R]{state: state, energy: model.Energy(state.Bools())}
}

// shouldAccept implements the Metropolis criterion with the fast-reject
// shortcut: a non-positive delta is always accepted; a positive delta
// whose beta*delta exceeds rejectThreshold is always rejected without
// calling math.Exp; otherwise accept with probability exp(-beta*delta).
func shouldAccept[R Real](delta R, beta float64, rng *xorshiftRNG) bool {
	d := asF64(delta)
	if d <= 0 {
		return true
	}
	margin := beta * d
	if margin > rejectThreshold {
		return false
	}
	return rng.nextFloat64() < math.Exp(-margin)
}
