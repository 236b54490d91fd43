package qubo

// SingleSolution is one raw annealing outcome: a bit assignment, its
// energy under the QuadraticModel it was sampled from, and how many times
// an identical assignment was produced across the sample pool for that
// generation (spec.md §3, SingleSolution).
type SingleSolution[R Real] struct {
	State       *BitState
	Energy      R
	Occurrences int
}

// SolutionView wraps a SingleSolution with the qubit labeling needed to
// answer "what value did qubit q take" without exposing the underlying
// bit index, and with the owning CompiledModel so feasibility can be
// re-checked on demand (spec.md §4.8).
type SolutionView[Tp Label[Tp], Tq Label[Tq], Tc Label[Tc], R Real] struct {
	model    *CompiledModel[Tp, Tq, Tc, R]
	index    map[Qubit[Tq]]int
	solution SingleSolution[R]
}

// NewSolutionView builds a view over solution against model.
func NewSolutionView[Tp Label[Tp], Tq Label[Tq], Tc Label[Tc], R Real](
	model *CompiledModel[Tp, Tq, Tc, R], solution SingleSolution[R],
) *SolutionView[Tp, Tq, Tc, R] {
	qubits := model.GetQubits()
	index := make(map[Qubit[Tq]]int, len(qubits))
	for i, q := range qubits {
		index[q] = i
	}
	return &SolutionView[Tp, Tq, Tc, R]{model: model, index: index, solution: solution}
}

// Get returns the boolean value assigned to the qubit labeled label, and
// false as the second result if label isn't part of the model.
func (v *SolutionView[Tp, Tq, Tc, R]) Get(label Tq) (bool, bool) {
	q := Labeled(label)
	i, ok := v.index[q]
	if !ok {
		return false, false
	}
	return v.solution.State.Get(i), true
}

// Energy returns the energy recorded in the solution. For a view returned
// by SimpleSolver.Solve this is the QuadraticModel energy plus the model's
// constant offset.
func (v *SolutionView[Tp, Tq, Tc, R]) Energy() R { return v.solution.Energy }

// Occurrences returns how many identical samples were folded into this
// solution within its generation.
func (v *SolutionView[Tp, Tq, Tc, R]) Occurrences() int { return v.solution.Occurrences }

// LocalField returns the annealing engine's flip-cost for the qubit
// labeled label against this solution's assignment: the marginal energy
// change of toggling that single qubit. Returns (0, false) if label isn't
// part of the model.
func (v *SolutionView[Tp, Tq, Tc, R]) LocalField(label Tq, model *QuadraticModel[R]) (R, bool) {
	q := Labeled(label)
	i, ok := v.index[q]
	if !ok {
		var zero R
		return zero, false
	}
	return flipCost(model, v.solution.State, i), true
}

// UnsatisfiedConstraints returns the labels of every constraint this
// solution violates.
func (v *SolutionView[Tp, Tq, Tc, R]) UnsatisfiedConstraints() []Tc {
	return v.model.GetUnsatisfiedConstraints(v.index, v.solution.State)
}

// IsFeasible reports whether every constraint registered against the
// model is satisfied by this solution.
func (v *SolutionView[Tp, Tq, Tc, R]) IsFeasible() bool {
	return len(v.UnsatisfiedConstraints()) == 0
}
