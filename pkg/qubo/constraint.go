package qubo

// Constraint pairs a label (used both to report which constraints remain
// unsatisfied, and as the adaptive penalty weight's placeholder id, via
// ConstraintPlaceholder) with a boolean predicate over a candidate
// assignment. Unlike the compiled penalty polynomial added to a model's
// Expanded sum, Check is evaluated directly against a BitState-backed
// assignment and is always exact -- it's what the adaptive solver loop
// (spec.md §4.7) uses to decide whether a sample is truly feasible,
// independent of whatever encoding slack the penalty polynomial has.
type Constraint[Tc Label[Tc], Tq Label[Tq]] struct {
	Label Tc
	Check func(get func(Qubit[Tq]) bool) bool
}

// NewConstraint builds a Constraint from a label and predicate.
func NewConstraint[Tc Label[Tc], Tq Label[Tq]](label Tc, check func(get func(Qubit[Tq]) bool) bool) Constraint[Tc, Tq] {
	return Constraint[Tc, Tq]{Label: label, Check: check}
}

// IsSatisfied evaluates c.Check against the given qubit->index map and
// BitState-backed assignment.
func (c Constraint[Tc, Tq]) IsSatisfied(index map[Qubit[Tq]]int, state *BitState) bool {
	return c.Check(func(q Qubit[Tq]) bool {
		i, ok := index[q]
		if !ok {
			return false
		}
		return state.Get(i)
	})
}
