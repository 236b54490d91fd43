package qubo

import "fmt"

// CompiledModel is the output of Expr.Compile: an Expanded polynomial
// (already reduced to degree <= 2) together with the constraints that
// contributed penalty terms to it, and the fixed qubit ordering used
// whenever the model is turned into a QuadraticModel (spec.md §3,
// CompiledModel lifecycle). Tp is Unit once FeedDict has resolved every
// user placeholder; until then it carries the caller's own placeholder
// label type.
type CompiledModel[Tp Label[Tp], Tq Label[Tq], Tc Label[Tc], R Real] struct {
	expanded    *Expanded[Tq, Tp, Tc, R]
	constraints []Constraint[Tc, Tq]
	qubits      []Qubit[Tq]
}

// GetQubits returns the fixed qubit ordering this model was compiled
// against.
func (m *CompiledModel[Tp, Tq, Tc, R]) GetQubits() []Qubit[Tq] {
	return append([]Qubit[Tq](nil), m.qubits...)
}

// GetPlaceholders returns every placeholder (user or constraint) still
// appearing in the model.
func (m *CompiledModel[Tp, Tq, Tc, R]) GetPlaceholders() map[Placeholder[Tp, Tc]]struct{} {
	return m.expanded.GetPlaceholders()
}

// retagExpanded rebuilds e with every placeholder rewritten by f; used to
// move an Expanded from Placeholder[Tp,Tc] to Placeholder[Tp2,Tc] once
// every Tp-side placeholder has already been eliminated.
func retagExpanded[Tq Label[Tq], Tp Label[Tp], Tp2 Label[Tp2], Tc Label[Tc], R Real](
	e *Expanded[Tq, Tp, Tc, R], f func(Placeholder[Tp, Tc]) Placeholder[Tp2, Tc],
) *Expanded[Tq, Tp2, Tc, R] {
	out := NewExpanded[Tq, Tp2, Tc, R]()
	for k, t := range e.terms {
		out.terms[k] = &expandedTerm[Tq, Tp2, Tc, R]{qubits: t.qubits, coeff: retagStaticExpr(t.coeff, f)}
	}
	return out
}

// FeedDict resolves every Tp-labeled (user) placeholder in m to a
// concrete value, returning a model keyed on Unit instead of Tp -- the
// "resolved" type state from spec.md §6 ("CompiledModel::feed_dict(map)
// -> CompiledModel<resolved>"). Constraint placeholders are left intact
// for the adaptive solver loop to feed in separately each generation
// (spec.md §4.7). Returns ErrNegativePlaceholder wrapped if dict holds a
// negative value, and ErrUnresolvedPlaceholder wrapped if dict omits any
// user placeholder actually referenced by the model.
func (m *CompiledModel[Tp, Tq, Tc, R]) FeedDict(dict map[Tp]R) (out *CompiledModel[Unit, Tq, Tc, R], err error) {
	full := make(map[Placeholder[Tp, Tc]]R, len(dict))
	for k, v := range dict {
		if v < 0 {
			return nil, fmt.Errorf("qubo: %w: %v", ErrNegativePlaceholder, k)
		}
		full[UserPlaceholder[Tp, Tc](k)] = v
	}
	resolved := m.expanded.FeedDict(full)

	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("qubo: %w", ErrUnresolvedPlaceholder)
		}
	}()
	retagged := retagExpanded(resolved, func(p Placeholder[Tp, Tc]) Placeholder[Unit, Tc] {
		if c, ok := p.Constraint(); ok {
			return ConstraintPlaceholder[Unit, Tc](c)
		}
		panic(ErrUnresolvedPlaceholder)
	})
	return &CompiledModel[Unit, Tq, Tc, R]{expanded: retagged, constraints: m.constraints, qubits: m.qubits}, nil
}

// FeedConstraintWeights resolves every remaining ConstraintPlaceholder
// against weights, producing a fully numeric polynomial ready for
// GenerateQubo. This is the per-generation step of the adaptive solver
// loop (spec.md §4.7): the same CompiledModel is re-resolved with updated
// weights every generation.
func (m *CompiledModel[Tp, Tq, Tc, R]) FeedConstraintWeights(weights map[Tc]R) *Expanded[Tq, Tp, Tc, R] {
	full := make(map[Placeholder[Tp, Tc]]R, len(weights))
	for k, v := range weights {
		full[ConstraintPlaceholder[Tp, Tc](k)] = v
	}
	return m.expanded.FeedDict(full)
}

// GenerateQubo evaluates a fully resolved model (every placeholder already
// fed in via resolve) into a constant offset and a QuadraticModel indexed
// by m.GetQubits()'s order.
func (m *CompiledModel[Tp, Tq, Tc, R]) GenerateQubo(resolve func(Placeholder[Tp, Tc]) R) (R, *QuadraticModel[R], error) {
	if len(m.qubits) == 0 {
		var zero R
		return zero, nil, ErrEmptyModel
	}
	return m.expanded.GenerateQubo(m.qubits, resolve)
}

// GetUnsatisfiedConstraints returns the labels of every constraint whose
// predicate fails against the given assignment.
func (m *CompiledModel[Tp, Tq, Tc, R]) GetUnsatisfiedConstraints(index map[Qubit[Tq]]int, state *BitState) []Tc {
	var out []Tc
	for _, c := range m.constraints {
		if !c.IsSatisfied(index, state) {
			out = append(out, c.Label)
		}
	}
	return out
}

// Constraints returns the constraints registered against this model.
func (m *CompiledModel[Tp, Tq, Tc, R]) Constraints() []Constraint[Tc, Tq] {
	return append([]Constraint[Tc, Tq](nil), m.constraints...)
}
