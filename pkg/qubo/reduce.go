package qubo

import "fmt"

// reduceMaxIterations bounds the number of substitution steps order
// reduction will attempt before giving up; a well-formed model reduces in
// at most (current order - maxOrder) * (term count) steps, so this is a
// generous backstop against a malformed or cyclic reduction rather than a
// normal termination path.
const reduceMaxIterations = 100000

// ReduceOrder repeatedly substitutes an ancilla-bearing gadget for the
// highest-impact co-occurring qubit subset until every term has degree <=
// maxOrder, or returns ErrReductionStalled if it cannot make progress
// within reduceMaxIterations steps (spec.md §4.4, original_source/src/
// compiled.rs's reduce_order/generate_replace).
//
// At each step it counts, over every term whose degree exceeds maxOrder,
// how often each of its subsets (size >= 2) recurs across the whole
// polynomial (CountQubitSubsets), and picks the subset with the highest
// count -- breaking ties by preferring the larger subset, then the first
// one encountered in term-iteration order. When every term containing
// that subset agrees on coefficient sign, the general Rosenberg/Boros-
// Hammer gadget for that sign and subset size is substituted in directly
// (no penaltyWeight needed -- the gadget is an exact identity for any
// determinate-sign coefficient). Otherwise the subset is necessarily a
// pair (CountQubitSubsets only tracks sign for subsets of size > 2, so an
// indeterminate result always comes from a 2-element subset), and a
// single ancilla is substituted together with an additive penalty scaled
// by penaltyWeight to force it to agree with the pair's product.
func ReduceOrder[Tq Label[Tq], Tp Label[Tp], Tc Label[Tc], R Real](
	expanded *Expanded[Tq, Tp, Tc, R], builder *Builder[Tq], maxOrder int, penaltyWeight R,
) (*Expanded[Tq, Tp, Tc, R], error) {
	current := expanded
	for iter := 0; ; iter++ {
		if current.GetOrder() <= maxOrder {
			return current, nil
		}
		if iter >= reduceMaxIterations {
			return current, fmt.Errorf("qubo: %w: exceeded %d substitution steps", ErrReductionStalled, reduceMaxIterations)
		}
		counts := current.CountQubitSubsets(maxOrder, 2, nil)
		if len(counts) == 0 {
			return current, fmt.Errorf("qubo: %w: no reducible subset found", ErrReductionStalled)
		}
		best := counts[0]
		for _, c := range counts[1:] {
			if c.count > best.count || (c.count == best.count && len(c.qubits) > len(best.qubits)) {
				best = c
			}
		}
		set := best.qubits
		sign := best.sign
		if len(set) == 2 {
			sign = current.AggregateSign(set, maxOrder)
		}

		if sign != nil {
			replacement := generateReplaceSigned[Tq, Tp, Tc, R](set, builder, *sign)
			current = applyReplace(current, set, replacement)
			continue
		}

		if len(set) != 2 {
			return current, fmt.Errorf("qubo: %w: indeterminate sign on a subset of size %d (only pairs support it)", ErrReductionStalled, len(set))
		}
		x, y := set[0], set[1]
		w := builder.Ancilla()
		replacement := ExpandedFromQubit[Tq, Tp, Tc, R](w)
		current = applyReplace(current, set, replacement)
		current = current.Add(indeterminateGadgetPenalty[Tq, Tp, Tc, R](x, y, w, penaltyWeight))
	}
}

// applyReplace mirrors reduce_order's per-term loop: every term whose key
// is a superset of set has set's qubits stripped out and the remaining
// (qubits, coefficient) multiplied through replacement; every other term
// passes through unchanged.
func applyReplace[Tq Label[Tq], Tp Label[Tp], Tc Label[Tc], R Real](
	current *Expanded[Tq, Tp, Tc, R], set QubitSet[Tq], replacement *Expanded[Tq, Tp, Tc, R],
) *Expanded[Tq, Tp, Tc, R] {
	out := NewExpanded[Tq, Tp, Tc, R]()
	for _, k := range current.sortedKeys() {
		t := current.terms[k]
		if t.qubits.IsSupersetOf(set) {
			remainder := ExpandedFromTerm[Tq, Tp, Tc, R](t.qubits.Remove(set), t.coeff)
			out.AddAssign(remainder.Mul(replacement))
		} else {
			out.AddAssign(ExpandedFromTerm[Tq, Tp, Tc, R](t.qubits.Clone(), t.coeff))
		}
	}
	return out
}

// generateReplaceSigned builds the exact quadratization gadget for a
// degree-d monomial whose coefficient has a determinate sign, per the
// general Rosenberg construction (original_source/src/compiled.rs's
// generate_replace, citing http://www.f.waseda.jp/hfs/miru2009.pdf).
//
// positive (sign == true): n = (d-1)/2 ancillas partition the pairwise sum
// penalty across an even/odd-d split, plus the fixed sum of every pairwise
// product x_i*x_j; minimizing over the ancillas reproduces x_1*...*x_d for
// any assignment of the x's. negative (sign == false): a single ancilla w
// with gadget sum_i(w*x_i) + (1-d)*w suffices.
func generateReplaceSigned[Tq Label[Tq], Tp Label[Tp], Tc Label[Tc], R Real](
	set QubitSet[Tq], builder *Builder[Tq], sign bool,
) *Expanded[Tq, Tp, Tc, R] {
	xs := set
	d := len(xs)
	exp := NewExpanded[Tq, Tp, Tc, R]()

	if !sign {
		w := builder.Ancilla()
		for _, x := range xs {
			exp.AddAssign(ExpandedFromTerm[Tq, Tp, Tc, R](NewQubitSet(w, x), SNumber[Tp, Tc, R](1)))
		}
		exp.AddAssign(ExpandedFromTerm[Tq, Tp, Tc, R](NewQubitSet(w), SNumber[Tp, Tc, R](R(1-d))))
		return exp
	}

	addAncillaTerm := func(w Qubit[Tq], coeffPerX, coeffSolo R) {
		for _, x := range xs {
			exp.AddAssign(ExpandedFromTerm[Tq, Tp, Tc, R](NewQubitSet(w, x), SNumber[Tp, Tc, R](coeffPerX)))
		}
		exp.AddAssign(ExpandedFromTerm[Tq, Tp, Tc, R](NewQubitSet(w), SNumber[Tp, Tc, R](coeffSolo)))
	}

	n := (d - 1) / 2
	if d%2 == 0 {
		for i := 0; i < n; i++ {
			w := builder.Ancilla()
			addAncillaTerm(w, -2, R(4*(i+1)-1))
		}
	} else {
		wn := builder.Ancilla()
		for _, x := range xs {
			exp.AddAssign(ExpandedFromTerm[Tq, Tp, Tc, R](NewQubitSet(wn, x), SNumber[Tp, Tc, R](-1)))
		}
		exp.AddAssign(ExpandedFromTerm[Tq, Tp, Tc, R](NewQubitSet(wn), SNumber[Tp, Tc, R](R(2*n-1))))
		for i := 0; i < n-1; i++ {
			w := builder.Ancilla()
			addAncillaTerm(w, -2, R(4*(i+1)-1))
		}
	}

	for i := 0; i < d; i++ {
		for j := i + 1; j < d; j++ {
			exp.AddAssign(ExpandedFromTerm[Tq, Tp, Tc, R](NewQubitSet(xs[i], xs[j]), SNumber[Tp, Tc, R](1)))
		}
	}
	return exp
}

// indeterminateGadgetPenalty builds the additive penalty weight*(x*y -
// 2*x*w - 2*y*w + 3*w) that forces ancilla w to agree with x*y at the
// optimum when the replaced term's sign could not be determined (spec.md
// §4.4; original_source/src/compiled.rs's generate_replace None branch).
// Unlike the signed gadgets this isn't an exact identity, so it needs an
// externally supplied weight large enough to dominate the rest of the
// polynomial.
func indeterminateGadgetPenalty[Tq Label[Tq], Tp Label[Tp], Tc Label[Tc], R Real](
	x, y, w Qubit[Tq], weight R,
) *Expanded[Tq, Tp, Tc, R] {
	p := SNumber[Tp, Tc, R](weight)
	neg2p := SNumber[Tp, Tc, R](weight * -2)
	xy := ExpandedFromTerm[Tq, Tp, Tc, R](NewQubitSet(x, y), p)
	xw := ExpandedFromTerm[Tq, Tp, Tc, R](NewQubitSet(x, w), neg2p)
	yw := ExpandedFromTerm[Tq, Tp, Tc, R](NewQubitSet(y, w), neg2p)
	wOnly := ExpandedFromTerm[Tq, Tp, Tc, R](NewQubitSet(w), SNumber[Tp, Tc, R](weight*3))
	return xy.Add(xw).Add(yw).Add(wOnly)
}
