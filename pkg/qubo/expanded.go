package qubo

import (
	"fmt"
	"sort"
)

// expandedTerm is one (qubit set, coefficient) pair inside an Expanded
// polynomial.
type expandedTerm[Tq Label[Tq], Tp Label[Tp], Tc Label[Tc], R Real] struct {
	qubits QubitSet[Tq]
	coeff  *StaticExpr[Tp, Tc, R]
}

// Expanded is a multilinear polynomial over qubits with StaticExpr
// coefficients: a mapping from Set<Qubit> to StaticExpr (spec.md §3, §4.3).
// Every key is unique and every term is multilinear (boolean variables
// satisfy x^2 = x, so a term's key is a set, never a multiset).
type Expanded[Tq Label[Tq], Tp Label[Tp], Tc Label[Tc], R Real] struct {
	terms map[string]*expandedTerm[Tq, Tp, Tc, R]
}

// NewExpanded returns the empty polynomial.
func NewExpanded[Tq Label[Tq], Tp Label[Tp], Tc Label[Tc], R Real]() *Expanded[Tq, Tp, Tc, R] {
	return &Expanded[Tq, Tp, Tc, R]{terms: map[string]*expandedTerm[Tq, Tp, Tc, R]{}}
}

// ExpandedFromTerm builds a single-term polynomial.
func ExpandedFromTerm[Tq Label[Tq], Tp Label[Tp], Tc Label[Tc], R Real](
	qubits QubitSet[Tq], coeff *StaticExpr[Tp, Tc, R],
) *Expanded[Tq, Tp, Tc, R] {
	e := NewExpanded[Tq, Tp, Tc, R]()
	e.terms[qubits.Key()] = &expandedTerm[Tq, Tp, Tc, R]{qubits: qubits, coeff: coeff}
	return e
}

// ExpandedFromQubit builds the degree-1 polynomial "q" (coefficient 1).
func ExpandedFromQubit[Tq Label[Tq], Tp Label[Tp], Tc Label[Tc], R Real](q Qubit[Tq]) *Expanded[Tq, Tp, Tc, R] {
	return ExpandedFromTerm[Tq, Tp, Tc, R](NewQubitSet(q), SNumber[Tp, Tc, R](1))
}

// ExpandedFromStatic builds the constant-term polynomial "coeff".
func ExpandedFromStatic[Tq Label[Tq], Tp Label[Tp], Tc Label[Tc], R Real](coeff *StaticExpr[Tp, Tc, R]) *Expanded[Tq, Tp, Tc, R] {
	return ExpandedFromTerm[Tq, Tp, Tc, R](NewQubitSet[Tq](), coeff)
}

func (e *Expanded[Tq, Tp, Tc, R]) clone() *Expanded[Tq, Tp, Tc, R] {
	out := NewExpanded[Tq, Tp, Tc, R]()
	for k, t := range e.terms {
		out.terms[k] = &expandedTerm[Tq, Tp, Tc, R]{qubits: t.qubits, coeff: t.coeff}
	}
	return out
}

// sortedKeys returns e's term keys in a fixed, content-derived order; used
// everywhere a deterministic term iteration order matters (see SPEC_FULL.md
// "Open Questions resolved").
func (e *Expanded[Tq, Tp, Tc, R]) sortedKeys() []string {
	keys := make([]string, 0, len(e.terms))
	for k := range e.terms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AddAssign unions e with other by qubit-set key; on collision the two
// coefficients are combined via Simplify(Add(old, new)) (spec.md §4.3).
func (e *Expanded[Tq, Tp, Tc, R]) AddAssign(other *Expanded[Tq, Tp, Tc, R]) {
	for _, k := range other.sortedKeys() {
		t := other.terms[k]
		if existing, ok := e.terms[k]; ok {
			existing.coeff = SAdd(existing.coeff, t.coeff).Simplify()
		} else {
			e.terms[k] = &expandedTerm[Tq, Tp, Tc, R]{qubits: t.qubits, coeff: t.coeff}
		}
	}
}

// Add returns a new polynomial equal to e + other, without modifying
// either operand.
func (e *Expanded[Tq, Tp, Tc, R]) Add(other *Expanded[Tq, Tp, Tc, R]) *Expanded[Tq, Tp, Tc, R] {
	out := e.clone()
	out.AddAssign(other)
	return out
}

// MulAssign multiplies e by other via the Cartesian product over terms:
// (S1 -> c1) * (S2 -> c2) = (S1 union S2 -> Simplify(c1 * c2)); results are
// then combined as in AddAssign (spec.md §4.3).
func (e *Expanded[Tq, Tp, Tc, R]) MulAssign(other *Expanded[Tq, Tp, Tc, R]) {
	result := NewExpanded[Tq, Tp, Tc, R]()
	selfKeys := e.sortedKeys()
	otherKeys := other.sortedKeys()
	for _, k1 := range selfKeys {
		t1 := e.terms[k1]
		for _, k2 := range otherKeys {
			t2 := other.terms[k2]
			qubits := t1.qubits.Union(t2.qubits)
			coeff := SMul(t1.coeff, t2.coeff).Simplify()
			key := qubits.Key()
			if existing, ok := result.terms[key]; ok {
				existing.coeff = SAdd(existing.coeff, coeff).Simplify()
			} else {
				result.terms[key] = &expandedTerm[Tq, Tp, Tc, R]{qubits: qubits, coeff: coeff}
			}
		}
	}
	e.terms = result.terms
}

// Mul returns a new polynomial equal to e * other, without modifying
// either operand.
func (e *Expanded[Tq, Tp, Tc, R]) Mul(other *Expanded[Tq, Tp, Tc, R]) *Expanded[Tq, Tp, Tc, R] {
	out := e.clone()
	out.MulAssign(other)
	return out
}

// GetOrder returns the maximum term size (0 when e is empty).
func (e *Expanded[Tq, Tp, Tc, R]) GetOrder() int {
	max := 0
	for _, t := range e.terms {
		if len(t.qubits) > max {
			max = len(t.qubits)
		}
	}
	return max
}

// IsSuperset reports whether every term's key is a superset of subset
// (spec.md §4.3; used to decide whether a reduction replacement applies
// globally).
func (e *Expanded[Tq, Tp, Tc, R]) IsSuperset(subset QubitSet[Tq]) bool {
	for _, t := range e.terms {
		if !t.qubits.IsSupersetOf(subset) {
			return false
		}
	}
	return true
}

// RemoveQubits returns a new polynomial with every qubit in qubits removed
// from each term's key, merging any terms that collide as a result.
func (e *Expanded[Tq, Tp, Tc, R]) RemoveQubits(qubits QubitSet[Tq]) *Expanded[Tq, Tp, Tc, R] {
	out := NewExpanded[Tq, Tp, Tc, R]()
	for _, k := range e.sortedKeys() {
		t := e.terms[k]
		reduced := t.qubits.Remove(qubits)
		key := reduced.Key()
		if existing, ok := out.terms[key]; ok {
			existing.coeff = SAdd(existing.coeff, t.coeff).Simplify()
		} else {
			out.terms[key] = &expandedTerm[Tq, Tp, Tc, R]{qubits: reduced, coeff: t.coeff}
		}
	}
	return out
}

// GetPlaceholders returns the set of placeholders appearing anywhere in e.
func (e *Expanded[Tq, Tp, Tc, R]) GetPlaceholders() map[Placeholder[Tp, Tc]]struct{} {
	out := map[Placeholder[Tp, Tc]]struct{}{}
	for _, t := range e.terms {
		for p := range t.coeff.GetPlaceholders() {
			out[p] = struct{}{}
		}
	}
	return out
}

// GetQubits returns the set of qubits appearing anywhere in e.
func (e *Expanded[Tq, Tp, Tc, R]) GetQubits() map[Qubit[Tq]]struct{} {
	out := map[Qubit[Tq]]struct{}{}
	for _, t := range e.terms {
		for _, q := range t.qubits {
			out[q] = struct{}{}
		}
	}
	return out
}

// FeedDict substitutes matched placeholders throughout e.
func (e *Expanded[Tq, Tp, Tc, R]) FeedDict(dict map[Placeholder[Tp, Tc]]R) *Expanded[Tq, Tp, Tc, R] {
	out := NewExpanded[Tq, Tp, Tc, R]()
	for k, t := range e.terms {
		out.terms[k] = &expandedTerm[Tq, Tp, Tc, R]{qubits: t.qubits, coeff: t.coeff.FeedDict(dict)}
	}
	return out
}

// SubstitutePair returns a new polynomial with qubits x and y replaced by
// w everywhere they co-occur: every term whose key is a superset of
// {x, y} has both removed and w inserted in their place, merging with any
// term that already mentions w as a result. It adds no penalty that makes
// w == x*y hold at the optimum; that is left to the caller. ReduceOrder
// does not use it: it substitutes through applyReplace (reduce.go).
func (e *Expanded[Tq, Tp, Tc, R]) SubstitutePair(x, y, w Qubit[Tq]) *Expanded[Tq, Tp, Tc, R] {
	pair := NewQubitSet(x, y)
	wSet := NewQubitSet(w)
	out := NewExpanded[Tq, Tp, Tc, R]()
	merge := func(qubits QubitSet[Tq], coeff *StaticExpr[Tp, Tc, R]) {
		key := qubits.Key()
		if existing, ok := out.terms[key]; ok {
			existing.coeff = SAdd(existing.coeff, coeff).Simplify()
		} else {
			out.terms[key] = &expandedTerm[Tq, Tp, Tc, R]{qubits: qubits, coeff: coeff}
		}
	}
	for _, k := range e.sortedKeys() {
		t := e.terms[k]
		if t.qubits.IsSupersetOf(pair) {
			merge(t.qubits.Remove(pair).Union(wSet), t.coeff)
		} else {
			merge(t.qubits.Clone(), t.coeff)
		}
	}
	return out
}

// AggregateSign reports the combined sign (spec.md §4.1's IsPositive) of
// every term whose key is a superset of pairQubits and whose size exceeds
// maxOrder -- i.e. every term the next reduction step would touch. nil
// means indeterminate (terms disagree, or at least one term's coefficient
// has indeterminate sign).
func (e *Expanded[Tq, Tp, Tc, R]) AggregateSign(pairQubits QubitSet[Tq], maxOrder int) *bool {
	var ret *bool
	for _, t := range e.terms {
		if len(t.qubits) <= maxOrder || !t.qubits.IsSupersetOf(pairQubits) {
			continue
		}
		s := t.coeff.IsPositive()
		if s == nil {
			return nil
		}
		if ret == nil {
			ret = s
		} else if *ret != *s {
			return nil
		}
	}
	return ret
}

// subsetCount is one entry of CountQubitSubsets' result: a candidate
// gadget-reduction subset, the sign used to distinguish it (only tracked
// for subsets larger than a pair), and how many terms contain it.
type subsetCount[Tq Label[Tq]] struct {
	qubits QubitSet[Tq]
	sign   *bool
	count  int
}

// CountQubitSubsets implements spec.md §4.3's count_qubit_subsets: for
// every term whose key has size > maxOrder, enumerate all subsets of size
// in [min, max] of that key, and count how many terms contain each
// subset. For subsets of size > 2 the count is keyed additionally by the
// sign of the term's coefficient (via IsPositive); terms with
// indeterminate sign are skipped for those subsets.
//
// The returned slice is ordered by first occurrence during the scan (terms
// visited in sortedKeys order, subsets visited in getSubsets' skip-before-
// take order within each term) rather than by count, so that callers
// needing "first entry with max count" (spec.md §4.4 step 4) get a
// deterministic answer.
func (e *Expanded[Tq, Tp, Tc, R]) CountQubitSubsets(maxOrder, min int, max *int) []subsetCount[Tq] {
	maxVal := -1
	if max != nil {
		maxVal = *max
	}
	index := map[string]int{}
	var order []subsetCount[Tq]
	for _, k := range e.sortedKeys() {
		t := e.terms[k]
		if len(t.qubits) <= maxOrder {
			continue
		}
		getSubsets(t.qubits, min, maxVal, func(subset []Qubit[Tq]) {
			var sign *bool
			if len(subset) > 2 {
				s := t.coeff.IsPositive()
				if s == nil {
					return
				}
				sign = s
			}
			cp := append(QubitSet[Tq](nil), subset...)
			key := cp.Key()
			if sign != nil {
				key = fmt.Sprintf("%s#%v", key, *sign)
			} else {
				key = key + "#_"
			}
			if i, ok := index[key]; ok {
				order[i].count++
			} else {
				index[key] = len(order)
				order = append(order, subsetCount[Tq]{qubits: cp, sign: sign, count: 1})
			}
		})
	}
	return order
}

// GenerateQubo evaluates every term's StaticExpr against resolve, then
// distributes the result into a constant offset (for the empty key), the
// diagonal of a QuadraticModel (for singleton keys) or its off-diagonal
// (for pair keys), as described in spec.md §4.3. qubits fixes the
// qubit-to-index mapping used by the returned model; it must cover every
// qubit appearing in e. A term whose key has size > 2 means order
// reduction hasn't been run (or failed); GenerateQubo returns
// ErrReductionStalled in that case rather than panicking, since this is a
// recoverable precondition violation the adaptive solver loop can surface.
func (e *Expanded[Tq, Tp, Tc, R]) GenerateQubo(
	qubits []Qubit[Tq], resolve func(Placeholder[Tp, Tc]) R,
) (R, *QuadraticModel[R], error) {
	index := make(map[Qubit[Tq]]int, len(qubits))
	for i, q := range qubits {
		index[q] = i
	}
	model := NewQuadraticModel[R](len(qubits))
	var constant R
	for _, k := range e.sortedKeys() {
		t := e.terms[k]
		val := t.coeff.Calculate(resolve)
		switch len(t.qubits) {
		case 0:
			constant += val
		case 1:
			idx, ok := index[t.qubits[0]]
			if !ok {
				return constant, nil, fmt.Errorf("qubo: %w: qubit %v missing from index", ErrMissingQubit, t.qubits[0])
			}
			model.AddWeight(idx, idx, val)
		case 2:
			i1, ok1 := index[t.qubits[0]]
			i2, ok2 := index[t.qubits[1]]
			if !ok1 || !ok2 {
				return constant, nil, fmt.Errorf("qubo: %w: qubit missing from index", ErrMissingQubit)
			}
			model.AddWeight(i1, i2, val)
		default:
			return constant, nil, fmt.Errorf("qubo: %w: term of order %d remains", ErrReductionStalled, len(t.qubits))
		}
	}
	return constant, model, nil
}
