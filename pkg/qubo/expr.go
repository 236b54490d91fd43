package qubo

// exprKind discriminates Expr's eight variants (spec.md §4.2): the four
// StaticExpr-like leaves/combinators plus the four domain-specific
// extensions (Binary, Spin, Constraint, WithPenalty).
type exprKind uint8

const (
	exprNumber exprKind = iota
	exprPlaceholder
	exprBinary
	exprSpin
	exprAdd
	exprMul
	exprConstraint
	exprWithPenalty
)

// Expr is the user-facing expression tree: a polynomial over qubits and
// placeholders, optionally annotated with adaptively-weighted soft
// constraints. Build one with NumberExpr/PlaceholderExpr/BinaryExpr/
// SpinExpr and the Add/Sub/Mul/Pow/WithConstraint/WithPenalty combinators,
// then call Compile to turn it into a CompiledModel (spec.md §4.2).
type Expr[Tp Label[Tp], Tq Label[Tq], Tc Label[Tc], R Real] struct {
	kind      exprKind
	num       R
	ph        Placeholder[Tp, Tc]
	qubit     Qubit[Tq]
	children  []*Expr[Tp, Tq, Tc, R]
	cLabel    Tc
	condition func(R) bool
}

// NumberExpr builds a constant leaf.
func NumberExpr[Tp Label[Tp], Tq Label[Tq], Tc Label[Tc], R Real](n R) *Expr[Tp, Tq, Tc, R] {
	return &Expr[Tp, Tq, Tc, R]{kind: exprNumber, num: n}
}

// ZeroExpr builds the additive identity.
func ZeroExpr[Tp Label[Tp], Tq Label[Tq], Tc Label[Tc], R Real]() *Expr[Tp, Tq, Tc, R] {
	return NumberExpr[Tp, Tq, Tc, R](0)
}

// OneExpr builds the multiplicative identity.
func OneExpr[Tp Label[Tp], Tq Label[Tq], Tc Label[Tc], R Real]() *Expr[Tp, Tq, Tc, R] {
	return NumberExpr[Tp, Tq, Tc, R](1)
}

// PlaceholderExpr builds a leaf referencing a caller-declared placeholder,
// to be resolved later via CompiledModel.FeedDict.
func PlaceholderExpr[Tp Label[Tp], Tq Label[Tq], Tc Label[Tc], R Real](p Tp) *Expr[Tp, Tq, Tc, R] {
	return &Expr[Tp, Tq, Tc, R]{kind: exprPlaceholder, ph: UserPlaceholder[Tp, Tc](p)}
}

// BinaryExpr builds a leaf referencing a 0/1 qubit labeled label.
func BinaryExpr[Tp Label[Tp], Tq Label[Tq], Tc Label[Tc], R Real](label Tq) *Expr[Tp, Tq, Tc, R] {
	return &Expr[Tp, Tq, Tc, R]{kind: exprBinary, qubit: Labeled(label)}
}

// SpinExpr builds a leaf referencing a -1/+1 qubit labeled label, related
// to its binary counterpart by Spin(q) == 2*Binary(q) - 1 (spec.md §3).
func SpinExpr[Tp Label[Tp], Tq Label[Tq], Tc Label[Tc], R Real](label Tq) *Expr[Tp, Tq, Tc, R] {
	return &Expr[Tp, Tq, Tc, R]{kind: exprSpin, qubit: Labeled(label)}
}

// AddExpr builds a sum node.
func AddExpr[Tp Label[Tp], Tq Label[Tq], Tc Label[Tc], R Real](children ...*Expr[Tp, Tq, Tc, R]) *Expr[Tp, Tq, Tc, R] {
	return &Expr[Tp, Tq, Tc, R]{kind: exprAdd, children: children}
}

// MulExpr builds a product node.
func MulExpr[Tp Label[Tp], Tq Label[Tq], Tc Label[Tc], R Real](children ...*Expr[Tp, Tq, Tc, R]) *Expr[Tp, Tq, Tc, R] {
	return &Expr[Tp, Tq, Tc, R]{kind: exprMul, children: children}
}

// Add returns e + other.
func (e *Expr[Tp, Tq, Tc, R]) Add(other *Expr[Tp, Tq, Tc, R]) *Expr[Tp, Tq, Tc, R] {
	return AddExpr(e, other)
}

// Sub returns e - other.
func (e *Expr[Tp, Tq, Tc, R]) Sub(other *Expr[Tp, Tq, Tc, R]) *Expr[Tp, Tq, Tc, R] {
	return AddExpr(e, other.Neg())
}

// Mul returns e * other.
func (e *Expr[Tp, Tq, Tc, R]) Mul(other *Expr[Tp, Tq, Tc, R]) *Expr[Tp, Tq, Tc, R] {
	return MulExpr(e, other)
}

// Neg returns -e.
func (e *Expr[Tp, Tq, Tc, R]) Neg() *Expr[Tp, Tq, Tc, R] {
	return MulExpr(NumberExpr[Tp, Tq, Tc, R](-1), e)
}

// Pow returns e raised to the n-th power (n >= 1).
func (e *Expr[Tp, Tq, Tc, R]) Pow(n int) *Expr[Tp, Tq, Tc, R] {
	if n < 1 {
		panic("qubo: Pow requires n >= 1")
	}
	children := make([]*Expr[Tp, Tq, Tc, R], n)
	for i := range children {
		children[i] = e
	}
	return MulExpr(children...)
}

// WithPenalty adds penalty to e unconditionally -- no constraint label is
// registered, and the contribution is always included regardless of
// whether penalty's value is zero at the optimum. This is the escape
// hatch for structural penalties (e.g. a one-hot encoding baked directly
// into the objective) that don't need adaptive reweighting or feasibility
// reporting (spec.md §4.2).
func (e *Expr[Tp, Tq, Tc, R]) WithPenalty(penalty *Expr[Tp, Tq, Tc, R]) *Expr[Tp, Tq, Tc, R] {
	return &Expr[Tp, Tq, Tc, R]{kind: exprWithPenalty, children: []*Expr[Tp, Tq, Tc, R]{e, penalty}}
}

// WithConstraint wraps e as a soft constraint labeled label: e's squared
// value is added to the objective scaled by an adaptively-tuned weight
// (spec.md §4.2, §4.7), and condition decides -- given e's exact value on
// a candidate assignment -- whether that assignment satisfies the
// constraint. Typical usage is e built so that condition is "v == 0"
// (e.g. e = sum(x_i) - 1 for a one-hot-of-n constraint).
func (e *Expr[Tp, Tq, Tc, R]) WithConstraint(label Tc, condition func(R) bool) *Expr[Tp, Tq, Tc, R] {
	return &Expr[Tp, Tq, Tc, R]{kind: exprConstraint, children: []*Expr[Tp, Tq, Tc, R]{e}, cLabel: label, condition: condition}
}

// Equal reports whether e and other have identical tree structure
// (constructors, leaf values, and children in the same order). Two
// expressions can be mathematically equal without Equal reporting true;
// Equal is a structural, not semantic, comparison -- useful mainly in
// tests.
func (e *Expr[Tp, Tq, Tc, R]) Equal(other *Expr[Tp, Tq, Tc, R]) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.kind != other.kind {
		return false
	}
	switch e.kind {
	case exprNumber:
		return e.num == other.num
	case exprPlaceholder:
		return e.ph == other.ph
	case exprBinary, exprSpin:
		return e.qubit == other.qubit
	case exprConstraint:
		return e.cLabel == other.cLabel && e.children[0].Equal(other.children[0])
	case exprAdd, exprMul, exprWithPenalty:
		if len(e.children) != len(other.children) {
			return false
		}
		for i := range e.children {
			if !e.children[i].Equal(other.children[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (e *Expr[Tp, Tq, Tc, R]) clone() *Expr[Tp, Tq, Tc, R] {
	cp := *e
	if e.children != nil {
		cp.children = append([]*Expr[Tp, Tq, Tc, R](nil), e.children...)
	}
	return &cp
}

// FeedDict substitutes matched user placeholders, recursing only through
// Add and Mul nodes -- a Constraint or WithPenalty node's children are
// left untouched, matching the limited recursion of the expression this
// library's design is based on. Compile resolves placeholders at the
// Expanded level instead, where every node kind is reachable; FeedDict at
// the Expr level exists for callers that want to partially specialize an
// expression before compiling it.
func (e *Expr[Tp, Tq, Tc, R]) FeedDict(dict map[Tp]R) *Expr[Tp, Tq, Tc, R] {
	switch e.kind {
	case exprPlaceholder:
		if u, ok := e.ph.User(); ok {
			if v, ok := dict[u]; ok {
				return NumberExpr[Tp, Tq, Tc, R](v)
			}
		}
		return e.clone()
	case exprAdd, exprMul:
		children := make([]*Expr[Tp, Tq, Tc, R], len(e.children))
		for i, c := range e.children {
			children[i] = c.FeedDict(dict)
		}
		return &Expr[Tp, Tq, Tc, R]{kind: e.kind, children: children}
	default:
		return e.clone()
	}
}

// Calculate evaluates e against a concrete qubit assignment. It returns
// ok == false if the result depends on an unresolved placeholder, except
// when a Mul node can short-circuit to zero because one of its other
// factors is already known to be zero from the boolean assignment alone
// -- mirroring the original expression evaluator's behavior of not
// requiring every placeholder to be resolved when the product is zero
// regardless.
func (e *Expr[Tp, Tq, Tc, R]) Calculate(get func(Qubit[Tq]) bool) (R, bool) {
	switch e.kind {
	case exprNumber:
		return e.num, true
	case exprPlaceholder:
		var zero R
		return zero, false
	case exprBinary:
		if get(e.qubit) {
			return 1, true
		}
		var zero R
		return zero, true
	case exprSpin:
		if get(e.qubit) {
			return 1, true
		}
		return -1, true
	case exprAdd:
		var sum R
		for _, c := range e.children {
			v, ok := c.Calculate(get)
			if !ok {
				return sum, false
			}
			sum += v
		}
		return sum, true
	case exprMul:
		acc := R(1)
		unresolved := false
		for _, c := range e.children {
			v, ok := c.Calculate(get)
			if !ok {
				unresolved = true
				continue
			}
			if v == 0 {
				var zero R
				return zero, true
			}
			acc *= v
		}
		if unresolved {
			var zero R
			return zero, false
		}
		return acc, true
	case exprConstraint, exprWithPenalty:
		return e.children[0].Calculate(get)
	}
	panic("qubo: unreachable Expr kind")
}

// toExpanded lowers e into an Expanded polynomial over Placeholder[Tp,Tc]
// coefficients, appending any Constraint nodes it encounters to
// *constraints.
func (e *Expr[Tp, Tq, Tc, R]) toExpanded(constraints *[]Constraint[Tc, Tq]) *Expanded[Tq, Tp, Tc, R] {
	switch e.kind {
	case exprNumber:
		return ExpandedFromStatic[Tq, Tp, Tc, R](SNumber[Tp, Tc, R](e.num))
	case exprPlaceholder:
		return ExpandedFromStatic[Tq, Tp, Tc, R](SPlaceholder[Tp, Tc, R](e.ph))
	case exprBinary:
		return ExpandedFromQubit[Tq, Tp, Tc, R](e.qubit)
	case exprSpin:
		binary := ExpandedFromQubit[Tq, Tp, Tc, R](e.qubit)
		two := ExpandedFromStatic[Tq, Tp, Tc, R](SNumber[Tp, Tc, R](2))
		negOne := ExpandedFromStatic[Tq, Tp, Tc, R](SNumber[Tp, Tc, R](-1))
		return two.Mul(binary).Add(negOne)
	case exprAdd:
		out := NewExpanded[Tq, Tp, Tc, R]()
		for _, c := range e.children {
			out = out.Add(c.toExpanded(constraints))
		}
		return out
	case exprMul:
		out := ExpandedFromStatic[Tq, Tp, Tc, R](SNumber[Tp, Tc, R](1))
		for _, c := range e.children {
			out = out.Mul(c.toExpanded(constraints))
		}
		return out
	case exprWithPenalty:
		base := e.children[0].toExpanded(constraints)
		penalty := e.children[1].toExpanded(constraints)
		return base.Add(penalty)
	case exprConstraint:
		child := e.children[0]
		squared := child.toExpanded(constraints)
		squared = squared.Mul(squared)
		weight := ExpandedFromStatic[Tq, Tp, Tc, R](SPlaceholder[Tp, Tc, R](ConstraintPlaceholder[Tp, Tc](e.cLabel)))
		condition := e.condition
		*constraints = append(*constraints, NewConstraint(e.cLabel, func(get func(Qubit[Tq]) bool) bool {
			v, ok := child.Calculate(get)
			return ok && condition(v)
		}))
		return weight.Mul(squared)
	}
	panic("qubo: unreachable Expr kind")
}

// CompileOption configures Expr.Compile.
type CompileOption[Tp Label[Tp], Tq Label[Tq], Tc Label[Tc], R Real] func(*compileConfig[R])

type compileConfig[R Real] struct {
	reductionPenalty    R
	reductionPenaltySet bool
	maxOrder            int
}

// WithReductionPenalty overrides the weight used for order-reduction
// gadget penalties (spec.md §4.4). It must exceed the largest coefficient
// magnitude the compiled polynomial can take on once every placeholder is
// resolved; the default is a heuristic estimate derived from the
// expression's own Number literals, which undercounts whenever a
// Placeholder can resolve to something large -- callers with
// correctness-critical reductions should supply this explicitly.
func WithReductionPenalty[Tp Label[Tp], Tq Label[Tq], Tc Label[Tc], R Real](weight R) CompileOption[Tp, Tq, Tc, R] {
	return func(c *compileConfig[R]) {
		c.reductionPenalty = weight
		c.reductionPenaltySet = true
	}
}

// WithMaxOrder overrides the maximum polynomial order Compile reduces to
// (default 2, the QUBO requirement). Values above 2 are occasionally
// useful for inspecting an intermediate, not-fully-reduced model.
func WithMaxOrder[Tp Label[Tp], Tq Label[Tq], Tc Label[Tc], R Real](maxOrder int) CompileOption[Tp, Tq, Tc, R] {
	return func(c *compileConfig[R]) { c.maxOrder = maxOrder }
}

// Compile lowers e into a CompiledModel: expand into a multilinear
// polynomial, reduce order to <= 2 (or WithMaxOrder's override) via
// ancilla substitution, and collect every WithConstraint node along the
// way (spec.md §4.2, §4.4).
func (e *Expr[Tp, Tq, Tc, R]) Compile(opts ...CompileOption[Tp, Tq, Tc, R]) (*CompiledModel[Tp, Tq, Tc, R], error) {
	cfg := compileConfig[R]{maxOrder: 2}
	for _, opt := range opts {
		opt(&cfg)
	}

	var constraints []Constraint[Tc, Tq]
	expanded := e.toExpanded(&constraints)

	qubitSet := expanded.GetQubits()
	qubits := make([]Qubit[Tq], 0, len(qubitSet))
	for q := range qubitSet {
		qubits = append(qubits, q)
	}
	sortQubits(qubits)

	weight := cfg.reductionPenalty
	if !cfg.reductionPenaltySet {
		weight = estimatePenaltyWeight[Tq, Tp, Tc, R](expanded)
	}

	builder := &Builder[Tq]{}
	reduced, err := ReduceOrder(expanded, builder, cfg.maxOrder, weight)
	if err != nil {
		return nil, err
	}
	for q := range reduced.GetQubits() {
		if q.IsAncilla() {
			qubits = append(qubits, q)
		}
	}

	return &CompiledModel[Tp, Tq, Tc, R]{expanded: reduced, constraints: constraints, qubits: qubits}, nil
}

func sortQubits[Tq Label[Tq]](qubits []Qubit[Tq]) {
	for i := 1; i < len(qubits); i++ {
		for j := i; j > 0 && qubits[j].Less(qubits[j-1]); j-- {
			qubits[j], qubits[j-1] = qubits[j-1], qubits[j]
		}
	}
}

// estimatePenaltyWeight derives a heuristic "large enough" reduction
// penalty from e's own Number literals: four times the sum of every
// term's coefficient magnitude (treating an unresolved Placeholder as
// magnitude 1), plus 1 so a constant-free model still gets a nonzero
// penalty.
func estimatePenaltyWeight[Tq Label[Tq], Tp Label[Tp], Tc Label[Tc], R Real](e *Expanded[Tq, Tp, Tc, R]) R {
	var total R
	for _, t := range e.terms {
		total += staticMagnitude(t.coeff)
	}
	return total*4 + 1
}

func staticMagnitude[Tp Label[Tp], Tc Label[Tc], R Real](e *StaticExpr[Tp, Tc, R]) R {
	switch e.kind {
	case staticNumber:
		return absR(e.num)
	case staticPlaceholder:
		return 1
	case staticAdd:
		var sum R
		for _, c := range e.children {
			sum += staticMagnitude(c)
		}
		return sum
	case staticMul:
		prod := R(1)
		for _, c := range e.children {
			prod *= staticMagnitude(c)
		}
		return prod
	}
	return 0
}
