package qubo

// staticKind discriminates the four StaticExpr variants from spec.md §4.1.
type staticKind uint8

const (
	staticNumber staticKind = iota
	staticPlaceholder
	staticAdd
	staticMul
)

// StaticExpr is a polynomial over Placeholder[Tp, Tc] with Number leaves;
// it never mentions a qubit. It is the coefficient type attached to each
// term of an Expanded polynomial (spec.md §4.1, §4.3).
//
// Invariant (simplified form): after Simplify, an Add/Mul node carries at
// most one Number child, and never nests an Add directly inside an Add (or
// a Mul directly inside a Mul).
type StaticExpr[Tp Label[Tp], Tc Label[Tc], R Real] struct {
	kind     staticKind
	num      R
	ph       Placeholder[Tp, Tc]
	children []*StaticExpr[Tp, Tc, R]
}

// SNumber builds a constant leaf.
func SNumber[Tp Label[Tp], Tc Label[Tc], R Real](n R) *StaticExpr[Tp, Tc, R] {
	return &StaticExpr[Tp, Tc, R]{kind: staticNumber, num: n}
}

// SPlaceholder builds a placeholder leaf.
func SPlaceholder[Tp Label[Tp], Tc Label[Tc], R Real](p Placeholder[Tp, Tc]) *StaticExpr[Tp, Tc, R] {
	return &StaticExpr[Tp, Tc, R]{kind: staticPlaceholder, ph: p}
}

// SAdd builds a sum node over the given children.
func SAdd[Tp Label[Tp], Tc Label[Tc], R Real](children ...*StaticExpr[Tp, Tc, R]) *StaticExpr[Tp, Tc, R] {
	return &StaticExpr[Tp, Tc, R]{kind: staticAdd, children: children}
}

// SMul builds a product node over the given children.
func SMul[Tp Label[Tp], Tc Label[Tc], R Real](children ...*StaticExpr[Tp, Tc, R]) *StaticExpr[Tp, Tc, R] {
	return &StaticExpr[Tp, Tc, R]{kind: staticMul, children: children}
}

// clone performs a deep copy; StaticExpr trees are otherwise treated as
// immutable and shared, but Simplify/FeedDict build new trees rather than
// mutating in place.
func (e *StaticExpr[Tp, Tc, R]) clone() *StaticExpr[Tp, Tc, R] {
	if e == nil {
		return nil
	}
	out := &StaticExpr[Tp, Tc, R]{kind: e.kind, num: e.num, ph: e.ph}
	if e.children != nil {
		out.children = make([]*StaticExpr[Tp, Tc, R], len(e.children))
		for i, c := range e.children {
			out.children[i] = c.clone()
		}
	}
	return out
}

// GetPlaceholders returns the set of placeholders appearing in e.
func (e *StaticExpr[Tp, Tc, R]) GetPlaceholders() map[Placeholder[Tp, Tc]]struct{} {
	out := map[Placeholder[Tp, Tc]]struct{}{}
	e.collectPlaceholders(out)
	return out
}

func (e *StaticExpr[Tp, Tc, R]) collectPlaceholders(out map[Placeholder[Tp, Tc]]struct{}) {
	switch e.kind {
	case staticPlaceholder:
		out[e.ph] = struct{}{}
	case staticAdd, staticMul:
		for _, c := range e.children {
			c.collectPlaceholders(out)
		}
	}
}

// expandAdd flattens nested Add-of-Add and distributes Mul over Add,
// mirroring rustqubo's expand_add: an Add node flattens its Add children;
// a Mul node expands into the cross product of each child's expanded-Add
// terms (the distributive law, spec.md's Testable Property 4).
func (e *StaticExpr[Tp, Tc, R]) expandAdd() []*StaticExpr[Tp, Tc, R] {
	switch e.kind {
	case staticAdd:
		var out []*StaticExpr[Tp, Tc, R]
		for _, c := range e.children {
			out = append(out, c.expandAdd()...)
		}
		return out
	case staticMul:
		cross := [][]*StaticExpr[Tp, Tc, R]{{}}
		for _, c := range e.children {
			terms := c.expandAdd()
			var next [][]*StaticExpr[Tp, Tc, R]
			for _, prefix := range cross {
				for _, t := range terms {
					row := make([]*StaticExpr[Tp, Tc, R], len(prefix), len(prefix)+1)
					copy(row, prefix)
					row = append(row, t)
					next = append(next, row)
				}
			}
			cross = next
		}
		out := make([]*StaticExpr[Tp, Tc, R], len(cross))
		for i, row := range cross {
			out[i] = SMul(row...)
		}
		return out
	default:
		return []*StaticExpr[Tp, Tc, R]{e}
	}
}

// expandMul flattens nested Mul-of-Mul without touching Add.
func (e *StaticExpr[Tp, Tc, R]) expandMul() []*StaticExpr[Tp, Tc, R] {
	if e.kind == staticMul {
		var out []*StaticExpr[Tp, Tc, R]
		for _, c := range e.children {
			out = append(out, c.expandMul()...)
		}
		return out
	}
	return []*StaticExpr[Tp, Tc, R]{e}
}

// Simplify fully flattens nested Add/Mul, folds numeric constants into a
// single trailing Number, collapses a Mul containing Number(0) to
// Number(0), and collapses an Add/Mul of one child to that child
// (spec.md §4.1). Simplify is idempotent (Testable Property 1).
func (e *StaticExpr[Tp, Tc, R]) Simplify() *StaticExpr[Tp, Tc, R] {
	if e.kind != staticAdd && e.kind != staticMul {
		return e.clone()
	}
	isAdd := e.kind == staticAdd
	var flat []*StaticExpr[Tp, Tc, R]
	if isAdd {
		flat = e.expandAdd()
	} else {
		flat = e.expandMul()
	}

	var acc R
	haveAcc := false
	kept := make([]*StaticExpr[Tp, Tc, R], 0, len(flat))
	for _, child := range flat {
		s := child.Simplify()
		if s.kind == staticNumber {
			if isAdd {
				if haveAcc {
					acc = acc + s.num
				} else {
					acc, haveAcc = s.num, true
				}
			} else {
				if !haveAcc {
					acc, haveAcc = s.num, true
				} else {
					acc = acc * s.num
				}
				if acc == 0 {
					return SNumber[Tp, Tc, R](0)
				}
			}
			continue
		}
		kept = append(kept, s)
	}
	if haveAcc {
		kept = append(kept, SNumber[Tp, Tc, R](acc))
	}
	if len(kept) == 0 {
		if isAdd {
			return SNumber[Tp, Tc, R](0)
		}
		return SNumber[Tp, Tc, R](1)
	}
	if len(kept) == 1 {
		return kept[0]
	}
	if isAdd {
		return SAdd(kept...)
	}
	return SMul(kept...)
}

// IsPositive performs the sign analysis of spec.md §4.1: a Number leaf's
// sign is sign(n); a Placeholder is always positive (placeholder values
// are required non-negative, spec.md §6); an Add requires all children to
// share a sign, else the result is indeterminate; a Mul XORs the signs of
// its children, indeterminate if any child is. The result is nil for
// "indeterminate" (Rust's None), or a pointer to true/false.
func (e *StaticExpr[Tp, Tc, R]) IsPositive() *bool {
	switch e.kind {
	case staticNumber:
		b := e.num > 0
		return &b
	case staticPlaceholder:
		b := true
		return &b
	case staticAdd:
		var ret *bool
		for _, c := range e.children {
			b := c.IsPositive()
			if b == nil {
				return nil
			}
			if ret == nil {
				ret = b
			} else if *ret != *b {
				return nil
			}
		}
		return ret
	case staticMul:
		var ret *bool
		for _, c := range e.children {
			b := c.IsPositive()
			if b == nil {
				return nil
			}
			v := *b
			if ret != nil {
				v = v == *ret
			}
			ret = &v
		}
		return ret
	}
	panic("qubo: unreachable StaticExpr kind")
}

// FeedDict substitutes every Placeholder leaf found in dict with its
// Number value, leaving unmatched placeholders untouched.
func (e *StaticExpr[Tp, Tc, R]) FeedDict(dict map[Placeholder[Tp, Tc]]R) *StaticExpr[Tp, Tc, R] {
	switch e.kind {
	case staticPlaceholder:
		if v, ok := dict[e.ph]; ok {
			return SNumber[Tp, Tc, R](v)
		}
		return e.clone()
	case staticAdd, staticMul:
		children := make([]*StaticExpr[Tp, Tc, R], len(e.children))
		for i, c := range e.children {
			children[i] = c.FeedDict(dict)
		}
		return &StaticExpr[Tp, Tc, R]{kind: e.kind, children: children}
	default:
		return e.clone()
	}
}

// Calculate evaluates e to a real given a resolver mapping placeholder to
// value. Every placeholder must resolve to a non-negative value; this is
// asserted (panics) at evaluation time per spec.md §6.
func (e *StaticExpr[Tp, Tc, R]) Calculate(resolve func(Placeholder[Tp, Tc]) R) R {
	switch e.kind {
	case staticNumber:
		return e.num
	case staticPlaceholder:
		v := resolve(e.ph)
		if v < 0 {
			panic("qubo: placeholder value must be non-negative")
		}
		return v
	case staticAdd:
		var sum R
		for _, c := range e.children {
			sum += c.Calculate(resolve)
		}
		return sum
	case staticMul:
		prod := R(1)
		for _, c := range e.children {
			prod *= c.Calculate(resolve)
		}
		return prod
	}
	panic("qubo: unreachable StaticExpr kind")
}

// retagStaticExpr rebuilds e with every placeholder passed through f; used
// by CompiledModel.FeedDict to retarget Placeholder[Tp,Tc] to
// Placeholder[Unit,Tc] once every user placeholder has been resolved.
func retagStaticExpr[Tp Label[Tp], Tc Label[Tc], Tp2 Label[Tp2], R Real](
	e *StaticExpr[Tp, Tc, R], f func(Placeholder[Tp, Tc]) Placeholder[Tp2, Tc],
) *StaticExpr[Tp2, Tc, R] {
	switch e.kind {
	case staticNumber:
		return SNumber[Tp2, Tc, R](e.num)
	case staticPlaceholder:
		return SPlaceholder[Tp2, Tc, R](f(e.ph))
	default:
		children := make([]*StaticExpr[Tp2, Tc, R], len(e.children))
		for i, c := range e.children {
			children[i] = retagStaticExpr(c, f)
		}
		return &StaticExpr[Tp2, Tc, R]{kind: e.kind, children: children}
	}
}
