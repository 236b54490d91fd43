package qubo

import "fmt"

// Label is the capability set spec.md's Design Notes (§9) calls
// "orderable hashable clone", required of qubit labels (Tq), placeholder
// ids (Tp) and constraint labels (Tc). Go values are implicitly cloned by
// assignment, so the set reduces to: usable as a map key, and totally
// ordered against values of the same type. The self-referential
// constraint (T must implement Label[T]) is the standard Go idiom for
// F-bounded generics; see Int and Str below for ready-made instances over
// the built-in ordered scalar types.
type Label[T any] interface {
	comparable
	Less(other T) bool
}

// Int adapts a plain int to Label[Int] for use as a qubit/placeholder/
// constraint label.
type Int int

// Less implements Label[Int].
func (a Int) Less(b Int) bool { return a < b }

// Str adapts a plain string to Label[Str] for use as a qubit/placeholder/
// constraint label.
type Str string

// Less implements Label[Str].
func (a Str) Less(b Str) bool { return a < b }

// Pair adapts a pair of Label values (e.g. a TSP (city, timeslot) index)
// to Label[Pair[A, B]], mirroring the TspQubit(usize, usize) tuple struct
// from original_source/tests/tsp_solve.rs.
type Pair[A, B comparable] struct {
	First  A
	Second B
}

// Less implements Label[Pair[A, B]] when A and B are themselves orderable
// via the supplied less functions is not possible generically without a
// constraint on A/B, so Pair compares its %v-formatted representation;
// callers needing a faster or more precise order should define their own
// label type instead.
func (p Pair[A, B]) Less(o Pair[A, B]) bool {
	if any(p.First) != any(o.First) {
		return fmt.Sprint(p.First) < fmt.Sprint(o.First)
	}
	return fmt.Sprint(p.Second) < fmt.Sprint(o.Second)
}

// Unit is the placeholder-id type used once a CompiledModel has had all of
// its user placeholders resolved by FeedDict (spec.md §6:
// "CompiledModel::feed_dict(map) -> CompiledModel<resolved>"). It mirrors
// Rust's `()` unit type in the same role: a Placeholder[Unit, Tc] can only
// meaningfully be a ConstraintPlaceholder.
type Unit struct{}

// Less implements Label[Unit]; Unit has exactly one value, so no ordering
// is possible or needed.
func (Unit) Less(Unit) bool { return false }

// Qubit is the tagged variant {Labeled(Tq), Ancilla(index)} from spec.md
// §3: either a caller-chosen label, or a process-generated ancilla index
// introduced during order reduction (§4.4). Ancillas are never visible to
// the caller; they only appear inside CompiledModel's internal bookkeeping.
type Qubit[Tq Label[Tq]] struct {
	ancilla bool
	label   Tq
	index   int
}

// Labeled wraps a caller-chosen qubit label.
func Labeled[Tq Label[Tq]](label Tq) Qubit[Tq] {
	return Qubit[Tq]{label: label}
}

// IsAncilla reports whether q is an ancilla qubit introduced by order
// reduction rather than a caller-chosen label.
func (q Qubit[Tq]) IsAncilla() bool { return q.ancilla }

// Label returns the caller-chosen label and true, or the zero value and
// false if q is an ancilla.
func (q Qubit[Tq]) Label() (Tq, bool) {
	if q.ancilla {
		var zero Tq
		return zero, false
	}
	return q.label, true
}

// String renders the qubit for debugging.
func (q Qubit[Tq]) String() string {
	if q.ancilla {
		return fmt.Sprintf("~%d", q.index)
	}
	return fmt.Sprintf("%v", q.label)
}

// Less implements Label[Qubit[Tq]]. Labeled qubits sort before ancillas;
// within each group, the natural order of the label or ancilla index
// applies. This ordering only affects enumeration order (the exact
// sequence matters for §4.3's subset enumeration, not the result), so any
// total order is correct as long as it's consistent and deterministic.
func (q Qubit[Tq]) Less(o Qubit[Tq]) bool {
	if q.ancilla != o.ancilla {
		return !q.ancilla
	}
	if q.ancilla {
		return q.index < o.index
	}
	return q.label.Less(o.label)
}

func ancillaQubit[Tq Label[Tq]](index int) Qubit[Tq] {
	return Qubit[Tq]{ancilla: true, index: index}
}

// Builder allocates ancilla qubit indices monotonically during order
// reduction (spec.md §3, "Lifecycles": "each reduction step that
// introduces ancilla ids is final").
type Builder[Tq Label[Tq]] struct {
	next int
}

// Ancilla allocates and returns a fresh ancilla qubit.
func (b *Builder[Tq]) Ancilla() Qubit[Tq] {
	q := ancillaQubit[Tq](b.next)
	b.next++
	return q
}

// Placeholder is the tagged variant {User(Tp), Constraint(Tc)} from
// spec.md §3: either a caller-declared scalar placeholder, or a
// constraint's own adaptive penalty weight (a constraint label doubles as
// a placeholder id so the solver loop can reweight it).
type Placeholder[Tp Label[Tp], Tc Label[Tc]] struct {
	isConstraint bool
	user         Tp
	constraint   Tc
}

// UserPlaceholder wraps a caller-declared placeholder id.
func UserPlaceholder[Tp Label[Tp], Tc Label[Tc]](p Tp) Placeholder[Tp, Tc] {
	return Placeholder[Tp, Tc]{user: p}
}

// ConstraintPlaceholder wraps a constraint label as its own placeholder.
func ConstraintPlaceholder[Tp Label[Tp], Tc Label[Tc]](c Tc) Placeholder[Tp, Tc] {
	return Placeholder[Tp, Tc]{isConstraint: true, constraint: c}
}

// IsConstraint reports whether this placeholder is a constraint's
// adaptive penalty weight rather than a caller-declared placeholder.
func (p Placeholder[Tp, Tc]) IsConstraint() bool { return p.isConstraint }

// User returns the wrapped user placeholder id and true, or the zero
// value and false if p wraps a constraint label instead.
func (p Placeholder[Tp, Tc]) User() (Tp, bool) {
	if p.isConstraint {
		var zero Tp
		return zero, false
	}
	return p.user, true
}

// Constraint returns the wrapped constraint label and true, or the zero
// value and false if p wraps a user placeholder instead.
func (p Placeholder[Tp, Tc]) Constraint() (Tc, bool) {
	if !p.isConstraint {
		var zero Tc
		return zero, false
	}
	return p.constraint, true
}

func (p Placeholder[Tp, Tc]) String() string {
	if p.isConstraint {
		return fmt.Sprintf("constraint(%v)", p.constraint)
	}
	return fmt.Sprintf("placeholder(%v)", p.user)
}

// Less implements Label[Placeholder[Tp, Tc]]; user placeholders sort
// before constraint placeholders.
func (p Placeholder[Tp, Tc]) Less(o Placeholder[Tp, Tc]) bool {
	if p.isConstraint != o.isConstraint {
		return !p.isConstraint
	}
	if p.isConstraint {
		return p.constraint.Less(o.constraint)
	}
	return p.user.Less(o.user)
}
