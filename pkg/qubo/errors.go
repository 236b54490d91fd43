package qubo

import "errors"

// Sentinel errors returned (directly, or wrapped with fmt.Errorf's %w) by
// the compilation and solving pipeline; see spec.md §7, "Error Handling
// Design". Callers should use errors.Is against these rather than string
// matching.
var (
	// ErrNegativePlaceholder is returned when a placeholder is fed a
	// negative value via FeedDict; spec.md §6 requires every placeholder
	// to resolve to a non-negative real.
	ErrNegativePlaceholder = errors.New("qubo: placeholder value must be non-negative")

	// ErrMissingQubit is returned when a qubit referenced by a compiled
	// term is absent from the index supplied to GenerateQubo.
	ErrMissingQubit = errors.New("qubo: qubit missing from index")

	// ErrReductionStalled is returned when order reduction cannot bring
	// every term to degree <= 2 (spec.md §4.4): either the configured
	// iteration budget was exhausted, or a term has indeterminate sign
	// and no further gadget applies.
	ErrReductionStalled = errors.New("qubo: order reduction stalled")

	// ErrUnresolvedPlaceholder is returned by CompiledModel.FeedDict when
	// the model still mentions a user placeholder that its dict does not
	// resolve.
	ErrUnresolvedPlaceholder = errors.New("qubo: unresolved placeholder")

	// ErrEmptyModel is returned by CompiledModel.GenerateQubo and
	// SimpleSolver.Solve for a model with no qubits; Compile itself accepts
	// such a model.
	ErrEmptyModel = errors.New("qubo: model has no qubits")
)
