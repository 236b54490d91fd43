// Package qubo compiles symbolic polynomial expressions over boolean and
// spin variables, with soft constraints and scalar placeholders, into a
// Quadratic Unconstrained Binary Optimization (QUBO) problem, then searches
// for a low-energy assignment with a constraint-aware simulated annealing
// loop.
package qubo

import "math"

// Real is the scalar type used for weights, placeholder values and
// energies throughout the package. Callers may use any of the built-in
// signed integer or floating point types; Real is implemented for all of
// them below. The package itself is generic over Real so a caller can pick
// the numeric precision that fits their problem.
type Real interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int | ~float32 | ~float64
}

// isFloat reports whether R is a floating point type. It and the helpers
// below cover the handful of operations that don't fall out of Go's
// arithmetic operators for a type-parameterized Real (NaN detection,
// finiteness, and the integer/float MIN-MAX split): these need conditional
// logic keyed on the concrete kind, which operators alone can't express
// generically.
func isFloat[R Real]() bool {
	var z R
	switch any(z).(type) {
	case float32, float64:
		return true
	default:
		return false
	}
}

// fromF64 converts a float64 into R, rounding toward zero for integer R.
func fromF64[R Real](f float64) R {
	return R(f)
}

// asF64 converts an R into float64.
func asF64[R Real](r R) float64 {
	return float64(r)
}

// absR returns the absolute value of r.
func absR[R Real](r R) R {
	if r < 0 {
		return -r
	}
	return r
}

// maxR returns the larger of a and b.
func maxR[R Real](a, b R) R {
	if a > b {
		return a
	}
	return b
}

// minR returns the smaller of a and b.
func minR[R Real](a, b R) R {
	if a < b {
		return a
	}
	return b
}

// isNaNR reports whether r is NaN. Integer Real types can never be NaN, so
// nanOr below is how the package spells "NaN, or this fallback for integer
// types" per spec.md §6.
func isNaNR[R Real](r R) bool {
	if !isFloat[R]() {
		return false
	}
	return asF64(r) != asF64(r)
}

// isFiniteR reports whether r is neither NaN nor +/-Inf.
func isFiniteR[R Real](r R) bool {
	if !isFloat[R]() {
		return true
	}
	f := asF64(r)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// nanOrR returns NaN for floating point R, or other for integer R. This
// mirrors rustqubo's `Real::nan_or`. No code in this package calls it;
// generateBetaRange in beta.go seeds its maxima with 0 in float64 instead.
func nanOrR[R Real](other R) R {
	if isFloat[R]() {
		return fromF64[R](math.NaN())
	}
	return other
}

// maxValueR and minValueR return the maximum/minimum representable value
// of R, used as +/-infinity stand-ins (spec.md §6's Real::MAX/MIN).
func maxValueR[R Real]() R {
	var z R
	switch any(z).(type) {
	case int8:
		return R(math.MaxInt8)
	case int16:
		return R(math.MaxInt16)
	case int32:
		return R(math.MaxInt32)
	case int64:
		return R(math.MaxInt64)
	case int:
		return R(math.MaxInt)
	case float32:
		return R(math.MaxFloat32)
	case float64:
		return R(math.MaxFloat64)
	}
	panic("qubo: unreachable Real kind")
}

func minValueR[R Real]() R {
	var z R
	switch any(z).(type) {
	case int8:
		return R(math.MinInt8)
	case int16:
		return R(math.MinInt16)
	case int32:
		return R(math.MinInt32)
	case int64:
		return R(math.MinInt64)
	case int:
		return R(math.MinInt)
	case float32:
		return R(-math.MaxFloat32)
	case float64:
		return R(-math.MaxFloat64)
	}
	panic("qubo: unreachable Real kind")
}
