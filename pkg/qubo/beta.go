package qubo

import "math"

// betaKind discriminates the three BetaSchedule variants of spec.md §4.6 /
// original_source/classical_solver/src/beta.rs's BetaType.
type betaKind uint8

const (
	betaExplicit betaKind = iota
	betaCount
	betaCountRange
)

// BetaSchedule describes how the annealer's inverse-temperature sequence
// is produced. Use ExplicitBetaSchedule for a caller-supplied sequence,
// CountBetaSchedule to auto-derive a geometric range of the given length
// from the model's own weights, or CountRangeBetaSchedule to
// pin the endpoints explicitly while still choosing the number of steps.
type BetaSchedule struct {
	kind     betaKind
	explicit []float64
	count    int
	min, max float64
}

// ExplicitBetaSchedule uses betas verbatim, in order, as the sweep
// schedule.
func ExplicitBetaSchedule(betas []float64) BetaSchedule {
	return BetaSchedule{kind: betaExplicit, explicit: append([]float64(nil), betas...)}
}

// CountBetaSchedule auto-derives beta_min and beta_max from the model's
// own weights (see generateBetaRange), then produces a geometric
// progression of the given number of steps between them.
func CountBetaSchedule(count int) BetaSchedule {
	return BetaSchedule{kind: betaCount, count: count}
}

// CountRangeBetaSchedule produces a geometric progression of count steps
// from min to max (both inverse temperatures, min < max).
func CountRangeBetaSchedule(min, max float64, count int) BetaSchedule {
	return BetaSchedule{kind: betaCountRange, min: min, max: max, count: count}
}

// generate builds the concrete sequence of betas this schedule describes.
// sampler is only invoked for the Count variant, to auto-derive the
// min/max endpoints from the model's actual energy landscape.
func (b BetaSchedule) generate(sampler func() (min, max float64)) []float64 {
	switch b.kind {
	case betaExplicit:
		return append([]float64(nil), b.explicit...)
	case betaCountRange:
		return geometricRange(b.min, b.max, b.count)
	case betaCount:
		min, max := sampler()
		return geometricRange(min, max, b.count)
	}
	panic("qubo: unreachable BetaSchedule kind")
}

// geometricRange produces count betas forming a geometric progression
// from min to max inclusive (count == 1 yields just [min]).
func geometricRange(min, max float64, count int) []float64 {
	if count <= 1 {
		return []float64{min}
	}
	out := make([]float64, count)
	logMin, logMax := math.Log(min), math.Log(max)
	step := (logMax - logMin) / float64(count-1)
	for i := 0; i < count; i++ {
		out[i] = math.Exp(logMin + step*float64(i))
	}
	return out
}

// generateBetaRange computes (beta_min, beta_max) deterministically from
// model's own weights (spec.md §4.6; original_source/classical_solver/
// src/beta.rs's generate_beta_range): eg_min is the largest absolute
// weight over every term (Prods), eg_max is the largest per-qubit
// absolute local field (the diagonal weight plus every neighbor's
// absolute off-diagonal weight). beta_min is then ln(2)/eg_max and
// beta_max is ln(100)/eg_min, so that the largest energy delta is
// accepted with probability ~1/2 at the start of the schedule and the
// smallest is accepted with probability ~1/100 by the end. An empty
// model (no qubits) falls back to (1, 10).
func generateBetaRange[R Real](model *QuadraticModel[R]) (min, max float64) {
	n := model.Size()
	if n == 0 {
		return 1, 10
	}
	var egMin, egMax float64
	model.Prods(func(w Weight[R]) bool {
		if a := math.Abs(asF64(w.W)); a > egMin {
			egMin = a
		}
		return true
	})
	for u := 0; u < n; u++ {
		sum := math.Abs(asF64(model.GetWeight(u, u)))
		model.Neighbors(u, func(_ int, w R) bool {
			sum += math.Abs(asF64(w))
			return true
		})
		if sum > egMax {
			egMax = sum
		}
	}
	return math.Log(2) / egMax, math.Log(100) / egMin
}
