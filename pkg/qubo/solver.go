package qubo

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// SolverOptions configures SimpleSolver's adaptive outer loop (spec.md
// §4.7).
type SolverOptions struct {
	// Iterations is the number of adaptive-reweighting rounds to run.
	Iterations int
	// Generations is the number of annealing rounds per iteration; the
	// constraint weights are recomputed from the "points" tally at the
	// start of every generation, and the tally is reset at the start of
	// every iteration.
	Generations int
	// Samples is the number of independent annealing runs fanned out in
	// parallel per generation.
	Samples int
	// Beta is the inverse-temperature schedule each sample anneals
	// through.
	Beta BetaSchedule
	// InitialPoints seeds every constraint's adaptive weight counter
	// (default 10, per the original implementation's SimpleSolver).
	InitialPoints int
	// CoeffStrength scales each constraint's points share into a penalty
	// weight (default 50, per the original implementation's
	// coeff_strength).
	CoeffStrength float64
	// SweepsPerRound is how many full linear sweeps each beta in the
	// annealing schedule gets (default 30, per the original
	// implementation's sweeps_per_round).
	SweepsPerRound int
}

// SolverOption mutates SolverOptions.
type SolverOption func(*SolverOptions)

func defaultSolverOptions() SolverOptions {
	return SolverOptions{
		Iterations:     10,
		Generations:    10,
		Samples:        16,
		Beta:           CountBetaSchedule(32),
		InitialPoints:  10,
		CoeffStrength:  50,
		SweepsPerRound: 30,
	}
}

// WithIterations overrides the number of adaptive-reweighting rounds.
func WithIterations(n int) SolverOption { return func(o *SolverOptions) { o.Iterations = n } }

// WithGenerations overrides the number of annealing rounds per iteration.
func WithGenerations(n int) SolverOption { return func(o *SolverOptions) { o.Generations = n } }

// WithSamples overrides the number of parallel annealing runs per
// generation.
func WithSamples(n int) SolverOption { return func(o *SolverOptions) { o.Samples = n } }

// WithBetaSchedule overrides the inverse-temperature schedule.
func WithBetaSchedule(b BetaSchedule) SolverOption { return func(o *SolverOptions) { o.Beta = b } }

// WithInitialPoints overrides the adaptive weight counter's seed value.
func WithInitialPoints(n int) SolverOption { return func(o *SolverOptions) { o.InitialPoints = n } }

// WithCoeffStrength overrides the points-to-penalty scale factor.
func WithCoeffStrength(c float64) SolverOption {
	return func(o *SolverOptions) { o.CoeffStrength = c }
}

// WithSweepsPerRound overrides how many linear sweeps each beta gets.
func WithSweepsPerRound(n int) SolverOption { return func(o *SolverOptions) { o.SweepsPerRound = n } }

// SimpleSolver runs the adaptive simulated-annealing loop described in
// spec.md §4.7: anneal a batch of samples per generation, track how often
// each constraint goes unsatisfied via a "points" counter, reweight
// constraint penalties proportionally to their points share, and repeat
// until a feasible solution is found or the iteration budget is
// exhausted.
type SimpleSolver[Tq Label[Tq], Tc Label[Tc], R Real] struct {
	model *CompiledModel[Unit, Tq, Tc, R]
	opts  SolverOptions
}

// NewSimpleSolver builds a solver over a fully user-resolved model (i.e.
// one CompiledModel.FeedDict has already produced).
func NewSimpleSolver[Tq Label[Tq], Tc Label[Tc], R Real](
	model *CompiledModel[Unit, Tq, Tc, R], opts ...SolverOption,
) *SimpleSolver[Tq, Tc, R] {
	o := defaultSolverOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &SimpleSolver[Tq, Tc, R]{model: model, opts: o}
}

// Solve runs the adaptive loop and returns a view over the best solution
// observed across every iteration (spec.md §4.7, step 3). It never fails
// for want of a feasible solution -- the adaptive reweighting is a
// best-effort heuristic, not a guarantee -- it only errors on a cancelled
// context or a malformed model.
func (s *SimpleSolver[Tq, Tc, R]) Solve(ctx context.Context) (*SolutionView[Unit, Tq, Tc, R], error) {
	qubits := s.model.GetQubits()
	if len(qubits) == 0 {
		return nil, ErrEmptyModel
	}
	index := make(map[Qubit[Tq]]int, len(qubits))
	for i, q := range qubits {
		index[q] = i
	}

	constraints := s.model.Constraints()
	coeffStrength := fromF64[R](s.opts.CoeffStrength)

	log := Logger()
	var globalBest *SingleSolution[R]
	var globalBestOffset R
	globalBestFeasible := false

	for iter := 0; iter < s.opts.Iterations; iter++ {
		// points and size are reset at the start of every outer
		// iteration (original_source/src/solve.rs's phdict/size; spec.md
		// §4.7 step 1), as is the per-iteration best tracked below.
		points := make(map[Tc]int, len(constraints))
		size := 0
		for _, c := range constraints {
			points[c.Label] = s.opts.InitialPoints
			size += s.opts.InitialPoints
		}

		var iterBest *SingleSolution[R]
		var iterBestOffset R
		iterBestFeasible := false

		for gen := 0; gen < s.opts.Generations; gen++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			weights := constraintWeights[Tc, R](points, size, coeffStrength)
			resolved := s.model.FeedConstraintWeights(weights)
			offset, quad, err := resolved.GenerateQubo(qubits, func(p Placeholder[Unit, Tc]) R {
				panic(fmt.Sprintf("qubo: unresolved placeholder %v reached GenerateQubo", p))
			})
			if err != nil {
				return nil, err
			}

			samples, err := s.anneal(ctx, quad)
			if err != nil {
				return nil, err
			}

			genBest := bestOf(samples)
			unsatisfied := s.model.GetUnsatisfiedConstraints(index, genBest.State)
			feasible := len(unsatisfied) == 0

			log.Debug().Int("iteration", iter).Int("generation", gen).
				Float64("energy", asF64(genBest.Energy+offset)).
				Int("unsatisfied", len(unsatisfied)).Msg("generation complete")

			// Points only accrue, and a new best is only recorded, when
			// this generation strictly improves on the iteration's own
			// best so far (original_source/src/solve.rs: "if old_energy
			// <= energy { continue }").
			if iterBest != nil && genBest.Energy >= iterBest.Energy {
				continue
			}
			iterBest, iterBestOffset, iterBestFeasible = genBest, offset, feasible

			if globalBest == nil || iterBest.Energy+iterBestOffset < globalBest.Energy+globalBestOffset {
				globalBest, globalBestOffset, globalBestFeasible = iterBest, iterBestOffset, iterBestFeasible
			}

			for _, label := range unsatisfied {
				points[label]++
				size++
			}

			if feasible {
				log.Info().Int("iteration", iter).Int("generation", gen).
					Msg("feasible solution found, stopping early")
				break
			}
		}
		if iterBestFeasible {
			break
		}
	}

	result := *globalBest
	result.Energy += globalBestOffset
	return NewSolutionView[Unit, Tq, Tc, R](s.model, result), nil
}

// anneal fans s.opts.Samples independent annealing runs out across
// goroutines via errgroup, each seeded from its own crypto/rand-derived
// PRNG (spec.md §5, Concurrency & Resource Model).
func (s *SimpleSolver[Tq, Tc, R]) anneal(ctx context.Context, quad *QuadraticModel[R]) ([]SingleSolution[R], error) {
	results := make([]annealResult[R], s.opts.Samples)
	g, _ := errgroup.WithContext(ctx)
	for i := 0; i < s.opts.Samples; i++ {
		i := i
		g.Go(func() error {
			rng := newXorshiftRNG()
			schedule := s.opts.Beta.generate(func() (float64, float64) {
				return generateBetaRange(quad)
			})
			results[i] = simulatedAnneal(quad, schedule, s.opts.SweepsPerRound, rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tallyOccurrences(results), nil
}

// tallyOccurrences folds identical-assignment samples together, counting
// how many times each distinct bit pattern occurred (spec.md §3,
// SingleSolution.occurrences).
func tallyOccurrences[R Real](results []annealResult[R]) []SingleSolution[R] {
	index := map[string]int{}
	var out []SingleSolution[R]
	for _, r := range results {
		key := bitStateKey(r.state)
		if i, ok := index[key]; ok {
			out[i].Occurrences++
			continue
		}
		index[key] = len(out)
		out = append(out, SingleSolution[R]{State: r.state, Energy: r.energy, Occurrences: 1})
	}
	return out
}

func bitStateKey(s *BitState) string {
	return string(s.bytes)
}

// bestOf returns the lowest-energy solution among samples.
func bestOf[R Real](samples []SingleSolution[R]) *SingleSolution[R] {
	best := &samples[0]
	for i := 1; i < len(samples); i++ {
		if samples[i].Energy < best.Energy {
			best = &samples[i]
		}
	}
	return best
}

// constraintWeights derives each constraint's adaptive penalty weight
// from its points share of the total (spec.md §4.7, original_source/src/
// solve.rs): weight = (points / size) * coeffStrength, where size is the
// sum of every constraint's points this iteration. This grows a
// constraint's influence on the objective the more often it goes
// unsatisfied, without ever fully silencing a constraint that's
// momentarily easy to satisfy.
func constraintWeights[Tc Label[Tc], R Real](points map[Tc]int, size int, coeffStrength R) map[Tc]R {
	out := make(map[Tc]R, len(points))
	for label, p := range points {
		out[label] = R(p) / R(size) * coeffStrength
	}
	return out
}
