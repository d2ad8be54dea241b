package valuation

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"storage-valuation/internal/model"
	"storage-valuation/internal/policy"
	"storage-valuation/internal/risk"
	"storage-valuation/internal/simulate"
)

// Engine drives num_paths independent simulate-then-optimize computations and
// aggregates the per-path values into a single Result. Paths share no mutable
// state: every worker writes only its own slot of the results slice, and the
// final aggregation is the single synchronization point.
type Engine struct {
	contract model.StorageContract
	cfg      model.SimulationConfig
	pol      policy.Policy

	workers int

	// maxInfeasibleFraction is the infeasible-path share above which the run
	// fails instead of degrading. At the default of 1.0 a run only fails when
	// fewer than two feasible path values remain.
	maxInfeasibleFraction float64

	keepDistribution bool
	log              zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the number of parallel path workers.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithMaxInfeasibleFraction lowers the tolerated share of infeasible paths.
func WithMaxInfeasibleFraction(f float64) Option {
	return func(e *Engine) {
		if f >= 0 && f <= 1 {
			e.maxInfeasibleFraction = f
		}
	}
}

// WithDistribution keeps the sorted path values on the Result.
func WithDistribution() Option {
	return func(e *Engine) { e.keepDistribution = true }
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New validates the contract and simulation config up front; nothing is
// simulated when either is invalid.
func New(contract model.StorageContract, cfg model.SimulationConfig, pol policy.Policy, opts ...Option) (*Engine, error) {
	if err := contract.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if pol == nil {
		return nil, &model.ConfigurationError{Field: "policy", Reason: "must not be nil"}
	}
	e := &Engine{
		contract:              contract,
		cfg:                   cfg,
		pol:                   pol,
		workers:               runtime.NumCPU(),
		maxInfeasibleFraction: 1.0,
		log:                   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

type pathSlot struct {
	done      bool
	value     float64
	penalized bool
	err       error
}

// Run values the contract. Cancellation is checked between paths, never
// inside a path's dynamic program; on cancellation the result covers the
// paths that completed and is marked Partial.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	sim, err := simulate.New(e.cfg)
	if err != nil {
		return nil, err
	}

	n := e.cfg.NumPaths
	slots := make([]pathSlot, n)

	workers := e.workers
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				res, err := e.pol.Evaluate(sim.Path(idx), e.contract)
				if err != nil {
					slots[idx] = pathSlot{done: true, err: err}
					continue
				}
				slots[idx] = pathSlot{
					done:      true,
					value:     res.Value,
					penalized: res.Outcome == model.OutcomePenalized,
				}
			}
		}()
	}

	cancelled := false
dispatch:
	for idx := 0; idx < n; idx++ {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		select {
		case <-ctx.Done():
			cancelled = true
			break dispatch
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	// Aggregate in path-index order so the result is bit-for-bit identical
	// regardless of worker scheduling.
	values := make([]float64, 0, n)
	completed := 0
	infeasible := 0
	penalized := 0
	for idx := range slots {
		s := slots[idx]
		if !s.done {
			continue
		}
		completed++
		if s.err != nil {
			var infErr *model.InfeasibleContractError
			if errors.As(s.err, &infErr) {
				infeasible++
				continue
			}
			return nil, fmt.Errorf("path %d: %w", idx, s.err)
		}
		if s.penalized {
			penalized++
		}
		values = append(values, s.value)
	}

	if completed > 0 {
		frac := float64(infeasible) / float64(completed)
		if frac > e.maxInfeasibleFraction {
			return nil, &model.ValuationError{
				Reason: fmt.Sprintf("%d of %d paths infeasible (limit %.0f%%)", infeasible, completed, e.maxInfeasibleFraction*100),
			}
		}
	}
	if len(values) < 2 {
		return nil, &model.ValuationError{
			Reason: fmt.Sprintf("only %d valid path values (%d infeasible, %d completed of %d)", len(values), infeasible, completed, n),
		}
	}

	metrics, err := risk.Compute(values, e.cfg.ConfidenceLevel)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Metrics:         metrics,
		NumPaths:        len(values),
		ConfidenceLevel: e.cfg.ConfidenceLevel,
		Policy:          e.pol.Name(),
		Seed:            sim.Seed(),
		InfeasiblePaths: infeasible,
		PenalizedPaths:  penalized,
		Partial:         cancelled,
		Summary:         risk.Summarize(values),
	}
	if e.keepDistribution {
		dist := make([]float64, len(values))
		copy(dist, values)
		sort.Float64s(dist)
		result.Distribution = dist
	}

	e.log.Info().
		Str("policy", e.pol.Name()).
		Int("paths", len(values)).
		Int("infeasible", infeasible).
		Int("penalized", penalized).
		Bool("partial", cancelled).
		Float64("mean_value", metrics.MeanValue).
		Float64("value_at_risk", metrics.ValueAtRisk).
		Msg("valuation complete")

	return result, nil
}
