package dynamo

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Run is one independent initial value problem.
type Run struct {
	System System
	X0     State
	T0, T1 float64
}

// Ensemble integrates independent runs concurrently with one shared integrator.
type Ensemble struct {
	integrator Integrator
	workers    int
}

func NewEnsemble(integ Integrator, workers int) *Ensemble {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Ensemble{integrator: integ, workers: workers}
}

// Run returns one trajectory per run, in input order. The first failure
// cancels the remaining runs.
func (e *Ensemble) Run(ctx context.Context, runs []Run) ([]*Trajectory, error) {
	results := make([]*Trajectory, len(runs))
	err := ParallelFor(ctx, len(runs), e.workers, func(ctx context.Context, i int) error {
		tr, err := e.integrator.Integrate(runs[i].System, runs[i].X0, runs[i].T0, runs[i].T1)
		if err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}
		results[i] = tr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ParallelFor calls fn for every i in [0, n) with at most limit goroutines.
func ParallelFor(ctx context.Context, n, limit int, fn func(ctx context.Context, i int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%w: %v", ErrContextCanceled, err)
			}
			return fn(ctx, i)
		})
	}
	return g.Wait()
}
