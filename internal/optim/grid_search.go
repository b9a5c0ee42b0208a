package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/jmcastelo/SIRview/internal/config"
	"github.com/jmcastelo/SIRview/internal/dynamo"
	"github.com/jmcastelo/SIRview/internal/experiment"
)

var ErrNoFeasible = errors.New("optim: no feasible candidate")

// GridSearch tries every combination of candidate values for the
// parameters of one section and keeps the one minimizing a metric.
type GridSearch struct {
	section int
	ranges  [][]float64
	workers int
	log     *zap.Logger
}

// NewGridSearch searches section's parameters; ranges[p] lists the values
// tried for parameter p.
func NewGridSearch(section int, ranges [][]float64, logger *zap.Logger) *GridSearch {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GridSearch{section: section, ranges: ranges, log: logger}
}

func (g *GridSearch) SetWorkers(n int) { g.workers = n }

// Linspace is n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

// Search evaluates every candidate on a copy of base. Candidates whose
// scenario cannot be built are skipped.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) ([]float64, float64, error) {
	if g.section < 0 || g.section >= len(base.Sections) {
		return nil, 0, fmt.Errorf("section %d of %d", g.section, len(base.Sections))
	}

	var candidates [][]float64
	g.enumerate(0, nil, &candidates)

	values := make([]float64, len(candidates))
	err := dynamo.ParallelFor(ctx, len(candidates), g.workers, func(ctx context.Context, i int) error {
		cfg := base.Clone()
		cfg.Sections[g.section].Params = candidates[i]

		values[i] = math.Inf(1)
		res, err := experiment.New(fmt.Sprintf("candidate-%d", i), cfg, nil).Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			g.log.Debug("candidate skipped", zap.Float64s("params", candidates[i]), zap.Error(err))
			return nil
		}
		v, ok := res.Metrics[metricName]
		if !ok {
			return fmt.Errorf("unknown metric %q", metricName)
		}
		values[i] = v
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	best, bestIdx := math.Inf(1), -1
	for i, v := range values {
		if v < best {
			best, bestIdx = v, i
		}
	}
	if bestIdx < 0 {
		return nil, 0, ErrNoFeasible
	}
	g.log.Info("grid search done",
		zap.Int("candidates", len(candidates)),
		zap.Float64s("best", candidates[bestIdx]),
		zap.Float64(metricName, best))
	return candidates[bestIdx], best, nil
}

func (g *GridSearch) enumerate(depth int, current []float64, out *[][]float64) {
	if depth == len(g.ranges) {
		*out = append(*out, append([]float64(nil), current...))
		return
	}
	for _, val := range g.ranges[depth] {
		g.enumerate(depth+1, append(current, val), out)
	}
}
