package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/jmcastelo/SIRview/internal/compartment"
	"github.com/jmcastelo/SIRview/internal/config"
	"github.com/jmcastelo/SIRview/internal/dynamo"
	"github.com/jmcastelo/SIRview/internal/experiment"
)

// MonteCarloConfig perturbs every section parameter of Base by a uniform
// relative factor in [1-Spread, 1+Spread], clamped to the parameter range.
type MonteCarloConfig struct {
	Base      *config.Config
	Spread    float64
	NumTrials int
	Seed      int64
	Workers   int
}

type MonteCarloResult struct {
	TrialID int
	Params  [][]float64
	Metrics map[string]float64
}

// Summary describes one metric across trials.
type Summary struct {
	Metric string
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// RunMonteCarlo runs the perturbed trials concurrently. Trials are drawn up
// front so a seed always reproduces the same set.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, logger *zap.Logger) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("%w: %d trials", ErrBatchRun, cfg.NumTrials)
	}
	if cfg.Base == nil {
		return nil, fmt.Errorf("%w: no base scenario", ErrBatchRun)
	}
	if err := cfg.Base.Validate(); err != nil {
		return nil, err
	}
	v, err := compartment.Parse(cfg.Base.Model)
	if err != nil {
		return nil, err
	}
	base, err := resolvedParams(cfg.Base, v)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	trials := make([]*config.Config, cfg.NumTrials)
	for i := range trials {
		trial := cfg.Base.Clone()
		for s := range trial.Sections {
			trial.Sections[s].Params = perturb(rng, base[s], v.Parameters(), cfg.Spread)
		}
		trials[i] = trial
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("monte carlo", zap.String("model", v.Key()), zap.Int("trials", cfg.NumTrials), zap.Int64("seed", seed))

	results := make([]MonteCarloResult, cfg.NumTrials)
	err = dynamo.ParallelFor(ctx, cfg.NumTrials, cfg.Workers, func(ctx context.Context, i int) error {
		res, err := experiment.New(fmt.Sprintf("trial-%d", i), trials[i], logger).Run(ctx)
		if err != nil {
			return err
		}
		params := make([][]float64, len(trials[i].Sections))
		for s, sc := range trials[i].Sections {
			params[s] = sc.Params
		}
		results[i] = MonteCarloResult{TrialID: i, Params: params, Metrics: res.Metrics}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// resolvedParams fills in sections that continue their predecessor's
// parameters.
func resolvedParams(cfg *config.Config, v compartment.Variant) ([][]float64, error) {
	out := make([][]float64, len(cfg.Sections))
	prev := v.DefaultParams()
	for i, sc := range cfg.Sections {
		if sc.Params != nil {
			if len(sc.Params) != v.ParamCount() {
				return nil, fmt.Errorf("section %d: %s takes %d parameters, got %d: %w", i, v, v.ParamCount(), len(sc.Params), compartment.ErrParameterCount)
			}
			prev = sc.Params
		}
		out[i] = append([]float64(nil), prev...)
	}
	return out, nil
}

func perturb(rng *rand.Rand, params []float64, defs []compartment.Parameter, spread float64) []float64 {
	out := make([]float64, len(params))
	for p, x := range params {
		factor := 1 + (rng.Float64()*2-1)*spread
		out[p] = math.Min(math.Max(x*factor, defs[p].Min), defs[p].Max)
	}
	return out
}

// MonteCarloStats summarizes a metric across trials.
func MonteCarloStats(results []MonteCarloResult, metric string) (Summary, error) {
	xs := make([]float64, 0, len(results))
	for _, r := range results {
		x, ok := r.Metrics[metric]
		if !ok {
			return Summary{}, fmt.Errorf("trial %d has no metric %q", r.TrialID, metric)
		}
		xs = append(xs, x)
	}
	if len(xs) == 0 {
		return Summary{Metric: metric}, nil
	}

	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) == 1 {
		std = 0
	}
	return Summary{
		Metric: metric,
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
	}, nil
}
