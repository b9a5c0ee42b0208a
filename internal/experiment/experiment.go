package experiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jmcastelo/SIRview/internal/compartment"
	"github.com/jmcastelo/SIRview/internal/config"
	"github.com/jmcastelo/SIRview/internal/dynamo"
	"github.com/jmcastelo/SIRview/internal/metrics"
	"github.com/jmcastelo/SIRview/internal/timeline"
)

// Result summarizes one scenario run.
type Result struct {
	Name       string
	Variant    compartment.Variant
	Integrator string
	Timeline   *timeline.Timeline
	Path       dynamo.Series
	Metrics    map[string]float64
}

type Experiment struct {
	name     string
	cfg      *config.Config
	registry *Registry
	log      *zap.Logger
}

func New(name string, cfg *config.Config, logger *zap.Logger) *Experiment {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Experiment{
		name:     name,
		cfg:      cfg,
		registry: NewRegistry(),
		log:      logger.With(zap.String("scenario", name)),
	}
}

// Build turns the scenario into a fully integrated timeline, replaying
// its sections through the same edits an interactive user would make.
func (e *Experiment) Build() (*timeline.Timeline, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	v, err := e.registry.GetModel(e.cfg.Model)
	if err != nil {
		return nil, err
	}
	integ, err := e.registry.GetIntegrator(e.cfg)
	if err != nil {
		return nil, err
	}

	opts := []timeline.Option{
		timeline.WithIntegrator(integ),
		timeline.WithLogger(e.log),
		timeline.WithDefaultEnd(e.cfg.Sections[0].End),
	}
	if e.cfg.InitialState != nil {
		opts = append(opts, timeline.WithInitialState(e.cfg.InitialState))
	}
	tl, err := timeline.New(v, opts...)
	if err != nil {
		return nil, err
	}

	for i, sc := range e.cfg.Sections {
		if i > 0 {
			if err := tl.AddSection(); err != nil {
				return nil, err
			}
			if err := tl.SetTimeStartValue(i, sc.Start); err != nil {
				return nil, fmt.Errorf("section %d: %w", i, err)
			}
			if err := tl.SetTimeEndValue(i, sc.End); err != nil {
				return nil, fmt.Errorf("section %d: %w", i, err)
			}
		}
		if sc.Params == nil {
			continue
		}
		if len(sc.Params) != v.ParamCount() {
			return nil, fmt.Errorf("section %d: %s takes %d parameters, got %d: %w", i, v, v.ParamCount(), len(sc.Params), compartment.ErrParameterCount)
		}
		for p, val := range sc.Params {
			if err := tl.SetParameterValue(i, p, val); err != nil {
				return nil, fmt.Errorf("section %d: %w", i, err)
			}
		}
	}

	e.log.Info("timeline built", zap.String("model", v.Key()), zap.Int("sections", tl.Len()))
	return tl, nil
}

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tl, err := e.Build()
	if err != nil {
		return nil, err
	}
	path, err := tl.Path()
	if err != nil {
		return nil, err
	}

	ms := e.registry.DefaultMetrics(tl.Variant())
	metrics.ObserveSeries(path, ms...)

	return &Result{
		Name:       e.name,
		Variant:    tl.Variant(),
		Integrator: e.cfg.Integrator,
		Timeline:   tl,
		Path:       path,
		Metrics:    metrics.Values(ms...),
	}, nil
}

// RunAll runs independent scenarios concurrently. Results keep input order.
func RunAll(ctx context.Context, names []string, cfgs []*config.Config, logger *zap.Logger) ([]*Result, error) {
	if len(names) != len(cfgs) {
		return nil, fmt.Errorf("%d names for %d scenarios", len(names), len(cfgs))
	}
	results := make([]*Result, len(cfgs))
	err := dynamo.ParallelFor(ctx, len(cfgs), 0, func(ctx context.Context, i int) error {
		res, err := New(names[i], cfgs[i], logger).Run(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", names[i], err)
		}
		results[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
