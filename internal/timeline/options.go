package timeline

import (
	"go.uber.org/zap"

	"github.com/jmcastelo/SIRview/internal/dynamo"
	"github.com/jmcastelo/SIRview/internal/integrators"
)

const (
	DefaultFloor     = 0.0
	DefaultCeiling   = 1000.0
	DefaultEnd       = 50.0
	DefaultIncrement = 10.0
)

type Option func(*Timeline)

func WithIntegrator(integ dynamo.Integrator) Option {
	return func(t *Timeline) { t.integ = integ }
}

func WithLogger(logger *zap.Logger) Option {
	return func(t *Timeline) { t.log = logger }
}

// WithLimits sets the time floor, the global ceiling and the step by which
// an end slider's ceiling grows.
func WithLimits(lim Limits) Option {
	return func(t *Timeline) { t.limits = lim }
}

// WithDefaultEnd sets the end time of the first section.
func WithDefaultEnd(end float64) Option {
	return func(t *Timeline) { t.defaultEnd = end }
}

func WithInitialState(x dynamo.State) Option {
	return func(t *Timeline) { t.initial = x.Clone() }
}

func defaults(t *Timeline) {
	t.integ = integrators.NewDOPRI5(integrators.DefaultOptions())
	t.log = zap.NewNop()
	t.limits = Limits{Floor: DefaultFloor, Ceiling: DefaultCeiling, Increment: DefaultIncrement}
	t.defaultEnd = DefaultEnd
}
