package experiment

import (
	"github.com/jmcastelo/SIRview/internal/compartment"
	"github.com/jmcastelo/SIRview/internal/config"
	"github.com/jmcastelo/SIRview/internal/dynamo"
	"github.com/jmcastelo/SIRview/internal/integrators"
	"github.com/jmcastelo/SIRview/internal/metrics"
)

// Registry resolves the names used in scenario files.
type Registry struct{}

func NewRegistry() *Registry { return &Registry{} }

func (r *Registry) GetModel(name string) (compartment.Variant, error) {
	return compartment.Parse(name)
}

func (r *Registry) GetIntegrator(cfg *config.Config) (dynamo.Integrator, error) {
	return integrators.New(cfg.Integrator, integrators.Options{
		AbsTol:      cfg.AbsTol,
		RelTol:      cfg.RelTol,
		InitialStep: cfg.InitialStep,
	})
}

func (r *Registry) ListModels() []string { return compartment.Keys() }

func (r *Registry) ListIntegrators() []string { return integrators.Names() }

// DefaultMetrics picks the epidemic metrics for a variant's layout.
func (r *Registry) DefaultMetrics(v compartment.Variant) []dynamo.Metric {
	ms := metrics.Epidemic(v.Index("I"), v.Index("S"))
	return append(ms, metrics.NewOverload("time_over_10pct", v.Index("I"), 0.1))
}
