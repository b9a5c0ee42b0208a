package analysis

import (
	"context"
	"fmt"

	"github.com/jmcastelo/SIRview/internal/compartment"
	"github.com/jmcastelo/SIRview/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// SweepPoint is the outcome of one parameter value.
type SweepPoint struct {
	Param float64
	Peak  float64
	Final float64
}

// SweepSpec varies one parameter of a variant over [Min, Max] in Steps
// values, recording the peak and final value of compartment Index.
type SweepSpec struct {
	Variant compartment.Variant
	Params  []float64
	Param   int
	Min     float64
	Max     float64
	Steps   int
	Index   int
	X0      dynamo.State
	TimeEnd float64
}

// ParameterSweep is the epidemic analogue of a bifurcation diagram: with R0
// swept it shows the outbreak threshold at R0 = 1.
func ParameterSweep(ctx context.Context, ens *dynamo.Ensemble, spec SweepSpec) ([]SweepPoint, error) {
	if spec.Params == nil {
		spec.Params = spec.Variant.DefaultParams()
	}
	if spec.Param < 0 || spec.Param >= len(spec.Params) {
		return nil, fmt.Errorf("sweep parameter %d of %d: %w", spec.Param, len(spec.Params), compartment.ErrParameterCount)
	}
	if spec.Index < 0 || spec.Index >= spec.Variant.Dim() {
		return nil, fmt.Errorf("sweep index %d: %w", spec.Index, dynamo.ErrDimensionMismatch)
	}
	if spec.X0 == nil {
		spec.X0 = spec.Variant.InitialState()
	}
	steps := spec.Steps
	if steps <= 1 {
		steps = 2
	}
	values := floats.Span(make([]float64, steps), spec.Min, spec.Max)

	runs := make([]dynamo.Run, steps)
	for i := range runs {
		params := append([]float64(nil), spec.Params...)
		params[spec.Param] = values[i]

		field, err := compartment.NewField(spec.Variant, params)
		if err != nil {
			return nil, err
		}
		runs[i] = dynamo.Run{System: field, X0: spec.X0, T0: 0, T1: spec.TimeEnd}
	}

	trs, err := ens.Run(ctx, runs)
	if err != nil {
		return nil, err
	}

	out := make([]SweepPoint, steps)
	for i, tr := range trs {
		out[i] = SweepPoint{
			Param: values[i],
			Peak:  floats.Max(tr.Component(spec.Index)),
			Final: tr.Final()[spec.Index],
		}
	}
	return out, nil
}
