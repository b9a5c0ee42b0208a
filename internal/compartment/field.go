package compartment

import (
	"fmt"

	"github.com/jmcastelo/SIRview/internal/dynamo"
)

// Field binds a variant to a parameter vector. It implements dynamo.System.
type Field struct {
	variant Variant
	params  []float64
	derive  DeriveFunc
	dim     int
}

func NewField(v Variant, params []float64) (*Field, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}
	d := v.Definition()
	if len(params) != len(d.Parameters) {
		return nil, fmt.Errorf("%s takes %d parameters, got %d: %w", d.Name, len(d.Parameters), len(params), ErrParameterCount)
	}
	return &Field{
		variant: v,
		params:  append([]float64(nil), params...),
		derive:  d.Derive,
		dim:     len(d.Variables),
	}, nil
}

func (f *Field) Variant() Variant { return f.variant }

func (f *Field) StateDim() int { return f.dim }

func (f *Field) Params() []float64 { return append([]float64(nil), f.params...) }

func (f *Field) Derive(x dynamo.State, _ float64) dynamo.State {
	dx := make(dynamo.State, f.dim)
	f.derive(dx, x, f.params)
	return dx
}
