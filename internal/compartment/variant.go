package compartment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jmcastelo/SIRview/internal/dynamo"
)

var (
	ErrUnknownVariant  = errors.New("compartment: unknown model variant")
	ErrParameterCount  = errors.New("compartment: wrong number of parameters")
	ErrZeroDenominator = errors.New("compartment: zero denominator")
	ErrStateRange      = errors.New("compartment: initial state outside [0, 1]")
)

// Variant selects one vector field from the catalog.
type Variant int

const (
	SIR Variant = iota
	SIRS
	SEIR
	SEIRS
	SIRA
	SIRVD
	SIRSVD
	SEIRVD
	SEIRSVD
)

// Parameter describes one model parameter and its admissible range.
type Parameter struct {
	Name    string
	Long    string
	Min     float64
	Max     float64
	Default float64
}

// DeriveFunc writes dX/dt into dx. Time is measured in recovery times.
type DeriveFunc func(dx, x, p []float64)

// Definition is the registration record for one variant.
type Definition struct {
	Key          string
	Name         string
	Variables    []string
	Long         []string
	Parameters   []Parameter
	InitialState []float64
	Derive       DeriveFunc
}

var catalog = map[Variant]Definition{}

func register(v Variant, d Definition) {
	if _, dup := catalog[v]; dup {
		panic(fmt.Sprintf("compartment: variant %d registered twice", v))
	}
	if len(d.InitialState) != len(d.Variables) {
		panic(fmt.Sprintf("compartment: %s initial state has %d entries for %d variables", d.Key, len(d.InitialState), len(d.Variables)))
	}
	catalog[v] = d
}

func (v Variant) Definition() Definition {
	d, ok := catalog[v]
	if !ok {
		panic(fmt.Sprintf("compartment: variant %d not registered", v))
	}
	return d
}

func (v Variant) Valid() bool {
	_, ok := catalog[v]
	return ok
}

func (v Variant) String() string {
	if d, ok := catalog[v]; ok {
		return d.Name
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

func (v Variant) Key() string { return v.Definition().Key }

func (v Variant) Dim() int { return len(v.Definition().Variables) }

func (v Variant) ParamCount() int { return len(v.Definition().Parameters) }

func (v Variant) Variables() []string {
	return append([]string(nil), v.Definition().Variables...)
}

func (v Variant) Parameters() []Parameter {
	return append([]Parameter(nil), v.Definition().Parameters...)
}

// DefaultParams returns the catalog starting values.
func (v Variant) DefaultParams() []float64 {
	ps := v.Definition().Parameters
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.Default
	}
	return out
}

func (v Variant) InitialState() dynamo.State {
	return dynamo.State(v.Definition().InitialState).Clone()
}

// Index returns the position of a variable by short name, or -1.
func (v Variant) Index(variable string) int {
	for i, name := range v.Definition().Variables {
		if name == variable {
			return i
		}
	}
	return -1
}

// ValidateState checks an initial condition: right length, every fraction in [0, 1].
func (v Variant) ValidateState(x dynamo.State) error {
	if len(x) != v.Dim() {
		return fmt.Errorf("%s: got %d components, want %d: %w", v, len(x), v.Dim(), dynamo.ErrDimensionMismatch)
	}
	if !x.IsValid() {
		return dynamo.ErrInvalidState
	}
	for i, c := range x {
		if c < 0 || c > 1 {
			return fmt.Errorf("%s=%g: %w", v.Definition().Variables[i], c, ErrStateRange)
		}
	}
	return nil
}

// Parse looks a variant up by its key.
func Parse(key string) (Variant, error) {
	for v, d := range catalog {
		if d.Key == key {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownVariant, key)
}

// Variants lists the catalog in declaration order.
func Variants() []Variant {
	out := make([]Variant, 0, len(catalog))
	for v := range catalog {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Keys lists the catalog keys in declaration order.
func Keys() []string {
	vs := Variants()
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Key()
	}
	return out
}
