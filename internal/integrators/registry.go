package integrators

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jmcastelo/SIRview/internal/dynamo"
)

var ErrUnknownIntegrator = errors.New("integrators: unknown integrator")

var registry = map[string]func(Options) dynamo.Integrator{
	"dopri5": func(o Options) dynamo.Integrator { return NewDOPRI5(o) },
	"rk4":    func(o Options) dynamo.Integrator { return NewRK4(o) },
}

// New builds the integrator registered under name.
func New(name string, opts Options) (dynamo.Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIntegrator, name)
	}
	return fn(opts), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
