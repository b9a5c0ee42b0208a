package integrators

// Options configures the trajectory drivers.
type Options struct {
	AbsTol      float64
	RelTol      float64
	InitialStep float64
	// MinStep bounds how far a rejected step may shrink.
	MinStep float64
	// MaxStep caps step growth once the error estimate stops limiting it,
	// as it does for a component decaying far below AbsTol.
	MaxStep  float64
	MaxSteps int
}

func DefaultOptions() Options {
	return Options{
		AbsTol:      1e-10,
		RelTol:      1e-6,
		InitialStep: 0.01,
		MinStep:     1e-12,
		MaxStep:     1.0,
		MaxSteps:    1_000_000,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.AbsTol <= 0 {
		o.AbsTol = d.AbsTol
	}
	if o.RelTol <= 0 {
		o.RelTol = d.RelTol
	}
	if o.InitialStep <= 0 {
		o.InitialStep = d.InitialStep
	}
	if o.MinStep <= 0 {
		o.MinStep = d.MinStep
	}
	if o.MaxStep <= 0 {
		o.MaxStep = d.MaxStep
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = d.MaxSteps
	}
	return o
}
