package compartment

var (
	sirVariables = []string{"S", "I", "R"}
	sirLong      = []string{"Susceptible", "Infected", "Recovered"}
	sirInitial   = []float64{1 - 1e-7, 1e-7, 0}

	reproduction = Parameter{Name: "R0", Long: "Basic reproduction number", Min: 0, Max: 20, Default: 2.5}
	waning       = Parameter{Name: "w", Long: "Immunity loss rate", Min: 0, Max: 5, Default: 0.1}
	vital        = Parameter{Name: "m", Long: "Birth and death rate", Min: 0, Max: 5, Default: 0.1}
)

func init() {
	register(SIR, Definition{
		Key:          "sir",
		Name:         "SIR",
		Variables:    sirVariables,
		Long:         sirLong,
		Parameters:   []Parameter{reproduction},
		InitialState: sirInitial,
		Derive: func(dx, x, p []float64) {
			s, i := x[0], x[1]
			dx[0] = -p[0] * s * i
			dx[1] = (p[0]*s - 1) * i
			dx[2] = i
		},
	})

	register(SIRVD, Definition{
		Key:          "sir-vd",
		Name:         "SIR + Vital dynamics",
		Variables:    sirVariables,
		Long:         sirLong,
		Parameters:   []Parameter{reproduction, vital},
		InitialState: sirInitial,
		Derive: func(dx, x, p []float64) {
			s, i, r := x[0], x[1], x[2]
			dx[0] = p[1]*(1-s) - p[0]*s*i
			dx[1] = (p[0]*s - 1 - p[1]) * i
			dx[2] = i - p[1]*r
		},
	})

	register(SIRS, Definition{
		Key:          "sirs",
		Name:         "SIRS",
		Variables:    sirVariables,
		Long:         sirLong,
		Parameters:   []Parameter{reproduction, waning},
		InitialState: sirInitial,
		Derive: func(dx, x, p []float64) {
			s, i, r := x[0], x[1], x[2]
			dx[0] = p[1]*r - p[0]*s*i
			dx[1] = (p[0]*s - 1) * i
			dx[2] = i - p[1]*r
		},
	})

	register(SIRSVD, Definition{
		Key:          "sirs-vd",
		Name:         "SIRS + Vital dynamics",
		Variables:    sirVariables,
		Long:         sirLong,
		Parameters:   []Parameter{reproduction, waning, vital},
		InitialState: sirInitial,
		Derive: func(dx, x, p []float64) {
			s, i, r := x[0], x[1], x[2]
			dx[0] = p[1]*r + p[2]*(1-s) - p[0]*s*i
			dx[1] = (p[0]*s - 1 - p[2]) * i
			dx[2] = i - (p[1]+p[2])*r
		},
	})
}
