package compartment

var (
	seirVariables = []string{"S", "E", "I", "R"}
	seirLong      = []string{"Susceptible", "Exposed", "Infected", "Recovered"}
	seirInitial   = []float64{1 - 1e-7, 0, 1e-7, 0}

	incubation = Parameter{Name: "a", Long: "Incubation rate", Min: 0, Max: 5, Default: 0.1}
)

func init() {
	register(SEIR, Definition{
		Key:          "seir",
		Name:         "SEIR",
		Variables:    seirVariables,
		Long:         seirLong,
		Parameters:   []Parameter{reproduction, incubation},
		InitialState: seirInitial,
		Derive: func(dx, x, p []float64) {
			s, e, i := x[0], x[1], x[2]
			force := p[0] * s * i
			dx[0] = -force
			dx[1] = force - p[1]*e
			dx[2] = p[1]*e - i
			dx[3] = i
		},
	})

	register(SEIRS, Definition{
		Key:          "seirs",
		Name:         "SEIRS",
		Variables:    seirVariables,
		Long:         seirLong,
		Parameters:   []Parameter{reproduction, incubation, waning},
		InitialState: seirInitial,
		Derive: func(dx, x, p []float64) {
			s, e, i, r := x[0], x[1], x[2], x[3]
			force := p[0] * s * i
			dx[0] = p[2]*r - force
			dx[1] = force - p[1]*e
			dx[2] = p[1]*e - i
			dx[3] = i - p[2]*r
		},
	})

	register(SEIRVD, Definition{
		Key:          "seir-vd",
		Name:         "SEIR + Vital dynamics",
		Variables:    seirVariables,
		Long:         seirLong,
		Parameters:   []Parameter{reproduction, incubation, vital},
		InitialState: seirInitial,
		Derive: func(dx, x, p []float64) {
			s, e, i, r := x[0], x[1], x[2], x[3]
			force := p[0] * s * i
			dx[0] = p[2]*(1-s) - force
			dx[1] = force - (p[1]+p[2])*e
			dx[2] = p[1]*e - (1+p[2])*i
			dx[3] = i - p[2]*r
		},
	})

	register(SEIRSVD, Definition{
		Key:          "seirs-vd",
		Name:         "SEIRS + Vital dynamics",
		Variables:    seirVariables,
		Long:         seirLong,
		Parameters:   []Parameter{reproduction, incubation, waning, vital},
		InitialState: seirInitial,
		Derive: func(dx, x, p []float64) {
			s, e, i, r := x[0], x[1], x[2], x[3]
			force := p[0] * s * i
			dx[0] = p[2]*r + p[3]*(1-s) - force
			dx[1] = force - (p[1]+p[3])*e
			dx[2] = p[1]*e - (1+p[3])*i
			dx[3] = i - (p[2]+p[3])*r
		},
	})
}
