package compartment

import (
	"fmt"

	"github.com/jmcastelo/SIRview/internal/dynamo"
)

func init() {
	register(SIRA, Definition{
		Key:       "sira",
		Name:      "SIRA",
		Variables: []string{"S", "I", "R", "A"},
		Long:      []string{"Susceptible", "Infected", "Recovered", "Asymptomatic"},
		Parameters: []Parameter{
			reproduction,
			{Name: "k", Long: "Relative infectivity of asymptomatic cases", Min: 0, Max: 5, Default: 0.1},
		},
		InitialState: []float64{1 - 2e-7, 1e-7, 0, 1e-7},
		Derive: func(dx, x, p []float64) {
			s, i, a := x[0], x[1], x[3]
			dx[0] = -p[0] * (i + p[1]*a) * s
			dx[1] = (p[0]*s - 1) * i
			dx[2] = i + a
			dx[3] = (p[0]*p[1]*s - 1) * a
		},
	})
}

// AsymptomaticBalance is (A-I)/(A+I) for a SIRA state: +1 when every active
// case is asymptomatic, -1 when every one is symptomatic.
func AsymptomaticBalance(x dynamo.State) (float64, error) {
	if len(x) != SIRA.Dim() {
		return 0, fmt.Errorf("balance needs %d components, got %d: %w", SIRA.Dim(), len(x), dynamo.ErrDimensionMismatch)
	}
	i, a := x[1], x[3]
	if a+i == 0 {
		return 0, fmt.Errorf("A+I at A=%g I=%g: %w", a, i, ErrZeroDenominator)
	}
	return (a - i) / (a + i), nil
}
