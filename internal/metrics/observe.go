package metrics

import "github.com/jmcastelo/SIRview/internal/dynamo"

// ObserveSeries feeds every sample of s to each metric, after a reset.
func ObserveSeries(s dynamo.Series, ms ...dynamo.Metric) {
	for _, m := range ms {
		m.Reset()
	}
	x := make(dynamo.State, s.Dim())
	for i, t := range s.Times {
		for k := range x {
			x[k] = s.Values[k][i]
		}
		for _, m := range ms {
			m.Observe(x, t)
		}
	}
}

// Values collects metric values by name.
func Values(ms ...dynamo.Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Epidemic is the standard metric set for a model whose infected
// compartment sits at index infected.
func Epidemic(infected, susceptible int) []dynamo.Metric {
	return []dynamo.Metric{
		NewPeak("peak_infected", infected),
		NewPeakTime("peak_time", infected),
		NewFinal("final_susceptible", susceptible),
		NewFinal("final_infected", infected),
		NewPopulationDrift(),
	}
}
