package metrics

import (
	"math"

	"github.com/jmcastelo/SIRview/internal/dynamo"
)

// Peak tracks the largest value of one compartment and when it happened.
type Peak struct {
	name      string
	component int
	value     float64
	time      float64
	samples   int
}

func NewPeak(name string, component int) *Peak {
	return &Peak{name: name, component: component}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(x dynamo.State, t float64) {
	if p.component >= len(x) {
		return
	}
	if p.samples == 0 || x[p.component] > p.value {
		p.value = x[p.component]
		p.time = t
	}
	p.samples++
}

func (p *Peak) Value() float64 { return p.value }

// Time is when the peak was reached.
func (p *Peak) Time() float64 { return p.time }

func (p *Peak) Reset() {
	p.value, p.time, p.samples = 0, 0, 0
}

// PeakTime exposes a Peak's time as its own metric.
type PeakTime struct {
	*Peak
	name string
}

func NewPeakTime(name string, component int) *PeakTime {
	return &PeakTime{Peak: NewPeak(name, component), name: name}
}

func (p *PeakTime) Name() string { return p.name }

func (p *PeakTime) Value() float64 { return p.Peak.Time() }

// Final is the last observed value of one compartment.
type Final struct {
	name      string
	component int
	value     float64
}

func NewFinal(name string, component int) *Final {
	return &Final{name: name, component: component}
}

func (f *Final) Name() string { return f.name }

func (f *Final) Observe(x dynamo.State, t float64) {
	if f.component < len(x) {
		f.value = x[f.component]
	}
}

func (f *Final) Value() float64 { return f.value }

func (f *Final) Reset() { f.value = 0 }

// PopulationDrift is the largest relative change of the total population
// from the first observed sample.
type PopulationDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewPopulationDrift() *PopulationDrift {
	return &PopulationDrift{name: "population_drift"}
}

func (d *PopulationDrift) Name() string { return d.name }

func (d *PopulationDrift) Observe(x dynamo.State, t float64) {
	total := x.Sum()
	if d.samples == 0 {
		d.initial = total
	}
	d.samples++

	if d.initial != 0 {
		d.maxDrift = math.Max(d.maxDrift, math.Abs(total-d.initial)/math.Abs(d.initial))
	}
}

func (d *PopulationDrift) Value() float64 { return d.maxDrift }

func (d *PopulationDrift) Reset() {
	d.initial, d.maxDrift, d.samples = 0, 0, 0
}

// Overload accumulates the time one compartment spends above a threshold,
// such as infections beyond hospital capacity.
type Overload struct {
	name      string
	component int
	threshold float64
	total     float64
	lastT     float64
	lastOver  bool
	samples   int
}

func NewOverload(name string, component int, threshold float64) *Overload {
	return &Overload{name: name, component: component, threshold: threshold}
}

func (o *Overload) Name() string { return o.name }

func (o *Overload) Observe(x dynamo.State, t float64) {
	if o.component >= len(x) {
		return
	}
	over := x[o.component] > o.threshold
	if o.samples > 0 && o.lastOver && over {
		o.total += t - o.lastT
	}
	o.lastT, o.lastOver = t, over
	o.samples++
}

func (o *Overload) Value() float64 { return o.total }

func (o *Overload) Reset() {
	o.total, o.lastT, o.lastOver, o.samples = 0, 0, false, 0
}
