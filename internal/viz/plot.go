package viz

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/jmcastelo/SIRview/internal/analysis"
	"github.com/jmcastelo/SIRview/internal/dynamo"
	"github.com/jmcastelo/SIRview/internal/timeline"
)

var ErrNothingToPlot = errors.New("viz: nothing to plot")

const (
	DefaultPlotWidth  = 72
	DefaultPlotHeight = 14
)

// PlotOptions controls terminal plot rendering.
type PlotOptions struct {
	Width     int
	Height    int
	Caption   string
	Component int
	// ShowRight also draws, in gray, where each regime would have gone
	// had the next section not taken over.
	ShowRight bool
}

func (o PlotOptions) withDefaults() PlotOptions {
	if o.Width < 2 {
		o.Width = DefaultPlotWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultPlotHeight
	}
	return o
}

// PlotTimeline draws one component of every section on a shared time axis,
// each section in its own colour.
func PlotTimeline(tl *timeline.Timeline, opts PlotOptions) (string, error) {
	opts = opts.withDefaults()
	v := tl.Variant()
	if opts.Component < 0 || opts.Component >= v.Dim() {
		return "", fmt.Errorf("component %d of %s: %w", opts.Component, v, ErrNothingToPlot)
	}

	ranges := tl.Ranges()
	t0, t1 := ranges[0].Start, ranges[0].End
	for _, r := range ranges {
		t1 = math.Max(t1, r.End)
	}
	grid := timeGrid(t0, t1, opts.Width)

	var (
		behind, front [][]float64
		behindColors  []asciigraph.AnsiColor
		frontColors   []asciigraph.AnsiColor
	)
	last := tl.Len() - 1
	for i := 0; i <= last; i++ {
		if i == last {
			full, err := tl.PlotFull(i)
			if err != nil {
				return "", err
			}
			front = append(front, onGrid(full, opts.Component, grid))
			frontColors = append(frontColors, PlotColorForIndex(i))
			continue
		}

		left, err := tl.PlotLeft(i)
		if err != nil {
			return "", err
		}
		front = append(front, onGrid(left, opts.Component, grid))
		frontColors = append(frontColors, PlotColorForIndex(i))

		if opts.ShowRight {
			right, err := tl.PlotRight(i)
			if err != nil {
				return "", err
			}
			behind = append(behind, onGrid(right, opts.Component, grid))
			behindColors = append(behindColors, asciigraph.DarkGray)
		}
	}

	data := append(behind, front...)
	colors := append(behindColors, frontColors...)
	data, colors = drawable(data, colors)
	if len(data) == 0 {
		return "", ErrNothingToPlot
	}

	caption := opts.Caption
	if caption == "" {
		caption = fmt.Sprintf("%s  t in [%g, %g]", v.Variables()[opts.Component], t0, t1)
	}
	graph := asciigraph.PlotMany(data,
		asciigraph.Height(opts.Height),
		asciigraph.LowerBound(0),
		asciigraph.Precision(3),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(caption))
	return graph + "\n" + SectionLegend(tl.Len()), nil
}

// PlotSeries draws every component of s, resampled onto an even grid.
func PlotSeries(s dynamo.Series, names []string, opts PlotOptions) (string, error) {
	opts = opts.withDefaults()
	if s.Empty() {
		return "", ErrNothingToPlot
	}
	even := analysis.Resample(s, opts.Width)

	colors := make([]asciigraph.AnsiColor, even.Dim())
	for k := range colors {
		// skip black, unreadable on most terminals
		colors[k] = PlotColorForIndex(k + 1)
	}
	plotOpts := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.LowerBound(0),
		asciigraph.Precision(3),
		asciigraph.SeriesColors(colors...),
	}
	if len(names) == even.Dim() {
		plotOpts = append(plotOpts, asciigraph.SeriesLegends(names...))
	}
	if opts.Caption != "" {
		plotOpts = append(plotOpts, asciigraph.Caption(opts.Caption))
	}
	return asciigraph.PlotMany(even.Values, plotOpts...), nil
}

// SectionLegend lists n sections in their colours.
func SectionLegend(n int) string {
	items := make([]string, n)
	for i := range items {
		swatch := lipgloss.NewStyle().Foreground(TerminalColorForIndex(i)).Render("■")
		items[i] = fmt.Sprintf("%s %d", swatch, i)
	}
	return strings.Join(items, "  ")
}

func timeGrid(t0, t1 float64, n int) []float64 {
	grid := make([]float64, n)
	for i := range grid {
		grid[i] = t0 + (t1-t0)*float64(i)/float64(n-1)
	}
	return grid
}

// onGrid samples component k of s at each grid time, NaN outside s.
func onGrid(s dynamo.Series, k int, grid []float64) []float64 {
	out := make([]float64, len(grid))
	n := s.Len()
	for i, t := range grid {
		if n == 0 || t < s.Times[0] || t > s.Times[n-1] {
			out[i] = math.NaN()
			continue
		}
		j := sort.SearchFloat64s(s.Times, t)
		v := s.Values[k]
		switch {
		case j >= n:
			out[i] = v[n-1]
		case j == 0 || s.Times[j] == t:
			out[i] = v[j]
		default:
			ta, tb := s.Times[j-1], s.Times[j]
			out[i] = v[j-1] + (t-ta)*(v[j]-v[j-1])/(tb-ta)
		}
	}
	return out
}

// drawable drops series that never land on the grid.
func drawable(data [][]float64, colors []asciigraph.AnsiColor) ([][]float64, []asciigraph.AnsiColor) {
	var (
		keep [][]float64
		kc   []asciigraph.AnsiColor
	)
	for i, d := range data {
		for _, x := range d {
			if !math.IsNaN(x) {
				keep = append(keep, d)
				kc = append(kc, colors[i])
				break
			}
		}
	}
	return keep, kc
}
