// Package viz renders timelines in the terminal.
//
// Sections are drawn with asciigraph on a shared time axis, each in the
// colour [ColorForIndex] gives it, so a regime keeps its colour in every
// view. Editor chrome uses lipgloss styles derived from a [Theme].
package viz
