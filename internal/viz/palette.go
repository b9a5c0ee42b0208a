package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

type swatch struct {
	name string
	hex  lipgloss.Color
	ansi asciigraph.AnsiColor
}

// Sections are coloured in this order, wrapping around after the last.
var palette = [...]swatch{
	// Black draws in the terminal's own foreground so it stays visible on
	// dark backgrounds; exports keep the hex value.
	{"black", "#000000", asciigraph.Default},
	{"red", "#ff0000", asciigraph.Red},
	{"green", "#00ff00", asciigraph.Lime},
	{"blue", "#0000ff", asciigraph.Blue},
	{"dark red", "#800000", asciigraph.Maroon},
	{"dark green", "#008000", asciigraph.Green},
	{"dark blue", "#000080", asciigraph.Navy},
	{"magenta", "#ff00ff", asciigraph.Magenta},
	{"yellow", "#ffff00", asciigraph.Yellow},
	{"cyan", "#00ffff", asciigraph.Cyan},
	{"dark magenta", "#800080", asciigraph.Purple},
	{"dark yellow", "#808000", asciigraph.Olive},
	{"dark cyan", "#008080", asciigraph.Teal},
	{"dark gray", "#808080", asciigraph.Gray},
}

// PaletteSize is the number of distinct section colours.
const PaletteSize = len(palette)

func swatchFor(i int) swatch {
	i %= PaletteSize
	if i < 0 {
		i += PaletteSize
	}
	return palette[i]
}

// ColorForIndex is the colour of section i.
func ColorForIndex(i int) lipgloss.Color { return swatchFor(i).hex }

// PlotColorForIndex is ColorForIndex as an ANSI colour for asciigraph.
func PlotColorForIndex(i int) asciigraph.AnsiColor { return swatchFor(i).ansi }

// TerminalColorForIndex is ColorForIndex for lipgloss output on a terminal.
func TerminalColorForIndex(i int) lipgloss.TerminalColor {
	sw := swatchFor(i)
	if sw.ansi == asciigraph.Default {
		return lipgloss.NoColor{}
	}
	return sw.hex
}

// ColorName is a human readable name for the colour of section i.
func ColorName(i int) string { return swatchFor(i).name }
