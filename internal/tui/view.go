package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jmcastelo/SIRview/internal/viz"
)

func (m Model) View() string {
	var b strings.Builder
	st := m.styles
	v := m.tl.Variant()

	mode := st.Subtle.Render("single")
	if m.tl.ShiftMode() {
		mode = st.Warning.Render("shift")
	}
	b.WriteString(fmt.Sprintf("\n  %s  %s  %s\n\n", st.Title.Render("sirview"), st.MetricValue.Render(v.String()), mode))

	b.WriteString("  " + m.viewSections() + "\n\n")
	b.WriteString(m.viewRows())
	b.WriteString("\n")

	plotWidth := max(m.width-16, 20)
	plotHeight := max(m.height-len(m.rows())-16, 6)
	plot, err := viz.PlotTimeline(m.tl, viz.PlotOptions{
		Width:     plotWidth,
		Height:    plotHeight,
		Component: m.component,
		ShowRight: m.showRight,
	})
	if err != nil {
		plot = st.Error.Render(err.Error())
	}
	b.WriteString(plot + "\n\n")

	switch {
	case m.typing:
		b.WriteString("  " + st.Selected.Render(m.selected().label+" = ") + m.typeBuf + "▋\n")
	case m.err != nil:
		b.WriteString("  " + st.Error.Render(m.err.Error()) + "\n")
	case m.status != "":
		b.WriteString("  " + st.Status.Render(m.status) + "\n")
	default:
		b.WriteString("\n")
	}

	b.WriteString(st.KeyHint.Render("  tab section  ↑↓ field  ←→ slide  enter type  a add  x remove  s shift  c component  r right  q quit") + "\n")
	return b.String()
}

func (m Model) viewSections() string {
	items := make([]string, m.tl.Len())
	for i, r := range m.tl.Ranges() {
		swatch := lipgloss.NewStyle().Foreground(viz.TerminalColorForIndex(i)).Render("■")
		text := fmt.Sprintf("%d [%.4g, %.4g]", i, r.Start, r.End)
		if i == m.tl.Current() {
			text = m.styles.Selected.Render(text)
		} else {
			text = m.styles.Subtle.Render(text)
		}
		items[i] = swatch + " " + text
	}
	return strings.Join(items, "  ")
}

func (m Model) viewRows() string {
	var b strings.Builder
	st := m.styles
	i := m.tl.Current()
	sec, err := m.tl.Section(i)
	if err != nil {
		return st.Error.Render(err.Error()) + "\n"
	}

	for n, r := range m.rows() {
		var (
			value float64
			index int
			err   error
		)
		switch r.kind {
		case rowStart:
			value = sec.Start
			index, err = m.tl.IndexTimeStart(i, m.res)
		case rowEnd:
			value = sec.End
			index, err = m.tl.IndexTimeEnd(i, m.res)
		case rowParam:
			value = sec.Params[r.index]
			index, err = m.tl.IndexParameter(i, r.index, m.res)
		case rowInitial:
			value = sec.InitialState[r.index]
			index = int(value * float64(m.res))
		}
		if err != nil {
			index = 0
		}

		label := fmt.Sprintf("%-6s", r.label)
		bar := viz.SliderBar(index, m.res, 24)
		val := fmt.Sprintf("%10.4g", value)
		if n == m.cursor {
			b.WriteString("  " + st.Selected.Render("▸ "+label) + " " + bar + " " + st.MetricValue.Render(val) + "\n")
		} else {
			b.WriteString("    " + st.MetricLabel.Render(label) + " " + st.Subtle.Render(bar) + " " + st.Subtle.Render(val) + "\n")
		}
	}
	return b.String()
}
