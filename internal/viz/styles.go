package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Title       lipgloss.Style
	Panel       lipgloss.Style
	Subtle      lipgloss.Style
	Selected    lipgloss.Style
	MetricLabel lipgloss.Style
	MetricValue lipgloss.Style
	KeyHint     lipgloss.Style
	Status      lipgloss.Style
	Warning     lipgloss.Style
	Error       lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		Subtle:      lipgloss.NewStyle().Foreground(t.Muted),
		Selected:    lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		MetricLabel: lipgloss.NewStyle().Foreground(t.Muted),
		MetricValue: lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		KeyHint:     lipgloss.NewStyle().Italic(true).Foreground(t.Muted),
		Status:      lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Warning:     lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		Error:       lipgloss.NewStyle().Bold(true).Foreground(t.Error),
	}
}

// SliderBar renders a slider at index out of indexMax.
func SliderBar(index, indexMax, width int) string {
	if width < 1 {
		return ""
	}
	pos := 0
	if indexMax > 0 {
		pos = index * (width - 1) / indexMax
	}
	if pos < 0 {
		pos = 0
	}
	if pos > width-1 {
		pos = width - 1
	}
	return strings.Repeat("─", pos) + "●" + strings.Repeat("─", width-1-pos)
}

// Sparkline renders a mini sparkline from values.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width < 1 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		idx := int((values[i*step] - lo) / rng * float64(len(chars)-1))
		idx = min(max(idx, 0), len(chars)-1)
		b.WriteRune(chars[idx])
	}
	return b.String()
}

// BoxWithTitle renders content in a rounded box with title on the top edge.
func (s Styles) BoxWithTitle(title, content string, width int) string {
	fill := width - lipgloss.Width(title) - 3
	if fill < 0 {
		fill = 0
	}
	header := "╭─ " + s.Title.Render(title) + " " + strings.Repeat("─", fill) + "╮"
	body := s.Panel.BorderTop(false).Width(width).Render(content)
	return header + "\n" + body
}

func (s Styles) Separator(width int) string {
	if width < 7 {
		return s.Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return s.Subtle.Render(left + " ◆ " + right)
}
