package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jmcastelo/SIRview/internal/timeline"
	"github.com/jmcastelo/SIRview/internal/viz"
)

const DefaultResolution = 1000

// Options configures the editor.
type Options struct {
	// Resolution is the number of slider steps; every slider runs 0..Resolution.
	Resolution int
	Theme      viz.Theme
	Logger     *zap.Logger
}

type rowKind int

const (
	rowStart rowKind = iota
	rowEnd
	rowParam
	rowInitial
)

type row struct {
	kind  rowKind
	index int
	label string
}

// Model is a bubbletea model editing one timeline in place.
type Model struct {
	tl     *timeline.Timeline
	res    int
	styles viz.Styles
	log    *zap.Logger

	cursor    int
	component int
	showRight bool

	typing  bool
	typeBuf string

	status string
	err    error

	width  int
	height int
}

func New(tl *timeline.Timeline, opts Options) Model {
	if opts.Resolution <= 0 {
		opts.Resolution = DefaultResolution
	}
	if opts.Theme.Name == "" {
		opts.Theme = viz.ThemeMinimal
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	component := tl.Variant().Index("I")
	if component < 0 {
		component = 0
	}
	return Model{
		tl:        tl,
		res:       opts.Resolution,
		styles:    viz.NewStyles(opts.Theme),
		log:       opts.Logger,
		component: component,
		showRight: true,
		width:     80,
		height:    24,
	}
}

// Run blocks until the user quits the editor.
func Run(tl *timeline.Timeline, opts Options) error {
	_, err := tea.NewProgram(New(tl, opts), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

// Err is the outcome of the last edit.
func (m Model) Err() error { return m.err }

// rows lists the editable fields of the current section. Only the first
// section owns an initial state.
func (m Model) rows() []row {
	v := m.tl.Variant()
	rows := []row{{kind: rowStart, label: "start"}, {kind: rowEnd, label: "end"}}
	for p, par := range v.Parameters() {
		rows = append(rows, row{kind: rowParam, index: p, label: par.Name})
	}
	if m.tl.Current() == 0 {
		for k, name := range v.Variables() {
			rows = append(rows, row{kind: rowInitial, index: k, label: name + "(0)"})
		}
	}
	return rows
}

func (m Model) selected() row {
	rows := m.rows()
	if m.cursor >= len(rows) {
		return rows[len(rows)-1]
	}
	return rows[m.cursor]
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.typing {
			return m.typeKey(msg), nil
		}
		return m.editKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m Model) editKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	step := max(m.res/100, 1)

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}
	case "tab":
		m = m.selectSection(m.tl.Current() + 1)
	case "shift+tab":
		m = m.selectSection(m.tl.Current() - 1)
	case "left", "h":
		m = m.slide(-step)
	case "right", "l":
		m = m.slide(step)
	case "H":
		m = m.slide(-10 * step)
	case "L":
		m = m.slide(10 * step)
	case "a":
		m = m.outcome("section added", m.tl.AddSection())
	case "x":
		i := m.tl.Current()
		m = m.outcome(fmt.Sprintf("removed from section %d", i), m.tl.RemoveSection(i))
		m.cursor = min(m.cursor, len(m.rows())-1)
	case "s":
		m.tl.SetShiftMode(!m.tl.ShiftMode())
		m.status = fmt.Sprintf("shift mode %t", m.tl.ShiftMode())
		m.err = nil
	case "c":
		m.component = (m.component + 1) % m.tl.Variant().Dim()
	case "r":
		m.showRight = !m.showRight
	case "enter":
		m.typing = true
		m.typeBuf = ""
	}
	return m, nil
}

func (m Model) typeKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "enter":
		m.typing = false
		v, err := strconv.ParseFloat(m.typeBuf, 64)
		if err != nil {
			m.err = fmt.Errorf("not a number: %q", m.typeBuf)
			return m
		}
		return m.outcome(fmt.Sprintf("%s set to %g", m.selected().label, v), m.setValue(v))
	case "esc":
		m.typing = false
	case "backspace":
		if len(m.typeBuf) > 0 {
			m.typeBuf = m.typeBuf[:len(m.typeBuf)-1]
		}
	default:
		if s := msg.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.-+eE") {
			m.typeBuf += s
		}
	}
	return m
}

func (m Model) selectSection(i int) Model {
	n := m.tl.Len()
	i = (i%n + n) % n
	if err := m.tl.SetCurrent(i); err != nil {
		m.err = err
		return m
	}
	m.cursor = min(m.cursor, len(m.rows())-1)
	return m
}

// slide moves the selected slider by delta steps.
func (m Model) slide(delta int) Model {
	r := m.selected()
	i := m.tl.Current()

	var (
		index int
		err   error
	)
	switch r.kind {
	case rowStart:
		index, err = m.tl.IndexTimeStart(i, m.res)
	case rowEnd:
		index, err = m.tl.IndexTimeEnd(i, m.res)
	case rowParam:
		index, err = m.tl.IndexParameter(i, r.index, m.res)
	case rowInitial:
		return m.nudgeInitial(r.index, float64(delta)/float64(m.res))
	}
	if err != nil {
		m.err = err
		return m
	}

	index = min(max(index+delta, 0), m.res)
	switch r.kind {
	case rowStart:
		err = m.tl.SetTimeStart(i, index, m.res)
	case rowEnd:
		err = m.tl.SetTimeEnd(i, index, m.res)
	case rowParam:
		err = m.tl.SetParameter(i, r.index, index, m.res)
	}
	return m.outcome("", err)
}

func (m Model) setValue(v float64) error {
	r := m.selected()
	i := m.tl.Current()
	switch r.kind {
	case rowStart:
		return m.tl.SetTimeStartValue(i, v)
	case rowEnd:
		return m.tl.SetTimeEndValue(i, v)
	case rowParam:
		return m.tl.SetParameterValue(i, r.index, v)
	default:
		return m.setInitial(r.index, v)
	}
}

func (m Model) nudgeInitial(k int, delta float64) Model {
	sec, err := m.tl.Section(0)
	if err != nil {
		m.err = err
		return m
	}
	v := min(max(sec.InitialState[k]+delta, 0), 1)
	return m.outcome("", m.setInitial(k, v))
}

func (m Model) setInitial(k int, v float64) error {
	sec, err := m.tl.Section(0)
	if err != nil {
		return err
	}
	x := sec.InitialState
	x[k] = v
	return m.tl.SetInitialState(x)
}

// outcome records the result of an edit. A refused edit leaves the
// timeline untouched, so there is nothing to undo.
func (m Model) outcome(done string, err error) Model {
	m.err = err
	if err != nil {
		m.status = ""
		if !errors.Is(err, timeline.ErrOutOfBounds) {
			m.log.Warn("edit failed", zap.Error(err))
		}
		return m
	}
	if done != "" {
		m.status = done
	}
	return m
}
