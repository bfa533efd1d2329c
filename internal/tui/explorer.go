// Package tui is the interactive landscape explorer: pick a one-dimensional
// potential, tune its parameters, and inspect the plotted curve together with
// its critical points and, where a grid Hamiltonian exists, its lowest
// quantum levels.
package tui

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/eqlab/internal/energy"
	"github.com/san-kum/eqlab/internal/engine"
	"github.com/san-kum/eqlab/internal/kinetics"
	"github.com/san-kum/eqlab/internal/stability"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

var modelInfo = map[string]string{
	"harmonic":      "spring well",
	"inverted":      "hilltop",
	"double_well":   "symmetric double well",
	"morse":         "anharmonic bond",
	"lennard_jones": "van der Waals pair",
	"pendulum":      "gravity pendulum",
	"rugged":        "noise landscape",
}

const (
	paramMin = "min"
	paramMax = "max"

	explorerLevels = 3
	plotHeight     = 12
)

type state int

const (
	stateMenu state = iota
	stateConfig
	stateView
)

type model struct {
	eng *engine.Engine

	state    state
	cursor   int
	models   []string
	selected string

	params      map[string]float64
	paramNames  []string
	specs       map[string]energy.ParamSpec
	paramCursor int
	editing     bool
	editBuf     string

	busy   bool
	result *stability.Result
	curve  []float64
	levels []float64
	err    error

	width  int
	height int
}

// analyzedMsg carries the outcome of one background analysis.
type analyzedMsg struct {
	result *stability.Result
	curve  []float64
	levels []float64
	err    error
}

// NewExplorer lists every one-dimensional classical model known to eng.
func NewExplorer(eng *engine.Engine) *model {
	m := &model{eng: eng, state: stateMenu, width: 80, height: 24}
	for _, name := range eng.Registry().List(engine.Classical) {
		info, err := eng.Lookup(engine.Classical, name)
		if err != nil || len(info.Coordinates) != 1 {
			continue
		}
		m.models = append(m.models, name)
	}
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case analyzedMsg:
		m.busy = false
		m.result, m.curve, m.levels, m.err = msg.result, msg.curve, msg.levels, msg.err
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.state {
	case stateMenu:
		return m.menuKey(key)
	case stateConfig:
		return m.configKey(key)
	case stateView:
		return m.viewKey(key)
	}
	return m, nil
}

func (m model) menuKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.models)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.models) == 0 {
			return m, nil
		}
		m.selected = m.models[m.cursor]
		m.loadParams()
		m.state = stateConfig
	}
	return m, nil
}

func (m model) configKey(key string) (tea.Model, tea.Cmd) {
	if m.editing {
		switch key {
		case "enter":
			if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				m.params[m.paramNames[m.paramCursor]] = v
			}
			m.editing = false
			m.editBuf = ""
		case "esc":
			m.editing = false
			m.editBuf = ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(key) == 1 && strings.ContainsAny(key, "0123456789.-e") {
				m.editBuf += key
			}
		}
		return m, nil
	}

	switch key {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.paramNames)-1 {
			m.paramCursor++
		}
	case "left", "h":
		m.nudge(-0.1)
	case "right", "l":
		m.nudge(0.1)
	case "enter":
		m.editing = true
		m.editBuf = ""
	case "s":
		m.state = stateView
		m.busy = true
		return m, m.analyze()
	}
	return m, nil
}

func (m model) viewKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "c", "esc":
		m.state = stateConfig
	case "r":
		m.busy = true
		return m, m.analyze()
	}
	return m, nil
}

// loadParams resets the editable values to the selected model's defaults
// and its default interval.
func (m *model) loadParams() {
	info, _ := m.eng.Lookup(engine.Classical, m.selected)
	coord := map[string]bool{}
	for _, c := range info.Coordinates {
		coord[c] = true
	}

	m.params = map[string]float64{}
	m.specs = map[string]energy.ParamSpec{}
	m.paramNames = nil
	m.paramCursor = 0
	for _, p := range info.Params {
		if coord[p.Name] {
			continue
		}
		m.params[p.Name] = p.Default
		m.specs[p.Name] = p
		m.paramNames = append(m.paramNames, p.Name)
	}

	lo, hi := -5.0, 5.0
	if b, ok := engine.GridDomains[m.selected]; ok {
		lo, hi = b[0], b[1]
	}
	m.params[paramMin], m.params[paramMax] = lo, hi
	m.paramNames = append(m.paramNames, paramMin, paramMax)
	m.result, m.curve, m.levels, m.err = nil, nil, nil, nil
}

func (m *model) nudge(delta float64) {
	if len(m.paramNames) == 0 {
		return
	}
	name := m.paramNames[m.paramCursor]
	v := m.params[name] + delta
	if spec, ok := m.specs[name]; ok && spec.Check(v) != "" {
		return
	}
	m.params[name] = math.Round(v*1e6) / 1e6
}

func (m model) plotWidth() int {
	w := m.width - 16
	if w < 40 {
		w = 40
	}
	return w
}

// analyze snapshots the current parameters and returns a command that runs
// the analysis off the update loop.
func (m model) analyze() tea.Cmd {
	values := make(map[string]float64, len(m.params))
	for k, v := range m.params {
		if k != paramMin && k != paramMax {
			values[k] = v
		}
	}
	name, eng, width := m.selected, m.eng, m.plotWidth()
	lo, hi := m.params[paramMin], m.params[paramMax]
	return func() tea.Msg {
		return explore(context.Background(), eng, name, values, lo, hi, width)
	}
}

func explore(ctx context.Context, eng *engine.Engine, name string, values map[string]float64, lo, hi float64, width int) analyzedMsg {
	d, err := energy.Interval(lo, hi, 200)
	if err != nil {
		return analyzedMsg{err: err}
	}
	cfg, err := eng.Configure(engine.Classical, name, values)
	if err != nil {
		return analyzedMsg{err: err}
	}
	surface, err := eng.ClassicalSurface(cfg)
	if err != nil {
		return analyzedMsg{err: err}
	}

	msg := analyzedMsg{curve: energy.SampleLine(surface, lo, hi, width)}
	if _, ok := engine.GridDomains[name]; ok {
		cmp, err := eng.Compare(ctx, name, values, d, explorerLevels)
		if err == nil {
			msg.result, msg.levels = cmp.Analysis, cmp.Levels
			return msg
		}
		eng.Logger().Debug("explorer comparison failed", "model", name, "err", err)
	}
	msg.result, msg.err = eng.AnalyzeStability(ctx, surface, d, 0)
	return msg
}

func (m model) View() string {
	switch m.state {
	case stateConfig:
		return m.viewConfig()
	case stateView:
		return m.viewLandscape()
	default:
		return m.viewMenu()
	}
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("            " + cyan.Render("e q l a b") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range m.models {
		desc := modelInfo[name]
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-16s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-16s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter configure   q quit") + "\n")

	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(m.selected) + "  " + dim.Render(modelInfo[m.selected]) + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 30)) + "\n\n")

	for i, name := range m.paramNames {
		val := fmt.Sprintf("%8.3f", m.params[name])
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%8s", m.editBuf+"▋")
		}
		unit := ""
		if spec, ok := m.specs[name]; ok {
			unit = spec.Unit
		}
		if i == m.paramCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-10s", name)) + magenta.Render(val) + " " + dim.Render(unit) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-10s", name)) + dim.Render(val) + " " + dimmer.Render(unit) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select  ←→ adjust  enter edit  s analyze  esc back") + "\n")

	return b.String()
}

func (m model) viewLandscape() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("\n   %s %s  %s\n\n", cyan.Render("●"), cyan.Render(m.selected),
		dim.Render(fmt.Sprintf("[%g, %g]", m.params[paramMin], m.params[paramMax]))))

	if m.busy {
		b.WriteString("   " + yellow.Render("analyzing...") + "\n")
		return b.String()
	}
	if m.err != nil {
		b.WriteString("   " + red.Render(m.err.Error()) + "\n")
		b.WriteString("\n" + dim.Render("   c config  q quit") + "\n")
		return b.String()
	}

	if len(m.curve) > 1 {
		plot := asciigraph.Plot(m.curve,
			asciigraph.Height(plotHeight),
			asciigraph.Width(m.plotWidth()),
			asciigraph.Caption("E(x)"))
		for _, line := range strings.Split(plot, "\n") {
			b.WriteString("   " + line + "\n")
		}
		b.WriteString("\n")
	}

	if m.result != nil {
		b.WriteString(m.viewPoints())
	}
	if len(m.levels) > 0 {
		b.WriteString("\n   " + dim.Render("levels "))
		for i, e := range m.levels {
			b.WriteString(magenta.Render(fmt.Sprintf("E%d=%.4f", i, e)) + "  ")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + dim.Render("   r rerun  c config  q quit") + "\n")
	return b.String()
}

func (m model) viewPoints() string {
	var b strings.Builder
	res := m.result
	if len(res.Points) == 0 {
		b.WriteString("   " + dim.Render("no interior critical points") + "\n")
	}
	for _, p := range res.Points {
		style := white
		switch p.Class {
		case stability.Stable:
			style = green
		case stability.Unstable, stability.Saddle:
			style = yellow
		}
		b.WriteString(fmt.Sprintf("   %s %s  %s  %s\n",
			style.Render(fmt.Sprintf("%-13s", p.Class)),
			dim.Render("x="+strconv.FormatFloat(p.Coord[0], 'f', 5, 64)),
			dim.Render("E="+strconv.FormatFloat(p.Energy, 'f', 5, 64)),
			dimmer.Render(fmt.Sprintf("k=%.4g", p.Curvature()))))
	}
	if n := len(res.Warnings); n > 0 {
		b.WriteString("   " + yellow.Render(fmt.Sprintf("%d candidates dropped", n)) + "\n")
	}
	if prof, err := kinetics.ProfileFromAnalysis(res); err == nil {
		b.WriteString(fmt.Sprintf("   %s %s\n", dim.Render("barrier"), white.Render(strconv.FormatFloat(prof.Barrier(), 'f', 5, 64))))
	}
	return b.String()
}

// RunExplorer starts the explorer in the alternate screen and blocks until
// the user quits.
func RunExplorer(eng *engine.Engine) error {
	p := tea.NewProgram(NewExplorer(eng), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
