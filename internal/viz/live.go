package viz

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fractalview/internal/config"
	"github.com/san-kum/fractalview/internal/engine"
	"github.com/san-kum/fractalview/internal/palette"
	"github.com/san-kum/fractalview/internal/raster"
)

const (
	statusLines     = 2
	historyCapacity = 60
	spinInterval    = 100 * time.Millisecond
)

type renderMsg struct {
	result *engine.Result
	err    error
}

type spinMsg time.Time

// Options configures the viewer.
type Options struct {
	// SaveDir receives frames written with the w key. Empty means the
	// working directory.
	SaveDir string
	Theme   string
}

// Model is the interactive viewer. Every navigation key changes the
// settings and asks the engine for a new frame; the engine drops requests
// while a frame is in flight, and the viewer asks again for the latest view
// once that frame lands.
type Model struct {
	ctx      context.Context
	eng      *engine.Engine
	settings engine.Settings
	opts     Options

	width, height int
	results       chan renderMsg

	picture   string
	side      int
	last      *engine.Result
	err       error
	notice    string
	inflight  int
	pending   bool
	dropped   int
	frame     int
	times     []float64

	theme    Theme
	showHelp bool
	picking  bool
	presets  []string
	cursor   int
}

func NewModel(ctx context.Context, eng *engine.Engine, s engine.Settings, opts Options) Model {
	return Model{
		ctx:      ctx,
		eng:      eng,
		settings: s,
		opts:     opts,
		results:  make(chan renderMsg, 1),
		times:    make([]float64, 0, historyCapacity),
		theme:    GetTheme(opts.Theme),
		presets:  config.ListPresets(),
	}
}

// Settings returns the view the model is showing or about to show.
func (m Model) Settings() engine.Settings { return m.settings }

// Run starts the viewer on the alternate screen and returns the final view.
func Run(ctx context.Context, eng *engine.Engine, s engine.Settings, opts Options) (engine.Settings, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(ctx, eng, s, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		return fm.settings, err
	}
	return s, err
}

func (m Model) Init() tea.Cmd { return nil }

// frameSide is the largest square that fits above the status bar.
func (m Model) frameSide() int {
	return max(0, min(m.width, 2*(m.height-statusLines)))
}

func (m *Model) render() tea.Cmd {
	side := m.frameSide()
	if side <= 0 {
		return nil
	}
	results := m.results
	ok := m.eng.RenderAsync(m.ctx, side, side, m.settings, func(r *engine.Result, err error) {
		results <- renderMsg{result: r, err: err}
	})
	if !ok {
		m.pending = true
		m.dropped++
		return nil
	}
	m.inflight++
	m.pending = false
	m.notice = ""
	if m.inflight > 1 {
		return waitForRender(results)
	}
	return tea.Batch(waitForRender(results), spin())
}

func waitForRender(ch <-chan renderMsg) tea.Cmd {
	return func() tea.Msg { return <-ch }
}

func spin() tea.Cmd {
	return tea.Tick(spinInterval, func(t time.Time) tea.Msg { return spinMsg(t) })
}

// Update handles input events and render completions.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, m.render()
	case renderMsg:
		return m.finish(msg)
	case spinMsg:
		if m.inflight == 0 {
			return m, nil
		}
		m.frame++
		return m, spin()
	case tea.MouseMsg:
		return m.mouse(msg)
	case tea.KeyMsg:
		if m.picking {
			return m.pickerKey(msg)
		}
		return m.key(msg)
	}
	return m, nil
}

func (m Model) finish(msg renderMsg) (tea.Model, tea.Cmd) {
	m.inflight = max(0, m.inflight-1)
	if msg.err != nil {
		m.err = msg.err
	} else {
		m.err = nil
		m.last = msg.result
		m.side = msg.result.Raster.Width()
		m.picture = CanvasFromRaster(msg.result.Raster).String()
		if len(m.times) == historyCapacity {
			m.times = m.times[1:]
		}
		m.times = append(m.times, float64(msg.result.Elapsed.Microseconds())/1000)
	}
	if m.pending || m.side != m.frameSide() {
		return m, m.render()
	}
	return m, nil
}

func (m Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.settings
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ":
		s = home(s)
	case "enter":
		s = shrink(s)
	case "+", "=":
		s = zoomCentre(s, zoomFactor)
	case "-", "_":
		s = zoomCentre(s, 1/zoomFactor)
	case "up", "k":
		s = pan(s, 0, -panFraction)
	case "down", "j":
		s = pan(s, 0, panFraction)
	case "left", "h":
		s = pan(s, -panFraction, 0)
	case "right", "l":
		s = pan(s, panFraction, 0)
	case "a":
		s.Algorithm = s.Algorithm.Next()
	case "A":
		s.Algorithm = s.Algorithm.Prev()
	case "s":
		s.Smooth = !s.Smooth
	case "b":
		s.Alternate = !s.Alternate
	case "r":
	case "t":
		m.theme = nextTheme(m.theme)
		return m, nil
	case "p":
		m.picking = true
		return m, nil
	case "w":
		m.save()
		return m, nil
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	default:
		return m, nil
	}
	m.settings = s
	return m, m.render()
}

func (m Model) pickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "p", "q":
		m.picking = false
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.picking = false
		if p, ok := config.GetPreset(m.presets[m.cursor]); ok {
			m.settings.Bounds = p.Bounds
			m.settings.Zoom = p.Zoom
			m.settings.Alternate = p.Alternate
			return m, m.render()
		}
	}
	return m, nil
}

// mouse zooms about a clicked pixel: left in, right out.
func (m Model) mouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || m.side == 0 {
		return m, nil
	}
	px, py := msg.X, 2*msg.Y
	if px >= m.side || py >= m.side {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonLeft:
		m.settings = zoomAt(m.settings, px, py, m.side, true)
	case tea.MouseButtonRight:
		m.settings = zoomAt(m.settings, px, py, m.side, false)
	default:
		return m, nil
	}
	return m, m.render()
}

func (m *Model) save() {
	if m.last == nil {
		m.notice = "nothing to save yet"
		return
	}
	path := filepath.Join(m.opts.SaveDir, "fractal-"+m.last.ID[:8]+".png")
	if err := m.last.Raster.Save(path, raster.PNG); err != nil {
		m.err = err
		return
	}
	m.notice = "saved " + path
}

// View renders the frame with a two-line status bar beneath it.
func (m Model) View() string {
	if m.width == 0 {
		return "initialising..."
	}
	st := newStyles(m.theme)

	var body string
	switch {
	case m.picking:
		body = m.pickerView(st)
	case m.showHelp:
		body = overlayStyle.Render(helpText)
	default:
		body = m.picture
	}

	rows := max(0, m.height-statusLines)
	lines := strings.Split(body, "\n")
	if len(lines) > rows {
		lines = lines[:rows]
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n") + "\n" + m.statusView(st)
}

func (m Model) statusView(st styles) string {
	s := m.settings

	var state string
	switch {
	case m.inflight > 0:
		state = st.busy.Render(AnimatedSpinner(m.frame) + " rendering")
	case m.err != nil:
		state = st.err.Render("error: " + m.err.Error())
	case m.notice != "":
		state = st.value.Render(m.notice)
	case m.last != nil:
		state = st.value.Render(fmt.Sprintf("rendered in %s", m.last.Elapsed.Round(time.Millisecond)))
	default:
		state = st.label.Render("waiting")
	}
	first := state + "  " + st.label.Render(s.Bounds.String())

	field := func(k, v string) string { return st.label.Render(k+" ") + st.value.Render(v) }
	second := strings.Join([]string{
		field("palette", s.Algorithm.String()),
		field("smooth", onOff(s.Smooth)),
		field("ship", onOff(s.Alternate)),
		field("zoom", fmt.Sprintf("%.3g", s.Zoom)),
		field("iter", fmt.Sprintf("%d", s.MaxIterations())),
		st.selected.Render(Sparkline(m.times, 16)),
		st.hint.Render("? help"),
	}, "  ")

	return lipgloss.NewStyle().MaxWidth(m.width).Render(first) + "\n" +
		lipgloss.NewStyle().MaxWidth(m.width).Render(second)
}

func (m Model) pickerView(st styles) string {
	var sb strings.Builder
	sb.WriteString(st.value.Render("PRESETS") + "\n\n")
	for i, name := range m.presets {
		p := config.Presets[name]
		line := fmt.Sprintf("%-14s %s", name, p.Description)
		if i == m.cursor {
			sb.WriteString(st.selected.Render("> "+line) + "\n")
		} else {
			sb.WriteString(st.label.Render("  "+line) + "\n")
		}
	}
	sb.WriteString("\n" + st.hint.Render("↑↓ select  enter apply  esc close"))
	return overlayStyle.Render(sb.String())
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

var helpText = `KEYBOARD SHORTCUTS

Space     home view
Enter     step out
+ / -     zoom in / out
Arrows    pan
Click     zoom in at pointer (right: out)
a / A     next / previous palette (` + strings.Join(paletteNames(), ", ") + `)
r         redraw
s         toggle smoothing
b         toggle Burning Ship
p         presets
t         cycle theme
w         save frame as PNG
?         toggle this help
q         quit`

func paletteNames() []string {
	all := palette.All()
	names := make([]string, len(all))
	for i, a := range all {
		names[i] = a.String()
	}
	return names
}
