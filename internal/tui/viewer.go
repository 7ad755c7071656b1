package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/cutlapse/internal/config"
	"github.com/san-kum/cutlapse/internal/geo"
	"github.com/san-kum/cutlapse/internal/playback"
	"github.com/san-kum/cutlapse/internal/timeline"
	"github.com/san-kum/cutlapse/internal/viz"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type state int

const (
	stateLoading state = iota
	stateReady
	stateNoData
	stateFailed
)

const (
	marginX    = 2
	headerRows = 2
	// blank, slider, info and help rows below the map
	footerRows = 4
	// glyph plus padding to the left of the slider track
	sliderX0 = marginX + 3
	// room kept for the year label right of the track
	labelCols = 20
)

var numbers = message.NewPrinter(language.English)

// Options configures a viewer.
type Options struct {
	Config *config.Config
	// Load fetches the feature collection. It runs once, off the UI loop.
	Load func(ctx context.Context) (*geo.FeatureCollection, error)
	// Scheduler drives playback ticks. Run installs one that posts into the
	// program when nil.
	Scheduler playback.Scheduler
}

type loadedMsg struct {
	fc  *geo.FeatureCollection
	err error
}

// Model is the Bubble Tea model of the time-lapse viewer.
type Model struct {
	ctx   context.Context
	cfg   *config.Config
	load  func(ctx context.Context) (*geo.FeatureCollection, error)
	sched playback.Scheduler

	state   state
	err     error
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	theme   viz.Theme

	ctrl   *playback.Controller
	screen *screen
	axis   *timeline.Axis
	counts []timeline.Count
	scene  *viz.Scene
	layers *viz.MapLayers
	box    geo.BBox

	visible int
	width   int
	height  int
}

func NewModel(ctx context.Context, opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	theme := viz.GetTheme(cfg.Theme)
	sp.Style = lipgloss.NewStyle().Foreground(theme.Primary)

	m := Model{
		ctx:     ctx,
		cfg:     cfg,
		load:    opts.Load,
		sched:   opts.Scheduler,
		keys:    defaultKeys(),
		help:    help.New(),
		spinner: sp,
		theme:   theme,
		screen:  newScreen(),
		width:   80,
		height:  24,
	}
	m.resize(m.width, m.height)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

func (m Model) fetch() tea.Cmd {
	return func() tea.Msg {
		if m.load == nil {
			return loadedMsg{err: errors.New("tui: no loader configured")}
		}
		fc, err := m.load(m.ctx)
		return loadedMsg{fc: fc, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case loadedMsg:
		if msg.err != nil {
			m.state = stateFailed
			m.err = msg.err
			return m, nil
		}
		m.ready(msg.fc)
	case runMsg:
		msg.fn()
	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			return m, cmd
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	m.redraw()
	return m, nil
}

func (m *Model) ready(fc *geo.FeatureCollection) {
	cfg := m.cfg
	axis, err := timeline.Build(fc, cfg.YearField, cfg.StartYear, cfg.EndYear)
	var years []int
	if err != nil {
		m.state = stateNoData
	} else {
		m.state = stateReady
		m.axis = axis
		years = axis.Years
		m.counts = timeline.Counts(fc, cfg.YearField, years)
	}

	m.scene = viz.NewScene(fc)
	m.box = cfg.Area()
	if m.box.Empty() {
		if b, ok := fc.Bounds(); ok {
			m.box = b
		}
	}

	m.ctrl = playback.New(playback.Config{
		Years:    years,
		Field:    cfg.YearField,
		Mode:     cfg.Mode,
		Interval: cfg.Interval(),
	}, m.screen, m.sched)
	if err != nil {
		m.screen.SetLabel(timeline.Label(err))
		m.screen.SetPlaying(false)
		return
	}
	m.ctrl.Init(cfg.Autoplay)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.ctrl != nil {
			m.ctrl.Stop()
		}
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, m.keys.Theme):
		m.theme = viz.NextTheme(m.theme.Name)
		return nil
	}
	if m.ctrl == nil {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.ctrl.Toggle()
	case key.Matches(msg, m.keys.Prev):
		m.step(-1)
	case key.Matches(msg, m.keys.Next):
		m.step(1)
	case key.Matches(msg, m.keys.First):
		if years := m.ctrl.Years(); len(years) > 0 {
			m.ctrl.Seek(float64(years[0]))
		}
	case key.Matches(msg, m.keys.Last):
		if years := m.ctrl.Years(); len(years) > 0 {
			m.ctrl.Seek(float64(years[len(years)-1]))
		}
	case key.Matches(msg, m.keys.Slower):
		m.changeSpeed(true)
	case key.Matches(msg, m.keys.Faster):
		m.changeSpeed(false)
	}
	return nil
}

// step moves the slider by one year without wrapping.
func (m *Model) step(delta int) {
	years := m.ctrl.Years()
	if len(years) == 0 {
		return
	}
	i := timeline.Index(years, m.ctrl.Year()) + delta
	i = min(max(i, 0), len(years)-1)
	m.ctrl.Seek(float64(years[i]))
}

func (m *Model) changeSpeed(slower bool) {
	ms := int(m.ctrl.Interval().Milliseconds())
	if s, ok := adjacentSpeed(m.cfg.Speeds, ms, slower); ok {
		_ = m.ctrl.SetSpeed(time.Duration(s.Ms) * time.Millisecond)
	}
}

// adjacentSpeed returns the closest selector entry slower (longer interval)
// or faster than ms.
func adjacentSpeed(speeds []config.Speed, ms int, slower bool) (config.Speed, bool) {
	var best config.Speed
	found := false
	for _, s := range speeds {
		if slower && s.Ms > ms && (!found || s.Ms < best.Ms) {
			best, found = s, true
		}
		if !slower && s.Ms < ms && (!found || s.Ms > best.Ms) {
			best, found = s, true
		}
	}
	return best, found
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.ctrl == nil || msg.Button != tea.MouseButtonLeft {
		return
	}
	if msg.Action != tea.MouseActionPress && msg.Action != tea.MouseActionMotion {
		return
	}
	if msg.Y != m.sliderRow() {
		return
	}
	if raw, ok := m.sliderValue(msg.X); ok {
		m.ctrl.Seek(raw)
	}
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cols, rows := m.mapSize()
	m.layers = viz.NewMapLayers(cols, rows)
	m.screen.dirty = true
}

func (m Model) mapSize() (cols, rows int) {
	cols = max(m.width-2*marginX, 10)
	rows = max(m.height-headerRows-footerRows, 4)
	return cols, rows
}

func (m Model) sliderRow() int {
	_, rows := m.mapSize()
	return headerRows + rows + 1
}

func (m Model) sliderWidth() int {
	cols, _ := m.mapSize()
	return max(cols-3-labelCols, 10)
}

// sliderValue converts a terminal column on the slider track into a raw
// slider value between the first and last year.
func (m Model) sliderValue(x int) (float64, bool) {
	if m.axis == nil {
		return 0, false
	}
	w := m.sliderWidth()
	rel := x - sliderX0
	if rel < 0 || rel >= w {
		return 0, false
	}
	first, last := float64(m.axis.First()), float64(m.axis.Last())
	if w == 1 {
		return first, true
	}
	return first + float64(rel)/float64(w-1)*(last-first), true
}

func (m *Model) redraw() {
	if m.scene == nil || m.state != stateReady || !m.screen.dirty {
		return
	}
	expr, ok := m.screen.filters[playback.FillLayer]
	if !ok {
		return
	}
	m.visible = m.layers.Draw(m.scene, m.layers.Projection(m.box), expr)
	m.screen.dirty = false
}

func (m Model) View() string {
	var b strings.Builder
	pad := strings.Repeat(" ", marginX)

	switch m.state {
	case stateLoading:
		b.WriteString("\n" + pad + m.spinner.View() + " loading " + viz.Subtle.Render(m.cfg.Source) + "\n")
		return b.String()
	case stateFailed:
		errStyle := lipgloss.NewStyle().Foreground(m.theme.Error)
		b.WriteString("\n" + pad + errStyle.Render(m.err.Error()) + "\n\n")
		b.WriteString(pad + m.help.View(m.keys) + "\n")
		return b.String()
	}

	cols, rows := m.mapSize()
	b.WriteString(pad + viz.Title(m.theme, "cutlapse") + "  " + viz.Subtle.Render(filepath.Base(m.cfg.Source)))
	if expr, ok := m.screen.filters[playback.FillLayer]; ok && m.state == stateReady {
		b.WriteString("  " + viz.KeyHint.Render(expr.String()))
	}
	b.WriteString("\n" + pad + viz.Separator(cols) + "\n")

	if m.state == stateNoData {
		notice := lipgloss.NewStyle().Foreground(m.theme.Muted).Width(cols).Height(rows).
			Align(lipgloss.Center, lipgloss.Center).Render(m.screen.label)
		for _, line := range strings.Split(notice, "\n") {
			b.WriteString(pad + line + "\n")
		}
	} else {
		for _, line := range strings.Split(m.layers.Render(m.theme), "\n") {
			b.WriteString(pad + line + "\n")
		}
	}

	b.WriteString("\n" + pad + m.sliderLine() + "\n")
	b.WriteString(pad + m.infoLine() + "\n")
	b.WriteString(pad + m.help.View(m.keys))
	return b.String()
}

func (m Model) sliderLine() string {
	w := m.sliderWidth()
	glyphColor := m.theme.Paused
	if m.screen.playing {
		glyphColor = m.theme.Playing
	}
	glyph := lipgloss.NewStyle().Bold(true).Foreground(glyphColor).Render(playback.Glyph(m.screen.playing))

	track := viz.Subtle.Render(strings.Repeat("─", w))
	if m.axis != nil {
		pos := 0.0
		if span := m.axis.Last() - m.axis.First(); span > 0 {
			pos = float64(m.screen.slider-m.axis.First()) / float64(span)
		}
		track = viz.Slider(m.theme, pos, w)
	}
	label := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Text).Render(m.screen.label)
	return glyph + "  " + track + "  " + label
}

func (m Model) infoLine() string {
	var b strings.Builder
	speed := fmt.Sprintf("%dms", m.cfg.SpeedMs)
	if m.ctrl != nil {
		ms := int(m.ctrl.Interval().Milliseconds())
		speed = fmt.Sprintf("%dms", ms)
		if len(m.cfg.Speeds) > 0 {
			if s := m.cfg.Speeds[config.SpeedIndex(m.cfg.Speeds, ms)]; s.Ms == ms {
				speed = s.Label
			}
		}
	}
	b.WriteString(viz.MetricLabel.Render("speed ") + viz.MetricValue.Render(speed))
	b.WriteString("  " + viz.MetricLabel.Render("mode ") + viz.MetricValue.Render(m.cfg.Mode.String()))
	if m.state == stateReady {
		b.WriteString("  " + viz.MetricLabel.Render("shown ") + viz.MetricValue.Render(numbers.Sprintf("%d", m.visible)))
		if len(m.counts) > 1 {
			values := make([]float64, len(m.counts))
			mark := -1
			for i, c := range m.counts {
				values[i] = float64(c.Count)
				if c.Year == m.ctrl.Year() {
					mark = i
				}
			}
			b.WriteString("  " + viz.SparklineChart(m.theme, values, mark, min(len(values), 32)))
		}
	}
	return b.String()
}

// Run starts the viewer and blocks until it exits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	var loop *loopScheduler
	if opts.Scheduler == nil {
		loop = &loopScheduler{}
		opts.Scheduler = loop
	}
	m := NewModel(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if loop != nil {
		loop.send = p.Send
	}

	final, err := p.Run()
	if fm, ok := final.(Model); ok && fm.ctrl != nil {
		fm.ctrl.Stop()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
