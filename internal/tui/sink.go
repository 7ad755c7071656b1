package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/cutlapse/internal/filter"
	"github.com/san-kum/cutlapse/internal/playback"
)

// screen is the view state the controller writes into. It is only touched
// from the Bubble Tea loop.
type screen struct {
	slider  int
	label   string
	playing bool
	filters map[string]filter.Expr
	dirty   bool
}

var _ playback.Sink = (*screen)(nil)

func newScreen() *screen {
	return &screen{filters: make(map[string]filter.Expr), dirty: true}
}

func (s *screen) SetSlider(year int)   { s.slider = year }
func (s *screen) SetLabel(text string) { s.label = text }
func (s *screen) SetPlaying(p bool)    { s.playing = p }

func (s *screen) SetFilter(layer string, expr filter.Expr) {
	if s.filters[layer] != expr {
		s.dirty = true
	}
	s.filters[layer] = expr
}

// runMsg carries a scheduled callback into the Bubble Tea loop.
type runMsg struct{ fn func() }

// loopScheduler fires ticks by posting runMsg values to the program, so the
// controller is only ever driven from Update.
type loopScheduler struct {
	send func(tea.Msg)
}

func (s *loopScheduler) Every(interval time.Duration, fn func()) func() {
	return playback.TickerScheduler{}.Every(interval, func() {
		s.send(runMsg{fn: fn})
	})
}
