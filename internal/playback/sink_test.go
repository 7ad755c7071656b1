package playback

import (
	"sync"

	"github.com/san-kum/cutlapse/internal/filter"
)

type recordingSink struct {
	mu      sync.Mutex
	slider  int
	label   string
	filters map[string]filter.Expr
	playing bool
	glyphs  []string
	years   []int
}

func newRecordingSink() *recordingSink {
	return &recordingSink{filters: make(map[string]filter.Expr)}
}

func (s *recordingSink) SetSlider(year int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slider = year
	s.years = append(s.years, year)
}

func (s *recordingSink) SetLabel(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.label = text
}

func (s *recordingSink) SetFilter(layer string, expr filter.Expr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters[layer] = expr
}

func (s *recordingSink) SetPlaying(playing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = playing
	s.glyphs = append(s.glyphs, Glyph(playing))
}

func (s *recordingSink) history() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.years))
	copy(out, s.years)
	return out
}
