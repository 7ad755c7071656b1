package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/san-kum/cutlapse/internal/filter"
	"github.com/san-kum/cutlapse/internal/geo"
	"github.com/san-kum/cutlapse/internal/playback"
	"github.com/san-kum/cutlapse/internal/viz"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// PlainRenderer is a playback sink that writes each frame to w. With a
// scene attached it redraws the map on every frame, otherwise it prints one
// status line per year.
type PlainRenderer struct {
	mu sync.Mutex
	w  io.Writer

	scene  *viz.Scene
	layers *viz.MapLayers
	box    geo.BBox
	theme  viz.Theme

	label   string
	playing bool

	limit  int
	frames int
	done   chan struct{}
}

var _ playback.Sink = (*PlainRenderer)(nil)

func NewPlainRenderer(w io.Writer) *PlainRenderer {
	return &PlainRenderer{w: w, theme: viz.CurrentTheme, done: make(chan struct{})}
}

// WithMap draws scene inside box on a cols x rows canvas for every frame.
func (r *PlainRenderer) WithMap(scene *viz.Scene, box geo.BBox, cols, rows int, theme viz.Theme) *PlainRenderer {
	r.scene = scene
	r.box = box
	r.layers = viz.NewMapLayers(cols, rows)
	r.theme = theme
	return r
}

// StopAfter closes Done once n frames have been written. Zero means never.
func (r *PlainRenderer) StopAfter(n int) *PlainRenderer {
	r.limit = n
	return r
}

func (r *PlainRenderer) Done() <-chan struct{} { return r.done }

func (r *PlainRenderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *PlainRenderer) SetSlider(int) {}

func (r *PlainRenderer) SetLabel(text string) {
	r.mu.Lock()
	r.label = text
	r.mu.Unlock()
}

func (r *PlainRenderer) SetPlaying(playing bool) {
	r.mu.Lock()
	r.playing = playing
	r.mu.Unlock()
}

// SetFilter renders a frame once the last layer has its filter.
func (r *PlainRenderer) SetFilter(layer string, expr filter.Expr) {
	if layer != playback.Layers[len(playback.Layers)-1] {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.limit > 0 && r.frames >= r.limit {
		return
	}
	r.render(expr)
	r.frames++
	if r.limit > 0 && r.frames == r.limit {
		close(r.done)
	}
}

func (r *PlainRenderer) render(expr filter.Expr) {
	if r.layers == nil {
		fmt.Fprintf(r.w, "%s  %s  %s\n", playback.Glyph(r.playing), r.label, expr)
		return
	}

	n := r.layers.Draw(r.scene, r.layers.Projection(r.box), expr)
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  %s  %s\n", playback.Glyph(r.playing), r.label, expr))
	b.WriteString("  " + strings.Repeat("-", r.layers.Fill.Width) + "\n")
	for _, row := range strings.Split(r.layers.Render(r.theme), "\n") {
		b.WriteString("  " + row + "\n")
	}
	b.WriteString("  " + strings.Repeat("-", r.layers.Fill.Width) + "\n")
	b.WriteString(fmt.Sprintf("  %s features\n", numbers.Sprintf("%d", n)))
	fmt.Fprint(r.w, b.String())
}

func (r *PlainRenderer) Start() {
	if r.layers != nil {
		fmt.Fprint(r.w, hideCursor)
	}
}

func (r *PlainRenderer) Stop() {
	if r.layers != nil {
		fmt.Fprint(r.w, showCursor)
	}
}
