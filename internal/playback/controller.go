package playback

import (
	"errors"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/san-kum/cutlapse/internal/filter"
	"github.com/san-kum/cutlapse/internal/timeline"
)

const (
	FillLayer = "cutblock-fill"
	LineLayer = "cutblock-line"

	GlyphPlay  = "▶"
	GlyphPause = "⏸"

	DefaultInterval = 200 * time.Millisecond
)

var ErrInvalidInterval = errors.New("playback: interval must be positive")

// Layers lists the layers that receive the year filter, in update order.
var Layers = []string{FillLayer, LineLayer}

// Sink receives view updates. Calls are made with the controller locked and
// must not call back into the controller.
type Sink interface {
	SetSlider(year int)
	SetLabel(text string)
	SetFilter(layer string, expr filter.Expr)
	SetPlaying(playing bool)
}

// Glyph returns the play/pause button text for a play state.
func Glyph(playing bool) string {
	if playing {
		return GlyphPause
	}
	return GlyphPlay
}

type nopSink struct{}

func (nopSink) SetSlider(int)                 {}
func (nopSink) SetLabel(string)               {}
func (nopSink) SetFilter(string, filter.Expr) {}
func (nopSink) SetPlaying(bool)               {}

type Config struct {
	Years    []int
	Field    string
	Mode     filter.Mode
	Interval time.Duration
}

// State is a point-in-time view of a controller.
type State struct {
	Year       int         `json:"year"`
	Playing    bool        `json:"playing"`
	IntervalMs int64       `json:"interval_ms"`
	Years      []int       `json:"years"`
	Label      string      `json:"label"`
	Filter     filter.Expr `json:"filter"`
}

type Controller struct {
	mu sync.Mutex

	years    []int
	field    string
	mode     filter.Mode
	interval time.Duration

	current int
	playing bool

	// gen identifies the live timer handle; ticks from older handles are
	// dropped.
	gen    uint64
	cancel func()

	sink  Sink
	sched Scheduler
}

// New creates a stopped controller. years must be sorted ascending without
// duplicates. A nil sink discards updates and a nil scheduler uses
// TickerScheduler.
func New(cfg Config, sink Sink, sched Scheduler) *Controller {
	if sink == nil {
		sink = nopSink{}
	}
	if sched == nil {
		sched = TickerScheduler{}
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	c := &Controller{
		years:    slices.Clone(cfg.Years),
		field:    cfg.Field,
		mode:     cfg.Mode,
		interval: interval,
		sink:     sink,
		sched:    sched,
	}
	if len(c.years) > 0 {
		c.current = c.years[0]
	}
	return c
}

// Init selects the first year and optionally starts playback.
func (c *Controller) Init(autoplay bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.years) == 0 {
		return
	}
	c.setYearLocked(c.years[0])
	c.sink.SetPlaying(false)
	if autoplay {
		c.startLocked()
	}
}

// SetYear makes y the current year and pushes it to every view.
func (c *Controller) SetYear(y int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setYearLocked(y)
}

func (c *Controller) setYearLocked(y int) {
	c.current = y
	c.sink.SetSlider(y)
	c.sink.SetLabel(strconv.Itoa(y))
	expr := filter.New(c.mode, c.field, y)
	for _, layer := range Layers {
		c.sink.SetFilter(layer, expr)
	}
}

// Stop cancels the timer and marks playback stopped. Calling it while stopped
// is harmless.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	c.cancelTimerLocked()
	c.playing = false
	c.sink.SetPlaying(false)
}

func (c *Controller) cancelTimerLocked() {
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Start begins advancing one year per interval. It does nothing when there
// are no years.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startLocked()
}

func (c *Controller) startLocked() {
	if len(c.years) == 0 {
		return
	}
	c.cancelTimerLocked()
	c.playing = true
	c.sink.SetPlaying(true)
	gen := c.gen
	c.cancel = c.sched.Every(c.interval, func() { c.tick(gen) })
}

func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || !c.playing {
		return
	}
	c.setYearLocked(timeline.Next(c.years, c.current))
}

// Toggle starts playback when stopped and stops it when playing.
func (c *Controller) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing {
		c.stopLocked()
		return
	}
	c.startLocked()
}

// SetSpeed changes the tick interval. While playing the timer is restarted
// at the new interval; the current year is unchanged.
func (c *Controller) SetSpeed(interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interval = interval
	if !c.playing {
		return nil
	}
	c.stopLocked()
	c.startLocked()
	return nil
}

// Seek handles slider input: playback stops and the year closest to raw is
// selected.
func (c *Controller) Seek(raw float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	if len(c.years) == 0 {
		return
	}
	c.setYearLocked(timeline.Nearest(c.years, raw))
}

func (c *Controller) Year() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Controller) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

func (c *Controller) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interval
}

// Years returns a copy of the year list.
func (c *Controller) Years() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.years)
}

// Filter returns the filter for the current year.
func (c *Controller) Filter() filter.Expr {
	c.mu.Lock()
	defer c.mu.Unlock()
	return filter.New(c.mode, c.field, c.current)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Year:       c.current,
		Playing:    c.playing,
		IntervalMs: c.interval.Milliseconds(),
		Years:      slices.Clone(c.years),
		Label:      strconv.Itoa(c.current),
		Filter:     filter.New(c.mode, c.field, c.current),
	}
}
