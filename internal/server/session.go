package server

import (
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/san-kum/cutlapse/internal/filter"
	"github.com/san-kum/cutlapse/internal/geo"
	"github.com/san-kum/cutlapse/internal/playback"
	"github.com/san-kum/cutlapse/internal/timeline"
)

// Dataset is the loaded feature collection and the year axis settings it is
// served with.
type Dataset struct {
	Source    string
	Features  *geo.FeatureCollection
	Field     string
	Mode      filter.Mode
	StartYear *int
	EndYear   *int
}

// Axis resolves the year list using start and end when given, and the
// dataset defaults otherwise.
func (d *Dataset) Axis(start, end *int) (*timeline.Axis, error) {
	if start == nil {
		start = d.StartYear
	}
	if end == nil {
		end = d.EndYear
	}
	return timeline.Build(d.Features, d.Field, start, end)
}

// Session is the server-side playback shared by every client.
type Session struct {
	ctrl  *playback.Controller
	label string
}

// NewSession builds a stopped session over the dataset's default axis.
func NewSession(d *Dataset, cfg playback.Config, sched playback.Scheduler) *Session {
	s := &Session{}
	axis, err := d.Axis(nil, nil)
	if err != nil {
		s.label = timeline.Label(err)
	} else {
		cfg.Years = axis.Years
	}
	cfg.Field = d.Field
	cfg.Mode = d.Mode
	s.ctrl = playback.New(cfg, logSink{}, sched)
	s.ctrl.Init(false)
	return s
}

func (s *Session) Controller() *playback.Controller { return s.ctrl }

// State is the controller state, labelled with the no-data text when there
// are no years.
func (s *Session) State() playback.State {
	st := s.ctrl.State()
	if len(st.Years) == 0 {
		st.Label = s.label
	}
	return st
}

type logSink struct{}

func (logSink) SetSlider(int)   {}
func (logSink) SetLabel(string) {}

func (logSink) SetFilter(layer string, expr filter.Expr) {
	if layer == playback.FillLayer {
		hlog.Debugf("playback filter %s", expr)
	}
}

func (logSink) SetPlaying(playing bool) {
	hlog.Debugf("playback %s", playback.Glyph(playing))
}
