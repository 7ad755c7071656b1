package server

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/san-kum/cutlapse/internal/filter"
	"github.com/san-kum/cutlapse/internal/geo"
	"github.com/san-kum/cutlapse/internal/playback"
	"github.com/san-kum/cutlapse/internal/timeline"
)

var (
	ErrInvalidYear  = errors.New("year must be an integer")
	ErrInvalidValue = errors.New("value must be a number")
	ErrInvalidSpeed = errors.New("ms must be a positive integer")
)

type Handler struct {
	Data    *Dataset
	Session *Session
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api")
	api.GET("/years", h.years)
	api.GET("/filter", h.filterExpr)
	api.GET("/features", h.features)

	api.GET("/playback", h.playbackState)
	pb := api.Group("/playback")
	pb.POST("/play", h.play)
	pb.POST("/pause", h.pause)
	pb.POST("/toggle", h.toggle)
	pb.POST("/seek", h.seek)
	pb.POST("/speed", h.speed)

	s.GET("/healthz", h.health)
}

// New returns a Hertz server listening on addr with the routes of h.
func New(addr string, h Handler) *server.Hertz {
	s := server.Default(server.WithHostPorts(addr))
	h.RegisterRoutes(s)
	return s
}

type yearsResponse struct {
	Field  string           `json:"field"`
	Base   []int            `json:"base"`
	Range  timeline.Range   `json:"range"`
	Years  []int            `json:"years"`
	Counts []timeline.Count `json:"counts"`
}

type filterResponse struct {
	Year       int         `json:"year"`
	Mode       filter.Mode `json:"mode"`
	Expression filter.Expr `json:"expression"`
	Text       string      `json:"text"`
	Layers     []string    `json:"layers"`
}

func (h Handler) health(c context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]string{"status": "ok"})
}

// years resolves the axis for the startYear/endYear query bounds. Missing or
// malformed bounds fall back to the data range.
func (h Handler) years(c context.Context, ctx *app.RequestContext) {
	start := queryBound(ctx, "startYear")
	end := queryBound(ctx, "endYear")

	axis, err := h.Data.Axis(start, end)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, yearsResponse{
		Field:  axis.Field,
		Base:   axis.Base,
		Range:  axis.Range,
		Years:  axis.Years,
		Counts: timeline.Counts(h.Data.Features, h.Data.Field, axis.Years),
	})
}

func (h Handler) filterExpr(c context.Context, ctx *app.RequestContext) {
	expr, err := h.exprFromQuery(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, filterResponse{
		Year:       expr.Year,
		Mode:       expr.Mode,
		Expression: expr,
		Text:       expr.String(),
		Layers:     playback.Layers,
	})
}

func (h Handler) features(c context.Context, ctx *app.RequestContext) {
	expr, err := h.exprFromQuery(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, h.Data.Features.Filter(func(f geo.Feature) bool {
		return expr.MatchFeature(f)
	}))
}

// exprFromQuery builds the filter for ?year= and ?mode=, defaulting to the
// session's current year and the dataset mode.
func (h Handler) exprFromQuery(ctx *app.RequestContext) (filter.Expr, error) {
	year := h.Session.Controller().Year()
	if raw := string(ctx.Query("year")); raw != "" {
		y, ok := timeline.ParseBound(raw)
		if !ok {
			return filter.Expr{}, ErrInvalidYear
		}
		year = y
	}
	mode := h.Data.Mode
	if raw := string(ctx.Query("mode")); raw != "" {
		m, err := filter.ParseMode(raw)
		if err != nil {
			return filter.Expr{}, err
		}
		mode = m
	}
	return filter.New(mode, h.Data.Field, year), nil
}

func (h Handler) playbackState(c context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, h.Session.State())
}

func (h Handler) play(c context.Context, ctx *app.RequestContext) {
	h.Session.Controller().Start()
	ctx.JSON(consts.StatusOK, h.Session.State())
}

func (h Handler) pause(c context.Context, ctx *app.RequestContext) {
	h.Session.Controller().Stop()
	ctx.JSON(consts.StatusOK, h.Session.State())
}

func (h Handler) toggle(c context.Context, ctx *app.RequestContext) {
	h.Session.Controller().Toggle()
	ctx.JSON(consts.StatusOK, h.Session.State())
}

func (h Handler) seek(c context.Context, ctx *app.RequestContext) {
	raw, err := strconv.ParseFloat(strings.TrimSpace(string(ctx.Query("value"))), 64)
	if err != nil || math.IsNaN(raw) || math.IsInf(raw, 0) {
		writeError(ctx, ErrInvalidValue)
		return
	}
	h.Session.Controller().Seek(raw)
	ctx.JSON(consts.StatusOK, h.Session.State())
}

func (h Handler) speed(c context.Context, ctx *app.RequestContext) {
	ms, err := strconv.Atoi(strings.TrimSpace(string(ctx.Query("ms"))))
	if err != nil || ms <= 0 {
		writeError(ctx, ErrInvalidSpeed)
		return
	}
	if err := h.Session.Controller().SetSpeed(time.Duration(ms) * time.Millisecond); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, h.Session.State())
}

func queryBound(ctx *app.RequestContext, key string) *int {
	v, ok := timeline.ParseBound(string(ctx.Query(key)))
	if !ok {
		return nil
	}
	return &v
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, timeline.ErrNoYears):
		writeErrorBody(ctx, consts.StatusNotFound, "no_years", timeline.Label(err))
	case errors.Is(err, timeline.ErrNoYearsInRange):
		writeErrorBody(ctx, consts.StatusNotFound, "no_years_in_range", timeline.Label(err))
	case errors.Is(err, ErrInvalidYear):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_year", err.Error())
	case errors.Is(err, ErrInvalidValue):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_value", err.Error())
	case errors.Is(err, ErrInvalidSpeed), errors.Is(err, playback.ErrInvalidInterval):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_speed", err.Error())
	case errors.Is(err, filter.ErrUnknownMode):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_mode", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
