// Package filter builds the year filter applied to the cutblock layers.
package filter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/cutlapse/internal/geo"
)

var (
	ErrUnknownMode = errors.New("filter: unknown mode")
	ErrBadExpr     = errors.New("filter: malformed expression")
)

type Mode int

const (
	// Cumulative shows every feature up to and including the year.
	Cumulative Mode = iota
	// Exact shows only features of the year.
	Exact
)

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cumulative":
		return Cumulative, nil
	case "exact":
		return Exact, nil
	}
	return Cumulative, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) String() string {
	if m == Exact {
		return "exact"
	}
	return "cumulative"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Expr selects features by comparing a numeric property to a year.
type Expr struct {
	Mode  Mode
	Field string
	Year  int
}

func New(mode Mode, field string, year int) Expr {
	return Expr{Mode: mode, Field: field, Year: year}
}

func (e Expr) op() string {
	if e.Mode == Exact {
		return "=="
	}
	return "<="
}

// Match reports whether props pass the filter. Values that do not coerce to
// a number never match.
func (e Expr) Match(props map[string]any) bool {
	v, ok := geo.ToNumber(props[e.Field])
	if !ok {
		return false
	}
	if e.Mode == Exact {
		return v == float64(e.Year)
	}
	return v <= float64(e.Year)
}

// MatchFeature is Match applied to a feature's properties.
func (e Expr) MatchFeature(f geo.Feature) bool {
	return e.Match(f.Properties)
}

func (e Expr) String() string {
	op := "≤"
	if e.Mode == Exact {
		op = "="
	}
	return fmt.Sprintf("%s %s %d", e.Field, op, e.Year)
}

// MarshalJSON encodes the filter as a web map style expression:
// ["<=", ["to-number", ["get", field]], year].
func (e Expr) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode([]any{
		e.op(),
		[]any{"to-number", []any{"get", e.Field}},
		e.Year,
	})
	return bytes.TrimSpace(buf.Bytes()), err
}

// UnmarshalJSON accepts the expressions produced by MarshalJSON.
func (e *Expr) UnmarshalJSON(b []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(b, &parts); err != nil {
		return err
	}
	if len(parts) != 3 {
		return fmt.Errorf("%w: expression needs 3 elements", ErrBadExpr)
	}

	var op string
	if err := json.Unmarshal(parts[0], &op); err != nil {
		return fmt.Errorf("%w: %v", ErrBadExpr, err)
	}
	var mode Mode
	switch op {
	case "<=":
		mode = Cumulative
	case "==":
		mode = Exact
	default:
		return fmt.Errorf("%w: operator %q", ErrBadExpr, op)
	}

	var conv []json.RawMessage
	var fn string
	if err := json.Unmarshal(parts[1], &conv); err != nil || len(conv) != 2 ||
		json.Unmarshal(conv[0], &fn) != nil || fn != "to-number" {
		return fmt.Errorf("%w: expected [\"to-number\", [\"get\", field]]", ErrBadExpr)
	}
	var get []string
	if err := json.Unmarshal(conv[1], &get); err != nil || len(get) != 2 || get[0] != "get" {
		return fmt.Errorf("%w: expected [\"get\", field]", ErrBadExpr)
	}

	var year int
	if err := json.Unmarshal(parts[2], &year); err != nil {
		return fmt.Errorf("%w: year: %v", ErrBadExpr, err)
	}
	*e = Expr{Mode: mode, Field: get[1], Year: year}
	return nil
}
