// Package timeline derives the selectable year axis from feature data.
package timeline

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/cutlapse/internal/geo"
)

var (
	// ErrNoYears indicates no feature carried a usable year value.
	ErrNoYears = errors.New("timeline: no years")

	// ErrNoYearsInRange indicates the resolved range excluded every year.
	ErrNoYearsInRange = errors.New("timeline: no years in range")
)

// Label returns the text shown in place of a year when the axis could not be
// built.
func Label(err error) string {
	switch {
	case errors.Is(err, ErrNoYearsInRange):
		return "No years in range"
	case errors.Is(err, ErrNoYears):
		return "No years"
	case err != nil:
		return err.Error()
	}
	return ""
}

// YearOf reports the integral year stored under field.
func YearOf(f geo.Feature, field string) (int, bool) {
	v, ok := geo.ToNumber(f.Property(field))
	if !ok || v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, false
	}
	return int(v), true
}

// Collect returns the distinct years found under field, ascending.
func Collect(fc *geo.FeatureCollection, field string) []int {
	seen := make(map[int]struct{})
	years := make([]int, 0)
	for _, f := range fc.Features {
		y, ok := YearOf(f, field)
		if !ok {
			continue
		}
		if _, dup := seen[y]; dup {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// ParseBound parses an optional integer bound. Empty or malformed input
// reports false so callers fall back to the data-derived bound.
func ParseBound(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Range is an inclusive year interval.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (r Range) Contains(y int) bool {
	return y >= r.Start && y <= r.End
}

// Resolve turns optional overrides into the effective range over base, which
// must be sorted and non-empty. Missing overrides default to the first/last
// year, inverted bounds are swapped, and both are clamped into base's span.
func Resolve(base []int, start, end *int) Range {
	first, last := base[0], base[len(base)-1]
	r := Range{Start: first, End: last}
	if start != nil {
		r.Start = *start
	}
	if end != nil {
		r.End = *end
	}
	if r.Start > r.End {
		r.Start, r.End = r.End, r.Start
	}
	r.Start = max(r.Start, first)
	r.End = min(r.End, last)
	return r
}

// Window returns the members of base inside r.
func Window(base []int, r Range) []int {
	out := make([]int, 0, len(base))
	for _, y := range base {
		if r.Contains(y) {
			out = append(out, y)
		}
	}
	return out
}

// Nearest returns the member of years closest to raw. Ties go to the earlier
// year. years must be non-empty.
func Nearest(years []int, raw float64) int {
	nearest := years[0]
	best := math.Abs(raw - float64(nearest))
	for _, y := range years {
		if d := math.Abs(raw - float64(y)); d < best {
			best = d
			nearest = y
		}
	}
	return nearest
}

// Index returns the position of y in years, or -1.
func Index(years []int, y int) int {
	i := sort.SearchInts(years, y)
	if i < len(years) && years[i] == y {
		return i
	}
	return -1
}

// Next returns the year after cur, wrapping to the first year after the last
// one or when cur is not a member.
func Next(years []int, cur int) int {
	i := Index(years, cur)
	if i < 0 || i == len(years)-1 {
		return years[0]
	}
	return years[i+1]
}

// Prev is the inverse of Next.
func Prev(years []int, cur int) int {
	i := Index(years, cur)
	if i <= 0 {
		return years[len(years)-1]
	}
	return years[i-1]
}
