package timeline

import (
	"errors"
	"reflect"
	"testing"

	"github.com/san-kum/cutlapse/internal/geo"
)

const field = "HARVEST_START_YEAR_CALENDAR"

func collection(values ...any) *geo.FeatureCollection {
	fc := &geo.FeatureCollection{Type: "FeatureCollection"}
	for _, v := range values {
		fc.Features = append(fc.Features, geo.Feature{
			Type:       "Feature",
			Properties: map[string]any{field: v},
		})
	}
	return fc
}

func intp(v int) *int { return &v }

func TestCollect(t *testing.T) {
	fc := collection(2000.0, "1990", 1995.0, 2000.0, nil, "n/a", 1995.5, "", true)
	fc.Features = append(fc.Features, geo.Feature{Type: "Feature"})

	got := Collect(fc, field)
	want := []int{1990, 1995, 2000}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Collect() = %v, want %v", got, want)
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("years not strictly ascending: %v", got)
		}
	}
}

func TestParseBound(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"2001", 2001, true},
		{" 1990 ", 1990, true},
		{"", 0, false},
		{"abc", 0, false},
		{"20x1", 0, false},
		{"1999.5", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseBound(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseBound(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestResolve(t *testing.T) {
	base := []int{1990, 1995, 2000, 2005, 2010, 2015, 2020}
	tests := []struct {
		name       string
		start, end *int
		want       Range
	}{
		{"defaults", nil, nil, Range{1990, 2020}},
		{"inverted and out of span", intp(2023), intp(1900), Range{1990, 2020}},
		{"inside", intp(1995), intp(2010), Range{1995, 2010}},
		{"inverted inside", intp(2010), intp(1995), Range{1995, 2010}},
		{"start only", intp(2004), nil, Range{2004, 2020}},
		{"end below span", nil, intp(1980), Range{1990, 1990}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(base, tt.start, tt.end); got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestWindow(t *testing.T) {
	base := []int{1990, 1995, 2000, 2005}
	got := Window(base, Range{1993, 2000})
	if !reflect.DeepEqual(got, []int{1995, 2000}) {
		t.Errorf("Window() = %v", got)
	}
	if got := Window(base, Range{1990, 1980}); len(got) != 0 {
		t.Errorf("expected empty window, got %v", got)
	}
}

func TestNearest(t *testing.T) {
	years := []int{1990, 1995, 2000}
	tests := []struct {
		raw  float64
		want int
	}{
		{1990, 1990},
		{1992, 1990},
		{1992.5, 1990},
		{1993, 1995},
		{1997.5, 1995},
		{1998, 2000},
		{2100, 2000},
		{1800, 1990},
	}
	for _, tt := range tests {
		if got := Nearest(years, tt.raw); got != tt.want {
			t.Errorf("Nearest(%v) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestNextPrev(t *testing.T) {
	years := []int{1990, 1995, 2000}
	if got := Next(years, 1990); got != 1995 {
		t.Errorf("Next(1990) = %d", got)
	}
	if got := Next(years, 2000); got != 1990 {
		t.Errorf("Next(2000) = %d, want wrap to 1990", got)
	}
	if got := Next(years, 1993); got != 1990 {
		t.Errorf("Next(non-member) = %d, want 1990", got)
	}
	if got := Prev(years, 1990); got != 2000 {
		t.Errorf("Prev(1990) = %d, want 2000", got)
	}
	if got := Prev(years, 2000); got != 1995 {
		t.Errorf("Prev(2000) = %d", got)
	}
}

func TestBuild(t *testing.T) {
	fc := collection(1990.0, 1995.0, 2000.0, 2005.0)

	axis, err := Build(fc, field, intp(1995), intp(2000))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !reflect.DeepEqual(axis.Years, []int{1995, 2000}) {
		t.Errorf("years = %v", axis.Years)
	}
	if axis.First() != 1995 || axis.Last() != 2000 {
		t.Errorf("first/last = %d/%d", axis.First(), axis.Last())
	}

	_, err = Build(collection("x", nil), field, nil, nil)
	if !errors.Is(err, ErrNoYears) {
		t.Errorf("expected ErrNoYears, got %v", err)
	}
	if Label(err) != "No years" {
		t.Errorf("Label = %q", Label(err))
	}

	_, err = Build(fc, field, intp(1991), intp(1994))
	if !errors.Is(err, ErrNoYearsInRange) {
		t.Errorf("expected ErrNoYearsInRange, got %v", err)
	}
	if Label(err) != "No years in range" {
		t.Errorf("Label = %q", Label(err))
	}
}

func TestCounts(t *testing.T) {
	fc := collection(1985.0, 1990.0, 1990.0, 1995.0, "bad", 2000.0)
	got := Counts(fc, field, []int{1990, 1995, 2000})
	want := []Count{
		{Year: 1990, Count: 2, Cumulative: 3},
		{Year: 1995, Count: 1, Cumulative: 4},
		{Year: 2000, Count: 1, Cumulative: 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Counts() = %+v, want %+v", got, want)
	}
}
