package timeline

import "github.com/san-kum/cutlapse/internal/geo"

// Axis is the year list driving the slider and playback.
type Axis struct {
	Field string `json:"field"`
	Base  []int  `json:"base"`
	Range Range  `json:"range"`
	Years []int  `json:"years"`
}

// Build scans fc and resolves the selectable years. It returns ErrNoYears
// when no feature has a usable year and ErrNoYearsInRange when the overrides
// exclude all of them.
func Build(fc *geo.FeatureCollection, field string, start, end *int) (*Axis, error) {
	base := Collect(fc, field)
	if len(base) == 0 {
		return nil, ErrNoYears
	}
	r := Resolve(base, start, end)
	years := Window(base, r)
	if len(years) == 0 {
		return nil, ErrNoYearsInRange
	}
	return &Axis{Field: field, Base: base, Range: r, Years: years}, nil
}

func (a *Axis) First() int { return a.Years[0] }
func (a *Axis) Last() int  { return a.Years[len(a.Years)-1] }

// Count is the number of features for one year.
type Count struct {
	Year       int `json:"year"`
	Count      int `json:"count"`
	Cumulative int `json:"cumulative"`
}

// Counts tallies features per year for every member of years. Cumulative
// totals include features from years earlier than years[0].
func Counts(fc *geo.FeatureCollection, field string, years []int) []Count {
	perYear := make(map[int]int)
	for _, f := range fc.Features {
		if y, ok := YearOf(f, field); ok {
			perYear[y]++
		}
	}
	out := make([]Count, len(years))
	if len(years) == 0 {
		return out
	}
	running := 0
	for y, n := range perYear {
		if y < years[0] {
			running += n
		}
	}
	for i, y := range years {
		running += perYear[y]
		out[i] = Count{Year: y, Count: perYear[y], Cumulative: running}
	}
	return out
}
