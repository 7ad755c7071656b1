package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/cutlapse/internal/timeline"
)

// YearsReport is the JSON form of a year axis.
type YearsReport struct {
	Source string           `json:"source"`
	Field  string           `json:"field"`
	Start  int              `json:"start_year"`
	End    int              `json:"end_year"`
	Years  []int            `json:"years"`
	Counts []timeline.Count `json:"counts"`
}

func NewYearsReport(source string, axis *timeline.Axis, counts []timeline.Count) YearsReport {
	return YearsReport{
		Source: source,
		Field:  axis.Field,
		Start:  axis.Range.Start,
		End:    axis.Range.End,
		Years:  axis.Years,
		Counts: counts,
	}
}

func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// ExportJSON writes v to path, or to stdout when path is "-".
func ExportJSON(path string, v any) error {
	if path == "-" {
		return WriteJSON(os.Stdout, v)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, v)
}
