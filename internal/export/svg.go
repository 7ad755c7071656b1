package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/cutlapse/internal/filter"
	"github.com/san-kum/cutlapse/internal/geo"
	"github.com/san-kum/cutlapse/internal/viz"
)

// Style is the paint of an exported frame.
type Style struct {
	Background  string
	Fill        string
	FillOpacity float64
	Line        string
	LineWidth   float64
	Text        string
}

// DefaultStyle matches the web viewer's cutblock layers.
var DefaultStyle = Style{
	Background:  "#f2efe9",
	Fill:        "#670000",
	FillOpacity: 0.55,
	Line:        "#670000",
	LineWidth:   1,
	Text:        "#222222",
}

// FrameSVG renders the features of scene matching expr as an SVG document of
// width x height pixels covering box. It returns the document and the number
// of features drawn.
func FrameSVG(scene *viz.Scene, box geo.BBox, expr filter.Expr, width, height int, style Style) (string, int) {
	proj := viz.NewProjection(box, width, height)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s" fill-opacity="%.2f" fill-rule="evenodd" stroke="%s" stroke-width="%.1f" stroke-linejoin="round">
`, width, height, width, height, style.Background, style.Fill, style.FillOpacity, style.Line, style.LineWidth))

	n := 0
	for _, f := range scene.Visible(expr) {
		d := pathData(proj, f.Rings, f.Closed)
		if d == "" {
			continue
		}
		if f.Closed {
			sb.WriteString(`<path d="` + d + `"/>` + "\n")
		} else {
			sb.WriteString(`<path fill="none" d="` + d + `"/>` + "\n")
		}
		n++
	}

	sb.WriteString("</g>\n")
	sb.WriteString(fmt.Sprintf(`<text x="12" y="28" font-family="sans-serif" font-size="20" fill="%s">%d</text>
`, style.Text, expr.Year))
	sb.WriteString("</svg>\n")
	return sb.String(), n
}

func pathData(proj viz.Projection, rings [][]geo.Point, closed bool) string {
	var sb strings.Builder
	for _, ring := range rings {
		if len(ring) < 2 {
			continue
		}
		for i, pt := range ring {
			x, y := proj.XY(pt)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		if closed {
			sb.WriteString(" Z")
		}
		sb.WriteByte(' ')
	}
	return strings.TrimSpace(sb.String())
}
