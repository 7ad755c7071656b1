package viz

import (
	"image"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/cutlapse/internal/filter"
	"github.com/san-kum/cutlapse/internal/geo"
)

// Projection maps lon/lat onto a W x H pixel grid covering Box.
type Projection struct {
	Box  geo.BBox
	W, H int
}

func NewProjection(box geo.BBox, w, h int) Projection {
	return Projection{Box: box, W: w, H: h}
}

// Project returns the pixel for pt. Points outside Box land outside the grid.
func (p Projection) Project(pt geo.Point) image.Point {
	x, y := p.XY(pt)
	return image.Point{X: int(math.Round(x)), Y: int(math.Round(y))}
}

// XY is Project without rounding.
func (p Projection) XY(pt geo.Point) (x, y float64) {
	lonSpan := p.Box.MaxLon - p.Box.MinLon
	latSpan := p.Box.MaxLat - p.Box.MinLat
	if lonSpan == 0 {
		lonSpan = 1
	}
	if latSpan == 0 {
		latSpan = 1
	}
	x = (pt.Lon - p.Box.MinLon) / lonSpan * float64(p.W-1)
	y = (p.Box.MaxLat - pt.Lat) / latSpan * float64(p.H-1)
	return x, y
}

func (p Projection) Ring(ring []geo.Point) []image.Point {
	out := make([]image.Point, len(ring))
	for i, pt := range ring {
		out[i] = p.Project(pt)
	}
	return out
}

// SceneFeature is a feature with its rings decoded once.
type SceneFeature struct {
	Properties map[string]any
	Rings      [][]geo.Point
	Closed     bool
}

// Scene holds pre-decoded geometry so redraws do not touch JSON.
type Scene struct {
	Features []SceneFeature
	Skipped  int
}

// NewScene decodes every feature's rings. Features whose geometry fails to
// decode are counted in Skipped and left out.
func NewScene(fc *geo.FeatureCollection) *Scene {
	s := &Scene{Features: make([]SceneFeature, 0, len(fc.Features))}
	for _, f := range fc.Features {
		rings, err := f.Geometry.Rings()
		if err != nil {
			s.Skipped++
			continue
		}
		s.Features = append(s.Features, SceneFeature{
			Properties: f.Properties,
			Rings:      rings,
			Closed:     f.Geometry.Closed(),
		})
	}
	return s
}

// Visible returns the features matching expr.
func (s *Scene) Visible(expr filter.Expr) []SceneFeature {
	out := make([]SceneFeature, 0)
	for _, f := range s.Features {
		if expr.Match(f.Properties) {
			out = append(out, f)
		}
	}
	return out
}

// MapLayers pairs a fill canvas with an outline canvas of the same size.
type MapLayers struct {
	Fill *Canvas
	Line *Canvas
}

func NewMapLayers(w, h int) *MapLayers {
	return &MapLayers{Fill: NewCanvas(w, h), Line: NewCanvas(w, h)}
}

func (l *MapLayers) Clear() {
	l.Fill.Clear()
	l.Line.Clear()
}

// Projection covers box with the layers' sub-pixel grid.
func (l *MapLayers) Projection(box geo.BBox) Projection {
	return NewProjection(box, l.Fill.SubWidth(), l.Fill.SubHeight())
}

// Draw clears the layers and draws the features of s matching expr. It
// returns how many features were drawn.
func (l *MapLayers) Draw(s *Scene, proj Projection, expr filter.Expr) int {
	l.Clear()
	n := 0
	for _, f := range s.Visible(expr) {
		rings := make([][]image.Point, len(f.Rings))
		for i, r := range f.Rings {
			rings[i] = proj.Ring(r)
		}
		if f.Closed {
			l.Fill.FillPolygon(rings)
		}
		for _, r := range rings {
			if f.Closed {
				l.Line.DrawRing(r)
				continue
			}
			for i := 1; i < len(r); i++ {
				l.Line.DrawLine(r[i-1].X, r[i-1].Y, r[i].X, r[i].Y)
			}
		}
		n++
	}
	return n
}

// Render composes both layers. Cells with outline dots take the line color,
// other lit cells the fill color.
func (l *MapLayers) Render(theme Theme) string {
	fill := lipgloss.NewStyle().Foreground(theme.Fill)
	line := lipgloss.NewStyle().Foreground(theme.Line)
	var b strings.Builder
	for row := 0; row < l.Fill.Height; row++ {
		for col := 0; col < l.Fill.Width; col++ {
			f, ln := l.Fill.Grid[row][col], l.Line.Grid[row][col]
			switch {
			case ln != blank:
				b.WriteString(line.Render(string(f | ln)))
			case f != blank:
				b.WriteString(fill.Render(string(f)))
			default:
				b.WriteRune(' ')
			}
		}
		if row < l.Fill.Height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
