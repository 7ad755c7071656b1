package geo

import (
	"encoding/json"
	"fmt"
)

type Point struct {
	Lon, Lat float64
}

type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates,omitempty"`
}

type Feature struct {
	Type       string         `json:"type"`
	ID         any            `json:"id,omitempty"`
	Properties map[string]any `json:"properties"`
	Geometry   *Geometry      `json:"geometry"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Property returns the raw value of key, or nil when the feature has no such
// property.
func (f Feature) Property(key string) any {
	if f.Properties == nil {
		return nil
	}
	return f.Properties[key]
}

// Rings returns the coordinate rings of polygonal and linear geometries.
// Point geometries and unknown types yield no rings.
func (g *Geometry) Rings() ([][]Point, error) {
	if g == nil || len(g.Coordinates) == 0 {
		return nil, nil
	}
	switch g.Type {
	case "LineString":
		var line [][]float64
		if err := json.Unmarshal(g.Coordinates, &line); err != nil {
			return nil, fmt.Errorf("geo: decode %s: %w", g.Type, err)
		}
		return [][]Point{toPoints(line)}, nil
	case "Polygon", "MultiLineString":
		var rings [][][]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("geo: decode %s: %w", g.Type, err)
		}
		out := make([][]Point, 0, len(rings))
		for _, r := range rings {
			out = append(out, toPoints(r))
		}
		return out, nil
	case "MultiPolygon":
		var polys [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &polys); err != nil {
			return nil, fmt.Errorf("geo: decode %s: %w", g.Type, err)
		}
		var out [][]Point
		for _, poly := range polys {
			for _, r := range poly {
				out = append(out, toPoints(r))
			}
		}
		return out, nil
	}
	return nil, nil
}

// Closed reports whether the geometry encloses an area.
func (g *Geometry) Closed() bool {
	return g != nil && (g.Type == "Polygon" || g.Type == "MultiPolygon")
}

func toPoints(coords [][]float64) []Point {
	pts := make([]Point, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		pts = append(pts, Point{Lon: c[0], Lat: c[1]})
	}
	return pts
}

// Bounds returns the box covering every decodable ring in the collection.
// The second result is false when the collection has no coordinates.
func (fc *FeatureCollection) Bounds() (BBox, bool) {
	var box BBox
	found := false
	for _, f := range fc.Features {
		rings, err := f.Geometry.Rings()
		if err != nil {
			continue
		}
		for _, r := range rings {
			for _, p := range r {
				if !found {
					box = BBox{MinLon: p.Lon, MinLat: p.Lat, MaxLon: p.Lon, MaxLat: p.Lat}
					found = true
					continue
				}
				box = box.Extend(p)
			}
		}
	}
	return box, found
}

// Filter returns a collection holding the features keep accepts. Feature
// values are shared with the receiver.
func (fc *FeatureCollection) Filter(keep func(Feature) bool) *FeatureCollection {
	out := &FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0)}
	for _, f := range fc.Features {
		if keep(f) {
			out.Features = append(out.Features, f)
		}
	}
	return out
}
