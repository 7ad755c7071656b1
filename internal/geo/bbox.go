package geo

import "math"

const (
	kmPerDegreeLat = 111.0
	kmPerDegreeLon = 111.32
)

type BBox struct {
	MinLon float64 `yaml:"min_lon" json:"min_lon"`
	MinLat float64 `yaml:"min_lat" json:"min_lat"`
	MaxLon float64 `yaml:"max_lon" json:"max_lon"`
	MaxLat float64 `yaml:"max_lat" json:"max_lat"`
}

// NorthShore is the default area of interest, aligned with the companion
// harvest maps.
var NorthShore = BBox{
	MinLon: -123.23407668799925,
	MinLat: 49.53559929341239,
	MaxLon: -123.06988635889327,
	MaxLat: 49.61080514852734,
}

func (b BBox) Empty() bool {
	return b.MaxLon <= b.MinLon || b.MaxLat <= b.MinLat
}

func (b BBox) Center() Point {
	return Point{Lon: (b.MinLon + b.MaxLon) / 2, Lat: (b.MinLat + b.MaxLat) / 2}
}

func (b BBox) Contains(p Point) bool {
	return p.Lon >= b.MinLon && p.Lon <= b.MaxLon && p.Lat >= b.MinLat && p.Lat <= b.MaxLat
}

func (b BBox) Extend(p Point) BBox {
	b.MinLon = math.Min(b.MinLon, p.Lon)
	b.MinLat = math.Min(b.MinLat, p.Lat)
	b.MaxLon = math.Max(b.MaxLon, p.Lon)
	b.MaxLat = math.Max(b.MaxLat, p.Lat)
	return b
}

// Buffer grows the box by km on every side. Longitude degrees are scaled by
// the cosine of the box's mean latitude.
func (b BBox) Buffer(km float64) BBox {
	if km <= 0 {
		return b
	}
	meanLat := (b.MinLat + b.MaxLat) / 2
	dLat := km / kmPerDegreeLat
	dLon := km / (kmPerDegreeLon * math.Cos(meanLat*math.Pi/180))
	return BBox{
		MinLon: b.MinLon - dLon,
		MinLat: b.MinLat - dLat,
		MaxLon: b.MaxLon + dLon,
		MaxLat: b.MaxLat + dLat,
	}
}
