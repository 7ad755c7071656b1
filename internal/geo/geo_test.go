package geo

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"YEAR": 1995},
     "geometry": {"type": "Polygon", "coordinates": [[[-123.2, 49.5], [-123.1, 49.5], [-123.1, 49.6], [-123.2, 49.5]]]}},
    {"type": "Feature", "properties": {"YEAR": "2001"},
     "geometry": {"type": "MultiPolygon", "coordinates": [[[[-123.0, 49.4], [-122.9, 49.4], [-122.9, 49.45], [-123.0, 49.4]]]]}},
    {"type": "Feature", "properties": {"YEAR": null},
     "geometry": {"type": "Point", "coordinates": [-123.15, 49.55]}}
  ]
}`

func TestToNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"float", 1995.0, 1995, true},
		{"int", 2001, 2001, true},
		{"numeric string", "2004", 2004, true},
		{"padded string", " 2004 ", 2004, true},
		{"empty string", "", 0, false},
		{"blank string", "   ", 0, false},
		{"text", "unknown", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
		{"NaN", math.NaN(), 0, false},
		{"Inf string", "Inf", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToNumber(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ToNumber(%v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDecodeAndRings(t *testing.T) {
	fc, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(fc.Features) != 3 {
		t.Fatalf("expected 3 features, got %d", len(fc.Features))
	}

	rings, err := fc.Features[0].Geometry.Rings()
	if err != nil {
		t.Fatalf("rings failed: %v", err)
	}
	if len(rings) != 1 || len(rings[0]) != 4 {
		t.Errorf("unexpected polygon rings: %v", rings)
	}

	rings, err = fc.Features[1].Geometry.Rings()
	if err != nil {
		t.Fatalf("rings failed: %v", err)
	}
	if len(rings) != 1 {
		t.Errorf("expected 1 multipolygon ring, got %d", len(rings))
	}

	rings, _ = fc.Features[2].Geometry.Rings()
	if rings != nil {
		t.Errorf("point geometry should have no rings, got %v", rings)
	}
	if !fc.Features[0].Geometry.Closed() || fc.Features[2].Geometry.Closed() {
		t.Error("Closed() misreports geometry type")
	}
}

func TestDecodeRejectsOtherTypes(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"type": "Feature"}`))
	if !errors.Is(err, ErrNotCollection) {
		t.Errorf("expected ErrNotCollection, got %v", err)
	}
}

func TestBounds(t *testing.T) {
	fc, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	box, ok := fc.Bounds()
	if !ok {
		t.Fatal("expected bounds")
	}
	if box.MinLon != -123.2 || box.MaxLon != -122.9 || box.MinLat != 49.4 || box.MaxLat != 49.6 {
		t.Errorf("unexpected bounds: %+v", box)
	}

	empty := &FeatureCollection{}
	if _, ok := empty.Bounds(); ok {
		t.Error("empty collection should have no bounds")
	}
}

func TestBuffer(t *testing.T) {
	b := NorthShore.Buffer(2)
	dLat := 2.0 / 111
	if math.Abs((NorthShore.MinLat-b.MinLat)-dLat) > 1e-12 {
		t.Errorf("lat buffer = %v, want %v", NorthShore.MinLat-b.MinLat, dLat)
	}
	meanLat := (NorthShore.MinLat + NorthShore.MaxLat) / 2
	dLon := 2 / (111.32 * math.Cos(meanLat*math.Pi/180))
	if math.Abs((b.MaxLon-NorthShore.MaxLon)-dLon) > 1e-12 {
		t.Errorf("lon buffer = %v, want %v", b.MaxLon-NorthShore.MaxLon, dLon)
	}
	if !b.Contains(NorthShore.Center()) {
		t.Error("buffered box should contain the original center")
	}
	if NorthShore.Buffer(0) != NorthShore {
		t.Error("zero buffer should be identity")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.geojson")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	fc, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(fc.Features) != 3 {
		t.Errorf("expected 3 features, got %d", len(fc.Features))
	}

	if _, err := Load(context.Background(), " "); !errors.Is(err, ErrEmptySource) {
		t.Errorf("expected ErrEmptySource, got %v", err)
	}
}

func TestLoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.geojson" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(sample))
	}))
	defer srv.Close()

	fc, err := Load(context.Background(), srv.URL+"/blocks.geojson")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(fc.Features) != 3 {
		t.Errorf("expected 3 features, got %d", len(fc.Features))
	}

	_, err = Load(context.Background(), srv.URL+"/missing.geojson")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", fe.StatusCode)
	}
	if fe.Error() != "failed to load GeoJSON: 404" {
		t.Errorf("unexpected message %q", fe.Error())
	}
}
