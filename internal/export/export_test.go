package export

import (
	"context"
	"encoding/json"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/cutlapse/internal/filter"
	"github.com/san-kum/cutlapse/internal/geo"
	"github.com/san-kum/cutlapse/internal/viz"
)

var box = geo.BBox{MinLon: 0, MinLat: 0, MaxLon: 10, MaxLat: 10}

func polygon(year float64, x float64) geo.Feature {
	coords, _ := json.Marshal([][][]float64{{{x, 2}, {x + 3, 2}, {x + 3, 5}, {x, 5}, {x, 2}}})
	return geo.Feature{
		Type:       "Feature",
		Properties: map[string]any{"YEAR": year},
		Geometry:   &geo.Geometry{Type: "Polygon", Coordinates: coords},
	}
}

func testScene() *viz.Scene {
	line, _ := json.Marshal([][]float64{{0, 9}, {9, 9}})
	return viz.NewScene(&geo.FeatureCollection{Type: "FeatureCollection", Features: []geo.Feature{
		polygon(1990, 0),
		polygon(2000, 5),
		{Type: "Feature", Properties: map[string]any{"YEAR": 2000.0},
			Geometry: &geo.Geometry{Type: "LineString", Coordinates: line}},
	}})
}

func TestFrameSVG(t *testing.T) {
	doc, n := FrameSVG(testScene(), box, filter.New(filter.Cumulative, "YEAR", 1995), 200, 100, DefaultStyle)
	if n != 1 {
		t.Errorf("drew %d features, want 1", n)
	}
	for _, want := range []string{`fill="#670000"`, `fill-opacity="0.55"`, `stroke-width="1.0"`, ">1995</text>", " Z"} {
		if !strings.Contains(doc, want) {
			t.Errorf("svg missing %q", want)
		}
	}

	doc, n = FrameSVG(testScene(), box, filter.New(filter.Exact, "YEAR", 2000), 200, 100, DefaultStyle)
	if n != 2 {
		t.Errorf("exact 2000 drew %d, want 2", n)
	}
	if !strings.Contains(doc, `<path fill="none"`) {
		t.Error("line features should not be filled")
	}
}

func TestPalette(t *testing.T) {
	p := Palette(Style{Background: "#ffffff", Fill: "#000000", FillOpacity: 0.5, Line: "#ff0000"})
	want := color.Palette{
		color.RGBA{255, 255, 255, 255},
		color.RGBA{128, 128, 128, 255},
		color.RGBA{255, 0, 0, 255},
	}
	for i := range want {
		if p[i] != want[i] {
			t.Errorf("palette[%d] = %v, want %v", i, p[i], want[i])
		}
	}
}

func TestRasterFrame(t *testing.T) {
	img, n := RasterFrame(testScene(), box, filter.New(filter.Cumulative, "YEAR", 2000), 41, 43, DefaultStyle)
	if n != 3 {
		t.Errorf("drew %d, want 3", n)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 40 {
		t.Errorf("bounds = %v, want 40x40", b)
	}
	counts := map[uint8]int{}
	for _, px := range img.Pix {
		counts[px]++
	}
	if counts[fillIndex] == 0 || counts[lineIndex] == 0 || counts[bgIndex] == 0 {
		t.Errorf("pixel counts = %v", counts)
	}
}

func TestJobRun(t *testing.T) {
	dir := t.TempDir()
	job := Job{
		Scene:   testScene(),
		Box:     box,
		Years:   []int{1990, 2000},
		Field:   "YEAR",
		Mode:    filter.Cumulative,
		Width:   64,
		Height:  64,
		Delay:   200 * time.Millisecond,
		Style:   DefaultStyle,
		Dir:     dir,
		Workers: 2,
	}
	res, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(res.Frames) != 2 || res.Frames[0].Year != 1990 || res.Frames[1].Visible != 3 {
		t.Errorf("frames = %+v", res.Frames)
	}
	for _, year := range job.Years {
		if _, err := os.Stat(filepath.Join(dir, FrameName(year))); err != nil {
			t.Errorf("frame %d: %v", year, err)
		}
	}

	f, err := os.Open(res.GIF)
	if err != nil {
		t.Fatalf("open gif: %v", err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("decode gif: %v", err)
	}
	if len(anim.Image) != 2 || anim.Delay[0] != 20 {
		t.Errorf("gif frames=%d delay=%v", len(anim.Image), anim.Delay)
	}
}

func TestJobRunNoYears(t *testing.T) {
	_, err := Job{Dir: t.TempDir()}.Run(context.Background())
	if err != ErrNoFrames {
		t.Errorf("err = %v, want ErrNoFrames", err)
	}
}

func TestJobRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	job := Job{Scene: testScene(), Box: box, Years: []int{1990}, Field: "YEAR", Width: 8, Height: 8, Dir: t.TempDir()}
	if _, err := job.Run(ctx); err == nil {
		t.Error("expected error from cancelled context")
	}
}
