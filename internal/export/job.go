package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/san-kum/cutlapse/internal/filter"
	"github.com/san-kum/cutlapse/internal/geo"
	"github.com/san-kum/cutlapse/internal/viz"
	"golang.org/x/sync/errgroup"
)

const GIFName = "timelapse.gif"

var ErrNoFrames = errors.New("export: no years to render")

// Job renders one frame per year into Dir.
type Job struct {
	Scene  *viz.Scene
	Box    geo.BBox
	Years  []int
	Field  string
	Mode   filter.Mode
	Width  int
	Height int
	Delay  time.Duration
	Style  Style
	Dir    string

	// SkipSVG and SkipGIF turn off one of the outputs.
	SkipSVG bool
	SkipGIF bool
	// Workers caps concurrent frame rendering. Zero uses GOMAXPROCS.
	Workers int
}

type Frame struct {
	Year    int    `json:"year"`
	Visible int    `json:"visible"`
	SVG     string `json:"svg,omitempty"`
}

type Result struct {
	Frames []Frame `json:"frames"`
	GIF    string  `json:"gif,omitempty"`
}

func FrameName(year int) string {
	return fmt.Sprintf("frame_%d.svg", year)
}

// Run renders every frame concurrently, then encodes the animation in year
// order.
func (j Job) Run(ctx context.Context) (*Result, error) {
	if len(j.Years) == 0 {
		return nil, ErrNoFrames
	}
	if err := os.MkdirAll(j.Dir, 0755); err != nil {
		return nil, err
	}

	frames := make([]Frame, len(j.Years))
	images := make([]*image.Paletted, len(j.Years))

	g, ctx := errgroup.WithContext(ctx)
	workers := j.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)

	for i, year := range j.Years {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			expr := filter.New(j.Mode, j.Field, year)
			frame := Frame{Year: year}

			if !j.SkipSVG {
				doc, n := FrameSVG(j.Scene, j.Box, expr, j.Width, j.Height, j.Style)
				path := filepath.Join(j.Dir, FrameName(year))
				if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
					return fmt.Errorf("write frame %d: %w", year, err)
				}
				frame.SVG = path
				frame.Visible = n
			}
			if !j.SkipGIF {
				img, n := RasterFrame(j.Scene, j.Box, expr, j.Width, j.Height, j.Style)
				images[i] = img
				frame.Visible = n
			}
			frames[i] = frame
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Frames: frames}
	if j.SkipGIF {
		return res, nil
	}

	path := filepath.Join(j.Dir, GIFName)
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := EncodeGIF(f, images, j.Delay); err != nil {
		return nil, fmt.Errorf("encode gif: %w", err)
	}
	res.GIF = path
	return res, nil
}
