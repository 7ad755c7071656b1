package export

import (
	"image"
	"image/color"
	"image/gif"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/cutlapse/internal/filter"
	"github.com/san-kum/cutlapse/internal/geo"
	"github.com/san-kum/cutlapse/internal/viz"
)

const (
	bgIndex = iota
	fillIndex
	lineIndex
)

// Palette returns background, blended fill and outline colors for style.
func Palette(style Style) color.Palette {
	bg := rgba(style.Background)
	fill := blend(rgba(style.Fill), bg, style.FillOpacity)
	return color.Palette{bg, fill, rgba(style.Line)}
}

// RasterFrame draws one year into a paletted image. Pixels are the sub-pixels
// of a braille canvas, so width is rounded down to a multiple of 2 and height
// to a multiple of 4.
func RasterFrame(scene *viz.Scene, box geo.BBox, expr filter.Expr, width, height int, style Style) (*image.Paletted, int) {
	layers := viz.NewMapLayers(max(width/2, 1), max(height/4, 1))
	n := layers.Draw(scene, layers.Projection(box), expr)

	w, h := layers.Fill.SubWidth(), layers.Fill.SubHeight()
	img := image.NewPaletted(image.Rect(0, 0, w, h), Palette(style))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch {
			case layers.Line.IsSet(x, y):
				img.SetColorIndex(x, y, lineIndex)
			case layers.Fill.IsSet(x, y):
				img.SetColorIndex(x, y, fillIndex)
			}
		}
	}
	return img, n
}

// EncodeGIF writes frames as a looping animation showing each frame for
// delay.
func EncodeGIF(w io.Writer, frames []*image.Paletted, delay time.Duration) error {
	cs := max(int(delay/(10*time.Millisecond)), 1)
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, cs)
	}
	return gif.EncodeAll(w, &anim)
}

func rgba(hex string) color.RGBA {
	r, g, b := viz.RGB(lipgloss.Color(hex))
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func blend(fg, bg color.RGBA, alpha float64) color.RGBA {
	alpha = min(max(alpha, 0), 1)
	mix := func(f, b uint8) uint8 {
		return uint8(float64(f)*alpha + float64(b)*(1-alpha) + 0.5)
	}
	return color.RGBA{R: mix(fg.R, bg.R), G: mix(fg.G, bg.G), B: mix(fg.B, bg.B), A: 0xff}
}
