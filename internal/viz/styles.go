package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6b6b60"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e8e3d3")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8a8a7a"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6b6b60")).
		Italic(true)
)

// Title renders text in the theme's primary color.
func Title(theme Theme, text string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Render(text)
}

// Slider renders a horizontal track of width cells with the thumb at pos
// (0..1). The returned string is exactly width cells wide.
func Slider(theme Theme, pos float64, width int) string {
	if width < 1 {
		return ""
	}
	pos = min(max(pos, 0), 1)
	thumb := int(pos*float64(width-1) + 0.5)
	track := lipgloss.NewStyle().Foreground(theme.Muted)
	done := lipgloss.NewStyle().Foreground(theme.Secondary)
	knob := lipgloss.NewStyle().Bold(true).Foreground(theme.Accent)
	return done.Render(strings.Repeat("━", thumb)) +
		knob.Render("●") +
		track.Render(strings.Repeat("─", width-thumb-1))
}

// SparklineChart renders one bar per value, sampled down to width cells.
// The bar covering index mark is drawn in the accent color; pass -1 for no
// mark.
func SparklineChart(theme Theme, values []float64, mark, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	bars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := max(len(values)/max(width, 1), 1)
	normal := lipgloss.NewStyle().Foreground(theme.Secondary)
	marked := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		bar := string(bars[min(max(int(norm*float64(len(bars)-1)), 0), len(bars)-1)])
		if mark >= i*step && mark < (i+1)*step {
			b.WriteString(marked.Render(bar))
		} else {
			b.WriteString(normal.Render(bar))
		}
	}
	return b.String()
}

// Separator renders a decorative rule.
func Separator(width int) string {
	if width < 8 {
		return Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle.Render(left + " ◆ " + right)
}

// RGB returns the components of a #rrggbb color; anything else is white.
func RGB(c lipgloss.Color) (r, g, b uint8) {
	ri, gi, bi := parseHex(string(c))
	return uint8(ri), uint8(gi), uint8(bi)
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	r = parseHexByte(hex[1:3])
	g = parseHexByte(hex[3:5])
	b = parseHexByte(hex[5:7])
	return
}

func parseHexByte(s string) int {
	var val int
	for _, c := range s {
		val *= 16
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	return val
}
