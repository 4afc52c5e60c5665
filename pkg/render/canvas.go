package render

import (
	"image/color"
	"io"
	"math"
	"strconv"

	"github.com/fogleman/gg"
)

// area is the plotting rectangle inside a canvas, in pixels.
type area struct {
	left, top, right, bottom float64
}

func (a area) width() float64  { return a.right - a.left }
func (a area) height() float64 { return a.bottom - a.top }

// y maps v in [lo, hi] to a pixel row, hi at the top.
func (a area) y(v, lo, hi float64) float64 {
	if hi == lo {
		return (a.top + a.bottom) / 2
	}
	return a.bottom - (v-lo)/(hi-lo)*a.height()
}

// x maps v in [lo, hi] to a pixel column.
func (a area) x(v, lo, hi float64) float64 {
	if hi == lo {
		return (a.left + a.right) / 2
	}
	return a.left + (v-lo)/(hi-lo)*a.width()
}

func newContext(width, height int) *gg.Context {
	dc := gg.NewContext(width, height)
	dc.SetHexColor("#FFFFFF")
	dc.Clear()
	dc.SetLineWidth(1)
	return dc
}

func drawTitle(dc *gg.Context, title string) {
	if title == "" {
		return
	}
	dc.SetHexColor("#000000")
	dc.DrawStringAnchored(title, float64(dc.Width())/2, 20, 0.5, 0.5)
}

// drawYAxis draws a left axis with five ticks over [lo, hi].
func drawYAxis(dc *gg.Context, a area, lo, hi float64, title string) {
	dc.SetHexColor("#000000")
	dc.DrawLine(a.left, a.top, a.left, a.bottom)
	dc.Stroke()
	for k := 0; k <= 4; k++ {
		v := lo + (hi-lo)*float64(k)/4
		y := a.y(v, lo, hi)
		dc.DrawLine(a.left-4, y, a.left, y)
		dc.Stroke()
		dc.DrawStringAnchored(formatTick(v), a.left-6, y, 1, 0.5)
	}
	if title != "" {
		dc.Push()
		cx, cy := a.left-55, (a.top+a.bottom)/2
		dc.RotateAbout(gg.Radians(-90), cx, cy)
		dc.DrawStringAnchored(title, cx, cy, 0.5, 0.5)
		dc.Pop()
	}
}

// drawSlantedLabel writes s ending at (x, y), rotated 45 degrees.
func drawSlantedLabel(dc *gg.Context, s string, x, y float64) {
	dc.Push()
	dc.RotateAbout(gg.Radians(-45), x, y)
	dc.DrawStringAnchored(s, x, y, 1, 0.5)
	dc.Pop()
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 3, 64)
}

// scaleColor interpolates the colour scale at t in [0, 1].
func scaleColor(scale []string, t float64) color.Color {
	if len(scale) == 0 {
		return color.Gray{Y: uint8(255 * (1 - t))}
	}
	if len(scale) == 1 || math.IsNaN(t) {
		return hexColor(scale[0])
	}
	t = math.Max(0, math.Min(1, t))
	pos := t * float64(len(scale)-1)
	k := int(math.Floor(pos))
	if k >= len(scale)-1 {
		return hexColor(scale[len(scale)-1])
	}
	frac := pos - float64(k)
	a, b := hexColor(scale[k]), hexColor(scale[k+1])
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x)*(1-frac) + float64(y)*frac))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

func encode(w io.Writer, dc *gg.Context) error {
	return dc.EncodePNG(w)
}
