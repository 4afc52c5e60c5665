package plot

import (
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Theme holds the colours figures are drawn with.
type Theme struct {
	Colorway       []string `yaml:"colorway"`
	NonSignificant string   `yaml:"non_significant"`
	Up             string   `yaml:"up"`
	Down           string   `yaml:"down"`
	// ColorScale runs from low to high heatmap values.
	ColorScale []string `yaml:"color_scale"`
}

// DefaultTheme returns the ProtStats colour theme.
func DefaultTheme() Theme {
	return Theme{
		Colorway: []string{
			"#009599", "#005358", "#772173", "#B65EAF", "#A73A00",
			"#6490C1", "#FF894F", "#2B5E8B", "#A87F32",
		},
		NonSignificant: "#404040",
		Up:             "#B65EAF",
		Down:           "#009599",
		ColorScale: []string{"#2B5E8B", "#F7F7F7", "#A73A00"},
	}
}

// Color returns the i-th colorway colour, cycling.
func (t Theme) Color(i int) string {
	if len(t.Colorway) == 0 {
		return "#000000"
	}
	return t.Colorway[i%len(t.Colorway)]
}

// lightestShare is how much white the first colour of a light ramp is mixed with.
const lightestShare = 0.85

// LightRamp returns n colours running from a near white tint of base to base itself.
func LightRamp(base string, n int) []string {
	if n <= 0 {
		return nil
	}
	c := drawing.ColorFromHex(strings.TrimPrefix(base, "#"))
	out := make([]string, n)
	for i := range out {
		white := lightestShare
		if n > 1 {
			white *= 1 - float64(i)/float64(n-1)
		}
		tint := func(v uint8) uint8 {
			return uint8(float64(v)*(1-white) + 255*white + 0.5)
		}
		out[i] = fmt.Sprintf("#%02X%02X%02X", tint(c.R), tint(c.G), tint(c.B))
	}
	return out
}

// merged fills empty fields of t from the default theme.
func (t Theme) merged() Theme {
	d := DefaultTheme()
	if len(t.Colorway) == 0 {
		t.Colorway = d.Colorway
	}
	if t.NonSignificant == "" {
		t.NonSignificant = d.NonSignificant
	}
	if t.Up == "" {
		t.Up = d.Up
	}
	if t.Down == "" {
		t.Down = d.Down
	}
	if len(t.ColorScale) == 0 {
		t.ColorScale = d.ColorScale
	}
	return t
}
