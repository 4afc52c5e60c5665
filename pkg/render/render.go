// Package render draws figures built by package plot as PNG images or serializes them
// as JSON for the browser.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ChrisMcGann/ProtStats/pkg/plot"
)

// Default image size.
const (
	DefaultWidth  = 900
	DefaultHeight = 600
)

// PNG draws fig as a width x height PNG image. Zero sizes fall back to the defaults.
func PNG(w io.Writer, fig *plot.Figure, width, height int) error {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	var err error
	switch fig.Kind {
	case plot.KindScatter:
		err = scatter(w, fig, width, height)
	case plot.KindBox, plot.KindViolin, plot.KindStrip:
		err = distribution(w, fig, width, height)
	case plot.KindHeatmap:
		err = heatmap(w, fig, width, height)
	case plot.KindClustermap:
		err = clustermap(w, fig, width, height)
	case plot.KindDendrogram:
		err = dendrogram(w, fig, width, height)
	default:
		err = fmt.Errorf("cannot render figure of kind %q", fig.Kind)
	}
	if err != nil {
		return pfx.Err(err)
	}
	return nil
}

// hexColor parses "#RRGGBB" or "RRGGBB".
func hexColor(hex string) drawing.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 && len(hex) != 3 {
		return drawing.ColorBlack
	}
	return drawing.ColorFromHex(hex)
}

// withAlpha returns c with opacity in [0, 1].
func withAlpha(c drawing.Color, opacity float64) drawing.Color {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	c.A = uint8(opacity * 255)
	return c
}
