package render

import (
	"errors"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/ChrisMcGann/ProtStats/pkg/plot"
)

const (
	labelBarHeight = 12
	treeDepth      = 80
	// labels are written only when cells are at least this many pixels.
	minLabelCell = 9
)

func heatmap(w io.Writer, fig *plot.Figure, width, height int) error {
	hm := fig.Heatmap
	if hm == nil || len(hm.Z) == 0 {
		return errors.New("figure has no heatmap")
	}
	dc := newContext(width, height)
	drawTitle(dc, fig.Layout.Title)
	a := area{left: 120, top: 50, right: float64(width) - 90, bottom: float64(height) - 100}
	drawCells(dc, a, hm)
	drawColorBar(dc, hm, area{left: a.right + 20, top: a.top, right: a.right + 35, bottom: a.bottom})
	return encode(w, dc)
}

// clustermap draws the heatmap with the column tree on top, the row tree on the left and
// the label bars between the column tree and the cells.
func clustermap(w io.Writer, fig *plot.Figure, width, height int) error {
	hm := fig.Heatmap
	if hm == nil || len(hm.Z) == 0 {
		return errors.New("figure has no heatmap")
	}
	dc := newContext(width, height)
	drawTitle(dc, fig.Layout.Title)

	bars := float64(len(fig.LabelBars) * labelBarHeight)
	a := area{
		left:   20 + treeDepth,
		top:    40 + treeDepth + bars,
		right:  float64(width) - 160,
		bottom: float64(height) - 100,
	}
	drawCells(dc, a, hm)
	drawColorBar(dc, hm, area{left: float64(width) - 60, top: a.top, right: float64(width) - 45, bottom: a.bottom})

	cols, rows := len(hm.X), len(hm.Y)
	cellW, cellH := a.width()/float64(cols), a.height()/float64(rows)

	for k, bar := range fig.LabelBars {
		top := a.top - bars + float64(k*labelBarHeight)
		for i, c := range bar.Colors {
			dc.SetHexColor(c)
			dc.DrawRectangle(a.left+float64(i)*cellW, top, cellW, labelBarHeight-1)
			dc.Fill()
		}
		dc.SetHexColor("#000000")
		dc.DrawStringAnchored(bar.Name, a.right+6, top+labelBarHeight/2, 0, 0.5)
	}

	if d := fig.Dendrogram; d != nil && d.Tree != nil {
		base, peak := a.top-bars-2, a.top-bars-treeDepth
		maxH := treeHeight(d)
		drawTree(dc, d, func(pos, h float64) (float64, float64) {
			return a.left + (pos+0.5)*cellW, base - (base-peak)*h/maxH
		})
	}
	if d := fig.RowDendrogram; d != nil && d.Tree != nil {
		base, peak := a.left-2, a.left-treeDepth
		maxH := treeHeight(d)
		drawTree(dc, d, func(pos, h float64) (float64, float64) {
			return base - (base-peak)*h/maxH, a.top + (pos+0.5)*cellH
		})
	}
	return encode(w, dc)
}

// drawCells fills one rectangle per value and labels the axes when cells are large
// enough to read.
func drawCells(dc *gg.Context, a area, hm *plot.Heatmap) {
	lo, hi := zRange(hm.Z)
	rows := len(hm.Z)
	cols := len(hm.Z[0])
	cellW, cellH := a.width()/float64(cols), a.height()/float64(rows)

	for r, row := range hm.Z {
		for c, v := range row {
			if math.IsNaN(v) {
				dc.SetHexColor("#BFBFBF")
			} else {
				dc.SetColor(scaleColor(hm.ColorScale, unit(v, lo, hi)))
			}
			dc.DrawRectangle(a.left+float64(c)*cellW, a.top+float64(r)*cellH, cellW+0.5, cellH+0.5)
			dc.Fill()
		}
	}

	dc.SetHexColor("#000000")
	if cellH >= minLabelCell {
		for r, label := range hm.Y {
			dc.DrawStringAnchored(label, a.left-4, a.top+(float64(r)+0.5)*cellH, 1, 0.5)
		}
	}
	if cellW >= minLabelCell {
		for c, label := range hm.X {
			drawSlantedLabel(dc, label, a.left+(float64(c)+0.5)*cellW, a.bottom+8)
		}
	}
}

func drawColorBar(dc *gg.Context, hm *plot.Heatmap, a area) {
	lo, hi := zRange(hm.Z)
	steps := int(a.height())
	for k := 0; k < steps; k++ {
		t := 1 - float64(k)/float64(steps)
		dc.SetColor(scaleColor(hm.ColorScale, t))
		dc.DrawRectangle(a.left, a.top+float64(k), a.width(), 1)
		dc.Fill()
	}
	dc.SetHexColor("#000000")
	dc.DrawStringAnchored(formatTick(hi), a.right+4, a.top, 0, 0.5)
	dc.DrawStringAnchored(formatTick(lo), a.right+4, a.bottom, 0, 0.5)
}

// zRange returns the finite extremes of z.
func zRange(z [][]float64) (float64, float64) {
	var e extent
	for _, row := range z {
		e.add(row...)
	}
	if !e.set {
		return 0, 1
	}
	return e.min, e.max
}

func unit(v, lo, hi float64) float64 {
	if hi == lo {
		return 0.5
	}
	return (v - lo) / (hi - lo)
}
