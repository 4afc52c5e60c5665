package render

import (
	"errors"
	"io"

	"github.com/fogleman/gg"

	"github.com/ChrisMcGann/ProtStats/pkg/plot"
)

func dendrogram(w io.Writer, fig *plot.Figure, width, height int) error {
	d := fig.Dendrogram
	if d == nil || d.Tree == nil || d.Tree.N == 0 {
		return errors.New("figure has no dendrogram")
	}
	dc := newContext(width, height)
	drawTitle(dc, fig.Layout.Title)
	a := area{left: 80, top: 50, right: float64(width) - 20, bottom: float64(height) - 100}

	maxH := treeHeight(d)
	drawYAxis(dc, a, 0, maxH, fig.Layout.YAxis.Title)

	slot := a.width() / float64(d.Tree.N)
	dc.SetHexColor("#2B5E8B")
	dc.SetLineWidth(1.5)
	drawTree(dc, d, func(pos, h float64) (float64, float64) {
		return a.left + (pos+0.5)*slot, a.y(h, 0, maxH)
	})
	dc.SetLineWidth(1)

	dc.SetHexColor("#000000")
	for rank, leaf := range d.Tree.Leaves() {
		label := ""
		if leaf < len(d.Labels) {
			label = d.Labels[leaf]
		}
		drawSlantedLabel(dc, label, a.left+(float64(rank)+0.5)*slot, a.bottom+8)
	}
	return encode(w, dc)
}

// drawTree draws every merge as a bracket. at maps a leaf rank position and a merge
// height to pixels, which lets the same code draw vertical and horizontal trees.
func drawTree(dc *gg.Context, d *plot.Dendrogram, at func(pos, h float64) (float64, float64)) {
	t := d.Tree
	pos := make([]float64, t.N+len(t.Merges))
	for rank, leaf := range t.Leaves() {
		pos[leaf] = float64(rank)
	}
	for i, m := range t.Merges {
		id := t.N + i
		pos[id] = (pos[m.Left] + pos[m.Right]) / 2

		h := m.Distance
		lx, ly := at(pos[m.Left], t.Height(m.Left))
		ljx, ljy := at(pos[m.Left], h)
		rjx, rjy := at(pos[m.Right], h)
		rx, ry := at(pos[m.Right], t.Height(m.Right))
		dc.MoveTo(lx, ly)
		dc.LineTo(ljx, ljy)
		dc.LineTo(rjx, rjy)
		dc.LineTo(rx, ry)
		dc.Stroke()
	}
}

// treeHeight is the root distance, at least 1 so flat trees still draw.
func treeHeight(d *plot.Dendrogram) float64 {
	var h float64
	for _, m := range d.Tree.Merges {
		if m.Distance > h {
			h = m.Distance
		}
	}
	if h == 0 {
		return 1
	}
	return h
}
