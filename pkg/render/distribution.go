package render

import (
	"errors"
	"io"
	"math"
	"sort"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/stat"

	"github.com/ChrisMcGann/ProtStats/pkg/plot"
	"github.com/ChrisMcGann/ProtStats/pkg/stats"
)

const violinPoints = 50

// distribution draws box, violin and strip figures, one slot per trace.
func distribution(w io.Writer, fig *plot.Figure, width, height int) error {
	if len(fig.Traces) == 0 {
		return errors.New("figure has no traces")
	}
	logY := fig.Layout.YAxis.Log

	values := make([][]float64, len(fig.Traces))
	var yr extent
	for i, tr := range fig.Traces {
		_, values[i] = traceValues(plot.Trace{Y: tr.Y}, logY)
		yr.add(values[i]...)
	}
	lo, hi := yr.padded()

	dc := newContext(width, height)
	a := area{left: 80, top: 50, right: float64(width) - 20, bottom: float64(height) - 90}
	drawTitle(dc, fig.Layout.Title)
	yTitle := fig.Layout.YAxis.Title
	if logY {
		yTitle = "log10(" + yTitle + ")"
	}
	drawYAxis(dc, a, lo, hi, yTitle)

	slot := a.width() / float64(len(fig.Traces))
	for i, tr := range fig.Traces {
		center := a.left + slot*(float64(i)+0.5)
		dc.SetHexColor(tr.Color)
		switch fig.Kind {
		case plot.KindBox:
			drawBox(dc, a, values[i], tr.Color, center, slot*0.6, lo, hi)
		case plot.KindViolin:
			drawViolin(dc, a, values[i], center, slot*0.8, lo, hi)
		case plot.KindStrip:
			drawStrip(dc, a, tr, values[i], center, slot, lo, hi)
		}
		dc.SetHexColor("#000000")
		drawSlantedLabel(dc, tr.Name, center, a.bottom+10)
	}
	return encode(w, dc)
}

func drawBox(dc *gg.Context, a area, values []float64, fill string, center, width, lo, hi float64) {
	b, ok := stats.Box(values)
	if !ok {
		return
	}
	half := width / 2
	dc.SetLineWidth(1.5)
	dc.DrawLine(center, a.y(b.LowerFence, lo, hi), center, a.y(b.Q1, lo, hi))
	dc.DrawLine(center, a.y(b.Q3, lo, hi), center, a.y(b.UpperFence, lo, hi))
	dc.DrawLine(center-half/2, a.y(b.LowerFence, lo, hi), center+half/2, a.y(b.LowerFence, lo, hi))
	dc.DrawLine(center-half/2, a.y(b.UpperFence, lo, hi), center+half/2, a.y(b.UpperFence, lo, hi))
	dc.Stroke()

	top, bottom := a.y(b.Q3, lo, hi), a.y(b.Q1, lo, hi)
	dc.DrawRectangle(center-half, top, width, bottom-top)
	dc.StrokePreserve()
	dc.SetColor(withAlpha(hexColor(fill), 0.5))
	dc.Fill()

	dc.SetHexColor("#000000")
	dc.DrawLine(center-half, a.y(b.Median, lo, hi), center+half, a.y(b.Median, lo, hi))
	dc.Stroke()
	dc.SetLineWidth(1)
}

// drawViolin draws a mirrored gaussian kernel density estimate.
func drawViolin(dc *gg.Context, a area, values []float64, center, width, lo, hi float64) {
	if len(values) == 0 {
		return
	}
	vmin, vmax := values[0], values[0]
	for _, v := range values {
		vmin = math.Min(vmin, v)
		vmax = math.Max(vmax, v)
	}
	bw := silverman(values)
	if vmin == vmax || bw == 0 {
		dc.DrawLine(center-width/2, a.y(vmin, lo, hi), center+width/2, a.y(vmin, lo, hi))
		dc.Stroke()
		return
	}

	grid := make([]float64, violinPoints)
	density := make([]float64, violinPoints)
	var peak float64
	for k := range grid {
		grid[k] = vmin + (vmax-vmin)*float64(k)/float64(violinPoints-1)
		density[k] = kde(values, grid[k], bw)
		peak = math.Max(peak, density[k])
	}

	half := width / 2
	for k := range grid {
		dc.LineTo(center+half*density[k]/peak, a.y(grid[k], lo, hi))
	}
	for k := len(grid) - 1; k >= 0; k-- {
		dc.LineTo(center-half*density[k]/peak, a.y(grid[k], lo, hi))
	}
	dc.ClosePath()
	dc.Fill()

	median := stat.Quantile(0.5, stat.Empirical, sorted(values), nil)
	dc.SetHexColor("#FFFFFF")
	dc.DrawCircle(center, a.y(median, lo, hi), 3)
	dc.Fill()
}

// drawStrip places the trace's points at their x offsets around the slot center.
func drawStrip(dc *gg.Context, a area, tr plot.Trace, values []float64, center, slot, lo, hi float64) {
	var mean float64
	for _, x := range tr.X {
		mean += x
	}
	if len(tr.X) > 0 {
		mean /= float64(len(tr.X))
	}
	for k, v := range values {
		x := center
		if k < len(tr.X) {
			x = center + (tr.X[k]-mean)*slot
		}
		dc.DrawCircle(x, a.y(v, lo, hi), 4)
		dc.Fill()
	}
}

// silverman returns the rule of thumb gaussian bandwidth.
func silverman(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sd := stat.StdDev(values, nil)
	return 1.06 * sd * math.Pow(float64(len(values)), -0.2)
}

func kde(values []float64, x, bw float64) float64 {
	var sum float64
	for _, v := range values {
		u := (x - v) / bw
		sum += math.Exp(-0.5 * u * u)
	}
	return sum / (float64(len(values)) * bw * math.Sqrt(2*math.Pi))
}

func sorted(values []float64) []float64 {
	out := append([]float64(nil), values...)
	sort.Float64s(out)
	return out
}
