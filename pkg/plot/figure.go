// Package plot builds chart agnostic figures from a data set. Every figure carries the
// table it was drawn from, the preprocessing record of the matrix and the method used.
package plot

import (
	"github.com/ChrisMcGann/ProtStats/pkg/core"
	"github.com/ChrisMcGann/ProtStats/pkg/stats"
)

// Figure kinds.
const (
	KindScatter    = "scatter"
	KindBox        = "box"
	KindViolin     = "violin"
	KindStrip      = "strip"
	KindHeatmap    = "heatmap"
	KindClustermap = "clustermap"
	KindDendrogram = "dendrogram"
)

// Trace is one named series. Scatter traces use X and Y, distribution traces use Y only.
type Trace struct {
	Name   string    `json:"name"`
	Group  string    `json:"group,omitempty"`
	X      []float64 `json:"x,omitempty"`
	Y      []float64 `json:"y"`
	Labels []string  `json:"text,omitempty"`
	Color  string    `json:"color"`
}

// Shape is a translucent ellipse spanning a bounding box.
type Shape struct {
	Name    string  `json:"name"`
	X0      float64 `json:"x0"`
	Y0      float64 `json:"y0"`
	X1      float64 `json:"x1"`
	Y1      float64 `json:"y1"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

// Axis describes one axis of a figure.
type Axis struct {
	Title string `json:"title"`
	Log   bool   `json:"log,omitempty"`
}

// Layout holds titles and legend settings.
type Layout struct {
	Title      string `json:"title"`
	XAxis      Axis   `json:"xaxis"`
	YAxis      Axis   `json:"yaxis"`
	ShowLegend bool   `json:"showlegend"`
}

// Heatmap is a labelled grid of values, Z[row][column].
type Heatmap struct {
	X          []string    `json:"x"`
	Y          []string    `json:"y"`
	Z          [][]float64 `json:"z"`
	ColorScale []string    `json:"colorscale"`
}

// LabelBar colours the heatmap columns by a metadata column.
type LabelBar struct {
	Name    string            `json:"name"`
	Colors  []string          `json:"colors"`
	Palette map[string]string `json:"palette"`
}

// Dendrogram is a clustering tree with labelled leaves.
type Dendrogram struct {
	Labels []string    `json:"labels"`
	Tree   *stats.Tree `json:"tree"`
}

// Figure is a plot ready to be rendered.
type Figure struct {
	Kind       string      `json:"kind"`
	Traces     []Trace     `json:"traces,omitempty"`
	Shapes     []Shape     `json:"shapes,omitempty"`
	Layout     Layout      `json:"layout"`
	Heatmap    *Heatmap    `json:"heatmap,omitempty"`
	LabelBars  []LabelBar  `json:"labelbars,omitempty"`
	Dendrogram *Dendrogram `json:"dendrogram,omitempty"`
	// RowDendrogram clusters the heatmap rows of a clustermap.
	RowDendrogram *Dendrogram `json:"row_dendrogram,omitempty"`

	PlottingData  *core.Table        `json:"plotting_data"`
	Preprocessing core.Preprocessing `json:"preprocessing"`
	Method        string             `json:"method"`
}

// UpdateColors recolours the traces and shapes whose name is in colors.
func UpdateColors(fig *Figure, colors map[string]string) {
	for i := range fig.Traces {
		if c, ok := colors[fig.Traces[i].Name]; ok {
			fig.Traces[i].Color = c
		}
	}
	for i := range fig.Shapes {
		if c, ok := colors[fig.Shapes[i].Name]; ok {
			fig.Shapes[i].Color = c
		}
	}
}

// AddCircles adds one ellipse per scatter trace spanning the trace's points.
func AddCircles(fig *Figure) {
	for _, tr := range fig.Traces {
		if len(tr.X) == 0 {
			continue
		}
		s := Shape{
			Name:    tr.Name,
			X0:      tr.X[0],
			X1:      tr.X[0],
			Y0:      tr.Y[0],
			Y1:      tr.Y[0],
			Color:   tr.Color,
			Opacity: 0.2,
		}
		for k := range tr.X {
			if tr.X[k] < s.X0 {
				s.X0 = tr.X[k]
			}
			if tr.X[k] > s.X1 {
				s.X1 = tr.X[k]
			}
			if tr.Y[k] < s.Y0 {
				s.Y0 = tr.Y[k]
			}
			if tr.Y[k] > s.Y1 {
				s.Y1 = tr.Y[k]
			}
		}
		fig.Shapes = append(fig.Shapes, s)
	}
}

// Points returns the number of plotted values across traces.
func (f *Figure) Points() int {
	n := 0
	for _, tr := range f.Traces {
		n += len(tr.Y)
	}
	return n
}
