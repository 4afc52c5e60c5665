package render

import (
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/carbocation/pfx"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
	"github.com/ChrisMcGann/ProtStats/pkg/plot"
)

// number encodes NaN and infinities as null.
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func numbers(values []float64) []number {
	if values == nil {
		return nil
	}
	out := make([]number, len(values))
	for i, v := range values {
		out[i] = number(v)
	}
	return out
}

type jsonTrace struct {
	Name   string   `json:"name"`
	Group  string   `json:"group,omitempty"`
	X      []number `json:"x,omitempty"`
	Y      []number `json:"y"`
	Labels []string `json:"text,omitempty"`
	Color  string   `json:"color"`
}

type jsonHeatmap struct {
	X          []string   `json:"x"`
	Y          []string   `json:"y"`
	Z          [][]number `json:"z"`
	ColorScale []string   `json:"colorscale"`
}

type jsonMerge struct {
	Left     int    `json:"left"`
	Right    int    `json:"right"`
	Distance number `json:"distance"`
	Size     int    `json:"size"`
}

type jsonDendrogram struct {
	Labels []string    `json:"labels"`
	Leaves []int       `json:"leaves"`
	Merges []jsonMerge `json:"merges"`
}

type jsonTable struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

type jsonStep struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type jsonFigure struct {
	Kind          string          `json:"kind"`
	Traces        []jsonTrace     `json:"traces,omitempty"`
	Shapes        []plot.Shape    `json:"shapes,omitempty"`
	Layout        plot.Layout     `json:"layout"`
	Heatmap       *jsonHeatmap    `json:"heatmap,omitempty"`
	LabelBars     []plot.LabelBar `json:"labelbars,omitempty"`
	Dendrogram    *jsonDendrogram `json:"dendrogram,omitempty"`
	RowDendrogram *jsonDendrogram `json:"row_dendrogram,omitempty"`
	PlottingData  *jsonTable      `json:"plotting_data,omitempty"`
	Preprocessing []jsonStep      `json:"preprocessing"`
	Method        string          `json:"method"`
}

// JSON writes fig for the browser. Missing values are written as null.
func JSON(w io.Writer, fig *plot.Figure) error {
	out := jsonFigure{
		Kind:          fig.Kind,
		Shapes:        fig.Shapes,
		Layout:        fig.Layout,
		LabelBars:     fig.LabelBars,
		Dendrogram:    dendrogramJSON(fig.Dendrogram),
		RowDendrogram: dendrogramJSON(fig.RowDendrogram),
		PlottingData:  tableJSON(fig.PlottingData),
		Preprocessing: []jsonStep{},
		Method:        fig.Method,
	}
	for _, tr := range fig.Traces {
		out.Traces = append(out.Traces, jsonTrace{
			Name:   tr.Name,
			Group:  tr.Group,
			X:      numbers(tr.X),
			Y:      numbers(tr.Y),
			Labels: tr.Labels,
			Color:  tr.Color,
		})
	}
	if hm := fig.Heatmap; hm != nil {
		out.Heatmap = &jsonHeatmap{X: hm.X, Y: hm.Y, ColorScale: hm.ColorScale}
		for _, row := range hm.Z {
			out.Heatmap.Z = append(out.Heatmap.Z, numbers(row))
		}
	}
	for _, s := range fig.Preprocessing.Steps {
		out.Preprocessing = append(out.Preprocessing, jsonStep{Name: s.Name, Value: s.Value})
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return pfx.Err(err)
	}
	return nil
}

func dendrogramJSON(d *plot.Dendrogram) *jsonDendrogram {
	if d == nil || d.Tree == nil {
		return nil
	}
	out := &jsonDendrogram{Labels: d.Labels, Leaves: d.Tree.Leaves(), Merges: []jsonMerge{}}
	for _, m := range d.Tree.Merges {
		out.Merges = append(out.Merges, jsonMerge{Left: m.Left, Right: m.Right, Distance: number(m.Distance), Size: m.Size})
	}
	return out
}

func tableJSON(t *core.Table) *jsonTable {
	if t == nil {
		return nil
	}
	return &jsonTable{Header: t.Header, Rows: t.Rows}
}
