package render

import (
	"bytes"
	"encoding/json"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
	"github.com/ChrisMcGann/ProtStats/pkg/plot"
	"github.com/ChrisMcGann/ProtStats/pkg/stats"
)

func testTree() *stats.Tree {
	return &stats.Tree{N: 3, Merges: []stats.Merge{
		{Left: 0, Right: 1, Distance: 1, Size: 2},
		{Left: 2, Right: 3, Distance: 4, Size: 3},
	}}
}

func testFigures() map[string]*plot.Figure {
	traces := []plot.Trace{
		{Name: "a", X: []float64{0, 1, 2}, Y: []float64{1, 4, 2}, Color: "#009599"},
		{Name: "b", X: []float64{3, 4}, Y: []float64{5, math.NaN()}, Color: "#B65EAF"},
	}
	hm := &plot.Heatmap{
		X:          []string{"A", "B", "C"},
		Y:          []string{"P1", "P2"},
		Z:          [][]float64{{1, 2, 3}, {3, math.NaN(), 1}},
		ColorScale: plot.DefaultTheme().ColorScale,
	}
	return map[string]*plot.Figure{
		plot.KindScatter: {
			Kind:   plot.KindScatter,
			Traces: traces,
			Shapes: []plot.Shape{{Name: "a", X0: 0, X1: 2, Y0: 1, Y1: 4, Color: "#009599", Opacity: 0.2}},
			Layout: plot.Layout{Title: "scatter", ShowLegend: true},
		},
		plot.KindBox:    {Kind: plot.KindBox, Traces: traces, Layout: plot.Layout{YAxis: plot.Axis{Title: "Intensity", Log: true}}},
		plot.KindViolin: {Kind: plot.KindViolin, Traces: traces},
		plot.KindStrip:  {Kind: plot.KindStrip, Traces: traces},
		plot.KindHeatmap: {
			Kind:    plot.KindHeatmap,
			Heatmap: hm,
		},
		plot.KindClustermap: {
			Kind:          plot.KindClustermap,
			Heatmap:       hm,
			LabelBars:     []plot.LabelBar{{Name: "group", Colors: []string{"#A6CEE3", "#A6CEE3", "#B2DF8A"}}},
			Dendrogram:    &plot.Dendrogram{Labels: hm.X, Tree: testTree()},
			RowDendrogram: &plot.Dendrogram{Labels: hm.Y, Tree: &stats.Tree{N: 2, Merges: []stats.Merge{{Left: 0, Right: 1, Distance: 2, Size: 2}}}},
		},
		plot.KindDendrogram: {
			Kind:       plot.KindDendrogram,
			Dendrogram: &plot.Dendrogram{Labels: []string{"A", "B", "C"}, Tree: testTree()},
		},
	}
}

func TestPNG(t *testing.T) {
	for kind, fig := range testFigures() {
		t.Run(kind, func(t *testing.T) {
			var buf bytes.Buffer
			if err := PNG(&buf, fig, 400, 300); err != nil {
				t.Fatalf("PNG() error = %v", err)
			}
			cfg, err := png.DecodeConfig(&buf)
			if err != nil {
				t.Fatalf("output is not a png: %v", err)
			}
			if cfg.Width != 400 || cfg.Height != 300 {
				t.Errorf("size = %dx%d, want 400x300", cfg.Width, cfg.Height)
			}
		})
	}
}

func TestPNGDefaultSize(t *testing.T) {
	var buf bytes.Buffer
	if err := PNG(&buf, testFigures()[plot.KindDendrogram], 0, 0); err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != DefaultWidth || cfg.Height != DefaultHeight {
		t.Errorf("size = %dx%d", cfg.Width, cfg.Height)
	}
}

func TestPNGErrors(t *testing.T) {
	tests := []struct {
		name string
		fig  *plot.Figure
	}{
		{"unknown kind", &plot.Figure{Kind: "pie"}},
		{"empty scatter", &plot.Figure{Kind: plot.KindScatter, Traces: []plot.Trace{{Name: "a", Y: []float64{math.NaN()}}}}},
		{"heatmap without cells", &plot.Figure{Kind: plot.KindHeatmap}},
		{"dendrogram without tree", &plot.Figure{Kind: plot.KindDendrogram}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := PNG(&buf, tt.fig, 100, 100); err == nil {
				t.Error("PNG() should fail")
			}
		})
	}
}

func TestJSON(t *testing.T) {
	fig := testFigures()[plot.KindScatter]
	fig.PlottingData = core.NewTable([]string{"sample", "x"}, [][]string{{"A", "1"}})
	fig.Preprocessing.Record(core.StepLog2, "true")
	fig.Method = "pca"

	var buf bytes.Buffer
	if err := JSON(&buf, fig); err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	var got struct {
		Kind   string
		Method string
		Traces []struct {
			Y []*float64
		}
		PlottingData struct {
			Header []string
		} `json:"plotting_data"`
		Preprocessing []struct {
			Name string
		}
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, buf.String())
	}
	if got.Kind != plot.KindScatter || got.Method != "pca" {
		t.Errorf("kind %q method %q", got.Kind, got.Method)
	}
	if len(got.Traces) != 2 || got.Traces[1].Y[1] != nil || *got.Traces[1].Y[0] != 5 {
		t.Errorf("Traces = %+v", got.Traces)
	}
	if len(got.PlottingData.Header) != 2 {
		t.Errorf("plotting data header = %v", got.PlottingData.Header)
	}
	if len(got.Preprocessing) != 1 || got.Preprocessing[0].Name != core.StepLog2 {
		t.Errorf("Preprocessing = %+v", got.Preprocessing)
	}
}

func TestJSONDendrogram(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, testFigures()[plot.KindDendrogram]); err != nil {
		t.Fatal(err)
	}
	var got struct {
		Dendrogram struct {
			Leaves []int
			Merges []struct{ Distance float64 }
		}
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Dendrogram.Leaves) != 3 || len(got.Dendrogram.Merges) != 2 || got.Dendrogram.Merges[1].Distance != 4 {
		t.Errorf("Dendrogram = %+v", got.Dendrogram)
	}
}

func TestScaleColor(t *testing.T) {
	scale := []string{"#000000", "#FFFFFF"}
	tests := []struct {
		t    float64
		want uint8
	}{
		{0, 0},
		{1, 255},
		{0.5, 128},
		{-1, 0},
		{2, 255},
	}
	for _, tt := range tests {
		c := color.RGBAModel.Convert(scaleColor(scale, tt.t)).(color.RGBA)
		if c.R != tt.want {
			t.Errorf("scaleColor(%v).R = %d, want %d", tt.t, c.R, tt.want)
		}
	}
}

func TestEllipse(t *testing.T) {
	xs, ys := ellipse(plot.Shape{X0: 0, X1: 2, Y0: -1, Y1: 1})
	if math.Abs(xs[0]-xs[len(xs)-1]) > 1e-9 || math.Abs(ys[0]-ys[len(ys)-1]) > 1e-9 {
		t.Error("ellipse is not closed")
	}
	for k := range xs {
		u, v := xs[k]-1, ys[k]
		if r := u*u + v*v; math.Abs(r-1) > 1e-9 {
			t.Fatalf("point %d off the outline: %v", k, r)
		}
	}
}

func TestHexColor(t *testing.T) {
	c := hexColor("#B65EAF")
	if c.R != 0xB6 || c.G != 0x5E || c.B != 0xAF || c.A != 255 {
		t.Errorf("hexColor = %+v", c)
	}
	if got := hexColor("bogus"); got.R != 0 || got.A != 255 {
		t.Errorf("invalid colour = %+v", got)
	}
}
