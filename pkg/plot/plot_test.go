package plot

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

func testPlotter(t *testing.T, missing bool) *Plotter {
	t.Helper()
	p3 := "7"
	if missing {
		p3 = ""
	}
	tbl := core.NewTable(
		[]string{"Protein IDs", "A", "B", "C", "D", "E", "F"},
		[][]string{
			{"P1", "100", "110", "105", "10", "11", "10.5"},
			{"P2", "10", "11", "10.5", "100", "110", "105"},
			{"P3", "5", "6", p3, "5", "7", "6"},
			{"P4", "1", "2", "3", "1.1", "2", "2.9"},
		},
	)
	src := &core.Source{
		Software:         "MaxQuant",
		Table:            tbl,
		IndexColumn:      "Protein IDs",
		IntensityColumns: []string{"A", "B", "C", "D", "E", "F"},
		Samples:          []string{"A", "B", "C", "D", "E", "F"},
	}
	meta := core.NewTable([]string{"sample", "disease", "sex"}, [][]string{
		{"A", "healthy", "f"}, {"B", "healthy", "m"}, {"C", "healthy", "f"},
		{"D", "sick", "m"}, {"E", "sick", "f"}, {"F", "sick", "m"},
	})
	ds, err := core.NewDataSet(src, meta, "sample")
	if err != nil {
		t.Fatalf("NewDataSet() error = %v", err)
	}
	return New(ds, DefaultTheme())
}

func TestUnsupportedMethods(t *testing.T) {
	p := testPlotter(t, false)
	tests := []struct {
		name string
		run  func() (*Figure, error)
	}{
		{"reduction", func() (*Figure, error) { return p.DimensionalityReduction("umap", "", false) }},
		{"correlation", func() (*Figure, error) { return p.CorrelationMatrix("cosine") }},
		{"distribution", func() (*Figure, error) { return p.SampleDistribution("histogram", "", false) }},
		{"distribution scatter", func() (*Figure, error) { return p.SampleDistribution("scatter", "", false) }},
		{"intensity", func() (*Figure, error) { return p.Intensity("P1", "disease", "bar", false) }},
		{"volcano", func() (*Figure, error) { return p.Volcano("disease", "healthy", "sick", "limma") }},
		{"dendrogram", func() (*Figure, error) { return p.Dendrogram("ward") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.run(); !errors.Is(err, core.ErrUnsupportedMethod) {
				t.Errorf("error = %v, want ErrUnsupportedMethod", err)
			}
		})
	}
}

func TestMissingValues(t *testing.T) {
	p := testPlotter(t, true)
	tests := []struct {
		name string
		run  func() (*Figure, error)
	}{
		{"pca", func() (*Figure, error) { return p.PCA("disease", false) }},
		{"tsne", func() (*Figure, error) { return p.TSNE("", false, 2, 250) }},
		{"clustermap", func() (*Figure, error) { return p.Clustermap(nil) }},
		{"dendrogram", func() (*Figure, error) { return p.Dendrogram("") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.run(); !errors.Is(err, core.ErrMissingValues) {
				t.Errorf("error = %v, want ErrMissingValues", err)
			}
		})
	}
}

func TestPCA(t *testing.T) {
	p := testPlotter(t, false)
	fig, err := p.PCA("disease", true)
	if err != nil {
		t.Fatalf("PCA() error = %v", err)
	}
	if len(fig.Traces) != 2 || fig.Traces[0].Name != "healthy" {
		t.Fatalf("Traces = %+v", fig.Traces)
	}
	if len(fig.Shapes) != 2 {
		t.Errorf("Shapes = %d, want 2", len(fig.Shapes))
	}
	if rows, _ := fig.PlottingData.Shape(); rows != 6 || fig.Points() != 6 {
		t.Errorf("plotting data rows = %d, points = %d, want 6", rows, fig.Points())
	}
	if !strings.HasPrefix(fig.Layout.XAxis.Title, "PC 1 (") || !strings.HasSuffix(fig.Layout.XAxis.Title, "%)") {
		t.Errorf("x axis = %q", fig.Layout.XAxis.Title)
	}
	if fig.Traces[0].Color != "#009599" || fig.Traces[1].Color != "#005358" {
		t.Errorf("colors = %s, %s", fig.Traces[0].Color, fig.Traces[1].Color)
	}
	if fig.Method != MethodPCA {
		t.Errorf("Method = %q", fig.Method)
	}

	ungrouped, err := p.PCA("", true)
	if err != nil {
		t.Fatal(err)
	}
	if len(ungrouped.Shapes) != 0 {
		t.Errorf("Shapes without group = %d, want 0", len(ungrouped.Shapes))
	}
}

func TestTSNE(t *testing.T) {
	p := testPlotter(t, false)
	fig, err := p.TSNE("", false, 2, 250)
	if err != nil {
		t.Fatalf("TSNE() error = %v", err)
	}
	if fig.Layout.XAxis.Title != "Dimension 1" || len(fig.Traces) != 1 {
		t.Errorf("figure = %+v", fig.Layout)
	}
	if rows, _ := fig.PlottingData.Shape(); rows != 6 {
		t.Errorf("plotting data rows = %d", rows)
	}

	if _, err := p.TSNE("", false, 30, 250); err == nil {
		t.Error("perplexity above the sample count should fail")
	}

	defaults := New(p.DataSet, DefaultTheme()).TSNEOptions
	if p.TSNEOptions != defaults {
		t.Errorf("TSNEOptions after calls = %+v, want %+v", p.TSNEOptions, defaults)
	}
	if _, err := p.DimensionalityReduction(MethodTSNE, "", false); err != nil {
		t.Errorf("default t-SNE after a failed override: %v", err)
	}
}

func TestSampleDistribution(t *testing.T) {
	p := testPlotter(t, false)
	fig, err := p.SampleDistribution(MethodBox, "", true)
	if err != nil {
		t.Fatalf("SampleDistribution() error = %v", err)
	}
	if fig.Kind != KindBox || len(fig.Traces) != 6 || !fig.Layout.YAxis.Log {
		t.Errorf("figure kind %q, traces %d", fig.Kind, len(fig.Traces))
	}
	if rows, _ := fig.PlottingData.Shape(); rows != 24 || fig.Points() != 24 {
		t.Errorf("plotting data rows = %d, points = %d, want 24", rows, fig.Points())
	}

	colored, err := p.SampleDistribution(MethodViolin, "disease", false)
	if err != nil {
		t.Fatal(err)
	}
	if colored.PlottingData.ColumnIndex("disease") < 0 {
		t.Errorf("Header = %v", colored.PlottingData.Header)
	}
	if colored.Traces[0].Color != colored.Traces[1].Color || colored.Traces[0].Color == colored.Traces[3].Color {
		t.Error("samples of one group should share a colour")
	}
}

func TestIntensity(t *testing.T) {
	p := testPlotter(t, false)
	fig, err := p.Intensity("P1", "disease", MethodScatter, false)
	if err != nil {
		t.Fatalf("Intensity() error = %v", err)
	}
	if fig.Kind != KindStrip || len(fig.Traces) != 2 || len(fig.Traces[1].X) != 3 {
		t.Errorf("figure = %+v", fig.Traces)
	}
	if rows, _ := fig.PlottingData.Shape(); rows != 6 {
		t.Errorf("plotting data rows = %d", rows)
	}

	_, err = p.Intensity("P", "disease", MethodBox, false)
	var verr *core.ValidationError
	if !errors.As(err, &verr) || !strings.Contains(verr.Message, "did you mean") {
		t.Errorf("unknown protein error = %v", err)
	}
}

func TestSimilarIDs(t *testing.T) {
	ids := []string{"P12345", "P12345-2", "Q99999", "P1"}
	got := SimilarIDs(ids, "P12345-1", 2)
	if len(got) != 2 || got[0] != "P12345-2" {
		t.Errorf("SimilarIDs() = %v", got)
	}
}

func TestVolcano(t *testing.T) {
	for _, method := range VolcanoMethods {
		t.Run(method, func(t *testing.T) {
			p := testPlotter(t, false)
			fig, err := p.Volcano("disease", "healthy", "sick", method)
			if err != nil {
				t.Fatalf("Volcano() error = %v", err)
			}
			if fig.Layout.ShowLegend {
				t.Error("volcano legend should be hidden")
			}
			rows, _ := fig.PlottingData.Shape()
			if rows != 4 || rows != fig.Points() {
				t.Errorf("plotting data rows = %d, points = %d, want 4", rows, fig.Points())
			}
			heights, _ := fig.PlottingData.Column("-log10(p-value)")
			for i, h := range heights {
				y, err := strconv.ParseFloat(h, 64)
				if err != nil || math.IsInf(y, 0) || math.IsNaN(y) {
					t.Errorf("row %d height = %q, want a finite value", i, h)
				}
			}
			colors, _ := fig.PlottingData.Column("color")
			ids, _ := fig.PlottingData.Column("Protein ID")
			for i, id := range ids {
				want := ClassNonSignificant
				switch id {
				case "P1":
					want = ClassUp
				case "P2":
					want = ClassDown
				}
				if colors[i] != want {
					t.Errorf("%s classified %s, want %s", id, colors[i], want)
				}
			}
			for _, tr := range fig.Traces {
				if tr.Name == ClassUp && tr.Color != "#B65EAF" {
					t.Errorf("up colour = %s", tr.Color)
				}
			}
		})
	}
}

func TestVolcanoSeparatedGroups(t *testing.T) {
	// Complete separation drives the Wald q-values of P1 and P2 to zero
	p := testPlotter(t, false)
	fig, err := p.Volcano("disease", "healthy", "sick", MethodWald)
	if err != nil {
		t.Fatal(err)
	}
	ids, _ := fig.PlottingData.Column("Protein ID")
	heights, _ := fig.PlottingData.Column("-log10(p-value)")
	got := make(map[string]float64, len(ids))
	for i, id := range ids {
		got[id], _ = strconv.ParseFloat(heights[i], 64)
	}
	for _, id := range []string{"P1", "P2"} {
		y, ok := got[id]
		if !ok {
			t.Fatalf("%s missing from plotting data %v", id, ids)
		}
		if y < got["P3"] || y < got["P4"] {
			t.Errorf("%s height = %v, want at least P3 %v and P4 %v", id, y, got["P3"], got["P4"])
		}
	}
	if ceiling := -math.Log10(math.SmallestNonzeroFloat64); got["P1"] > ceiling {
		t.Errorf("P1 height = %v, want at most %v", got["P1"], ceiling)
	}
}

func TestVolcanoPValueColumn(t *testing.T) {
	p := testPlotter(t, false)
	fig, err := p.Volcano("disease", "sick", "healthy", MethodANOVA)
	if err != nil {
		t.Fatal(err)
	}
	if fig.PlottingData.ColumnIndex("healthy vs. sick Tukey Test") < 0 {
		t.Errorf("Header = %v", fig.PlottingData.Header)
	}
	wald, err := p.Volcano("disease", "healthy", "sick", MethodWald)
	if err != nil {
		t.Fatal(err)
	}
	if wald.PlottingData.ColumnIndex("qval") < 0 {
		t.Errorf("Header = %v", wald.PlottingData.Header)
	}
}

func TestClassify(t *testing.T) {
	opts := DefaultVolcanoOptions()
	tests := []struct {
		fc, y float64
		want  string
	}{
		{2, 2, ClassUp},
		{-2, 2, ClassDown},
		{2, 0.5, ClassNonSignificant},
		{0.5, 5, ClassNonSignificant},
		{1, 5, ClassNonSignificant},
	}
	for _, tt := range tests {
		if got := Classify(tt.fc, tt.y, opts); got != tt.want {
			t.Errorf("Classify(%v, %v) = %s, want %s", tt.fc, tt.y, got, tt.want)
		}
	}
}

func TestCorrelationHeatmap(t *testing.T) {
	p := testPlotter(t, false)
	fig, err := p.CorrelationMatrix("spearman")
	if err != nil {
		t.Fatal(err)
	}
	if len(fig.Heatmap.Z) != 6 || fig.Heatmap.Z[0][0] != 1 {
		t.Errorf("heatmap = %v", fig.Heatmap.Z)
	}
	if rows, _ := fig.PlottingData.Shape(); rows != 6 {
		t.Errorf("plotting data rows = %d", rows)
	}
}

func TestClustermap(t *testing.T) {
	p := testPlotter(t, false)
	fig, err := p.Clustermap([]string{"disease", "sex"})
	if err != nil {
		t.Fatalf("Clustermap() error = %v", err)
	}
	if len(fig.Heatmap.X) != 6 || len(fig.Heatmap.Y) != 4 || len(fig.Heatmap.Z) != 4 {
		t.Errorf("heatmap %d x %d", len(fig.Heatmap.Y), len(fig.Heatmap.X))
	}
	if len(fig.LabelBars) != 2 || len(fig.LabelBars[0].Colors) != 6 {
		t.Errorf("LabelBars = %+v", fig.LabelBars)
	}
	disease, sex := fig.LabelBars[0].Palette, fig.LabelBars[1].Palette
	if disease["healthy"] == sex["f"] {
		t.Errorf("first values of both bars share colour %s", disease["healthy"])
	}
	if disease["sick"] != "#009599" || sex["m"] != "#005358" {
		t.Errorf("last values = %s, %s, want the bar's colorway colour", disease["sick"], sex["m"])
	}
	if _, err := p.Clustermap([]string{"age"}); !errors.Is(err, core.ErrUnknownColumn) {
		t.Errorf("unknown label bar error = %v", err)
	}
}

func TestLightRamp(t *testing.T) {
	tests := []struct {
		base string
		n    int
		want []string
	}{
		{"#000000", 2, []string{"#D9D9D9", "#000000"}},
		{"#FF0000", 3, []string{"#FFD9D9", "#FF6C6C", "#FF0000"}},
		{"#000000", 1, []string{"#D9D9D9"}},
		{"#000000", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.base+"_"+strconv.Itoa(tt.n), func(t *testing.T) {
			got := LightRamp(tt.base, tt.n)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("LightRamp(%s, %d) = %v, want %v", tt.base, tt.n, got, tt.want)
			}
		})
	}
}

func TestDendrogram(t *testing.T) {
	p := testPlotter(t, false)
	fig, err := p.Dendrogram("")
	if err != nil {
		t.Fatal(err)
	}
	if fig.Method != "complete" || len(fig.Dendrogram.Tree.Merges) != 5 {
		t.Errorf("Method = %q, merges = %d", fig.Method, len(fig.Dendrogram.Tree.Merges))
	}
}

func TestUpdateColors(t *testing.T) {
	p := testPlotter(t, false)
	fig, err := p.PCA("disease", true)
	if err != nil {
		t.Fatal(err)
	}
	UpdateColors(fig, map[string]string{"sick": "#FF0000"})
	if fig.Traces[1].Color != "#FF0000" || fig.Shapes[1].Color != "#FF0000" {
		t.Errorf("colors not updated: %+v", fig.Traces[1])
	}
	if fig.Traces[0].Color == "#FF0000" {
		t.Error("other group recoloured")
	}
}
