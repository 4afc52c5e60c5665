package analysis

import (
	"errors"
	"testing"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
	"github.com/ChrisMcGann/ProtStats/pkg/stats"
)

func testDataSet(t *testing.T) *core.DataSet {
	t.Helper()
	tbl := core.NewTable(
		[]string{"Protein IDs", "A", "B", "C", "D", "E", "F"},
		[][]string{
			{"P1", "100", "110", "105", "10", "11", "10.5"},
			{"P2", "10", "11", "10.5", "100", "110", "105"},
			{"P3", "5", "6", "7", "5", "7", "6"},
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
	meta := core.NewTable([]string{"sample", "disease"}, [][]string{
		{"A", "healthy"}, {"B", "healthy"}, {"C", "healthy"},
		{"D", "sick"}, {"E", "sick"}, {"F", "sick"},
	})
	ds, err := core.NewDataSet(src, meta, "sample")
	if err != nil {
		t.Fatalf("NewDataSet() error = %v", err)
	}
	return ds
}

func TestNamesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, n := range Names() {
		if seen[n] {
			t.Errorf("duplicate method %q", n)
		}
		seen[n] = true
		m, err := Lookup(n)
		if err != nil || m.run == nil {
			t.Errorf("Lookup(%q) = %v, %v", n, m.Name, err)
		}
	}
}

func TestRunErrors(t *testing.T) {
	ds := testDataSet(t)
	tests := []struct {
		name   string
		method string
		params map[string]string
		check  func(error) bool
	}{
		{"unknown method", "umap", nil, func(err error) bool { return errors.Is(err, core.ErrUnsupportedMethod) }},
		{"unknown volcano test", "volcano", map[string]string{"column": "disease", "group1": "healthy", "group2": "sick", "method": "limma"},
			func(err error) bool { return errors.Is(err, core.ErrUnsupportedMethod) }},
		{"unknown correlation", "correlation", map[string]string{"method": "cosine"},
			func(err error) bool { return errors.Is(err, core.ErrUnsupportedMethod) }},
		{"missing group", "ttest", map[string]string{"column": "disease", "group1": "healthy"}, isValidation},
		{"same groups", "ttest", map[string]string{"column": "disease", "group1": "sick", "group2": "sick"}, isValidation},
		{"unknown group value", "ttest", map[string]string{"column": "disease", "group1": "healthy", "group2": "cured"}, isValidation},
		{"unknown metadata column", "anova", map[string]string{"column": "age"}, func(err error) bool { return errors.Is(err, core.ErrUnknownColumn) }},
		{"bad number", "tsne", map[string]string{"perplexity": "many"}, isValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(ds, nil, tt.method, tt.params)
			if !tt.check(err) {
				t.Errorf("Run() error = %v", err)
			}
		})
	}
}

func isValidation(err error) bool {
	var verr *core.ValidationError
	return errors.As(err, &verr)
}

func TestRunStatistics(t *testing.T) {
	ds := testDataSet(t)
	tests := []struct {
		method string
		params map[string]string
		rows   int
		column string
	}{
		{"ttest", map[string]string{"column": "disease", "group1": "healthy", "group2": "sick"}, 4, "pval"},
		{"wald", map[string]string{"column": "disease", "group1": "healthy", "group2": "sick"}, 4, "qval"},
		{"anova", map[string]string{"column": "disease", "tukey": "true"}, 4, stats.TukeyColumn("healthy", "sick")},
		{"tukey", map[string]string{"id": "P1", "group": "disease"}, 1, stats.ANOVAColumn},
		{"kruskal", map[string]string{"column": "disease"}, 4, "H"},
		{"describe", nil, 6, "50%"},
		{"preprocessing", nil, 3, "Value"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			res, err := Run(ds, nil, tt.method, tt.params)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if res.Table == nil || res.Figure != nil {
				t.Fatalf("Result = %+v, want a table", res)
			}
			if rows, _ := res.Table.Shape(); rows != tt.rows {
				t.Errorf("rows = %d, want %d", rows, tt.rows)
			}
			if res.Table.ColumnIndex(tt.column) < 0 {
				t.Errorf("Header = %v, missing %q", res.Table.Header, tt.column)
			}
		})
	}
}

func TestRunPlots(t *testing.T) {
	ds := testDataSet(t)
	tests := []struct {
		method string
		params map[string]string
	}{
		{"pca", map[string]string{"group": "disease", "circle": "true"}},
		{"tsne", map[string]string{"perplexity": "2", "iterations": "250"}},
		{"volcano", map[string]string{"column": "disease", "group1": "healthy", "group2": "sick", "method": "ttest"}},
		{"sampledistribution", map[string]string{"color": "disease"}},
		{"intensity", map[string]string{"id": "P1", "group": "disease", "method": "scatter"}},
		{"correlation", nil},
		{"clustermap", map[string]string{"label_bar": "disease"}},
		{"dendrogram", nil},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			m, _ := Lookup(tt.method)
			if !m.IsPlot() {
				t.Errorf("%s is not listed as a plot", tt.method)
			}
			res, err := Run(ds, nil, tt.method, tt.params)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if res.Figure == nil || res.Table != nil {
				t.Fatalf("Result = %+v, want a figure", res)
			}
			if res.Figure.PlottingData == nil {
				t.Error("figure without plotting data")
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	ds := testDataSet(t)
	res, err := Run(ds, nil, "dendrogram", nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Figure.Method != stats.Complete {
		t.Errorf("Method = %q, want complete", res.Figure.Method)
	}
	res, err = Run(ds, nil, "sampledistribution", nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Figure.Method != "violin" {
		t.Errorf("Method = %q, want violin", res.Figure.Method)
	}
}

func TestChoices(t *testing.T) {
	ds := testDataSet(t)
	m, _ := Lookup("volcano")
	settings := m.AllSettings()
	if settings[0].Name != ParamColumn || settings[1].Name != ParamGroup1 {
		t.Fatalf("settings = %+v", settings)
	}
	if got := settings[0].Choices(ds, ""); len(got) != 1 || got[0] != "disease" {
		t.Errorf("metadata choices = %v", got)
	}
	if got := settings[1].Choices(ds, "disease"); len(got) != 2 || got[0] != "healthy" {
		t.Errorf("group choices = %v", got)
	}
	if got := settings[3].Choices(ds, ""); len(got) != 3 {
		t.Errorf("method choices = %v", got)
	}
}
