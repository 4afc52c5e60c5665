package loader

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

func maxQuantTable() *core.Table {
	return core.NewTable(
		[]string{"Protein IDs", "Majority protein IDs", "Gene names", "Intensity", "Intensity A", "LFQ intensity A", "LFQ intensity B", "Only identified by site", "Reverse", "Potential contaminant"},
		[][]string{
			{"P1;P1-2", "P1", "ALB", "30", "10", "11", "12", "", "", ""},
			{"P2", "P2", "APOE", "5", "5", "6", "0", "", "", "+"},
			{"REV__P3", "REV__P3", "", "1", "1", "1", "1", "", "+", ""},
			{"P4", "P4", "TF", "2", "2", "2", "2", "+", "", ""},
		},
	)
}

func TestMatchSample(t *testing.T) {
	tests := []struct {
		pattern string
		column  string
		want    string
		ok      bool
	}{
		{"LFQ intensity [sample]", "LFQ intensity A", "A", true},
		{"LFQ intensity [sample]", "LFQ intensity ", "", false},
		{"Intensity [sample]", "LFQ intensity A", "", false},
		{"Intensity [sample]", "Intensity", "", false},
		{"[sample]_LFQ", "run1_LFQ", "run1", true},
		{"[sample] MaxLFQ Intensity", "s1 MaxLFQ Intensity", "s1", true},
		{"[sample]", "anything", "anything", true},
		{"no placeholder", "no placeholder", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.column, func(t *testing.T) {
			got, ok := MatchSample(tt.pattern, tt.column)
			if got != tt.want || ok != tt.ok {
				t.Errorf("MatchSample() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLoadMaxQuant(t *testing.T) {
	src, err := Load(maxQuantTable(), "MaxQuant", Selection{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(src.Samples, []string{"A", "B"}) {
		t.Errorf("Samples = %v", src.Samples)
	}
	if src.IndexColumn != "Protein IDs" || src.GeneColumn != "Gene names" {
		t.Errorf("IndexColumn = %q, GeneColumn = %q", src.IndexColumn, src.GeneColumn)
	}
	want := []string{"P2", "REV__P3", "P4"}
	if !reflect.DeepEqual(src.Contaminants, want) {
		t.Errorf("Contaminants = %v, want %v", src.Contaminants, want)
	}

	m, err := src.Matrix()
	if err != nil {
		t.Fatalf("Matrix() error = %v", err)
	}
	if s, p := m.Dims(); s != 2 || p != 4 {
		t.Errorf("Dims() = (%d, %d), want (2, 4)", s, p)
	}
}

func TestLoadMaxQuantIntensityPattern(t *testing.T) {
	src, err := Load(maxQuantTable(), "MaxQuant", Selection{Intensity: []string{"Intensity [sample]"}, Index: "Majority protein IDs"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(src.IntensityColumns, []string{"Intensity A"}) {
		t.Errorf("IntensityColumns = %v", src.IntensityColumns)
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		software string
		table    *core.Table
		wantErr  bool
	}{
		{"maxquant ok", "MaxQuant", maxQuantTable(), false},
		{"maxquant missing reverse", "MaxQuant", core.NewTable([]string{"Protein IDs", "Potential contaminant"}, nil), true},
		{"diann", "DIANN", core.NewTable([]string{"Protein.Group", "run1"}, nil), false},
		{"diann wrong", "DIANN", core.NewTable([]string{"Protein", "run1"}, nil), true},
		{"spectronaut wrong", "Spectronaut", core.NewTable([]string{"PG.Genes"}, nil), true},
		{"fragpipe wrong", "FragPipe", core.NewTable([]string{"Protein ID"}, nil), true},
		{"alphapept text column", "AlphaPept", core.NewTable([]string{"", "a_LFQ"}, [][]string{{"P1", "abc"}}), true},
		{"alphapept numeric", "AlphaPept", core.NewTable([]string{"", "a_LFQ"}, [][]string{{"P1", "1.5"}}), false},
		{"other", "Other", core.NewTable([]string{"x"}, nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.table, tt.software)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
			var verr *core.ValidationError
			if err != nil && !errors.As(err, &verr) {
				t.Errorf("Check() error type = %T, want *core.ValidationError", err)
			}
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("Proteome Discoverer"); !errors.Is(err, core.ErrUnsupportedMethod) {
		t.Errorf("Lookup() error = %v, want ErrUnsupportedMethod", err)
	}
}

func TestLoadAlphaPept(t *testing.T) {
	tbl := core.NewTable(
		[]string{"", "a", "b", "a_LFQ", "b_LFQ"},
		[][]string{
			{"P1", "1", "2", "3", "4"},
			{"REV__P2", "1", "2", "3", "4"},
			{"CON__P3", "1", "2", "3", "4"},
		},
	)
	src, err := Load(tbl, "AlphaPept", Selection{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if src.IndexColumn != alphaPeptIndex {
		t.Errorf("IndexColumn = %q", src.IndexColumn)
	}
	if !reflect.DeepEqual(src.Samples, []string{"a", "b"}) || src.IntensityColumns[0] != "a_LFQ" {
		t.Errorf("Samples = %v, columns = %v", src.Samples, src.IntensityColumns)
	}
	if len(src.Contaminants) != 2 {
		t.Errorf("Contaminants = %v", src.Contaminants)
	}

	raw, err := Load(tbl, "AlphaPept", Selection{Intensity: []string{"[sample]"}})
	if err != nil {
		t.Fatalf("Load([sample]) error = %v", err)
	}
	if !reflect.DeepEqual(raw.IntensityColumns, []string{"a", "b"}) {
		t.Errorf("IntensityColumns = %v", raw.IntensityColumns)
	}
}

func TestLoadDIANN(t *testing.T) {
	tbl := core.NewTable(
		[]string{"Protein.Group", "Protein.Ids", "Protein.Names", "Genes", "First.Protein.Description", "run1.raw", "run2.raw"},
		[][]string{{"P1", "P1", "ALB_HUMAN", "ALB", "Albumin", "100", "200"}},
	)
	src, err := Load(tbl, "DIANN", Selection{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(src.Samples, []string{"run1.raw", "run2.raw"}) {
		t.Errorf("Samples = %v", src.Samples)
	}
	if src.GeneColumn != "Genes" || len(src.Contaminants) != 0 {
		t.Errorf("GeneColumn = %q, Contaminants = %v", src.GeneColumn, src.Contaminants)
	}
}

func TestLoadSpectronautLong(t *testing.T) {
	tbl := core.NewTable(
		[]string{"R.FileName", "PG.ProteinGroups", "PG.Genes", "PG.Quantity", "EG.PrecursorId"},
		[][]string{
			{"s1", "P1", "ALB", "10", "AAA"},
			{"s1", "P1", "ALB", "10", "AAB"},
			{"s2", "P1", "ALB", "20", "AAA"},
			{"s1", "P2", "TF", "5", "CCC"},
		},
	)
	src, err := Load(tbl, "Spectronaut", Selection{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(src.Samples, []string{"s1", "s2"}) {
		t.Errorf("Samples = %v", src.Samples)
	}
	wantHeader := []string{"PG.ProteinGroups", "PG.Genes", "s1", "s2"}
	if !reflect.DeepEqual(src.Table.Header, wantHeader) {
		t.Errorf("Header = %v, want %v", src.Table.Header, wantHeader)
	}
	if rows, _ := src.Table.Shape(); rows != 2 {
		t.Errorf("rows = %d, want 2", rows)
	}

	m, err := src.Matrix()
	if err != nil {
		t.Fatalf("Matrix() error = %v", err)
	}
	if m.At(1, 0) != 20 {
		t.Errorf("s2/P1 = %v, want 20", m.At(1, 0))
	}
}

func TestLoadSpectronautWide(t *testing.T) {
	tbl := core.NewTable(
		[]string{"PG.ProteinGroups", "[1] a.PG.Quantity", "[2] b.PG.Quantity", "[1] a.PG.IBAQ"},
		[][]string{{"P1", "1", "2", "3"}},
	)
	src, err := Load(tbl, "Spectronaut", Selection{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(src.Samples, []string{"[1] a", "[2] b"}) {
		t.Errorf("Samples = %v", src.Samples)
	}
}

func TestLoadFragPipe(t *testing.T) {
	tbl := core.NewTable(
		[]string{"Protein", "Gene", "a Intensity", "a MaxLFQ Intensity", "b Intensity", "b MaxLFQ Intensity"},
		[][]string{
			{"sp|P1|ALB", "ALB", "1", "2", "3", "4"},
			{"contam_sp|P2", "", "1", "2", "3", "4"},
			{"rev_sp|P3", "", "1", "2", "3", "4"},
		},
	)

	src, err := Load(tbl, "FragPipe", Selection{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(src.IntensityColumns, []string{"a MaxLFQ Intensity", "b MaxLFQ Intensity"}) {
		t.Errorf("IntensityColumns = %v", src.IntensityColumns)
	}
	if len(src.Contaminants) != 2 {
		t.Errorf("Contaminants = %v", src.Contaminants)
	}

	raw, err := Load(tbl, "FragPipe", Selection{Intensity: []string{"[sample] Intensity"}})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(raw.Samples, []string{"a", "b"}) {
		t.Errorf("Samples = %v", raw.Samples)
	}
}

func TestLoadOther(t *testing.T) {
	tbl := core.NewTable([]string{"id", "x", "y"}, [][]string{{"P1", "1", "2"}})

	src, err := Load(tbl, "Other", Selection{Intensity: []string{"x", "y"}, Index: "id"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(src.Samples, []string{"x", "y"}) {
		t.Errorf("Samples = %v", src.Samples)
	}

	if _, err := Load(tbl, "Other", Selection{Intensity: []string{"z"}, Index: "id"}); !errors.Is(err, core.ErrUnknownColumn) {
		t.Errorf("unknown intensity column error = %v", err)
	}
	if _, err := Load(tbl, "Other", Selection{Index: "id"}); err == nil {
		t.Error("empty intensity selection should fail")
	}
}

func TestLoadUnknownIndex(t *testing.T) {
	_, err := Load(maxQuantTable(), "MaxQuant", Selection{Index: "Protein"})
	if !errors.Is(err, core.ErrUnknownColumn) {
		t.Errorf("Load() error = %v, want ErrUnknownColumn", err)
	}
}
