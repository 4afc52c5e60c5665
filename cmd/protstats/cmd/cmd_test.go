package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		plot    bool
		wantErr bool
	}{
		{"pca", true, false},
		{"volcano", true, false},
		{"ttest", false, false},
		{"describe", false, false},
		{"ttest", true, true},
		{"pca", false, true},
		{"nonexistent", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lookup(tt.name, tt.plot)
			if (err != nil) != tt.wantErr {
				t.Errorf("lookup(%q, %v) error = %v, wantErr %v", tt.name, tt.plot, err, tt.wantErr)
			}
		})
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"serve", "validate", "summarize", "template", "plot", "stats", "export"}
	for _, name := range want {
		c, _, err := rootCmd.Find([]string{name})
		if err != nil || c.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestLoadDataSet(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "proteins.tsv")
	meta := filepath.Join(dir, "metadata.csv")
	if err := os.WriteFile(in, []byte("id\tA\tB\tC\nP1\t1\t2\t4\nP2\t8\t\t16\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(meta, []byte("name,group\nA,x\nB,y\nC,y\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	inputFile, metadataFile, sampleColumn = in, meta, "name"
	software, intensityColumns, indexColumn = "Other", []string{"A", "B", "C"}, "id"
	log2Transform = true
	defer func() {
		inputFile, metadataFile, sampleColumn = "", "", "sample"
		software, intensityColumns, indexColumn = "MaxQuant", nil, ""
		log2Transform = false
	}()

	ds, err := loadDataSet()
	if err != nil {
		t.Fatalf("loadDataSet() error = %v", err)
	}
	samples, proteins := ds.Matrix.Dims()
	if samples != 3 || proteins != 2 {
		t.Errorf("Dims() = %d, %d, want 3, 2", samples, proteins)
	}
	if got := ds.Matrix.At(2, 1); got != 4 {
		t.Errorf("log2 C/P2 = %v, want 4", got)
	}
	if !ds.Log2Transformed() {
		t.Error("data set should be log2 transformed")
	}
}
