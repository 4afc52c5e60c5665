package cmd

import (
	"fmt"
	"os"

	"github.com/ChrisMcGann/ProtStats/pkg/config"
	"github.com/ChrisMcGann/ProtStats/pkg/core"
	"github.com/ChrisMcGann/ProtStats/pkg/filter"
	"github.com/ChrisMcGann/ProtStats/pkg/loader"
	"github.com/ChrisMcGann/ProtStats/pkg/reader/table"
)

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", configFile, err)
	}
	return cfg, nil
}

func readTable(path string) (*core.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()
	return table.Read(f, path)
}

// loadSource reads path and extracts the intensity columns of the selected software.
func loadSource(path string) (*core.Source, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	rows, cols := t.Shape()
	fmt.Printf("Read %s: %d rows, %d columns\n", path, rows, cols)

	src, err := loader.Load(t, software, loader.Selection{Intensity: intensityColumns, Index: indexColumn})
	if err != nil {
		return nil, err
	}
	if len(src.Samples) == 0 {
		return nil, fmt.Errorf("no intensity columns found in %s", path)
	}
	return src, nil
}

// loadDataSet builds the data set from --in and --metadata and applies the
// preprocessing flags.
func loadDataSet() (*core.DataSet, error) {
	src, err := loadSource(inputFile)
	if err != nil {
		return nil, err
	}

	var meta *core.Table
	if metadataFile != "" {
		if meta, err = readTable(metadataFile); err != nil {
			return nil, fmt.Errorf("failed to read metadata: %w", err)
		}
	}
	ds, err := core.NewDataSet(src, meta, sampleColumn)
	if err != nil {
		return nil, err
	}
	samples, proteins := ds.Matrix.Dims()
	fmt.Printf("DataSet: %d samples, %d protein groups\n", samples, proteins)

	pre := &filter.Config{
		RemoveContaminations: removeContaminations,
		Subset:               subsetToMetadata,
		RemoveSamples:        removeSamples,
		MinValidFraction:     minValidFraction,
		Log2Transform:        log2Transform,
		Normalization:        normalization,
		Imputation:           imputation,
	}
	if err := pre.Apply(ds); err != nil {
		return nil, fmt.Errorf("preprocessing failed: %w", err)
	}
	for _, s := range ds.Preprocessing.Steps {
		fmt.Printf("Preprocessing: %s: %s\n", s.Name, s.Value)
	}
	if ds.Matrix.HasMissing() {
		fmt.Fprintf(os.Stderr, "Warning: matrix has %.1f%% missing values\n", 100*ds.Matrix.MissingFraction())
	}
	return ds, nil
}
