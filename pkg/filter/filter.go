// Package filter provides the preprocessing steps applied to a data set's intensity matrix
package filter

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

// Normalization and imputation method names.
const (
	NormalizationZScore   = "zscore"
	NormalizationQuantile = "quantile"
	NormalizationLinear   = "linear"

	ImputationMean   = "mean"
	ImputationMedian = "median"
	ImputationKNN    = "knn"
)

// Normalizations lists the supported normalization methods.
var Normalizations = []string{NormalizationZScore, NormalizationQuantile, NormalizationLinear}

// Imputations lists the supported imputation methods.
var Imputations = []string{ImputationMean, ImputationMedian, ImputationKNN}

// Config holds preprocessing configuration
type Config struct {
	RemoveContaminations bool     // Drop protein groups flagged by the vendor loader
	Subset               bool     // Keep only samples described in the metadata
	RemoveSamples        []string // Drop these samples from matrix and metadata
	MinValidFraction     float64  // Keep protein groups observed in at least this share of samples (0 = keep all)
	Log2Transform        bool     // Replace intensities by their log2
	Normalization        string   // "", zscore, quantile or linear
	Imputation           string   // "", mean, median or knn
}

// Validate checks method names and thresholds before anything is changed.
func (c *Config) Validate() error {
	if c.Normalization != "" && !contains(Normalizations, c.Normalization) {
		return core.UnsupportedMethod(c.Normalization, strings.Join(Normalizations, ", "))
	}
	if c.Imputation != "" && !contains(Imputations, c.Imputation) {
		return core.UnsupportedMethod(c.Imputation, strings.Join(Imputations, ", "))
	}
	if c.MinValidFraction < 0 || c.MinValidFraction > 1 {
		return &core.ValidationError{Field: "MinValidFraction", Message: "has to be between 0 and 1"}
	}
	return nil
}

// Apply applies all configured steps to the working matrix of ds and records them
func (c *Config) Apply(ds *core.DataSet) error {
	if err := c.Validate(); err != nil {
		return err
	}

	// Vendor flagged rows go first so they never bias normalization
	if c.RemoveContaminations {
		if err := c.removeContaminations(ds); err != nil {
			return err
		}
	}

	if len(c.RemoveSamples) > 0 {
		if err := c.removeSamples(ds); err != nil {
			return err
		}
	}

	if c.Subset {
		if err := c.subset(ds); err != nil {
			return err
		}
	}

	if c.MinValidFraction > 0 {
		if err := c.filterValidValues(ds); err != nil {
			return err
		}
	}

	if c.Log2Transform {
		c.log2(ds)
	}

	if c.Normalization != "" {
		if err := normalize(ds.Matrix, c.Normalization); err != nil {
			return err
		}
		ds.Preprocessing.Record(core.StepNormalization, c.Normalization)
	}

	if c.Imputation != "" {
		if err := c.impute(ds); err != nil {
			return err
		}
	}

	return nil
}

// Reset restores the raw matrix and metadata and clears the preprocessing record
func Reset(ds *core.DataSet) {
	ds.Matrix = ds.RawMatrix.Clone()
	if ds.RawMetadata != nil {
		ds.Metadata = ds.RawMetadata.Clone()
	}
	ds.Preprocessing = core.Preprocessing{}
}

// Info summarizes matrix dimensions and the applied steps as a two column table
func Info(ds *core.DataSet) *core.Table {
	samples, proteins := ds.Matrix.Dims()
	_, rawProteins := ds.RawMatrix.Dims()

	t := core.NewTable([]string{"Step", "Value"}, [][]string{
		{"Raw data number of Protein Groups", strconv.Itoa(rawProteins)},
		{"Matrix: Number of ProteinIDs/ProteinGroups", strconv.Itoa(proteins)},
		{"Matrix: Number of samples", strconv.Itoa(samples)},
	})
	for _, s := range ds.Preprocessing.Steps {
		t.AppendRow([]string{s.Name, s.Value})
	}
	return t
}

func (c *Config) removeContaminations(ds *core.DataSet) error {
	if _, done := ds.Preprocessing.Get(core.StepContaminations); done {
		return nil
	}

	_, before := ds.Matrix.Dims()
	m, err := ds.Matrix.DropProteins(ds.Contaminants)
	if err != nil {
		return fmt.Errorf("failed to remove contaminations: %w", err)
	}
	_, after := m.Dims()
	ds.Matrix = m

	log.Printf("%d contaminant protein groups removed", before-after)
	ds.Preprocessing.Record(core.StepContaminations, strconv.Itoa(before-after))
	return nil
}

func (c *Config) removeSamples(ds *core.DataSet) error {
	m, err := ds.Matrix.DropSamples(c.RemoveSamples)
	if err != nil {
		return fmt.Errorf("failed to remove samples: %w", err)
	}
	ds.Matrix = m

	idx := ds.Metadata.ColumnIndex(core.SampleColumn)
	drop := make(map[string]bool, len(c.RemoveSamples))
	for _, s := range c.RemoveSamples {
		drop[s] = true
	}
	kept := make([][]string, 0, len(ds.Metadata.Rows))
	for _, row := range ds.Metadata.Rows {
		if !drop[row[idx]] {
			kept = append(kept, row)
		}
	}
	ds.Metadata = core.NewTable(ds.Metadata.Header, kept)

	ds.Preprocessing.Record(core.StepRemovedSamples, strings.Join(c.RemoveSamples, ", "))
	return nil
}

func (c *Config) subset(ds *core.DataSet) error {
	names, err := ds.Metadata.Column(core.SampleColumn)
	if err != nil {
		return err
	}
	m, err := ds.Matrix.SubsetSamples(core.Overlap(ds.Matrix.Samples, names))
	if err != nil {
		return fmt.Errorf("failed to subset matrix: %w", err)
	}
	ds.Matrix = m
	ds.Preprocessing.Record(core.StepSubset, "true")
	return nil
}

func (c *Config) filterValidValues(ds *core.DataSet) error {
	samples, _ := ds.Matrix.Dims()
	m, err := ds.Matrix.KeepProteins(func(j int) bool {
		observed := 0
		for _, v := range ds.Matrix.Col(j) {
			if !math.IsNaN(v) {
				observed++
			}
		}
		return float64(observed)/float64(samples) >= c.MinValidFraction
	})
	if err != nil {
		return fmt.Errorf("failed to filter valid values: %w", err)
	}
	ds.Matrix = m
	ds.Preprocessing.Record(core.StepValidValues, core.FormatFloat(c.MinValidFraction))
	return nil
}

func (c *Config) log2(ds *core.DataSet) {
	if ds.Log2Transformed() {
		log.Printf("Warning: matrix is already log2 transformed, skipping")
		return
	}

	d := ds.Matrix.Dense()
	d.Apply(func(_, _ int, v float64) float64 {
		if math.IsNaN(v) || v <= 0 {
			return math.NaN()
		}
		return math.Log2(v)
	}, d)
	ds.Preprocessing.Record(core.StepLog2, "true")
}

func (c *Config) impute(ds *core.DataSet) error {
	m, err := dropUnobserved(ds.Matrix)
	if err != nil {
		return fmt.Errorf("failed to impute: %w", err)
	}
	ds.Matrix = m

	switch c.Imputation {
	case ImputationMean:
		imputeColumns(m, columnMean)
	case ImputationMedian:
		imputeColumns(m, columnMedian)
	case ImputationKNN:
		imputeKNN(m, knnNeighbors)
	}
	ds.Preprocessing.Record(core.StepImputation, c.Imputation)
	return nil
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
