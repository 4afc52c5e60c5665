package core

import (
	"fmt"
	"sort"
	"strings"
)

// SampleColumn is the name the metadata sample column is renamed to.
const SampleColumn = "sample"

// Source is what a vendor loader hands over: the raw table plus enough column
// bookkeeping to build an intensity matrix from it.
type Source struct {
	Software         string
	Table            *Table
	IndexColumn      string
	IntensityColumns []string // raw column names, one per sample
	Samples          []string // sample names, parallel to IntensityColumns
	Contaminants     []string // protein group IDs flagged by the vendor
	GeneColumn       string   // optional
}

// Matrix parses the intensity columns into a samples x proteins matrix.
func (s *Source) Matrix() (*Matrix, error) {
	if len(s.IntensityColumns) != len(s.Samples) {
		return nil, &ValidationError{Field: "Source", Message: "intensity columns and samples differ in length"}
	}
	idCol := s.Table.ColumnIndex(s.IndexColumn)
	if idCol < 0 {
		return nil, fmt.Errorf("index column: %w: %s", ErrUnknownColumn, s.IndexColumn)
	}
	cols := make([]int, len(s.IntensityColumns))
	for i, name := range s.IntensityColumns {
		cols[i] = s.Table.ColumnIndex(name)
		if cols[i] < 0 {
			return nil, fmt.Errorf("intensity column: %w: %s", ErrUnknownColumn, name)
		}
	}

	var proteins []string
	seen := make(map[string]int)
	var perProtein [][]float64
	for rowNum, row := range s.Table.Rows {
		id := strings.TrimSpace(row[idCol])
		if id == "" {
			continue
		}
		if prev, dup := seen[id]; dup {
			return nil, &ValidationError{
				Field:   s.IndexColumn,
				Message: fmt.Sprintf("protein group %q appears in rows %d and %d, index column must be unique", id, prev+1, rowNum+1),
			}
		}
		seen[id] = rowNum

		values := make([]float64, len(cols))
		for i, c := range cols {
			v, err := ParseIntensity(strings.TrimSpace(row[c]))
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: invalid intensity %q: %w", rowNum+1, s.IntensityColumns[i], row[c], err)
			}
			values[i] = v
		}
		proteins = append(proteins, id)
		perProtein = append(perProtein, values)
	}

	nSamples := len(s.Samples)
	data := make([]float64, nSamples*len(proteins))
	for j, values := range perProtein {
		for i, v := range values {
			data[i*len(proteins)+j] = v
		}
	}
	return NewMatrix(s.Samples, proteins, data)
}

// Step is one applied preprocessing operation.
type Step struct {
	Name  string
	Value string
}

// Preprocessing records the operations applied to a data set's matrix, in order.
type Preprocessing struct {
	Steps []Step
}

// Record appends or replaces a step.
func (p *Preprocessing) Record(name, value string) {
	for i := range p.Steps {
		if p.Steps[i].Name == name {
			p.Steps[i].Value = value
			return
		}
	}
	p.Steps = append(p.Steps, Step{Name: name, Value: value})
}

// Get returns the value of a recorded step.
func (p *Preprocessing) Get(name string) (string, bool) {
	for _, s := range p.Steps {
		if s.Name == name {
			return s.Value, true
		}
	}
	return "", false
}

// Map returns the steps keyed by name.
func (p Preprocessing) Map() map[string]string {
	out := make(map[string]string, len(p.Steps))
	for _, s := range p.Steps {
		out[s.Name] = s.Value
	}
	return out
}

// Preprocessing step names.
const (
	StepContaminations = "contaminations removed"
	StepRemovedSamples = "samples removed"
	StepSubset         = "subset to metadata"
	StepValidValues    = "minimum valid values"
	StepLog2           = "log2 transformed"
	StepNormalization  = "normalization"
	StepImputation     = "imputation"
)

// DataSet is an intensity matrix aligned with per-sample metadata.
type DataSet struct {
	Software     string
	IndexColumn  string
	GeneColumn   string
	RawInput     *Table
	RawMatrix    *Matrix
	Matrix       *Matrix
	RawMetadata  *Table
	Metadata     *Table
	Contaminants []string

	Preprocessing Preprocessing
}

// NewDataSet builds a data set from a loader source and optional metadata. The metadata
// sample column is renamed to "sample". Without metadata a template with only the sample
// column is created from the matrix.
func NewDataSet(src *Source, metadata *Table, sampleColumn string) (*DataSet, error) {
	m, err := src.Matrix()
	if err != nil {
		return nil, fmt.Errorf("failed to create matrix: %w", err)
	}

	ds := &DataSet{
		Software:     src.Software,
		IndexColumn:  src.IndexColumn,
		GeneColumn:   src.GeneColumn,
		RawInput:     src.Table,
		RawMatrix:    m,
		Matrix:       m.Clone(),
		Contaminants: append([]string(nil), src.Contaminants...),
	}

	if metadata == nil {
		ds.Metadata = MetadataTemplate(m.Samples)
	} else {
		meta, err := alignMetadata(metadata, sampleColumn, m.Samples)
		if err != nil {
			return nil, err
		}
		ds.Metadata = meta
	}
	ds.RawMetadata = ds.Metadata.Clone()
	return ds, nil
}

// MetadataTemplate returns a metadata table with one "sample" row per sample.
func MetadataTemplate(samples []string) *Table {
	t := &Table{Header: []string{SampleColumn}}
	for _, s := range samples {
		t.Rows = append(t.Rows, []string{s})
	}
	return t
}

func alignMetadata(metadata *Table, sampleColumn string, samples []string) (*Table, error) {
	if sampleColumn == "" {
		sampleColumn = SampleColumn
	}
	meta := NewTable(metadata.Header, metadata.Rows)
	for _, row := range meta.Rows {
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
	}
	if err := meta.RenameColumn(sampleColumn, SampleColumn); err != nil {
		return nil, fmt.Errorf("sample column: %w", err)
	}

	names, _ := meta.Column(SampleColumn)
	if dups := duplicates(names); len(dups) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateSample, strings.Join(dups, ", "))
	}

	if len(Overlap(names, samples)) == 0 {
		return nil, fmt.Errorf("%w: information for the samples %v is required", ErrNoSampleOverlap, samples)
	}
	return meta, nil
}

// ValidSampleColumns returns metadata columns whose values overlap the matrix samples.
func ValidSampleColumns(metadata *Table, samples []string) []string {
	var out []string
	for _, h := range metadata.Header {
		values, _ := metadata.Column(h)
		for i := range values {
			values[i] = strings.TrimSpace(values[i])
		}
		if len(Overlap(values, samples)) > 0 {
			out = append(out, h)
		}
	}
	return out
}

// Overlap returns the values of a that are also in b, in a's order.
func Overlap(a, b []string) []string {
	in := toSet(b)
	var out []string
	for _, v := range a {
		if in[v] {
			out = append(out, v)
		}
	}
	return out
}

func duplicates(values []string) []string {
	count := make(map[string]int, len(values))
	for _, v := range values {
		count[v]++
	}
	var out []string
	for v, n := range count {
		if n > 1 {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// MetadataSamples returns the metadata sample names that are present in the matrix.
func (ds *DataSet) MetadataSamples() []string {
	names, _ := ds.Metadata.Column(SampleColumn)
	return Overlap(names, ds.Matrix.Samples)
}

// GroupSamples returns the matrix samples whose metadata column equals value.
func (ds *DataSet) GroupSamples(column, value string) ([]string, error) {
	groups, err := ds.Metadata.Column(column)
	if err != nil {
		return nil, err
	}
	names, _ := ds.Metadata.Column(SampleColumn)
	var selected []string
	for i, g := range groups {
		if g == value {
			selected = append(selected, names[i])
		}
	}
	selected = Overlap(selected, ds.Matrix.Samples)
	if len(selected) == 0 {
		return nil, &ValidationError{Field: column, Message: fmt.Sprintf("no samples with value %q", value)}
	}
	return selected, nil
}

// SampleGroups maps each matrix sample to its value in a metadata column. Samples without
// metadata are absent from the map.
func (ds *DataSet) SampleGroups(column string) (map[string]string, error) {
	groups, err := ds.Metadata.Column(column)
	if err != nil {
		return nil, err
	}
	names, _ := ds.Metadata.Column(SampleColumn)
	out := make(map[string]string, len(names))
	for i, n := range names {
		out[n] = groups[i]
	}
	return out, nil
}

// RequireComplete returns ErrMissingValues when the working matrix has NaN cells.
func (ds *DataSet) RequireComplete() error {
	if ds.Matrix.HasMissing() {
		return ErrMissingValues
	}
	return nil
}

// Log2Transformed reports whether the working matrix is on log2 scale.
func (ds *DataSet) Log2Transformed() bool {
	_, ok := ds.Preprocessing.Get(StepLog2)
	return ok
}
