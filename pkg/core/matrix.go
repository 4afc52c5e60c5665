package core

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// Matrix is an intensity matrix with samples as rows and protein groups as columns.
// Missing intensities are NaN.
type Matrix struct {
	Samples  []string
	Proteins []string
	data     *mat.Dense
}

// NewMatrix creates a matrix from row-major values (one row per sample).
func NewMatrix(samples, proteins []string, values []float64) (*Matrix, error) {
	if len(samples) == 0 {
		return nil, &ValidationError{Field: "Matrix", Message: "at least one sample is required"}
	}
	if len(proteins) == 0 {
		return nil, &ValidationError{Field: "Matrix", Message: "at least one protein group is required"}
	}
	if len(values) != len(samples)*len(proteins) {
		return nil, &ValidationError{
			Field:   "Matrix",
			Message: fmt.Sprintf("expected %d values, got %d", len(samples)*len(proteins), len(values)),
		}
	}
	return &Matrix{
		Samples:  append([]string(nil), samples...),
		Proteins: append([]string(nil), proteins...),
		data:     mat.NewDense(len(samples), len(proteins), values),
	}, nil
}

// Dims returns (samples, proteins)
func (m *Matrix) Dims() (int, int) {
	return m.data.Dims()
}

// At returns the intensity of sample i and protein j.
func (m *Matrix) At(i, j int) float64 {
	return m.data.At(i, j)
}

// Set stores the intensity of sample i and protein j.
func (m *Matrix) Set(i, j int, v float64) {
	m.data.Set(i, j, v)
}

// Dense exposes the backing matrix. Callers that mutate it mutate the Matrix.
func (m *Matrix) Dense() *mat.Dense {
	return m.data
}

// SampleIndex returns the row of a sample, or -1.
func (m *Matrix) SampleIndex(name string) int {
	for i, s := range m.Samples {
		if s == name {
			return i
		}
	}
	return -1
}

// ProteinIndex returns the column of a protein group, or -1.
func (m *Matrix) ProteinIndex(id string) int {
	for j, p := range m.Proteins {
		if p == id {
			return j
		}
	}
	return -1
}

// Row returns a copy of the intensities of sample i.
func (m *Matrix) Row(i int) []float64 {
	return mat.Row(nil, i, m.data)
}

// Col returns a copy of the intensities of protein j across samples.
func (m *Matrix) Col(j int) []float64 {
	return mat.Col(nil, j, m.data)
}

// HasMissing reports whether any intensity is NaN.
func (m *Matrix) HasMissing() bool {
	r, c := m.data.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.IsNaN(m.data.At(i, j)) {
				return true
			}
		}
	}
	return false
}

// MissingFraction returns the share of NaN cells.
func (m *Matrix) MissingFraction() float64 {
	r, c := m.data.Dims()
	missing := 0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.IsNaN(m.data.At(i, j)) {
				missing++
			}
		}
	}
	return float64(missing) / float64(r*c)
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{
		Samples:  append([]string(nil), m.Samples...),
		Proteins: append([]string(nil), m.Proteins...),
		data:     mat.DenseCopyOf(m.data),
	}
}

// SubsetSamples keeps the named samples that exist in the matrix, in the given order.
func (m *Matrix) SubsetSamples(names []string) (*Matrix, error) {
	var rows []int
	var kept []string
	for _, name := range names {
		if i := m.SampleIndex(name); i >= 0 {
			rows = append(rows, i)
			kept = append(kept, name)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: none of %v are in the matrix", ErrNoSampleOverlap, names)
	}

	_, c := m.data.Dims()
	values := make([]float64, 0, len(rows)*c)
	for _, i := range rows {
		values = append(values, mat.Row(nil, i, m.data)...)
	}
	return NewMatrix(kept, m.Proteins, values)
}

// DropSamples removes the named samples.
func (m *Matrix) DropSamples(names []string) (*Matrix, error) {
	drop := toSet(names)
	var keep []string
	for _, s := range m.Samples {
		if !drop[s] {
			keep = append(keep, s)
		}
	}
	return m.SubsetSamples(keep)
}

// KeepProteins keeps the protein columns for which keep returns true.
func (m *Matrix) KeepProteins(keep func(j int) bool) (*Matrix, error) {
	var cols []int
	var kept []string
	for j, p := range m.Proteins {
		if keep(j) {
			cols = append(cols, j)
			kept = append(kept, p)
		}
	}

	r, _ := m.data.Dims()
	values := make([]float64, 0, r*len(cols))
	for i := 0; i < r; i++ {
		for _, j := range cols {
			values = append(values, m.data.At(i, j))
		}
	}
	return NewMatrix(m.Samples, kept, values)
}

// DropProteins removes the named protein groups.
func (m *Matrix) DropProteins(ids []string) (*Matrix, error) {
	drop := toSet(ids)
	return m.KeepProteins(func(j int) bool { return !drop[m.Proteins[j]] })
}

// Filled returns a copy of the data with NaN replaced by v.
func (m *Matrix) Filled(v float64) *mat.Dense {
	out := mat.DenseCopyOf(m.data)
	out.Apply(func(_, _ int, x float64) float64 {
		if math.IsNaN(x) {
			return v
		}
		return x
	}, out)
	return out
}

// Long unstacks the matrix into a long table with one row per sample and protein.
func (m *Matrix) Long(proteinColumn string) *Table {
	t := &Table{Header: []string{"sample", proteinColumn, "Intensity"}}
	r, c := m.data.Dims()
	t.Rows = make([][]string, 0, r*c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			t.Rows = append(t.Rows, []string{m.Samples[i], m.Proteins[j], FormatFloat(m.data.At(i, j))})
		}
	}
	return t
}

// Table renders the matrix wide, one row per sample.
func (m *Matrix) Table() *Table {
	t := &Table{Header: append([]string{"sample"}, m.Proteins...)}
	r, c := m.data.Dims()
	for i := 0; i < r; i++ {
		row := make([]string, 0, c+1)
		row = append(row, m.Samples[i])
		for j := 0; j < c; j++ {
			row = append(row, FormatFloat(m.data.At(i, j)))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// FormatFloat formats intensities and statistics for tables.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ParseIntensity parses one intensity cell. Empty, NA, NaN and zero cells are missing.
func ParseIntensity(s string) (float64, error) {
	switch s {
	case "", "NA", "NaN", "nan", "NULL", "Filtered":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return math.NaN(), nil
	}
	return v, nil
}

func toSet(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		out[v] = true
	}
	return out
}
