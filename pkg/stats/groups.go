// Package stats implements the statistical tests, correlations and dimensionality
// reductions run on a data set's intensity matrix.
package stats

import (
	"fmt"
	"math"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

// groupRows returns the matrix rows of the samples whose metadata column equals value.
func groupRows(ds *core.DataSet, column, value string) ([]int, error) {
	samples, err := ds.GroupSamples(column, value)
	if err != nil {
		return nil, err
	}
	rows := make([]int, len(samples))
	for i, s := range samples {
		rows[i] = ds.Matrix.SampleIndex(s)
	}
	return rows, nil
}

// twoGroups resolves the rows of two metadata groups and checks they can be compared.
func twoGroups(ds *core.DataSet, column, group1, group2 string) ([]int, []int, error) {
	if group1 == group2 {
		return nil, nil, &core.ValidationError{Field: column, Message: "select two different groups"}
	}
	rows1, err := groupRows(ds, column, group1)
	if err != nil {
		return nil, nil, err
	}
	rows2, err := groupRows(ds, column, group2)
	if err != nil {
		return nil, nil, err
	}
	if len(rows1) < 2 || len(rows2) < 2 {
		return nil, nil, &core.ValidationError{
			Field:   column,
			Message: fmt.Sprintf("each group needs at least two samples, got %d and %d", len(rows1), len(rows2)),
		}
	}
	return rows1, rows2, nil
}

// Levels returns the groups of a metadata column present in the matrix, with their rows,
// in order of first appearance.
func Levels(ds *core.DataSet, column string) ([]string, [][]int, error) {
	groups, err := ds.SampleGroups(column)
	if err != nil {
		return nil, nil, err
	}
	var names []string
	index := make(map[string]int)
	var rows [][]int
	for i, s := range ds.Matrix.Samples {
		g, ok := groups[s]
		if !ok {
			continue
		}
		k, seen := index[g]
		if !seen {
			k = len(names)
			index[g] = k
			names = append(names, g)
			rows = append(rows, nil)
		}
		rows[k] = append(rows[k], i)
	}
	return names, rows, nil
}

// pick returns the values at rows and whether all of them are observed.
func pick(values []float64, rows []int) ([]float64, bool) {
	out := make([]float64, len(rows))
	complete := true
	for k, i := range rows {
		out[k] = values[i]
		if math.IsNaN(out[k]) {
			complete = false
		}
	}
	return out, complete
}

// dropMissing returns the observed values.
func dropMissing(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// FoldChange compares two group means. On log2 data the means are already logs.
func FoldChange(mean1, mean2 float64, log2 bool) (fc, log2fc float64) {
	if log2 {
		log2fc = mean1 - mean2
		return math.Exp2(log2fc), log2fc
	}
	fc = mean1 / mean2
	return fc, math.Log2(fc)
}

// proteinColumns resolves protein IDs to matrix columns. Empty ids selects all.
func proteinColumns(m *core.Matrix, ids []string) ([]int, error) {
	if len(ids) == 0 {
		_, n := m.Dims()
		cols := make([]int, n)
		for j := range cols {
			cols[j] = j
		}
		return cols, nil
	}
	cols := make([]int, len(ids))
	for k, id := range ids {
		cols[k] = m.ProteinIndex(id)
		if cols[k] < 0 {
			return nil, &core.ValidationError{Field: "ProteinID", Message: fmt.Sprintf("%q is not in the matrix", id)}
		}
	}
	return cols, nil
}
