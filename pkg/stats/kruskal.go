package stats

import (
	"math"
	"sort"

	"github.com/tokenme/probab/dst"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

// KruskalWallis runs the rank based H test across the groups of a metadata column for the
// given protein groups (all when empty). Missing values are ignored.
func KruskalWallis(ds *core.DataSet, column string, proteinIDs []string) (*core.Table, error) {
	levels, rows, err := Levels(ds, column)
	if err != nil {
		return nil, err
	}
	if len(levels) < 2 {
		return nil, &core.ValidationError{Field: column, Message: "at least two groups are required"}
	}
	cols, err := proteinColumns(ds.Matrix, proteinIDs)
	if err != nil {
		return nil, err
	}

	out := &core.Table{Header: []string{"Protein ID", "H", "pval"}}
	for _, j := range cols {
		col := ds.Matrix.Col(j)
		groups := make([][]float64, len(rows))
		for k, r := range rows {
			v, _ := pick(col, r)
			groups[k] = dropMissing(v)
		}
		h, p := KruskalH(groups)
		out.Rows = append(out.Rows, []string{ds.Matrix.Proteins[j], core.FormatFloat(h), core.FormatFloat(p)})
	}
	return out, nil
}

// KruskalH returns the tie corrected H statistic and its chi-square p-value.
func KruskalH(groups [][]float64) (h, p float64) {
	var all []float64
	var sizes []int
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		all = append(all, g...)
		sizes = append(sizes, len(g))
	}
	k := len(sizes)
	n := float64(len(all))
	if k < 2 || n < 2 {
		return math.NaN(), math.NaN()
	}

	ranks := Rank(all)
	var sum float64
	offset := 0
	for _, size := range sizes {
		var r float64
		for _, v := range ranks[offset : offset+size] {
			r += v
		}
		sum += r * r / float64(size)
		offset += size
	}
	h = 12/(n*(n+1))*sum - 3*(n+1)

	correction := 1 - tieSum(all)/(n*n*n-n)
	if correction == 0 {
		return math.NaN(), math.NaN()
	}
	h /= correction
	return h, chiSquareSurvival(h, k-1)
}

func chiSquareSurvival(x float64, df int) (p float64) {
	p = math.NaN()
	defer func() { recover() }()

	p = 1.0 - dst.ChiSquareCDF(int64(df))(x)
	return
}

// Rank returns 1 based ranks with ties given their average rank.
func Rank(values []float64) []float64 {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return values[order[a]] < values[order[b]] })

	ranks := make([]float64, len(values))
	for i := 0; i < len(order); {
		j := i + 1
		for j < len(order) && values[order[j]] == values[order[i]] {
			j++
		}
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[order[k]] = avg
		}
		i = j
	}
	return ranks
}

// tieSum is the sum of t^3 - t over groups of tied values.
func tieSum(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	var sum float64
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		t := float64(j - i)
		sum += t*t*t - t
		i = j
	}
	return sum
}
