package filter

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

// normalize rescales m in place. Missing cells stay missing.
func normalize(m *core.Matrix, method string) error {
	switch method {
	case NormalizationZScore:
		zscore(m)
	case NormalizationQuantile:
		quantile(m)
	case NormalizationLinear:
		linear(m)
	default:
		return core.UnsupportedMethod(method, "zscore, quantile, linear")
	}
	return nil
}

// observed returns the non-missing values and their positions.
func observed(values []float64) ([]float64, []int) {
	var out []float64
	var idx []int
	for i, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
			idx = append(idx, i)
		}
	}
	return out, idx
}

// zscore centers every protein group across samples and scales it to unit population
// standard deviation.
func zscore(m *core.Matrix) {
	_, proteins := m.Dims()
	for j := 0; j < proteins; j++ {
		values, rows := observed(m.Col(j))
		if len(values) == 0 {
			continue
		}
		mean, std := popMeanStdDev(values)
		for k, i := range rows {
			if std == 0 {
				m.Set(i, j, 0)
				continue
			}
			m.Set(i, j, (values[k]-mean)/std)
		}
	}
}

func popMeanStdDev(values []float64) (float64, float64) {
	if len(values) < 2 {
		return stat.Mean(values, nil), 0
	}
	mean, variance := stat.MeanVariance(values, nil)
	n := float64(len(values))
	return mean, math.Sqrt(variance * (n - 1) / n)
}

// linear scales every sample to unit euclidean norm over its observed values.
func linear(m *core.Matrix) {
	samples, _ := m.Dims()
	for i := 0; i < samples; i++ {
		values, cols := observed(m.Row(i))
		if len(values) == 0 {
			continue
		}
		norm := floats.Norm(values, 2)
		if norm == 0 {
			continue
		}
		for k, j := range cols {
			m.Set(i, j, values[k]/norm)
		}
	}
}

// quantile gives every sample the same distribution: the mean of the sorted samples.
// Samples with missing values are mapped onto the reference by relative rank.
func quantile(m *core.Matrix) {
	samples, proteins := m.Dims()

	sorted := make([][]float64, samples)
	for i := 0; i < samples; i++ {
		values, _ := observed(m.Row(i))
		sort.Float64s(values)
		sorted[i] = values
	}

	reference := make([]float64, proteins)
	for r := range reference {
		q := relativeRank(r, proteins)
		var sum float64
		var n int
		for _, values := range sorted {
			if len(values) == 0 {
				continue
			}
			sum += atQuantile(values, q)
			n++
		}
		if n > 0 {
			reference[r] = sum / float64(n)
		}
	}

	for i := 0; i < samples; i++ {
		values, cols := observed(m.Row(i))
		order := make([]int, len(values))
		for k := range order {
			order[k] = k
		}
		sort.SliceStable(order, func(a, b int) bool { return values[order[a]] < values[order[b]] })
		for rank, k := range order {
			m.Set(i, cols[k], atQuantile(reference, relativeRank(rank, len(values))))
		}
	}
}

func relativeRank(rank, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(rank) / float64(n-1)
}

// atQuantile interpolates sorted values at q in [0, 1].
func atQuantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
