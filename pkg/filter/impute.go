package filter

import (
	"log"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

// knnNeighbors is the number of donor samples averaged by knn imputation.
const knnNeighbors = 2

// dropUnobserved removes protein groups without a single observed value; no imputation
// can fill them.
func dropUnobserved(m *core.Matrix) (*core.Matrix, error) {
	out, err := m.KeepProteins(func(j int) bool {
		values, _ := observed(m.Col(j))
		return len(values) > 0
	})
	if err != nil {
		return nil, err
	}
	_, before := m.Dims()
	if _, after := out.Dims(); after < before {
		log.Printf("%d protein groups without observed values removed before imputation", before-after)
	}
	return out, nil
}

func columnMean(values []float64) float64 {
	return stat.Mean(values, nil)
}

func columnMedian(values []float64) float64 {
	median, err := stats.Median(stats.Float64Data(values))
	if err != nil {
		return math.NaN()
	}
	return median
}

// imputeColumns replaces missing cells of each protein group by fill of its observed values.
func imputeColumns(m *core.Matrix, fill func([]float64) float64) {
	samples, proteins := m.Dims()
	for j := 0; j < proteins; j++ {
		values, _ := observed(m.Col(j))
		v := fill(values)
		for i := 0; i < samples; i++ {
			if math.IsNaN(m.At(i, j)) {
				m.Set(i, j, v)
			}
		}
	}
}

// nanEuclidean is the euclidean distance over coordinates observed in both rows, scaled
// up by the share of coordinates used. It is NaN when the rows share none.
func nanEuclidean(a, b []float64) float64 {
	var sum float64
	var shared int
	for k := range a {
		if math.IsNaN(a[k]) || math.IsNaN(b[k]) {
			continue
		}
		d := a[k] - b[k]
		sum += d * d
		shared++
	}
	if shared == 0 {
		return math.NaN()
	}
	return math.Sqrt(float64(len(a)) / float64(shared) * sum)
}

type donor struct {
	row  int
	dist float64
}

// imputeKNN fills a missing cell with the mean of the k nearest samples that observed the
// protein group. Cells without any donor get the protein group mean.
func imputeKNN(m *core.Matrix, k int) {
	samples, proteins := m.Dims()
	rows := make([][]float64, samples)
	for i := range rows {
		rows[i] = m.Row(i)
	}

	dist := make([][]float64, samples)
	for i := range dist {
		dist[i] = make([]float64, samples)
		for l := range dist[i] {
			if l != i {
				dist[i][l] = nanEuclidean(rows[i], rows[l])
			}
		}
	}

	for j := 0; j < proteins; j++ {
		values, _ := observed(m.Col(j))
		fallback := columnMean(values)

		for i := 0; i < samples; i++ {
			if !math.IsNaN(rows[i][j]) {
				continue
			}
			var donors []donor
			for l := 0; l < samples; l++ {
				if l == i || math.IsNaN(rows[l][j]) || math.IsNaN(dist[i][l]) {
					continue
				}
				donors = append(donors, donor{row: l, dist: dist[i][l]})
			}
			if len(donors) == 0 {
				m.Set(i, j, fallback)
				continue
			}
			sort.SliceStable(donors, func(a, b int) bool { return donors[a].dist < donors[b].dist })
			if len(donors) > k {
				donors = donors[:k]
			}
			var sum float64
			for _, d := range donors {
				sum += rows[d.row][j]
			}
			m.Set(i, j, sum/float64(len(donors)))
		}
	}
}
