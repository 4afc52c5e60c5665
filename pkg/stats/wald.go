package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

// Wald tests the group coefficient of a gaussian linear model, intensity ~ group, for
// every protein group. The variance is the maximum likelihood estimate, p-values come
// from the standard normal and q-values from Benjamini-Hochberg.
func Wald(ds *core.DataSet, column, group1, group2 string) ([]Comparison, error) {
	if err := ds.RequireComplete(); err != nil {
		return nil, err
	}
	rows1, rows2, err := twoGroups(ds, column, group1, group2)
	if err != nil {
		return nil, err
	}

	log2 := ds.Log2Transformed()
	_, proteins := ds.Matrix.Dims()
	out := make([]Comparison, 0, proteins)
	for j := 0; j < proteins; j++ {
		col := ds.Matrix.Col(j)
		a, _ := pick(col, rows1)
		b, _ := pick(col, rows2)

		z, p := WaldZ(a, b)
		fc, log2fc := FoldChange(stat.Mean(a, nil), stat.Mean(b, nil), log2)
		out = append(out, Comparison{
			ProteinID: ds.Matrix.Proteins[j],
			FC:        fc,
			Log2FC:    log2fc,
			Statistic: z,
			PValue:    p,
		})
	}
	fillQValues(out)
	return out, nil
}

// WaldZ returns the Wald statistic of the mean difference and its two sided p-value.
func WaldZ(a, b []float64) (z, p float64) {
	n1, n2 := float64(len(a)), float64(len(b))
	m1, m2 := stat.Mean(a, nil), stat.Mean(b, nil)

	var rss float64
	for _, v := range a {
		rss += (v - m1) * (v - m1)
	}
	for _, v := range b {
		rss += (v - m2) * (v - m2)
	}
	sigma2 := rss / (n1 + n2)
	se := math.Sqrt(sigma2 * (1/n1 + 1/n2))
	if se == 0 {
		return math.NaN(), math.NaN()
	}
	z = (m1 - m2) / se
	return z, 2 * distuv.UnitNormal.Survival(math.Abs(z))
}
