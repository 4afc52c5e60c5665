package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

// Comparison is the per protein group result of a two group test.
type Comparison struct {
	ProteinID string  `csv:"Protein ID" json:"protein_id"`
	FC        float64 `csv:"fc" json:"fc"`
	Log2FC    float64 `csv:"log2fc" json:"log2fc"`
	Statistic float64 `csv:"statistic" json:"statistic"`
	PValue    float64 `csv:"pval" json:"pval"`
	QValue    float64 `csv:"qval" json:"qval"`
}

// TTest runs Student's two sample t-test with pooled variance for every protein group.
// Protein groups with a missing value in either group are dropped.
func TTest(ds *core.DataSet, column, group1, group2 string) ([]Comparison, error) {
	rows1, rows2, err := twoGroups(ds, column, group1, group2)
	if err != nil {
		return nil, err
	}

	log2 := ds.Log2Transformed()
	_, proteins := ds.Matrix.Dims()
	var out []Comparison
	for j := 0; j < proteins; j++ {
		col := ds.Matrix.Col(j)
		a, okA := pick(col, rows1)
		b, okB := pick(col, rows2)
		if !okA || !okB {
			continue
		}
		t, p := StudentT(a, b)
		fc, log2fc := FoldChange(stat.Mean(a, nil), stat.Mean(b, nil), log2)
		out = append(out, Comparison{
			ProteinID: ds.Matrix.Proteins[j],
			FC:        fc,
			Log2FC:    log2fc,
			Statistic: t,
			PValue:    p,
		})
	}
	fillQValues(out)
	return out, nil
}

// StudentT returns the pooled variance t statistic and its two sided p-value.
func StudentT(a, b []float64) (t, p float64) {
	n1, n2 := float64(len(a)), float64(len(b))
	m1, v1 := stat.MeanVariance(a, nil)
	m2, v2 := stat.MeanVariance(b, nil)
	df := n1 + n2 - 2

	pooled := ((n1-1)*v1 + (n2-1)*v2) / df
	se := math.Sqrt(pooled * (1/n1 + 1/n2))
	if se == 0 {
		return math.NaN(), math.NaN()
	}
	t = (m1 - m2) / se
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return t, 2 * dist.Survival(math.Abs(t))
}

func fillQValues(rows []Comparison) {
	p := make([]float64, len(rows))
	for i, r := range rows {
		p[i] = r.PValue
	}
	for i, q := range BenjaminiHochberg(p) {
		rows[i].QValue = q
	}
}
