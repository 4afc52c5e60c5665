package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

// ANOVAColumn holds the one-way ANOVA p-value in Anova result tables.
const ANOVAColumn = "ANOVA_pvalue"

// TukeyColumn names the Tukey HSD p-value column of a group pair.
func TukeyColumn(group1, group2 string) string {
	return fmt.Sprintf("%s vs. %s Tukey Test", group1, group2)
}

// Anova runs a one-way ANOVA across the groups of a metadata column for the given
// protein groups (all when empty). With tukey, pairwise Tukey HSD p-values are added
// for every pair of groups.
func Anova(ds *core.DataSet, column string, proteinIDs []string, tukey bool) (*core.Table, error) {
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

	header := []string{"Protein ID", ANOVAColumn}
	if tukey {
		for a := range levels {
			for b := a + 1; b < len(levels); b++ {
				header = append(header, TukeyColumn(levels[a], levels[b]))
			}
		}
	}

	out := &core.Table{Header: header}
	for _, j := range cols {
		col := ds.Matrix.Col(j)
		groups := make([][]float64, len(rows))
		for k, r := range rows {
			v, _ := pick(col, r)
			groups[k] = dropMissing(v)
		}

		res := OneWay(groups)
		row := []string{ds.Matrix.Proteins[j], core.FormatFloat(res.PValue)}
		if tukey {
			for a := range groups {
				for b := a + 1; b < len(groups); b++ {
					row = append(row, core.FormatFloat(res.Tukey(a, b)))
				}
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// OneWayResult is a one-way ANOVA of several groups.
type OneWayResult struct {
	F      float64
	PValue float64
	DFB    float64 // between groups
	DFW    float64 // within groups
	MSW    float64

	means []float64
	sizes []float64
}

// OneWay computes the one-way ANOVA of groups. Empty groups are ignored.
func OneWay(groups [][]float64) OneWayResult {
	var all []float64
	res := OneWayResult{}
	for _, g := range groups {
		all = append(all, g...)
		res.sizes = append(res.sizes, float64(len(g)))
		if len(g) == 0 {
			res.means = append(res.means, math.NaN())
			continue
		}
		res.means = append(res.means, stat.Mean(g, nil))
	}

	grand := stat.Mean(all, nil)
	var ssb, ssw float64
	k := 0
	for i, g := range groups {
		if len(g) == 0 {
			continue
		}
		k++
		d := res.means[i] - grand
		ssb += res.sizes[i] * d * d
		for _, v := range g {
			ssw += (v - res.means[i]) * (v - res.means[i])
		}
	}

	res.DFB = float64(k - 1)
	res.DFW = float64(len(all) - k)
	res.F, res.PValue = math.NaN(), math.NaN()
	if res.DFB < 1 || res.DFW < 1 {
		return res
	}
	res.MSW = ssw / res.DFW
	if res.MSW == 0 {
		return res
	}
	res.F = (ssb / res.DFB) / res.MSW
	res.PValue = distuv.F{D1: res.DFB, D2: res.DFW}.Survival(res.F)
	return res
}

// Tukey returns the Tukey HSD p-value of groups a and b.
func (r OneWayResult) Tukey(a, b int) float64 {
	if r.sizes[a] == 0 || r.sizes[b] == 0 || r.MSW == 0 || r.DFW < 1 {
		return math.NaN()
	}
	k := 0
	for _, n := range r.sizes {
		if n > 0 {
			k++
		}
	}
	se := math.Sqrt(r.MSW / 2 * (1/r.sizes[a] + 1/r.sizes[b]))
	q := math.Abs(r.means[a]-r.means[b]) / se
	return 1 - StudentizedRangeCDF(q, float64(k), r.DFW)
}
