package plot

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
	"github.com/ChrisMcGann/ProtStats/pkg/stats"
)

// Volcano test methods.
const (
	MethodANOVA = "anova"
	MethodWald  = "wald"
	MethodTTest = "ttest"
)

// VolcanoMethods lists the tests a volcano plot can be drawn from.
var VolcanoMethods = []string{MethodANOVA, MethodWald, MethodTTest}

// Volcano classes.
const (
	ClassUp             = "up"
	ClassDown           = "down"
	ClassNonSignificant = "non-significant"
)

type volcanoPoint struct {
	id     string
	log2fc float64
	p      float64
}

// Volcano plots -log10 p-values against log2 fold changes of group1 versus group2.
func (p *Plotter) Volcano(column, group1, group2, method string) (*Figure, error) {
	var points []volcanoPoint
	var pColumn string
	var err error
	switch method {
	case MethodANOVA:
		points, pColumn, err = p.anovaPoints(column, group1, group2)
	case MethodWald:
		pColumn = "qval"
		points, err = qValuePoints(stats.Wald(p.DataSet, column, group1, group2))
	case MethodTTest:
		pColumn = "pval"
		points, err = comparisonPoints(stats.TTest(p.DataSet, column, group1, group2))
	default:
		return nil, unsupported(method, VolcanoMethods...)
	}
	if err != nil {
		return nil, fmt.Errorf("volcano %s: %w", method, err)
	}

	opts := p.VolcanoOptions
	data := &core.Table{Header: []string{"Protein ID", "log2fc", pColumn, "-log10(p-value)", "color"}}
	classes := []string{ClassNonSignificant, ClassUp, ClassDown}
	colors := map[string]string{
		ClassNonSignificant: p.Theme.NonSignificant,
		ClassUp:             p.Theme.Up,
		ClassDown:           p.Theme.Down,
	}
	traces := make(map[string]*Trace, len(classes))
	for _, c := range classes {
		traces[c] = &Trace{Name: c, Group: c, Color: colors[c]}
	}

	for _, pt := range points {
		if math.IsNaN(pt.p) || math.IsNaN(pt.log2fc) || math.Abs(pt.log2fc) >= opts.MaxAbsoluteLog2FC {
			continue
		}
		// p-values that underflow to zero get the largest finite height
		y := -math.Log10(math.Max(pt.p, math.SmallestNonzeroFloat64))
		class := Classify(pt.log2fc, y, opts)

		tr := traces[class]
		tr.X = append(tr.X, pt.log2fc)
		tr.Y = append(tr.Y, y)
		tr.Labels = append(tr.Labels, pt.id)
		data.Rows = append(data.Rows, []string{pt.id, core.FormatFloat(pt.log2fc), core.FormatFloat(pt.p), core.FormatFloat(y), class})
	}

	fig := &Figure{
		Kind: KindScatter,
		Layout: Layout{
			Title: fmt.Sprintf("%s vs. %s", group1, group2),
			XAxis: Axis{Title: "log2FC"},
			YAxis: Axis{Title: "-log10(p-value)"},
		},
	}
	for _, c := range classes {
		if len(traces[c].Y) > 0 {
			fig.Traces = append(fig.Traces, *traces[c])
		}
	}
	return p.annotate(fig, data, method), nil
}

// Classify labels a volcano point as up, down or non-significant.
func Classify(log2fc, negLog10P float64, opts VolcanoOptions) string {
	if negLog10P <= opts.PValueThreshold {
		return ClassNonSignificant
	}
	switch {
	case log2fc > opts.Log2FCThreshold:
		return ClassUp
	case log2fc < -opts.Log2FCThreshold:
		return ClassDown
	}
	return ClassNonSignificant
}

func comparisonPoints(rows []stats.Comparison, err error) ([]volcanoPoint, error) {
	if err != nil {
		return nil, err
	}
	out := make([]volcanoPoint, len(rows))
	for i, r := range rows {
		out[i] = volcanoPoint{id: r.ProteinID, log2fc: r.Log2FC, p: r.PValue}
	}
	return out, nil
}

func qValuePoints(rows []stats.Comparison, err error) ([]volcanoPoint, error) {
	if err != nil {
		return nil, err
	}
	out := make([]volcanoPoint, len(rows))
	for i, r := range rows {
		out[i] = volcanoPoint{id: r.ProteinID, log2fc: r.Log2FC, p: r.QValue}
	}
	return out, nil
}

// anovaPoints takes the Tukey p-value of the group pair and the fold change of the group
// means over observed values.
func (p *Plotter) anovaPoints(column, group1, group2 string) ([]volcanoPoint, string, error) {
	ds := p.DataSet
	res, err := stats.Anova(ds, column, nil, true)
	if err != nil {
		return nil, "", err
	}
	pColumn := stats.TukeyColumn(group1, group2)
	if res.ColumnIndex(pColumn) < 0 {
		pColumn = stats.TukeyColumn(group2, group1)
	}
	pValues, err := res.Column(pColumn)
	if err != nil {
		return nil, "", &core.ValidationError{Field: column, Message: fmt.Sprintf("no Tukey test for %s and %s", group1, group2)}
	}
	ids, _ := res.Column("Protein ID")

	rows1, err := sampleRows(ds, column, group1)
	if err != nil {
		return nil, "", err
	}
	rows2, err := sampleRows(ds, column, group2)
	if err != nil {
		return nil, "", err
	}

	log2 := ds.Log2Transformed()
	out := make([]volcanoPoint, len(ids))
	for k, id := range ids {
		col := ds.Matrix.Col(ds.Matrix.ProteinIndex(id))
		_, log2fc := stats.FoldChange(observedMean(col, rows1), observedMean(col, rows2), log2)
		pv, err := strconv.ParseFloat(pValues[k], 64)
		if err != nil {
			pv = math.NaN()
		}
		out[k] = volcanoPoint{id: id, log2fc: log2fc, p: pv}
	}
	return out, pColumn, nil
}

func sampleRows(ds *core.DataSet, column, value string) ([]int, error) {
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

func observedMean(col []float64, rows []int) float64 {
	var values []float64
	for _, i := range rows {
		if !math.IsNaN(col[i]) {
			values = append(values, col[i])
		}
	}
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}
