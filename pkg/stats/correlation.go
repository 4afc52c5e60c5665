package stats

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

// Correlation method names.
const (
	Pearson  = "pearson"
	Spearman = "spearman"
	Kendall  = "kendall"
)

// CorrelationMethods lists the supported correlation methods.
var CorrelationMethods = []string{Pearson, Spearman, Kendall}

// CorrelationMatrix correlates every pair of samples over the protein groups observed in
// both. The result is samples x samples with ones on the diagonal.
func CorrelationMatrix(m *core.Matrix, method string) (*mat.SymDense, error) {
	var corr func(x, y []float64) float64
	switch method {
	case Pearson:
		corr = func(x, y []float64) float64 { return stat.Correlation(x, y, nil) }
	case Spearman:
		corr = func(x, y []float64) float64 { return stat.Correlation(Rank(x), Rank(y), nil) }
	case Kendall:
		corr = KendallTau
	default:
		return nil, core.UnsupportedMethod(method, "pearson, spearman, kendall")
	}

	samples, _ := m.Dims()
	rows := make([][]float64, samples)
	for i := range rows {
		rows[i] = m.Row(i)
	}

	out := mat.NewSymDense(samples, nil)
	for i := 0; i < samples; i++ {
		out.SetSym(i, i, 1)
		for l := i + 1; l < samples; l++ {
			x, y := pairwiseComplete(rows[i], rows[l])
			v := math.NaN()
			if len(x) >= 2 {
				v = corr(x, y)
			}
			out.SetSym(i, l, v)
		}
	}
	return out, nil
}

func pairwiseComplete(a, b []float64) ([]float64, []float64) {
	x := make([]float64, 0, len(a))
	y := make([]float64, 0, len(b))
	for k := range a {
		if math.IsNaN(a[k]) || math.IsNaN(b[k]) {
			continue
		}
		x = append(x, a[k])
		y = append(y, b[k])
	}
	return x, y
}

// KendallTau returns Kendall's tau-b of two equally long samples.
func KendallTau(x, y []float64) float64 {
	var concordant, discordant, tiesX, tiesY float64
	for i := 0; i < len(x); i++ {
		for j := i + 1; j < len(x); j++ {
			dx := sign(x[i] - x[j])
			dy := sign(y[i] - y[j])
			switch {
			case dx == 0 && dy == 0:
			case dx == 0:
				tiesX++
			case dy == 0:
				tiesY++
			case dx == dy:
				concordant++
			default:
				discordant++
			}
		}
	}
	denom := math.Sqrt((concordant + discordant + tiesX) * (concordant + discordant + tiesY))
	if denom == 0 {
		return math.NaN()
	}
	return (concordant - discordant) / denom
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
