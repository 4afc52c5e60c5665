package stats

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	rangeNodes = 64
	scaleNodes = 96
	// Above this many degrees of freedom the scale distribution is a point mass at 1.
	largeDF = 5000
)

// StudentizedRangeCDF is P(Q <= q) for the studentized range of k means with df
// degrees of freedom, integrated numerically over the normal range distribution and
// the chi distributed scale.
func StudentizedRangeCDF(q, k, df float64) float64 {
	if q <= 0 || math.IsNaN(q) {
		return 0
	}
	if math.IsInf(q, 1) {
		return 1
	}
	if df > largeDF {
		return clamp01(normalRangeCDF(q, k))
	}

	// log density of s = sqrt(chi2(df)/df)
	lg, _ := math.Lgamma(df / 2)
	logConst := df/2*math.Log(df) - lg - (df/2-1)*math.Ln2
	density := func(s float64) float64 {
		if s <= 0 {
			return 0
		}
		return math.Exp(logConst + (df-1)*math.Log(s) - df*s*s/2)
	}

	spread := 10 / math.Sqrt(df)
	lo, hi := math.Max(0, 1-spread), 1+spread
	p := quad.Fixed(func(s float64) float64 {
		return density(s) * normalRangeCDF(q*s, k)
	}, lo, hi, scaleNodes, quad.Legendre{}, 0)
	return clamp01(p)
}

// normalRangeCDF is P(W <= w) for the range W of k standard normal variables.
func normalRangeCDF(w, k float64) float64 {
	if w <= 0 {
		return 0
	}
	n := distuv.UnitNormal
	inner := func(z float64) float64 {
		d := n.CDF(z) - n.CDF(z-w)
		if d <= 0 {
			return 0
		}
		return n.Prob(z) * math.Pow(d, k-1)
	}
	return k * quad.Fixed(inner, -8, 8, rangeNodes, quad.Legendre{}, 0)
}

func clamp01(p float64) float64 {
	return math.Max(0, math.Min(1, p))
}
