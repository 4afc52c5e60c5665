package stats

import (
	"math"
	"sort"
)

// BenjaminiHochberg adjusts p-values for the false discovery rate. NaN p-values are
// ignored and stay NaN.
func BenjaminiHochberg(p []float64) []float64 {
	q := make([]float64, len(p))
	var idx []int
	for i, v := range p {
		q[i] = math.NaN()
		if !math.IsNaN(v) {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool { return p[idx[a]] < p[idx[b]] })

	n := float64(len(idx))
	running := 1.0
	for r := len(idx) - 1; r >= 0; r-- {
		i := idx[r]
		v := p[i] * n / float64(r+1)
		if v < running {
			running = v
		}
		q[i] = running
	}
	return q
}
