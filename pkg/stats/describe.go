package stats

import (
	"math"

	"github.com/carbocation/runningvariance"
	"github.com/montanaflynn/stats"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

// SampleSummary describes the intensities of one sample.
type SampleSummary struct {
	Sample  string  `csv:"sample" json:"sample"`
	Count   int     `csv:"count" json:"count"`
	Missing float64 `csv:"missing_fraction" json:"missing_fraction"`
	Mean    float64 `csv:"mean" json:"mean"`
	Std     float64 `csv:"std" json:"std"`
	Min     float64 `csv:"min" json:"min"`
	Q1      float64 `csv:"25%" json:"q1"`
	Median  float64 `csv:"50%" json:"median"`
	Q3      float64 `csv:"75%" json:"q3"`
	Max     float64 `csv:"max" json:"max"`
}

// Describe summarizes every sample of m over its observed intensities.
func Describe(m *core.Matrix) []SampleSummary {
	samples, proteins := m.Dims()
	out := make([]SampleSummary, samples)
	for i := 0; i < samples; i++ {
		values := dropMissing(m.Row(i))
		s := SampleSummary{
			Sample:  m.Samples[i],
			Count:   len(values),
			Missing: 1 - float64(len(values))/float64(proteins),
			Mean:    math.NaN(),
			Std:     math.NaN(),
			Min:     math.NaN(),
			Q1:      math.NaN(),
			Median:  math.NaN(),
			Q3:      math.NaN(),
			Max:     math.NaN(),
		}
		if len(values) > 0 {
			rs := runningvariance.NewRunningStat()
			for _, v := range values {
				rs.Push(v)
			}
			s.Mean = rs.Mean()
			s.Std = rs.StandardDeviation()

			data := stats.Float64Data(values)
			s.Min, _ = data.Min()
			s.Max, _ = data.Max()
			s.Median, _ = data.Median()
			if q, err := stats.Quartile(data); err == nil {
				s.Q1, s.Q3 = q.Q1, q.Q3
			}
		}
		out[i] = s
	}
	return out
}

// BoxStats are the five numbers drawn by a box plot.
type BoxStats struct {
	Min, Q1, Median, Q3, Max float64
	LowerFence, UpperFence   float64
}

// Box computes box plot statistics with whiskers at 1.5 IQR, clipped to the data.
func Box(values []float64) (BoxStats, bool) {
	data := stats.Float64Data(dropMissing(values))
	if data.Len() == 0 {
		return BoxStats{}, false
	}
	var b BoxStats
	b.Min, _ = data.Min()
	b.Max, _ = data.Max()
	b.Median, _ = data.Median()
	b.Q1, b.Q3 = b.Median, b.Median
	if q, err := stats.Quartile(data); err == nil {
		b.Q1, b.Q3 = q.Q1, q.Q3
	}
	iqr := b.Q3 - b.Q1
	b.LowerFence = math.Max(b.Min, b.Q1-1.5*iqr)
	b.UpperFence = math.Min(b.Max, b.Q3+1.5*iqr)
	return b, true
}
