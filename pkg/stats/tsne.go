package stats

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

// TSNEOptions configures an exact t-SNE run.
type TSNEOptions struct {
	Components   int     `yaml:"components"`
	Perplexity   float64 `yaml:"perplexity"`
	Iterations   int     `yaml:"iterations"`
	LearningRate float64 `yaml:"learning_rate"`
	Seed         int64   `yaml:"seed"`
}

// DefaultTSNEOptions returns the settings used when none are given.
func DefaultTSNEOptions() TSNEOptions {
	return TSNEOptions{
		Components:   2,
		Perplexity:   5,
		Iterations:   1000,
		LearningRate: 200,
		Seed:         42,
	}
}

const (
	exaggeration     = 12.0
	exaggerationIter = 250
	perplexityTol    = 1e-5
	perplexitySteps  = 100
	minGain          = 0.01
	minProbability   = 1e-12
)

// TSNE embeds the rows of x with exact t-distributed stochastic neighbor embedding.
func TSNE(x mat.Matrix, opts TSNEOptions) (*Reduction, error) {
	n, _ := x.Dims()
	if hasNaN(x) {
		return nil, core.ErrMissingValues
	}
	if opts.Perplexity <= 0 || opts.Perplexity >= float64(n) {
		return nil, &core.ValidationError{
			Field:   "Perplexity",
			Message: fmt.Sprintf("perplexity must be positive and less than the number of samples (%d), got %v", n, opts.Perplexity),
		}
	}
	if opts.Components < 1 {
		opts.Components = 2
	}
	if opts.Iterations < exaggerationIter {
		opts.Iterations = exaggerationIter
	}
	if opts.LearningRate <= 0 {
		opts.LearningRate = 200
	}

	p := jointProbabilities(squaredDistances(x), opts.Perplexity)

	dim := opts.Components
	rng := rand.New(rand.NewSource(opts.Seed))
	y := make([]float64, n*dim)
	for i := range y {
		y[i] = rng.NormFloat64() * 1e-4
	}
	update := make([]float64, n*dim)
	gains := make([]float64, n*dim)
	for i := range gains {
		gains[i] = 1
	}
	grad := make([]float64, n*dim)
	num := make([]float64, n*n)

	for iter := 0; iter < opts.Iterations; iter++ {
		exag, momentum := 1.0, 0.8
		if iter < exaggerationIter {
			exag, momentum = exaggeration, 0.5
		}

		// Student-t kernel in the embedding
		var sum float64
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				var d float64
				for c := 0; c < dim; c++ {
					diff := y[i*dim+c] - y[j*dim+c]
					d += diff * diff
				}
				v := 1 / (1 + d)
				num[i*n+j], num[j*n+i] = v, v
				sum += 2 * v
			}
		}

		for i := range grad {
			grad[i] = 0
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				q := math.Max(num[i*n+j]/sum, minProbability)
				w := 4 * (exag*p[i*n+j] - q) * num[i*n+j]
				for c := 0; c < dim; c++ {
					grad[i*dim+c] += w * (y[i*dim+c] - y[j*dim+c])
				}
			}
		}

		for k := range y {
			if (grad[k] > 0) != (update[k] > 0) {
				gains[k] += 0.2
			} else {
				gains[k] *= 0.8
			}
			gains[k] = math.Max(gains[k], minGain)
			update[k] = momentum*update[k] - opts.LearningRate*gains[k]*grad[k]
			y[k] += update[k]
		}
		center(y, n, dim)
	}

	return &Reduction{Scores: mat.NewDense(n, dim, y)}, nil
}

func squaredDistances(x mat.Matrix) []float64 {
	n, c := x.Dims()
	d := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var s float64
			for k := 0; k < c; k++ {
				diff := x.At(i, k) - x.At(j, k)
				s += diff * diff
			}
			d[i*n+j], d[j*n+i] = s, s
		}
	}
	return d
}

// jointProbabilities calibrates a gaussian per point to the target perplexity and
// symmetrizes the conditional probabilities.
func jointProbabilities(dist []float64, perplexity float64) []float64 {
	n := int(math.Sqrt(float64(len(dist))))
	target := math.Log(perplexity)
	cond := make([]float64, n*n)

	for i := 0; i < n; i++ {
		beta, lo, hi := 1.0, math.Inf(-1), math.Inf(1)
		row := cond[i*n : (i+1)*n]
		for step := 0; step < perplexitySteps; step++ {
			var sum, dot float64
			for j := 0; j < n; j++ {
				if j == i {
					row[j] = 0
					continue
				}
				row[j] = math.Exp(-dist[i*n+j] * beta)
				sum += row[j]
				dot += dist[i*n+j] * row[j]
			}
			if sum == 0 {
				sum = minProbability
			}
			entropy := math.Log(sum) + beta*dot/sum
			for j := range row {
				row[j] /= sum
			}

			diff := entropy - target
			if math.Abs(diff) < perplexityTol {
				break
			}
			if diff > 0 {
				lo = beta
				if math.IsInf(hi, 1) {
					beta *= 2
				} else {
					beta = (beta + hi) / 2
				}
			} else {
				hi = beta
				if math.IsInf(lo, -1) {
					beta /= 2
				} else {
					beta = (beta + lo) / 2
				}
			}
		}
	}

	p := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			p[i*n+j] = math.Max((cond[i*n+j]+cond[j*n+i])/float64(2*n), minProbability)
		}
	}
	return p
}

func center(y []float64, n, dim int) {
	for c := 0; c < dim; c++ {
		var mean float64
		for i := 0; i < n; i++ {
			mean += y[i*dim+c]
		}
		mean /= float64(n)
		for i := 0; i < n; i++ {
			y[i*dim+c] -= mean
		}
	}
}
