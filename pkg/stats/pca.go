package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

// Reduction is a low dimensional embedding of the samples.
type Reduction struct {
	Scores *mat.Dense // samples x components
	// Explained is the share of total variance per component. It is empty for t-SNE.
	Explained []float64
}

// PCA projects the centered rows of x onto their first k principal components.
func PCA(x mat.Matrix, k int) (*Reduction, error) {
	r, c := x.Dims()
	if k < 1 || k > r || k > c {
		return nil, &core.ValidationError{Field: "PCA", Message: fmt.Sprintf("cannot compute %d components of a %dx%d matrix", k, r, c)}
	}
	if hasNaN(x) {
		return nil, core.ErrMissingValues
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return nil, fmt.Errorf("principal component analysis failed")
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	centered := mat.DenseCopyOf(x)
	for j := 0; j < c; j++ {
		mean := stat.Mean(mat.Col(nil, j, centered), nil)
		for i := 0; i < r; i++ {
			centered.Set(i, j, centered.At(i, j)-mean)
		}
	}

	var scores mat.Dense
	scores.Mul(centered, vecs.Slice(0, c, 0, k))

	var total float64
	for _, v := range vars {
		total += v
	}
	explained := make([]float64, k)
	for i := range explained {
		if total > 0 {
			explained[i] = vars[i] / total
		}
	}
	return &Reduction{Scores: &scores, Explained: explained}, nil
}

func hasNaN(x mat.Matrix) bool {
	r, c := x.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.IsNaN(x.At(i, j)) {
				return true
			}
		}
	}
	return false
}
