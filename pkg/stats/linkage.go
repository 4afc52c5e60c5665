package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

// Linkage method names.
const (
	Single   = "single"
	Complete = "complete"
	Average  = "average"
)

// LinkageMethods lists the supported linkage methods.
var LinkageMethods = []string{Single, Complete, Average}

// Merge is one row of a linkage matrix. Clusters 0..n-1 are the observations, cluster
// n+i is the one created by merge i.
type Merge struct {
	Left     int
	Right    int
	Distance float64
	Size     int
}

// Tree is the result of agglomerative clustering.
type Tree struct {
	N      int
	Merges []Merge
}

// Linkage clusters the rows of x on euclidean distances.
func Linkage(x mat.Matrix, method string) (*Tree, error) {
	var update func(dxz, dyz float64, nx, ny int) float64
	switch method {
	case Single:
		update = func(dxz, dyz float64, _, _ int) float64 { return math.Min(dxz, dyz) }
	case Complete:
		update = func(dxz, dyz float64, _, _ int) float64 { return math.Max(dxz, dyz) }
	case Average:
		update = func(dxz, dyz float64, nx, ny int) float64 {
			return (float64(nx)*dxz + float64(ny)*dyz) / float64(nx+ny)
		}
	default:
		return nil, core.UnsupportedMethod(method, "single, complete, average")
	}
	if hasNaN(x) {
		return nil, core.ErrMissingValues
	}

	n, _ := x.Dims()
	d := squaredDistances(x)
	for i, v := range d {
		d[i] = math.Sqrt(v)
	}

	size := make([]int, n)
	active := make([]bool, n)
	for i := range size {
		size[i] = 1
		active[i] = true
	}

	// nearest neighbor chain; merges come out unordered and are sorted afterwards
	type pair struct {
		a, b int
		dist float64
	}
	var pairs []pair
	var chain []int
	for len(pairs) < n-1 {
		if len(chain) == 0 {
			for i := range active {
				if active[i] {
					chain = append(chain, i)
					break
				}
			}
		}
		for {
			top := chain[len(chain)-1]
			prev := -1
			if len(chain) > 1 {
				prev = chain[len(chain)-2]
			}
			best, bestDist := prev, math.Inf(1)
			if prev >= 0 {
				bestDist = d[top*n+prev]
			}
			for z := 0; z < n; z++ {
				if !active[z] || z == top {
					continue
				}
				if d[top*n+z] < bestDist {
					best, bestDist = z, d[top*n+z]
				}
			}
			if best == prev && prev >= 0 {
				break
			}
			chain = append(chain, best)
		}

		a, b := chain[len(chain)-1], chain[len(chain)-2]
		chain = chain[:len(chain)-2]
		pairs = append(pairs, pair{a: a, b: b, dist: d[a*n+b]})

		// b absorbs a
		for z := 0; z < n; z++ {
			if !active[z] || z == a || z == b {
				continue
			}
			v := update(d[a*n+z], d[b*n+z], size[a], size[b])
			d[b*n+z], d[z*n+b] = v, v
		}
		size[b] += size[a]
		active[a] = false
	}

	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].dist < pairs[j].dist })

	// relabel representatives with cluster ids in merge order
	parent := make([]int, n)
	label := make([]int, n)
	for i := range parent {
		parent[i] = i
		label[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	clusterSize := make([]int, n)
	for i := range clusterSize {
		clusterSize[i] = 1
	}

	tree := &Tree{N: n}
	for k, p := range pairs {
		ra, rb := find(p.a), find(p.b)
		left, right := label[ra], label[rb]
		if left > right {
			left, right = right, left
		}
		merged := clusterSize[ra] + clusterSize[rb]
		tree.Merges = append(tree.Merges, Merge{Left: left, Right: right, Distance: p.dist, Size: merged})

		parent[ra] = rb
		label[rb] = n + k
		clusterSize[rb] = merged
	}
	return tree, nil
}

// Leaves returns the observations in dendrogram order, left subtree first.
func (t *Tree) Leaves() []int {
	if t.N == 0 {
		return nil
	}
	if len(t.Merges) == 0 {
		return []int{0}
	}
	var out []int
	stack := []int{t.N + len(t.Merges) - 1}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id < t.N {
			out = append(out, id)
			continue
		}
		m := t.Merges[id-t.N]
		stack = append(stack, m.Right, m.Left)
	}
	return out
}

// Height returns the merge distance of a cluster id, zero for observations.
func (t *Tree) Height(id int) float64 {
	if id < t.N {
		return 0
	}
	return t.Merges[id-t.N].Distance
}
