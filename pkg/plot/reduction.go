package plot

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
	"github.com/ChrisMcGann/ProtStats/pkg/stats"
)

// Dimensionality reduction methods.
const (
	MethodPCA  = "pca"
	MethodTSNE = "tsne"
)

// PCA plots the first two principal components of the samples.
func (p *Plotter) PCA(group string, circle bool) (*Figure, error) {
	return p.DimensionalityReduction(MethodPCA, group, circle)
}

// TSNE plots a two dimensional t-SNE embedding of the samples.
func (p *Plotter) TSNE(group string, circle bool, perplexity float64, iterations int) (*Figure, error) {
	opts := p.TSNEOptions
	if perplexity > 0 {
		opts.Perplexity = perplexity
	}
	if iterations > 0 {
		opts.Iterations = iterations
	}
	return p.reduce(MethodTSNE, group, circle, opts)
}

// DimensionalityReduction embeds the samples in two dimensions and colours them by the
// metadata column group. When group is set only samples described in the metadata are
// plotted.
func (p *Plotter) DimensionalityReduction(method, group string, circle bool) (*Figure, error) {
	return p.reduce(method, group, circle, p.TSNEOptions)
}

func (p *Plotter) reduce(method, group string, circle bool, tsne stats.TSNEOptions) (*Figure, error) {
	if method != MethodPCA && method != MethodTSNE {
		return nil, unsupported(method, MethodPCA, MethodTSNE)
	}
	ds := p.DataSet
	if err := ds.RequireComplete(); err != nil {
		return nil, err
	}

	m := ds.Matrix
	var groups map[string]string
	if group != "" {
		var err error
		groups, err = ds.SampleGroups(group)
		if err != nil {
			return nil, err
		}
		m, err = m.SubsetSamples(ds.MetadataSamples())
		if err != nil {
			return nil, err
		}
	}

	var red *stats.Reduction
	var err error
	labels := [2]string{"Dimension 1", "Dimension 2"}
	switch method {
	case MethodPCA:
		red, err = stats.PCA(m.Dense(), 2)
		if err == nil {
			for i := range labels {
				labels[i] = fmt.Sprintf("PC %d (%.2f%%)", i+1, red.Explained[i]*100)
			}
		}
	case MethodTSNE:
		red, err = stats.TSNE(m.Dense(), tsne)
	}
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", method, err)
	}

	fig := &Figure{
		Kind: KindScatter,
		Layout: Layout{
			XAxis:      Axis{Title: labels[0]},
			YAxis:      Axis{Title: labels[1]},
			ShowLegend: group != "",
		},
	}
	fig.Traces, fig.PlottingData = p.scatterTraces(m, red.Scores, group, groups, labels)
	if circle && group != "" {
		AddCircles(fig)
	}
	return p.annotate(fig, fig.PlottingData, method), nil
}

// scatterTraces splits embedded samples into one trace per group, in order of first
// appearance, and tabulates the coordinates.
func (p *Plotter) scatterTraces(m *core.Matrix, scores *mat.Dense, group string, groups map[string]string, labels [2]string) ([]Trace, *core.Table) {
	header := []string{core.SampleColumn}
	if group != "" {
		header = append(header, group)
	}
	data := &core.Table{Header: append(header, labels[0], labels[1])}

	var traces []Trace
	index := make(map[string]int)
	for i, s := range m.Samples {
		g := "samples"
		if group != "" {
			g = groups[s]
		}
		k, ok := index[g]
		if !ok {
			k = len(traces)
			index[g] = k
			traces = append(traces, Trace{Name: g, Group: g, Color: p.Theme.Color(k)})
		}
		x, y := scores.At(i, 0), scores.At(i, 1)
		traces[k].X = append(traces[k].X, x)
		traces[k].Y = append(traces[k].Y, y)
		traces[k].Labels = append(traces[k].Labels, s)

		row := []string{s}
		if group != "" {
			row = append(row, g)
		}
		data.Rows = append(data.Rows, append(row, core.FormatFloat(x), core.FormatFloat(y)))
	}
	return traces, data
}
