package plot

import (
	"fmt"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
	"github.com/ChrisMcGann/ProtStats/pkg/stats"
)

// CorrelationMatrix plots the sample by sample correlation as a heatmap.
func (p *Plotter) CorrelationMatrix(method string) (*Figure, error) {
	m := p.DataSet.Matrix
	corr, err := stats.CorrelationMatrix(m, method)
	if err != nil {
		return nil, err
	}

	n, _ := corr.Dims()
	data := &core.Table{Header: append([]string{core.SampleColumn}, m.Samples...)}
	z := make([][]float64, n)
	for i := 0; i < n; i++ {
		z[i] = make([]float64, n)
		row := []string{m.Samples[i]}
		for j := 0; j < n; j++ {
			z[i][j] = corr.At(i, j)
			row = append(row, core.FormatFloat(z[i][j]))
		}
		data.Rows = append(data.Rows, row)
	}

	fig := &Figure{
		Kind:   KindHeatmap,
		Layout: Layout{Title: fmt.Sprintf("%s correlation", method)},
		Heatmap: &Heatmap{
			X:          append([]string(nil), m.Samples...),
			Y:          append([]string(nil), m.Samples...),
			Z:          z,
			ColorScale: p.Theme.ColorScale,
		},
	}
	return p.annotate(fig, data, method), nil
}

// Clustermap plots protein groups by samples, both ordered by hierarchical clustering.
// Every labelBar column of the metadata adds a coloured bar above the samples.
func (p *Plotter) Clustermap(labelBar []string) (*Figure, error) {
	ds := p.DataSet
	if err := ds.RequireComplete(); err != nil {
		return nil, err
	}
	m := ds.Matrix

	colTree, err := stats.Linkage(m.Dense(), p.Linkage)
	if err != nil {
		return nil, fmt.Errorf("failed to cluster samples: %w", err)
	}
	rowTree, err := stats.Linkage(m.Dense().T(), p.Linkage)
	if err != nil {
		return nil, fmt.Errorf("failed to cluster protein groups: %w", err)
	}
	colOrder, rowOrder := colTree.Leaves(), rowTree.Leaves()

	hm := &Heatmap{ColorScale: p.Theme.ColorScale}
	for _, i := range colOrder {
		hm.X = append(hm.X, m.Samples[i])
	}
	for _, j := range rowOrder {
		hm.Y = append(hm.Y, m.Proteins[j])
		row := make([]float64, len(colOrder))
		for k, i := range colOrder {
			row[k] = m.At(i, j)
		}
		hm.Z = append(hm.Z, row)
	}

	fig := &Figure{
		Kind:          KindClustermap,
		Heatmap:       hm,
		Dendrogram:    &Dendrogram{Labels: append([]string(nil), m.Samples...), Tree: colTree},
		RowDendrogram: &Dendrogram{Labels: append([]string(nil), m.Proteins...), Tree: rowTree},
		Layout:        Layout{XAxis: Axis{Title: core.SampleColumn}, YAxis: Axis{Title: ds.IndexColumn}},
	}
	for k, column := range labelBar {
		bar, err := p.labelBar(column, hm.X, p.Theme.Color(k))
		if err != nil {
			return nil, err
		}
		fig.LabelBars = append(fig.LabelBars, bar)
	}
	return p.annotate(fig, m.Table(), p.Linkage), nil
}

// labelBar colours samples by their metadata value with a light ramp of base, values in
// order of first appearance.
func (p *Plotter) labelBar(column string, samples []string, base string) (LabelBar, error) {
	groups, err := p.DataSet.SampleGroups(column)
	if err != nil {
		return LabelBar{}, err
	}
	values, _ := p.DataSet.Metadata.Unique(column)
	ramp := LightRamp(base, len(values))
	palette := make(map[string]string, len(values))
	for i, v := range values {
		palette[v] = ramp[i]
	}

	bar := LabelBar{Name: column, Palette: palette}
	for _, s := range samples {
		c, ok := palette[groups[s]]
		if !ok {
			c = "#FFFFFF"
		}
		bar.Colors = append(bar.Colors, c)
	}
	return bar, nil
}

// Dendrogram plots the hierarchical clustering of the samples.
func (p *Plotter) Dendrogram(linkage string) (*Figure, error) {
	if linkage == "" {
		linkage = stats.Complete
	}
	ds := p.DataSet
	if err := ds.RequireComplete(); err != nil {
		return nil, err
	}
	tree, err := stats.Linkage(ds.Matrix.Dense(), linkage)
	if err != nil {
		return nil, err
	}

	fig := &Figure{
		Kind:       KindDendrogram,
		Dendrogram: &Dendrogram{Labels: append([]string(nil), ds.Matrix.Samples...), Tree: tree},
		Layout:     Layout{Title: fmt.Sprintf("%s linkage", linkage), YAxis: Axis{Title: "distance"}},
	}
	return p.annotate(fig, ds.Matrix.Table(), linkage), nil
}
