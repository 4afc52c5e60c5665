package plot

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

// Distribution methods.
const (
	MethodViolin  = "violin"
	MethodBox     = "box"
	MethodScatter = "scatter"
)

// SampleDistribution plots the intensities of every sample, optionally coloured by a
// metadata column.
func (p *Plotter) SampleDistribution(method, color string, logScale bool) (*Figure, error) {
	kind, err := distributionKind(method, false)
	if err != nil {
		return nil, err
	}
	ds := p.DataSet

	data := ds.Matrix.Long(ds.IndexColumn)
	var groups map[string]string
	if color != "" {
		if groups, err = ds.SampleGroups(color); err != nil {
			return nil, err
		}
		meta, err := ds.Metadata.Select(core.SampleColumn, color)
		if err != nil {
			return nil, err
		}
		if data, err = data.InnerJoin(meta, core.SampleColumn); err != nil {
			return nil, err
		}
	}

	var colorIndex []string
	if color != "" {
		colorIndex, _ = ds.Metadata.Unique(color)
	}
	colors := p.groupColors(colorIndex)

	fig := &Figure{
		Kind: kind,
		Layout: Layout{
			XAxis:      Axis{Title: core.SampleColumn},
			YAxis:      Axis{Title: "Intensity", Log: logScale},
			ShowLegend: color != "",
		},
	}
	for i, s := range ds.Matrix.Samples {
		if color != "" {
			if _, ok := groups[s]; !ok {
				continue
			}
		}
		tr := Trace{Name: s, Color: p.Theme.Color(i), Y: dropNaN(ds.Matrix.Row(i))}
		if color != "" {
			tr.Group = groups[s]
			tr.Color = colors[tr.Group]
		}
		fig.Traces = append(fig.Traces, tr)
	}
	return p.annotate(fig, data, method), nil
}

// Intensity plots one protein group across samples, grouped by a metadata column.
func (p *Plotter) Intensity(proteinID, group, method string, logScale bool) (*Figure, error) {
	kind, err := distributionKind(method, true)
	if err != nil {
		return nil, err
	}
	ds := p.DataSet
	j := ds.Matrix.ProteinIndex(proteinID)
	if j < 0 {
		msg := fmt.Sprintf("protein ID %q is not in the matrix", proteinID)
		if similar := SimilarIDs(ds.Matrix.Proteins, proteinID, 5); len(similar) > 0 {
			msg += fmt.Sprintf(", did you mean %s?", strings.Join(similar, ", "))
		}
		return nil, &core.ValidationError{Field: "ProteinID", Message: msg}
	}

	levels, err := ds.Metadata.Unique(group)
	if err != nil {
		return nil, err
	}
	groups, _ := ds.SampleGroups(group)
	colors := p.groupColors(levels)

	data := &core.Table{Header: []string{core.SampleColumn, proteinID, group}}
	traces := make(map[string]*Trace, len(levels))
	for i, s := range ds.Matrix.Samples {
		g, ok := groups[s]
		if !ok {
			continue
		}
		v := ds.Matrix.At(i, j)
		data.Rows = append(data.Rows, []string{s, core.FormatFloat(v), g})
		if math.IsNaN(v) {
			continue
		}
		tr, ok := traces[g]
		if !ok {
			tr = &Trace{Name: g, Group: g, Color: colors[g]}
			traces[g] = tr
		}
		tr.Y = append(tr.Y, v)
		tr.Labels = append(tr.Labels, s)
	}

	fig := &Figure{
		Kind: kind,
		Layout: Layout{
			Title:      proteinID,
			XAxis:      Axis{Title: group},
			YAxis:      Axis{Title: "Intensity", Log: logScale},
			ShowLegend: true,
		},
	}
	for k, g := range levels {
		tr, ok := traces[g]
		if !ok {
			continue
		}
		if kind == KindStrip {
			tr.X = stripOffsets(float64(k), len(tr.Y))
		}
		fig.Traces = append(fig.Traces, *tr)
	}
	return p.annotate(fig, data, method), nil
}

func distributionKind(method string, scatter bool) (string, error) {
	switch method {
	case MethodViolin:
		return KindViolin, nil
	case MethodBox:
		return KindBox, nil
	case MethodScatter:
		if scatter {
			return KindStrip, nil
		}
		return "", unsupported(method, MethodViolin, MethodBox)
	}
	if scatter {
		return "", unsupported(method, MethodViolin, MethodBox, MethodScatter)
	}
	return "", unsupported(method, MethodViolin, MethodBox)
}

// stripOffsets spreads n points around center without randomness.
func stripOffsets(center float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		if n > 1 {
			out[i] = center - 0.2 + 0.4*float64(i)/float64(n-1)
		} else {
			out[i] = center
		}
	}
	return out
}

// SimilarIDs returns up to limit protein IDs that contain id or share its first
// characters, closest in length first.
func SimilarIDs(ids []string, id string, limit int) []string {
	needle := strings.ToLower(id)
	prefix := needle
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	var out []string
	for _, candidate := range ids {
		c := strings.ToLower(candidate)
		if needle != "" && (strings.Contains(c, needle) || strings.HasPrefix(c, prefix)) {
			out = append(out, candidate)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return abs(len(out[a])-len(id)) < abs(len(out[b])-len(id))
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
