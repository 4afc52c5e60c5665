package loader

import (
	"strings"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

const (
	spectronautSample = "R.FileName"
	spectronautGenes  = "PG.Genes"
)

// loadSpectronaut accepts the long report (one row per protein group and run, sample in
// R.FileName) and the wide pivot report ("[sample].PG.Quantity" columns).
func loadSpectronaut(o *Option, t *core.Table, sel Selection) (*core.Source, error) {
	index := sel.index(o)
	quantity := sel.pattern(o)

	if t.ColumnIndex(spectronautSample) < 0 {
		columns, samples := IntensityColumns(t, SamplePlaceholder+"."+quantity, index)
		src, err := newSource(o.Name, t, index, columns, samples)
		if err != nil {
			return nil, err
		}
		src.GeneColumn = geneColumn(t, spectronautGenes)
		return src, nil
	}

	wide, samples, err := pivot(t, index, spectronautSample, quantity, spectronautGenes)
	if err != nil {
		return nil, err
	}
	src, err := newSource(o.Name, wide, index, samples, samples)
	if err != nil {
		return nil, err
	}
	src.GeneColumn = geneColumn(wide, spectronautGenes)
	return src, nil
}

// pivot turns a long table into one row per index value and one column per sample. Runs
// repeat the protein group quantity on every precursor row, so the first non-empty value
// is kept. Columns in carry are copied from the first row of each index value.
func pivot(t *core.Table, index, sample, value string, carry ...string) (*core.Table, []string, error) {
	var present []string
	for _, c := range carry {
		if t.ColumnIndex(c) >= 0 {
			present = append(present, c)
		}
	}
	carry = present
	cols, err := t.Select(append([]string{index, sample, value}, carry...)...)
	if err != nil {
		return nil, nil, err
	}

	var samples []string
	sampleCol := make(map[string]int)
	var ids []string
	cells := make(map[string]map[string]string)
	carried := make(map[string][]string)

	for _, row := range cols.Rows {
		id, s, v := strings.TrimSpace(row[0]), strings.TrimSpace(row[1]), strings.TrimSpace(row[2])
		if id == "" || s == "" {
			continue
		}
		if _, ok := sampleCol[s]; !ok {
			sampleCol[s] = len(samples)
			samples = append(samples, s)
		}
		byID, ok := cells[id]
		if !ok {
			byID = make(map[string]string)
			cells[id] = byID
			ids = append(ids, id)
			carried[id] = row[3:]
		}
		if byID[s] == "" {
			byID[s] = v
		}
	}

	header := append(append([]string{index}, carry...), samples...)
	out := &core.Table{Header: header}
	for _, id := range ids {
		row := make([]string, 0, len(header))
		row = append(row, id)
		row = append(row, carried[id]...)
		for _, s := range samples {
			row = append(row, cells[id][s])
		}
		out.Rows = append(out.Rows, row)
	}
	return out, samples, nil
}
