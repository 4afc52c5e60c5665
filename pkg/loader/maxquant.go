package loader

import (
	"strings"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

// maxQuantFilters are the proteinGroups.txt columns that mark a row with "+" when it is a
// site-only identification, a decoy hit or a known contaminant.
var maxQuantFilters = []string{"Only identified by site", "Reverse", "Potential contaminant"}

func loadMaxQuant(o *Option, t *core.Table, sel Selection) (*core.Source, error) {
	index := sel.index(o)
	columns, samples := IntensityColumns(t, sel.pattern(o), index)
	src, err := newSource(o.Name, t, index, columns, samples)
	if err != nil {
		return nil, err
	}

	var filterCols []int
	for _, name := range maxQuantFilters {
		if i := t.ColumnIndex(name); i >= 0 {
			filterCols = append(filterCols, i)
		}
	}
	src.Contaminants = flagged(t, index, func(row []string) bool {
		for _, c := range filterCols {
			if strings.TrimSpace(row[c]) == "+" {
				return true
			}
		}
		return false
	})
	src.GeneColumn = geneColumn(t, "Gene names")
	return src, nil
}
