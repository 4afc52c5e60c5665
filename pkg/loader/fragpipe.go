package loader

import "github.com/ChrisMcGann/ProtStats/pkg/core"

func loadFragPipe(o *Option, t *core.Table, sel Selection) (*core.Source, error) {
	index := sel.index(o)
	columns, samples := IntensityColumns(t, sel.pattern(o), index)
	if sel.pattern(o) == "[sample] Intensity" {
		// "[sample] MaxLFQ Intensity" and "[sample] Unique Intensity" end the same way.
		columns, samples = withoutSuffix(columns, samples, " MaxLFQ Intensity")
		columns, samples = withoutSuffix(columns, samples, " Unique Intensity")
		columns, samples = withoutSuffix(columns, samples, " Razor Intensity")
	}
	src, err := newSource(o.Name, t, index, columns, samples)
	if err != nil {
		return nil, err
	}
	src.Contaminants = idContains(t, index, "contam_", "rev_")
	src.GeneColumn = geneColumn(t, "Gene", "Gene Names")
	return src, nil
}
