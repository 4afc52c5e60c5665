package loader

import "github.com/ChrisMcGann/ProtStats/pkg/core"

// diannAnnotations are the pg_matrix columns that describe a protein group rather than
// quantify it in a run.
var diannAnnotations = []string{
	"Protein.Group",
	"Protein.Ids",
	"Protein.Names",
	"Genes",
	"First.Protein.Description",
}

func loadDIANN(o *Option, t *core.Table, sel Selection) (*core.Source, error) {
	index := sel.index(o)
	exclude := append([]string{index}, diannAnnotations...)
	columns, samples := IntensityColumns(t, sel.pattern(o), exclude...)
	src, err := newSource(o.Name, t, index, columns, samples)
	if err != nil {
		return nil, err
	}
	src.GeneColumn = geneColumn(t, "Genes")
	return src, nil
}
