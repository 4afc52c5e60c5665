package loader

import (
	"strings"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

// alphaPeptIndex is the name given to the unnamed first column of an AlphaPept export.
const alphaPeptIndex = "Unnamed: 0"

// nameIndex names a blank first header cell so it can be selected as the index.
func nameIndex(t *core.Table) {
	if len(t.Header) > 0 && strings.TrimSpace(t.Header[0]) == "" && t.ColumnIndex(alphaPeptIndex) < 0 {
		t.Header[0] = alphaPeptIndex
	}
}

// validAlphaPept requires every column after the first to hold numbers.
func validAlphaPept(t *core.Table) bool {
	if len(t.Header) < 2 {
		return false
	}
	for _, row := range t.Rows {
		for _, cell := range row[1:] {
			if _, err := core.ParseIntensity(strings.TrimSpace(cell)); err != nil {
				return false
			}
		}
	}
	return true
}

func loadAlphaPept(o *Option, t *core.Table, sel Selection) (*core.Source, error) {
	nameIndex(t)
	index := sel.Index
	if index == "" {
		index = t.Header[0]
	}

	pattern := sel.pattern(o)
	columns, samples := IntensityColumns(t, pattern, index)
	if pattern == SamplePlaceholder {
		// The raw intensities are the columns without an _LFQ twin suffix.
		columns, samples = withoutSuffix(columns, samples, "_LFQ")
	}
	src, err := newSource(o.Name, t, index, columns, samples)
	if err != nil {
		return nil, err
	}
	src.Contaminants = idContains(t, index, "REV__", "CON__")
	return src, nil
}

func withoutSuffix(columns, samples []string, suffix string) ([]string, []string) {
	var c, s []string
	for i := range columns {
		if strings.HasSuffix(columns[i], suffix) {
			continue
		}
		c = append(c, columns[i])
		s = append(s, samples[i])
	}
	return c, s
}
