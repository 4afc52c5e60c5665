// Package loader turns the protein group tables exported by quantification software into
// core.Source values: the raw table plus the intensity and index columns a matrix is
// built from.
package loader

import (
	"fmt"
	"strings"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

// SamplePlaceholder marks the sample name inside an intensity column pattern.
const SamplePlaceholder = "[sample]"

// Selection is the user's choice of columns for a load.
type Selection struct {
	// Intensity holds one column pattern for vendor software, or the explicit intensity
	// columns for Other. Empty selects the vendor default.
	Intensity []string
	// Index is the protein group column. Empty selects the vendor default.
	Index string
}

type loadFunc func(o *Option, t *core.Table, sel Selection) (*core.Source, error)

// Option describes one supported software package.
type Option struct {
	Name             string
	ImportFile       string
	IntensityColumns []string
	IndexColumns     []string
	ExpectedColumns  []string
	InvalidMessage   string

	load  loadFunc
	valid func(t *core.Table) bool
}

var options = []*Option{
	{
		Name:             "MaxQuant",
		ImportFile:       "proteinGroups.txt",
		IntensityColumns: []string{"LFQ intensity [sample]", "Intensity [sample]", "iBAQ [sample]"},
		IndexColumns:     []string{"Protein IDs", "Majority protein IDs"},
		ExpectedColumns:  []string{"Protein IDs", "Reverse", "Potential contaminant"},
		InvalidMessage:   "This is not a valid MaxQuant file. Please check: http://www.coxdocs.org/doku.php?id=maxquant:table:proteingrouptable",
		load:             loadMaxQuant,
	},
	{
		Name:             "AlphaPept",
		ImportFile:       "results_proteins.csv or results_proteins.hdf",
		IntensityColumns: []string{"[sample]_LFQ", "[sample]"},
		IndexColumns:     []string{alphaPeptIndex},
		InvalidMessage:   "This is not a valid AlphaPept file.",
		load:             loadAlphaPept,
		valid:            validAlphaPept,
	},
	{
		Name:             "DIANN",
		ImportFile:       "report_final.pg_matrix.tsv",
		IntensityColumns: []string{"[sample]"},
		IndexColumns:     []string{"Protein.Group"},
		ExpectedColumns:  []string{"Protein.Group"},
		InvalidMessage:   "This is not a valid DIA-NN file.",
		load:             loadDIANN,
	},
	{
		Name:             "Spectronaut",
		ImportFile:       "spectronaut_report.tsv",
		IntensityColumns: []string{"PG.Quantity", "PG.Log2Quantity"},
		IndexColumns:     []string{"PG.ProteinGroups"},
		ExpectedColumns:  []string{"PG.ProteinGroups"},
		InvalidMessage:   "This is not a valid Spectronaut file.",
		load:             loadSpectronaut,
	},
	{
		Name:             "FragPipe",
		ImportFile:       "combined_protein.tsv",
		IntensityColumns: []string{"[sample] MaxLFQ Intensity", "[sample] Intensity"},
		IndexColumns:     []string{"Protein", "Protein ID"},
		ExpectedColumns:  []string{"Protein"},
		InvalidMessage:   "This is not a valid FragPipe file. Please check: https://fragpipe.nesvilab.org/docs/tutorial_fragpipe_outputs.html#combined_proteintsv",
		load:             loadFragPipe,
	},
	{
		Name:       "Other",
		ImportFile: "proteomics file",
		load:       loadOther,
	},
}

// Software returns the supported software names in display order.
func Software() []string {
	names := make([]string, len(options))
	for i, o := range options {
		names[i] = o.Name
	}
	return names
}

// Lookup returns the option for a software name.
func Lookup(software string) (*Option, error) {
	for _, o := range options {
		if o.Name == software {
			return o, nil
		}
	}
	return nil, core.UnsupportedMethod(software, strings.Join(Software(), ", "))
}

// Check validates that t looks like an export of the named software.
func Check(t *core.Table, software string) error {
	o, err := Lookup(software)
	if err != nil {
		return err
	}
	if missing := t.MissingColumns(o.ExpectedColumns...); len(missing) > 0 {
		return &core.ValidationError{
			Field:   software,
			Message: fmt.Sprintf("%s Missing columns: %s", o.InvalidMessage, strings.Join(missing, ", ")),
		}
	}
	if o.valid != nil && !o.valid(t) {
		return &core.ValidationError{Field: software, Message: o.InvalidMessage}
	}
	return nil
}

// Load validates t and extracts a source with the selected columns.
func Load(t *core.Table, software string, sel Selection) (*core.Source, error) {
	if err := Check(t, software); err != nil {
		return nil, err
	}
	o, _ := Lookup(software)
	src, err := o.load(o, t, sel)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s file: %w", software, err)
	}
	return src, nil
}

// MatchSample matches a column against a pattern such as "LFQ intensity [sample]" and
// returns the sample name. The column must be longer than the fixed parts of the pattern.
func MatchSample(pattern, column string) (string, bool) {
	prefix, suffix, ok := strings.Cut(pattern, SamplePlaceholder)
	if !ok {
		return "", false
	}
	if len(column) <= len(prefix)+len(suffix) {
		return "", false
	}
	if !strings.HasPrefix(column, prefix) || !strings.HasSuffix(column, suffix) {
		return "", false
	}
	return column[len(prefix) : len(column)-len(suffix)], true
}

// IntensityColumns returns the columns matching pattern and the sample names they carry,
// skipping excluded columns.
func IntensityColumns(t *core.Table, pattern string, exclude ...string) (columns, samples []string) {
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[e] = true
	}
	for _, h := range t.Header {
		if skip[h] {
			continue
		}
		if s, ok := MatchSample(pattern, h); ok {
			columns = append(columns, h)
			samples = append(samples, strings.TrimSpace(s))
		}
	}
	return columns, samples
}

func (sel Selection) pattern(o *Option) string {
	if len(sel.Intensity) > 0 && sel.Intensity[0] != "" {
		return sel.Intensity[0]
	}
	return o.IntensityColumns[0]
}

func (sel Selection) index(o *Option) string {
	if sel.Index != "" {
		return sel.Index
	}
	return o.IndexColumns[0]
}

// newSource checks the column bookkeeping shared by every loader.
func newSource(software string, t *core.Table, index string, columns, samples []string) (*core.Source, error) {
	if t.ColumnIndex(index) < 0 {
		return nil, fmt.Errorf("index column: %w: %s", core.ErrUnknownColumn, index)
	}
	if len(columns) == 0 {
		return nil, &core.ValidationError{Field: software, Message: "no intensity column matched the selection"}
	}
	seen := make(map[string]bool, len(samples))
	for _, s := range samples {
		if seen[s] {
			return nil, fmt.Errorf("%w: %s", core.ErrDuplicateSample, s)
		}
		seen[s] = true
	}
	return &core.Source{
		Software:         software,
		Table:            t,
		IndexColumn:      index,
		IntensityColumns: columns,
		Samples:          samples,
	}, nil
}

// flagged returns the index values of rows for which match reports true.
func flagged(t *core.Table, index string, match func(row []string) bool) []string {
	idx := t.ColumnIndex(index)
	var out []string
	for _, row := range t.Rows {
		id := strings.TrimSpace(row[idx])
		if id != "" && match(row) {
			out = append(out, id)
		}
	}
	return out
}

// idContains flags rows whose index contains any of the markers.
func idContains(t *core.Table, index string, markers ...string) []string {
	idx := t.ColumnIndex(index)
	return flagged(t, index, func(row []string) bool {
		for _, m := range markers {
			if strings.Contains(row[idx], m) {
				return true
			}
		}
		return false
	})
}

func geneColumn(t *core.Table, candidates ...string) string {
	for _, c := range candidates {
		if t.ColumnIndex(c) >= 0 {
			return c
		}
	}
	return ""
}
