package stats

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

// WriteCSV writes typed result rows such as []Comparison or []SampleSummary.
func WriteCSV(w io.Writer, rows interface{}) error {
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

// ToTable converts typed result rows into a table using their csv tags.
func ToTable(rows interface{}) (*core.Table, error) {
	s, err := gocsv.MarshalString(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to convert results: %w", err)
	}
	records, err := csv.NewReader(strings.NewReader(s)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to convert results: %w", err)
	}
	if len(records) == 0 {
		return nil, &core.ValidationError{Field: "Results", Message: "no columns"}
	}
	return core.NewTable(records[0], records[1:]), nil
}
