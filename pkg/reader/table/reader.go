// Package table provides readers for the delimited and spreadsheet exports produced by
// proteomics quantification software and for sample metadata files.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

// Reader provides streaming access to delimited text files
type Reader struct {
	csv     *csv.Reader
	lineNum int
	record  []string
	err     error
}

// NewReader creates a new delimited reader
func NewReader(r io.Reader, delim rune) *Reader {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	return &Reader{csv: cr}
}

// Next advances to the next non-blank record. Returns false when no more records or error.
func (r *Reader) Next() bool {
	r.record = nil

	for {
		record, err := r.csv.Read()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				r.err = fmt.Errorf("line %d: %w", r.lineNum+1, err)
			}
			return false
		}
		r.lineNum++

		if blank(record) {
			continue
		}
		r.record = record
		return true
	}
}

// Record returns the current record
func (r *Reader) Record() []string {
	return r.record
}

// Line returns the number of records read so far
func (r *Reader) Line() int {
	return r.lineNum
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

// ReadAll reads a header line followed by rows into a table.
func ReadAll(r io.Reader, delim rune) (*core.Table, error) {
	reader := NewReader(r, delim)
	if !reader.Next() {
		if err := reader.Err(); err != nil {
			return nil, err
		}
		return nil, &core.ValidationError{Field: "Table", Message: "file is empty"}
	}

	t := &core.Table{Header: core.UniqueHeader(trimBOM(reader.Record()))}
	for reader.Next() {
		t.AppendRow(reader.Record())
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func trimBOM(header []string) []string {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return header
}
