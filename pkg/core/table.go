// Package core provides the tabular models (raw tables, intensity matrices, data sets)
// and validation logic shared by every ProtStats package.
package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Table is a header plus string cells. Vendor exports and metadata files are both read
// into a Table before anything numeric happens.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable creates a table, padding or truncating rows to the header width.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{
		Header: append([]string(nil), header...),
		Rows:   make([][]string, 0, len(rows)),
	}
	for _, row := range rows {
		t.AppendRow(row)
	}
	return t
}

// AppendRow adds a row, padded to the header width.
func (t *Table) AppendRow(row []string) {
	out := make([]string, len(t.Header))
	copy(out, row)
	t.Rows = append(t.Rows, out)
}

// Clone returns a copy that shares no rows with t.
func (t *Table) Clone() *Table {
	return NewTable(t.Header, t.Rows)
}

// Shape returns (rows, columns)
func (t *Table) Shape() (int, int) {
	return len(t.Rows), len(t.Header)
}

// ColumnIndex returns the index of a column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// HasColumns reports whether every named column is present.
func (t *Table) HasColumns(names ...string) bool {
	for _, name := range names {
		if t.ColumnIndex(name) < 0 {
			return false
		}
	}
	return true
}

// MissingColumns returns the names that are not in the header.
func (t *Table) MissingColumns(names ...string) []string {
	var missing []string
	for _, name := range names {
		if t.ColumnIndex(name) < 0 {
			missing = append(missing, name)
		}
	}
	return missing
}

// Column returns a copy of the values of one column.
func (t *Table) Column(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Unique returns the distinct values of a column in order of first appearance.
func (t *Table) Unique(name string) ([]string, error) {
	values, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out, nil
}

// RenameColumn renames a column in place.
func (t *Table) RenameColumn(from, to string) error {
	idx := t.ColumnIndex(from)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, from)
	}
	if from == to {
		return nil
	}
	if t.ColumnIndex(to) >= 0 {
		return &ValidationError{Field: to, Message: "column already exists"}
	}
	t.Header[idx] = to
	return nil
}

// Head returns a table with at most the first n rows.
func (t *Table) Head(n int) *Table {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return NewTable(t.Header, t.Rows[:n])
}

// Select returns a new table restricted to the given columns, in that order.
func (t *Table) Select(names ...string) (*Table, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		idx[i] = t.ColumnIndex(name)
		if idx[i] < 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
		}
	}
	out := &Table{Header: append([]string(nil), names...)}
	for _, row := range t.Rows {
		r := make([]string, len(idx))
		for i, j := range idx {
			r[i] = row[j]
		}
		out.Rows = append(out.Rows, r)
	}
	return out, nil
}

// Lookup indexes the rows by the value of a key column. Later duplicates win.
func (t *Table) Lookup(key string) (map[string][]string, error) {
	idx := t.ColumnIndex(key)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, key)
	}
	out := make(map[string][]string, len(t.Rows))
	for _, row := range t.Rows {
		out[row[idx]] = row
	}
	return out, nil
}

// InnerJoin merges t with other on a shared key column, keeping t's row order. Columns
// of other that already exist in t are skipped.
func (t *Table) InnerJoin(other *Table, key string) (*Table, error) {
	left := t.ColumnIndex(key)
	if left < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, key)
	}
	lookup, err := other.Lookup(key)
	if err != nil {
		return nil, err
	}

	var extra []int
	header := append([]string(nil), t.Header...)
	for i, h := range other.Header {
		if t.ColumnIndex(h) >= 0 {
			continue
		}
		extra = append(extra, i)
		header = append(header, h)
	}

	out := &Table{Header: header}
	for _, row := range t.Rows {
		match, ok := lookup[row[left]]
		if !ok {
			continue
		}
		r := append([]string(nil), row...)
		for _, i := range extra {
			r = append(r, match[i])
		}
		out.Rows = append(out.Rows, r)
	}
	return out, nil
}

// WriteCSV writes the table as comma-separated values with a header line.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// String renders a short tab-separated preview, mostly for the CLI.
func (t *Table) String() string {
	var b strings.Builder
	b.WriteString(strings.Join(t.Header, "\t"))
	b.WriteByte('\n')
	for _, row := range t.Rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}

// UniqueHeader renames repeated column names by appending .1, .2, ...
func UniqueHeader(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		n, dup := seen[h]
		seen[h] = n + 1
		if dup {
			out[i] = fmt.Sprintf("%s.%d", h, n)
			continue
		}
		out[i] = h
	}
	return out
}
