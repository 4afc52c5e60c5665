// Package xlsx writes tables as Excel workbooks
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

// Sheet is the worksheet every table is written to
const Sheet = "Sheet1"

// WriteMetadataTemplate writes a metadata workbook with a single sample column listing
// samples, to be filled in by the user
func WriteMetadataTemplate(w io.Writer, samples []string) error {
	rows := make([][]string, len(samples))
	for i, s := range samples {
		rows[i] = []string{s}
	}
	return WriteTable(w, core.NewTable([]string{core.SampleColumn}, rows))
}

// WriteTable writes t with its header in the first row
func WriteTable(w io.Writer, t *core.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := setRow(f, 1, t.Header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(Sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
