package table

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/csimplestring/go-csv/detector"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

// sniffBytes is how much of a .txt file is handed to the delimiter detector.
const sniffBytes = 64 * 1024

// Read parses an uploaded or local file into a table, choosing the parser from the file
// name: .xlsx, .xls, .tsv, .csv and .txt, optionally wrapped in .gz, .xz or .zip.
func Read(r io.Reader, filename string) (*core.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	name := strings.ToLower(filename)
	ext := filepath.Ext(name)
	if c, ok := compressedExtensions[ext]; ok {
		data, err = decompress(data, c)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress %s: %w", filename, err)
		}
		name = strings.TrimSuffix(name, ext)
		ext = filepath.Ext(name)
	}

	var t *core.Table
	switch ext {
	case ".xlsx":
		t, err = readXLSX(data)
	case ".xls":
		t, err = readXLS(data)
	case ".tsv":
		t, err = ReadAll(bytes.NewReader(data), '\t')
	case ".csv":
		t, err = ReadAll(bytes.NewReader(data), ',')
	case ".txt":
		t, err = ReadAll(bytes.NewReader(data), DetectDelimiter(data, '\t'))
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return t, nil
}

// DetectDelimiter returns the most likely delimiter of CSV-like data, or fallback.
func DetectDelimiter(data []byte, fallback rune) rune {
	if len(data) > sniffBytes {
		data = data[:sniffBytes]
	}

	d := detector.New()
	delimiters := d.DetectDelimiter(bytes.NewReader(data), '"')
	for _, delim := range delimiters {
		if delim == "\t" {
			return '\t'
		}
	}
	if len(delimiters) > 0 && len(delimiters[0]) == 1 {
		return rune(delimiters[0][0])
	}
	return fallback
}

func readXLSX(data []byte) (*core.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &core.ValidationError{Field: "Table", Message: "workbook has no sheets"}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return fromRows(rows)
}

func readXLS(data []byte) (*core.Table, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, &core.ValidationError{Field: "Table", Message: "workbook has no sheets"}
	}

	var rows [][]string
	for rowID := 0; rowID <= int(sheet.MaxRow); rowID++ {
		row := sheet.Row(rowID)
		if row == nil {
			continue
		}
		var cells []string
		for colID := 0; colID <= row.LastCol(); colID++ {
			cells = append(cells, row.Col(colID))
		}
		rows = append(rows, cells)
	}
	return fromRows(rows)
}

func fromRows(rows [][]string) (*core.Table, error) {
	var kept [][]string
	for _, row := range rows {
		if !blank(row) {
			kept = append(kept, row)
		}
	}
	if len(kept) == 0 {
		return nil, &core.ValidationError{Field: "Table", Message: "sheet is empty"}
	}

	header := kept[0]
	for len(header) > 0 && strings.TrimSpace(header[len(header)-1]) == "" {
		header = header[:len(header)-1]
	}
	return core.NewTable(core.UniqueHeader(header), kept[1:]), nil
}
