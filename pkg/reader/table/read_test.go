package table

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"hash/crc32"
	"os"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ChrisMcGann/ProtStats/pkg/core"
)

const proteinGroups = "Protein IDs\tLFQ intensity A\tLFQ intensity B\tReverse\n" +
	"P1\t10\t20\t\n" +
	"P2\t0\t5\t+\n" +
	"\t\t\t\n" +
	"P3\t1\t2\t\n"

func TestReadDelimited(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		wantRows int
		wantCols int
	}{
		{"tsv", "proteinGroups.tsv", proteinGroups, 3, 4},
		{"txt sniffed tab", "proteinGroups.txt", proteinGroups, 3, 4},
		{"csv", "metadata.csv", "sample,disease\nA,healthy\nB,\"cirrhosis, late\"\n", 2, 2},
		{"txt sniffed comma", "metadata.txt", "sample,disease,age\nA,healthy,40\nB,sick,50\n", 2, 3},
		{"upper case extension", "META.CSV", "sample\nA\n", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Read(strings.NewReader(tt.content), tt.filename)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			rows, cols := tbl.Shape()
			if rows != tt.wantRows || cols != tt.wantCols {
				t.Errorf("Shape() = (%d, %d), want (%d, %d)", rows, cols, tt.wantRows, tt.wantCols)
			}
		})
	}
}

func TestReadQuotedCell(t *testing.T) {
	tbl, err := Read(strings.NewReader("sample,disease\nB,\"cirrhosis, late\"\n"), "m.csv")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := tbl.Rows[0][1]; got != "cirrhosis, late" {
		t.Errorf("quoted cell = %q", got)
	}
}

func TestReadUnsupported(t *testing.T) {
	_, err := Read(strings.NewReader("x"), "proteinGroups.hdf")
	if !errors.Is(err, core.ErrUnsupportedFormat) {
		t.Errorf("Read(.hdf) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestReadGzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(proteinGroups)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}

	tbl, err := Read(&buf, "proteinGroups.txt.gz")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if rows, _ := tbl.Shape(); rows != 3 {
		t.Errorf("rows = %d, want 3", rows)
	}

	if _, err := Read(strings.NewReader(proteinGroups), "proteinGroups.txt.gz"); err == nil {
		t.Error("plain text with .gz extension should fail")
	}
}

const metadataCSV = "sample,disease\nA,healthy\nB,sick\n"

// metadataXZ is metadataCSV compressed with xz using a CRC32 check.
var metadataXZ = []byte{
	0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x00, 0x01, 0x69, 0x22, 0xde, 0x36,
	0x02, 0x00, 0x21, 0x01, 0x0c, 0x00, 0x00, 0x00, 0x8f, 0x98, 0x41, 0x9c,
	0x01, 0x00, 0x1f, 0x73, 0x61, 0x6d, 0x70, 0x6c, 0x65, 0x2c, 0x64, 0x69,
	0x73, 0x65, 0x61, 0x73, 0x65, 0x0a, 0x41, 0x2c, 0x68, 0x65, 0x61, 0x6c,
	0x74, 0x68, 0x79, 0x0a, 0x42, 0x2c, 0x73, 0x69, 0x63, 0x6b, 0x0a, 0x00,
	0x8c, 0x5b, 0x24, 0xe1, 0x00, 0x01, 0x34, 0x20, 0x14, 0x66, 0xc2, 0xa0,
	0x90, 0x42, 0x99, 0x0d, 0x01, 0x00, 0x00, 0x00, 0x00, 0x01, 0x59, 0x5a,
}

// storedZip archives content uncompressed as the only member, with sizes in the local
// header so the archive can be read as a stream.
func storedZip(t *testing.T, name, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.CreateRaw(&zip.FileHeader{
		Name:               name,
		Method:             zip.Store,
		CRC32:              crc32.ChecksumIEEE([]byte(content)),
		CompressedSize64:   uint64(len(content)),
		UncompressedSize64: uint64(len(content)),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReadContainers(t *testing.T) {
	xls, err := os.ReadFile("testdata/metadata.xls")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name     string
		filename string
		data     []byte
	}{
		{"xls", "metadata.xls", xls},
		{"xz", "metadata.csv.xz", metadataXZ},
		{"zip", "metadata.csv.zip", storedZip(t, "metadata.csv", metadataCSV)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Read(bytes.NewReader(tt.data), tt.filename)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			rows, cols := tbl.Shape()
			if rows != 2 || cols != 2 {
				t.Fatalf("Shape() = (%d, %d), want (2, 2)", rows, cols)
			}
			if tbl.Header[1] != "disease" || tbl.Rows[1][0] != "B" || tbl.Rows[1][1] != "sick" {
				t.Errorf("table = %v %v", tbl.Header, tbl.Rows)
			}
		})
	}

	if _, err := Read(strings.NewReader(metadataCSV), "metadata.csv.xz"); err == nil {
		t.Error("plain text with .xz extension should fail")
	}
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"sample", "disease", "age"},
		{"A", "healthy", 40},
		{"B", "cirrhosis", 51},
		{"C", "healthy"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	tbl, err := Read(&buf, "metadata.xlsx")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	nrows, ncols := tbl.Shape()
	if nrows != 3 || ncols != 3 {
		t.Fatalf("Shape() = (%d, %d), want (3, 3)", nrows, ncols)
	}
	if tbl.Rows[1][2] != "51" || tbl.Rows[2][2] != "" {
		t.Errorf("rows = %v", tbl.Rows)
	}
}

func TestReaderStreaming(t *testing.T) {
	r := NewReader(strings.NewReader("a\tb\n\n1\t2\n3\t4\n"), '\t')

	var n int
	for r.Next() {
		n++
		if len(r.Record()) != 2 {
			t.Errorf("record %d = %v", n, r.Record())
		}
	}
	if err := r.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	if n != 3 {
		t.Errorf("records = %d, want 3", n)
	}
}

func TestDetectCompression(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want Compression
	}{
		{"gzip", []byte{0x1f, 0x8b, 0x08, 0x00}, CompressionGzip},
		{"zip", []byte{0x50, 0x4b, 0x03, 0x04, 0x00}, CompressionZip},
		{"xz", []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}, CompressionXZ},
		{"text", []byte("Protein IDs"), CompressionNone},
		{"short", []byte{0x1f}, CompressionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCompression(tt.in); got != tt.want {
				t.Errorf("DetectCompression() = %v, want %v", got, tt.want)
			}
		})
	}
}
