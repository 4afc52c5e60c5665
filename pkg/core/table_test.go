package core

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNewTablePadsRows(t *testing.T) {
	tbl := NewTable([]string{"a", "b", "c"}, [][]string{{"1"}, {"1", "2", "3"}})

	rows, cols := tbl.Shape()
	if rows != 2 || cols != 3 {
		t.Fatalf("Shape() = (%d, %d), want (2, 3)", rows, cols)
	}
	if got := tbl.Rows[0][2]; got != "" {
		t.Errorf("padded cell = %q, want empty", got)
	}
}

func TestTableColumnAndUnique(t *testing.T) {
	tbl := NewTable([]string{"sample", "disease"}, [][]string{
		{"s1", "healthy"},
		{"s2", "cirrhosis"},
		{"s3", "healthy"},
	})

	got, err := tbl.Unique("disease")
	if err != nil {
		t.Fatalf("Unique() error = %v", err)
	}
	if strings.Join(got, ",") != "healthy,cirrhosis" {
		t.Errorf("Unique() = %v", got)
	}

	if _, err := tbl.Column("missing"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("Column(missing) error = %v, want ErrUnknownColumn", err)
	}
}

func TestTableRenameColumn(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{"rename", "Sample ID", "sample", false},
		{"same name", "Sample ID", "Sample ID", false},
		{"unknown", "nope", "sample", true},
		{"collision", "Sample ID", "group", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := NewTable([]string{"Sample ID", "group"}, nil)
			err := tbl.RenameColumn(tt.from, tt.to)
			if (err != nil) != tt.wantErr {
				t.Errorf("RenameColumn() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTableInnerJoin(t *testing.T) {
	long := NewTable([]string{"sample", "Intensity"}, [][]string{
		{"s1", "10"}, {"s2", "20"}, {"s4", "40"},
	})
	meta := NewTable([]string{"sample", "group"}, [][]string{
		{"s1", "A"}, {"s2", "B"}, {"s3", "A"},
	})

	joined, err := long.InnerJoin(meta, "sample")
	if err != nil {
		t.Fatalf("InnerJoin() error = %v", err)
	}
	if rows, cols := joined.Shape(); rows != 2 || cols != 3 {
		t.Fatalf("Shape() = (%d, %d), want (2, 3)", rows, cols)
	}
	if joined.Rows[1][2] != "B" {
		t.Errorf("joined group = %q, want B", joined.Rows[1][2])
	}
}

func TestTableWriteCSV(t *testing.T) {
	tbl := NewTable([]string{"id", "value"}, [][]string{{"P1", "1.5"}, {"P2,P3", "2"}})

	var buf bytes.Buffer
	if err := tbl.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	want := "id,value\nP1,1.5\n\"P2,P3\",2\n"
	if buf.String() != want {
		t.Errorf("WriteCSV() = %q, want %q", buf.String(), want)
	}
}

func TestUniqueHeader(t *testing.T) {
	got := UniqueHeader([]string{"a", " b ", "a", "a"})
	want := []string{"a", "b", "a.1", "a.2"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("UniqueHeader()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
