package roster

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"attendgen/internal/model"
	"attendgen/internal/sample"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

func TestLoadXLSX(t *testing.T) {
	data, err := sample.RosterWorkbook(sample.Students())
	if err != nil {
		t.Fatalf("Failed to build roster workbook: %v", err)
	}

	r, err := LoadReader("roster.xlsx", bytes.NewReader(data), Options{})
	if err != nil {
		t.Fatalf("LoadReader failed: %v", err)
	}

	if diff := cmp.Diff(sample.RosterColumns, r.Columns); diff != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", diff)
	}

	if len(r.Records) != len(sample.Students()) {
		t.Fatalf("Expected %d records, got %d", len(sample.Students()), len(r.Records))
	}

	first := r.Records[0]
	if first.Get("STUDENT ID") != "S1001" || first.Get("CLASS") != "7A" || first.Row != 2 {
		t.Errorf("Unexpected first record: %+v", first)
	}
	if first.Get("Remarks") != "" {
		t.Errorf("Remarks should be missing, got %q", first.Get("Remarks"))
	}
}

func TestLoadXLSXLongNumericIDs(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	rows := [][]interface{}{
		{"School Code", "STUDENT ID"},
		{1042, int64(123456789012)},
		{1042, int64(123456789013)},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	r, err := LoadReader("roster.xlsx", &buf, Options{})
	if err != nil {
		t.Fatalf("LoadReader failed: %v", err)
	}

	var got []string
	for _, rec := range r.Records {
		got = append(got, rec.Get("STUDENT ID"))
	}
	if diff := cmp.Diff([]string{"123456789012", "123456789013"}, got); diff != "" {
		t.Errorf("Identifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestExponentForm(t *testing.T) {
	tests := map[string]bool{
		"1.23456789012E+11": true,
		"5e3":               true,
		"S1001":             false,
		"ENG":               false,
		"123":               false,
		"":                  false,
	}
	for in, want := range tests {
		if got := exponentForm(in); got != want {
			t.Errorf("exponentForm(%q) = %v, expected %v", in, got, want)
		}
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.csv")
	if err := os.WriteFile(path, sample.RosterCSV(sample.Students()), 0644); err != nil {
		t.Fatalf("Failed to write roster: %v", err)
	}

	r, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if r.Source != "roster.csv" {
		t.Errorf("Source = %q, expected roster.csv", r.Source)
	}
	if len(r.Records) != 8 {
		t.Errorf("Expected 8 records, got %d", len(r.Records))
	}
}

func TestLoadCSVVariants(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte("School Code,SCHOOL NAME,STUDENT ID\n7,Escuela Peña,s1\n"))
	if err != nil {
		t.Fatalf("Failed to encode fixture: %v", err)
	}

	tests := []struct {
		name      string
		data      []byte
		wantCols  []string
		wantFirst map[string]string
		wantCount int
	}{
		{
			name:      "Plain UTF-8",
			data:      []byte("School Code,CLASS,STUDENT ID\n1,7A,s1\n1,7A,s2\n"),
			wantCols:  []string{"School Code", "CLASS", "STUDENT ID"},
			wantFirst: map[string]string{"School Code": "1", "CLASS": "7A", "STUDENT ID": "s1"},
			wantCount: 2,
		},
		{
			name:      "UTF-8 BOM",
			data:      append([]byte{0xEF, 0xBB, 0xBF}, []byte("School Code,STUDENT ID\n1,s1\n")...),
			wantCols:  []string{"School Code", "STUDENT ID"},
			wantFirst: map[string]string{"School Code": "1", "STUDENT ID": "s1"},
			wantCount: 1,
		},
		{
			name:      "Windows-1252",
			data:      latin1,
			wantCols:  []string{"School Code", "SCHOOL NAME", "STUDENT ID"},
			wantFirst: map[string]string{"School Code": "7", "SCHOOL NAME": "Escuela Peña", "STUDENT ID": "s1"},
			wantCount: 1,
		},
		{
			name:      "Semicolon delimited",
			data:      []byte("School Code;STUDENT ID\n1;s1\n"),
			wantCols:  []string{"School Code", "STUDENT ID"},
			wantFirst: map[string]string{"School Code": "1", "STUDENT ID": "s1"},
			wantCount: 1,
		},
		{
			name:      "Ragged rows and blank lines",
			data:      []byte("\n\nSchool Code,CLASS,STUDENT ID\n1,7A\n,,\n2,8,s9,extra\n"),
			wantCols:  []string{"School Code", "CLASS", "STUDENT ID"},
			wantFirst: map[string]string{"School Code": "1", "CLASS": "7A", "STUDENT ID": ""},
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := LoadReader("roster.csv", bytes.NewReader(tt.data), Options{Encodings: []string{"windows-1252"}})
			if err != nil {
				t.Fatalf("LoadReader failed: %v", err)
			}
			if diff := cmp.Diff(tt.wantCols, r.Columns); diff != "" {
				t.Errorf("Columns mismatch (-want +got):\n%s", diff)
			}
			if len(r.Records) != tt.wantCount {
				t.Fatalf("Expected %d records, got %d", tt.wantCount, len(r.Records))
			}
			if diff := cmp.Diff(tt.wantFirst, r.Records[0].Values); diff != "" {
				t.Errorf("First record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHeaderNames(t *testing.T) {
	got := headerNames([]string{" School Code ", "", "CLASS", "CLASS", "CLASS"})
	want := []string{"School Code", "Column2", "CLASS", "CLASS_2", "CLASS_3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("headerNames mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsUnknownBytes(t *testing.T) {
	_, _, err := Decode([]byte{0xff, 0xfd, 0x80}, nil)
	if err == nil {
		t.Error("Expected error for invalid UTF-8 without fallback encodings")
	}

	text, used, err := Decode([]byte{'c', 'a', 'f', 0xe9}, []string{"not-a-charset", "iso-8859-1"})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if text != "café" || used != "iso-8859-1" {
		t.Errorf("Decode = %q via %s, expected café via iso-8859-1", text, used)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := LoadReader("roster.ods", bytes.NewReader(nil), Options{})
	if !errors.Is(err, model.ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	r := sample.Roster(sample.Students())

	if err := Validate(r, "STUDENT ID"); err != nil {
		t.Errorf("Valid roster rejected: %v", err)
	}

	if err := Validate(r, "ROLL NO"); !errors.Is(err, model.ErrMissingColumn) {
		t.Errorf("Expected ErrMissingColumn, got %v", err)
	}

	empty := &model.Roster{Columns: []string{"STUDENT ID"}}
	if err := Validate(empty, "STUDENT ID"); !errors.Is(err, model.ErrNoRecords) {
		t.Errorf("Expected ErrNoRecords, got %v", err)
	}
}
