// Package sample builds the stock attendance template and example rosters in
// memory. Tests use it as fixtures and the sample command writes it to disk.
package sample

import (
	"bytes"
	"fmt"
	"strings"

	"attendgen/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	// Sheet is the name of the single sheet in generated workbooks
	Sheet = "Sheet1"
	// HeaderRow is the row holding S.NO / STUDENT ID in the stock template
	HeaderRow = 6
	// BodyRows is the number of pre-bordered rows below the header
	BodyRows = 30
)

// RosterColumns is the header of generated rosters. Remarks is always empty.
var RosterColumns = []string{"School Code", "PROJECT-CITY", "District", "Block", "SCHOOL NAME", "CLASS", "STUDENT ID", "Remarks"}

// Student is one generated roster row
type Student struct {
	SchoolCode string
	Project    string
	District   string
	Block      string
	School     string
	Class      string
	ID         string
}

func (s Student) cells() []string {
	return []string{s.SchoolCode, s.Project, s.District, s.Block, s.School, s.Class, s.ID, ""}
}

// Students returns two schools, the first with five students, the second with three
func Students() []Student {
	return []Student{
		{"1042", "PUNE", "Pune", "Haveli", "ZP School Wagholi", "7A", "S1001"},
		{"1042", "PUNE", "Pune", "Haveli", "ZP School Wagholi", "7A", "S1002"},
		{"1042", "PUNE", "Pune", "Haveli", "ZP School Wagholi", "7A", "S1003"},
		{"2077", "PUNE", "Pune", "Mulshi", "ZP School Paud", "8B", "S2001"},
		{"1042", "PUNE", "Pune", "Haveli", "ZP School Wagholi", "7A", "S1004"},
		{"2077", "PUNE", "Pune", "Mulshi", "ZP School Paud", "8B", "S2002"},
		{"1042", "PUNE", "Pune", "Haveli", "ZP School Wagholi", "7A", "S1005"},
		{"2077", "PUNE", "Pune", "Mulshi", "ZP School Paud", "8B", "S2003"},
	}
}

// Roster converts students to the in-memory roster the loader would produce
func Roster(students []Student) *model.Roster {
	r := &model.Roster{Source: "sample", Columns: append([]string(nil), RosterColumns...)}
	for i, s := range students {
		rec := model.Record{Row: i + 2, Values: make(map[string]string, len(RosterColumns))}
		for c, v := range s.cells() {
			rec.Values[RosterColumns[c]] = v
		}
		r.Records = append(r.Records, rec)
	}
	return r
}

// RosterWorkbook writes students to an xlsx workbook
func RosterWorkbook(students []Student) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(Sheet, "A1", &RosterColumns); err != nil {
		return nil, err
	}
	for i, s := range students {
		cells := s.cells()
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(Sheet, cell, &cells); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RosterCSV writes students as comma separated UTF-8 text
func RosterCSV(students []Student) []byte {
	var b bytes.Buffer
	b.WriteString(strings.Join(RosterColumns, ",") + "\n")
	for _, s := range students {
		b.WriteString(strings.Join(s.cells(), ",") + "\n")
	}
	return b.Bytes()
}

// TemplateOptions tweaks the generated template
type TemplateOptions struct {
	OmitIDMarker    bool // Leave out the STUDENT ID header cell
	OmitClassMarker bool // Leave out the CLASS : cell
}

// Template returns the stock attendance template as xlsx bytes
func Template() ([]byte, error) {
	return TemplateWith(TemplateOptions{})
}

// TemplateWith returns the stock template with optional markers removed
func TemplateWith(opts TemplateOptions) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	header := map[string]string{
		"A1": "ATTENDANCE LIST",
		"A2": "(PLEASE FILL ALL THE DETAILS IN BLOCK LETTERS)",
		"A3": "PROJECT : ",
		"D3": "DISTRICT : ",
		"A4": "BLOCK : ",
		"D4": "SCHOOL : ",
	}
	if !opts.OmitClassMarker {
		header["A5"] = "CLASS : "
	}
	for cell, v := range header {
		if err := f.SetCellStr(Sheet, cell, v); err != nil {
			return nil, err
		}
	}
	if err := f.MergeCell(Sheet, "A1", "F1"); err != nil {
		return nil, err
	}
	if err := f.MergeCell(Sheet, "A2", "F2"); err != nil {
		return nil, err
	}

	columns := []string{"S.NO", "STUDENT ID", "STUDENT NAME", "GENDER", "SIGNATURE", "REMARKS"}
	if opts.OmitIDMarker {
		columns[1] = "ROLL"
	}
	headerCell, _ := excelize.CoordinatesToCellName(1, HeaderRow)
	if err := f.SetSheetRow(Sheet, headerCell, &columns); err != nil {
		return nil, err
	}

	grid, err := f.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "left"},
	})
	if err != nil {
		return nil, err
	}

	last := HeaderRow + BodyRows
	for row := HeaderRow + 1; row <= last; row++ {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(Sheet, cell, row-HeaderRow); err != nil {
			return nil, err
		}
	}
	from, _ := excelize.CoordinatesToCellName(1, HeaderRow)
	to, _ := excelize.CoordinatesToCellName(len(columns), last)
	if err := f.SetCellStyle(Sheet, from, to, grid); err != nil {
		return nil, err
	}

	widths := []float64{6, 14, 30, 10, 20, 16}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(Sheet, col, col, w); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialise template: %w", err)
	}
	return buf.Bytes(), nil
}
