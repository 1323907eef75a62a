package exporter

import (
	"fmt"
	"strings"

	"attendgen/internal/model"

	"github.com/xuri/excelize/v2"
)

// ExcelRenderer writes the filled workbook as is
type ExcelRenderer struct {
	// Stateless
}

// NewExcelRenderer creates a new ExcelRenderer
func NewExcelRenderer() *ExcelRenderer {
	return &ExcelRenderer{}
}

func (e *ExcelRenderer) Format() string    { return "xlsx" }
func (e *ExcelRenderer) Extension() string { return "xlsx" }

// Render serialises the filled workbook
func (e *ExcelRenderer) Render(doc *model.Filled) ([]byte, error) {
	buf, err := doc.Workbook.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ReportGroup is one line of the batch report
type ReportGroup struct {
	Group   *model.Group
	Outputs []string
}

// WriteReport builds the batch report workbook: an Overview sheet with the
// totals and a Groups sheet with one row per group.
func WriteReport(summary *model.Summary, columns []string, groups []ReportGroup, warnings []string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	styler, err := NewStyler(f)
	if err != nil {
		return nil, err
	}

	// 1. Overview
	if err := writeOverview(f, styler, summary, warnings); err != nil {
		return nil, err
	}

	// 2. Groups
	if err := writeGroups(f, styler, columns, groups); err != nil {
		return nil, err
	}

	// Remove default "Sheet1"
	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx != -1 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	return buf.Bytes(), nil
}

func writeOverview(f *excelize.File, s *Styler, summary *model.Summary, warnings []string) error {
	sheet := "Overview"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	row := 1
	if err := writeRow(f, sheet, row, []interface{}{"Metric", "Value"}, s.HeaderStyle); err != nil {
		return err
	}
	row++

	metrics := []struct {
		Key string
		Val interface{}
	}{
		{"Roster", summary.SourceRoster},
		{"Template", summary.SourceTemplate},
		{"Generated At", summary.GeneratedAt},
		{"Total Records", summary.TotalRecords},
		{"Total Groups", summary.TotalGroups},
		{"Total Students", summary.TotalStudents},
		{"Total Outputs", summary.TotalOutputs},
	}
	for _, m := range metrics {
		if err := writeRow(f, sheet, row, []interface{}{m.Key, m.Val}, s.DefaultStyle); err != nil {
			return err
		}
		row++
	}

	if len(warnings) > 0 {
		row += 2 // Spacer
		if err := writeRow(f, sheet, row, []interface{}{"Warnings"}, s.HeaderStyle); err != nil {
			return err
		}
		row++
		for _, w := range warnings {
			if err := writeRow(f, sheet, row, []interface{}{w}, s.WarningStyle); err != nil {
				return err
			}
			row++
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 20); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "B", 40)
}

func writeGroups(f *excelize.File, s *Styler, columns []string, groups []ReportGroup) error {
	sheet := "Groups"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []interface{}{"No"}
	for _, c := range columns {
		headers = append(headers, c)
	}
	headers = append(headers, "Students", "Outputs")
	if err := writeRow(f, sheet, 1, headers, s.HeaderStyle); err != nil {
		return err
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	for i, rg := range groups {
		values := []interface{}{i + 1}
		for _, c := range columns {
			values = append(values, rg.Group.Value(c))
		}
		values = append(values, rg.Group.StudentCount, strings.Join(rg.Outputs, ", "))
		if err := writeRow(f, sheet, i+2, values, s.DefaultStyle); err != nil {
			return err
		}
	}

	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", last, 18)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}, style int) error {
	for i, val := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, val); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}
