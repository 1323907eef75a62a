// Package sheet turns the attendance template into one filled workbook per
// group: marker lookup, header substitution, identifier fill and the
// fixed print layout.
package sheet

import (
	"fmt"
	"strings"

	"attendgen/internal/config"
	"attendgen/internal/model"

	"github.com/xuri/excelize/v2"
)

// Rule labels used for single-hit lookups
const (
	labelTitle       = "title"
	labelInstruction = "instruction"
	labelID          = "id"
	labelTableHeader = "table-header"
	fieldGroup       = "field"
)

// Mutator applies the per-group template rewrite
type Mutator struct {
	Template config.TemplateConfig
	Layout   config.LayoutConfig
	IDColumn string
	Strict   bool // Missing identifier marker is an error instead of a warning

	rules []Rule
}

// NewMutator builds the marker table from configuration
func NewMutator(cfg *config.Config) *Mutator {
	m := &Mutator{
		Template: cfg.Template,
		Layout:   cfg.Layout,
		IDColumn: cfg.Roster.IDColumn,
		Strict:   cfg.Output.Strict,
	}

	if t := cfg.Template.TitleMarker; t != "" {
		m.rules = append(m.rules, Rule{Label: labelTitle, Match: Contains(t), Once: true})
	}
	if t := cfg.Template.InstructionMarker; t != "" {
		m.rules = append(m.rules, Rule{Label: labelInstruction, Match: Contains(t), Once: true})
	}
	for _, f := range cfg.Template.Fields {
		m.rules = append(m.rules, Rule{Label: fieldLabel(f.Label), Match: Contains(f.Label + " :"), Group: fieldGroup})
	}
	m.rules = append(m.rules,
		Rule{Label: labelID, Match: Contains(cfg.Template.IDMarker), Once: true},
		Rule{Label: labelTableHeader, Match: ContainsAny(cfg.Template.SerialMarker, cfg.Template.IDMarker), Once: true},
	)

	return m
}

func fieldLabel(label string) string {
	return "field:" + label
}

// Fill copies the template and rewrites the copy for one group. The
// caller owns the returned document and must Close it.
func (m *Mutator) Fill(tpl *Template, g *model.Group) (*model.Filled, error) {
	f, err := tpl.Open()
	if err != nil {
		return nil, err
	}

	doc := &model.Filled{Group: g, Workbook: f, Sheet: tpl.Sheet}
	if err := m.apply(doc); err != nil {
		f.Close()
		return nil, err
	}
	return doc, nil
}

func (m *Mutator) apply(doc *model.Filled) error {
	f, sheet := doc.Workbook, doc.Sheet

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read template grid: %w", err)
	}
	markers := Scan(rows, m.rules)
	styler := NewStyler(f, sheet)

	if err := m.restyleMarkers(doc, markers, styler); err != nil {
		return err
	}
	if err := m.substituteFields(doc, markers); err != nil {
		return err
	}
	if err := m.fillIdentifiers(doc, markers, styler); err != nil {
		return err
	}

	maxCol, maxRow := extent(f, sheet, rows)
	if doc.Fill.Found && doc.Fill.LastRow() > maxRow {
		maxRow = doc.Fill.LastRow()
	}

	if doc.Fill.Found {
		if err := m.trimBody(doc, styler, maxCol, maxRow); err != nil {
			return err
		}
	}
	if err := m.sizeRows(doc, markers, maxRow); err != nil {
		return err
	}
	if err := m.sizeColumns(doc, maxCol); err != nil {
		return err
	}
	return m.pageSetup(doc)
}

func (m *Mutator) restyleMarkers(doc *model.Filled, markers *Markers, styler *Styler) error {
	targets := []struct {
		label  string
		marker string
		change Change
	}{
		{labelTitle, m.Template.TitleMarker, FontChange(m.Layout.FontFamily, m.Layout.TitleFontSize, true)},
		{labelInstruction, m.Template.InstructionMarker, FontChange(m.Layout.FontFamily, m.Layout.InstructionFontSize, false)},
	}

	for _, t := range targets {
		if t.marker == "" {
			continue
		}
		ref, ok := markers.First(t.label)
		if !ok {
			doc.Warnings = append(doc.Warnings, fmt.Sprintf("template has no %q cell", t.marker))
			continue
		}
		if err := styler.ApplyAt(ref.Col, ref.Row, t.change); err != nil {
			return err
		}
	}
	return nil
}

// substituteFields rewrites every labelled header cell as "<LABEL> : <value>"
func (m *Mutator) substituteFields(doc *model.Filled, markers *Markers) error {
	for _, field := range m.Template.Fields {
		refs := markers.All(fieldLabel(field.Label))
		if len(refs) == 0 {
			continue
		}

		value, ok := doc.Group.Get(field.Column)
		if !ok {
			doc.Warnings = append(doc.Warnings, fmt.Sprintf("roster has no values for %q (used by %s :)", field.Column, field.Label))
		}

		text := fmt.Sprintf("%s : %s", field.Label, value)
		for _, ref := range refs {
			cell, err := excelize.CoordinatesToCellName(ref.Col, ref.Row)
			if err != nil {
				return err
			}
			if err := doc.Workbook.SetCellStr(doc.Sheet, cell, text); err != nil {
				return fmt.Errorf("failed to write %s: %w", cell, err)
			}
		}
	}
	return nil
}

// fillIdentifiers writes the group's identifiers below the identifier marker
func (m *Mutator) fillIdentifiers(doc *model.Filled, markers *Markers, styler *Styler) error {
	ref, ok := markers.First(labelID)
	if !ok {
		if m.Strict {
			return fmt.Errorf("%w: %q", model.ErrMarkerNotFound, m.Template.IDMarker)
		}
		doc.Warnings = append(doc.Warnings, fmt.Sprintf("template has no %q cell, identifiers not written", m.Template.IDMarker))
		return nil
	}

	doc.Fill = model.FillResult{Found: true, Column: ref.Col, StartRow: ref.Row + 1}
	font := FontChange(m.Layout.FontFamily, m.Layout.IDFontSize, false)

	for i, id := range doc.Group.IDs {
		cell, err := excelize.CoordinatesToCellName(ref.Col, doc.Fill.StartRow+i)
		if err != nil {
			return err
		}
		if err := doc.Workbook.SetCellStr(doc.Sheet, cell, id); err != nil {
			return fmt.Errorf("failed to write identifier at %s: %w", cell, err)
		}
		if err := styler.Apply(cell, font); err != nil {
			return err
		}
		doc.Fill.Written++
	}
	return nil
}

// trimBody clears values and borders below the last written identifier
// and centres everything from the first fill row down.
func (m *Mutator) trimBody(doc *model.Filled, styler *Styler, maxCol, maxRow int) error {
	f, sheet := doc.Workbook, doc.Sheet
	lastFilled := doc.Fill.LastRow()

	for row := doc.Fill.StartRow; row <= maxRow; row++ {
		for col := 1; col <= maxCol; col++ {
			cell, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return err
			}

			if row > lastFilled {
				if err := clearCell(f, sheet, cell); err != nil {
					return err
				}
				if err := styler.Apply(cell, ClearBorderChange()); err != nil {
					return err
				}
			} else if m.Layout.BorderFilledRows {
				if err := styler.Apply(cell, ThinBorderChange()); err != nil {
					return err
				}
			}

			if err := styler.Apply(cell, CenterChange()); err != nil {
				return err
			}
		}
	}
	return nil
}

func clearCell(f *excelize.File, sheet, cell string) error {
	formula, err := f.GetCellFormula(sheet, cell)
	if err != nil {
		return err
	}
	if formula != "" {
		if err := f.SetCellFormula(sheet, cell, ""); err != nil {
			return err
		}
	}
	return f.SetCellValue(sheet, cell, nil)
}

// sizeRows sets the body row height from the table header row down
func (m *Mutator) sizeRows(doc *model.Filled, markers *Markers, maxRow int) error {
	ref, ok := markers.First(labelTableHeader)
	if !ok {
		doc.Warnings = append(doc.Warnings, fmt.Sprintf("template has no %q or %q cell, row heights kept",
			m.Template.SerialMarker, m.Template.IDMarker))
		return nil
	}

	for row := ref.Row; row <= maxRow; row++ {
		if err := doc.Workbook.SetRowHeight(doc.Sheet, row, m.Layout.RowHeight); err != nil {
			return fmt.Errorf("failed to set height of row %d: %w", row, err)
		}
	}
	return nil
}

// sizeColumns gives every used column the same width
func (m *Mutator) sizeColumns(doc *model.Filled, maxCol int) error {
	if maxCol < 1 {
		return nil
	}
	last, err := excelize.ColumnNumberToName(maxCol)
	if err != nil {
		return err
	}
	return doc.Workbook.SetColWidth(doc.Sheet, "A", last, m.Layout.ColumnWidth)
}

// pageSetup applies margins, paper size and fit-to-width printing
func (m *Mutator) pageSetup(doc *model.Filled) error {
	f, sheet := doc.Workbook, doc.Sheet
	margin := m.Layout.Margin

	if err := f.SetPageMargins(sheet, &excelize.PageLayoutMarginsOptions{
		Left:   &margin,
		Right:  &margin,
		Top:    &margin,
		Bottom: &margin,
	}); err != nil {
		return fmt.Errorf("failed to set margins: %w", err)
	}

	fitToPage := true
	if err := f.SetSheetProps(sheet, &excelize.SheetPropsOptions{FitToPage: &fitToPage}); err != nil {
		return fmt.Errorf("failed to enable fit to page: %w", err)
	}

	size, width, height := m.Layout.PaperSize, m.Layout.FitToWidth, m.Layout.FitToHeight
	if err := f.SetPageLayout(sheet, &excelize.PageLayoutOptions{
		Size:        &size,
		FitToWidth:  &width,
		FitToHeight: &height,
	}); err != nil {
		return fmt.Errorf("failed to set page layout: %w", err)
	}
	return nil
}

// extent returns the last used column and row, counting both cell text and
// the sheet's recorded dimension so style-only rows are included.
func extent(f *excelize.File, sheet string, rows [][]string) (int, int) {
	maxCol, maxRow := 0, len(rows)
	for _, row := range rows {
		if len(row) > maxCol {
			maxCol = len(row)
		}
	}

	dim, err := f.GetSheetDimension(sheet)
	if err != nil || dim == "" {
		return maxCol, maxRow
	}
	parts := strings.Split(dim, ":")
	col, row, err := excelize.CellNameToCoordinates(parts[len(parts)-1])
	if err != nil {
		return maxCol, maxRow
	}
	if col > maxCol {
		maxCol = col
	}
	if row > maxRow {
		maxRow = row
	}
	return maxCol, maxRow
}
