package sheet

import (
	"fmt"

	"attendgen/internal/model"

	"github.com/xuri/excelize/v2"
)

// Cell is the rendered view of one sheet cell
type Cell struct {
	Text   string
	Bold   bool
	Italic bool
	Size   float64
	Family string
	HAlign string
	VAlign string
	Border bool // Any border side drawn
}

// Merge is a merged range in 1-based coordinates
type Merge struct {
	From model.CellRef
	To   model.CellRef
}

// Grid is a read-only snapshot of a filled sheet. Renderers that do not
// write xlsx draw from it.
type Grid struct {
	Sheet      string
	Rows       int
	Cols       int
	Cells      [][]Cell // [row][col], 0-based
	ColWidths  []float64
	RowHeights []float64
	Merges     []Merge
}

// At returns the cell at 1-based coordinates, zero value when out of range
func (g *Grid) At(col, row int) Cell {
	if row < 1 || row > g.Rows || col < 1 || col > g.Cols {
		return Cell{}
	}
	return g.Cells[row-1][col-1]
}

// Text returns the cell text grid, convenient for comparisons
func (g *Grid) Text() [][]string {
	out := make([][]string, g.Rows)
	for r, row := range g.Cells {
		out[r] = make([]string, len(row))
		for c, cell := range row {
			out[r][c] = cell.Text
		}
	}
	return out
}

// MergeAt returns the merge whose top-left cell is at col,row
func (g *Grid) MergeAt(col, row int) (Merge, bool) {
	for _, m := range g.Merges {
		if m.From.Col == col && m.From.Row == row {
			return m, true
		}
	}
	return Merge{}, false
}

// Covered reports whether a cell is hidden inside a merge it does not start
func (g *Grid) Covered(col, row int) bool {
	for _, m := range g.Merges {
		if col >= m.From.Col && col <= m.To.Col && row >= m.From.Row && row <= m.To.Row {
			return col != m.From.Col || row != m.From.Row
		}
	}
	return false
}

// Snapshot reads a filled document into a Grid
func Snapshot(doc *model.Filled) (*Grid, error) {
	return ReadGrid(doc.Workbook, doc.Sheet)
}

// ReadGrid reads the used range of a sheet with text, styles and geometry
func ReadGrid(f *excelize.File, sheet string) (*Grid, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	// Text extent only: rows cleared by the mutator keep their styles but
	// must not count as content.
	g := &Grid{Sheet: sheet, Rows: len(rows)}
	for _, row := range rows {
		if len(row) > g.Cols {
			g.Cols = len(row)
		}
	}

	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read merges of %s: %w", sheet, err)
	}
	for _, mc := range merges {
		fromCol, fromRow, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
		if err != nil {
			return nil, err
		}
		toCol, toRow, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err != nil {
			return nil, err
		}
		if fromRow > g.Rows {
			continue
		}
		if toCol > g.Cols {
			g.Cols = toCol
		}
		g.Merges = append(g.Merges, Merge{
			From: model.CellRef{Col: fromCol, Row: fromRow},
			To:   model.CellRef{Col: toCol, Row: toRow},
		})
	}

	styles := make(map[int]*excelize.Style)
	g.Cells = make([][]Cell, g.Rows)
	for r := 0; r < g.Rows; r++ {
		g.Cells[r] = make([]Cell, g.Cols)
		for c := 0; c < g.Cols; c++ {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}

			var text string
			if c < len(rows[r]) {
				text = rows[r][c]
			}
			g.Cells[r][c] = Cell{Text: text}

			idx, err := f.GetCellStyle(sheet, cell)
			if err != nil {
				return nil, err
			}
			st, ok := styles[idx]
			if !ok {
				if st, err = f.GetStyle(idx); err != nil {
					return nil, err
				}
				styles[idx] = st
			}
			applyStyle(&g.Cells[r][c], st)
		}
	}

	for c := 1; c <= g.Cols; c++ {
		name, err := excelize.ColumnNumberToName(c)
		if err != nil {
			return nil, err
		}
		w, err := f.GetColWidth(sheet, name)
		if err != nil {
			return nil, err
		}
		g.ColWidths = append(g.ColWidths, w)
	}
	for r := 1; r <= g.Rows; r++ {
		h, err := f.GetRowHeight(sheet, r)
		if err != nil {
			return nil, err
		}
		g.RowHeights = append(g.RowHeights, h)
	}

	return g, nil
}

func applyStyle(cell *Cell, st *excelize.Style) {
	if st == nil {
		return
	}
	if st.Font != nil {
		cell.Bold = st.Font.Bold
		cell.Italic = st.Font.Italic
		cell.Size = st.Font.Size
		cell.Family = st.Font.Family
	}
	if st.Alignment != nil {
		cell.HAlign = st.Alignment.Horizontal
		cell.VAlign = st.Alignment.Vertical
	}
	for _, b := range st.Border {
		if b.Style > 0 {
			cell.Border = true
			break
		}
	}
}
