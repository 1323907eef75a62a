package exporter

import (
	"bytes"
	"fmt"
	"time"

	"attendgen/internal/config"
	"attendgen/internal/model"
	"attendgen/internal/sheet"

	"github.com/jung-kurt/gofpdf"
)

const (
	mmPerInch      = 25.4
	mmPerPoint     = 25.4 / 72
	mmPerCharWidth = 7 * 25.4 / 96 // Excel column width unit is ~7px at 96 dpi
	defaultFont    = 11.0
	minFontSize    = 4.0
)

// PDFRenderer draws the filled grid on A4 pages, scaled to the page width
type PDFRenderer struct {
	Layout   config.LayoutConfig
	Now      func() time.Time
	compress bool
}

// NewPDFRenderer creates a PDFRenderer using the sheet layout settings
func NewPDFRenderer(layout config.LayoutConfig) *PDFRenderer {
	return &PDFRenderer{Layout: layout, Now: time.Now, compress: true}
}

func (p *PDFRenderer) Format() string    { return "pdf" }
func (p *PDFRenderer) Extension() string { return "pdf" }

// Render draws every non-empty row of the filled sheet
func (p *PDFRenderer) Render(doc *model.Filled) ([]byte, error) {
	grid, err := sheet.Snapshot(doc)
	if err != nil {
		return nil, err
	}

	margin := p.Layout.Margin * mmPerInch
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetCompression(p.compress)
	now := p.Now()
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetTitle(documentTitle(doc), true)
	pdf.SetCreator("attendgen", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	usable := pageW - 2*margin

	widths := make([]float64, grid.Cols)
	total := 0.0
	for c, w := range grid.ColWidths {
		widths[c] = w * mmPerCharWidth
		total += widths[c]
	}
	// Fit to one page wide, never enlarge
	scale := 1.0
	if total > usable && total > 0 {
		scale = usable / total
	}
	for c := range widths {
		widths[c] *= scale
	}

	pdf.AddPage()
	y := margin
	for r := 1; r <= grid.Rows; r++ {
		h := grid.RowHeights[r-1] * mmPerPoint * scale
		if y+h > pageH-margin && y > margin {
			pdf.AddPage()
			y = margin
		}

		x := margin
		for c := 1; c <= grid.Cols; c++ {
			w := widths[c-1]
			if grid.Covered(c, r) {
				x += w
				continue
			}

			cw, ch := w, h
			if m, ok := grid.MergeAt(c, r); ok {
				cw = spanWidth(widths, m.From.Col, m.To.Col)
				ch = spanHeight(grid, m.From.Row, m.To.Row, scale)
			}

			p.drawCell(pdf, tr, grid.At(c, r), x, y, cw, ch, scale)
			x += w
		}
		y += h
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (p *PDFRenderer) drawCell(pdf *gofpdf.Fpdf, tr func(string) string, cell sheet.Cell, x, y, w, h, scale float64) {
	style := ""
	if cell.Bold {
		style += "B"
	}
	if cell.Italic {
		style += "I"
	}

	size := cell.Size
	if size == 0 {
		size = defaultFont
	}
	size *= scale

	text := tr(cell.Text)
	pdf.SetFont("Helvetica", style, size)
	for size > minFontSize && pdf.GetStringWidth(text) > w-2*pdf.GetCellMargin() {
		size -= 0.5
		pdf.SetFontSize(size)
	}

	border := ""
	if cell.Border {
		border = "1"
	}

	pdf.SetXY(x, y)
	pdf.CellFormat(w, h, text, border, 0, alignment(cell), false, 0, "")
}

// alignment maps sheet alignment to gofpdf's alignStr
func alignment(cell sheet.Cell) string {
	h := "L"
	switch cell.HAlign {
	case "center", "centerContinuous":
		h = "C"
	case "right":
		h = "R"
	}

	v := "B"
	switch cell.VAlign {
	case "center":
		v = "M"
	case "top":
		v = "T"
	}
	return h + v
}

func spanWidth(widths []float64, from, to int) float64 {
	w := 0.0
	for c := from; c <= to && c <= len(widths); c++ {
		w += widths[c-1]
	}
	return w
}

func spanHeight(grid *sheet.Grid, from, to int, scale float64) float64 {
	h := 0.0
	for r := from; r <= to && r <= grid.Rows; r++ {
		h += grid.RowHeights[r-1] * mmPerPoint * scale
	}
	return h
}

func documentTitle(doc *model.Filled) string {
	if doc.Group == nil {
		return "Attendance List"
	}
	return fmt.Sprintf("Attendance List %d", doc.Group.Index+1)
}
