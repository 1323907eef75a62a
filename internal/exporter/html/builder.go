package html

import (
	"bytes"
	stdhtml "html"
	"html/template"
	"sync"

	"attendgen/internal/model"
	"attendgen/internal/sheet"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
	pageOnce   sync.Once
	page       *template.Template
	pageErr    error
)

// cellText strips any markup a roster or template cell may carry
func cellText(raw string) string {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return stdhtml.UnescapeString(policy.Sanitize(raw))
}

type HTMLRenderer struct{}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

func (e *HTMLRenderer) Format() string    { return "html" }
func (e *HTMLRenderer) Extension() string { return "html" }

// Data structures for the sheet template
type PageData struct {
	Title   string
	Columns []float64 // Pixel widths
	Rows    []RowData
}

type RowData struct {
	Height float64 // Points
	Cells  []CellData
}

type CellData struct {
	Text    string
	ColSpan int
	RowSpan int
	Classes string
	Align   string
	VAlign  string
	Size    float64
}

func (e *HTMLRenderer) Render(doc *model.Filled) ([]byte, error) {
	grid, err := sheet.Snapshot(doc)
	if err != nil {
		return nil, err
	}

	tmpl, err := pageTemplate()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, buildPage(grid)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pageTemplate() (*template.Template, error) {
	pageOnce.Do(func() {
		page, pageErr = template.New("attendance").Funcs(template.FuncMap{
			"px": func(chars float64) float64 {
				return chars * 7
			},
		}).Parse(SheetTemplate)
	})
	return page, pageErr
}

func buildPage(grid *sheet.Grid) PageData {
	data := PageData{Title: "Attendance List", Columns: grid.ColWidths}

	titleSet := false
	for r := 1; r <= grid.Rows; r++ {
		row := RowData{Height: grid.RowHeights[r-1]}
		for c := 1; c <= grid.Cols; c++ {
			if grid.Covered(c, r) {
				continue
			}

			cell := grid.At(c, r)
			cd := CellData{
				Text:    cellText(cell.Text),
				ColSpan: 1,
				RowSpan: 1,
				Align:   cell.HAlign,
				VAlign:  verticalAlign(cell.VAlign),
				Size:    cell.Size,
			}
			if m, ok := grid.MergeAt(c, r); ok {
				cd.ColSpan = m.To.Col - m.From.Col + 1
				cd.RowSpan = m.To.Row - m.From.Row + 1
			}
			cd.Classes = classes(cell)

			if !titleSet && cd.Text != "" {
				data.Title = cd.Text
				titleSet = true
			}
			row.Cells = append(row.Cells, cd)
		}
		data.Rows = append(data.Rows, row)
	}

	return data
}

func classes(cell sheet.Cell) string {
	out := ""
	add := func(c string) {
		if out != "" {
			out += " "
		}
		out += c
	}
	if cell.Bold {
		add("bold")
	}
	if cell.Italic {
		add("italic")
	}
	if cell.Border {
		add("bordered")
	}
	return out
}

// verticalAlign maps sheet alignment to CSS, sheets default to bottom
func verticalAlign(v string) string {
	switch v {
	case "center":
		return "middle"
	case "top":
		return "top"
	default:
		return "bottom"
	}
}
