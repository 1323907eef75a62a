package word

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"attendgen/internal/model"
	"attendgen/internal/sheet"

	"github.com/nguyenthenguyen/docx"
)

// usableTwips is the A4 width minus two quarter inch margins
const usableTwips = 11906 - 2*360

type WordRenderer struct {
	template []byte
}

// NewWordRenderer loads a custom template, or the built-in one when path is empty
func NewWordRenderer(path string) (*WordRenderer, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = DefaultTemplate()
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read Word template: %w", err)
	}

	// Fail early on a broken template instead of once per group
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open Word template: %w", err)
	}
	r.Close()

	return &WordRenderer{template: data}, nil
}

func (e *WordRenderer) Format() string    { return "docx" }
func (e *WordRenderer) Extension() string { return "docx" }

func (e *WordRenderer) Render(filled *model.Filled) ([]byte, error) {
	grid, err := sheet.Snapshot(filled)
	if err != nil {
		return nil, err
	}

	r, err := docx.ReadDocxFromMemory(bytes.NewReader(e.template), int64(len(e.template)))
	if err != nil {
		return nil, fmt.Errorf("failed to read Word template: %w", err)
	}
	defer r.Close()

	doc := r.Editable()

	// 1. Split the grid at the table header row
	tableStart := grid.Rows + 1
	if filled.Fill.Found {
		tableStart = filled.Fill.StartRow - 1
	}
	lines := headerLines(grid, tableStart)

	title := ""
	if len(lines) > 0 {
		title, lines = lines[0], lines[1:]
	}

	// 2. Replace text placeholders (the library handles XML encoding)
	if err := doc.Replace(TitlePlaceholder, title, -1); err != nil {
		return nil, err
	}
	if err := doc.Replace(HeaderPlaceholder, strings.Join(lines, "\n"), -1); err != nil {
		return nil, err
	}

	// 3. Table, as a real Word table when the placeholder has its own paragraph
	if tableStart > grid.Rows {
		doc.ReplaceRaw(tableParagraph, "", -1)
		if err := doc.Replace(TablePlaceholder, "", -1); err != nil {
			return nil, err
		}
	} else if strings.Contains(doc.GetContent(), tableParagraph) {
		table, err := tableXML(grid, tableStart)
		if err != nil {
			return nil, err
		}
		doc.ReplaceRaw(tableParagraph, table, -1)
	} else if err := doc.Replace(TablePlaceholder, tableText(grid, tableStart), -1); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := doc.Write(&out); err != nil {
		return nil, fmt.Errorf("failed to write Word document: %w", err)
	}
	return out.Bytes(), nil
}

// headerLines returns the visible text of each row above the table
func headerLines(grid *sheet.Grid, tableStart int) []string {
	var lines []string
	for r := 1; r < tableStart && r <= grid.Rows; r++ {
		var parts []string
		for c := 1; c <= grid.Cols; c++ {
			if grid.Covered(c, r) {
				continue
			}
			if text := strings.TrimSpace(grid.At(c, r).Text); text != "" {
				parts = append(parts, text)
			}
		}
		if len(parts) > 0 {
			lines = append(lines, strings.Join(parts, "    "))
		}
	}
	return lines
}

// tableText is the plain fallback for templates without a table paragraph
func tableText(grid *sheet.Grid, tableStart int) string {
	var sb strings.Builder
	for r := tableStart; r <= grid.Rows; r++ {
		cells := make([]string, 0, grid.Cols)
		for c := 1; c <= grid.Cols; c++ {
			cells = append(cells, grid.At(c, r).Text)
		}
		sb.WriteString(strings.Join(cells, "\t"))
		if r < grid.Rows {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func tableXML(grid *sheet.Grid, tableStart int) (string, error) {
	widths := columnTwips(grid.ColWidths)

	var sb strings.Builder
	sb.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="0" w:type="auto"/><w:tblBorders>`)
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		fmt.Fprintf(&sb, `<w:%s w:val="single" w:sz="4" w:space="0" w:color="000000"/>`, side)
	}
	sb.WriteString(`</w:tblBorders></w:tblPr><w:tblGrid>`)
	for _, w := range widths {
		fmt.Fprintf(&sb, `<w:gridCol w:w="%d"/>`, w)
	}
	sb.WriteString(`</w:tblGrid>`)

	for r := tableStart; r <= grid.Rows; r++ {
		height := int(grid.RowHeights[r-1] * 20)
		fmt.Fprintf(&sb, `<w:tr><w:trPr><w:trHeight w:val="%d"/></w:trPr>`, height)
		for c := 1; c <= grid.Cols; c++ {
			cell := grid.At(c, r)
			fmt.Fprintf(&sb, `<w:tc><w:tcPr><w:tcW w:w="%d" w:type="dxa"/><w:vAlign w:val="center"/></w:tcPr><w:p><w:pPr><w:jc w:val="center"/></w:pPr>`, widths[c-1])
			if cell.Text != "" {
				sb.WriteString(`<w:r>`)
				if r == tableStart || cell.Bold {
					sb.WriteString(`<w:rPr><w:b/></w:rPr>`)
				}
				sb.WriteString(`<w:t xml:space="preserve">`)
				if err := xml.EscapeText(&sb, []byte(cell.Text)); err != nil {
					return "", err
				}
				sb.WriteString(`</w:t></w:r>`)
			}
			sb.WriteString(`</w:p></w:tc>`)
		}
		sb.WriteString(`</w:tr>`)
	}

	sb.WriteString(`</w:tbl>`)
	return sb.String(), nil
}

// columnTwips converts sheet widths to twips scaled to the page width
func columnTwips(chars []float64) []int {
	total := 0.0
	for _, w := range chars {
		total += w
	}
	out := make([]int, len(chars))
	for i, w := range chars {
		if total == 0 {
			out[i] = usableTwips / len(chars)
			continue
		}
		out[i] = int(w / total * usableTwips)
	}
	return out
}
