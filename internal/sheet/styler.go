package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Styler layers style changes on top of whatever style a template cell
// already carries. Derived styles are registered once per (base, change)
// pair so a workbook does not grow one style per cell.
type Styler struct {
	File  *excelize.File
	Sheet string

	cache map[styleKey]int
}

type styleKey struct {
	base   int
	change string
}

// Change is a named mutation of a cell style
type Change struct {
	Key   string // Cache key, unique per distinct mutation
	Apply func(*excelize.Style)
}

// NewStyler creates a Styler for one sheet of a workbook
func NewStyler(f *excelize.File, sheet string) *Styler {
	return &Styler{
		File:  f,
		Sheet: sheet,
		cache: make(map[styleKey]int),
	}
}

// Apply merges a change into the current style of a cell
func (s *Styler) Apply(cell string, change Change) error {
	base, err := s.File.GetCellStyle(s.Sheet, cell)
	if err != nil {
		return fmt.Errorf("failed to read style of %s: %w", cell, err)
	}

	key := styleKey{base: base, change: change.Key}
	id, ok := s.cache[key]
	if !ok {
		style, err := s.File.GetStyle(base)
		if err != nil {
			return fmt.Errorf("failed to load style %d: %w", base, err)
		}
		if style == nil {
			style = &excelize.Style{}
		}
		change.Apply(style)

		id, err = s.File.NewStyle(style)
		if err != nil {
			return fmt.Errorf("failed to register style for %s: %w", cell, err)
		}
		s.cache[key] = id
	}

	return s.File.SetCellStyle(s.Sheet, cell, cell, id)
}

// ApplyAt is Apply addressed by 1-based coordinates
func (s *Styler) ApplyAt(col, row int, change Change) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return s.Apply(cell, change)
}

// FontChange replaces the font family, size and weight, keeping colour
func FontChange(family string, size float64, bold bool) Change {
	return Change{
		Key: fmt.Sprintf("font:%s:%g:%t", family, size, bold),
		Apply: func(st *excelize.Style) {
			color := ""
			if st.Font != nil {
				color = st.Font.Color
			}
			st.Font = &excelize.Font{Family: family, Size: size, Bold: bold, Color: color}
		},
	}
}

// CenterChange centres content both ways, keeping wrap and rotation
func CenterChange() Change {
	return Change{
		Key: "align:center",
		Apply: func(st *excelize.Style) {
			if st.Alignment == nil {
				st.Alignment = &excelize.Alignment{}
			}
			st.Alignment.Horizontal = "center"
			st.Alignment.Vertical = "center"
		},
	}
}

// ClearBorderChange removes every border line
func ClearBorderChange() Change {
	return Change{
		Key: "border:none",
		Apply: func(st *excelize.Style) {
			st.Border = nil
		},
	}
}

// ThinBorderChange draws a thin black line on all four sides
func ThinBorderChange() Change {
	return Change{
		Key: "border:thin",
		Apply: func(st *excelize.Style) {
			st.Border = createBorder()
		},
	}
}

func createBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
}
