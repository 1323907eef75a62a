package model

import (
	"errors"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrNoRecords is returned when a roster has a header but no data rows
	ErrNoRecords = errors.New("roster has no records")
	// ErrMissingColumn is returned when a required roster column is absent
	ErrMissingColumn = errors.New("required column missing")
	// ErrUnsupportedFormat is returned for roster files with an unknown extension
	ErrUnsupportedFormat = errors.New("unsupported roster format")
	// ErrUnknownFormat is returned for output formats with no renderer
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrMarkerNotFound is returned in strict mode when the identifier marker is absent
	ErrMarkerNotFound = errors.New("marker cell not found")
)

// CellRef addresses one cell by 1-based coordinates
type CellRef struct {
	Col int
	Row int
}

// FillResult describes where identifiers were written
type FillResult struct {
	Found    bool // Identifier marker located
	Column   int  // Fill column (1-based)
	StartRow int  // First fill row (marker row + 1)
	Written  int  // Identifiers written
}

// LastRow returns the last row that received an identifier, or StartRow-1 when none were written
func (r FillResult) LastRow() int {
	return r.StartRow + r.Written - 1
}

// Filled is a template copy mutated for one group
type Filled struct {
	Group    *Group
	Workbook *excelize.File
	Sheet    string
	Fill     FillResult
	Warnings []string
}

// Close releases the workbook
func (d *Filled) Close() error {
	if d == nil || d.Workbook == nil {
		return nil
	}
	return d.Workbook.Close()
}

// Output is one rendered document ready for delivery
type Output struct {
	Name   string // File name, e.g. school_1042.pdf
	Format string // Renderer format key
	Data   []byte
	Group  *Group
}

// Summary holds batch-level totals for reporting
type Summary struct {
	SourceRoster   string
	SourceTemplate string
	TotalRecords   int
	TotalGroups    int
	TotalStudents  int
	TotalOutputs   int
	GeneratedAt    string
}
