package sheet

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Template holds the raw template workbook. Every Open returns an
// independent copy, so groups never share mutable grid state.
type Template struct {
	Name  string
	Sheet string // Resolved sheet the mutator works on
	data  []byte
}

// LoadTemplate reads a template workbook from disk
func LoadTemplate(path, sheet string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	return NewTemplate(filepath.Base(path), data, sheet)
}

// NewTemplate validates the workbook once and resolves the working sheet.
// An empty sheet name selects the active sheet.
func NewTemplate(name string, data []byte, sheet string) (*Template, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open template %s: %w", name, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		return nil, fmt.Errorf("template %s has no sheet %q", name, sheet)
	}

	return &Template{Name: name, Sheet: sheet, data: data}, nil
}

// Open returns a fresh workbook parsed from the template bytes
func (t *Template) Open() (*excelize.File, error) {
	f, err := excelize.OpenReader(bytes.NewReader(t.data))
	if err != nil {
		return nil, fmt.Errorf("failed to copy template %s: %w", t.Name, err)
	}
	return f, nil
}

// Bytes returns the original template bytes
func (t *Template) Bytes() []byte {
	return t.data
}
