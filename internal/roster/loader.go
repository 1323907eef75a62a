package roster

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"attendgen/internal/model"
)

// Options controls how a roster file is read
type Options struct {
	Sheet     string   // Sheet name for workbooks ("" = first sheet)
	Encodings []string // Fallback code pages tried for non-UTF-8 CSV files
}

// Load reads a roster file from disk, choosing the reader by extension
func Load(path string, opts Options) (*model.Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster: %w", err)
	}
	defer f.Close()

	return LoadReader(filepath.Base(path), f, opts)
}

// LoadReader reads a roster from r. name is only used for its extension
// and for reporting.
func LoadReader(name string, r io.Reader, opts Options) (*model.Roster, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster %s: %w", name, err)
	}

	var rows [][]string
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(bytes.NewReader(data), opts.Sheet)
	case ".xls":
		rows, err = readXLS(bytes.NewReader(data), opts.Sheet)
	case ".csv", ".txt":
		rows, err = readCSV(data, opts.Encodings)
	default:
		return nil, fmt.Errorf("%w: %s", model.ErrUnsupportedFormat, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse roster %s: %w", name, err)
	}

	return buildRoster(name, rows), nil
}

// Validate checks that the identifier column exists and that the roster has data
func Validate(r *model.Roster, idColumn string) error {
	if !r.HasColumn(idColumn) {
		return fmt.Errorf("%w: %q (found %s)", model.ErrMissingColumn, idColumn, strings.Join(r.Columns, ", "))
	}
	if len(r.Records) == 0 {
		return model.ErrNoRecords
	}
	return nil
}

// buildRoster takes the first non-empty row as header and every later
// non-empty row as a record.
func buildRoster(source string, rows [][]string) *model.Roster {
	r := &model.Roster{Source: source}

	headerIdx := -1
	for i, row := range rows {
		if !isBlank(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return r
	}

	r.Columns = headerNames(rows[headerIdx])

	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}

		rec := model.Record{Row: i + 1, Values: make(map[string]string, len(r.Columns))}
		for c, column := range r.Columns {
			if c < len(row) {
				rec.Values[column] = strings.TrimSpace(row[c])
			} else {
				rec.Values[column] = ""
			}
		}
		r.Records = append(r.Records, rec)
	}

	return r
}

// headerNames trims header cells, names blank ones by position and
// suffixes duplicates so every column key is unique.
func headerNames(row []string) []string {
	names := make([]string, len(row))
	seen := make(map[string]int)

	for i, cell := range row {
		name := strings.TrimSpace(cell)
		if name == "" {
			name = "Column" + strconv.Itoa(i+1)
		}

		seen[name]++
		if n := seen[name]; n > 1 {
			name = name + "_" + strconv.Itoa(n)
		}
		names[i] = name
	}

	return names
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
