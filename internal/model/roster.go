package model

import "strings"

// Record is one roster row keyed by column name
type Record struct {
	Row    int               // 1-based row number in the source sheet
	Values map[string]string // Trimmed cell values, "" means missing
}

// Get returns the trimmed value of a column, or "" when the column is missing
func (r Record) Get(column string) string {
	return r.Values[column]
}

// Roster is the loaded student list in source column order
type Roster struct {
	Source  string   // File name the roster was read from
	Columns []string // Header cells, in sheet order
	Records []Record // Data rows, empty rows dropped
}

// HasColumn reports whether the roster header contains the column
func (r *Roster) HasColumn(column string) bool {
	for _, c := range r.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// HasValue reports whether at least one record carries a non-missing value for the column
func (r *Roster) HasValue(column string) bool {
	for _, rec := range r.Records {
		if strings.TrimSpace(rec.Values[column]) != "" {
			return true
		}
	}
	return false
}

// DistinctValues counts distinct non-missing values of a column across the roster
func (r *Roster) DistinctValues(column string) int {
	seen := make(map[string]bool)
	for _, rec := range r.Records {
		if v := rec.Values[column]; v != "" {
			seen[v] = true
		}
	}
	return len(seen)
}
