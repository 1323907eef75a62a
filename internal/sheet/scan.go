package sheet

import (
	"strings"

	"attendgen/internal/model"
)

// Rule matches marker cells during the single template scan
type Rule struct {
	Label string            // Key used to look hits up
	Match func(string) bool // Reports whether the cell text is a marker
	Once  bool              // Only the first hit in reading order is kept
	Group string            // Within one cell only the first matching rule of a group counts
}

// Contains builds a matcher for a substring
func Contains(marker string) func(string) bool {
	return func(text string) bool {
		return strings.Contains(text, marker)
	}
}

// ContainsAny builds a matcher for any of several substrings
func ContainsAny(markers ...string) func(string) bool {
	return func(text string) bool {
		for _, m := range markers {
			if strings.Contains(text, m) {
				return true
			}
		}
		return false
	}
}

// Markers holds the scan result
type Markers struct {
	hits map[string][]model.CellRef
}

// Scan walks the grid once, top to bottom and left to right, and records
// every hit of every rule. rows is the text grid as returned by GetRows.
func Scan(rows [][]string, rules []Rule) *Markers {
	m := &Markers{hits: make(map[string][]model.CellRef)}

	for r, row := range rows {
		for c, text := range row {
			if text == "" {
				continue
			}

			claimed := make(map[string]bool)
			for _, rule := range rules {
				if rule.Group != "" && claimed[rule.Group] {
					continue
				}
				if rule.Once && len(m.hits[rule.Label]) > 0 {
					continue
				}
				if !rule.Match(text) {
					continue
				}
				m.hits[rule.Label] = append(m.hits[rule.Label], model.CellRef{Col: c + 1, Row: r + 1})
				if rule.Group != "" {
					claimed[rule.Group] = true
				}
			}
		}
	}

	return m
}

// First returns the first hit of a rule in reading order
func (m *Markers) First(label string) (model.CellRef, bool) {
	hits := m.hits[label]
	if len(hits) == 0 {
		return model.CellRef{}, false
	}
	return hits[0], true
}

// All returns every hit of a rule in reading order
func (m *Markers) All(label string) []model.CellRef {
	return m.hits[label]
}
