// Package grouping partitions roster records into per-school groups.
package grouping

import (
	"regexp"
	"strings"

	"attendgen/internal/model"
)

// Options names the special roster columns
type Options struct {
	IDColumn    string // Excluded from grouping, counted per group
	ClassColumn string // Normalised to its first digit run
}

var (
	digitRun = regexp.MustCompile(`\d+`)
	nonDigit = regexp.MustCompile(`\D`)
)

// GroupingColumns returns every roster column except the identifier that
// carries at least one non-missing value, in roster order.
func GroupingColumns(r *model.Roster, idColumn string) []string {
	var cols []string
	for _, c := range r.Columns {
		if c == idColumn {
			continue
		}
		if r.HasValue(c) {
			cols = append(cols, c)
		}
	}
	return cols
}

// Aggregate partitions records by equality on all grouping columns.
// Missing values compare equal to each other. Groups come back in the
// order their first record appears; identifiers keep first-occurrence
// order and are deduplicated.
func Aggregate(r *model.Roster, opts Options) []*model.Group {
	cols := GroupingColumns(r, opts.IDColumn)

	var groups []*model.Group
	index := make(map[string]*model.Group)
	seenIDs := make(map[*model.Group]map[string]bool)

	for i, rec := range r.Records {
		values := make([]string, len(cols))
		for c, col := range cols {
			values[c] = rec.Get(col)
		}
		key := partitionKey(values)

		g, ok := index[key]
		if !ok {
			g = &model.Group{Index: len(groups)}
			for c, col := range cols {
				g.Fields = append(g.Fields, model.Field{Column: col, Value: values[c]})
			}
			index[key] = g
			seenIDs[g] = make(map[string]bool)
			groups = append(groups, g)
		}

		g.Members = append(g.Members, i)

		id := rec.Get(opts.IDColumn)
		if id != "" && !seenIDs[g][id] {
			seenIDs[g][id] = true
			g.IDs = append(g.IDs, id)
		}
	}

	for _, g := range groups {
		g.StudentCount = len(g.IDs)
	}

	if opts.ClassColumn != "" {
		NormalizeClass(groups, opts.ClassColumn)
	}

	return groups
}

// partitionKey joins values with a separator that cannot appear in trimmed
// cell text read from a spreadsheet.
func partitionKey(values []string) string {
	return strings.Join(values, "\x1f")
}

// NormalizeClass rewrites the class field of every group to its first
// digit run when any group's class holds a non-digit character. A class
// with no digits becomes empty.
func NormalizeClass(groups []*model.Group, classColumn string) {
	needed := false
	for _, g := range groups {
		if v, ok := g.Get(classColumn); ok && nonDigit.MatchString(v) {
			needed = true
			break
		}
	}
	if !needed {
		return
	}

	for _, g := range groups {
		if v, ok := g.Get(classColumn); ok {
			g.Set(classColumn, digitRun.FindString(v))
		}
	}
}

// TotalStudents sums student_count over all groups
func TotalStudents(groups []*model.Group) int {
	total := 0
	for _, g := range groups {
		total += g.StudentCount
	}
	return total
}
