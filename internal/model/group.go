package model

// Field is one shared column value of a group
type Field struct {
	Column string
	Value  string
}

// Group is a partition of roster records sharing every grouping column value
type Group struct {
	Index        int     // 0-based position in first-occurrence order
	Fields       []Field // Grouping columns in roster order
	StudentCount int     // Distinct identifiers in the partition
	IDs          []string
	Members      []int // Indexes into Roster.Records
}

// Get returns a group field value and whether the group carries that column
func (g *Group) Get(column string) (string, bool) {
	for _, f := range g.Fields {
		if f.Column == column {
			return f.Value, true
		}
	}
	return "", false
}

// Value returns a group field value, "" when absent
func (g *Group) Value(column string) string {
	v, _ := g.Get(column)
	return v
}

// Set overwrites an existing field value. Unknown columns are ignored.
func (g *Group) Set(column, value string) {
	for i := range g.Fields {
		if g.Fields[i].Column == column {
			g.Fields[i].Value = value
			return
		}
	}
}
