package sheet

import (
	"testing"

	"attendgen/internal/model"
	"attendgen/internal/sample"

	"github.com/google/go-cmp/cmp"
)

func TestScan(t *testing.T) {
	rows := [][]string{
		{"ATTENDANCE LIST"},
		{"PROJECT : x DISTRICT : y", "", "DISTRICT : "},
		{"S.NO", "STUDENT ID", "STUDENT ID"},
	}
	rules := []Rule{
		{Label: "title", Match: Contains("ATTENDANCE LIST"), Once: true},
		{Label: "project", Match: Contains("PROJECT :"), Group: "field"},
		{Label: "district", Match: Contains("DISTRICT :"), Group: "field"},
		{Label: "id", Match: Contains("STUDENT ID"), Once: true},
		{Label: "header", Match: ContainsAny("S.NO", "STUDENT ID"), Once: true},
	}

	m := Scan(rows, rules)

	if ref, ok := m.First("title"); !ok || ref != (model.CellRef{Col: 1, Row: 1}) {
		t.Errorf("title = %+v, %t", ref, ok)
	}

	// A cell holding two labels only counts for the first rule of its group
	want := []model.CellRef{{Col: 3, Row: 2}}
	if diff := cmp.Diff(want, m.All("district")); diff != "" {
		t.Errorf("district hits mismatch (-want +got):\n%s", diff)
	}
	if len(m.All("project")) != 1 {
		t.Errorf("project hits = %v", m.All("project"))
	}

	if ref, _ := m.First("id"); ref != (model.CellRef{Col: 2, Row: 3}) {
		t.Errorf("id = %+v, expected first STUDENT ID cell", ref)
	}
	if len(m.All("id")) != 1 {
		t.Errorf("Once rule recorded %d hits", len(m.All("id")))
	}
	if ref, _ := m.First("header"); ref != (model.CellRef{Col: 1, Row: 3}) {
		t.Errorf("header = %+v, expected S.NO cell", ref)
	}

	if _, ok := m.First("missing"); ok {
		t.Error("Unknown label should report no hit")
	}
}

func TestNewTemplate(t *testing.T) {
	data, err := sample.Template()
	if err != nil {
		t.Fatalf("Failed to build template: %v", err)
	}

	tpl, err := NewTemplate("t.xlsx", data, "")
	if err != nil {
		t.Fatalf("NewTemplate failed: %v", err)
	}
	if tpl.Sheet != sample.Sheet {
		t.Errorf("Sheet = %q, expected active sheet %q", tpl.Sheet, sample.Sheet)
	}

	if _, err := NewTemplate("t.xlsx", data, "Nope"); err == nil {
		t.Error("Expected error for unknown sheet")
	}
	if _, err := NewTemplate("t.xlsx", []byte("not a workbook"), ""); err == nil {
		t.Error("Expected error for invalid workbook")
	}
}

func TestReadGridMerges(t *testing.T) {
	data, err := sample.Template()
	if err != nil {
		t.Fatalf("Failed to build template: %v", err)
	}
	tpl, err := NewTemplate("t.xlsx", data, "")
	if err != nil {
		t.Fatalf("NewTemplate failed: %v", err)
	}
	f, err := tpl.Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	g, err := ReadGrid(f, tpl.Sheet)
	if err != nil {
		t.Fatalf("ReadGrid failed: %v", err)
	}

	if g.Rows != sample.HeaderRow+sample.BodyRows || g.Cols != 6 {
		t.Errorf("Grid is %dx%d, expected %dx6", g.Rows, g.Cols, sample.HeaderRow+sample.BodyRows)
	}
	if m, ok := g.MergeAt(1, 1); !ok || m.To != (model.CellRef{Col: 6, Row: 1}) {
		t.Errorf("Title merge = %+v, %t", m, ok)
	}
	if !g.Covered(3, 2) || g.Covered(1, 2) || g.Covered(1, 3) {
		t.Error("Covered reports wrong cells")
	}
	if !g.At(2, sample.HeaderRow).Border {
		t.Error("Header cell should carry a border")
	}
	if g.At(99, 99) != (Cell{}) {
		t.Error("Out of range cell should be zero")
	}
}
