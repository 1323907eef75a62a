package exporter

import (
	"testing"

	"attendgen/internal/config"
	"attendgen/internal/grouping"
	"attendgen/internal/model"
	"attendgen/internal/sample"
	"attendgen/internal/sheet"
)

// filledSample fills the stock template for one sample group
func filledSample(t *testing.T, index int) *model.Filled {
	t.Helper()
	groups := grouping.Aggregate(sample.Roster(sample.Students()),
		grouping.Options{IDColumn: "STUDENT ID", ClassColumn: "CLASS"})
	return filledGroup(t, groups[index])
}

func filledGroup(t *testing.T, g *model.Group) *model.Filled {
	t.Helper()

	data, err := sample.Template()
	if err != nil {
		t.Fatalf("Failed to build template: %v", err)
	}
	tpl, err := sheet.NewTemplate("template.xlsx", data, "")
	if err != nil {
		t.Fatalf("NewTemplate failed: %v", err)
	}

	doc, err := sheet.NewMutator(config.Default()).Fill(tpl, g)
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	t.Cleanup(func() { doc.Close() })
	return doc
}
