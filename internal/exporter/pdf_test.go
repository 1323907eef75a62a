package exporter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"attendgen/internal/config"
	"attendgen/internal/model"
	"attendgen/internal/sheet"
)

func plainPDF() *PDFRenderer {
	r := NewPDFRenderer(config.Default().Layout)
	r.Now = func() time.Time { return time.Date(2026, 2, 6, 10, 0, 0, 0, time.UTC) }
	r.compress = false
	return r
}

func TestPDFRender(t *testing.T) {
	doc := filledSample(t, 0)

	data, err := plainPDF().Render(doc)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("Output is not a PDF: %q", data[:8])
	}

	content := string(data)
	for _, want := range []string{"(ATTENDANCE LIST)", "(S1001)", "(S1005)", "(SCHOOL : ZP School Wagholi)", "(CLASS : 7)"} {
		if !strings.Contains(content, want) {
			t.Errorf("PDF text %s not found", want)
		}
	}
	if strings.Contains(content, "(S2001)") {
		t.Error("PDF contains an identifier of another group")
	}
}

func TestPDFRenderLongIdentifiers(t *testing.T) {
	doc := filledGroup(t, &model.Group{
		Fields:       []model.Field{{Column: "School Code", Value: "1042"}},
		StudentCount: 4,
		IDs:          []string{"123456789012", "123456789013", "1234567890123456789", "+42"},
	})

	data, err := plainPDF().Render(doc)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	content := string(data)
	for _, want := range []string{"(123456789012)", "(123456789013)", "(1234567890123456789)", "(+42)"} {
		if !strings.Contains(content, want) {
			t.Errorf("PDF text %s not found", want)
		}
	}
	if strings.Contains(content, "E+11") {
		t.Error("Identifier printed in exponent form")
	}
}

func TestPDFRenderDeterministic(t *testing.T) {
	doc := filledSample(t, 1)
	r := plainPDF()

	first, err := r.Render(doc)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	second, err := r.Render(doc)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("Rendering the same document twice should give identical bytes")
	}
}

func TestAlignment(t *testing.T) {
	tests := []struct {
		cell sheet.Cell
		want string
	}{
		{sheet.Cell{}, "LB"},
		{sheet.Cell{HAlign: "center", VAlign: "center"}, "CM"},
		{sheet.Cell{HAlign: "right", VAlign: "top"}, "RT"},
	}
	for _, tt := range tests {
		if got := alignment(tt.cell); got != tt.want {
			t.Errorf("alignment(%+v) = %q, expected %q", tt.cell, got, tt.want)
		}
	}
}
