package exporter

import (
	"errors"
	"testing"

	"attendgen/internal/config"
	"attendgen/internal/model"

	"github.com/google/go-cmp/cmp"
)

func TestGetRenderers(t *testing.T) {
	cfg := config.Default()
	cfg.Output.ConverterURL = "http://converter:3000/forms/libreoffice/convert"

	tests := []struct {
		name    string
		formats []string
		want    []string
	}{
		{"Single", []string{"pdf"}, []string{"pdf"}},
		{"Aliases collapse", []string{"excel", "XLSX", " word ", "docx"}, []string{"xlsx", "docx"}},
		{"All", []string{"pdf", "xlsx", "docx", "html", "office-pdf"}, []string{"pdf", "xlsx", "docx", "html", "office-pdf"}},
		{"Blank entries skipped", []string{"", "html"}, []string{"html"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderers, err := GetRenderers(tt.formats, cfg)
			if err != nil {
				t.Fatalf("GetRenderers failed: %v", err)
			}
			var got []string
			for _, r := range renderers {
				got = append(got, r.Format())
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Formats mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetRenderersErrors(t *testing.T) {
	cfg := config.Default()

	if _, err := GetRenderers([]string{"pdf", "odt"}, cfg); !errors.Is(err, model.ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
	if _, err := GetRenderers(nil, cfg); !errors.Is(err, model.ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat for empty list, got %v", err)
	}
	if _, err := GetRenderers([]string{"office-pdf"}, cfg); err == nil {
		t.Error("office-pdf without converter_url should fail")
	}

	cfg.Output.DocxTemplate = "/nonexistent/template.docx"
	if _, err := GetRenderers([]string{"docx"}, cfg); err == nil {
		t.Error("Missing Word template should fail")
	}
}

func TestContentType(t *testing.T) {
	for format, want := range map[string]string{
		"pdf":        "application/pdf",
		"office-pdf": "application/pdf",
		"html":       "text/html; charset=utf-8",
		"zip":        "application/octet-stream",
	} {
		if got := ContentType(format); got != want {
			t.Errorf("ContentType(%q) = %q, expected %q", format, got, want)
		}
	}
}
