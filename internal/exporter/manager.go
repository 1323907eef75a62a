package exporter

import (
	"fmt"
	"strings"

	"attendgen/internal/config"
	"attendgen/internal/exporter/html"
	"attendgen/internal/exporter/word"
	"attendgen/internal/model"
)

// GetRenderers returns one Renderer per requested format. Aliases resolve
// to the same renderer and duplicates are dropped.
func GetRenderers(formats []string, cfg *config.Config) ([]Renderer, error) {
	renderers := []Renderer{}
	seen := make(map[string]bool)

	for _, fmtStr := range formats {
		fmtStr = strings.ToLower(strings.TrimSpace(fmtStr))
		if fmtStr == "" {
			continue
		}

		var r Renderer
		switch fmtStr {
		case "excel", "xlsx":
			r = NewExcelRenderer()
		case "pdf":
			r = NewPDFRenderer(cfg.Layout)
		case "html":
			r = html.NewHTMLRenderer()
		case "word", "docx":
			wr, err := word.NewWordRenderer(cfg.Output.DocxTemplate)
			if err != nil {
				return nil, err
			}
			r = wr
		case "office-pdf", "libreoffice":
			if cfg.Output.ConverterURL == "" {
				return nil, fmt.Errorf("format %q needs output.converter_url", fmtStr)
			}
			r = NewOfficeRenderer(cfg.Output.ConverterURL, cfg.Output.ConverterTimeout)
		default:
			return nil, fmt.Errorf("%w: %q", model.ErrUnknownFormat, fmtStr)
		}

		if seen[r.Format()] {
			continue
		}
		seen[r.Format()] = true
		renderers = append(renderers, r)
	}

	if len(renderers) == 0 {
		return nil, fmt.Errorf("%w: no output format given", model.ErrUnknownFormat)
	}

	return renderers, nil
}

// ContentType returns the MIME type of a rendered format
func ContentType(format string) string {
	switch format {
	case "xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf", "office-pdf":
		return "application/pdf"
	case "docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case "html":
		return "text/html; charset=utf-8"
	case "csv":
		return "text/csv; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
