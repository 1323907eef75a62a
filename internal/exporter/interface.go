package exporter

import (
	"attendgen/internal/model"
)

// Renderer turns one filled template into a distributable document
type Renderer interface {
	Format() string    // Canonical format key, e.g. "pdf"
	Extension() string // File extension without the dot
	Render(doc *model.Filled) ([]byte, error)
}
