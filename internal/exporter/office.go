package exporter

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"attendgen/internal/model"
)

// OfficeRenderer converts the filled workbook to PDF through a Gotenberg
// LibreOffice route, so the sheet's own page setup drives the print.
type OfficeRenderer struct {
	URL    string
	Client *http.Client
	excel  *ExcelRenderer
}

// NewOfficeRenderer creates an OfficeRenderer posting to url
func NewOfficeRenderer(url string, timeout time.Duration) *OfficeRenderer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OfficeRenderer{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
		excel:  NewExcelRenderer(),
	}
}

func (o *OfficeRenderer) Format() string    { return "office-pdf" }
func (o *OfficeRenderer) Extension() string { return "pdf" }

// Render uploads the xlsx and returns the converted PDF
func (o *OfficeRenderer) Render(doc *model.Filled) ([]byte, error) {
	xlsx, err := o.excel.Render(doc)
	if err != nil {
		return nil, err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files", "attendance.xlsx")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(xlsx); err != nil {
		return nil, fmt.Errorf("failed to write workbook to form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, o.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversion request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("conversion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("conversion failed: status %d, response: %s", resp.StatusCode, string(respBody))
	}

	pdfBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read converted pdf: %w", err)
	}
	return pdfBytes, nil
}
