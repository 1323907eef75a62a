package web

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"attendgen/internal/batch"
	"attendgen/internal/config"
	"attendgen/internal/sample"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type upload struct {
	field string
	name  string
	data  []byte
}

func multipartRequest(t *testing.T, files []upload, formats ...string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	for _, format := range formats {
		require.NoError(t, w.WriteField("format", format))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/generate", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func sampleUploads(t *testing.T) []upload {
	t.Helper()
	rosterData, err := sample.RosterWorkbook(sample.Students())
	require.NoError(t, err)
	templateData, err := sample.Template()
	require.NoError(t, err)
	return []upload{
		{field: "roster", name: "roster.xlsx", data: rosterData},
		{field: "template", name: "template.xlsx", data: templateData},
	}
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	h := NewServer(config.Default()).Handler()

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `name="roster"`)
	assert.Contains(t, body, `name="template"`)
	assert.Contains(t, body, `value="pdf" checked`)
	assert.NotContains(t, body, `value="xlsx" checked`)
	assert.NotContains(t, body, "office-pdf", "office-pdf needs a converter URL")
}

func TestIndexOfficeFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Output.ConverterURL = "http://gotenberg:3000/forms/libreoffice/convert"

	rec := serve(NewServer(cfg).Handler(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rec.Body.String(), `value="office-pdf"`)
}

func TestHealthz(t *testing.T) {
	rec := serve(NewServer(config.Default()).Handler(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestGenerateAndDownload(t *testing.T) {
	srv := NewServer(config.Default())
	h := srv.Handler()

	rec := serve(h, multipartRequest(t, sampleUploads(t), "xlsx", "html"))
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/batches/"), location)
	assert.Equal(t, 1, srv.Store().Len())

	// Result page
	rec = serve(h, httptest.NewRequest(http.MethodGet, location, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	page := rec.Body.String()
	for _, name := range []string{"school_1042.xlsx", "school_1042.html", "school_2077.xlsx", "school_2077.html"} {
		assert.Contains(t, page, location+"/"+name)
	}
	assert.Contains(t, page, "ZP School Wagholi")

	// Single document
	rec = serve(h, httptest.NewRequest(http.MethodGet, location+"/school_1042.xlsx", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=school_1042.xlsx", rec.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	id, err := f.GetCellValue(sample.Sheet, "B7")
	require.NoError(t, err)
	assert.Equal(t, "S1001", id)

	// Manifest
	rec = serve(h, httptest.NewRequest(http.MethodGet, location+"/manifest.csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "school_code")
	assert.Contains(t, rec.Body.String(), "school_2077.xlsx school_2077.html")

	// Report
	rec = serve(h, httptest.NewRequest(http.MethodGet, location+"/report.xlsx", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename="+batch.ReportName, rec.Header().Get("Content-Disposition"))
}

func TestGenerateDefaultFormats(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Formats = []string{"html"}
	srv := NewServer(cfg)

	rec := serve(srv.Handler(), multipartRequest(t, sampleUploads(t)))
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	id := strings.TrimPrefix(rec.Header().Get("Location"), "/batches/")
	entry, ok := srv.Store().Get(id)
	require.True(t, ok)
	assert.Len(t, entry.Result.Outputs(), 2)
	assert.NoError(t, entry.Err)
}

func TestGenerateBadInput(t *testing.T) {
	uploads := sampleUploads(t)
	noID := strings.ReplaceAll(string(sample.RosterCSV(sample.Students())), "STUDENT ID", "ROLL NO")

	tests := []struct {
		name     string
		files    []upload
		formats  []string
		status   int
		contains string
	}{
		{"missing roster", uploads[1:], nil, http.StatusBadRequest, "roster file is required"},
		{"missing template", uploads[:1], nil, http.StatusBadRequest, "template file is required"},
		{"unknown format", uploads, []string{"rtf"}, http.StatusBadRequest, "unknown output format"},
		{"unsupported roster", []upload{{field: "roster", name: "roster.ods", data: []byte("x")}, uploads[1]}, nil,
			http.StatusBadRequest, "unsupported roster format"},
		{"broken template", []upload{uploads[0], {field: "template", name: "template.xlsx", data: []byte("not a zip")}}, nil,
			http.StatusBadRequest, "failed to open template"},
		{"missing id column", []upload{{field: "roster", name: "roster.csv", data: []byte(noID)}, uploads[1]}, nil,
			http.StatusUnprocessableEntity, "required column missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewServer(config.Default())
			rec := serve(srv.Handler(), multipartRequest(t, tt.files, tt.formats...))

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.contains)
			assert.Equal(t, 0, srv.Store().Len())
		})
	}
}

func TestGenerateTooLarge(t *testing.T) {
	cfg := config.Default()
	cfg.Server.MaxUploadMB = 1

	big := upload{field: "roster", name: "roster.csv", data: bytes.Repeat([]byte("a,b\n"), 512*1024)}
	rec := serve(NewServer(cfg).Handler(), multipartRequest(t, []upload{big}))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "Upload exceeds 1 MB")
}

func TestDownloadNotFound(t *testing.T) {
	srv := NewServer(config.Default())
	h := srv.Handler()

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/batches/missing/school_1042.pdf", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(h, multipartRequest(t, sampleUploads(t), "html"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get("Location")

	rec = serve(h, httptest.NewRequest(http.MethodGet, location+"/school_9999.html", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "document not found")
}

func TestStoreEviction(t *testing.T) {
	store := NewStore(2)

	first := store.Put(&batch.Result{}, nil)
	second := store.Put(&batch.Result{}, nil)
	third := store.Put(&batch.Result{}, nil)

	assert.Equal(t, 2, store.Len())
	_, ok := store.Get(first.ID)
	assert.False(t, ok, "oldest batch should be evicted")
	for _, e := range []*Entry{second, third} {
		got, ok := store.Get(e.ID)
		assert.True(t, ok)
		assert.Same(t, e, got)
	}
	assert.NotEqual(t, second.ID, third.ID)
}

func TestRunShutdown(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Server.ShutdownGrace = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewServer(cfg).Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
