package web

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"attendgen/internal/batch"
	"attendgen/internal/exporter"
	"attendgen/internal/logger"
	"attendgen/internal/model"
	"attendgen/internal/roster"
	"attendgen/internal/sheet"

	"github.com/go-chi/chi/v5"
)

// maxMemory is the part of a multipart upload kept in memory
const maxMemory = 32 << 20

type formatOption struct {
	Key     string
	Label   string
	Checked bool
}

type indexData struct {
	Formats            []formatOption
	TemplateConfigured bool
	MaxUploadMB        int64
	Error              string
}

type fileLink struct {
	Name string
	URL  string
}

type groupRow struct {
	Number   int
	Fields   string
	Students int
	Files    []fileLink
	Error    string
}

type resultData struct {
	ID       string
	Summary  model.Summary
	Groups   []groupRow
	Warnings []string
	Error    string
}

func (s *Server) formatOptions(selected []string) []formatOption {
	checked := make(map[string]bool)
	for _, f := range selected {
		checked[strings.ToLower(strings.TrimSpace(f))] = true
	}

	options := []formatOption{
		{Key: "pdf", Label: "PDF"},
		{Key: "xlsx", Label: "Excel"},
		{Key: "docx", Label: "Word"},
		{Key: "html", Label: "HTML"},
	}
	if s.cfg.Output.ConverterURL != "" {
		options = append(options, formatOption{Key: "office-pdf", Label: "PDF (LibreOffice)"})
	}
	for i := range options {
		options[i].Checked = checked[options[i].Key]
	}
	return options
}

func (s *Server) renderIndex(w http.ResponseWriter, status int, selected []string, message string) {
	data := indexData{
		Formats:            s.formatOptions(selected),
		TemplateConfigured: s.cfg.Template.Path != "",
		MaxUploadMB:        s.cfg.Server.MaxUploadMB,
		Error:              message,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, "index", data); err != nil {
		logger.Error("render index: %v", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.renderIndex(w, http.StatusOK, s.cfg.Output.Formats, "")
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadMB<<20)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.renderIndex(w, http.StatusRequestEntityTooLarge, s.cfg.Output.Formats,
				fmt.Sprintf("Upload exceeds %d MB", s.cfg.Server.MaxUploadMB))
			return
		}
		s.renderIndex(w, http.StatusBadRequest, s.cfg.Output.Formats, "Invalid upload")
		return
	}

	formats := r.MultipartForm.Value["format"]
	if len(formats) == 0 {
		formats = s.cfg.Output.Formats
	}

	renderers, err := exporter.GetRenderers(formats, s.cfg)
	if err != nil {
		s.renderIndex(w, http.StatusBadRequest, formats, err.Error())
		return
	}

	rost, err := s.readRoster(r)
	if err != nil {
		s.renderIndex(w, http.StatusBadRequest, formats, err.Error())
		return
	}

	tpl, err := s.readTemplate(r)
	if err != nil {
		s.renderIndex(w, http.StatusBadRequest, formats, err.Error())
		return
	}

	result, err := batch.Run(r.Context(), batch.Input{Roster: rost, Template: tpl, Config: s.cfg}, batch.Options{Renderers: renderers})
	if result == nil {
		s.renderIndex(w, statusFor(err), formats, err.Error())
		return
	}
	if err != nil {
		logger.Warn("Batch from %s finished with errors: %v", rost.Source, err)
	}

	entry := s.store.Put(result, err)
	logger.Info("Batch %s: %d groups, %d documents", entry.ID, result.Summary.TotalGroups, result.Summary.TotalOutputs)
	http.Redirect(w, r, "/batches/"+entry.ID, http.StatusSeeOther)
}

func (s *Server) readRoster(r *http.Request) (*model.Roster, error) {
	file, header, err := r.FormFile("roster")
	if err != nil {
		return nil, errors.New("roster file is required")
	}
	defer file.Close()

	return roster.LoadReader(header.Filename, file, roster.Options{
		Sheet:     s.cfg.Roster.Sheet,
		Encodings: s.cfg.Roster.Encodings,
	})
}

// readTemplate uses the uploaded template, or the configured one when the
// form carries none
func (s *Server) readTemplate(r *http.Request) (*sheet.Template, error) {
	file, header, err := r.FormFile("template")
	if err != nil {
		if s.cfg.Template.Path == "" {
			return nil, errors.New("template file is required")
		}
		return sheet.LoadTemplate(s.cfg.Template.Path, s.cfg.Template.Sheet)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	return sheet.NewTemplate(header.Filename, data, s.cfg.Template.Sheet)
}

// statusFor maps batch failures caused by the roster to 422
func statusFor(err error) int {
	if errors.Is(err, model.ErrMissingColumn) || errors.Is(err, model.ErrNoRecords) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) entry(w http.ResponseWriter, r *http.Request) (*Entry, bool) {
	e, ok := s.store.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "batch not found", http.StatusNotFound)
	}
	return e, ok
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}

	data := resultData{
		ID:       e.ID,
		Summary:  e.Result.Summary,
		Warnings: e.Result.Warnings,
	}
	if e.Err != nil {
		data.Error = e.Err.Error()
	}

	for _, gr := range e.Result.Groups {
		row := groupRow{
			Number:   gr.Group.Index + 1,
			Fields:   groupFields(gr.Group),
			Students: gr.Group.StudentCount,
		}
		if gr.Err != nil {
			row.Error = gr.Err.Error()
		}
		for _, name := range gr.OutputNames() {
			row.Files = append(row.Files, fileLink{Name: name, URL: "/batches/" + e.ID + "/" + name})
		}
		data.Groups = append(data.Groups, row)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, "result", data); err != nil {
		logger.Error("render result: %v", err)
	}
}

func groupFields(g *model.Group) string {
	parts := make([]string, 0, len(g.Fields))
	for _, f := range g.Fields {
		if f.Value != "" {
			parts = append(parts, f.Value)
		}
	}
	return strings.Join(parts, " / ")
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}

	name := chi.URLParam(r, "name")
	out, ok := e.Result.Output(name)
	if !ok {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}
	writeAttachment(w, name, exporter.ContentType(out.Format), out.Data)
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}

	data, err := batch.Manifest(e.Result, s.cfg.Roster.SchoolCodeColumn)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeAttachment(w, batch.ManifestName, exporter.ContentType("csv"), data)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	e, ok := s.entry(w, r)
	if !ok {
		return
	}

	data, err := batch.Report(e.Result)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeAttachment(w, batch.ReportName, exporter.ContentType("xlsx"), data)
}

func writeAttachment(w http.ResponseWriter, name, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Debug("download %s: %v", name, err)
	}
}
