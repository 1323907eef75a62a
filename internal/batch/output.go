package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"attendgen/internal/exporter"
	"attendgen/internal/logger"
	"attendgen/internal/ui"

	"github.com/gocarina/gocsv"
)

const (
	// ManifestName is the groups manifest written next to the outputs
	ManifestName = "groups.csv"
	// ReportName is the optional xlsx batch report
	ReportName = "report.xlsx"
)

// ManifestRow is one line of groups.csv
type ManifestRow struct {
	Group        int    `csv:"group"`
	SchoolCode   string `csv:"school_code"`
	Fields       string `csv:"fields"`
	StudentCount int    `csv:"student_count"`
	Outputs      string `csv:"outputs"`
	Warnings     int    `csv:"warnings"`
	Status       string `csv:"status"`
}

// ManifestRows lists every group with its shared fields and output names
func ManifestRows(result *Result, codeColumn string) []*ManifestRow {
	rows := make([]*ManifestRow, 0, len(result.Groups))
	for _, gr := range result.Groups {
		fields := make([]string, 0, len(gr.Group.Fields))
		for _, f := range gr.Group.Fields {
			fields = append(fields, f.Column+"="+f.Value)
		}

		status := "ok"
		if gr.Err != nil {
			status = "failed"
		}

		rows = append(rows, &ManifestRow{
			Group:        gr.Group.Index + 1,
			SchoolCode:   gr.Group.Value(codeColumn),
			Fields:       strings.Join(fields, "; "),
			StudentCount: gr.Group.StudentCount,
			Outputs:      strings.Join(gr.OutputNames(), " "),
			Warnings:     len(gr.Warnings),
			Status:       status,
		})
	}
	return rows
}

// Manifest renders groups.csv
func Manifest(result *Result, codeColumn string) ([]byte, error) {
	rows := ManifestRows(result, codeColumn)
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	return data, nil
}

// Report renders the xlsx batch report
func Report(result *Result) ([]byte, error) {
	groups := make([]exporter.ReportGroup, 0, len(result.Groups))
	for _, gr := range result.Groups {
		groups = append(groups, exporter.ReportGroup{Group: gr.Group, Outputs: gr.OutputNames()})
	}
	return exporter.WriteReport(&result.Summary, result.Columns, groups, result.Warnings)
}

// WriteOptions selects the extra files written next to the outputs
type WriteOptions struct {
	Manifest   bool
	Report     bool
	CodeColumn string
	Pipeline   *ui.Pipeline
}

// WriteAll writes every output to dir, plus the manifest and report when
// requested. It returns the written paths in group order.
func WriteAll(result *Result, dir string, opts WriteOptions) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	outputs := result.Outputs()
	bar := nextPhase(opts.Pipeline, len(outputs))

	var written []string
	write := func(name string, data []byte) error {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		written = append(written, path)
		logger.Debug("Wrote %s (%d bytes)", path, len(data))
		return nil
	}

	for _, o := range outputs {
		if bar != nil {
			bar.Describe(o.Name)
		}
		if err := write(o.Name, o.Data); err != nil {
			return written, err
		}
		if bar != nil {
			bar.Increment()
		}
	}

	if opts.Manifest {
		data, err := Manifest(result, opts.CodeColumn)
		if err != nil {
			return written, err
		}
		if err := write(ManifestName, data); err != nil {
			return written, err
		}
	}

	if opts.Report {
		data, err := Report(result)
		if err != nil {
			return written, err
		}
		if err := write(ReportName, data); err != nil {
			return written, err
		}
	}

	return written, nil
}
