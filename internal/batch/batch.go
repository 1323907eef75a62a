// Package batch turns one roster and one template into a set of rendered
// documents, one per group.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"attendgen/internal/config"
	"attendgen/internal/exporter"
	"attendgen/internal/grouping"
	"attendgen/internal/logger"
	"attendgen/internal/model"
	"attendgen/internal/roster"
	"attendgen/internal/sheet"
	"attendgen/internal/ui"

	"golang.org/x/sync/errgroup"
)

// Input is the data a batch is generated from
type Input struct {
	Roster   *model.Roster
	Template *sheet.Template
	Config   *config.Config
}

// Options controls rendering and progress reporting
type Options struct {
	Renderers []exporter.Renderer
	Pipeline  *ui.Pipeline // nil keeps the batch silent
	Now       func() time.Time
}

// GroupResult holds everything produced for one group
type GroupResult struct {
	Group    *model.Group
	Base     string // Output name without extension
	Fill     model.FillResult
	Outputs  []model.Output
	Warnings []string
	Err      error
}

// OutputNames returns the file names produced for the group
func (g *GroupResult) OutputNames() []string {
	names := make([]string, 0, len(g.Outputs))
	for _, o := range g.Outputs {
		names = append(names, o.Name)
	}
	return names
}

// Result is a finished batch
type Result struct {
	Columns  []string // Grouping columns in roster order
	Groups   []*GroupResult
	Warnings []string // Batch level and per-group warnings, group order
	Summary  model.Summary
}

// Outputs returns every rendered document in group order
func (r *Result) Outputs() []model.Output {
	var out []model.Output
	for _, g := range r.Groups {
		out = append(out, g.Outputs...)
	}
	return out
}

// Output looks up a rendered document by file name
func (r *Result) Output(name string) (model.Output, bool) {
	for _, g := range r.Groups {
		for _, o := range g.Outputs {
			if o.Name == name {
				return o, true
			}
		}
	}
	return model.Output{}, false
}

// Plan validates the roster and partitions it into named groups without
// rendering anything.
func Plan(r *model.Roster, cfg *config.Config) (*Result, error) {
	if err := roster.Validate(r, cfg.Roster.IDColumn); err != nil {
		return nil, err
	}

	result := &Result{}
	if !r.HasColumn(cfg.Roster.SchoolCodeColumn) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("roster has no %q column, outputs are named by group number", cfg.Roster.SchoolCodeColumn))
	}

	result.Columns = grouping.GroupingColumns(r, cfg.Roster.IDColumn)
	groups := grouping.Aggregate(r, grouping.Options{
		IDColumn:    cfg.Roster.IDColumn,
		ClassColumn: cfg.Roster.ClassColumn,
	})
	result.Groups = make([]*GroupResult, len(groups))
	for i, g := range groups {
		result.Groups[i] = &GroupResult{Group: g}
	}
	assignNames(result.Groups, cfg.Output.FilePrefix, cfg.Roster.SchoolCodeColumn)

	result.Summary = model.Summary{
		SourceRoster:  r.Source,
		TotalRecords:  len(r.Records),
		TotalGroups:   len(groups),
		TotalStudents: grouping.TotalStudents(groups),
	}
	return result, nil
}

// Run validates the roster, partitions it into groups and renders every
// group with every renderer. Groups are rendered by up to
// cfg.Output.Workers goroutines; results keep group order.
//
// A failing group does not stop the others. Their errors are joined and
// returned together with the partial result.
func Run(ctx context.Context, in Input, opts Options) (*Result, error) {
	cfg := in.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if in.Roster == nil || in.Template == nil {
		return nil, fmt.Errorf("batch needs both a roster and a template")
	}
	if len(opts.Renderers) == 0 {
		return nil, fmt.Errorf("%w: no renderer selected", model.ErrUnknownFormat)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	// Phase: grouping
	bar := nextPhase(opts.Pipeline, 1)
	result, err := Plan(in.Roster, cfg)
	if err != nil {
		return nil, err
	}
	if bar != nil {
		bar.Increment()
	}
	logger.Info("Found %d groups, %d students", result.Summary.TotalGroups, result.Summary.TotalStudents)

	// Phase: rendering
	bar = nextPhase(opts.Pipeline, len(result.Groups))
	mutator := sheet.NewMutator(cfg)
	suffixes := outputSuffixes(opts.Renderers)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers(cfg))
	for _, gr := range result.Groups {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			if bar != nil {
				bar.Describe(gr.Base)
			}
			renderGroup(mutator, in.Template, gr, opts.Renderers, suffixes)
			if bar != nil {
				bar.Increment()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("batch cancelled: %w", err)
	}

	var errs []error
	for _, gr := range result.Groups {
		for _, w := range gr.Warnings {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", gr.Base, w))
			logger.Debug("%s: %s", gr.Base, w)
		}
		if gr.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", gr.Base, gr.Err))
		}
		result.Summary.TotalOutputs += len(gr.Outputs)
	}
	result.Summary.SourceTemplate = in.Template.Name
	result.Summary.GeneratedAt = now().Format("2006-01-02 15:04:05")

	if len(errs) > 0 {
		return result, fmt.Errorf("%d of %d groups failed: %w", len(errs), len(result.Groups), errors.Join(errs...))
	}
	return result, nil
}

// renderGroup fills the template for one group and runs every renderer on
// the filled copy. Renderer failures are collected so the other formats
// still get written.
func renderGroup(m *sheet.Mutator, tpl *sheet.Template, gr *GroupResult, renderers []exporter.Renderer, suffixes []string) {
	doc, err := m.Fill(tpl, gr.Group)
	if err != nil {
		logger.LogGroupError(gr.Base, "fill", err)
		gr.Err = err
		return
	}
	defer doc.Close()

	gr.Fill = doc.Fill
	gr.Warnings = doc.Warnings

	var errs []error
	for i, r := range renderers {
		data, err := r.Render(doc)
		if err != nil {
			logger.LogGroupError(gr.Base, r.Format(), err)
			errs = append(errs, fmt.Errorf("%s: %w", r.Format(), err))
			continue
		}
		gr.Outputs = append(gr.Outputs, model.Output{
			Name:   gr.Base + suffixes[i],
			Format: r.Format(),
			Data:   data,
			Group:  gr.Group,
		})
	}
	gr.Err = errors.Join(errs...)
}

func workers(cfg *config.Config) int {
	if cfg.Output.Workers < 1 {
		return 1
	}
	return cfg.Output.Workers
}

func nextPhase(p *ui.Pipeline, total int) *ui.ProgressBar {
	if p == nil {
		return nil
	}
	return p.NextPhase(total)
}
