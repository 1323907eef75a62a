package main

import (
	"fmt"
	"strings"

	"attendgen/internal/batch"
	"attendgen/internal/exporter"
	"attendgen/internal/logger"
	"attendgen/internal/roster"
	"attendgen/internal/sheet"
	"attendgen/internal/ui"

	"github.com/spf13/cobra"
)

var (
	rosterPath   string
	templatePath string
	formats      string
	workers      int
	noProgress   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render one attendance list per group",
	Example: `  attendgen generate --roster students.xlsx --template template.xlsx
  attendgen generate -r students.csv -t template.xlsx --format pdf,xlsx --workers 4`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&rosterPath, "roster", "r", "", "Student roster (.xlsx, .xls, .csv)")
	generateCmd.Flags().StringVarP(&templatePath, "template", "t", "", "Attendance template (.xlsx), overrides template.path")
	generateCmd.Flags().StringVarP(&formats, "format", "f", "", "Comma-separated output formats (pdf,xlsx,docx,html,office-pdf)")
	generateCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Groups rendered concurrently, overrides output.workers")
	generateCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Hide progress bars")
	_ = generateCmd.MarkFlagRequired("roster")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	printBanner()

	if templatePath != "" {
		cfg.Template.Path = templatePath
	}
	if formats != "" {
		cfg.Output.Formats = strings.Split(formats, ",")
	}
	if workers > 0 {
		cfg.Output.Workers = workers
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Template.Path == "" {
		return fmt.Errorf("no template: pass --template or set template.path")
	}
	if verbose {
		cfg.Print()
	}

	renderers, err := exporter.GetRenderers(cfg.Output.Formats, cfg)
	if err != nil {
		return err
	}

	pipeline := ui.NewPipeline(ui.GeneratePhases, cmd.OutOrStdout())
	if noProgress {
		pipeline.Disable()
	}

	// --- Phase 1: Loading ---
	logger.Info("Phase 1: Loading roster and template...")
	loadBar := pipeline.NextPhase(2)

	rost, err := roster.Load(rosterPath, roster.Options{
		Sheet:     cfg.Roster.Sheet,
		Encodings: cfg.Roster.Encodings,
	})
	if err != nil {
		return err
	}
	loadBar.Increment()

	tpl, err := sheet.LoadTemplate(cfg.Template.Path, cfg.Template.Sheet)
	if err != nil {
		return err
	}
	loadBar.Increment()
	logger.Info("Roster %s: %d records, template %s (sheet %s)", rost.Source, len(rost.Records), tpl.Name, tpl.Sheet)

	// --- Phases 2-3: Grouping and Rendering ---
	logger.Info("Phase 2: Grouping and rendering...")
	result, runErr := batch.Run(cmd.Context(), batch.Input{Roster: rost, Template: tpl, Config: cfg}, batch.Options{
		Renderers: renderers,
		Pipeline:  pipeline,
	})
	if result == nil {
		return runErr
	}

	// --- Phase 4: Writing ---
	logger.Info("Phase 3: Writing documents...")
	written, err := batch.WriteAll(result, cfg.Output.Dir, batch.WriteOptions{
		Manifest:   cfg.Output.Manifest,
		Report:     cfg.Output.Report,
		CodeColumn: cfg.Roster.SchoolCodeColumn,
		Pipeline:   pipeline,
	})
	pipeline.Finish()
	if err != nil {
		return err
	}

	pipeline.PrintSummary(fmt.Sprintf("%d groups rendered, %d files written to %s",
		result.Summary.TotalGroups, len(written), cfg.Output.Dir))
	printSummary(result, len(written))

	// Partial results are written before failing
	if runErr != nil {
		logger.Error("Some groups failed, see %s", logger.GetLogFilePath())
		return runErr
	}

	logger.Info("✅ Generation Complete. Check [%s] directory.", cfg.Output.Dir)
	return nil
}

func printSummary(result *batch.Result, written int) {
	s := result.Summary
	logger.Info("")
	logger.Info("Records:   %d", s.TotalRecords)
	logger.Info("Groups:    %d", s.TotalGroups)
	logger.Info("Students:  %d", s.TotalStudents)
	logger.Info("Documents: %d (%d files written)", s.TotalOutputs, written)
	for _, w := range result.Warnings {
		logger.Warn("%s", w)
	}
}
