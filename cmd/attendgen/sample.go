package main

import (
	"fmt"
	"os"
	"path/filepath"

	"attendgen/internal/config"
	"attendgen/internal/exporter/word"
	"attendgen/internal/logger"
	"attendgen/internal/sample"

	"github.com/spf13/cobra"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write a sample template, roster and config to the output directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.Output.Dir
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		students := sample.Students()
		files := []struct {
			name  string
			build func() ([]byte, error)
		}{
			{"template.xlsx", sample.Template},
			{"roster.xlsx", func() ([]byte, error) { return sample.RosterWorkbook(students) }},
			{"roster.csv", func() ([]byte, error) { return sample.RosterCSV(students), nil }},
			{"template.docx", word.DefaultTemplate},
		}

		for _, f := range files {
			data, err := f.build()
			if err != nil {
				return fmt.Errorf("failed to build %s: %w", f.name, err)
			}
			path := filepath.Join(dir, f.name)
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", f.name, err)
			}
			logger.Info("Wrote %s", path)
		}

		path := filepath.Join(dir, "config.yaml")
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		logger.Info("Wrote %s", path)

		logger.Info("✅ Try: attendgen generate -r %s -t %s",
			filepath.Join(dir, "roster.xlsx"), filepath.Join(dir, "template.xlsx"))
		return nil
	},
}
