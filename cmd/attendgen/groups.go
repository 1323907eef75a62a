package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"attendgen/internal/batch"
	"attendgen/internal/logger"
	"attendgen/internal/roster"

	"github.com/spf13/cobra"
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List the groups a roster splits into, without rendering",
	RunE: func(cmd *cobra.Command, args []string) error {
		rost, err := roster.Load(rosterPath, roster.Options{
			Sheet:     cfg.Roster.Sheet,
			Encodings: cfg.Roster.Encodings,
		})
		if err != nil {
			return err
		}

		result, err := batch.Plan(rost, cfg)
		if err != nil {
			return err
		}

		fmt.Printf("%-4s %-20s %8s  %s\n", "No", "Output", "Students", "Group")
		for _, gr := range result.Groups {
			values := make([]string, 0, len(gr.Group.Fields))
			for _, f := range gr.Group.Fields {
				values = append(values, f.Value)
			}
			fmt.Printf("%-4d %-20s %8d  %s\n", gr.Group.Index+1, gr.Base, gr.Group.StudentCount, strings.Join(values, " / "))
		}
		fmt.Printf("\n%d groups, %d students, %d records\n",
			result.Summary.TotalGroups, result.Summary.TotalStudents, result.Summary.TotalRecords)

		for _, w := range result.Warnings {
			logger.Warn("%s", w)
		}

		// Manifest only when an output directory was asked for
		if !cmd.Flags().Changed("output") {
			return nil
		}
		data, err := batch.Manifest(result, cfg.Roster.SchoolCodeColumn)
		if err != nil {
			return err
		}
		if err := cfg.EnsureOutputDir(); err != nil {
			return err
		}
		path := filepath.Join(cfg.Output.Dir, batch.ManifestName)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write manifest: %w", err)
		}
		logger.Info("Manifest written to %s", path)
		return nil
	},
}

func init() {
	groupsCmd.Flags().StringVarP(&rosterPath, "roster", "r", "", "Student roster (.xlsx, .xls, .csv)")
	_ = groupsCmd.MarkFlagRequired("roster")
}
