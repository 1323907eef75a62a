package main

import (
	"fmt"
	"strings"

	"attendgen/internal/sheet"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
)

var inspectSheet string

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.xlsx>",
	Short: "Print the cells, geometry and identifier rows of a workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := excelize.OpenFile(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		name := inspectSheet
		if name == "" {
			name = f.GetSheetName(f.GetActiveSheetIndex())
		}

		grid, err := sheet.ReadGrid(f, name)
		if err != nil {
			return err
		}

		fmt.Printf("=== %s [%s] %d rows x %d cols ===\n", args[0], name, grid.Rows, grid.Cols)
		for r := 1; r <= grid.Rows; r++ {
			var cells []string
			for c := 1; c <= grid.Cols; c++ {
				if text := strings.TrimSpace(grid.At(c, r).Text); text != "" {
					ref, _ := excelize.CoordinatesToCellName(c, r)
					cells = append(cells, fmt.Sprintf("%s='%s'", ref, text))
				}
			}
			if len(cells) > 0 {
				fmt.Printf("Row %-3d (h=%.1f): %s\n", r, grid.RowHeights[r-1], strings.Join(cells, "  "))
			}
		}

		for _, m := range grid.Merges {
			from, _ := excelize.CoordinatesToCellName(m.From.Col, m.From.Row)
			to, _ := excelize.CoordinatesToCellName(m.To.Col, m.To.Row)
			fmt.Printf("Merge %s:%s\n", from, to)
		}

		col, row, count := identifierRows(grid, cfg.Template.IDMarker)
		if col == 0 {
			fmt.Printf("\n⚠️  No %q cell\n", cfg.Template.IDMarker)
			return nil
		}
		fmt.Printf("\n%d identifiers below %q starting at row %d\n", count, cfg.Template.IDMarker, row+1)
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectSheet, "sheet", "", "Sheet to print (default: active sheet)")
}

// identifierRows finds the identifier header and counts the contiguous
// non-empty cells below it
func identifierRows(grid *sheet.Grid, marker string) (col, row, count int) {
	for r := 1; r <= grid.Rows && col == 0; r++ {
		for c := 1; c <= grid.Cols; c++ {
			if strings.Contains(grid.At(c, r).Text, marker) {
				col, row = c, r
				break
			}
		}
	}
	if col == 0 {
		return 0, 0, 0
	}
	for r := row + 1; r <= grid.Rows && strings.TrimSpace(grid.At(col, r).Text) != ""; r++ {
		count++
	}
	return col, row, count
}
