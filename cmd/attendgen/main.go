package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"attendgen/internal/config"
	"attendgen/internal/logger"

	"github.com/spf13/cobra"
)

const (
	appName    = "attendgen"
	appVersion = "1.0.0"
)

var (
	// Global flags
	configPath string
	verbose    bool
	outputDir  string

	cfg *config.Config
)

// rootCmd loads the configuration and the logger for every subcommand
var rootCmd = &cobra.Command{
	Use:     appName,
	Short:   "Generate per-school attendance lists from a student roster",
	Version: appVersion,
	Long: `attendgen reads a student roster, groups students by school and class,
fills the attendance template once per group and renders each filled list
as PDF, Excel, Word or HTML.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		if outputDir != "" {
			cfg.Output.Dir = outputDir
		}

		if err := logger.Init(os.Stdout, cfg.GetLogPath(), verbose); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging (DEBUG level)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "Override output directory from config")

	rootCmd.AddCommand(generateCmd, groupsCmd, serveCmd, sampleCmd, inspectCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		stop()
		os.Exit(1)
	}
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                     ATTENDGEN v1.0.0                      ║
║          Attendance Lists per School and Class            ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}
