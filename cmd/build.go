package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/htmlweld/htmlweld/internal/bundle"
	"github.com/htmlweld/htmlweld/internal/config"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build all components into the distribution directory",
	Long: `Run one production build: scan the component directory, aggregate every
component's template, script, and style sections, and write the minified
bundle plus a copy of the entry HTML file into the output directory.

A failing component aborts the build with a non-zero exit; a release must
never ship stale artifacts silently.

Examples:
  htmlweld build                  # Build into dist
  htmlweld build --output public  # Build into a specific directory`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	addComponentFlags(buildCmd.Flags())
	buildCmd.Flags().StringP("output", "o", "dist", "Output directory")
	viper.BindPFlag("build.output", buildCmd.Flags().Lookup("output"))
}

func runBuild(cmd *cobra.Command, args []string) error {
	bindComponentFlags(cmd)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := newLogger()
	start := time.Now()

	writer := bundle.NewWriter()
	orchestrator := bundle.NewOrchestrator(cfg.Components.Dir, cfg.Components.Ext, writer, logger)

	// Production output is always minified.
	if err := orchestrator.Rebuild(cmd.Context(), cfg.Build.Output, true); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	if err := writer.CopyEntry(cfg.Components.Entry, cfg.Build.Output); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Printf("Built %s in %s\n", cfg.Build.Output, time.Since(start).Round(time.Millisecond))
	return nil
}
