package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/htmlweld/htmlweld/internal/bundle"
	"github.com/htmlweld/htmlweld/internal/config"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered components and their sections",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	addComponentFlags(listCmd.Flags())
}

func runList(cmd *cobra.Command, args []string) error {
	bindComponentFlags(cmd)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	orchestrator := bundle.NewOrchestrator(cfg.Components.Dir, cfg.Components.Ext, bundle.NewWriter(), newLogger())
	components, err := orchestrator.Scan()
	if err != nil {
		return err
	}

	if len(components) == 0 {
		fmt.Printf("No components found in %s\n", cfg.Components.Dir)
		return nil
	}

	for _, c := range components {
		var sections []string
		if c.Sections.HasTemplate {
			sections = append(sections, "template")
		}
		if c.Sections.HasScript {
			sections = append(sections, "script")
		}
		if c.Sections.HasStyle {
			sections = append(sections, "style")
		}
		if len(sections) == 0 {
			sections = append(sections, "none")
		}
		fmt.Printf("%-20s %s\n", c.Name, strings.Join(sections, ", "))
	}

	return nil
}
