package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/htmlweld/htmlweld/internal/bundle"
	"github.com/htmlweld/htmlweld/internal/config"
	"github.com/htmlweld/htmlweld/internal/logging"
	"github.com/htmlweld/htmlweld/internal/server"
	"github.com/htmlweld/htmlweld/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the development server with rebuild-on-change and live reload",
	Long: `Start the development server. The component directory is bundled once at
startup and again on every change to a component file; after each successful
rebuild every connected browser performs a full page reload.

Rebuild failures are logged and the previous artifacts keep being served.

Examples:
  htmlweld serve                  # Serve on localhost:8080
  htmlweld serve --port 3000      # Serve on a different port
  htmlweld serve --minify         # Serve minified output`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	addComponentFlags(serveCmd.Flags())
	serveCmd.Flags().IntP("port", "p", 8080, "Port to serve on")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().Bool("minify", false, "Minify the dev bundle (production builds always minify)")

	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("build.minify", serveCmd.Flags().Lookup("minify"))
}

func runServe(cmd *cobra.Command, args []string) error {
	bindComponentFlags(cmd)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := newLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	writer := bundle.NewWriter()
	orchestrator := bundle.NewOrchestrator(cfg.Components.Dir, cfg.Components.Ext, writer, logger)
	devServer := server.New(cfg, logger)

	outDir := cfg.Development.Output
	minify := cfg.Build.Minify

	// Initial rebuild and entry copy. Failures here are logged, not fatal:
	// the server starts anyway and the next successful rebuild recovers.
	if err := orchestrator.Rebuild(ctx, outDir, minify); err != nil {
		logger.Error(ctx, err, "initial rebuild failed")
	}
	if err := writer.CopyEntry(cfg.Components.Entry, outDir); err != nil {
		logger.Error(ctx, err, "entry copy failed")
	}

	if err := watchComponents(ctx, cfg, orchestrator, devServer, logger); err != nil {
		return err
	}

	return devServer.Start(ctx)
}

// watchComponents subscribes change events under the component directory to
// rebuilds. Each matching event triggers one rebuild; after a successful
// rebuild the connected browsers are told to reload.
func watchComponents(ctx context.Context, cfg *config.Config, orchestrator *bundle.Orchestrator, devServer *server.DevServer, logger logging.Logger) error {
	fw, err := watcher.NewFileWatcher(logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	fw.AddFilter(watcher.ExtensionFilter(cfg.Components.Ext))
	fw.AddHandler(func(event watcher.ChangeEvent) error {
		if err := orchestrator.Rebuild(ctx, cfg.Development.Output, cfg.Build.Minify); err != nil {
			// Keep serving the previous artifacts.
			return err
		}
		if cfg.Development.HotReload {
			devServer.BroadcastReload()
		}
		return nil
	})

	// A missing component directory is valid (empty input); just skip the
	// subscription in that case.
	if err := fw.AddPath(cfg.Components.Dir); err == nil {
		fw.Start(ctx)
		go func() {
			<-ctx.Done()
			fw.Stop()
		}()
	}

	return nil
}
