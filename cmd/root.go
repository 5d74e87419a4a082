// Package cmd provides the command-line interface for htmlweld.
//
// Configuration sources, highest priority first:
//  1. Command-line flags (--config, --port, ...)
//  2. HTMLWELD_CONFIG_FILE environment variable - custom config file path
//  3. Individual environment variables (HTMLWELD_SERVER_PORT, ...)
//  4. Configuration file (.htmlweld.yml)
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/htmlweld/htmlweld/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "htmlweld",
	Short: "Bundle single-file HTML components into global build artifacts",
	Long: `htmlweld concatenates a directory of single-file HTML components
(each defining <template>, <script>, and <style> sections) into one
aggregated script, one aggregated stylesheet, and a copied entry HTML file.

Quick Start:
  htmlweld build                  Production build into the dist directory
  htmlweld serve                  Dev server with rebuild-on-change and live reload
  htmlweld list                   List discovered components
  htmlweld config                 Print the effective configuration`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .htmlweld.yml, can also use HTMLWELD_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("HTMLWELD_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".htmlweld")
	}

	viper.SetEnvPrefix("HTMLWELD")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing config file is fine; defaults and env vars still apply.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the process logger honoring the --log-level flag.
func newLogger() logging.Logger {
	level := logging.LevelInfo
	switch strings.ToLower(viper.GetString("log-level")) {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}

	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: "text",
		Output: os.Stderr,
	})
}
