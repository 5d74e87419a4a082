// Package config provides configuration management for htmlweld using Viper
// for flexible loading from files, environment variables, and command-line
// flags.
//
// The configuration system supports YAML files and environment variable
// overrides with the HTMLWELD_ prefix. It covers the dev server address, the
// component directory layout, and build output settings.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/htmlweld/htmlweld/internal/errors"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Build       BuildConfig       `yaml:"build"`
	Components  ComponentsConfig  `yaml:"components"`
	Development DevelopmentConfig `yaml:"development"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type BuildConfig struct {
	// Output is the production build directory.
	Output string `yaml:"output"`
	// Minify controls dev-mode script minification. Production builds
	// always minify regardless of this setting.
	Minify bool `yaml:"minify"`
}

type ComponentsConfig struct {
	// Dir holds the single-file component definitions.
	Dir string `yaml:"dir"`
	// Ext is the component file extension, dot included.
	Ext string `yaml:"ext"`
	// Entry is the entry HTML file copied into the output directory.
	Entry string `yaml:"entry"`
}

type DevelopmentConfig struct {
	// Output is the directory the dev server builds into and serves.
	Output string `yaml:"output"`
	// HotReload controls whether the dev server broadcasts full reloads.
	HotReload bool `yaml:"hot_reload"`
}

// Load builds the effective configuration from viper's merged sources.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	// Workarounds for viper's handling of values set only via Set/env.
	if viper.IsSet("development.hot_reload") {
		config.Development.HotReload = viper.GetBool("development.hot_reload")
	}
	if viper.IsSet("build.minify") {
		config.Build.Minify = viper.GetBool("build.minify")
	}

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if config.Build.Output == "" {
		config.Build.Output = "dist"
	}
	if config.Components.Dir == "" {
		config.Components.Dir = "components"
	}
	if config.Components.Ext == "" {
		config.Components.Ext = ".html"
	}
	if config.Components.Entry == "" {
		config.Components.Entry = "index.html"
	}
	if config.Development.Output == "" {
		config.Development.Output = ".htmlweld/serve"
	}
	if !viper.IsSet("development.hot_reload") {
		config.Development.HotReload = true
	}
}

func validate(config *Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return errors.ConfigError("invalid_port",
			fmt.Sprintf("server port must be 1-65535, got %d", config.Server.Port))
	}
	if !strings.HasPrefix(config.Components.Ext, ".") {
		return errors.ConfigError("invalid_ext",
			fmt.Sprintf("component extension must start with a dot, got %q", config.Components.Ext))
	}
	if strings.Contains(config.Components.Dir, "..") {
		return errors.ConfigError("invalid_dir",
			"component directory must not contain path traversal")
	}
	if config.Build.Output == "" || config.Development.Output == "" {
		return errors.ConfigError("invalid_output", "output directories must not be empty")
	}
	return nil
}
