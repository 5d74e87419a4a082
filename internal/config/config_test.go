package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htmlweld/htmlweld/internal/errors"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadDefaults(t *testing.T) {
	resetViper(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "dist", cfg.Build.Output)
	assert.False(t, cfg.Build.Minify)
	assert.Equal(t, "components", cfg.Components.Dir)
	assert.Equal(t, ".html", cfg.Components.Ext)
	assert.Equal(t, "index.html", cfg.Components.Entry)
	assert.Equal(t, ".htmlweld/serve", cfg.Development.Output)
	assert.True(t, cfg.Development.HotReload)
}

func TestLoadOverrides(t *testing.T) {
	resetViper(t)
	viper.Set("server.port", 3000)
	viper.Set("components.dir", "src/widgets")
	viper.Set("build.minify", true)
	viper.Set("development.hot_reload", false)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "src/widgets", cfg.Components.Dir)
	assert.True(t, cfg.Build.Minify)
	assert.False(t, cfg.Development.HotReload)
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	resetViper(t)
	viper.Set("server.port", 99999)

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConfig))
}

func TestLoadRejectsExtensionWithoutDot(t *testing.T) {
	resetViper(t)
	viper.Set("components.ext", "html")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConfig))
}

func TestLoadRejectsTraversalInComponentDir(t *testing.T) {
	resetViper(t)
	viper.Set("components.dir", "../outside")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConfig))
}
