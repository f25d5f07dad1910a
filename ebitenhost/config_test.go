package ebitenhost

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 300, cfg.Window.Width)
	assert.Equal(t, 500, cfg.Window.Height)
	assert.Equal(t, 60, cfg.Window.TPS)
	assert.Equal(t, "F12", cfg.Screenshot.Key)
	assert.Equal(t, 10*time.Second, cfg.Network.Timeout)
	assert.True(t, cfg.Alert.OKCancel)
	assert.Empty(t, cfg.Storage.Path)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[window]
title = "Pong"
width = 640
height = 480
show_fps = true

[logging]
level = "debug"
format = "json"

[storage]
path = "save.yaml"

[network]
timeout = "3s"

[assets]
dir = "assets"
[assets.fonts]
pixel = "fonts/pixel.ttf"

[engine]
strict_ids = true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Pong", cfg.Window.Title)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 480, cfg.Window.Height)
	assert.True(t, cfg.Window.ShowFPS)
	assert.Equal(t, 60, cfg.Window.TPS, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "save.yaml", cfg.Storage.Path)
	assert.Equal(t, 3*time.Second, cfg.Network.Timeout)
	assert.Equal(t, "fonts/pixel.ttf", cfg.Assets.Fonts["pixel"])
	assert.True(t, cfg.Engine.StrictIDs)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "read config")

	_, err = Load(writeConfig(t, "[window\n"))
	assert.ErrorContains(t, err, "parse config")

	_, err = Load(writeConfig(t, "[window]\nwidth = 0\n"))
	assert.ErrorContains(t, err, "must be positive")

	_, err = Load(writeConfig(t, "[window]\ntps = -1\n"))
	assert.ErrorContains(t, err, "tps")
}

func TestLoadFixesScale(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[window]\nscale = 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, cfg.Window.Scale)
}

func TestNewLogger(t *testing.T) {
	log, err := newLogger(LoggingConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))

	log, err = newLogger(LoggingConfig{Level: "nonsense"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}
