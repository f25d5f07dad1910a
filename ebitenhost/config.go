package ebitenhost

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Window     WindowConfig     `toml:"window"`
	Logging    LoggingConfig    `toml:"logging"`
	Storage    StorageConfig    `toml:"storage"`
	Network    NetworkConfig    `toml:"network"`
	Screenshot ScreenshotConfig `toml:"screenshot"`
	Engine     EngineConfig     `toml:"engine"`
	Assets     AssetsConfig     `toml:"assets"`
	Alert      AlertConfig      `toml:"alert"`
}

type WindowConfig struct {
	Title     string  `toml:"title"`
	Width     int     `toml:"width"`  // logical game width
	Height    int     `toml:"height"` // logical game height
	Scale     float64 `toml:"scale"`  // initial window size multiplier
	Resizable bool    `toml:"resizable"`
	TPS       int     `toml:"tps"`
	ShowFPS   bool    `toml:"show_fps"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // json or console
}

type StorageConfig struct {
	Path string `toml:"path"` // YAML file backing Device.Storage; empty keeps it in memory
}

type NetworkConfig struct {
	Timeout time.Duration `toml:"timeout"`
}

type ScreenshotConfig struct {
	Dir string `toml:"dir"`
	Key string `toml:"key"` // key name that captures the next frame
}

type AssetsConfig struct {
	Dir   string            `toml:"dir"`   // base directory for images, sounds and fonts
	Fonts map[string]string `toml:"fonts"` // font family to TTF/OTF file
}

type AlertConfig struct {
	OKCancel bool `toml:"ok_cancel"` // answer given to OKCancel dialogs
}

type EngineConfig struct {
	StrictIDs bool `toml:"strict_ids"`
	Debug     bool `toml:"debug"`
}

// Load reads a TOML config file on top of Defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Defaults returns the configuration used when no file is given.
func Defaults() *Config {
	return &Config{
		Window: WindowConfig{
			Title:     "replay",
			Width:     300,
			Height:    500,
			Scale:     1,
			Resizable: true,
			TPS:       60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Network: NetworkConfig{
			Timeout: 10 * time.Second,
		},
		Screenshot: ScreenshotConfig{
			Dir: "screenshots",
			Key: "F12",
		},
		Assets: AssetsConfig{
			Dir: ".",
		},
		Alert: AlertConfig{
			OKCancel: true,
		},
	}
}

func (c *Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS <= 0 {
		return fmt.Errorf("window tps %d must be positive", c.Window.TPS)
	}
	if c.Window.Scale <= 0 {
		c.Window.Scale = 1
	}
	return nil
}
