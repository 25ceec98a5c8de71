package blit

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/blit/shaders"
)

// Config is the on-disk configuration of a blit application, read from
// TOML:
//
//	[window]
//	title = "blit"
//	width = 800
//	height = 600
//
//	[canvas]
//	width = 128
//	height = 128
//
//	[present]
//	mode = "fifo"
//	acquire_timeout = "1s"
//
//	[shaders]
//	dir = "shaders"
//
//	[log]
//	level = "info"
//
// Missing keys keep their DefaultConfig values.
type Config struct {
	Window  WindowConfig  `toml:"window"`
	Canvas  CanvasConfig  `toml:"canvas"`
	Present PresentConfig `toml:"present"`
	Shaders ShaderConfig  `toml:"shaders"`
	Log     LogConfig     `toml:"log"`
}

// WindowConfig describes the application window.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// CanvasConfig sets the pixel buffer size.
type CanvasConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// PresentConfig configures the swap chain.
type PresentConfig struct {
	Mode           string `toml:"mode"`
	AcquireTimeout string `toml:"acquire_timeout"`
}

// ShaderConfig points at precompiled shader binaries. An empty Dir uses
// the built-in shaders.
type ShaderConfig struct {
	Dir string `toml:"dir"`
}

// LogConfig sets the log level: debug, info, warn or error.
type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Window:  WindowConfig{Title: "blit", Width: 800, Height: 600},
		Canvas:  CanvasConfig{Width: DefaultCanvasWidth, Height: DefaultCanvasHeight},
		Present: PresentConfig{Mode: PresentModeFifo.String(), AcquireTimeout: DefaultAcquireTimeout.String()},
		Log:     LogConfig{Level: "info"},
	}
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return Config{}, fmt.Errorf("blit: read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("blit: %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes TOML on top of DefaultConfig and validates the
// result. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks sizes and parses the mode, timeout and level strings.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if _, err := ParsePresentMode(c.Present.Mode); err != nil {
		return err
	}
	if _, err := c.acquireTimeout(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

func (c Config) acquireTimeout() (time.Duration, error) {
	if c.Present.AcquireTimeout == "" {
		return DefaultAcquireTimeout, nil
	}
	d, err := time.ParseDuration(c.Present.AcquireTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid acquire timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid acquire timeout %s", d)
	}
	return d, nil
}

// LogLevel parses Log.Level. An empty level is info.
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level: %w", err)
	}
	return level, nil
}

// Options converts the configuration to renderer options. When
// Shaders.Dir is set, the precompiled binaries are loaded from it.
func (c Config) Options() ([]Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	mode, _ := ParsePresentMode(c.Present.Mode)
	timeout, _ := c.acquireTimeout()

	opts := []Option{
		WithCanvasSize(uint32(c.Canvas.Width), uint32(c.Canvas.Height)), //nolint:gosec // validated positive
		WithPresentMode(mode),
		WithAcquireTimeout(timeout),
	}
	if c.Shaders.Dir != "" {
		set, err := shaders.Load(c.Shaders.Dir)
		if err != nil {
			return nil, fmt.Errorf("blit: load shaders: %w", err)
		}
		opts = append(opts, WithShaders(set))
	}
	return opts, nil
}
