// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/frameplay/pkg/ports"
)

// Config represents the full configuration for frameplay.
type Config struct {
	// Display
	Width  int    `yaml:"width"`  // Target width; 0 keeps intrinsic size
	Height int    `yaml:"height"` // Target height; 0 keeps intrinsic size
	Fit    string `yaml:"fit"`    // stretch, fit or fill

	// Playback
	Preload int     `yaml:"preload"` // Frame buffer capacity
	Loops   int     `yaml:"loops"`   // Full passes before stopping; <=0 loops forever
	Rate    float64 `yaml:"rate"`    // Playback speed multiplier
	TickMs  int     `yaml:"tick_ms"` // Clock interval in milliseconds

	// Output
	OutputDir string `yaml:"output_dir"` // Directory for exported frames

	// Logging
	LogLevel string `yaml:"log_level"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Fit:      "fit",
		Preload:  ports.DefaultPreloadCount,
		Loops:    0,
		Rate:     1.0,
		TickMs:   16,
		LogLevel: "info",
	}
}

// Load reads a yaml config file and merges it over the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize clamps out-of-range values back to usable defaults.
func (c *Config) Normalize() {
	if c.Preload <= 0 {
		c.Preload = ports.DefaultPreloadCount
	}
	if c.Rate <= 0 {
		c.Rate = 1.0
	}
	if c.TickMs <= 0 {
		c.TickMs = 16
	}
	if c.Width < 0 {
		c.Width = 0
	}
	if c.Height < 0 {
		c.Height = 0
	}
}

// FitPolicy returns the configured content-fit policy.
func (c Config) FitPolicy() ports.FitPolicy {
	return ports.ParseFitPolicy(c.Fit)
}

// TargetSize returns the configured display size. Zero when either
// dimension is unset, which disables resizing.
func (c Config) TargetSize() ports.Dimension {
	if c.Width <= 0 || c.Height <= 0 {
		return ports.Dimension{}
	}
	return ports.Dimension{Width: c.Width, Height: c.Height}
}

// TickInterval returns the clock interval.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

// ToSource builds a playback source for the given container bytes.
func (c Config) ToSource(data []byte) ports.Source {
	return ports.Source{
		Data:         data,
		TargetSize:   c.TargetSize(),
		Fit:          c.FitPolicy(),
		PreloadCount: c.Preload,
		LoopCount:    c.Loops,
	}
}
