// Package config loads render settings from a JSON file and merges CLI
// overrides and defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Output formats.
const (
	FormatWebP = "webp"
	FormatPNG  = "png"
	// FormatRaw is a zlib-compressed RGBA dump with a small header.
	FormatRaw = "raw"
)

// DefaultHour is the time of day used when none is configured.
const DefaultHour = 10

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	AssetDir  string `json:"asset_dir"`
	OutputDir string `json:"output_dir"`

	// Render settings
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	TileSize    int     `json:"tile_size"`
	Supersample int     `json:"supersample"`
	Frames      int     `json:"frames"`
	FPS         int     `json:"fps"`
	Format      string  `json:"format"`
	Workers     int     `json:"workers"`

	// Hour is the time of day in [0,24); nil means unset.
	Hour *float32 `json:"hour,omitempty"`

	PreserveTransparency bool `json:"preserve_transparency"`
	Unlit                bool `json:"unlit"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings. Zero
// values leave the file setting alone.
type Flags struct {
	AssetDir  string
	OutputDir string
	Width     int
	Height    int
	TileSize  int
	Frames    int
	Format    string
	Workers   int
	Hour      *float32
	Unlit     bool
}

// Resolve applies CLI overrides and fills any empty fields with defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.AssetDir != "" {
		c.AssetDir = flags.AssetDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.TileSize > 0 {
		c.TileSize = flags.TileSize
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Hour != nil {
		h := *flags.Hour
		c.Hour = &h
	}
	if flags.Unlit {
		c.Unlit = true
	}

	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}
	if c.AssetDir != "" && !filepath.IsAbs(c.AssetDir) {
		c.AssetDir = filepath.Clean(c.AssetDir)
	}

	// Defaults for render settings
	if c.Width <= 0 {
		c.Width = 320
	}
	if c.Height <= 0 {
		c.Height = 240
	}
	if c.TileSize <= 0 {
		c.TileSize = 64
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.Frames <= 0 {
		c.Frames = 1
	}
	if c.FPS <= 0 {
		c.FPS = 30
	}
	c.Format = strings.ToLower(c.Format)
	if c.Format == "" {
		c.Format = FormatWebP
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Hour == nil {
		h := float32(DefaultHour)
		c.Hour = &h
	}
}

// Validate reports settings Resolve cannot repair.
func (c *Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("config: invalid size %dx%d", c.Width, c.Height))
	}
	if c.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("config: invalid tile size %d", c.TileSize))
	}
	if c.Supersample <= 0 || c.Supersample > 8 {
		errs = append(errs, fmt.Errorf("config: supersample %d out of range 1-8", c.Supersample))
	}
	if c.Format != FormatWebP && c.Format != FormatPNG && c.Format != FormatRaw {
		errs = append(errs, fmt.Errorf("config: unknown format %q", c.Format))
	}
	if h := c.HourOfDay(); h < 0 || h >= 24 {
		errs = append(errs, fmt.Errorf("config: hour %v out of range [0,24)", h))
	}
	return errors.Join(errs...)
}

// HourOfDay returns the configured hour, or DefaultHour when unset.
func (c *Config) HourOfDay() float32 {
	if c.Hour == nil {
		return DefaultHour
	}
	return *c.Hour
}
