package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestResolveDefaults(t *testing.T) {
	var c Config
	c.Resolve(Flags{})

	if c.Width != 320 || c.Height != 240 {
		t.Errorf("size = %dx%d, want 320x240", c.Width, c.Height)
	}
	if c.TileSize != 64 || c.Supersample != 1 || c.Frames != 1 || c.FPS != 30 {
		t.Errorf("render defaults = %+v", c)
	}
	if c.Format != FormatWebP || c.OutputDir != "renders" || c.HourOfDay() != DefaultHour {
		t.Errorf("output defaults = %+v", c)
	}
	if c.Workers != runtime.NumCPU() {
		t.Errorf("Workers = %d, want %d", c.Workers, runtime.NumCPU())
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadAndOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "render.json")
	data := `{"width": 100, "height": 50, "format": "PNG", "supersample": 2, "unlit": true, "output_dir": "out"}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	c.Resolve(Flags{Width: 200, OutputDir: "flagged"})

	if c.Width != 200 || c.Height != 50 {
		t.Errorf("size = %dx%d, want 200x50", c.Width, c.Height)
	}
	if c.Format != FormatPNG || !c.Unlit || c.OutputDir != "flagged" {
		t.Errorf("config = %+v", c)
	}
	if c.Supersample != 2 {
		t.Errorf("Supersample = %d, want 2", c.Supersample)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil || !strings.Contains(err.Error(), "config: read") {
		t.Errorf("missing file error = %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{width"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), "config: parse") {
		t.Errorf("bad json error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"format", func(c *Config) { c.Format = "gif" }, "unknown format"},
		{"supersample", func(c *Config) { c.Supersample = 16 }, "supersample"},
		{"hour", func(c *Config) { h := float32(30); c.Hour = &h }, "hour"},
		{"negative hour", func(c *Config) { h := float32(-1); c.Hour = &h }, "hour"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.Resolve(Flags{})
			tt.mutate(&c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestValidateAcceptsFormats(t *testing.T) {
	for _, f := range []string{FormatWebP, FormatPNG, FormatRaw} {
		c := Config{Format: f}
		c.Resolve(Flags{})
		if err := c.Validate(); err != nil {
			t.Errorf("Validate(%s) = %v", f, err)
		}
	}
}

func TestHourMidnight(t *testing.T) {
	midnight := float32(0)
	tests := []struct {
		name  string
		json  string
		flags Flags
		want  float32
	}{
		{"unset", `{}`, Flags{}, DefaultHour},
		{"file midnight", `{"hour": 0}`, Flags{}, 0},
		{"file evening", `{"hour": 21.5}`, Flags{}, 21.5},
		{"flag midnight", `{"hour": 15}`, Flags{Hour: &midnight}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "render.json")
			if err := os.WriteFile(path, []byte(tt.json), 0644); err != nil {
				t.Fatal(err)
			}
			c, err := Load(path)
			if err != nil {
				t.Fatal(err)
			}
			c.Resolve(tt.flags)
			if got := c.HourOfDay(); got != tt.want {
				t.Errorf("HourOfDay() = %v, want %v", got, tt.want)
			}
			if err := c.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}
