package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config captures the editor settings for a project.
type Config struct {
	Version    int              `yaml:"version"`
	Thumbnails ThumbnailsConfig `yaml:"thumbnails"`
	Tools      ToolsConfig      `yaml:"tools"`
	Playback   PlaybackConfig   `yaml:"playback"`
	Editing    EditingConfig    `yaml:"editing"`
	Export     ExportConfig     `yaml:"export"`
}

// ThumbnailsConfig controls background thumbnail generation.
type ThumbnailsConfig struct {
	IntervalSec float64 `yaml:"interval_s"`
	Width       int     `yaml:"width"`
	MaxPerClip  int     `yaml:"max_per_clip"`
	Concurrency int     `yaml:"concurrency"`
	Enabled     *bool   `yaml:"enabled,omitempty"`
}

// EnabledValue returns the effective enabled flag applying defaults.
func (t ThumbnailsConfig) EnabledValue() bool {
	if t.Enabled == nil {
		return true
	}
	return *t.Enabled
}

// ToolsConfig pins external binaries. Empty values fall back to PATH lookup.
type ToolsConfig struct {
	FFmpeg  string `yaml:"ffmpeg"`
	FFprobe string `yaml:"ffprobe"`
}

// PlaybackConfig tunes the virtual playback surface.
type PlaybackConfig struct {
	TickMS int `yaml:"tick_ms"`
}

// EditingConfig holds keyboard step sizes for the interactive editor.
type EditingConfig struct {
	TrimStepSec float64 `yaml:"trim_step_s"`
	SeekStepSec float64 `yaml:"seek_step_s"`
}

// ExportConfig holds export defaults.
type ExportConfig struct {
	FrameRate float64 `yaml:"frame_rate"`
	Title     string  `yaml:"title"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Version: 1,
		Thumbnails: ThumbnailsConfig{
			IntervalSec: 1.0,
			Width:       160,
			MaxPerClip:  24,
			Concurrency: 2,
			Enabled:     boolPtr(true),
		},
		Playback: PlaybackConfig{
			TickMS: 50,
		},
		Editing: EditingConfig{
			TrimStepSec: 0.25,
			SeekStepSec: 1.0,
		},
		Export: ExportConfig{
			FrameRate: 30,
			Title:     "clipreel",
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise returns
// the default configuration.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// Read decodes the file over the defaults without normalising it, so Validate
// sees values exactly as written.
func Read(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults ensures nested fields fall back to sensible defaults when the
// YAML omits them.
func (c *Config) ApplyDefaults() {
	defaults := Default()

	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.Thumbnails.IntervalSec <= 0 {
		c.Thumbnails.IntervalSec = defaults.Thumbnails.IntervalSec
	}
	if c.Thumbnails.Width <= 0 {
		c.Thumbnails.Width = defaults.Thumbnails.Width
	}
	if c.Thumbnails.MaxPerClip <= 0 {
		c.Thumbnails.MaxPerClip = defaults.Thumbnails.MaxPerClip
	}
	if c.Thumbnails.Concurrency <= 0 {
		c.Thumbnails.Concurrency = defaults.Thumbnails.Concurrency
	}
	if c.Thumbnails.Enabled == nil {
		c.Thumbnails.Enabled = boolPtr(true)
	}
	if c.Playback.TickMS <= 0 {
		c.Playback.TickMS = defaults.Playback.TickMS
	}
	if c.Editing.TrimStepSec <= 0 {
		c.Editing.TrimStepSec = defaults.Editing.TrimStepSec
	}
	if c.Editing.SeekStepSec <= 0 {
		c.Editing.SeekStepSec = defaults.Editing.SeekStepSec
	}
	if c.Export.FrameRate <= 0 {
		c.Export.FrameRate = defaults.Export.FrameRate
	}
	if c.Export.Title == "" {
		c.Export.Title = defaults.Export.Title
	}
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}

func boolPtr(v bool) *bool {
	return &v
}
