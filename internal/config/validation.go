package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// Validate reports settings that will misbehave at runtime. Call it on the
// result of Read; ApplyDefaults silently replaces out-of-range values.
func (c Config) Validate(projectRoot string) []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateTools(projectRoot)...)
	results = append(results, c.validateThumbnails()...)
	results = append(results, c.validateExport()...)
	return results
}

func (c Config) validateTools(projectRoot string) []ValidationResult {
	var results []ValidationResult
	for name, path := range map[string]string{"ffmpeg": c.Tools.FFmpeg, "ffprobe": c.Tools.FFprobe} {
		if path == "" || !filepath.IsAbs(path) && filepath.Base(path) == path {
			// Bare names resolve through PATH at run time.
			continue
		}
		resolved := path
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(projectRoot, resolved)
		}
		if _, err := os.Stat(resolved); err != nil {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("tools.%s %q not found", name, path),
			})
		}
	}
	return results
}

func (c Config) validateThumbnails() []ValidationResult {
	var results []ValidationResult
	if c.Thumbnails.IntervalSec < 0 {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("thumbnails.interval_s must be positive, got %g", c.Thumbnails.IntervalSec),
		})
	}
	if c.Thumbnails.IntervalSec > 0 && c.Thumbnails.IntervalSec < 0.1 {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("thumbnails.interval_s %g will spawn an ffmpeg process per frame", c.Thumbnails.IntervalSec),
		})
	}
	if c.Thumbnails.Concurrency > 16 {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("thumbnails.concurrency %d is unusually high", c.Thumbnails.Concurrency),
		})
	}
	return results
}

func (c Config) validateExport() []ValidationResult {
	if c.Export.FrameRate < 0 {
		return []ValidationResult{{
			Level:   "error",
			Message: fmt.Sprintf("export.frame_rate must be positive, got %g", c.Export.FrameRate),
		}}
	}
	return nil
}

// HasErrors reports whether any result is an error.
func HasErrors(results []ValidationResult) bool {
	for _, r := range results {
		if r.Level == "error" {
			return true
		}
	}
	return false
}
