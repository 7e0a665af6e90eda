package media

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"clipreel/internal/timeline"
)

// Thumbnailer extracts preview frames with ffmpeg.
type Thumbnailer struct {
	Runner     Runner
	FFmpeg     string
	OutputDir  string
	Width      int
	MaxPerClip int
	Logger     Logger
}

// NewThumbnailer builds a thumbnailer writing beneath outputDir.
func NewThumbnailer(ffmpeg, outputDir string, width, maxPerClip int, runner Runner, logger Logger) *Thumbnailer {
	if runner == nil {
		runner = CmdRunner{}
	}
	return &Thumbnailer{
		Runner:     runner,
		FFmpeg:     ffmpeg,
		OutputDir:  outputDir,
		Width:      width,
		MaxPerClip: maxPerClip,
		Logger:     loggerOrNoop(logger),
	}
}

// SourceKey is the directory name thumbnails of a source are grouped under.
func SourceKey(sourcePath string) string {
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		abs = sourcePath
	}
	sum := sha256.Sum256([]byte(abs))
	return hex.EncodeToString(sum[:])[:16]
}

// SourceThumbnailDir is where every thumbnail cut from sourcePath lives.
func SourceThumbnailDir(root, sourcePath string) string {
	return filepath.Join(root, SourceKey(sourcePath))
}

// Timestamps returns the source times to sample in [start, end), spaced by
// interval and widened so no more than max frames are produced.
func Timestamps(start, end, interval float64, max int) []float64 {
	if end <= start {
		return nil
	}
	if interval <= 0 {
		interval = 1
	}
	if max > 0 {
		if n := math.Ceil((end - start) / interval); n > float64(max) {
			interval = (end - start) / float64(max)
		}
	}
	var out []float64
	for i := 0; ; i++ {
		ts := start + float64(i)*interval
		if ts >= end-timeline.Epsilon {
			break
		}
		out = append(out, ts)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}

// GenerateThumbnails renders one frame per sample point of the clip's source
// range into a directory owned by clipID.
func (t *Thumbnailer) GenerateThumbnails(ctx context.Context, sourcePath, clipID string, sourceStart, sourceEnd, interval float64) ([]timeline.Thumbnail, error) {
	if t == nil {
		return nil, errors.New("thumbnailer is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := loggerOrNoop(t.Logger)

	dir := filepath.Join(SourceThumbnailDir(t.OutputDir, sourcePath), clipID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure thumbnail dir: %w", err)
	}

	width := t.Width
	if width <= 0 {
		width = 160
	}

	stamps := Timestamps(sourceStart, sourceEnd, interval, t.MaxPerClip)
	thumbs := make([]timeline.Thumbnail, 0, len(stamps))
	for i, ts := range stamps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out := filepath.Join(dir, fmt.Sprintf("thumb_%03d.jpg", i+1))
		args := []string{
			"-hide_banner",
			"-v", "error",
			"-y",
			"-ss", strconv.FormatFloat(ts, 'f', 3, 64),
			"-i", sourcePath,
			"-frames:v", "1",
			"-vf", fmt.Sprintf("scale=%d:-2", width),
			out,
		}
		if _, err := t.Runner.Run(ctx, t.FFmpeg, args, RunOptions{}); err != nil {
			return nil, fmt.Errorf("ffmpeg thumbnail %d for %s: %w", i+1, clipID, err)
		}
		thumbs = append(thumbs, timeline.Thumbnail{Timestamp: ts, ImageRef: out})
	}
	logger.Printf("thumbnails clip=%s source=%s count=%d", clipID, sourcePath, len(thumbs))
	return thumbs, nil
}
