package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"clipreel/internal/timeline"
)

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
}

type ffprobeStream struct {
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	Duration     string `json:"duration"`
}

// Prober reads source metadata with ffprobe.
type Prober struct {
	Runner  Runner
	FFprobe string
	Logger  Logger
}

// NewProber builds a prober. A nil runner runs real processes.
func NewProber(ffprobe string, runner Runner, logger Logger) *Prober {
	if runner == nil {
		runner = CmdRunner{}
	}
	return &Prober{Runner: runner, FFprobe: ffprobe, Logger: loggerOrNoop(logger)}
}

// Metadata probes path. A source without a positive duration is reported as
// timeline.ErrInvalidMetadata.
func (p *Prober) Metadata(ctx context.Context, path string) (timeline.SourceMetadata, error) {
	if p == nil {
		return timeline.SourceMetadata{}, errors.New("prober is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	args := []string{
		"-v", "error",
		"-show_format",
		"-show_streams",
		"-print_format", "json",
		path,
	}
	loggerOrNoop(p.Logger).Printf("ffprobe target=%s", path)
	result, err := p.Runner.Run(ctx, p.FFprobe, args, RunOptions{})
	if err != nil {
		stderr := strings.TrimSpace(string(result.Stderr))
		if stderr != "" {
			return timeline.SourceMetadata{}, fmt.Errorf("ffprobe %s: %w: %s", path, err, stderr)
		}
		return timeline.SourceMetadata{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	if len(result.Stdout) == 0 {
		return timeline.SourceMetadata{}, fmt.Errorf("ffprobe %s produced no output", path)
	}
	if result.Elapsed > 0 {
		loggerOrNoop(p.Logger).Printf("ffprobe target=%s took=%s", path, result.Elapsed.Round(time.Millisecond))
	}

	return parseProbe(path, result.Stdout)
}

func parseProbe(path string, raw []byte) (timeline.SourceMetadata, error) {
	var parsed ffprobeOutput
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return timeline.SourceMetadata{}, fmt.Errorf("decode ffprobe output: %w", err)
	}

	meta := timeline.SourceMetadata{
		Duration: parseFloat(parsed.Format.Duration),
	}

	for _, s := range parsed.Streams {
		if s.CodecType != "video" {
			continue
		}
		meta.Width = s.Width
		meta.Height = s.Height
		meta.Codec = s.CodecName
		meta.FPS = parseRate(s.AvgFrameRate)
		if meta.FPS == 0 {
			meta.FPS = parseRate(s.RFrameRate)
		}
		if meta.Duration <= 0 {
			meta.Duration = parseFloat(s.Duration)
		}
		break
	}

	if !(meta.Duration > 0) {
		return meta, fmt.Errorf("%w: %s has no usable duration", timeline.ErrInvalidMetadata, path)
	}
	return meta, nil
}

func parseFloat(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}

// parseRate understands ffprobe rationals such as "30000/1001".
func parseRate(v string) float64 {
	num, den, ok := strings.Cut(strings.TrimSpace(v), "/")
	if !ok {
		return parseFloat(num)
	}
	n, d := parseFloat(num), parseFloat(den)
	if d == 0 {
		return 0
	}
	return n / d
}
