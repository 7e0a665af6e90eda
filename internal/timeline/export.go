package timeline

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
)

// Segment is a span of source media in timeline order, ready for export.
type Segment struct {
	Index          int     `json:"index"`
	ClipID         string  `json:"clip_id"`
	SourceFilePath string  `json:"source_file_path"`
	SourceStart    float64 `json:"source_start"`
	SourceEnd      float64 `json:"source_end"`
	TimelineStart  float64 `json:"timeline_start"`
	TimelineEnd    float64 `json:"timeline_end"`
}

// Segments lists the clips in timeline order with 1-based indexes.
func Segments(clips []Clip) []Segment {
	sorted := Sorted(clips)
	out := make([]Segment, len(sorted))
	for i, c := range sorted {
		out[i] = Segment{
			Index:          i + 1,
			ClipID:         c.ID,
			SourceFilePath: c.SourceFilePath,
			SourceStart:    c.SourceStart,
			SourceEnd:      c.SourceEnd,
			TimelineStart:  c.TimelineStart,
			TimelineEnd:    c.TimelineEnd(),
		}
	}
	return out
}

// WriteConcat renders an ffmpeg concat demuxer script for the timeline.
func WriteConcat(w io.Writer, clips []Clip) error {
	var b strings.Builder
	b.WriteString("ffconcat version 1.0\n")
	for _, seg := range Segments(clips) {
		fmt.Fprintf(&b, "file '%s'\n", escapeConcatPath(seg.SourceFilePath))
		fmt.Fprintf(&b, "inpoint %.6f\n", seg.SourceStart)
		fmt.Fprintf(&b, "outpoint %.6f\n", seg.SourceEnd)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeConcatPath(p string) string {
	return strings.ReplaceAll(p, "'", `'\''`)
}

// WriteEDL renders a CMX3600 edit decision list for the timeline. Source and
// record timecodes share frameRate; non-positive rates fall back to 30.
func WriteEDL(w io.Writer, clips []Clip, title string, frameRate float64) error {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = 30
	}
	isDropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	lines := []string{fmt.Sprintf("TITLE: %s", title)}
	if isDropFrame {
		lines = append(lines, "FCM: DROP FRAME")
	} else {
		lines = append(lines, "FCM: NON-DROP FRAME")
	}
	lines = append(lines, "")

	for _, seg := range Segments(clips) {
		lines = append(lines,
			fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s",
				seg.Index, "AX", "V",
				Timecode(seg.SourceStart, fps), Timecode(seg.SourceEnd, fps),
				Timecode(seg.TimelineStart, fps), Timecode(seg.TimelineEnd, fps)),
			fmt.Sprintf("* FROM CLIP NAME:  %s", filepath.Base(seg.SourceFilePath)),
			fmt.Sprintf("* MEDIA PATH:  %s", seg.SourceFilePath),
		)
	}
	lines = append(lines, "")

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

// Timecode formats seconds as HH:MM:SS:FF at fps.
func Timecode(seconds float64, fps int) string {
	if fps <= 0 {
		fps = 30
	}
	totalFrames := int(math.Round(math.Max(0, seconds) * float64(fps)))
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	secs := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, secs, frames)
}

// FormatSeconds renders seconds as M:SS.mmm or H:MM:SS.mmm.
func FormatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	ms := int64(math.Round(seconds * 1000))
	hours := ms / 3_600_000
	minutes := (ms % 3_600_000) / 60_000
	secs := (ms % 60_000) / 1000
	frac := ms % 1000
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%03d", hours, minutes, secs, frac)
	}
	return fmt.Sprintf("%d:%02d.%03d", minutes, secs, frac)
}
