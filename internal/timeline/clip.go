package timeline

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidMetadata reports source metadata that cannot back a clip, such as
// a non-positive duration.
var ErrInvalidMetadata = errors.New("invalid source metadata")

// newID is swapped in tests that need deterministic identifiers.
var newID = uuid.NewString

// SourceMetadata describes the source video a clip references.
type SourceMetadata struct {
	Duration float64 `json:"duration"`
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	FPS      float64 `json:"fps,omitempty"`
	Codec    string  `json:"codec,omitempty"`
}

// Thumbnail is a preview image taken at a source timestamp.
type Thumbnail struct {
	Timestamp float64 `json:"timestamp"`
	ImageRef  string  `json:"image_ref"`
}

// Clip is a trimmed span of a source video placed on the timeline. It occupies
// the half-open interval [TimelineStart, TimelineStart+Duration()).
type Clip struct {
	ID                string          `json:"id"`
	SourceFilePath    string          `json:"source_file_path"`
	SourceStart       float64         `json:"source_start"`
	SourceEnd         float64         `json:"source_end"`
	TimelineStart     float64         `json:"timeline_start"`
	Metadata          *SourceMetadata `json:"metadata,omitempty"`
	Thumbnails        []Thumbnail     `json:"thumbnails,omitempty"`
	ThumbnailsLoading bool            `json:"thumbnails_loading,omitempty"`
}

// Duration returns the clip length in seconds.
func (c Clip) Duration() float64 {
	return c.SourceEnd - c.SourceStart
}

// TimelineEnd returns the exclusive end of the clip on the timeline.
func (c Clip) TimelineEnd() float64 {
	return c.TimelineStart + c.Duration()
}

// Contains reports whether timeline time t falls inside the clip.
func (c Clip) Contains(t float64) bool {
	return t >= c.TimelineStart && t < c.TimelineEnd()
}

// CreateClip builds a clip spanning the entire source.
func CreateClip(sourceFilePath string, meta SourceMetadata, timelineStart float64) (Clip, error) {
	if !(meta.Duration > 0) {
		return Clip{}, fmt.Errorf("%w: %s reports duration %.3f", ErrInvalidMetadata, sourceFilePath, meta.Duration)
	}
	md := meta
	return Clip{
		ID:             newID(),
		SourceFilePath: sourceFilePath,
		SourceStart:    0,
		SourceEnd:      meta.Duration,
		TimelineStart:  timelineStart,
		Metadata:       &md,
	}, nil
}

// cloneClips copies the slice so callers never observe mutation of their
// input. Thumbnail slices are shared because they are replaced, never edited.
func cloneClips(clips []Clip) []Clip {
	if clips == nil {
		return []Clip{}
	}
	out := make([]Clip, len(clips))
	copy(out, clips)
	return out
}

// Find returns the clip with the given id.
func Find(clips []Clip, id string) (Clip, bool) {
	i := indexOf(clips, id)
	if i < 0 {
		return Clip{}, false
	}
	return clips[i], true
}

func indexOf(clips []Clip, id string) int {
	for i := range clips {
		if clips[i].ID == id {
			return i
		}
	}
	return -1
}
