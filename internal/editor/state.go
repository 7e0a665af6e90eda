// Package editor owns the editing session: the clip collection, the
// selection, and the transport position. Every mutation goes through a
// Controller running on a single goroutine; background work is expressed as
// bubbletea commands whose results come back as messages.
package editor

import (
	"clipreel/internal/playback"
	"clipreel/internal/timeline"
)

// State is a snapshot of the editing session.
type State struct {
	Clips          []timeline.Clip
	SelectedClipID string
	Playback       playback.Position
	TotalDuration  float64
	// Err is the last collaborator failure, for display. Edits never set it.
	Err string
}

// Selected returns the selected clip.
func (s State) Selected() (timeline.Clip, bool) {
	if s.SelectedClipID == "" {
		return timeline.Clip{}, false
	}
	return timeline.Find(s.Clips, s.SelectedClipID)
}

// ActiveClip returns the clip under the committed playhead.
func (s State) ActiveClip() (timeline.Clip, bool) {
	return timeline.GetClipAtTime(s.Clips, s.Playback.CurrentTime)
}

// LoadingCount reports how many clips are waiting on thumbnails.
func (s State) LoadingCount() int {
	n := 0
	for _, c := range s.Clips {
		if c.ThumbnailsLoading {
			n++
		}
	}
	return n
}

func (s State) clone() State {
	out := s
	out.Clips = append([]timeline.Clip(nil), s.Clips...)
	return out
}
