// Package playback maps between timeline time and source time while a
// playback surface plays one source file at a time.
package playback

import (
	"math"

	"clipreel/internal/timeline"
)

// Surface is the video element the mapper drives. Load is asynchronous: the
// surface reports completion with an EventLoaded event.
type Surface interface {
	Load(sourcePath string)
	Seek(sourceTime float64)
	Play()
	Pause()
}

// Scrub holds an uncommitted preview position.
type Scrub struct {
	DisplayTime float64
}

// Cue is a seek deferred until the surface finishes loading a new source.
type Cue struct {
	ClipID     string
	SourceTime float64
	Resume     bool
}

// Position is the transport state shared between the controller and the
// mapper. CurrentTime is the committed playhead in timeline seconds.
type Position struct {
	CurrentTime  float64
	IsPlaying    bool
	ActiveClipID string
	LoadedSource string
	Scrub        *Scrub
	Pending      *Cue
}

// DisplayTime is the time the UI should show: the scrub preview when one is
// active, otherwise the committed playhead.
func (p Position) DisplayTime() float64 {
	if p.Scrub != nil {
		return p.Scrub.DisplayTime
	}
	return p.CurrentTime
}

// Scrubbing reports whether a scrub preview is active.
func (p Position) Scrubbing() bool {
	return p.Scrub != nil
}

// TimelineTimeFor converts a source time inside c to timeline time.
func TimelineTimeFor(c timeline.Clip, sourceTime float64) float64 {
	return c.TimelineStart + (sourceTime - c.SourceStart)
}

// SourceTimeFor converts a timeline time inside c to source time.
func SourceTimeFor(c timeline.Clip, timelineTime float64) float64 {
	return c.SourceStart + (timelineTime - c.TimelineStart)
}

// Mapper turns surface reports into playhead updates and user transport
// actions into surface commands. It keeps no state of its own: every method
// takes the current Position and returns the next one.
type Mapper struct {
	surface Surface
}

// NewMapper binds a mapper to the surface it drives.
func NewMapper(surface Surface) *Mapper {
	return &Mapper{surface: surface}
}

// Handle dispatches a surface event.
func (m *Mapper) Handle(clips []timeline.Clip, pos Position, ev Event) Position {
	switch ev.Kind {
	case EventTime:
		return m.TimeUpdate(clips, pos, ev.SourceTime)
	case EventLoaded:
		return m.SourceLoaded(pos, ev.Source)
	case EventPlayState:
		return m.PlayStateChanged(pos, ev.Playing)
	}
	return pos
}

// TimeUpdate applies a source-time report for the active clip. Reports are
// ignored while scrubbing and while a new source is loading. Reaching the end
// of the active clip moves to the next clip, or stops at the end of the
// timeline.
func (m *Mapper) TimeUpdate(clips []timeline.Clip, pos Position, sourceTime float64) Position {
	if pos.Scrub != nil || pos.Pending != nil {
		return pos
	}

	clip, ok := timeline.Find(clips, pos.ActiveClipID)
	if !ok {
		clip, ok = timeline.GetClipAtTime(clips, pos.CurrentTime)
		if !ok {
			return m.stopAtEnd(clips, pos)
		}
		pos.ActiveClipID = clip.ID
	}

	// Surfaces report times a rounding error short of the out point; those
	// count as reaching it.
	if sourceTime < clip.SourceEnd-timeline.Epsilon {
		pos.CurrentTime = TimelineTimeFor(clip, math.Max(sourceTime, clip.SourceStart))
		return pos
	}

	next, ok := timeline.ClipAfter(clips, clip.ID)
	if !ok {
		pos.CurrentTime = timeline.CalculateTotalDuration(clips)
		pos.ActiveClipID = ""
		return m.stopAtEnd(clips, pos)
	}

	pos.CurrentTime = next.TimelineStart
	return m.cue(pos, next, next.SourceStart, pos.IsPlaying)
}

// stopAtEnd pauses playback once the playhead has reached the total duration.
func (m *Mapper) stopAtEnd(clips []timeline.Clip, pos Position) Position {
	if pos.CurrentTime < timeline.CalculateTotalDuration(clips)-timeline.Epsilon {
		return pos
	}
	if pos.IsPlaying {
		pos.IsPlaying = false
		m.surface.Pause()
	}
	return pos
}

// SourceLoaded completes a pending cue once the surface has loaded source.
func (m *Mapper) SourceLoaded(pos Position, source string) Position {
	if pos.Pending == nil || source != pos.LoadedSource {
		return pos
	}
	cue := *pos.Pending
	pos.Pending = nil
	m.surface.Seek(cue.SourceTime)
	if cue.Resume {
		m.surface.Play()
	}
	return pos
}

// PlayStateChanged mirrors a play/pause notification from the surface.
// Pauses raised by a source swap are ignored so playback resumes afterwards.
func (m *Mapper) PlayStateChanged(pos Position, playing bool) Position {
	if pos.Pending != nil && !playing {
		return pos
	}
	pos.IsPlaying = playing
	return pos
}

// Seek commits the playhead to timelineTime and ends any scrub. Times outside
// [0, total] are ignored.
func (m *Mapper) Seek(clips []timeline.Clip, pos Position, timelineTime float64) Position {
	pos.Scrub = nil
	total := timeline.CalculateTotalDuration(clips)
	if timelineTime < 0 || timelineTime > total {
		return m.restore(clips, pos)
	}
	pos.CurrentTime = timelineTime

	clip, ok := timeline.GetClipAtTime(clips, timelineTime)
	if !ok {
		// Exactly at the end: nothing left to play.
		if pos.IsPlaying {
			pos.IsPlaying = false
			m.surface.Pause()
		}
		pos.Pending = nil
		return pos
	}
	return m.cue(pos, clip, SourceTimeFor(clip, timelineTime), pos.IsPlaying)
}

// Scrub previews timelineTime without committing the playhead. It only
// applies while paused.
func (m *Mapper) Scrub(clips []timeline.Clip, pos Position, timelineTime float64) Position {
	if pos.IsPlaying {
		return pos
	}
	clip, ok := timeline.GetClipAtTime(clips, timelineTime)
	if !ok {
		return pos
	}
	committed := pos.ActiveClipID
	pos.Scrub = &Scrub{DisplayTime: timelineTime}
	pos = m.cue(pos, clip, SourceTimeFor(clip, timelineTime), false)
	pos.ActiveClipID = committed
	return pos
}

// ScrubEnd discards the preview and puts the surface back on the committed
// playhead.
func (m *Mapper) ScrubEnd(clips []timeline.Clip, pos Position) Position {
	if pos.Scrub == nil {
		return pos
	}
	pos.Scrub = nil
	return m.restore(clips, pos)
}

// Play starts playback from the playhead, rewinding to 0 when the playhead
// sits at the end of the timeline.
func (m *Mapper) Play(clips []timeline.Clip, pos Position) Position {
	total := timeline.CalculateTotalDuration(clips)
	if len(clips) == 0 || total <= 0 {
		return pos
	}
	pos.Scrub = nil
	if pos.CurrentTime >= total || pos.CurrentTime < 0 {
		pos.CurrentTime = 0
	}
	clip, ok := timeline.GetClipAtTime(clips, pos.CurrentTime)
	if !ok {
		return pos
	}
	pos.IsPlaying = true
	return m.cue(pos, clip, SourceTimeFor(clip, pos.CurrentTime), true)
}

// Pause stops playback, cancelling any resume queued behind a source load.
func (m *Mapper) Pause(pos Position) Position {
	pos.IsPlaying = false
	if pos.Pending != nil {
		cue := *pos.Pending
		cue.Resume = false
		pos.Pending = &cue
	}
	m.surface.Pause()
	return pos
}

// Resync re-resolves the clip under the playhead after the clip collection
// changed, clamping the playhead into the new timeline.
func (m *Mapper) Resync(clips []timeline.Clip, pos Position) Position {
	total := timeline.CalculateTotalDuration(clips)
	if pos.CurrentTime > total {
		pos.CurrentTime = total
	}
	if pos.CurrentTime < 0 {
		pos.CurrentTime = 0
	}
	if pos.Scrub != nil {
		if _, ok := timeline.GetClipAtTime(clips, pos.Scrub.DisplayTime); !ok {
			pos.Scrub = nil
		}
	}
	return m.restore(clips, pos)
}

// restore points the surface at the committed playhead.
func (m *Mapper) restore(clips []timeline.Clip, pos Position) Position {
	clip, ok := timeline.GetClipAtTime(clips, pos.CurrentTime)
	if !ok {
		pos.ActiveClipID = ""
		pos.Pending = nil
		if pos.IsPlaying {
			pos.IsPlaying = false
			m.surface.Pause()
		}
		return pos
	}
	return m.cue(pos, clip, SourceTimeFor(clip, pos.CurrentTime), pos.IsPlaying)
}

// cue points the surface at sourceTime within clip, loading the clip's source
// first when the surface holds a different file.
func (m *Mapper) cue(pos Position, clip timeline.Clip, sourceTime float64, resume bool) Position {
	pos.ActiveClipID = clip.ID
	if pos.LoadedSource == clip.SourceFilePath {
		if pos.Pending != nil {
			// Same file still loading; retarget the queued seek.
			pos.Pending = &Cue{ClipID: clip.ID, SourceTime: sourceTime, Resume: resume}
			return pos
		}
		m.surface.Seek(sourceTime)
		if resume {
			m.surface.Play()
		}
		return pos
	}
	pos.LoadedSource = clip.SourceFilePath
	pos.Pending = &Cue{ClipID: clip.ID, SourceTime: sourceTime, Resume: resume}
	m.surface.Load(clip.SourceFilePath)
	return pos
}
