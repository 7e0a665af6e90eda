package playback

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"clipreel/internal/timeline"
)

type fakeSurface struct {
	calls []string
}

func (f *fakeSurface) Load(path string) { f.calls = append(f.calls, "load "+path) }
func (f *fakeSurface) Seek(t float64)   { f.calls = append(f.calls, fmt.Sprintf("seek %.2f", t)) }
func (f *fakeSurface) Play()            { f.calls = append(f.calls, "play") }
func (f *fakeSurface) Pause()           { f.calls = append(f.calls, "pause") }
func (f *fakeSurface) reset()           { f.calls = nil }
func (f *fakeSurface) joined() string   { return strings.Join(f.calls, ", ") }

// twoClips returns A (a.mp4 [0,5)) and B (b.mp4 [2,9)) laid end to end.
func twoClips() []timeline.Clip {
	return timeline.ReorderClips([]timeline.Clip{
		{ID: "A", SourceFilePath: "a.mp4", SourceStart: 0, SourceEnd: 5},
		{ID: "B", SourceFilePath: "b.mp4", SourceStart: 2, SourceEnd: 9},
	})
}

func TestTimeMappingRoundTrip(t *testing.T) {
	c := timeline.Clip{SourceStart: 3.25, SourceEnd: 11, TimelineStart: 7.5}
	for tt := c.TimelineStart; tt < c.TimelineEnd(); tt += 0.3 {
		if got := TimelineTimeFor(c, SourceTimeFor(c, tt)); math.Abs(got-tt) > 1e-9 {
			t.Fatalf("round trip %v -> %v", tt, got)
		}
	}
	if got := SourceTimeFor(c, 8.5); got != 4.25 {
		t.Fatalf("expected source 4.25, got %v", got)
	}
}

func TestTimeUpdateAdvancesPlayhead(t *testing.T) {
	surface := &fakeSurface{}
	m := NewMapper(surface)
	clips := twoClips()

	pos := Position{IsPlaying: true, ActiveClipID: "B", LoadedSource: "b.mp4", CurrentTime: 5}
	pos = m.TimeUpdate(clips, pos, 4)
	if pos.CurrentTime != 7 {
		t.Fatalf("expected playhead 7, got %v", pos.CurrentTime)
	}
	if !pos.IsPlaying {
		t.Fatalf("expected playing to be unchanged")
	}
	if len(surface.calls) != 0 {
		t.Fatalf("expected no surface commands, got %s", surface.joined())
	}
}

func TestTimeUpdateTransitionsToNextClip(t *testing.T) {
	surface := &fakeSurface{}
	m := NewMapper(surface)
	clips := twoClips()

	pos := Position{IsPlaying: true, ActiveClipID: "A", LoadedSource: "a.mp4", CurrentTime: 4.9}
	pos = m.TimeUpdate(clips, pos, 5)

	if pos.ActiveClipID != "B" {
		t.Fatalf("expected active clip B, got %q", pos.ActiveClipID)
	}
	if pos.CurrentTime != 5 {
		t.Fatalf("expected playhead at B start 5, got %v", pos.CurrentTime)
	}
	if !pos.IsPlaying {
		t.Fatalf("expected playback to remain active")
	}
	if pos.Pending == nil || !pos.Pending.Resume || pos.Pending.SourceTime != 2 {
		t.Fatalf("expected pending resume at source 2, got %+v", pos.Pending)
	}
	if surface.joined() != "load b.mp4" {
		t.Fatalf("expected load of b.mp4, got %s", surface.joined())
	}

	// The source swap pauses the element; that must not clear isPlaying.
	pos = m.PlayStateChanged(pos, false)
	if !pos.IsPlaying {
		t.Fatalf("expected pause during load to be ignored")
	}

	// Stale reports from the old source are dropped while loading.
	pos = m.TimeUpdate(clips, pos, 5.2)
	if pos.CurrentTime != 5 {
		t.Fatalf("expected stale report ignored, got %v", pos.CurrentTime)
	}

	surface.reset()
	pos = m.SourceLoaded(pos, "b.mp4")
	if pos.Pending != nil {
		t.Fatalf("expected pending cue to clear")
	}
	if surface.joined() != "seek 2.00, play" {
		t.Fatalf("expected seek then play, got %s", surface.joined())
	}
}

func TestTimeUpdateSameSourceOnlySeeks(t *testing.T) {
	surface := &fakeSurface{}
	m := NewMapper(surface)
	clips := timeline.ReorderClips([]timeline.Clip{
		{ID: "A", SourceFilePath: "a.mp4", SourceStart: 0, SourceEnd: 5},
		{ID: "B", SourceFilePath: "a.mp4", SourceStart: 10, SourceEnd: 12},
	})
	pos := Position{IsPlaying: true, ActiveClipID: "A", LoadedSource: "a.mp4"}
	pos = m.TimeUpdate(clips, pos, 5.01)
	if pos.Pending != nil {
		t.Fatalf("expected no load for same source")
	}
	if surface.joined() != "seek 10.00, play" {
		t.Fatalf("expected seek+play, got %s", surface.joined())
	}
}

func TestTimeUpdateStopsAtEnd(t *testing.T) {
	surface := &fakeSurface{}
	m := NewMapper(surface)
	clips := twoClips()

	pos := Position{IsPlaying: true, ActiveClipID: "B", LoadedSource: "b.mp4", CurrentTime: 11.9}
	pos = m.TimeUpdate(clips, pos, 9)
	if pos.IsPlaying {
		t.Fatalf("expected playback to stop")
	}
	if pos.CurrentTime != 12 {
		t.Fatalf("expected playhead at total 12, got %v", pos.CurrentTime)
	}
	if surface.joined() != "pause" {
		t.Fatalf("expected pause, got %s", surface.joined())
	}
}

func TestTimeUpdateJustShortOfOutPoint(t *testing.T) {
	surface := &fakeSurface{}
	m := NewMapper(surface)
	clips := timeline.ReorderClips([]timeline.Clip{
		{ID: "A", SourceFilePath: "a.mp4", SourceStart: 0, SourceEnd: 1},
		{ID: "B", SourceFilePath: "b.mp4", SourceStart: 0, SourceEnd: 1},
	})

	pos := Position{IsPlaying: true, ActiveClipID: "A", LoadedSource: "a.mp4", CurrentTime: 0.9}
	pos = m.TimeUpdate(clips, pos, 0.9999999999999999)
	if pos.ActiveClipID != "B" || pos.CurrentTime != 1 {
		t.Fatalf("expected transition to B at 1, got %+v", pos)
	}
	pos = m.SourceLoaded(pos, "b.mp4")

	surface.reset()
	pos = m.TimeUpdate(clips, pos, 0.9999999999999999)
	if pos.IsPlaying || pos.CurrentTime != 2 {
		t.Fatalf("expected playback stopped at 2, got %+v", pos)
	}
	if surface.joined() != "pause" {
		t.Fatalf("expected pause, got %s", surface.joined())
	}

	// A later report with no active clip keeps the stop.
	pos.IsPlaying = true
	pos = m.TimeUpdate(clips, pos, 1)
	if pos.IsPlaying {
		t.Fatalf("expected playback at the end to stop, got %+v", pos)
	}
}

func TestTimeUpdateIgnoredWhileScrubbing(t *testing.T) {
	m := NewMapper(&fakeSurface{})
	pos := Position{ActiveClipID: "A", LoadedSource: "a.mp4", CurrentTime: 1, Scrub: &Scrub{DisplayTime: 3}}
	pos = m.TimeUpdate(twoClips(), pos, 4)
	if pos.CurrentTime != 1 {
		t.Fatalf("expected committed playhead untouched, got %v", pos.CurrentTime)
	}
}

func TestScrubThenSeek(t *testing.T) {
	surface := &fakeSurface{}
	m := NewMapper(surface)
	clips := twoClips()

	pos := Position{ActiveClipID: "A", LoadedSource: "a.mp4", CurrentTime: 1}
	pos = m.Scrub(clips, pos, 3)
	if pos.CurrentTime != 1 {
		t.Fatalf("scrub must not move the committed playhead, got %v", pos.CurrentTime)
	}
	if !pos.Scrubbing() || pos.DisplayTime() != 3 {
		t.Fatalf("expected display time 3, got %v", pos.DisplayTime())
	}
	if surface.joined() != "seek 3.00" {
		t.Fatalf("expected preview seek, got %s", surface.joined())
	}

	surface.reset()
	pos = m.Seek(clips, pos, pos.DisplayTime())
	if pos.Scrubbing() {
		t.Fatalf("expected seek to end scrubbing")
	}
	if pos.CurrentTime != 3 {
		t.Fatalf("expected playhead committed at 3, got %v", pos.CurrentTime)
	}
	if surface.joined() != "seek 3.00" {
		t.Fatalf("expected seek, got %s", surface.joined())
	}
}

func TestScrubIgnoredWhilePlaying(t *testing.T) {
	surface := &fakeSurface{}
	m := NewMapper(surface)
	pos := Position{IsPlaying: true, ActiveClipID: "A", LoadedSource: "a.mp4"}
	pos = m.Scrub(twoClips(), pos, 3)
	if pos.Scrubbing() || len(surface.calls) != 0 {
		t.Fatalf("expected scrub to be ignored while playing")
	}
}

func TestScrubAcrossSourcesAndEnd(t *testing.T) {
	surface := &fakeSurface{}
	m := NewMapper(surface)
	clips := twoClips()

	pos := Position{ActiveClipID: "A", LoadedSource: "a.mp4", CurrentTime: 1}
	pos = m.Scrub(clips, pos, 6)
	if pos.ActiveClipID != "A" {
		t.Fatalf("expected committed active clip to be kept, got %q", pos.ActiveClipID)
	}
	if surface.joined() != "load b.mp4" {
		t.Fatalf("expected preview load, got %s", surface.joined())
	}
	pos = m.SourceLoaded(pos, "b.mp4")

	surface.reset()
	pos = m.ScrubEnd(clips, pos)
	if pos.Scrubbing() {
		t.Fatalf("expected scrub cleared")
	}
	if pos.CurrentTime != 1 || pos.ActiveClipID != "A" {
		t.Fatalf("expected committed state restored, got %+v", pos)
	}
	if surface.joined() != "load a.mp4" {
		t.Fatalf("expected committed source reload, got %s", surface.joined())
	}
}

func TestSeekOutsideTimelineIgnored(t *testing.T) {
	m := NewMapper(&fakeSurface{})
	clips := twoClips()
	pos := Position{ActiveClipID: "A", LoadedSource: "a.mp4", CurrentTime: 2}
	for _, at := range []float64{-1, 12.5} {
		got := m.Seek(clips, pos, at)
		if got.CurrentTime != 2 {
			t.Errorf("seek %v: expected playhead unchanged, got %v", at, got.CurrentTime)
		}
	}
	got := m.Seek(clips, pos, 12)
	if got.CurrentTime != 12 {
		t.Errorf("expected seek to the end to be accepted, got %v", got.CurrentTime)
	}
}

func TestPlayFromEndRestarts(t *testing.T) {
	surface := &fakeSurface{}
	m := NewMapper(surface)
	clips := twoClips()

	pos := Position{CurrentTime: 12, LoadedSource: "b.mp4", ActiveClipID: "B"}
	pos = m.Play(clips, pos)
	if !pos.IsPlaying || pos.CurrentTime != 0 || pos.ActiveClipID != "A" {
		t.Fatalf("expected restart from A at 0, got %+v", pos)
	}
	if surface.joined() != "load a.mp4" {
		t.Fatalf("expected load, got %s", surface.joined())
	}

	pos = m.Pause(pos)
	if pos.IsPlaying || pos.Pending == nil || pos.Pending.Resume {
		t.Fatalf("expected pause to cancel resume, got %+v", pos)
	}

	empty := m.Play(nil, Position{})
	if empty.IsPlaying {
		t.Fatalf("expected play on empty timeline to be ignored")
	}
}

func TestResyncClampsPlayhead(t *testing.T) {
	surface := &fakeSurface{}
	m := NewMapper(surface)
	pos := Position{CurrentTime: 30, IsPlaying: true, ActiveClipID: "gone", LoadedSource: "b.mp4"}
	pos = m.Resync(twoClips(), pos)
	if pos.CurrentTime != 12 || pos.IsPlaying || pos.ActiveClipID != "" {
		t.Fatalf("expected stop at end, got %+v", pos)
	}

	pos = m.Resync(twoClips(), Position{CurrentTime: 6, ActiveClipID: "A", LoadedSource: "b.mp4"})
	if pos.ActiveClipID != "B" {
		t.Fatalf("expected active clip re-resolved to B, got %q", pos.ActiveClipID)
	}
}

func TestClockDrivesMapperAcrossClips(t *testing.T) {
	clock := NewClock()
	m := NewMapper(clock)
	clips := twoClips()

	pos := m.Play(clips, Position{})
	step := 250 * time.Millisecond
	wasPaused := false
	for i := 0; i < 200 && pos.CurrentTime < 12; i++ {
		for _, ev := range clock.Advance(step) {
			pos = m.Handle(clips, pos, ev)
			if !pos.IsPlaying && pos.CurrentTime < 12 {
				wasPaused = true
			}
		}
	}

	if wasPaused {
		t.Fatalf("playback observed a pause before the end")
	}
	if pos.CurrentTime != 12 || pos.IsPlaying {
		t.Fatalf("expected playback to stop at 12, got %+v", pos)
	}
	if clock.Source() != "b.mp4" {
		t.Fatalf("expected clock to end on b.mp4, got %q", clock.Source())
	}
}
