package playback

import "time"

// EventKind identifies a surface notification.
type EventKind int

const (
	// EventTime reports the current source time while playing.
	EventTime EventKind = iota
	// EventLoaded reports that a Load call finished.
	EventLoaded
	// EventPlayState reports a play/pause transition.
	EventPlayState
)

// Event is a notification emitted by a playback surface.
type Event struct {
	Kind       EventKind
	SourceTime float64
	Source     string
	Playing    bool
}

// Clock is a virtual playback surface. It plays no pixels; it advances a
// source position at real-time rate when ticked and reports loads on the tick
// after Load was called, which is enough to drive the mapper from a terminal.
type Clock struct {
	source  string
	loading string
	time    float64
	playing bool
	queued  []Event
}

var _ Surface = (*Clock)(nil)

// NewClock returns a stopped clock with no source.
func NewClock() *Clock {
	return &Clock{}
}

// Load starts loading path. Like a browser video element, swapping the
// source pauses playback.
func (c *Clock) Load(path string) {
	c.loading = path
	if c.playing {
		c.playing = false
		c.queued = append(c.queued, Event{Kind: EventPlayState, Playing: false})
	}
}

// Seek moves the source position.
func (c *Clock) Seek(sourceTime float64) {
	if sourceTime < 0 {
		sourceTime = 0
	}
	c.time = sourceTime
}

// Play resumes advancing.
func (c *Clock) Play() {
	if c.playing {
		return
	}
	c.playing = true
	c.queued = append(c.queued, Event{Kind: EventPlayState, Playing: true})
}

// Pause stops advancing.
func (c *Clock) Pause() {
	if !c.playing {
		return
	}
	c.playing = false
	c.queued = append(c.queued, Event{Kind: EventPlayState, Playing: false})
}

// Source returns the loaded source path.
func (c *Clock) Source() string {
	return c.source
}

// Time returns the current source position.
func (c *Clock) Time() float64 {
	return c.time
}

// Playing reports whether the clock is advancing.
func (c *Clock) Playing() bool {
	return c.playing
}

// Advance moves the clock forward by elapsed and returns the events produced
// since the last call, in order.
func (c *Clock) Advance(elapsed time.Duration) []Event {
	events := c.queued
	c.queued = nil

	if c.loading != "" {
		c.source = c.loading
		c.loading = ""
		c.time = 0
		events = append(events, Event{Kind: EventLoaded, Source: c.source})
		return events
	}

	if c.playing && c.source != "" {
		c.time += elapsed.Seconds()
		events = append(events, Event{Kind: EventTime, SourceTime: c.time})
	}
	return events
}
