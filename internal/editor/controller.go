package editor

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"clipreel/internal/playback"
	"clipreel/internal/timeline"
)

// Logger is the minimal logging interface the controller needs.
type Logger interface {
	Printf(format string, v ...any)
}

type noopLogger struct{}

func (noopLogger) Printf(string, ...any) {}

// Options wires the controller to its collaborators. Metadata and Thumbnails
// may be nil; a nil Surface gets a virtual playback.Clock.
type Options struct {
	Metadata          MetadataProvider
	Thumbnails        ThumbnailGenerator
	Surface           playback.Surface
	ThumbnailInterval float64
	Logger            Logger
}

// Controller sequences user edits into Timeline Engine calls and keeps the
// session State consistent. It is not safe for concurrent use: call it from
// one goroutine and feed it the messages its commands produce.
type Controller struct {
	// ctx bounds the background commands the controller hands out.
	ctx      context.Context
	state    State
	mapper   *playback.Mapper
	meta     MetadataProvider
	thumbs   ThumbnailGenerator
	interval float64
	logger   Logger
}

// New returns a controller with an empty timeline.
func New(ctx context.Context, opts Options) *Controller {
	if ctx == nil {
		ctx = context.Background()
	}
	surface := opts.Surface
	if surface == nil {
		surface = playback.NewClock()
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	interval := opts.ThumbnailInterval
	if interval <= 0 {
		interval = 1
	}
	return &Controller{
		ctx:      ctx,
		mapper:   playback.NewMapper(surface),
		meta:     opts.Metadata,
		thumbs:   opts.Thumbnails,
		interval: interval,
		logger:   logger,
	}
}

// State returns a snapshot of the session.
func (c *Controller) State() State {
	return c.state.clone()
}

// ClearErr drops the side-channel error.
func (c *Controller) ClearErr() {
	c.state.Err = ""
}

// Update applies a message produced by one of the controller's commands and
// returns any follow-up command.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case MediaProbedMsg:
		if msg.Err != nil {
			c.fail(fmt.Errorf("probe %s: %w", msg.Path, msg.Err))
			return nil
		}
		cmd, err := c.AddClip(msg.Path, msg.Metadata)
		if err != nil {
			c.fail(err)
			return nil
		}
		return cmd
	case ThumbnailsDoneMsg:
		c.applyThumbnails(msg)
	case playback.Event:
		c.HandleSurfaceEvent(msg)
	}
	return nil
}

// AddMedia probes path in the background. The clip is appended when the
// resulting MediaProbedMsg is passed to Update.
func (c *Controller) AddMedia(path string) tea.Cmd {
	if c.meta == nil {
		c.fail(errors.New("no metadata provider configured"))
		return nil
	}
	return probeCmd(c.ctx, c.meta, path)
}

// AddClip appends a full-length clip of path to the end of the timeline and
// starts its thumbnail job. Invalid metadata is returned as an error and
// leaves the state untouched.
func (c *Controller) AddClip(path string, meta timeline.SourceMetadata) (tea.Cmd, error) {
	clip, err := timeline.CreateClip(path, meta, 0)
	if err != nil {
		return nil, err
	}
	if c.thumbs != nil {
		clip.ThumbnailsLoading = true
	}
	c.commit("add "+clip.ID, timeline.AddClip(c.state.Clips, clip))
	added, _ := timeline.Find(c.state.Clips, clip.ID)
	return c.thumbnailJob(added), nil
}

// Trim sets the source range of clip id and reflows so no gap is left
// behind. Ranges with start >= end, or ending past the source media, are
// rejected.
func (c *Controller) Trim(id string, sourceStart, sourceEnd float64) bool {
	if !(sourceStart < sourceEnd) || sourceStart < 0 {
		c.logger.Printf("trim rejected clip=%s range=[%.3f,%.3f)", id, sourceStart, sourceEnd)
		return false
	}
	clip, ok := timeline.Find(c.state.Clips, id)
	if !ok {
		c.logger.Printf("trim rejected clip=%s: not found", id)
		return false
	}
	if clip.Metadata != nil && sourceEnd > clip.Metadata.Duration+timeline.Epsilon {
		c.logger.Printf("trim rejected clip=%s: end %.3f past source duration %.3f", id, sourceEnd, clip.Metadata.Duration)
		return false
	}
	clips, _ := timeline.UpdateClipTrim(c.state.Clips, id, sourceStart, sourceEnd)
	c.commit(fmt.Sprintf("trim %s [%.3f,%.3f)", id, sourceStart, sourceEnd), clips)
	return true
}

// TrimBy moves the in and out points of clip id by the given deltas,
// clamped to the drag-handle limits.
func (c *Controller) TrimBy(id string, startDelta, endDelta float64) bool {
	clip, ok := timeline.Find(c.state.Clips, id)
	if !ok {
		return false
	}
	start, end := clip.SourceStart, clip.SourceEnd
	if startDelta != 0 {
		start = timeline.ClampTrimStart(clip, start+startDelta)
	}
	if endDelta != 0 {
		end = timeline.ClampTrimEnd(clip, end+endDelta)
	}
	if start == clip.SourceStart && end == clip.SourceEnd {
		return false
	}
	return c.Trim(id, start, end)
}

// Delete removes clip id, clearing the selection if it pointed at it.
func (c *Controller) Delete(id string) bool {
	clips, ok := timeline.RemoveClip(c.state.Clips, id)
	if !ok {
		c.logger.Printf("delete rejected clip=%s: not found", id)
		return false
	}
	c.commit("delete "+id, clips)
	return true
}

// Reorder lays the clips out in the order given by ids. ids must name every
// clip exactly once.
func (c *Controller) Reorder(ids []string) bool {
	if len(ids) != len(c.state.Clips) {
		c.logger.Printf("reorder rejected: %d ids for %d clips", len(ids), len(c.state.Clips))
		return false
	}
	seen := make(map[string]bool, len(ids))
	ordered := make([]timeline.Clip, 0, len(ids))
	for _, id := range ids {
		clip, ok := timeline.Find(c.state.Clips, id)
		if !ok || seen[id] {
			c.logger.Printf("reorder rejected: bad id %s", id)
			return false
		}
		seen[id] = true
		ordered = append(ordered, clip)
	}
	c.commit("reorder", timeline.ReorderClips(ordered))
	return true
}

// Move relocates clip id near desiredStart, snapping to neighbour boundaries.
func (c *Controller) Move(id string, desiredStart float64) bool {
	clips, ok := timeline.MoveClip(c.state.Clips, id, desiredStart)
	if !ok {
		c.logger.Printf("move rejected clip=%s: not found", id)
		return false
	}
	c.commit(fmt.Sprintf("move %s to %.3f", id, desiredStart), clips)
	return true
}

// Nudge swaps clip id with its neighbour in the direction of delta.
func (c *Controller) Nudge(id string, delta int) bool {
	ordered := timeline.Sorted(c.state.Clips)
	i := -1
	for j, clip := range ordered {
		if clip.ID == id {
			i = j
			break
		}
	}
	j := i + delta
	if i < 0 || j < 0 || j >= len(ordered) {
		return false
	}
	ordered[i], ordered[j] = ordered[j], ordered[i]
	ids := make([]string, len(ordered))
	for k, clip := range ordered {
		ids[k] = clip.ID
	}
	return c.Reorder(ids)
}

// SplitAtPlayhead cuts the clip under the committed playhead in two. Both
// halves get fresh ids and new thumbnail jobs; the returned command runs them.
func (c *Controller) SplitAtPlayhead() (tea.Cmd, bool) {
	at := c.state.Playback.CurrentTime
	split, ok := timeline.SplitClip(c.state.Clips, at)
	if !ok {
		c.logger.Printf("split rejected at %.3f", at)
		return nil, false
	}
	clips := split.Clips
	if c.thumbs != nil {
		for i := range clips {
			if clips[i].ID == split.Left.ID || clips[i].ID == split.Right.ID {
				clips[i].ThumbnailsLoading = true
			}
		}
	}
	c.commit(fmt.Sprintf("split at %.3f into %s %s", at, split.Left.ID, split.Right.ID), clips)

	left, _ := timeline.Find(c.state.Clips, split.Left.ID)
	right, _ := timeline.Find(c.state.Clips, split.Right.ID)
	return tea.Batch(c.thumbnailJob(left), c.thumbnailJob(right)), true
}

// Select marks clip id as selected. An empty id clears the selection.
func (c *Controller) Select(id string) bool {
	if id == "" {
		c.state.SelectedClipID = ""
		return true
	}
	if _, ok := timeline.Find(c.state.Clips, id); !ok {
		return false
	}
	c.state.SelectedClipID = id
	return true
}

// SelectNext selects the clip after the current selection, or the first clip
// when nothing is selected.
func (c *Controller) SelectNext() bool {
	return c.selectStep(1)
}

// SelectPrev selects the clip before the current selection, or the last clip
// when nothing is selected.
func (c *Controller) SelectPrev() bool {
	return c.selectStep(-1)
}

func (c *Controller) selectStep(step int) bool {
	ordered := timeline.Sorted(c.state.Clips)
	if len(ordered) == 0 {
		return false
	}
	var next timeline.Clip
	var ok bool
	switch {
	case c.state.SelectedClipID == "" && step > 0:
		next, ok = ordered[0], true
	case c.state.SelectedClipID == "":
		next, ok = ordered[len(ordered)-1], true
	case step > 0:
		next, ok = timeline.ClipAfter(c.state.Clips, c.state.SelectedClipID)
	default:
		next, ok = timeline.ClipBefore(c.state.Clips, c.state.SelectedClipID)
	}
	if !ok {
		return false
	}
	c.state.SelectedClipID = next.ID
	return true
}

// Seek commits the playhead.
func (c *Controller) Seek(t float64) {
	c.state.Playback = c.mapper.Seek(c.state.Clips, c.state.Playback, t)
}

// Scrub previews t without moving the committed playhead.
func (c *Controller) Scrub(t float64) {
	c.state.Playback = c.mapper.Scrub(c.state.Clips, c.state.Playback, t)
}

// ScrubEnd discards the scrub preview.
func (c *Controller) ScrubEnd() {
	c.state.Playback = c.mapper.ScrubEnd(c.state.Clips, c.state.Playback)
}

// Play starts playback from the playhead.
func (c *Controller) Play() {
	c.state.Playback = c.mapper.Play(c.state.Clips, c.state.Playback)
}

// Pause stops playback.
func (c *Controller) Pause() {
	c.state.Playback = c.mapper.Pause(c.state.Playback)
}

// TogglePlay flips between Play and Pause.
func (c *Controller) TogglePlay() {
	if c.state.Playback.IsPlaying {
		c.Pause()
		return
	}
	c.Play()
}

// HandleSurfaceEvent feeds a playback surface report through the mapper.
func (c *Controller) HandleSurfaceEvent(ev playback.Event) {
	c.state.Playback = c.mapper.Handle(c.state.Clips, c.state.Playback, ev)
}

// commit installs clips as the new collection. Contiguity is restored here
// after every structural edit, whichever engine call produced clips.
func (c *Controller) commit(action string, clips []timeline.Clip) {
	clips = timeline.ReflowClips(clips)
	c.state.Clips = clips
	c.state.TotalDuration = timeline.CalculateTotalDuration(clips)
	if c.state.SelectedClipID != "" {
		if _, ok := timeline.Find(clips, c.state.SelectedClipID); !ok {
			c.state.SelectedClipID = ""
		}
	}
	c.state.Playback = c.mapper.Resync(clips, c.state.Playback)
	c.logger.Printf("%s: clips=%d total=%.3f", action, len(clips), c.state.TotalDuration)
}

// loadingJobs returns a thumbnail job for every clip still waiting on one,
// using each clip's current source range.
func (c *Controller) loadingJobs() []tea.Cmd {
	var jobs []tea.Cmd
	for _, clip := range timeline.Sorted(c.state.Clips) {
		if clip.ThumbnailsLoading {
			jobs = append(jobs, c.thumbnailJob(clip))
		}
	}
	return jobs
}

func (c *Controller) thumbnailJob(clip timeline.Clip) tea.Cmd {
	if c.thumbs == nil || clip.ID == "" {
		return nil
	}
	return thumbnailCmd(c.ctx, c.thumbs, clip, c.interval)
}

func (c *Controller) applyThumbnails(msg ThumbnailsDoneMsg) {
	for i := range c.state.Clips {
		if c.state.Clips[i].ID != msg.ClipID {
			continue
		}
		c.state.Clips[i].ThumbnailsLoading = false
		if msg.Err != nil {
			c.fail(fmt.Errorf("thumbnails for clip %s: %w", msg.ClipID, msg.Err))
			return
		}
		c.state.Clips[i].Thumbnails = msg.Thumbnails
		c.logger.Printf("thumbnails applied clip=%s count=%d", msg.ClipID, len(msg.Thumbnails))
		return
	}
	c.logger.Printf("thumbnails dropped clip=%s: clip no longer exists", msg.ClipID)
}

func (c *Controller) fail(err error) {
	c.state.Err = err.Error()
	c.logger.Printf("error: %v", err)
}
