package editor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"clipreel/internal/timeline"
	"clipreel/pkg/editscript"
)

// StepResult reports what happened to one script step. Rejected steps leave
// the timeline unchanged.
type StepResult struct {
	Step    editscript.Step
	Applied bool
	Reason  string
}

// RunScript appends the script's media in order, applies its steps, then
// renders thumbnails for the clips left on the final timeline. Clips split
// or deleted along the way never get a job. Probe failures and invalid
// metadata abort the run.
func RunScript(ctx context.Context, c *Controller, script editscript.Script, concurrency int) ([]StepResult, error) {
	if c.meta == nil {
		return nil, errors.New("no metadata provider configured")
	}

	aliases := map[string]string{}
	for _, m := range script.Media {
		msg, ok := probeCmd(ctx, c.meta, m.Path)().(MediaProbedMsg)
		if !ok {
			return nil, fmt.Errorf("probe %s: unexpected result", m.Path)
		}
		if msg.Err != nil {
			return nil, fmt.Errorf("probe %s: %w", m.Path, msg.Err)
		}
		if _, err := c.AddClip(m.Path, msg.Metadata); err != nil {
			return nil, err
		}
		if m.Alias != "" {
			aliases[m.Alias] = m.Path
		}
	}

	results := make([]StepResult, 0, len(script.Steps))
	for _, step := range script.Steps {
		results = append(results, c.applyStep(step, aliases))
	}

	if err := Drain(ctx, c, concurrency, c.loadingJobs()...); err != nil {
		return results, err
	}
	return results, nil
}

func (c *Controller) applyStep(step editscript.Step, aliases map[string]string) StepResult {
	res := StepResult{Step: step}
	reject := func(format string, args ...any) StepResult {
		res.Reason = fmt.Sprintf(format, args...)
		c.logger.Printf("step line=%d %s rejected: %s", step.Line, step, res.Reason)
		return res
	}

	var (
		id  string
		err error
	)
	switch step.Kind {
	case editscript.KindTrim, editscript.KindMove, editscript.KindDelete, editscript.KindSelect:
		if id, err = c.resolveClip(step.Clip, aliases); err != nil {
			return reject("%v", err)
		}
	}

	switch step.Kind {
	case editscript.KindSplit:
		c.Seek(step.At)
		if math.Abs(c.state.Playback.CurrentTime-step.At) > timeline.Epsilon {
			return reject("%g is outside the timeline", step.At)
		}
		if _, ok := c.SplitAtPlayhead(); !ok {
			return reject("no clip to split at %g", step.At)
		}
	case editscript.KindSeek:
		c.Seek(step.At)
		if math.Abs(c.state.Playback.CurrentTime-step.At) > timeline.Epsilon {
			return reject("%g is outside the timeline", step.At)
		}
	case editscript.KindTrim:
		if !c.Trim(id, step.Start, step.End) {
			if clip, ok := timeline.Find(c.state.Clips, id); ok && clip.Metadata != nil && step.End > clip.Metadata.Duration {
				return reject("end %g is past the source duration %g", step.End, clip.Metadata.Duration)
			}
			return reject("invalid range")
		}
	case editscript.KindMove:
		c.Move(id, step.At)
	case editscript.KindDelete:
		c.Delete(id)
	case editscript.KindSelect:
		c.Select(id)
	case editscript.KindReorder:
		ids := make([]string, 0, len(step.Order))
		for _, ref := range step.Order {
			rid, err := c.resolveClip(ref, aliases)
			if err != nil {
				return reject("%v", err)
			}
			ids = append(ids, rid)
		}
		if !c.Reorder(ids) {
			return reject("order must list every clip exactly once")
		}
	default:
		return reject("unknown action")
	}
	res.Applied = true
	return res
}

// resolveClip maps a 1-based timeline position or a media alias to a clip id.
func (c *Controller) resolveClip(ref string, aliases map[string]string) (string, error) {
	ordered := timeline.Sorted(c.state.Clips)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(ordered) {
			return "", fmt.Errorf("clip %d out of range (timeline has %d clips)", n, len(ordered))
		}
		return ordered[n-1].ID, nil
	}
	path, ok := aliases[ref]
	if !ok {
		return "", fmt.Errorf("unknown clip %q", ref)
	}
	for _, clip := range ordered {
		if clip.SourceFilePath == path {
			return clip.ID, nil
		}
	}
	return "", fmt.Errorf("no clip left from %q", ref)
}
