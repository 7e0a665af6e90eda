package timeline

import "math"

// sourceLimit is the longest valid SourceEnd for c, or +Inf when the source
// duration is unknown.
func sourceLimit(c Clip) float64 {
	if c.Metadata != nil && c.Metadata.Duration > 0 {
		return c.Metadata.Duration
	}
	return math.Inf(1)
}

// ClampTrimStart bounds a dragged in-handle: it may not go below 0 or leave
// less than MinClipDuration before the current SourceEnd.
func ClampTrimStart(c Clip, start float64) float64 {
	start = math.Max(0, start)
	return math.Min(start, c.SourceEnd-MinClipDuration)
}

// ClampTrimEnd bounds a dragged out-handle: it may not pass the source
// duration or leave less than MinClipDuration after the current SourceStart.
func ClampTrimEnd(c Clip, end float64) float64 {
	end = math.Min(end, sourceLimit(c))
	return math.Max(end, c.SourceStart+MinClipDuration)
}

// ClampTrim bounds a full source range for c. The start is fixed first, then
// the end is pushed out to honour MinClipDuration.
func ClampTrim(c Clip, start, end float64) (float64, float64) {
	limit := sourceLimit(c)
	start = math.Max(0, start)
	if !math.IsInf(limit, 1) {
		start = math.Min(start, math.Max(0, limit-MinClipDuration))
	}
	end = math.Min(end, limit)
	end = math.Max(end, start+MinClipDuration)
	return start, end
}
