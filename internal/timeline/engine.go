package timeline

import (
	"math"
	"sort"
)

const (
	// SnapThreshold is the distance in seconds within which a moved clip
	// snaps to a neighbouring boundary.
	SnapThreshold = 0.1
	// SplitTolerance is the minimum distance in seconds between a split
	// point and either edge of the clip being split.
	SplitTolerance = 0.1
	// MinClipDuration is the shortest clip the trim handles allow.
	MinClipDuration = 0.5
	// Epsilon absorbs floating-point drift when comparing boundaries.
	Epsilon = 1e-6
)

// Sorted returns a copy of clips ordered by TimelineStart. Clips sharing a
// start keep their relative order.
func Sorted(clips []Clip) []Clip {
	out := cloneClips(clips)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TimelineStart < out[j].TimelineStart
	})
	return out
}

// CalculateTotalDuration sums the durations of all clips.
func CalculateTotalDuration(clips []Clip) float64 {
	total := 0.0
	for _, c := range clips {
		total += c.Duration()
	}
	return total
}

// AddClip appends clip at the end of the timeline, ignoring its TimelineStart.
func AddClip(clips []Clip, clip Clip) []Clip {
	clip.TimelineStart = CalculateTotalDuration(clips)
	out := cloneClips(clips)
	return append(out, clip)
}

// RemoveClip drops the clip with the given id and reflows the remainder. The
// boolean reports whether the id was present; an unknown id still returns the
// reflowed input.
func RemoveClip(clips []Clip, id string) ([]Clip, bool) {
	out := make([]Clip, 0, len(clips))
	found := false
	for _, c := range clips {
		if c.ID == id {
			found = true
			continue
		}
		out = append(out, c)
	}
	return ReflowClips(out), found
}

// ReflowClips sorts clips by TimelineStart and lays them end to end from 0.
func ReflowClips(clips []Clip) []Clip {
	return ReorderClips(Sorted(clips))
}

// ReorderClips assigns sequential TimelineStart values in the given order,
// without sorting first. It backs drag reordering, where the caller already
// decided the order.
func ReorderClips(clips []Clip) []Clip {
	out := cloneClips(clips)
	cursor := 0.0
	for i := range out {
		out[i].TimelineStart = cursor
		cursor += out[i].Duration()
	}
	return out
}

// MoveClip relocates one clip towards desired, snapping to the nearest
// neighbour boundary within SnapThreshold, then reflows. A clip dropped on the
// exact start of another clip lands after it when dragged rightward and before
// it otherwise. Unknown ids return a copy of the input and false.
func MoveClip(clips []Clip, id string, desired float64) ([]Clip, bool) {
	idx := indexOf(clips, id)
	if idx < 0 {
		return cloneClips(clips), false
	}
	target := clips[idx]
	rightward := desired > target.TimelineStart

	others := make([]Clip, 0, len(clips)-1)
	others = append(others, clips[:idx]...)
	others = append(others, clips[idx+1:]...)
	others = Sorted(others)

	pos := SnapPosition(others, desired)
	target.TimelineStart = pos

	at := sort.Search(len(others), func(k int) bool {
		if rightward {
			return others[k].TimelineStart > pos
		}
		return others[k].TimelineStart >= pos
	})
	out := make([]Clip, 0, len(clips))
	out = append(out, others[:at]...)
	out = append(out, target)
	out = append(out, others[at:]...)
	return ReorderClips(out), true
}

// SnapPosition clamps desired to zero and snaps it to the closest of 0 and the
// boundaries of others when one lies strictly within SnapThreshold. On equal
// distance the first boundary found wins.
func SnapPosition(others []Clip, desired float64) float64 {
	pos := math.Max(0, desired)

	points := make([]float64, 0, 1+2*len(others))
	points = append(points, 0)
	for _, c := range others {
		points = append(points, c.TimelineStart, c.TimelineEnd())
	}

	best := pos
	bestDist := SnapThreshold
	for _, p := range points {
		if d := math.Abs(p - pos); d < bestDist {
			best = p
			bestDist = d
		}
	}
	return best
}

// UpdateClipTrim replaces the source range of the clip with the given id. It
// neither validates the range nor reflows; see ClampTrim and ReflowClips.
func UpdateClipTrim(clips []Clip, id string, sourceStart, sourceEnd float64) ([]Clip, bool) {
	out := cloneClips(clips)
	idx := indexOf(out, id)
	if idx < 0 {
		return out, false
	}
	out[idx].SourceStart = sourceStart
	out[idx].SourceEnd = sourceEnd
	return out, true
}

// GetClipAtTime returns the clip whose half-open interval contains t.
func GetClipAtTime(clips []Clip, t float64) (Clip, bool) {
	for _, c := range Sorted(clips) {
		if c.Contains(t) {
			return c, true
		}
	}
	return Clip{}, false
}

// ClipAfter returns the clip that follows id in timeline order.
func ClipAfter(clips []Clip, id string) (Clip, bool) {
	sorted := Sorted(clips)
	idx := indexOf(sorted, id)
	if idx < 0 || idx+1 >= len(sorted) {
		return Clip{}, false
	}
	return sorted[idx+1], true
}

// ClipBefore returns the clip that precedes id in timeline order.
func ClipBefore(clips []Clip, id string) (Clip, bool) {
	sorted := Sorted(clips)
	idx := indexOf(sorted, id)
	if idx <= 0 {
		return Clip{}, false
	}
	return sorted[idx-1], true
}

// Split is the outcome of a successful SplitClip.
type Split struct {
	Clips []Clip
	Left  Clip
	Right Clip
}

// SplitClip cuts the clip under timeline time at into two clips with fresh
// ids. It refuses when no clip covers at, or when the cut would land within
// SplitTolerance of either edge of the clip. Neither piece keeps thumbnails.
func SplitClip(clips []Clip, at float64) (Split, bool) {
	sorted := Sorted(clips)
	idx := -1
	for i, c := range sorted {
		if c.Contains(at) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Split{}, false
	}
	target := sorted[idx]

	cut := target.SourceStart + (at - target.TimelineStart)
	if cut-target.SourceStart < SplitTolerance || target.SourceEnd-cut < SplitTolerance {
		return Split{}, false
	}

	left := target
	left.ID = newID()
	left.SourceEnd = cut
	left.Thumbnails = nil
	left.ThumbnailsLoading = false

	right := target
	right.ID = newID()
	right.SourceStart = cut
	right.TimelineStart = left.TimelineEnd()
	right.Thumbnails = nil
	right.ThumbnailsLoading = false

	out := make([]Clip, 0, len(sorted)+1)
	out = append(out, sorted[:idx]...)
	out = append(out, left, right)
	out = append(out, sorted[idx+1:]...)
	out = ReorderClips(out)

	return Split{Clips: out, Left: out[idx], Right: out[idx+1]}, true
}

// ValidateNoOverlaps reports whether no two clips overlap on the timeline.
func ValidateNoOverlaps(clips []Clip) bool {
	sorted := Sorted(clips)
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].TimelineEnd() > sorted[i].TimelineStart+Epsilon {
			return false
		}
	}
	return true
}

// IsContiguous reports whether clips start at 0 and leave no gaps.
func IsContiguous(clips []Clip) bool {
	sorted := Sorted(clips)
	cursor := 0.0
	for _, c := range sorted {
		if math.Abs(c.TimelineStart-cursor) > Epsilon {
			return false
		}
		cursor = c.TimelineEnd()
	}
	return true
}
