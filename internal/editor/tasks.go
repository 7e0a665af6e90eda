package editor

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"clipreel/internal/timeline"
)

// MetadataProvider reads source metadata.
type MetadataProvider interface {
	Metadata(ctx context.Context, path string) (timeline.SourceMetadata, error)
}

// ThumbnailGenerator renders preview frames for one clip.
type ThumbnailGenerator interface {
	GenerateThumbnails(ctx context.Context, sourcePath, clipID string, sourceStart, sourceEnd, interval float64) ([]timeline.Thumbnail, error)
}

// MediaProbedMsg carries the result of probing a source added with AddMedia.
type MediaProbedMsg struct {
	Path     string
	Metadata timeline.SourceMetadata
	Err      error
}

// ThumbnailsDoneMsg carries the result of a thumbnail job. It is applied to
// whichever clip currently holds ClipID.
type ThumbnailsDoneMsg struct {
	ClipID     string
	Thumbnails []timeline.Thumbnail
	Err        error
}

func probeCmd(ctx context.Context, provider MetadataProvider, path string) tea.Cmd {
	return func() tea.Msg {
		meta, err := provider.Metadata(ctx, path)
		return MediaProbedMsg{Path: path, Metadata: meta, Err: err}
	}
}

func thumbnailCmd(ctx context.Context, gen ThumbnailGenerator, clip timeline.Clip, interval float64) tea.Cmd {
	// Only values cross into the job; the clip may be gone by the time it
	// finishes.
	id, src, start, end := clip.ID, clip.SourceFilePath, clip.SourceStart, clip.SourceEnd
	return func() tea.Msg {
		thumbs, err := gen.GenerateThumbnails(ctx, src, id, start, end, interval)
		return ThumbnailsDoneMsg{ClipID: id, Thumbnails: thumbs, Err: err}
	}
}
