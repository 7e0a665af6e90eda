package media

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"clipreel/internal/timeline"
)

const libraryVersion = 1

var nowFunc = time.Now

// Library records the sources imported into a project. Only the library is
// persisted; the timeline itself starts empty every session.
type Library struct {
	Version int               `json:"version"`
	Sources map[string]Source `json:"sources"`
}

// Source is one imported media file.
type Source struct {
	Path     string                   `json:"path"`
	Key      string                   `json:"key"`
	AddedAt  time.Time                `json:"added_at"`
	Metadata *timeline.SourceMetadata `json:"metadata,omitempty"`
}

// LoadLibrary reads the library index, returning an empty library when the
// file does not exist yet.
func LoadLibrary(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newLibrary(), nil
		}
		return nil, fmt.Errorf("read library: %w", err)
	}

	var lib Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("decode library: %w", err)
	}
	if lib.Version == 0 {
		lib.Version = libraryVersion
	}
	if lib.Sources == nil {
		lib.Sources = map[string]Source{}
	}
	return &lib, nil
}

// Save writes the library atomically.
func (l *Library) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure library dir: %w", err)
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encode library: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write library: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace library: %w", err)
	}
	return nil
}

// Add records sourcePath, replacing the cached metadata of an existing entry.
func (l *Library) Add(sourcePath string, meta *timeline.SourceMetadata) Source {
	key := libraryKey(sourcePath)
	src, ok := l.Sources[key]
	if !ok {
		src = Source{Path: key, Key: SourceKey(sourcePath), AddedAt: nowFunc().UTC()}
	}
	if meta != nil {
		md := *meta
		src.Metadata = &md
	}
	l.Sources[key] = src
	return src
}

// Get returns the entry for sourcePath.
func (l *Library) Get(sourcePath string) (Source, bool) {
	src, ok := l.Sources[libraryKey(sourcePath)]
	return src, ok
}

// List returns sources ordered by the time they were added.
func (l *Library) List() []Source {
	out := make([]Source, 0, len(l.Sources))
	for _, src := range l.Sources {
		out = append(out, src)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].Path < out[j].Path
		}
		return out[i].AddedAt.Before(out[j].AddedAt)
	})
	return out
}

// Remove drops sourcePath from the library and deletes every thumbnail cut
// from it beneath thumbnailsDir. Thumbnails are only reclaimed here, not when
// a clip is deleted from the timeline.
func (l *Library) Remove(sourcePath, thumbnailsDir string) (Source, bool, error) {
	key := libraryKey(sourcePath)
	src, ok := l.Sources[key]
	if !ok {
		return Source{}, false, nil
	}
	delete(l.Sources, key)
	if thumbnailsDir != "" {
		if err := os.RemoveAll(SourceThumbnailDir(thumbnailsDir, src.Path)); err != nil {
			return src, true, fmt.Errorf("remove thumbnails: %w", err)
		}
	}
	return src, true, nil
}

func newLibrary() *Library {
	return &Library{Version: libraryVersion, Sources: map[string]Source{}}
}

func libraryKey(sourcePath string) string {
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		return filepath.Clean(sourcePath)
	}
	return abs
}
