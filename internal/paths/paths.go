package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// ProjectPaths captures canonical locations for a clipreel project.
type ProjectPaths struct {
	Root          string
	ConfigFile    string
	MetaDir       string
	LogsDir       string
	ThumbnailsDir string
	LibraryFile   string
	ExportsDir    string
}

// Resolve determines the project root using the optional --project flag or the
// current working directory when the flag is empty.
func Resolve(projectFlag string) (ProjectPaths, error) {
	var (
		root string
		err  error
	)

	if projectFlag != "" {
		root, err = filepath.Abs(projectFlag)
	} else {
		root, err = os.Getwd()
	}
	if err != nil {
		return ProjectPaths{}, fmt.Errorf("resolve project root: %w", err)
	}

	return newProjectPaths(root), nil
}

func newProjectPaths(root string) ProjectPaths {
	metaDir := filepath.Join(root, ".clipreel")
	return ProjectPaths{
		Root:          root,
		ConfigFile:    filepath.Join(root, "clipreel.yaml"),
		MetaDir:       metaDir,
		LogsDir:       filepath.Join(metaDir, "logs"),
		ThumbnailsDir: filepath.Join(metaDir, "thumbnails"),
		LibraryFile:   filepath.Join(metaDir, "library.json"),
		ExportsDir:    filepath.Join(root, "exports"),
	}
}

// Resolve returns value as an absolute path, treating relative values as
// relative to the project root.
func (p ProjectPaths) Resolve(value string) string {
	if value == "" {
		return ""
	}
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(p.Root, value)
}

// EnsureRoot makes sure the project root exists on disk.
func (p ProjectPaths) EnsureRoot() error {
	if err := os.MkdirAll(p.Root, 0o755); err != nil {
		return fmt.Errorf("create project root: %w", err)
	}
	return nil
}

// EnsureMetaDirs creates the hidden .clipreel directory with its logs and
// thumbnails subdirectories.
func (p ProjectPaths) EnsureMetaDirs() error {
	dirs := []string{p.MetaDir, p.LogsDir, p.ThumbnailsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
