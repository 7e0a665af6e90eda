// Package logx opens the per-command log files kept under .clipreel/logs.
package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"clipreel/internal/paths"
)

// Keep is how many log files Prune leaves behind.
const Keep = 50

var now = time.Now

// New opens <logs>/<timestamp>-<command>.log for appending. Close the returned
// closer when the command finishes.
func New(p paths.ProjectPaths, command string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(p.LogsDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure logs directory: %w", err)
	}

	name := now().Format("20060102-150405")
	if command != "" {
		name += "-" + command
	}
	file, err := os.OpenFile(filepath.Join(p.LogsDir, name+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return log.New(file, "", log.LstdFlags|log.Lmicroseconds), file, nil
}

// Prune deletes all but the newest keep log files. File names start with a
// sortable timestamp, so name order is age order.
func Prune(p paths.ProjectPaths, keep int) (int, error) {
	entries, err := os.ReadDir(p.LogsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read logs directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".log") {
			names = append(names, e.Name())
		}
	}
	if len(names) <= keep {
		return 0, nil
	}
	sort.Strings(names)
	removed := 0
	for _, name := range names[:len(names)-keep] {
		if err := os.Remove(filepath.Join(p.LogsDir, name)); err != nil {
			return removed, fmt.Errorf("remove old log: %w", err)
		}
		removed++
	}
	return removed, nil
}
