package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"clipreel/internal/media"
)

// fakeRunner answers ffprobe with a duration keyed by file name and makes
// ffmpeg write its output file.
type fakeRunner struct {
	mu        sync.Mutex
	durations map[string]float64
	calls     []string
}

func (f *fakeRunner) Run(_ context.Context, command string, args []string, _ media.RunOptions) (media.RunResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, filepath.Base(command)+" "+strings.Join(args, " "))
	f.mu.Unlock()

	if len(args) == 1 && args[0] == "-version" {
		return media.RunResult{Stdout: []byte(filepath.Base(command) + " version 6.1.1 Copyright (c) 2000-2023\n")}, nil
	}
	target := args[len(args)-1]
	switch filepath.Base(command) {
	case "ffprobe":
		d, ok := f.durations[filepath.Base(target)]
		if !ok {
			return media.RunResult{Stderr: []byte(target + ": No such file or directory")}, errors.New("exit status 1")
		}
		out := fmt.Sprintf(`{"format": {"duration": "%g"}, "streams": [{"codec_type": "video", "codec_name": "h264", "width": 1280, "height": 720, "avg_frame_rate": "25/1"}]}`, d)
		return media.RunResult{Stdout: []byte(out)}, nil
	case "ffmpeg":
		return media.RunResult{}, os.WriteFile(target, []byte("jpeg"), 0o644)
	}
	return media.RunResult{}, fmt.Errorf("unexpected command %s", command)
}

func (f *fakeRunner) count(tool string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, tool+" ") {
			n++
		}
	}
	return n
}

// useFakeTools swaps the process seams for the duration of the test.
func useFakeTools(t *testing.T, durations map[string]float64) *fakeRunner {
	t.Helper()
	runner := &fakeRunner{durations: durations}
	prevRunner, prevResolve := newRunner, resolveTool
	newRunner = func() media.Runner { return runner }
	resolveTool = func(name, _ string) (string, error) { return name, nil }
	t.Cleanup(func() {
		newRunner = prevRunner
		resolveTool = prevResolve
	})
	return runner
}

// newProject runs init in a fresh directory and returns its root.
func newProject(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "reel")
	if _, err := runCLI(t, "init", dir); err != nil {
		t.Fatalf("init: %v", err)
	}
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
