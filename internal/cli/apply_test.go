package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipreel/internal/media"
)

const splitScript = `media:
  - path: a.mp4
    as: intro
  - b.mp4
steps:
  - split: 3
  - delete: 2
  - trim: {clip: 9, start: 0, end: 1}
`

func TestApplyCommandJSON(t *testing.T) {
	runner := useFakeTools(t, map[string]float64{"a.mp4": 4, "b.mp4": 6})
	dir := newProject(t)
	script := filepath.Join(dir, "edit.yaml")
	if err := os.WriteFile(script, []byte(splitScript), 0o644); err != nil {
		t.Fatal(err)
	}
	concat := filepath.Join(dir, "exports", "reel.ffconcat")
	edl := filepath.Join(dir, "exports", "reel.edl")

	out, err := runCLI(t, "apply", script, "--project", dir, "--json", "--concat", concat, "--edl", edl)
	if err != nil {
		t.Fatalf("apply: %v\n%s", err, out)
	}

	var result applyOutput
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(result.Steps) != 3 {
		t.Fatalf("expected 3 step results, got %+v", result.Steps)
	}
	if !result.Steps[0].Applied || !result.Steps[1].Applied {
		t.Fatalf("expected split and delete to apply, got %+v", result.Steps)
	}
	if result.Steps[2].Applied || !strings.Contains(result.Steps[2].Reason, "out of range") {
		t.Fatalf("expected trim of clip 9 to be rejected, got %+v", result.Steps[2])
	}
	if result.TotalDuration != 9 {
		t.Fatalf("expected total 9, got %v", result.TotalDuration)
	}
	if len(result.Clips) != 2 {
		t.Fatalf("expected 2 clips, got %+v", result.Clips)
	}
	first, second := result.Clips[0], result.Clips[1]
	if filepath.Base(first.SourceFilePath) != "a.mp4" || first.SourceEnd != 3 {
		t.Fatalf("unexpected first clip %+v", first)
	}
	if filepath.Base(second.SourceFilePath) != "b.mp4" || second.TimelineStart != 3 {
		t.Fatalf("unexpected second clip %+v", second)
	}
	if first.Thumbnails != 3 || second.Thumbnails != 6 {
		t.Fatalf("expected thumbnails for surviving clips, got %d and %d", first.Thumbnails, second.Thumbnails)
	}
	if runner.count("ffprobe") != 2 {
		t.Fatalf("expected one probe per source, got %d", runner.count("ffprobe"))
	}

	data, err := os.ReadFile(concat)
	if err != nil {
		t.Fatalf("read concat: %v", err)
	}
	if !strings.HasPrefix(string(data), "ffconcat version 1.0\n") || strings.Count(string(data), "file '") != 2 {
		t.Fatalf("unexpected concat script:\n%s", data)
	}
	data, err = os.ReadFile(edl)
	if err != nil {
		t.Fatalf("read edl: %v", err)
	}
	if !strings.Contains(string(data), "TITLE: clipreel") || !strings.Contains(string(data), "002  AX") {
		t.Fatalf("unexpected edl:\n%s", data)
	}

	lib, err := media.LoadLibrary(filepath.Join(dir, ".clipreel", "library.json"))
	if err != nil {
		t.Fatalf("load library: %v", err)
	}
	if len(lib.List()) != 2 {
		t.Fatalf("expected both sources recorded, got %+v", lib.List())
	}
}

func TestApplyCommandPlainOutput(t *testing.T) {
	useFakeTools(t, map[string]float64{"a.mp4": 4, "b.mp4": 6})
	dir := newProject(t)
	script := filepath.Join(dir, "edit.yaml")
	if err := os.WriteFile(script, []byte(splitScript), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "apply", script, "--project", dir, "--no-progress", "--no-library")
	if err != nil {
		t.Fatalf("apply: %v\n%s", err, out)
	}
	for _, want := range []string{"LINE", "rejected", "SOURCE", "Total: 0:09.000 across 2 clips"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, ".clipreel", "library.json")); !os.IsNotExist(err) {
		t.Fatalf("expected no library with --no-library, stat err=%v", err)
	}
}

func TestApplyCommandInvalidScript(t *testing.T) {
	useFakeTools(t, nil)
	dir := newProject(t)
	script := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(script, []byte("media:\n  - a.mp4\nsteps:\n  - explode: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "apply", script, "--project", dir)
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	if !strings.Contains(out, "line 4:") {
		t.Fatalf("expected line-numbered problem, got %q", out)
	}
}

func TestApplyCommandProbeFailure(t *testing.T) {
	useFakeTools(t, map[string]float64{"a.mp4": 4})
	dir := newProject(t)
	script := filepath.Join(dir, "edit.yaml")
	if err := os.WriteFile(script, []byte("media:\n  - a.mp4\n  - missing.mp4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := runCLI(t, "apply", script, "--project", dir, "--no-progress")
	if err == nil || !strings.Contains(err.Error(), "missing.mp4") {
		t.Fatalf("expected probe failure naming the file, got %v", err)
	}
}
