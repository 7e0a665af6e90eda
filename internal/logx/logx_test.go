package logx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"clipreel/internal/paths"
)

func TestNewWritesTimestampedFile(t *testing.T) {
	pp, err := paths.Resolve(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	prev := now
	now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }
	t.Cleanup(func() { now = prev })

	logger, closer, err := New(pp, "apply")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Printf("split clip=%s", "abc")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(pp.LogsDir, "20260304-050607-apply.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "split clip=abc") {
		t.Fatalf("expected log line, got %q", data)
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	pp, err := paths.Resolve(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(pp.LogsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	names := []string{"20260101-000000-init.log", "20260102-000000-apply.log", "20260103-000000-edit.log", "notes.txt"}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(pp.LogsDir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := Prune(pp, 2)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	if _, err := os.Stat(filepath.Join(pp.LogsDir, names[0])); !os.IsNotExist(err) {
		t.Fatalf("expected oldest log removed")
	}
	for _, name := range names[1:] {
		if _, err := os.Stat(filepath.Join(pp.LogsDir, name)); err != nil {
			t.Fatalf("expected %s kept: %v", name, err)
		}
	}
}
