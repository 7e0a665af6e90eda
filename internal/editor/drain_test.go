package editor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestDrainAddsMediaAndThumbnails(t *testing.T) {
	thumbs := &fakeThumbnailer{}
	c := newTestController(thumbs)

	err := Drain(context.Background(), c, 2, c.AddMedia("a.mp4"), c.AddMedia("b.mp4"), nil)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	s := c.State()
	if len(s.Clips) != 2 || s.TotalDuration != 12 {
		t.Fatalf("expected both sources added, got %+v", s.Clips)
	}
	if s.LoadingCount() != 0 {
		t.Fatalf("expected every thumbnail job applied")
	}
	if len(thumbs.calls) != 2 {
		t.Fatalf("expected two thumbnail jobs, got %v", thumbs.calls)
	}
}

func TestDrainRunsBatches(t *testing.T) {
	c := newTestController(&fakeThumbnailer{})
	if err := Drain(context.Background(), c, 1, c.AddMedia("a.mp4")); err != nil {
		t.Fatal(err)
	}
	c.Seek(4)
	cmd, ok := c.SplitAtPlayhead()
	if !ok {
		t.Fatalf("expected split")
	}
	if err := Drain(context.Background(), c, 3, cmd); err != nil {
		t.Fatal(err)
	}
	if n := c.State().LoadingCount(); n != 0 {
		t.Fatalf("expected batch jobs applied, %d still loading", n)
	}
}

func TestDrainProbeFailure(t *testing.T) {
	c := New(context.Background(), Options{Metadata: fakeProvider{err: errors.New("moov atom not found")}})
	if err := Drain(context.Background(), c, 1, c.AddMedia("broken.mp4")); err != nil {
		t.Fatal(err)
	}
	s := c.State()
	if len(s.Clips) != 0 || !strings.Contains(s.Err, "moov atom") {
		t.Fatalf("expected probe error surfaced, got %+v", s)
	}
}

func TestDrainStopsOnCancel(t *testing.T) {
	c := newTestController(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	block := make(chan struct{})
	defer close(block)
	slow := func() tea.Msg {
		<-block
		return nil
	}
	if err := Drain(ctx, c, 1, slow); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}
