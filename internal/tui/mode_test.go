package tui

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestDetectMode(t *testing.T) {
	var buf bytes.Buffer
	if got := DetectMode(&buf, false, true); got != ModeJSON {
		t.Fatalf("json flag: got %s", got)
	}
	if got := DetectMode(&buf, true, false); got != ModePlain {
		t.Fatalf("no-progress flag: got %s", got)
	}
	if got := DetectMode(&buf, false, false); got != ModePlain {
		t.Fatalf("buffer: got %s", got)
	}

	f, err := os.Create(filepath.Join(t.TempDir(), "out.log"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if got := DetectMode(f, false, false); got != ModePlain {
		t.Fatalf("regular file: got %s", got)
	}
}
