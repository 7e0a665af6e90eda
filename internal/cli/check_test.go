package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckCommand(t *testing.T) {
	useFakeTools(t, nil)
	dir := newProject(t)

	out, err := runCLI(t, "check", "--project", dir, "--json", "--strict")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	var report checkReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if len(report.Tools) != 2 {
		t.Fatalf("expected two tools, got %+v", report.Tools)
	}
	for _, st := range report.Tools {
		if st.Version != "6.1.1" || st.Outdated || st.Error != "" {
			t.Fatalf("unexpected tool status %+v", st)
		}
	}
	if len(report.Validations) != 0 {
		t.Fatalf("expected clean config, got %+v", report.Validations)
	}
}

func TestCheckCommandConfigErrors(t *testing.T) {
	useFakeTools(t, nil)
	dir := newProject(t)
	cfg := "version: 1\nthumbnails:\n  interval_s: -1\n"
	if err := os.WriteFile(filepath.Join(dir, "clipreel.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "check", "--project", dir)
	if err == nil {
		t.Fatalf("expected configuration error")
	}
	if !strings.Contains(out, "error:") || !strings.Contains(out, "interval") {
		t.Fatalf("expected interval problem in output:\n%s", out)
	}
}
