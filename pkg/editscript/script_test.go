package editscript

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `
media:
  - intro.mp4
  - path: /abs/interview.mov
    as: talk
steps:
  - split: 12.5
  - trim: {clip: talk, start: 1, end: "0:42.5"}
  - move:
      clip: 3
      to: 0
  - reorder: [2, 1, 3]
  - delete: 2
  - select: talk
  - seek: "1:00"
`

func TestLoadScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cut.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	script, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(script.Media) != 2 {
		t.Fatalf("expected 2 media entries, got %d", len(script.Media))
	}
	if script.Media[0].Path != filepath.Join(dir, "intro.mp4") {
		t.Errorf("expected relative path resolved against script dir, got %s", script.Media[0].Path)
	}
	if script.Media[1].Path != "/abs/interview.mov" || script.Media[1].Alias != "talk" {
		t.Errorf("unexpected second media entry %+v", script.Media[1])
	}

	want := []string{
		"split 12.5",
		"trim talk [1,42.5)",
		"move 3 to 0",
		"reorder 2,1,3",
		"delete 2",
		"select talk",
		"seek 60",
	}
	if len(script.Steps) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(script.Steps))
	}
	for i, step := range script.Steps {
		if step.String() != want[i] {
			t.Errorf("step %d: expected %q, got %q", i, want[i], step.String())
		}
	}
	if script.Steps[0].Line != 7 {
		t.Errorf("expected first step on line 7, got %d", script.Steps[0].Line)
	}
}

func TestParseCollectsValidationErrors(t *testing.T) {
	doc := `
media:
  - a.mp4
  - {as: b}
  - {path: c.mp4, as: x}
  - {path: d.mp4, as: x}
steps:
  - split: soon
  - trim: {clip: 1, start: 4, end: 2}
  - move: {clip: 1}
  - explode: 1
  - seek: 1
    select: 2
  - seek: 3
`
	script, err := Parse([]byte(doc))
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(verrs.Issues()) != 7 {
		t.Fatalf("expected 7 issues, got %d: %v", len(verrs), err)
	}
	msg := err.Error()
	for _, want := range []string{
		"line 4: path is required",
		`duplicate alias "x"`,
		`invalid time "soon"`,
		"start 4 must be before end 2",
		"to is required",
		`unknown action "explode"`,
		"exactly one action",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
	if len(script.Media) != 2 || len(script.Steps) != 1 {
		t.Fatalf("expected valid entries kept, got %d media %d steps", len(script.Media), len(script.Steps))
	}
}

func TestParseEmptyAndMissingMedia(t *testing.T) {
	if _, err := Parse([]byte("  \n")); err == nil {
		t.Fatalf("expected empty script error")
	}
	_, err := Parse([]byte("steps:\n  - seek: 1\n"))
	if err == nil || !strings.Contains(err.Error(), "at least one media entry") {
		t.Fatalf("expected missing media error, got %v", err)
	}
	_, err = Parse([]byte("media: a.mp4\n"))
	if err == nil || !strings.Contains(err.Error(), "must be a list") {
		t.Fatalf("expected list error, got %v", err)
	}
}

func TestParseSeconds(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"12.5", 12.5, false},
		{"1:02.5", 62.5, false},
		{"1:00:00", 3600, false},
		{"0:75", 0, true},
		{"1.5:00", 0, true},
		{"-3", 0, true},
		{"1:2:3:4", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSeconds(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSeconds(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseSeconds(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidationErrorsIssuesOrderedByLine(t *testing.T) {
	errs := ValidationErrors{
		{Line: 9, Field: "trim", Message: "bad"},
		{Message: "empty"},
		{Line: 3, Message: "first"},
	}
	issues := errs.Issues()
	if issues[0].Line != 0 || issues[1].Line != 3 || issues[2].Line != 9 {
		t.Fatalf("expected issues ordered by line, got %+v", issues)
	}
	if errs[0].Line != 9 {
		t.Fatalf("Issues must not reorder the receiver")
	}
	if got := issues[0].Error(); got != "script: empty" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := issues[2].Error(); got != "line 9: trim bad" {
		t.Fatalf("unexpected message %q", got)
	}
}
