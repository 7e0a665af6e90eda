package tui

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// OutputMode selects how a batch command reports progress.
type OutputMode int

const (
	// ModeTUI shows a live status line on a terminal.
	ModeTUI OutputMode = iota
	// ModePlain prints tables once the work is done.
	ModePlain
	// ModeJSON prints a single JSON document.
	ModeJSON
)

func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModePlain:
		return "plain"
	case ModeJSON:
		return "json"
	}
	return "unknown"
}

// DetectMode picks the output mode for out. Live status is only used on an
// interactive terminal that is not TERM=dumb.
func DetectMode(out io.Writer, noProgress, jsonOutput bool) OutputMode {
	switch {
	case jsonOutput:
		return ModeJSON
	case noProgress:
		return ModePlain
	}
	f, ok := out.(*os.File)
	if !ok || !isTerminal(f) {
		return ModePlain
	}
	if term := os.Getenv("TERM"); strings.EqualFold(term, "dumb") {
		return ModePlain
	}
	return ModeTUI
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
