package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// StatusWriter keeps a single spinner line on a terminal while a batch
// command works. Printf replaces the detail text, so it can stand in for a
// logger.
type StatusWriter struct {
	out   io.Writer
	frame spinner.Spinner

	mu     sync.Mutex
	phase  string
	detail string
	since  time.Time
	closed bool

	stop chan struct{}
	done chan struct{}
}

// NewStatusWriter starts rendering to out immediately.
func NewStatusWriter(out io.Writer) *StatusWriter {
	sw := &StatusWriter{
		out:   out,
		frame: spinner.MiniDot,
		since: time.Now(),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go sw.run()
	return sw
}

// Update starts a new phase and restarts the elapsed timer.
func (sw *StatusWriter) Update(phase string) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.phase = phase
	sw.detail = ""
	sw.since = time.Now()
}

// Printf sets the detail shown after the phase. Only the first line is kept.
func (sw *StatusWriter) Printf(format string, v ...any) {
	msg, _, _ := strings.Cut(fmt.Sprintf(format, v...), "\n")
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.detail = msg
}

// Stop erases the status line. It is safe to call more than once.
func (sw *StatusWriter) Stop() {
	sw.mu.Lock()
	if sw.closed {
		sw.mu.Unlock()
		return
	}
	sw.closed = true
	sw.mu.Unlock()

	close(sw.stop)
	<-sw.done
	fmt.Fprint(sw.out, "\r\033[K")
}

func (sw *StatusWriter) run() {
	defer close(sw.done)
	ticker := time.NewTicker(sw.frame.FPS)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-sw.stop:
			return
		case <-ticker.C:
			fmt.Fprint(sw.out, "\r\033[K"+sw.line(sw.frame.Frames[i%len(sw.frame.Frames)]))
		}
	}
}

func (sw *StatusWriter) line(frame string) string {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	parts := []string{frame}
	if sw.phase != "" {
		parts = append(parts, sw.phase)
	}
	if sw.detail != "" {
		parts = append(parts, faintStyle.Render(TruncateWithEllipsis(sw.detail, 60)))
	}
	parts = append(parts, fmt.Sprintf("(%s)", formatElapsed(time.Since(sw.since))))
	return strings.Join(parts, " ")
}

func formatElapsed(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < 10*time.Second:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}
