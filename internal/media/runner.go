package media

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// Logger is the subset of *log.Logger the media collaborators use.
type Logger interface {
	Printf(format string, v ...any)
}

type noopLogger struct{}

func (noopLogger) Printf(string, ...any) {}

func loggerOrNoop(l Logger) Logger {
	if l == nil {
		return noopLogger{}
	}
	return l
}

// RunOptions tunes a single ffmpeg or ffprobe invocation.
type RunOptions struct {
	// Dir is the working directory; empty means the current one.
	Dir string
}

// RunResult is the captured output of a finished process.
type RunResult struct {
	Stdout  []byte
	Stderr  []byte
	Elapsed time.Duration
}

// Runner starts ffprobe and ffmpeg. Tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, command string, args []string, opts RunOptions) (RunResult, error)
}

// CmdRunner runs real processes. Cancelling ctx kills the process.
type CmdRunner struct{}

// Run waits for command to exit and returns both output streams, even when
// the process fails.
func (CmdRunner) Run(ctx context.Context, command string, args []string, opts RunOptions) (RunResult, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = opts.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	return RunResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes(), Elapsed: time.Since(start)}, err
}

var _ Runner = CmdRunner{}
