package media

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// MinimumVersion is the oldest ffmpeg/ffprobe release the probe and
// thumbnail arguments are known to work with.
const MinimumVersion = "4.0"

// ResolveTool returns the executable to run for name. An explicit override
// from the project config wins; otherwise the binary is looked up on PATH.
func ResolveTool(name, override string) (string, error) {
	candidate := strings.TrimSpace(override)
	if candidate == "" {
		candidate = name
	}
	path, err := exec.LookPath(candidate)
	if err != nil {
		return "", fmt.Errorf("locate %s: %w", name, err)
	}
	return path, nil
}

var versionPattern = regexp.MustCompile(`version\s+n?([0-9]+(?:\.[0-9]+){0,2})`)

// ToolVersion runs "<path> -version" and returns the release number from the
// banner, e.g. "6.1.1". Git builds without a release number return the raw
// first line.
func ToolVersion(ctx context.Context, runner Runner, path string) (string, error) {
	if runner == nil {
		runner = CmdRunner{}
	}
	result, err := runner.Run(ctx, path, []string{"-version"}, RunOptions{})
	if err != nil {
		return "", fmt.Errorf("%s -version: %w", path, err)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(result.Stdout)), "\n")
	if m := versionPattern.FindStringSubmatch(line); m != nil {
		return m[1], nil
	}
	return line, nil
}

// MeetsMinimum compares dotted versions numerically. A version with no
// numeric parts never meets a non-empty minimum.
func MeetsMinimum(version, minimum string) bool {
	if minimum == "" {
		return true
	}
	v, m := numericParts(version), numericParts(minimum)
	if len(v) == 0 {
		return false
	}
	for len(v) < len(m) {
		v = append(v, 0)
	}
	for len(m) < len(v) {
		m = append(m, 0)
	}
	for i := range v {
		if v[i] != m[i] {
			return v[i] > m[i]
		}
	}
	return true
}

func numericParts(version string) []int {
	var parts []int
	for _, field := range strings.FieldsFunc(version, func(r rune) bool { return r < '0' || r > '9' }) {
		n, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		parts = append(parts, n)
	}
	return parts
}
