package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"clipreel/internal/config"
	"clipreel/internal/editor"
	"clipreel/internal/logx"
	"clipreel/internal/media"
	"clipreel/internal/paths"
)

// Logger keeps the subset of log.Logger used locally, enabling easy testing.
type Logger interface {
	Printf(format string, v ...any)
}

// Seams for tests: the real commands shell out to ffmpeg and ffprobe.
var (
	newRunner   = func() media.Runner { return media.CmdRunner{} }
	resolveTool = media.ResolveTool
)

// project bundles what every command needs once the project is resolved.
type project struct {
	paths  paths.ProjectPaths
	config config.Config
	logger Logger
	closer io.Closer
}

func (p *project) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

// openProject resolves the project directory, loads clipreel.yaml and opens
// the command's log file.
func openProject(command string) (*project, error) {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return nil, err
	}
	exists, err := paths.DirExists(pp.Root)
	if err != nil {
		return nil, fmt.Errorf("stat project dir: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("project directory does not exist: %s", pp.Root)
	}
	if err := pp.EnsureMetaDirs(); err != nil {
		return nil, err
	}

	logger, closer, err := logx.New(pp, command)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		closer.Close()
		return nil, err
	}
	logger.Printf("clipreel %s: project=%s config_version=%d", command, pp.Root, cfg.Version)
	if removed, err := logx.Prune(pp, logx.Keep); err != nil {
		logger.Printf("prune logs: %v", err)
	} else if removed > 0 {
		logger.Printf("pruned %d old log files", removed)
	}

	return &project{paths: pp, config: cfg, logger: logger, closer: closer}, nil
}

func (p *project) prober() (*media.Prober, error) {
	bin, err := resolveTool("ffprobe", p.toolOverride(p.config.Tools.FFprobe))
	if err != nil {
		return nil, err
	}
	return media.NewProber(bin, newRunner(), p.logger), nil
}

// thumbnailer returns nil when thumbnails are disabled in the config.
func (p *project) thumbnailer(logger Logger) (*media.Thumbnailer, error) {
	if !p.config.Thumbnails.EnabledValue() {
		return nil, nil
	}
	bin, err := resolveTool("ffmpeg", p.toolOverride(p.config.Tools.FFmpeg))
	if err != nil {
		return nil, err
	}
	return media.NewThumbnailer(bin, p.paths.ThumbnailsDir, p.config.Thumbnails.Width, p.config.Thumbnails.MaxPerClip, newRunner(), logger), nil
}

// toolOverride resolves a configured tool path against the project root.
// Bare names are left for PATH lookup.
func (p *project) toolOverride(value string) string {
	if value == "" || filepath.Base(value) == value {
		return value
	}
	return p.paths.Resolve(value)
}

// editorOptions wires the project's collaborators into controller options.
func (p *project) editorOptions(logger Logger) (editor.Options, error) {
	prober, err := p.prober()
	if err != nil {
		return editor.Options{}, err
	}
	opts := editor.Options{
		Metadata:          prober,
		ThumbnailInterval: p.config.Thumbnails.IntervalSec,
		Logger:            logger,
	}
	thumbs, err := p.thumbnailer(logger)
	if err != nil {
		return editor.Options{}, err
	}
	if thumbs != nil {
		opts.Thumbnails = thumbs
	}
	return opts, nil
}

// multiLogger fans a log line out to several sinks.
type multiLogger []Logger

func (m multiLogger) Printf(format string, v ...any) {
	for _, l := range m {
		l.Printf(format, v...)
	}
}
