package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"clipreel/internal/config"
	"clipreel/internal/logx"
	"clipreel/internal/paths"
)

const sampleScript = `# Edit script for "clipreel apply". Media paths are relative to this file.
# media:
#   - intro.mp4
#   - path: interview.mov
#     as: talk
# steps:
#   - split: 12.5
#   - trim: {clip: talk, start: 1, end: "0:42.5"}
#   - reorder: [2, 1, 3]
#   - delete: 2
`

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a clipreel project",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}
}

func resolveInitDir(projectFlag string, args []string) (string, error) {
	if projectFlag != "" {
		return projectFlag, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	if len(args) > 0 {
		if args[0] == "." {
			return cwd, nil
		}
		if filepath.IsAbs(args[0]) {
			return args[0], nil
		}
		return filepath.Join(cwd, args[0]), nil
	}

	return nextAvailableDir(cwd)
}

func nextAvailableDir(base string) (string, error) {
	for i := 1; ; i++ {
		candidate := filepath.Join(base, fmt.Sprintf("clipreel-%d", i))
		exists, err := paths.DirExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := resolveInitDir(projectDir, args)
	if err != nil {
		return err
	}

	pp, err := paths.Resolve(dir)
	if err != nil {
		return err
	}
	if err := pp.EnsureRoot(); err != nil {
		return err
	}
	if err := pp.EnsureMetaDirs(); err != nil {
		return err
	}

	logger, closer, err := logx.New(pp, "init")
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Printf("clipreel init: project=%s", pp.Root)

	created := make([]string, 0, 2)
	if err := ensureConfig(pp, &created, logger); err != nil {
		return err
	}
	if err := ensureFile(filepath.Join(pp.Root, "edit.yaml"), sampleScript, &created, logger); err != nil {
		return err
	}

	if len(created) == 0 {
		cmd.Printf("Project already initialized at %s\n", pp.Root)
		return nil
	}

	cmd.Printf("Initialized project at %s\n", pp.Root)
	for _, entry := range created {
		cmd.Printf("  created %s\n", entry)
	}
	return nil
}

func ensureFile(path, contents string, created *[]string, logger Logger) error {
	exists, err := paths.FileExists(path)
	if err != nil {
		return fmt.Errorf("check %s: %w", filepath.Base(path), err)
	}
	if exists {
		logger.Printf("file exists: %s", path)
		return nil
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	logger.Printf("created %s", path)
	*created = append(*created, filepath.Base(path))
	return nil
}

func ensureConfig(pp paths.ProjectPaths, created *[]string, logger Logger) error {
	cfg := config.Default()
	cfg.ApplyDefaults()
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	return ensureFile(pp.ConfigFile, string(data), created, logger)
}
