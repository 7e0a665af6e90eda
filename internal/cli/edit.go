package cli

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"clipreel/internal/editor"
	"clipreel/internal/media"
	"clipreel/internal/playback"
	"clipreel/internal/tui"
)

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [file...]",
		Short: "Open the interactive timeline editor",
		Long: `Open the interactive timeline editor.

Files given on the command line are placed on the timeline in order. With no
arguments every source in the project library is loaded instead.`,
		RunE: runEdit,
	}
}

func runEdit(cmd *cobra.Command, args []string) error {
	proj, err := openProject("edit")
	if err != nil {
		return err
	}
	defer proj.Close()

	lib, err := media.LoadLibrary(proj.paths.LibraryFile)
	if err != nil {
		return err
	}
	sources := args
	if len(sources) == 0 {
		for _, src := range lib.List() {
			sources = append(sources, src.Path)
		}
	}
	if len(sources) == 0 {
		return errors.New("no media: pass files to edit or add them with 'clipreel library add'")
	}

	opts, err := proj.editorOptions(proj.logger)
	if err != nil {
		return err
	}
	clock := playback.NewClock()
	opts.Surface = clock
	ctrl := editor.New(cmd.Context(), opts)

	pending := seedFromLibrary(ctrl, lib, sources, proj.logger)
	model := tui.NewEditorModel(tui.EditorOptions{
		Controller:   ctrl,
		Clock:        clock,
		Media:        pending.probe,
		Initial:      pending.cmds,
		TickInterval: time.Duration(proj.config.Playback.TickMS) * time.Millisecond,
		SeekStep:     proj.config.Editing.SeekStepSec,
		TrimStep:     proj.config.Editing.TrimStepSec,
		Title:        proj.config.Export.Title,
	})
	if err := tui.RunEditor(cmd.InOrStdin(), cmd.OutOrStdout(), model); err != nil {
		return err
	}

	state := ctrl.State()
	proj.logger.Printf("edit session closed: clips=%d total=%.3f", len(state.Clips), state.TotalDuration)
	return recordSources(proj, state.Clips)
}

type seeded struct {
	probe []string
	cmds  []tea.Cmd
}

// seedFromLibrary places sources with cached metadata directly on the
// timeline. Once a source needs probing every later one is probed too, which
// keeps the timeline in argument order.
func seedFromLibrary(ctrl *editor.Controller, lib *media.Library, sources []string, logger Logger) seeded {
	var out seeded
	for i, path := range sources {
		src, ok := lib.Get(path)
		if !ok || src.Metadata == nil {
			out.probe = append(out.probe, sources[i:]...)
			break
		}
		cmd, err := ctrl.AddClip(src.Path, *src.Metadata)
		if err != nil {
			logger.Printf("cached metadata for %s rejected: %v", path, err)
			out.probe = append(out.probe, sources[i:]...)
			break
		}
		out.cmds = append(out.cmds, cmd)
	}
	return out
}
