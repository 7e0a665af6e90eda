package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"clipreel/internal/media"
	"clipreel/internal/timeline"
	"clipreel/internal/tui"
)

func newLibraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the project's imported media",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <file>...",
			Short: "Probe files and record them in the library",
			Args:  cobra.MinimumNArgs(1),
			RunE:  runLibraryAdd,
		},
		&cobra.Command{
			Use:   "list",
			Short: "List imported sources",
			RunE:  runLibraryList,
		},
		&cobra.Command{
			Use:   "remove <file>...",
			Short: "Forget sources and delete their thumbnails",
			Args:  cobra.MinimumNArgs(1),
			RunE:  runLibraryRemove,
		},
	)
	return cmd
}

func runLibraryAdd(cmd *cobra.Command, args []string) error {
	proj, err := openProject("library")
	if err != nil {
		return err
	}
	defer proj.Close()

	lib, err := media.LoadLibrary(proj.paths.LibraryFile)
	if err != nil {
		return err
	}
	prober, err := proj.prober()
	if err != nil {
		return err
	}

	for _, path := range args {
		meta, err := prober.Metadata(cmd.Context(), path)
		if err != nil {
			return err
		}
		src := lib.Add(path, &meta)
		proj.logger.Printf("library add %s duration=%.3f", src.Path, meta.Duration)
		if !outputJSON {
			cmd.Printf("added %s (%s)\n", src.Path, timeline.FormatSeconds(meta.Duration))
		}
	}
	if err := lib.Save(proj.paths.LibraryFile); err != nil {
		return err
	}
	if outputJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(lib.List())
	}
	return nil
}

func runLibraryList(cmd *cobra.Command, _ []string) error {
	proj, err := openProject("library")
	if err != nil {
		return err
	}
	defer proj.Close()

	lib, err := media.LoadLibrary(proj.paths.LibraryFile)
	if err != nil {
		return err
	}
	sources := lib.List()
	out := cmd.OutOrStdout()

	if outputJSON {
		return json.NewEncoder(out).Encode(sources)
	}
	if len(sources) == 0 {
		fmt.Fprintln(out, "Library is empty.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tDURATION\tSIZE\tADDED")
	for _, src := range sources {
		dur, size := "-", "-"
		if src.Metadata != nil {
			dur = timeline.FormatSeconds(src.Metadata.Duration)
			size = fmt.Sprintf("%dx%d", src.Metadata.Width, src.Metadata.Height)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", tui.TruncateLeft(src.Path, 60), dur, size, src.AddedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runLibraryRemove(cmd *cobra.Command, args []string) error {
	proj, err := openProject("library")
	if err != nil {
		return err
	}
	defer proj.Close()

	lib, err := media.LoadLibrary(proj.paths.LibraryFile)
	if err != nil {
		return err
	}

	removed := 0
	for _, path := range args {
		src, ok, err := lib.Remove(path, proj.paths.ThumbnailsDir)
		if err != nil {
			return err
		}
		if !ok {
			cmd.Printf("not in library: %s\n", path)
			continue
		}
		removed++
		proj.logger.Printf("library remove %s", src.Path)
		cmd.Printf("removed %s\n", src.Path)
	}
	if removed == 0 {
		return nil
	}
	return lib.Save(proj.paths.LibraryFile)
}
