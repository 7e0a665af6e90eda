package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"clipreel/internal/timeline"
)

type probeEntry struct {
	Path     string                   `json:"path"`
	Metadata *timeline.SourceMetadata `json:"metadata,omitempty"`
	Error    string                   `json:"error,omitempty"`
}

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file>...",
		Short: "Show source metadata for media files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runProbe,
	}
}

func runProbe(cmd *cobra.Command, args []string) error {
	proj, err := openProject("probe")
	if err != nil {
		return err
	}
	defer proj.Close()

	prober, err := proj.prober()
	if err != nil {
		return err
	}

	entries := make([]probeEntry, 0, len(args))
	failed := 0
	for _, path := range args {
		entry := probeEntry{Path: path}
		meta, err := prober.Metadata(cmd.Context(), path)
		if err != nil {
			entry.Error = err.Error()
			failed++
		} else {
			entry.Metadata = &meta
		}
		entries = append(entries, entry)
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		if err := json.NewEncoder(out).Encode(entries); err != nil {
			return err
		}
	} else {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PATH\tDURATION\tSIZE\tFPS\tCODEC")
		for _, e := range entries {
			if e.Metadata == nil {
				fmt.Fprintf(w, "%s\terror: %s\t\t\t\n", e.Path, e.Error)
				continue
			}
			m := e.Metadata
			fmt.Fprintf(w, "%s\t%s\t%dx%d\t%.3f\t%s\n", e.Path, timeline.FormatSeconds(m.Duration), m.Width, m.Height, m.FPS, m.Codec)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be probed", failed, len(args))
	}
	return nil
}
