package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"clipreel/internal/editor"
	"clipreel/internal/media"
	"clipreel/internal/timeline"
	"clipreel/internal/tui"
	"clipreel/pkg/editscript"
)

var (
	applyConcatOut  string
	applyEDLOut     string
	applyNoProgress bool
	applyNoLibrary  bool
)

type applyStep struct {
	Line    int    `json:"line"`
	Step    string `json:"step"`
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

type applyClip struct {
	timeline.Segment
	Thumbnails int `json:"thumbnails"`
}

type applyOutput struct {
	Script        string      `json:"script"`
	Steps         []applyStep `json:"steps"`
	Clips         []applyClip `json:"clips"`
	TotalDuration float64     `json:"total_duration"`
	Error         string      `json:"error,omitempty"`
}

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <script.yaml>",
		Short: "Build a timeline from an edit script and export it",
		Args:  cobra.ExactArgs(1),
		RunE:  runApply,
	}
	cmd.Flags().StringVar(&applyConcatOut, "concat", "", "write an ffmpeg concat script for the result")
	cmd.Flags().StringVar(&applyEDLOut, "edl", "", "write a CMX3600 EDL for the result")
	cmd.Flags().BoolVar(&applyNoProgress, "no-progress", false, "disable the status spinner")
	cmd.Flags().BoolVar(&applyNoLibrary, "no-library", false, "do not record sources in the media library")
	return cmd
}

func runApply(cmd *cobra.Command, args []string) error {
	script, err := editscript.Load(args[0])
	if err != nil {
		var verrs editscript.ValidationErrors
		if errors.As(err, &verrs) {
			for _, issue := range verrs.Issues() {
				cmd.PrintErrf("%s: %s\n", args[0], issue.Error())
			}
			return fmt.Errorf("%s has %d problem(s)", args[0], len(verrs))
		}
		return err
	}

	proj, err := openProject("apply")
	if err != nil {
		return err
	}
	defer proj.Close()

	var logger Logger = proj.logger
	if tui.DetectMode(cmd.ErrOrStderr(), applyNoProgress, outputJSON) == tui.ModeTUI {
		status := tui.NewStatusWriter(cmd.ErrOrStderr())
		status.Update(fmt.Sprintf("applying %s", filepath.Base(args[0])))
		defer status.Stop()
		logger = multiLogger{proj.logger, status}
	}

	opts, err := proj.editorOptions(logger)
	if err != nil {
		return err
	}
	ctrl := editor.New(cmd.Context(), opts)
	results, err := editor.RunScript(cmd.Context(), ctrl, script, proj.config.Thumbnails.Concurrency)
	if err != nil {
		return err
	}
	state := ctrl.State()

	if !applyNoLibrary {
		if err := recordSources(proj, state.Clips); err != nil {
			return err
		}
	}
	if err := exportTimeline(proj, state.Clips); err != nil {
		return err
	}

	output := buildApplyOutput(args[0], results, state)
	if outputJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}
	return printApplyOutput(cmd.OutOrStdout(), output)
}

func buildApplyOutput(script string, results []editor.StepResult, state editor.State) applyOutput {
	out := applyOutput{
		Script:        script,
		Steps:         make([]applyStep, 0, len(results)),
		TotalDuration: state.TotalDuration,
		Error:         state.Err,
	}
	for _, res := range results {
		out.Steps = append(out.Steps, applyStep{
			Line:    res.Step.Line,
			Step:    res.Step.String(),
			Applied: res.Applied,
			Reason:  res.Reason,
		})
	}
	sorted := timeline.Sorted(state.Clips)
	for i, seg := range timeline.Segments(state.Clips) {
		out.Clips = append(out.Clips, applyClip{Segment: seg, Thumbnails: len(sorted[i].Thumbnails)})
	}
	return out
}

func printApplyOutput(w io.Writer, out applyOutput) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if len(out.Steps) > 0 {
		fmt.Fprintln(tw, "LINE\tSTEP\tRESULT\tREASON")
		for _, s := range out.Steps {
			result := "applied"
			if !s.Applied {
				result = "rejected"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Line, s.Step, tui.StatusStyle(result).Render(result), tui.NonEmptyOrDash(s.Reason))
		}
		fmt.Fprintln(tw)
	}
	fmt.Fprintln(tw, "#\tSOURCE\tIN\tOUT\tSTART\tDURATION\tTHUMBS")
	for _, c := range out.Clips {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
			c.Index,
			tui.TruncateLeft(c.SourceFilePath, 40),
			timeline.FormatSeconds(c.SourceStart),
			timeline.FormatSeconds(c.SourceEnd),
			timeline.FormatSeconds(c.TimelineStart),
			timeline.FormatSeconds(c.TimelineEnd-c.TimelineStart),
			c.Thumbnails,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nTotal: %s across %d clips\n", timeline.FormatSeconds(out.TotalDuration), len(out.Clips))
	if out.Error != "" {
		fmt.Fprintf(w, "%s\n", tui.StatusStyle("error").Render("last error: "+out.Error))
	}
	return nil
}

func recordSources(proj *project, clips []timeline.Clip) error {
	lib, err := media.LoadLibrary(proj.paths.LibraryFile)
	if err != nil {
		return err
	}
	for _, c := range clips {
		if _, ok := lib.Get(c.SourceFilePath); !ok {
			lib.Add(c.SourceFilePath, c.Metadata)
		}
	}
	return lib.Save(proj.paths.LibraryFile)
}

func exportTimeline(proj *project, clips []timeline.Clip) error {
	if applyConcatOut != "" {
		if err := writeExport(applyConcatOut, func(w io.Writer) error {
			return timeline.WriteConcat(w, clips)
		}); err != nil {
			return err
		}
		proj.logger.Printf("wrote concat script %s", applyConcatOut)
	}
	if applyEDLOut != "" {
		rate := proj.config.Export.FrameRate
		if sorted := timeline.Sorted(clips); len(sorted) > 0 && sorted[0].Metadata != nil && sorted[0].Metadata.FPS > 0 {
			rate = sorted[0].Metadata.FPS
		}
		if err := writeExport(applyEDLOut, func(w io.Writer) error {
			return timeline.WriteEDL(w, clips, proj.config.Export.Title, rate)
		}); err != nil {
			return err
		}
		proj.logger.Printf("wrote EDL %s at %.3f fps", applyEDLOut, rate)
	}
	return nil
}

func writeExport(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
