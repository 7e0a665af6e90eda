package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"clipreel/internal/config"
	"clipreel/internal/media"
)

var checkStrict bool

type toolStatus struct {
	Tool     string `json:"tool"`
	Path     string `json:"path,omitempty"`
	Version  string `json:"version,omitempty"`
	Outdated bool   `json:"outdated,omitempty"`
	Error    string `json:"error,omitempty"`
}

type checkReport struct {
	Project     string                    `json:"project"`
	Tools       []toolStatus              `json:"tools"`
	Validations []config.ValidationResult `json:"validations"`
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the project configuration and locate ffmpeg/ffprobe",
		RunE:  runCheck,
	}
	cmd.Flags().BoolVar(&checkStrict, "strict", false, "fail on warnings and missing tools")
	return cmd
}

func runCheck(cmd *cobra.Command, _ []string) error {
	proj, err := openProject("check")
	if err != nil {
		return err
	}
	defer proj.Close()

	raw, err := config.Read(proj.paths.ConfigFile)
	if err != nil {
		return err
	}

	report := checkReport{Project: proj.paths.Root, Validations: raw.Validate(proj.paths.Root)}
	for _, tool := range []struct{ name, override string }{
		{"ffprobe", proj.config.Tools.FFprobe},
		{"ffmpeg", proj.config.Tools.FFmpeg},
	} {
		st := toolStatus{Tool: tool.name}
		if path, err := resolveTool(tool.name, proj.toolOverride(tool.override)); err != nil {
			st.Error = err.Error()
		} else {
			st.Path = path
			if version, err := media.ToolVersion(cmd.Context(), newRunner(), path); err != nil {
				st.Error = err.Error()
			} else {
				st.Version = version
				st.Outdated = !media.MeetsMinimum(version, media.MinimumVersion)
			}
		}
		proj.logger.Printf("tool %s: path=%s version=%s error=%s", st.Tool, st.Path, st.Version, st.Error)
		report.Tools = append(report.Tools, st)
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		if err := json.NewEncoder(out).Encode(report); err != nil {
			return err
		}
	} else {
		printCheckReport(cmd, report)
	}
	return checkOutcome(report, checkStrict)
}

func printCheckReport(cmd *cobra.Command, report checkReport) {
	ok := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warn := lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	bad := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	cmd.Printf("Project: %s\n", report.Project)
	for _, st := range report.Tools {
		if st.Error != "" {
			cmd.Printf("  %s %s: %s\n", bad.Render("✗"), st.Tool, st.Error)
			continue
		}
		if st.Outdated {
			cmd.Printf("  %s %s %s: %s (need %s or newer)\n", warn.Render("!"), st.Tool, st.Version, st.Path, media.MinimumVersion)
			continue
		}
		cmd.Printf("  %s %s %s: %s\n", ok.Render("✓"), st.Tool, st.Version, st.Path)
	}
	if len(report.Validations) == 0 {
		cmd.Printf("  %s configuration\n", ok.Render("✓"))
		return
	}
	for _, v := range report.Validations {
		style := warn
		if v.Level == "error" {
			style = bad
		}
		cmd.Printf("  %s %s\n", style.Render(v.Level+":"), v.Message)
	}
}

func checkOutcome(report checkReport, strict bool) error {
	if config.HasErrors(report.Validations) {
		return errors.New("configuration has errors")
	}
	if !strict {
		return nil
	}
	for _, st := range report.Tools {
		if st.Error != "" {
			return fmt.Errorf("%s is not available", st.Tool)
		}
		if st.Outdated {
			return fmt.Errorf("%s %s is older than %s", st.Tool, st.Version, media.MinimumVersion)
		}
	}
	if len(report.Validations) > 0 {
		return errors.New("configuration has warnings")
	}
	return nil
}
