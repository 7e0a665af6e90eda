package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	projectDir string
	outputJSON bool
)

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "clipreel",
		Short:         "Terminal video timeline editor",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&projectDir, "project", "", "Path to project directory")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newProbeCmd())
	cmd.AddCommand(newLibraryCmd())
	cmd.AddCommand(newApplyCmd())

	editCmd := newEditCmd()
	cmd.AddCommand(editCmd)
	// edit is interactive; JSON output doesn't apply.
	if f := editCmd.InheritedFlags().Lookup("json"); f != nil {
		f.Hidden = true
	}

	return cmd
}
