package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set at build time via -ldflags "-X matchhub/internal/cli.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print version information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "matchhub %s\n", Version)
		fmt.Fprintf(out, "  commit:     %s\n", Commit)
		fmt.Fprintf(out, "  built:      %s\n", BuildDate)
		fmt.Fprintf(out, "  go version: %s\n", runtime.Version())
	},
}
