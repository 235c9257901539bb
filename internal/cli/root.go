// Package cli provides the matchhub command-line interface.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"matchhub/internal/config"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "matchhub",
	Short: "Hockey match companion: league tables, mood surveys and the coaching academy",
	Long: `MatchHub scrapes the league site for standings and fixtures, collects
pre-match mood surveys and in-game observations, and runs the academy
trainer with its drill check-ins.

Configuration is read from ./matchhub.yaml (or --config) and MATCHHUB_*
environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		level, _ := cfg.SlogLevel()
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./matchhub.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(nextGameCmd)
	rootCmd.AddCommand(recentOTSOCmd)
	rootCmd.AddCommand(hashPasswordCmd)
	rootCmd.AddCommand(versionCmd)
}
