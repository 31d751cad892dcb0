// Package cmd wires the formlane command tree. Commands map one to one
// onto survey API operations; all survey edits run through the cached,
// optimistic data layer.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "formlane",
	Short: "Build, share and take surveys from the terminal",
	Long: `formlane is a client for the survey platform API.
It creates and edits surveys, publishes them, collects answers through
interactive polls, and renders the resulting statistics.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	cfgFile    string
	flagLocale string
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command under the given context so
// Ctrl+C cancels in-flight API calls.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.formlane/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLocale, "locale", "", "message locale: en or ru (overrides config)")
}
