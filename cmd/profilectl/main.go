// Package main implements profilectl, a command line tool for inspecting and
// exercising validation profile libraries.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	rootCmd := &cobra.Command{
		Use:          "profilectl",
		Short:        "profilectl inspects and exercises validation profile libraries",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log library loading and view derivation")

	rootCmd.AddCommand(
		newShowCmd(),
		newCheckCmd(),
		newLintCmd(),
		newDiffCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number of profilectl",
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, err := cmd.OutOrStdout().Write([]byte("profilectl version " + version + "\n"))
				return err
			},
		},
	)
	return rootCmd
}
