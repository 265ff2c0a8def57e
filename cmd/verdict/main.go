package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "verdict",
		Short: "Verdict - record AI interactions and await detection results",
		Long: `Verdict is the command-line companion to the Verdict SDK.

Run 'verdict log' to record a model interaction.
Run 'verdict detections' to wait for detection results on recorded logs.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose diagnostics")
	rootCmd.PersistentFlags().String("api-key", "", "API key (overrides config file and VERDICT_API_KEY)")
	rootCmd.PersistentFlags().String("base-url", "", "API base URL")

	rootCmd.AddCommand(
		logCmd(),
		detectionsCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("verdict %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
