package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/scribe/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Scribe narrates document ingestion jobs",
	Long: `Scribe ingests PDF documents into a chunk index and narrates the progress
of long-running jobs with an animated console overlay.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		slog.SetDefault(logging.New(logging.ParseLevel(level)))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}
