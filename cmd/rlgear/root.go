package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rlgear",
	Short: "rlgear runs reinforcement learning experiments from YAML configurations",
	Long: `rlgear resolves a YAML experiment configuration into a run
specification and executes it locally, recording results, checkpoints
and the provenance needed to reproduce or resume the run.`,
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
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	cobra.OnInitialize(setupLogging)
}

// setupLogging installs the process-wide structured logger. Logs go to
// stderr so stdout stays usable for piped output.
func setupLogging() {
	level := slog.LevelInfo
	if debug, _ := rootCmd.PersistentFlags().GetBool("debug"); debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
