package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rlgear/rlgear/config"
	"github.com/rlgear/rlgear/tune"
)

// trainCmd represents the train command
var trainCmd = &cobra.Command{
	Use:   "train <yaml_file> <exp_name>",
	Short: "Resolve a YAML experiment configuration and run it locally",
	Long: `Train loads the named YAML file, merges its inputs, applies any
--overrides mapping and runs the resulting specification. Results are
logged under the experiment's log directory together with the metadata
needed to resume the run.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		overridesJSON, _ := cmd.Flags().GetString("overrides")
		searchDirs, _ := cmd.Flags().GetStringSlice("search-dir")

		var overrides config.Params
		if overridesJSON != "" {
			if err := json.Unmarshal([]byte(overridesJSON),
				&overrides); err != nil {
				return fmt.Errorf("train: malformed overrides: %w", err)
			}
		}

		params, spec, err := tune.MakeRunSpec(args[0], args[1], searchDirs,
			overrides)
		if err != nil {
			return fmt.Errorf("train: %w", err)
		}

		trainable, err := newSmokeTrainable(params, spec)
		if err != nil {
			return fmt.Errorf("train: %w", err)
		}

		slog.Info("starting trial", "experiment", args[1], "local_dir",
			spec.LocalDir)
		return tune.Run(spec, trainable)
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)

	trainCmd.Flags().String("overrides", "",
		"JSON mapping merged over the resolved configuration")
	trainCmd.Flags().StringSlice("search-dir", []string{"."},
		"Directories searched for input YAML files")
}
