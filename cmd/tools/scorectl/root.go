// cmd/tools/scorectl/root.go
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"recruit-scoring/internal/scoring"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// options holds the resolved global flags. Flags win over SCORECTL_* env vars.
type options struct {
	output  string
	weights string
	noColor bool
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	opts := &options{}

	root := &cobra.Command{
		Use:   "scorectl",
		Short: "Inspect and dry-run candidate scoring weights offline.",
		Long: `scorectl validates weight configurations and scores candidate snapshots
with the same engine the scoring workers use, without a Zeebe broker or backend.`,
		SilenceErrors:      true,
		SilenceUsage:       true,
		DisableSuggestions: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.output = strings.ToLower(v.GetString("output"))
			opts.weights = v.GetString("weights")
			opts.noColor = v.GetBool("no-color")

			if opts.output != outputTable && opts.output != outputJSON {
				return fmt.Errorf("unsupported output format %q (want table or json)", opts.output)
			}
			if opts.noColor {
				color.NoColor = true
			}
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	root.PersistentFlags().StringP("output", "o", outputTable, "Output format: table or json")
	root.PersistentFlags().StringP("weights", "w", "", "Weights JSON file (defaults are used when empty)")
	root.PersistentFlags().Bool("no-color", false, "Disable colored grades")

	v.SetEnvPrefix("SCORECTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(root.PersistentFlags())

	root.AddCommand(
		newValidateCmd(opts),
		newDefaultsCmd(opts),
		newScoreCmd(opts),
		newDistributionCmd(opts),
		newTasksCmd(opts),
	)
	return root
}

// loadWeights reads and validates a weights file. An empty path yields the defaults.
func loadWeights(path string) (scoring.ScoringWeights, error) {
	if path == "" {
		return scoring.DefaultWeights(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return scoring.ScoringWeights{}, fmt.Errorf("read weights: %w", err)
	}
	w, err := scoring.ValidateJSON(raw)
	if err != nil {
		return scoring.ScoringWeights{}, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}
