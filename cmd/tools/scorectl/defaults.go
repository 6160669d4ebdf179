// cmd/tools/scorectl/defaults.go
package main

import (
	"github.com/spf13/cobra"

	"recruit-scoring/internal/scoring"
)

func newDefaultsCmd(opts *options) *cobra.Command {
	var displayGroups bool

	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Print the default weight configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := scoring.DefaultWeights()
			out := cmd.OutOrStdout()

			if opts.output == outputJSON {
				if displayGroups {
					return writeJSON(out, scoring.DisplayGroups(w))
				}
				return writeJSON(out, w)
			}

			var rows [][]string
			if displayGroups {
				for _, g := range scoring.DisplayGroups(w) {
					for _, c := range g.Criteria {
						rows = append(rows, []string{g.Label, c.Label, formatPoints(c.Points)})
					}
				}
				return renderTable(out, []string{"Group", "Criterion", "Points"}, rows)
			}

			for _, c := range w.Criteria() {
				rows = append(rows, []string{string(c.Category), c.Name, formatPoints(c.Points)})
			}
			return renderTable(out, []string{"Category", "Criterion", "Points"}, rows)
		},
	}

	cmd.Flags().BoolVar(&displayGroups, "display-groups", false, "Group criteria the way the weights editor shows them")
	return cmd
}
