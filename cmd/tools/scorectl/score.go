// cmd/tools/scorectl/score.go
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"recruit-scoring/internal/scoring"
)

const asOfLayout = "2006-01-02"

func newScoreCmd(opts *options) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "score <candidates.json>",
		Short: "Score one candidate snapshot or an array of them",
		Long: `Score computes the per-category breakdown, total and grade of each candidate
in the file. Use --weights to dry-run a configuration before saving it.

Examples:
  scorectl score candidate.json
  scorectl score --weights proposal.json --as-of 2025-01-01 candidates.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(asOf)
			if err != nil {
				return err
			}
			w, err := loadWeights(opts.weights)
			if err != nil {
				return err
			}
			candidates, err := readCandidates(args[0])
			if err != nil {
				return err
			}

			breakdowns := make([]scoring.Breakdown, 0, len(candidates))
			for i := range candidates {
				breakdowns = append(breakdowns, engine.Score(&candidates[i], w).Rounded())
			}

			out := cmd.OutOrStdout()
			if opts.output == outputJSON {
				return writeJSON(out, breakdowns)
			}

			rows := make([][]string, 0, len(breakdowns))
			for i, b := range breakdowns {
				rows = append(rows, []string{
					candidateLabel(b.CandidateID, i),
					formatPoints(b.ExperienceSkills),
					formatPoints(b.Education),
					formatPoints(b.AvailabilityLogistics),
					formatPoints(b.ProfileCompleteness),
					formatPoints(b.InterviewPerformance),
					formatPoints(b.Total),
					colorGrade(b.Grade),
				})
			}
			return renderTable(out, []string{"Candidate", "Experience", "Education", "Availability", "Profile", "Interview", "Total", "Grade"}, rows)
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "Reference date (YYYY-MM-DD) for open-ended experiences")
	return cmd
}

func newEngine(asOf string) (*scoring.Engine, error) {
	if asOf == "" {
		return scoring.NewEngine(), nil
	}
	ref, err := time.Parse(asOfLayout, asOf)
	if err != nil {
		return nil, fmt.Errorf("invalid --as-of %q: %w", asOf, err)
	}
	return scoring.NewEngine(scoring.WithClock(func() time.Time { return ref })), nil
}

// candidateLabel falls back to the file position when a snapshot has no ID.
func candidateLabel(id string, index int) string {
	if id != "" {
		return id
	}
	return fmt.Sprintf("#%d", index+1)
}
