// cmd/tools/scorectl/distribution.go
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"recruit-scoring/internal/scoring"
)

func newDistributionCmd(opts *options) *cobra.Command {
	var (
		top  int
		asOf string
	)

	cmd := &cobra.Command{
		Use:   "distribution <candidates.json>",
		Short: "Bucket a candidate population and rank the best scores",
		Args:  cobra.ExactArgs(1),
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

			scores := make([]scoring.CandidateScore, 0, len(candidates))
			for i := range candidates {
				b := engine.Score(&candidates[i], w)
				scores = append(scores, scoring.CandidateScore{
					CandidateID: candidateLabel(b.CandidateID, i),
					Name:        candidates[i].Name,
					Total:       b.Total,
					Grade:       b.Grade,
				})
			}

			d := scoring.Summarize(scores, top)
			for i := range d.TopCandidates {
				d.TopCandidates[i].Total = scoring.Round1(d.TopCandidates[i].Total)
			}

			out := cmd.OutOrStdout()
			if opts.output == outputJSON {
				return writeJSON(out, d)
			}

			writeTitle(out, "Distribution")
			buckets := [][]string{
				bucketRow(scoring.BucketExcellent, d.Excellent),
				bucketRow(scoring.BucketGood, d.Good),
				bucketRow(scoring.BucketAverage, d.Average),
				bucketRow(scoring.BucketPoor, d.Poor),
			}
			if err := renderTable(out, []string{"Bucket", "Count", "Percentage"}, buckets); err != nil {
				return err
			}
			fmt.Fprintf(out, "candidates: %d  mean: %s  median: %s  highest: %s  lowest: %s\n",
				d.TotalCandidates, formatPoints(d.Mean), formatPoints(d.Median),
				formatPoints(d.Highest), formatPoints(d.Lowest))

			if len(d.TopCandidates) == 0 {
				return nil
			}
			writeTitle(out, "Top candidates")
			rows := make([][]string, 0, len(d.TopCandidates))
			for i, s := range d.TopCandidates {
				rows = append(rows, []string{strconv.Itoa(i + 1), s.CandidateID, s.Name, formatPoints(s.Total), colorGrade(s.Grade)})
			}
			return renderTable(out, []string{"Rank", "Candidate", "Name", "Total", "Grade"}, rows)
		},
	}

	cmd.Flags().IntVar(&top, "top", scoring.DefaultTopCandidates, "Number of top candidates to list")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Reference date (YYYY-MM-DD) for open-ended experiences")
	return cmd
}

func bucketRow(name string, s scoring.BucketStat) []string {
	return []string{name, strconv.Itoa(s.Count), formatPoints(s.Percentage) + "%"}
}
