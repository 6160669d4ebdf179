// cmd/tools/scorectl/validate.go
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"recruit-scoring/internal/scoring"
)

type validateReport struct {
	Valid          bool                         `json:"valid"`
	Code           string                       `json:"code,omitempty"`
	Error          string                       `json:"error,omitempty"`
	Total          float64                      `json:"total"`
	CategoryTotals map[scoring.Category]float64 `json:"category_totals,omitempty"`
}

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <weights.json>",
		Short: "Check a weights file against the 100-point rules",
		Long: `Validate runs the same checks the update-scoring-config worker runs before saving:
every criterion must be a finite non-negative number and the criteria must sum to 100.

Exits non-zero when the file is rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read weights: %w", err)
			}

			w, verr := scoring.ValidateJSON(raw)
			report := validateReport{Valid: verr == nil}
			if verr != nil {
				report.Error = verr.Error()
				report.Code = rejectionCode(verr)
				var cfgErr *scoring.ConfigError
				if errors.As(verr, &cfgErr) {
					report.Total = scoring.Round1(cfgErr.Total)
				}
			} else {
				report.Total = scoring.Round1(w.Total())
				report.CategoryTotals = w.CategoryTotals()
			}

			out := cmd.OutOrStdout()
			if opts.output == outputJSON {
				if err := writeJSON(out, report); err != nil {
					return err
				}
				return verr
			}
			if verr != nil {
				return verr
			}

			rows := make([][]string, 0, 6)
			for _, cat := range scoring.Categories() {
				rows = append(rows, []string{string(cat), formatPoints(report.CategoryTotals[cat])})
			}
			rows = append(rows, []string{"total", formatPoints(report.Total)})
			if err := renderTable(out, []string{"Category", "Points"}, rows); err != nil {
				return err
			}
			fmt.Fprintln(out, gradeTopColor.Sprint("valid"))
			return nil
		},
	}
}

// rejectionCode names why a weights document was rejected. Only rejected
// configurations carry a code.
func rejectionCode(err error) string {
	if !scoring.IsConfigError(err) {
		return ""
	}
	switch {
	case errors.Is(err, scoring.ErrInvalidTotal):
		return scoring.ErrInvalidTotal.Error()
	case errors.Is(err, scoring.ErrInvalidCriterion):
		return scoring.ErrInvalidCriterion.Error()
	default:
		return ""
	}
}
