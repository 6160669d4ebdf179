// cmd/tools/scorectl/output.go
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"recruit-scoring/internal/models"
	"recruit-scoring/internal/scoring"
)

var (
	errorColor  = color.New(color.FgRed, color.Bold)
	headerColor = color.New(color.FgCyan, color.Bold)

	gradeTopColor    = color.New(color.FgGreen, color.Bold)
	gradeGoodColor   = color.New(color.FgCyan)
	gradeMiddleColor = color.New(color.FgYellow)
	gradeLowColor    = color.New(color.FgRed)
)

// colorGrade paints a grade by its letter band.
func colorGrade(g scoring.Grade) string {
	switch {
	case strings.HasPrefix(string(g), "A"):
		return gradeTopColor.Sprint(g)
	case strings.HasPrefix(string(g), "B"):
		return gradeGoodColor.Sprint(g)
	case strings.HasPrefix(string(g), "C"):
		return gradeMiddleColor.Sprint(g)
	default:
		return gradeLowColor.Sprint(g)
	}
}

func formatPoints(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderTable writes a right-aligned table.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func writeTitle(w io.Writer, title string) {
	fmt.Fprintln(w, headerColor.Sprint(title))
}

// readCandidates accepts either a single candidate object or an array.
func readCandidates(path string) ([]models.Candidate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read candidates: %w", err)
	}
	raw = bytes.TrimSpace(raw)

	if len(raw) > 0 && raw[0] == '[' {
		var list []models.Candidate
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return list, nil
	}

	var one models.Candidate
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return []models.Candidate{one}, nil
}
