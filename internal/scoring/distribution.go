package scoring

import (
	"sort"
)

// Bucket names used by the distribution summary.
const (
	BucketExcellent = "excellent"
	BucketGood      = "good"
	BucketAverage   = "average"
	BucketPoor      = "poor"
)

// DefaultTopCandidates is used when a caller asks for a non-positive ranking size.
const DefaultTopCandidates = 5

// CandidateScore is one entry of the population being summarized.
type CandidateScore struct {
	CandidateID string  `json:"candidate_id"`
	Name        string  `json:"name,omitempty"`
	Total       float64 `json:"total"`
	Grade       Grade   `json:"grade"`
}

// BucketStat counts the candidates in one score bucket.
type BucketStat struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Distribution summarizes the scores of a candidate population.
type Distribution struct {
	Excellent       BucketStat       `json:"excellent"`
	Good            BucketStat       `json:"good"`
	Average         BucketStat       `json:"average"`
	Poor            BucketStat       `json:"poor"`
	TotalCandidates int              `json:"total_candidates"`
	Mean            float64          `json:"average_score"`
	Median          float64          `json:"median_score"`
	Highest         float64          `json:"highest_score"`
	Lowest          float64          `json:"lowest_score"`
	GradeCounts     map[Grade]int    `json:"grade_counts"`
	TopCandidates   []CandidateScore `json:"top_candidates"`
}

// BucketFor returns the distribution bucket of a total.
func BucketFor(total float64) string {
	switch {
	case total >= 80:
		return BucketExcellent
	case total >= 60:
		return BucketGood
	case total >= 40:
		return BucketAverage
	default:
		return BucketPoor
	}
}

// Summarize buckets a population of scores. An empty population yields zero
// counts and zero percentages.
func Summarize(scores []CandidateScore, topN int) Distribution {
	if topN <= 0 {
		topN = DefaultTopCandidates
	}

	d := Distribution{
		TotalCandidates: len(scores),
		GradeCounts:     make(map[Grade]int),
		TopCandidates:   []CandidateScore{},
	}
	if len(scores) == 0 {
		return d
	}

	ranked := make([]CandidateScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Total != ranked[j].Total {
			return ranked[i].Total > ranked[j].Total
		}
		return ranked[i].CandidateID < ranked[j].CandidateID
	})

	sum := 0.0
	for i := range ranked {
		s := &ranked[i]
		if s.Grade == "" {
			s.Grade = GradeFor(s.Total)
		}
		sum += s.Total
		d.GradeCounts[s.Grade]++

		switch BucketFor(s.Total) {
		case BucketExcellent:
			d.Excellent.Count++
		case BucketGood:
			d.Good.Count++
		case BucketAverage:
			d.Average.Count++
		default:
			d.Poor.Count++
		}
	}

	n := float64(len(ranked))
	d.Excellent.Percentage = percentage(d.Excellent.Count, n)
	d.Good.Percentage = percentage(d.Good.Count, n)
	d.Average.Percentage = percentage(d.Average.Count, n)
	d.Poor.Percentage = percentage(d.Poor.Count, n)

	d.Mean = Round1(sum / n)
	d.Highest = Round1(ranked[0].Total)
	d.Lowest = Round1(ranked[len(ranked)-1].Total)
	d.Median = Round1(median(ranked))

	if topN > len(ranked) {
		topN = len(ranked)
	}
	d.TopCandidates = ranked[:topN]
	return d
}

func percentage(count int, total float64) float64 {
	if total == 0 {
		return 0
	}
	return Round1(float64(count) / total * 100)
}

// median expects scores sorted in descending order.
func median(sorted []CandidateScore) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2].Total
	}
	return (sorted[n/2-1].Total + sorted[n/2].Total) / 2
}
