// internal/workers/scoring/summarize-score-distribution/models.go
package summarizescoredistribution

import "recruit-scoring/internal/scoring"

type Input struct {
	TopN int `json:"topN" validate:"gte=0,lte=100"`
}

type Output struct {
	Distribution    scoring.Distribution `json:"scoreDistribution"`
	TotalCandidates int                  `json:"totalCandidates"`
	AverageScore    float64              `json:"averageScore"`
}
