// internal/workers/scoring/get-scoring-config/models.go
package getscoringconfig

import (
	"time"

	"recruit-scoring/internal/scoring"
)

type Input struct {
	IncludeDisplayGroups bool `json:"includeDisplayGroups"`
}

type Output struct {
	Weights        scoring.ScoringWeights       `json:"weights"`
	IsCustom       bool                         `json:"isCustom"`
	UpdatedAt      *time.Time                   `json:"updatedAt,omitempty"`
	WeightsTotal   float64                      `json:"weightsTotal"`
	CategoryTotals map[scoring.Category]float64 `json:"categoryTotals"`
	DisplayGroups  []scoring.DisplayGroup       `json:"displayGroups,omitempty"`
}
