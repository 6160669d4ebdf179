// internal/workers/scoring/reset-scoring-config/models.go
package resetscoringconfig

import (
	"time"

	"recruit-scoring/internal/scoring"
)

type Input struct {
	RequestedBy string `json:"requestedBy,omitempty" validate:"max=255"`
}

type Output struct {
	Weights   scoring.ScoringWeights `json:"weights"`
	IsCustom  bool                   `json:"isCustom"`
	UpdatedAt *time.Time             `json:"updatedAt,omitempty"`
	Reset     bool                   `json:"configReset"`
}
