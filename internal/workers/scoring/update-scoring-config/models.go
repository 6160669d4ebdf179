// internal/workers/scoring/update-scoring-config/models.go
package updatescoringconfig

import (
	"encoding/json"
	"time"

	"recruit-scoring/internal/scoring"
)

// Input carries the weights document exactly as the editor submitted it.
// It is schema checked before decoding.
type Input struct {
	Weights     json.RawMessage `json:"weights" validate:"required"`
	RequestedBy string          `json:"requestedBy,omitempty" validate:"max=255"`
}

type Output struct {
	Weights      scoring.ScoringWeights `json:"weights"`
	IsCustom     bool                   `json:"isCustom"`
	UpdatedAt    *time.Time             `json:"updatedAt,omitempty"`
	WeightsTotal float64                `json:"weightsTotal"`
	ConfigSaved  bool                   `json:"configSaved"`
}
