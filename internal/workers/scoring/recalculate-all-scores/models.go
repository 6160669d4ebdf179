// internal/workers/scoring/recalculate-all-scores/models.go
package recalculateallscores

import "time"

// Input must carry an explicit operator decision; a missing flag is an
// input error, not a refusal.
type Input struct {
	Confirmed   *bool  `json:"confirmed" validate:"required"`
	RequestedBy string `json:"requestedBy,omitempty" validate:"max=255"`
}

type Output struct {
	Status      string     `json:"recalculationStatus"`
	RequestID   string     `json:"recalculationRequestId,omitempty"`
	RequestedAt *time.Time `json:"recalculationRequestedAt,omitempty"`
	Message     string     `json:"recalculationMessage,omitempty"`
}
