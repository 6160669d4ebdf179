// Package backend talks to the system of record for candidates and the
// persisted scoring configuration.
package backend

import (
	"context"
	"time"

	"recruit-scoring/internal/models"
	"recruit-scoring/internal/scoring"
)

// Backend is implemented by the REST client and the direct database store.
type Backend interface {
	GetScoringConfig(ctx context.Context) (*scoring.ScoringConfig, error)
	UpdateScoringConfig(ctx context.Context, weights scoring.ScoringWeights) (*scoring.ScoringConfig, error)
	ResetScoringConfig(ctx context.Context) (*scoring.ScoringConfig, error)
	RecalculateAllScores(ctx context.Context) (*RecalculationReceipt, error)
	GetCandidate(ctx context.Context, candidateID string) (*models.Candidate, error)
	ListCandidates(ctx context.Context) ([]models.Candidate, error)
}

// RecalculationReceipt acknowledges a recalculate-all request. The backend
// performs the work asynchronously.
type RecalculationReceipt struct {
	RequestID   string    `json:"request_id"`
	RequestedAt time.Time `json:"requested_at"`
	Message     string    `json:"message,omitempty"`
}
