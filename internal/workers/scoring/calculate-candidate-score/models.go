// internal/workers/scoring/calculate-candidate-score/models.go
package calculatecandidatescore

import (
	"recruit-scoring/internal/models"
	"recruit-scoring/internal/scoring"
)

// Input names the candidate to score. A process that already holds the
// candidate snapshot may pass it inline instead of an ID.
type Input struct {
	CandidateID string            `json:"candidateId" validate:"required_without=Candidate,max=255"`
	Candidate   *models.Candidate `json:"candidate,omitempty"`
}

type Output struct {
	CandidateID string            `json:"candidateId"`
	TotalScore  float64           `json:"totalScore"`
	Grade       scoring.Grade     `json:"grade"`
	Breakdown   scoring.Breakdown `json:"scoreBreakdown"`
}
