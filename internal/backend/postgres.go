package backend

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"recruit-scoring/internal/common/errors"
	"recruit-scoring/internal/common/logger"
	"recruit-scoring/internal/models"
	"recruit-scoring/internal/scoring"
)

const (
	selectConfigQuery = `SELECT weights, is_custom, updated_at FROM scoring_config WHERE id = 1`

	upsertConfigQuery = `
		INSERT INTO scoring_config (id, weights, is_custom, updated_at)
		VALUES (1, $1, $2, NOW())
		ON CONFLICT (id) DO UPDATE
		SET weights = EXCLUDED.weights, is_custom = EXCLUDED.is_custom, updated_at = EXCLUDED.updated_at
		RETURNING updated_at`

	insertRecalculationQuery = `
		INSERT INTO score_recalculation_requests (id, status)
		VALUES ($1, 'pending')
		RETURNING requested_at`

	candidateColumns = `id, name, email, phone, city, education_level, skills, certifications, courses,
		own_transportation, travel_availability, height_painting, availability_start,
		currently_employed, profile_completeness`

	selectCandidateQuery   = `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`
	selectCandidatesQuery  = `SELECT ` + candidateColumns + ` FROM candidates ORDER BY id`
	selectExperiencesQuery = `
		SELECT id, candidate_id, company, role, start_date, end_date, leave_reason
		FROM professional_experiences WHERE candidate_id = $1 ORDER BY start_date`
	selectAllExperiencesQuery = `
		SELECT id, candidate_id, company, role, start_date, end_date, leave_reason
		FROM professional_experiences ORDER BY candidate_id, start_date`
	selectInterviewsQuery = `
		SELECT id, candidate_id, status, rating, feedback
		FROM interviews WHERE candidate_id = $1 ORDER BY id`
	selectAllInterviewsQuery = `
		SELECT id, candidate_id, status, rating, feedback
		FROM interviews ORDER BY candidate_id, id`
)

// PostgresStore reads and writes the recruitment database directly.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "backend.postgres"}),
	}
}

// GetScoringConfig returns the defaults when no configuration was saved yet.
func (s *PostgresStore) GetScoringConfig(ctx context.Context) (*scoring.ScoringConfig, error) {
	var (
		raw       []byte
		isCustom  bool
		updatedAt time.Time
	)
	err := s.db.QueryRowContext(ctx, selectConfigQuery).Scan(&raw, &isCustom, &updatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		cfg := scoring.Reset()
		return &cfg, nil
	}
	if err != nil {
		return nil, s.dbError("get-scoring-config", err)
	}

	weights, err := scoring.ValidateJSON(raw)
	if err != nil {
		return nil, FromConfigError(err)
	}
	return &scoring.ScoringConfig{Weights: weights, IsCustom: isCustom, UpdatedAt: &updatedAt}, nil
}

func (s *PostgresStore) UpdateScoringConfig(ctx context.Context, weights scoring.ScoringWeights) (*scoring.ScoringConfig, error) {
	if err := scoring.Validate(weights); err != nil {
		return nil, FromConfigError(err)
	}
	cfg := scoring.NewConfig(weights)
	return s.saveConfig(ctx, "update-scoring-config", cfg)
}

func (s *PostgresStore) ResetScoringConfig(ctx context.Context) (*scoring.ScoringConfig, error) {
	return s.saveConfig(ctx, "reset-scoring-config", scoring.Reset())
}

func (s *PostgresStore) saveConfig(ctx context.Context, op string, cfg scoring.ScoringConfig) (*scoring.ScoringConfig, error) {
	data, err := json.Marshal(cfg.Weights)
	if err != nil {
		return nil, fmt.Errorf("encode weights: %w", err)
	}

	var updatedAt time.Time
	if err := s.db.QueryRowContext(ctx, upsertConfigQuery, data, cfg.IsCustom).Scan(&updatedAt); err != nil {
		return nil, s.dbError(op, err)
	}
	cfg.UpdatedAt = &updatedAt

	s.logger.Info("scoring config saved", map[string]interface{}{
		"operation": op,
		"isCustom":  cfg.IsCustom,
	})
	return &cfg, nil
}

// RecalculateAllScores queues a request row for the backend's job runner.
func (s *PostgresStore) RecalculateAllScores(ctx context.Context) (*RecalculationReceipt, error) {
	id := uuid.NewString()
	var requestedAt time.Time
	if err := s.db.QueryRowContext(ctx, insertRecalculationQuery, id).Scan(&requestedAt); err != nil {
		return nil, s.dbError("recalculate-all-scores", err)
	}
	return &RecalculationReceipt{RequestID: id, RequestedAt: requestedAt, Message: "recalculation queued"}, nil
}

func (s *PostgresStore) GetCandidate(ctx context.Context, candidateID string) (*models.Candidate, error) {
	candidate, err := scanCandidate(s.db.QueryRowContext(ctx, selectCandidateQuery, candidateID))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewCandidateNotFoundError(candidateID)
	}
	if err != nil {
		return nil, s.dbError("get-candidate", err)
	}

	experiences, err := s.queryExperiences(ctx, selectExperiencesQuery, candidateID)
	if err != nil {
		return nil, s.dbError("get-candidate-experiences", err)
	}
	interviews, err := s.queryInterviews(ctx, selectInterviewsQuery, candidateID)
	if err != nil {
		return nil, s.dbError("get-candidate-interviews", err)
	}

	candidate.Experiences = experiences[candidateID]
	candidate.Interviews = interviews[candidateID]
	return candidate, nil
}

// ListCandidates loads the population with three queries.
func (s *PostgresStore) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, selectCandidatesQuery)
	if err != nil {
		return nil, s.dbError("list-candidates", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, s.dbError("list-candidates", err)
		}
		candidates = append(candidates, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, s.dbError("list-candidates", err)
	}

	experiences, err := s.queryExperiences(ctx, selectAllExperiencesQuery)
	if err != nil {
		return nil, s.dbError("list-candidate-experiences", err)
	}
	interviews, err := s.queryInterviews(ctx, selectAllInterviewsQuery)
	if err != nil {
		return nil, s.dbError("list-candidate-interviews", err)
	}

	for i := range candidates {
		candidates[i].Experiences = experiences[candidates[i].ID]
		candidates[i].Interviews = interviews[candidates[i].ID]
	}
	return candidates, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanCandidate tolerates NULL in every text column. A NULL field earns no
// credit, the same as an empty one.
func scanCandidate(row rowScanner) (*models.Candidate, error) {
	var (
		c            models.Candidate
		completeness sql.NullFloat64
	)
	fields := []*string{
		&c.Name, &c.Email, &c.Phone, &c.City,
		&c.EducationLevel, &c.Skills, &c.Certifications, &c.Courses,
		&c.OwnTransportation, &c.TravelAvailability, &c.HeightPainting, &c.AvailabilityStart,
		&c.CurrentlyEmployed,
	}
	text := make([]sql.NullString, len(fields))

	dest := make([]interface{}, 0, len(fields)+2)
	dest = append(dest, &c.ID)
	for i := range text {
		dest = append(dest, &text[i])
	}
	dest = append(dest, &completeness)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	for i, f := range fields {
		*f = text[i].String
	}
	if completeness.Valid {
		v := completeness.Float64
		c.ProfileCompleteness = &v
	}
	return &c, nil
}

func (s *PostgresStore) queryExperiences(ctx context.Context, query string, args ...interface{}) (map[string][]models.ProfessionalExperience, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]models.ProfessionalExperience{}
	for rows.Next() {
		var (
			exp                         models.ProfessionalExperience
			candidateID                 string
			company, role, start, leave sql.NullString
			endDate                     sql.NullString
		)
		if err := rows.Scan(&exp.ID, &candidateID, &company, &role, &start, &endDate, &leave); err != nil {
			return nil, err
		}
		exp.Company, exp.Role, exp.StartDate, exp.LeaveReason = company.String, role.String, start.String, leave.String
		if endDate.Valid {
			v := endDate.String
			exp.EndDate = &v
		}
		out[candidateID] = append(out[candidateID], exp)
	}
	return out, rows.Err()
}

func (s *PostgresStore) queryInterviews(ctx context.Context, query string, args ...interface{}) (map[string][]models.Interview, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]models.Interview{}
	for rows.Next() {
		var (
			iv               models.Interview
			candidateID      string
			status, feedback sql.NullString
			rating           sql.NullFloat64
		)
		if err := rows.Scan(&iv.ID, &candidateID, &status, &rating, &feedback); err != nil {
			return nil, err
		}
		iv.Status, iv.Feedback = status.String, feedback.String
		if rating.Valid {
			v := rating.Float64
			iv.Rating = &v
		}
		out[candidateID] = append(out[candidateID], iv)
	}
	return out, rows.Err()
}

func (s *PostgresStore) dbError(op string, err error) error {
	s.logger.Error("database operation failed", map[string]interface{}{
		"operation": op,
		"error":     err.Error(),
	})
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewBackendTimeoutError(op, err)
	}
	return errors.NewBackendUnavailableError(op, err)
}
