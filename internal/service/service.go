// Package service ties the scoring engine to the backend and the
// configuration cache. Workers and tools call it; it holds no scoring rules
// of its own.
package service

import (
	"context"
	"time"

	"recruit-scoring/internal/backend"
	"recruit-scoring/internal/cache"
	"recruit-scoring/internal/common/errors"
	"recruit-scoring/internal/common/logger"
	"recruit-scoring/internal/common/metrics"
	"recruit-scoring/internal/models"
	"recruit-scoring/internal/scoring"
)

// Recalculation statuses.
const (
	RecalculationRequested = "requested"
	RecalculationCancelled = "cancelled"
)

type Options struct {
	Backend       backend.Backend
	Cache         cache.ConfigCache
	Engine        *scoring.Engine
	Logger        logger.Logger
	TopCandidates int
}

type Service struct {
	backend backend.Backend
	cache   cache.ConfigCache
	engine  *scoring.Engine
	logger  logger.Logger
	topN    int
}

func New(opts Options) *Service {
	s := &Service{
		backend: opts.Backend,
		cache:   opts.Cache,
		engine:  opts.Engine,
		logger:  opts.Logger,
		topN:    opts.TopCandidates,
	}
	if s.cache == nil {
		s.cache = cache.NewMemoryCache(cache.DefaultTTL)
	}
	if s.engine == nil {
		s.engine = scoring.NewEngine()
	}
	if s.logger == nil {
		s.logger = logger.NewNoOpLogger()
	}
	if s.topN <= 0 {
		s.topN = scoring.DefaultTopCandidates
	}
	s.logger = s.logger.WithFields(map[string]interface{}{"component": "scoring.service"})
	return s
}

// RecalculationResult reports what RecalculateAll did.
type RecalculationResult struct {
	Status      string     `json:"status"`
	RequestID   string     `json:"request_id,omitempty"`
	RequestedAt *time.Time `json:"requested_at,omitempty"`
	Message     string     `json:"message,omitempty"`
}

// GetConfig serves the cached configuration while it is fresh and refills
// the cache from the backend otherwise. A broken cache is bypassed. The
// refill is dropped when an update or reset invalidated the cache while
// the backend read was in flight.
func (s *Service) GetConfig(ctx context.Context) (*scoring.ScoringConfig, error) {
	cached, ok, err := s.cache.Get(ctx)
	switch {
	case err != nil:
		metrics.ConfigCacheRequests.WithLabelValues(metrics.CacheError).Inc()
		s.logger.Warn("config cache read failed", map[string]interface{}{"error": err.Error()})
	case ok:
		metrics.ConfigCacheRequests.WithLabelValues(metrics.CacheHit).Inc()
		return cached, nil
	default:
		metrics.ConfigCacheRequests.WithLabelValues(metrics.CacheMiss).Inc()
	}

	gen, genErr := s.cache.Generation(ctx)
	cfg, err := s.backend.GetScoringConfig(ctx)
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		s.logger.Warn("config cache generation read failed", map[string]interface{}{"error": genErr.Error()})
		return cfg, nil
	}

	stored, err := s.cache.Fill(ctx, *cfg, gen)
	switch {
	case err != nil:
		s.logger.Warn("config cache write failed", map[string]interface{}{"error": err.Error()})
	case !stored:
		s.logger.Debug("config cache fill skipped, invalidated during read", map[string]interface{}{"generation": gen})
	}
	return cfg, nil
}

// UpdateConfig validates weights locally before anything is sent.
func (s *Service) UpdateConfig(ctx context.Context, weights scoring.ScoringWeights) (*scoring.ScoringConfig, error) {
	if err := scoring.Validate(weights); err != nil {
		stdErr := backend.FromConfigError(err)
		metrics.ConfigValidations.WithLabelValues(validationResult(stdErr)).Inc()
		s.logger.Info("scoring config rejected", map[string]interface{}{
			"total": scoring.Round1(weights.Total()),
			"error": err.Error(),
		})
		return nil, stdErr
	}
	metrics.ConfigValidations.WithLabelValues("valid").Inc()

	saved, err := s.backend.UpdateScoringConfig(ctx, weights)
	if err != nil {
		return nil, err
	}
	saved.IsCustom = !saved.Weights.Equal(scoring.DefaultWeights())

	if err := s.invalidate(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("scoring config updated", map[string]interface{}{
		"isCustom": saved.IsCustom,
	})
	return saved, nil
}

// ResetConfig restores the default weights.
func (s *Service) ResetConfig(ctx context.Context) (*scoring.ScoringConfig, error) {
	stored, err := s.backend.ResetScoringConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.invalidate(ctx); err != nil {
		return nil, err
	}

	cfg := scoring.Reset()
	if stored != nil {
		cfg.UpdatedAt = stored.UpdatedAt
	}
	s.logger.Info("scoring config reset to defaults", nil)
	return &cfg, nil
}

// ScoreCandidate loads a candidate and scores it under the current
// configuration. Breakdowns are never stored; every call recomputes.
func (s *Service) ScoreCandidate(ctx context.Context, candidateID string) (*scoring.Breakdown, error) {
	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	candidate, err := s.backend.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	return s.score(candidate, cfg.Weights), nil
}

// ScoreSnapshot scores a candidate supplied by the caller.
func (s *Service) ScoreSnapshot(ctx context.Context, candidate *models.Candidate) (*scoring.Breakdown, error) {
	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	return s.score(candidate, cfg.Weights), nil
}

func (s *Service) score(candidate *models.Candidate, weights scoring.ScoringWeights) *scoring.Breakdown {
	b := s.engine.Score(candidate, weights)
	metrics.CandidatesScored.WithLabelValues(string(b.Grade)).Inc()
	metrics.CandidateScore.Observe(b.Total)

	rounded := b.Rounded()
	s.logger.Debug("candidate scored", map[string]interface{}{
		"candidateId": rounded.CandidateID,
		"total":       rounded.Total,
		"grade":       rounded.Grade,
	})
	return &rounded
}

// RecalculateAll asks the backend to rescore every candidate. Nothing is
// sent unless the operator confirmed.
func (s *Service) RecalculateAll(ctx context.Context, confirmed bool) (*RecalculationResult, error) {
	if !confirmed {
		s.logger.Info("recalculation cancelled by operator", nil)
		return &RecalculationResult{Status: RecalculationCancelled, Message: "recalculation not confirmed"}, nil
	}

	receipt, err := s.backend.RecalculateAllScores(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.invalidate(ctx); err != nil {
		return nil, err
	}

	requestedAt := receipt.RequestedAt
	s.logger.Info("recalculation requested", map[string]interface{}{
		"requestId": receipt.RequestID,
	})
	return &RecalculationResult{
		Status:      RecalculationRequested,
		RequestID:   receipt.RequestID,
		RequestedAt: &requestedAt,
		Message:     receipt.Message,
	}, nil
}

// Distribution scores the whole population and summarizes it. A
// non-positive topN uses the configured default.
func (s *Service) Distribution(ctx context.Context, topN int) (*scoring.Distribution, error) {
	if topN <= 0 {
		topN = s.topN
	}

	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	candidates, err := s.backend.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}

	scores := make([]scoring.CandidateScore, 0, len(candidates))
	for i := range candidates {
		b := s.engine.Score(&candidates[i], cfg.Weights)
		scores = append(scores, scoring.CandidateScore{
			CandidateID: candidates[i].ID,
			Name:        candidates[i].Name,
			Total:       b.Total,
			Grade:       b.Grade,
		})
	}

	d := scoring.Summarize(scores, topN)
	for i := range d.TopCandidates {
		d.TopCandidates[i].Total = scoring.Round1(d.TopCandidates[i].Total)
	}

	s.logger.Info("score distribution computed", map[string]interface{}{
		"candidates": d.TotalCandidates,
		"mean":       d.Mean,
	})
	return &d, nil
}

func (s *Service) invalidate(ctx context.Context) error {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Error("config cache invalidation failed", map[string]interface{}{"error": err.Error()})
		return errors.NewConfigCacheFailedError(err)
	}
	return nil
}

func validationResult(err error) string {
	if stdErr, ok := errors.AsStandardError(err); ok {
		return string(stdErr.Code)
	}
	return "invalid"
}
