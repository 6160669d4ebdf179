// internal/workers/scoring/calculate-candidate-score/handler.go
package calculatecandidatescore

import (
	"context"
	"encoding/json"

	"recruit-scoring/internal/common/errors"
	"recruit-scoring/internal/common/logger"
	"recruit-scoring/internal/common/metrics"
	"recruit-scoring/internal/common/observability"
	"recruit-scoring/internal/models"
	"recruit-scoring/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "calculate-candidate-score"
)

// Scorer is the part of the scoring service this worker needs.
type Scorer interface {
	ScoreCandidate(ctx context.Context, candidateID string) (*scoring.Breakdown, error)
	ScoreSnapshot(ctx context.Context, candidate *models.Candidate) (*scoring.Breakdown, error)
}

type Handler struct {
	config       *Config
	scorer       Scorer
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
}

func NewHandler(config *Config, scorer Scorer, log logger.Logger, obs *observability.Observability) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		scorer:       scorer,
		errorHandler: errors.NewErrorHandler(l),
		obs:          obs,
		logger:       l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewParseError(err)
	}
	if err := validateInput(&input); err != nil {
		return nil, err
	}
	return &input, nil
}

// Execute scores the inline snapshot when present and otherwise loads the
// candidate by ID.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	var (
		breakdown *scoring.Breakdown
		err       error
	)
	if input.Candidate != nil {
		if input.Candidate.ID == "" {
			input.Candidate.ID = input.CandidateID
		}
		breakdown, err = h.scorer.ScoreSnapshot(ctx, input.Candidate)
	} else {
		breakdown, err = h.scorer.ScoreCandidate(ctx, input.CandidateID)
	}
	if err != nil {
		return nil, err
	}

	h.logger.Info("candidate score calculated", map[string]interface{}{
		"candidateId": breakdown.CandidateID,
		"total":       breakdown.Total,
		"grade":       breakdown.Grade,
	})

	return &Output{
		CandidateID: breakdown.CandidateID,
		TotalScore:  breakdown.Total,
		Grade:       breakdown.Grade,
		Breakdown:   *breakdown,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, observability.StatusCompleted)
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	code := errors.Normalize(err).Code
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(code)).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, observability.StatusFailed)
	h.errorHandler.HandleJobError(ctx, client, job, err)
}
