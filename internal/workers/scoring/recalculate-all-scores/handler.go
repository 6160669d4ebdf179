// internal/workers/scoring/recalculate-all-scores/handler.go
package recalculateallscores

import (
	"context"
	"encoding/json"

	"recruit-scoring/internal/common/errors"
	"recruit-scoring/internal/common/logger"
	"recruit-scoring/internal/common/metrics"
	"recruit-scoring/internal/common/observability"
	"recruit-scoring/internal/service"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "recalculate-all-scores"
)

type Recalculator interface {
	RecalculateAll(ctx context.Context, confirmed bool) (*service.RecalculationResult, error)
}

type Handler struct {
	config       *Config
	recalc       Recalculator
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
}

func NewHandler(config *Config, recalc Recalculator, log logger.Logger, obs *observability.Observability) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		recalc:       recalc,
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

// Execute triggers at most one backend recalculation per job.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	result, err := h.recalc.RecalculateAll(ctx, *input.Confirmed)
	if err != nil {
		return nil, err
	}

	h.logger.Info("recalculate-all handled", map[string]interface{}{
		"status":      result.Status,
		"requestId":   result.RequestID,
		"requestedBy": input.RequestedBy,
	})

	return &Output{
		Status:      result.Status,
		RequestID:   result.RequestID,
		RequestedAt: result.RequestedAt,
		Message:     result.Message,
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
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.Normalize(err).Code)).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, observability.StatusFailed)
	h.errorHandler.HandleJobError(ctx, client, job, err)
}
