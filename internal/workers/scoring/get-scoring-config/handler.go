// internal/workers/scoring/get-scoring-config/handler.go
package getscoringconfig

import (
	"context"
	"encoding/json"
	"strings"

	"recruit-scoring/internal/common/errors"
	"recruit-scoring/internal/common/logger"
	"recruit-scoring/internal/common/metrics"
	"recruit-scoring/internal/common/observability"
	"recruit-scoring/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "get-scoring-config"
)

type ConfigReader interface {
	GetConfig(ctx context.Context) (*scoring.ScoringConfig, error)
}

type Handler struct {
	config       *Config
	reader       ConfigReader
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
}

func NewHandler(config *Config, reader ConfigReader, log logger.Logger, obs *observability.Observability) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		reader:       reader,
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

// parseInput tolerates jobs without variables.
func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var input Input
	if raw := strings.TrimSpace(job.Variables); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input); err != nil {
			return nil, errors.NewParseError(err)
		}
	}
	if err := validateInput(&input); err != nil {
		return nil, err
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	cfg, err := h.reader.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	totals := cfg.Weights.CategoryTotals()
	for k, v := range totals {
		totals[k] = scoring.Round1(v)
	}

	out := &Output{
		Weights:        cfg.Weights,
		IsCustom:       cfg.IsCustom,
		UpdatedAt:      cfg.UpdatedAt,
		WeightsTotal:   scoring.Round1(cfg.Weights.Total()),
		CategoryTotals: totals,
	}
	if input.IncludeDisplayGroups {
		out.DisplayGroups = scoring.DisplayGroups(cfg.Weights)
	}
	return out, nil
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
