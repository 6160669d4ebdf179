// internal/workers/scoring/summarize-score-distribution/handler.go
package summarizescoredistribution

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
	TaskType = "summarize-score-distribution"
)

type Summarizer interface {
	Distribution(ctx context.Context, topN int) (*scoring.Distribution, error)
}

type Handler struct {
	config       *Config
	summarizer   Summarizer
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
}

func NewHandler(config *Config, summarizer Summarizer, log logger.Logger, obs *observability.Observability) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		summarizer:   summarizer,
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

// Execute uses the worker's configured ranking size when the job leaves
// topN at zero.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	topN := input.TopN
	if topN == 0 {
		topN = h.config.TopCandidates
	}

	d, err := h.summarizer.Distribution(ctx, topN)
	if err != nil {
		return nil, err
	}

	h.logger.Info("score distribution summarized", map[string]interface{}{
		"candidates": d.TotalCandidates,
		"excellent":  d.Excellent.Count,
		"good":       d.Good.Count,
		"average":    d.Average.Count,
		"poor":       d.Poor.Count,
	})

	return &Output{
		Distribution:    *d,
		TotalCandidates: d.TotalCandidates,
		AverageScore:    d.Mean,
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
