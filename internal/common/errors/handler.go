// internal/common/errors/handler.go
package errors

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// ErrorHandler decides between failing a job for retry and throwing a BPMN
// error, based on the error code.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Decision is what HandleJobError did with a job.
type Decision string

const (
	DecisionRetry Decision = "retry"
	DecisionThrow Decision = "throw"
)

// Decide returns the action for err given the job's remaining retries. A
// retryable error on a job with a single retry left is thrown instead.
func Decide(err error, jobRetries int32) (*BPMNError, Decision, int32) {
	stdErr := Normalize(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	if bpmnErr.Retries > 0 && jobRetries > 1 {
		remaining := jobRetries - 1
		if limit := int32(bpmnErr.Retries); remaining > limit {
			remaining = limit
		}
		return bpmnErr, DecisionRetry, remaining
	}
	return bpmnErr, DecisionThrow, 0
}

// HandleJobError handles any error in a worker job
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) Decision {
	bpmnErr, decision, retries := Decide(err, job.Retries)
	h.logError(job, bpmnErr, decision, retries)

	if decision == DecisionRetry {
		h.failJob(ctx, client, job, bpmnErr, retries)
	} else {
		h.throwBPMNError(ctx, client, job, bpmnErr)
	}
	return decision
}

// Normalize ensures we always have a StandardError
func Normalize(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return NewInternalError(err)
}

func (h *ErrorHandler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError, retries int32) {
	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(retries).
		ErrorMessage(bpmnErr.Message)

	if varsJSON, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		if withVars, err := cmd.VariablesFromString(string(varsJSON)); err == nil {
			h.send(ctx, job, "fail", func() error { _, err := withVars.Send(ctx); return err })
			return
		}
	}
	h.send(ctx, job, "fail", func() error { _, err := cmd.Send(ctx); return err })
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	if varsJSON, err := json.Marshal(bpmnErr.ToErrorVariables()); err == nil {
		if withVars, err := cmd.VariablesFromString(string(varsJSON)); err == nil {
			h.send(ctx, job, "throw", func() error { _, err := withVars.Send(ctx); return err })
			return
		}
	}
	h.send(ctx, job, "throw", func() error { _, err := cmd.Send(ctx); return err })
}

func (h *ErrorHandler) send(ctx context.Context, job entities.Job, command string, fn func() error) {
	if err := fn(); err != nil {
		h.logger.Error("failed to send job command", map[string]interface{}{
			"jobKey":  job.Key,
			"command": command,
			"error":   err.Error(),
		})
	}
}

func (h *ErrorHandler) logError(job entities.Job, bpmnErr *BPMNError, decision Decision, retries int32) {
	code, _ := bpmnErr.ErrorVariables["originalErrorCode"].(string)
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        code,
		"bpmnErrorCode":    bpmnErr.Code,
		"message":          bpmnErr.Message,
		"details":          bpmnErr.Details,
		"retryable":        bpmnErr.Retryable,
		"decision":         string(decision),
		"retriesRemaining": retries,
		"errorCategory":    GetErrorCategory(ErrorCode(code)),
		"workflowInstance": job.ProcessInstanceKey,
	})
}
