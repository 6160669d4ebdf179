// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Weight configuration
	ErrCodeInvalidTotal     ErrorCode = "INVALID_TOTAL"
	ErrCodeInvalidCriterion ErrorCode = "INVALID_CRITERION"
	ErrCodeConfigRejected   ErrorCode = "CONFIG_REJECTED"

	// Backend
	ErrCodeBackendUnavailable ErrorCode = "BACKEND_UNAVAILABLE"
	ErrCodeBackendTimeout     ErrorCode = "BACKEND_TIMEOUT"
	ErrCodeCandidateNotFound  ErrorCode = "CANDIDATE_NOT_FOUND"

	ErrCodeConfigCacheFailed ErrorCode = "CONFIG_CACHE_FAILED"

	// Job input
	ErrCodeInputValidationFailed ErrorCode = "INPUT_VALIDATION_FAILED"
	ErrCodeParseError            ErrorCode = "PARSE_ERROR"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key to the error's metadata and returns the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewInvalidTotalError reports weights that do not sum to 100.
func NewInvalidTotalError(total float64, details string) *StandardError {
	return newError(ErrCodeInvalidTotal, fmt.Sprintf("weights must sum to 100 (got %.1f)", total), details, false, nil).
		WithMetadata("total", total)
}

// NewInvalidCriterionError reports a negative, non-finite or malformed weight.
func NewInvalidCriterionError(field, details string) *StandardError {
	msg := "invalid criterion"
	if field != "" {
		msg = fmt.Sprintf("invalid criterion %s", field)
	}
	return newError(ErrCodeInvalidCriterion, msg, details, false, nil).WithMetadata("field", field)
}

// NewConfigRejectedError is returned when the backend refuses a weight save.
func NewConfigRejectedError(status int, details string) *StandardError {
	return newError(ErrCodeConfigRejected, "backend rejected the scoring configuration", details, false, nil).
		WithMetadata("status", status)
}

// NewBackendUnavailableError wraps transport failures and 5xx responses.
func NewBackendUnavailableError(operation string, err error) *StandardError {
	return newError(ErrCodeBackendUnavailable, fmt.Sprintf("backend unavailable during %s", operation), errString(err), true, err)
}

// NewBackendTimeoutError is returned when a backend call exceeds its deadline.
func NewBackendTimeoutError(operation string, err error) *StandardError {
	return newError(ErrCodeBackendTimeout, fmt.Sprintf("backend timeout during %s", operation), errString(err), true, err)
}

func NewCandidateNotFoundError(candidateID string) *StandardError {
	return newError(ErrCodeCandidateNotFound, "candidate not found", fmt.Sprintf("candidateId: %s", candidateID), false, nil).
		WithMetadata("candidateId", candidateID)
}

// NewConfigCacheFailedError wraps a failing cache backend.
func NewConfigCacheFailedError(err error) *StandardError {
	return newError(ErrCodeConfigCacheFailed, "scoring configuration cache failed", errString(err), true, err)
}

func NewInputValidationError(details string) *StandardError {
	return newError(ErrCodeInputValidationFailed, "job input validation failed", details, false, nil)
}

func NewParseError(err error) *StandardError {
	return newError(ErrCodeParseError, "failed to parse job variables", errString(err), false, err)
}

// Generic constructors

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "unexpected error", errString(err), false, err)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError("EXTERNAL_SERVICE_ERROR", fmt.Sprintf("External service '%s' error", service), errString(err), true, err)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError("TIMEOUT_ERROR", fmt.Sprintf("Service '%s' timeout", service), errString(err), true, err)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 4. Inspection helpers
// ==========================

// AsStandardError extracts a StandardError from err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

// IsRetryable reports whether err is a retryable StandardError.
func IsRetryable(err error) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Retryable
}

// ==========================
// 5. BPMN mapping
// ==========================

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidTotal:          "INVALID_TOTAL",
	ErrCodeInvalidCriterion:      "INVALID_CRITERION",
	ErrCodeConfigRejected:        "CONFIG_REJECTED",
	ErrCodeBackendUnavailable:    "BACKEND_UNAVAILABLE",
	ErrCodeBackendTimeout:        "BACKEND_UNAVAILABLE",
	ErrCodeCandidateNotFound:     "CANDIDATE_NOT_FOUND",
	ErrCodeConfigCacheFailed:     "CONFIG_CACHE_FAILED",
	ErrCodeInputValidationFailed: "INPUT_VALIDATION_FAILED",
	ErrCodeParseError:            "PARSE_ERROR",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeBackendUnavailable, "EXTERNAL_SERVICE_ERROR":
		return 3
	case ErrCodeBackendTimeout, "TIMEOUT_ERROR":
		return 2
	case ErrCodeConfigCacheFailed:
		return 1
	default:
		return 0 // Business errors: no retry
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "BACKEND") || strings.Contains(codeStr, "EXTERNAL") || strings.Contains(codeStr, "TIMEOUT"):
		return "BACKEND"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "NOT_FOUND"
	case strings.Contains(codeStr, "TOTAL") || strings.Contains(codeStr, "CRITERION") || strings.Contains(codeStr, "REJECTED"):
		return "CONFIGURATION"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "PARSE"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
