package backend

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"recruit-scoring/internal/common/errors"
	commonhttp "recruit-scoring/internal/common/http"
	"recruit-scoring/internal/common/logger"
	"recruit-scoring/internal/common/metrics"
	"recruit-scoring/internal/models"
	"recruit-scoring/internal/scoring"
)

// RESTClient calls the recruitment backend's HTTP API.
type RESTClient struct {
	baseURL string
	http    *commonhttp.Client
	logger  logger.Logger
	now     func() time.Time
}

type RESTOption func(*RESTClient)

// WithHTTPClient swaps the transport, e.g. for httptest servers.
func WithHTTPClient(hc *http.Client) RESTOption {
	return func(c *RESTClient) {
		c.http = commonhttp.NewClientWith(hc)
	}
}

func NewRESTClient(baseURL, token string, timeout time.Duration, log logger.Logger, opts ...RESTOption) *RESTClient {
	c := &RESTClient{
		baseURL: baseURL,
		http:    commonhttp.NewClient(timeout),
		logger:  log.WithFields(map[string]interface{}{"component": "backend.rest"}),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if token != "" {
		c.http.SetHeader("Authorization", "Bearer "+token)
	}
	return c
}

type configEnvelope struct {
	Weights   json.RawMessage `json:"weights"`
	IsCustom  *bool           `json:"is_custom"`
	UpdatedAt *time.Time      `json:"updated_at"`
}

type listEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type recalcResponse struct {
	RequestID string `json:"request_id"`
	Message   string `json:"message"`
}

func (c *RESTClient) GetScoringConfig(ctx context.Context) (*scoring.ScoringConfig, error) {
	const op = "get-scoring-config"
	resp, err := c.call(ctx, op, http.MethodGet, "/scoring-config", nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		cfg := scoring.Reset()
		return &cfg, nil
	}
	if !resp.Success() {
		return nil, statusError(op, resp)
	}
	return decodeConfig(op, resp.Body)
}

func (c *RESTClient) UpdateScoringConfig(ctx context.Context, weights scoring.ScoringWeights) (*scoring.ScoringConfig, error) {
	const op = "update-scoring-config"
	resp, err := c.call(ctx, op, http.MethodPost, "/update-scoring-config", map[string]interface{}{"weights": weights})
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, errors.NewConfigRejectedError(resp.StatusCode, backendMessage(resp.Body))
	case !resp.Success():
		return nil, statusError(op, resp)
	}

	if cfg, err := decodeConfig(op, resp.Body); err == nil {
		return cfg, nil
	}
	// Some deployments answer with a bare acknowledgement.
	saved := scoring.NewConfig(weights)
	now := c.now().UTC()
	saved.UpdatedAt = &now
	return &saved, nil
}

func (c *RESTClient) ResetScoringConfig(ctx context.Context) (*scoring.ScoringConfig, error) {
	const op = "reset-scoring-config"
	resp, err := c.call(ctx, op, http.MethodPost, "/reset-scoring-config", struct{}{})
	if err != nil {
		return nil, err
	}
	if !resp.Success() {
		return nil, statusError(op, resp)
	}
	cfg := scoring.Reset()
	now := c.now().UTC()
	cfg.UpdatedAt = &now
	return &cfg, nil
}

func (c *RESTClient) RecalculateAllScores(ctx context.Context) (*RecalculationReceipt, error) {
	const op = "recalculate-all-scores"
	requestID := uuid.NewString()
	resp, err := c.callWithID(ctx, op, http.MethodPost, "/recalculate-all-scores", struct{}{}, requestID)
	if err != nil {
		return nil, err
	}
	if !resp.Success() {
		return nil, statusError(op, resp)
	}

	receipt := &RecalculationReceipt{RequestID: requestID, RequestedAt: c.now().UTC()}
	var body recalcResponse
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		if body.RequestID != "" {
			receipt.RequestID = body.RequestID
		}
		receipt.Message = body.Message
	}
	return receipt, nil
}

func (c *RESTClient) GetCandidate(ctx context.Context, candidateID string) (*models.Candidate, error) {
	const op = "get-candidate"
	base := "/candidates/" + url.PathEscape(candidateID)

	resp, err := c.call(ctx, op, http.MethodGet, base, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.NewCandidateNotFoundError(candidateID)
	}
	if !resp.Success() {
		return nil, statusError(op, resp)
	}

	var candidate models.Candidate
	if err := json.Unmarshal(unwrapData(resp.Body), &candidate); err != nil {
		return nil, decodeError(op, err)
	}
	if candidate.ID == "" {
		candidate.ID = candidateID
	}

	if err := c.getList(ctx, "get-candidate-experiences", base+"/experiences", &candidate.Experiences); err != nil {
		return nil, err
	}
	if err := c.getList(ctx, "get-candidate-interviews", base+"/interviews", &candidate.Interviews); err != nil {
		return nil, err
	}
	return &candidate, nil
}

// ListCandidates asks for the full population with experiences and
// interviews embedded so scoring needs no per-candidate round trips.
func (c *RESTClient) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	candidates := []models.Candidate{}
	if err := c.getList(ctx, "list-candidates", "/candidates?include=professional_experiences,interviews", &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// getList accepts either a bare JSON array or {"data": [...]}. A 404 leaves
// out untouched.
func (c *RESTClient) getList(ctx context.Context, op, path string, out interface{}) error {
	resp, err := c.call(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if !resp.Success() {
		return statusError(op, resp)
	}
	if err := json.Unmarshal(unwrapData(resp.Body), out); err != nil {
		return decodeError(op, err)
	}
	return nil
}

func (c *RESTClient) call(ctx context.Context, op, method, path string, body interface{}) (*commonhttp.Response, error) {
	requestID := ""
	if method != http.MethodGet {
		requestID = uuid.NewString()
	}
	return c.callWithID(ctx, op, method, path, body, requestID)
}

func (c *RESTClient) callWithID(ctx context.Context, op, method, path string, body interface{}, requestID string) (*commonhttp.Response, error) {
	headers := map[string]string{}
	if requestID != "" {
		headers["X-Request-ID"] = requestID
	}

	start := time.Now()
	resp, err := c.http.DoJSON(ctx, method, c.baseURL+path, body, headers)
	status := "error"
	if resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	metrics.BackendRequestDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())

	if err != nil {
		c.logger.Warn("backend request failed", map[string]interface{}{
			"operation": op,
			"method":    method,
			"path":      path,
			"error":     err.Error(),
		})
		if stderrors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewBackendTimeoutError(op, err)
		}
		return nil, errors.NewBackendUnavailableError(op, err)
	}

	c.logger.Debug("backend request completed", map[string]interface{}{
		"operation": op,
		"status":    resp.StatusCode,
		"requestId": requestID,
	})
	return resp, nil
}

func decodeConfig(op string, body []byte) (*scoring.ScoringConfig, error) {
	var env configEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, decodeError(op, err)
	}

	raw := []byte(env.Weights)
	if len(env.Weights) == 0 || string(env.Weights) == "null" {
		raw = body
	}
	weights, err := scoring.ValidateJSON(raw)
	if err != nil {
		return nil, FromConfigError(err)
	}

	cfg := scoring.NewConfig(weights)
	if env.IsCustom != nil {
		cfg.IsCustom = *env.IsCustom
	}
	cfg.UpdatedAt = env.UpdatedAt
	return &cfg, nil
}

// FromConfigError turns a scoring validation error into a StandardError.
func FromConfigError(err error) error {
	var ce *scoring.ConfigError
	if !stderrors.As(err, &ce) {
		return err
	}
	if ce.Kind == scoring.ErrInvalidTotal {
		return errors.NewInvalidTotalError(ce.Total, ce.Error())
	}
	return errors.NewInvalidCriterionError(ce.Field, ce.Msg)
}

func unwrapData(body []byte) []byte {
	var env listEnvelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		return env.Data
	}
	return body
}

func backendMessage(body []byte) string {
	var msg struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &msg); err == nil {
		if msg.Message != "" {
			return msg.Message
		}
		if msg.Error != "" {
			return msg.Error
		}
	}
	return string(body)
}

func statusError(op string, resp *commonhttp.Response) error {
	err := fmt.Errorf("status %d: %s", resp.StatusCode, backendMessage(resp.Body))
	stdErr := errors.NewBackendUnavailableError(op, err).WithMetadata("status", resp.StatusCode)
	if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		stdErr.Retryable = false
	}
	return stdErr
}

func decodeError(op string, err error) error {
	stdErr := errors.NewBackendUnavailableError(op, fmt.Errorf("decode response: %w", err))
	stdErr.Retryable = false
	return stdErr
}
