package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruit-scoring/internal/common/errors"
	"recruit-scoring/internal/common/logger"
	"recruit-scoring/internal/scoring"
)

func newTestREST(t *testing.T, handler http.HandlerFunc) *RESTClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRESTClient(srv.URL, "test-token", time.Second, logger.NewTestLogger(t), WithHTTPClient(srv.Client()))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ==========================
// Scoring configuration
// ==========================

func TestRESTClient_GetScoringConfig(t *testing.T) {
	custom := scoring.DefaultWeights()
	custom.ExperienceSkills.YearsOfExperience = 10
	custom.InterviewPerformance.AverageRating = 20

	tests := []struct {
		name       string
		status     int
		body       interface{}
		wantCustom bool
		wantW      scoring.ScoringWeights
		wantCode   errors.ErrorCode
	}{
		{
			name:       "envelope",
			status:     http.StatusOK,
			body:       map[string]interface{}{"weights": custom, "is_custom": true},
			wantCustom: true,
			wantW:      custom,
		},
		{
			name:       "bare weights",
			status:     http.StatusOK,
			body:       custom,
			wantCustom: true,
			wantW:      custom,
		},
		{
			name:   "nothing saved yet",
			status: http.StatusNotFound,
			body:   map[string]string{"message": "not found"},
			wantW:  scoring.DefaultWeights(),
		},
		{
			name:     "stored weights are invalid",
			status:   http.StatusOK,
			body:     map[string]interface{}{"weights": map[string]interface{}{"education": map[string]float64{"courses": 3}}},
			wantCode: errors.ErrCodeInvalidCriterion,
		},
		{
			name:     "server error",
			status:   http.StatusBadGateway,
			body:     map[string]string{"error": "upstream"},
			wantCode: errors.ErrCodeBackendUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestREST(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/scoring-config", r.URL.Path)
				assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
				writeJSON(w, tt.status, tt.body)
			})

			cfg, err := client.GetScoringConfig(context.Background())
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, cfg.Weights)
			assert.Equal(t, tt.wantCustom, cfg.IsCustom)
		})
	}
}

func TestRESTClient_GetScoringConfig_ServerErrorIsRetryable(t *testing.T) {
	client := newTestREST(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.GetScoringConfig(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsRetryable(err))
}

func TestRESTClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewRESTClient(url, "", 200*time.Millisecond, logger.NewNoOpLogger())
	_, err := client.GetScoringConfig(context.Background())

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeBackendUnavailable))
	assert.True(t, errors.IsRetryable(err))
}

func TestRESTClient_UpdateScoringConfig(t *testing.T) {
	weights := scoring.DefaultWeights()
	weights.Education.Courses = 0
	weights.Education.EducationLevel = 15

	t.Run("saved", func(t *testing.T) {
		client := newTestREST(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/update-scoring-config", r.URL.Path)
			_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
			assert.NoError(t, err, "writes carry a request id")

			var body struct {
				Weights scoring.ScoringWeights `json:"weights"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, weights, body.Weights)
			writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
		})

		cfg, err := client.UpdateScoringConfig(context.Background(), weights)
		require.NoError(t, err)
		assert.Equal(t, weights, cfg.Weights)
		assert.True(t, cfg.IsCustom)
		assert.NotNil(t, cfg.UpdatedAt)
	})

	t.Run("rejected", func(t *testing.T) {
		client := newTestREST(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "weights must sum to 100"})
		})

		_, err := client.UpdateScoringConfig(context.Background(), weights)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeConfigRejected))
		assert.False(t, errors.IsRetryable(err))
		assert.Contains(t, err.Error(), "weights must sum to 100")
	})
}

func TestRESTClient_ResetScoringConfig(t *testing.T) {
	client := newTestREST(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reset-scoring-config", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	cfg, err := client.ResetScoringConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, scoring.DefaultWeights(), cfg.Weights)
	assert.False(t, cfg.IsCustom)
}

func TestRESTClient_RecalculateAllScores(t *testing.T) {
	var seenID string
	client := newTestREST(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recalculate-all-scores", r.URL.Path)
		seenID = r.Header.Get("X-Request-ID")
		writeJSON(w, http.StatusAccepted, map[string]string{"message": "queued"})
	})

	receipt, err := client.RecalculateAllScores(context.Background())
	require.NoError(t, err)
	assert.Equal(t, seenID, receipt.RequestID)
	assert.Equal(t, "queued", receipt.Message)
}

// ==========================
// Candidates
// ==========================

func TestRESTClient_GetCandidate(t *testing.T) {
	client := newTestREST(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/candidates/c-1":
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"data": map[string]interface{}{"id": "c-1", "name": "Ana", "skills": "Excel, Solda"},
			})
		case "/candidates/c-1/experiences":
			writeJSON(w, http.StatusOK, []map[string]interface{}{
				{"company": "Acme", "role": "Painter", "start_date": "2020-01-01"},
			})
		case "/candidates/c-1/interviews":
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"data": []map[string]interface{}{{"status": "completed", "rating": 4, "feedback": "good"}},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	c, err := client.GetCandidate(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", c.Name)
	require.Len(t, c.Experiences, 1)
	assert.Equal(t, "Acme", c.Experiences[0].Company)
	require.Len(t, c.Interviews, 1)
	require.NotNil(t, c.Interviews[0].Rating)
	assert.Equal(t, 4.0, *c.Interviews[0].Rating)
}

func TestRESTClient_GetCandidate_NotFound(t *testing.T) {
	client := newTestREST(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetCandidate(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeCandidateNotFound))
}

func TestRESTClient_ListCandidates(t *testing.T) {
	client := newTestREST(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/candidates", r.URL.Path)
		assert.Equal(t, "professional_experiences,interviews", r.URL.Query().Get("include"))
		writeJSON(w, http.StatusOK, []map[string]interface{}{
			{"id": "c-1", "professional_experiences": []map[string]string{{"start_date": "2019-01-01"}}},
			{"id": "c-2"},
		})
	})

	list, err := client.ListCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Len(t, list[0].Experiences, 1)
	assert.Empty(t, list[1].Experiences)
}
