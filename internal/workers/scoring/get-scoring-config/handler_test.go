// internal/workers/scoring/get-scoring-config/handler_test.go
package getscoringconfig

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"recruit-scoring/internal/common/config"
	"recruit-scoring/internal/common/errors"
	"recruit-scoring/internal/common/logger"
	"recruit-scoring/internal/scoring"
)

type MockReader struct {
	mock.Mock
}

func (m *MockReader) GetConfig(ctx context.Context) (*scoring.ScoringConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scoring.ScoringConfig), args.Error(1)
}

func newTestHandler(t *testing.T, reader ConfigReader) *Handler {
	return NewHandler(LoadConfig(config.WorkerConfig{}), reader, logger.NewTestLogger(t), nil)
}

func TestHandler_ParseInput(t *testing.T) {
	h := newTestHandler(t, &MockReader{})

	tests := []struct {
		name      string
		variables string
		want      bool
		wantErr   bool
	}{
		{name: "no variables", variables: ""},
		{name: "empty object", variables: "{}"},
		{name: "display groups requested", variables: `{"includeDisplayGroups": true}`, want: true},
		{name: "malformed", variables: `{"includeDisplayGroups":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 1, Variables: tt.variables}}
			input, err := h.parseInput(job)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeParseError))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, input.IncludeDisplayGroups)
		})
	}
}

func TestHandler_Execute_Defaults(t *testing.T) {
	reader := &MockReader{}
	cfg := scoring.Reset()
	reader.On("GetConfig", mock.Anything).Return(&cfg, nil)
	h := newTestHandler(t, reader)

	out, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.False(t, out.IsCustom)
	assert.Equal(t, 100.0, out.WeightsTotal)
	assert.Equal(t, map[scoring.Category]float64{
		scoring.CategoryExperienceSkills:      30,
		scoring.CategoryEducation:             15,
		scoring.CategoryAvailabilityLogistics: 20,
		scoring.CategoryProfileCompleteness:   15,
		scoring.CategoryInterviewPerformance:  20,
	}, out.CategoryTotals)
	assert.Nil(t, out.DisplayGroups)
}

func TestHandler_Execute_CustomWithDisplayGroups(t *testing.T) {
	w := scoring.DefaultWeights()
	w.ExperienceSkills.YearsOfExperience = 10
	w.Education.EducationLevel = 17
	updated := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	cfg := scoring.NewConfig(w)
	cfg.UpdatedAt = &updated

	reader := &MockReader{}
	reader.On("GetConfig", mock.Anything).Return(&cfg, nil)
	h := newTestHandler(t, reader)

	out, err := h.Execute(context.Background(), &Input{IncludeDisplayGroups: true})
	require.NoError(t, err)

	assert.True(t, out.IsCustom)
	assert.Equal(t, &updated, out.UpdatedAt)
	assert.Equal(t, 25.0, out.CategoryTotals[scoring.CategoryExperienceSkills])
	assert.Equal(t, 20.0, out.CategoryTotals[scoring.CategoryEducation])
	require.NotEmpty(t, out.DisplayGroups)

	shown := 0.0
	for _, g := range out.DisplayGroups {
		shown += g.Points
	}
	assert.InDelta(t, 100.0, shown, 1e-9, "regrouping must not change the total")
}

func TestHandler_Execute_BackendError(t *testing.T) {
	reader := &MockReader{}
	reader.On("GetConfig", mock.Anything).
		Return(nil, errors.NewBackendUnavailableError("get-scoring-config", stderrors.New("502")))
	h := newTestHandler(t, reader)

	_, err := h.Execute(context.Background(), &Input{})
	require.Error(t, err)
	assert.True(t, errors.IsRetryable(err))
}
