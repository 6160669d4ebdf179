//go:build e2e

// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recruit-scoring/internal/backend"
	"recruit-scoring/internal/cache"
	"recruit-scoring/internal/common/config"
	"recruit-scoring/internal/common/database"
	"recruit-scoring/internal/common/logger"
	"recruit-scoring/internal/models"
	"recruit-scoring/internal/scoring"
	"recruit-scoring/internal/service"

	ccs "recruit-scoring/internal/workers/scoring/calculate-candidate-score"
	gsc "recruit-scoring/internal/workers/scoring/get-scoring-config"
	ras "recruit-scoring/internal/workers/scoring/recalculate-all-scores"
	rsc "recruit-scoring/internal/workers/scoring/reset-scoring-config"
	ssd "recruit-scoring/internal/workers/scoring/summarize-score-distribution"
	usc "recruit-scoring/internal/workers/scoring/update-scoring-config"
)

var (
	zeebeClient zbc.Client
	zapLog      *zap.Logger
)

func TestMain(m *testing.M) {
	addr := os.Getenv("ZEEBE_ADDRESS")
	if addr == "" {
		addr = "localhost:26500"
	}

	var err error
	zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         addr,
		UsePlaintextConnection: true,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect to Zeebe: %v", err))
	}

	zapLog, _ = zap.NewProduction()

	code := m.Run()

	zeebeClient.Close()
	os.Exit(code)
}

func TestScoringE2E(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cfg, err := config.Load()
	require.NoError(t, err)

	assertConnectivity(t, ctx, cfg)

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	defer pg.Close()
	require.NoError(t, pg.EnsureSchema(ctx))
	seedCandidates(t, ctx, pg.DB)

	log := logger.NewZapAdapter(zapLog)
	svc := service.New(service.Options{
		Backend:       backend.NewPostgresStore(pg.DB, log),
		Cache:         cache.NewMemoryCache(cfg.Scoring.CacheTTL()),
		Engine:        scoring.NewEngine(),
		Logger:        log,
		TopCandidates: cfg.Scoring.TopCandidates,
	})

	t.Run("reset to defaults", func(t *testing.T) {
		h := rsc.NewHandler(rsc.LoadConfig(config.GetWorkerConfig(cfg, rsc.TaskType)), svc, log, nil)
		out, err := h.Execute(ctx, &rsc.Input{RequestedBy: "e2e"})
		require.NoError(t, err)
		assert.False(t, out.IsCustom)
		assert.True(t, out.Reset)
	})

	t.Run("save custom weights", func(t *testing.T) {
		w := scoring.DefaultWeights()
		w.ExperienceSkills.YearsOfExperience = 10
		w.InterviewPerformance.AverageRating = 20
		raw, err := json.Marshal(w)
		require.NoError(t, err)

		h := usc.NewHandler(usc.LoadConfig(config.GetWorkerConfig(cfg, usc.TaskType)), svc, log, nil)
		out, err := h.Execute(ctx, &usc.Input{Weights: raw, RequestedBy: "e2e"})
		require.NoError(t, err)
		assert.True(t, out.ConfigSaved)
		assert.True(t, out.IsCustom)
		assert.InDelta(t, 100, out.WeightsTotal, 0.1)
	})

	t.Run("read back weights", func(t *testing.T) {
		h := gsc.NewHandler(gsc.LoadConfig(config.GetWorkerConfig(cfg, gsc.TaskType)), svc, log, nil)
		out, err := h.Execute(ctx, &gsc.Input{IncludeDisplayGroups: true})
		require.NoError(t, err)
		assert.Equal(t, 10.0, out.Weights.ExperienceSkills.YearsOfExperience)
		assert.Len(t, out.DisplayGroups, 5)
	})

	t.Run("score one candidate", func(t *testing.T) {
		h := ccs.NewHandler(ccs.LoadConfig(config.GetWorkerConfig(cfg, ccs.TaskType)), svc, log, nil)
		out, err := h.Execute(ctx, &ccs.Input{CandidateID: "e2e-1"})
		require.NoError(t, err)
		assert.Equal(t, "e2e-1", out.CandidateID)
		assert.Greater(t, out.TotalScore, 0.0)
	})

	t.Run("summarize distribution", func(t *testing.T) {
		h := ssd.NewHandler(ssd.LoadConfig(config.GetWorkerConfig(cfg, ssd.TaskType), cfg.Scoring.TopCandidates), svc, log, nil)
		out, err := h.Execute(ctx, &ssd.Input{TopN: 2})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, out.TotalCandidates, 2)
		assert.LessOrEqual(t, len(out.Distribution.TopCandidates), 2)
	})

	t.Run("recalculation needs confirmation", func(t *testing.T) {
		confirmed := false
		h := ras.NewHandler(ras.LoadConfig(config.GetWorkerConfig(cfg, ras.TaskType)), svc, log, nil)
		out, err := h.Execute(ctx, &ras.Input{Confirmed: &confirmed})
		require.NoError(t, err)
		assert.Equal(t, service.RecalculationCancelled, out.Status)
	})

	t.Run("recalculation requested", func(t *testing.T) {
		confirmed := true
		h := ras.NewHandler(ras.LoadConfig(config.GetWorkerConfig(cfg, ras.TaskType)), svc, log, nil)
		out, err := h.Execute(ctx, &ras.Input{Confirmed: &confirmed, RequestedBy: "e2e"})
		require.NoError(t, err)
		assert.Equal(t, service.RecalculationRequested, out.Status)
		assert.NotEmpty(t, out.RequestID)
	})
}

func assertConnectivity(t *testing.T, ctx context.Context, cfg *config.Config) {
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err, "postgres client creation failed")
	assert.NoError(t, pg.Ping(ctx), "postgres ping failed")
	pg.Close()

	if cfg.Scoring.CacheBackend == config.CacheBackendRedis {
		rc := database.NewRedis(cfg.Database.Redis)
		assert.NoError(t, rc.Ping(ctx), "redis ping failed")
		rc.Close()
	}

	_, err = zeebeClient.NewTopologyCommand().Send(ctx)
	assert.NoError(t, err, "zeebe topology request failed")
}

func seedCandidates(t *testing.T, ctx context.Context, db *sql.DB) {
	stmts := []string{
		`DELETE FROM candidates WHERE id LIKE 'e2e-%'`,
		`INSERT INTO candidates (id, name, email, phone, city, education_level, skills, availability_start, own_transportation, travel_availability, height_painting)
		 VALUES ('e2e-1', 'Ana', 'ana@example.com', '11999990000', 'Campinas', 'superior_completo', 'Excel, AutoCAD', 'imediato', 'sim', 'sim', 'nao')`,
		`INSERT INTO candidates (id, name, availability_start) VALUES ('e2e-2', 'Bia', '30_dias')`,
		`INSERT INTO professional_experiences (id, candidate_id, company, role, start_date, end_date)
		 VALUES ('e2e-exp-1', 'e2e-1', 'Acme', 'Pintora', '2018-01-01', '2022-06-30')`,
		`INSERT INTO interviews (id, candidate_id, status, rating, feedback)
		 VALUES ('e2e-int-1', 'e2e-1', 'completed', 4.5, 'Good communication and solid technical answers')`,
	}
	for _, stmt := range stmts {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err, stmt)
	}
}

func BenchmarkEngine_Score(b *testing.B) {
	engine := scoring.NewEngine()
	w := scoring.DefaultWeights()
	end := "2022-06-30"
	rating := 4.0
	candidate := &models.Candidate{
		ID:                "bench-1",
		Name:              "Ana",
		Email:             "ana@example.com",
		Phone:             "11999990000",
		City:              "Campinas",
		EducationLevel:    "superior_completo",
		Skills:            "Excel, AutoCAD, Pintura",
		Courses:           "NR35, NR10",
		AvailabilityStart: "imediato",
		OwnTransportation: "sim",
		Experiences: []models.ProfessionalExperience{
			{Company: "Acme", Role: "Pintora", StartDate: "2018-01-01", EndDate: &end},
		},
		Interviews: []models.Interview{
			{Status: "completed", Rating: &rating, Feedback: "Good communication"},
		},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Score(candidate, w)
	}
}
