package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruit-scoring/internal/backend"
	"recruit-scoring/internal/cache"
	"recruit-scoring/internal/common/config"
	"recruit-scoring/internal/common/logger"
	"recruit-scoring/pkg/registry"
)

func TestNewMux_Health(t *testing.T) {
	mux := newMux(nil, true)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewMux_Ready(t *testing.T) {
	tests := []struct {
		name   string
		checks []readinessCheck
		status int
	}{
		{
			name:   "all dependencies up",
			checks: []readinessCheck{{name: "zeebe", check: func(context.Context) error { return nil }}},
			status: http.StatusOK,
		},
		{
			name: "redis down",
			checks: []readinessCheck{
				{name: "zeebe", check: func(context.Context) error { return nil }},
				{name: "redis", check: func(context.Context) error { return errors.New("connection refused") }},
			},
			status: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newMux(tt.checks, false).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.status, rec.Code)

			if tt.status != http.StatusOK {
				var body struct {
					Failures map[string]string `json:"failures"`
				}
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Contains(t, body.Failures, "redis")
			}
		})
	}
}

func TestNewMux_MetricsDisabled(t *testing.T) {
	rec := httptest.NewRecorder()
	newMux(nil, false).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuildCache(t *testing.T) {
	ctx := context.Background()
	log := logger.NewTestLogger(t)

	t.Run("memory", func(t *testing.T) {
		cfg := &config.Config{Scoring: config.ScoringConfig{CacheBackend: config.CacheBackendMemory, ConfigCacheTTL: 60000}}
		c, closeFn, check, err := buildCache(ctx, cfg, log)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &cache.MemoryCache{}, c)
		assert.Nil(t, check)
	})

	t.Run("redis", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		defer mr.Close()

		cfg := &config.Config{
			Scoring:  config.ScoringConfig{CacheBackend: config.CacheBackendRedis, ConfigCacheTTL: 60000},
			Database: config.DatabaseConfig{Redis: config.RedisConfig{Address: mr.Addr()}},
		}
		c, closeFn, check, err := buildCache(ctx, cfg, log)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &cache.RedisCache{}, c)
		require.NotNil(t, check)
		assert.NoError(t, check.check(ctx))
	})
}

func TestBuildBackend_REST(t *testing.T) {
	cfg := &config.Config{Backend: config.BackendConfig{Mode: config.BackendModeREST, BaseURL: "http://backend.local", Timeout: 1000}}

	be, closeFn, check, err := buildBackend(context.Background(), cfg, logger.NewTestLogger(t))
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &backend.RESTClient{}, be)
	assert.Nil(t, check)
}

func TestActivityRegistry_ListsEveryWorker(t *testing.T) {
	reg, err := registry.LoadRegistry(filepath.Join("..", "..", registry.DefaultPath))
	require.NoError(t, err)
	require.NoError(t, reg.Validate())
	assert.Empty(t, uncatalogued(reg))

	for _, taskType := range servedTaskTypes {
		a, _ := reg.Find(taskType)
		_, err := time.ParseDuration(a.Timeout)
		assert.NoError(t, err, taskType)
	}
}

func TestUncatalogued(t *testing.T) {
	reg := &registry.ActivityRegistry{Activities: []registry.Activity{{ID: "score", TaskType: "calculate-candidate-score"}}}
	missing := uncatalogued(reg)
	assert.Len(t, missing, len(servedTaskTypes)-1)
	assert.NotContains(t, missing, "calculate-candidate-score")
}
