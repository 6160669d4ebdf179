package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAdapter_FieldsAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"taskType": "get-scoring-config"})

	log.Debug("hidden", nil)
	log.Info("config loaded", map[string]interface{}{"isCustom": true})
	log.WithError(errors.New("backend down")).Error("fetch failed", map[string]interface{}{"attempt": 2})

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "config loaded", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "get-scoring-config", fields["taskType"])
	assert.Equal(t, true, fields["isCustom"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "backend down", entries[1].ContextMap()["error"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
}

func TestNoOpLogger(t *testing.T) {
	log := NewNoOpLogger()
	assert.NotPanics(t, func() {
		log.Info("ignored", map[string]interface{}{"k": "v"})
		log.WithError(errors.New("x")).Warn("ignored", nil)
	})
}
