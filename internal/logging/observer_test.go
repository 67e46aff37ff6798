package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/naumanrao/courseadmin/internal/api"
	"github.com/naumanrao/courseadmin/internal/config"
)

func TestAPIObserver_LogsSuccessAndFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	obs := NewAPIObserver(zap.New(core))

	obs.OnCallComplete(api.CallEvent{Method: "GET", Path: "/admin/api/courses", Status: 200, LatencyMs: 12, Success: true})
	obs.OnCallComplete(api.CallEvent{Method: "POST", Path: "/admin/api/courses", Status: 500, Success: false, ErrorCode: "server_rejected"})

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/admin/api/courses", entries[0].ContextMap()["path"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "server_rejected", entries[1].ContextMap()["error_code"])
	assert.Equal(t, int64(500), entries[1].ContextMap()["status"])
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogLevel = "chatty"
	cfg.LogFile = "stderr"

	logger, err := New(cfg)
	require.NoError(t, err)

	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_WritesToFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFile = t.TempDir() + "/nested/courseadmin.log"

	logger, err := New(cfg)
	require.NoError(t, err)
	logger.Info("hello")
	require.NoError(t, logger.Sync())

	assert.FileExists(t, cfg.LogFile)
}
