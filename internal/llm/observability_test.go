package llm

import (
	"testing"

	"github.com/alexanderramin/appletgen/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogObserver_WritesCallLine(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	obs := NewLogObserver(logger.FromZap(zap.New(core)))

	obs.OnCallComplete(LLMCallEvent{Task: TaskSynthesize, Model: "m", LatencyMs: 12, Attempts: 1, Success: true})
	obs.OnCallComplete(LLMCallEvent{Task: TaskRepair, Model: "m", Attempts: 3, ErrorCode: "TIMEOUT"})

	require.Equal(t, 2, logs.Len())
	ok, failed := logs.All()[0], logs.All()[1]

	assert.Equal(t, "llm_call", ok.Message)
	assert.Equal(t, zapcore.InfoLevel, ok.Level)
	assert.Equal(t, "ok", ok.ContextMap()["status"])
	assert.Equal(t, "synthesize", ok.ContextMap()["task"])

	assert.Equal(t, zapcore.WarnLevel, failed.Level)
	assert.Equal(t, "err:TIMEOUT", failed.ContextMap()["status"])
}
