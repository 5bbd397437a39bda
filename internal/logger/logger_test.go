package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "quiet", ""} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		assert.NotNil(t, l.SugaredLogger)
	}

	_, err := New("loud")
	assert.Error(t, err)
}

func TestLogger_RedactsCredentials(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core))

	l.With("component", "llm").Info("request", "api_key", "sk-123", "model", "gpt")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "[REDACTED]", fields["api_key"])
	assert.Equal(t, "gpt", fields["model"])
	assert.Equal(t, "llm", fields["component"])
}
