package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l, err := New(tt.level, "json", "stderr")
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.expected))
			if tt.expected > zapcore.DebugLevel {
				assert.False(t, l.Core().Enabled(tt.expected-1))
			}
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "advisor.log")

	l, err := New("info", "json", path)
	require.NoError(t, err)

	l.Info("turn handled", zap.String("intent", "RecommendPortfolio"))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"intent":"RecommendPortfolio"`)
}

func TestZapWrapper_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).With(map[string]interface{}{"component": "dispatcher"})

	log.Info("turn handled", map[string]interface{}{"action": "Delegate"})
	log.WithError(errors.New("boom")).Error("turn failed", nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "dispatcher", entries[0].ContextMap()["component"])
	assert.Equal(t, "Delegate", entries[0].ContextMap()["action"])
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}
