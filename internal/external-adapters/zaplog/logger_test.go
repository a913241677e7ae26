package zaplog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ochairo/extenscan/internal/domain/interfaces"
)

var _ interfaces.Logger = (*Logger)(nil)

func TestLogger_FieldsAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := Wrap(zap.New(core))

	logger.Debug("scanning", interfaces.F("source", "npm"))
	logger.Warn("scanner failed", interfaces.F("error", "boom"), interfaces.F("count", 3))

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "npm", entries[0].ContextMap()["source"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(3), entries[1].ContextMap()["count"])
}

func TestLogger_With(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := Wrap(zap.New(core)).With(interfaces.F("scanner", "Chrome Extensions"))

	logger.Info("done", interfaces.F("packages", 12))
	logger.Debug("dropped")

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "Chrome Extensions", ctx["scanner"])
	assert.Equal(t, int64(12), ctx["packages"])
}

func TestNew(t *testing.T) {
	for _, verbose := range []bool{true, false} {
		logger, err := New(verbose)
		require.NoError(t, err)
		assert.Equal(t, verbose, logger.zl.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, logger.zl.Core().Enabled(zapcore.WarnLevel))
	}
}
