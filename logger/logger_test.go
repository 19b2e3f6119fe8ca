package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNopLoggerBeforeInitialize(t *testing.T) {
	require.NotNil(t, Logger)
	// Must not panic even before Initialize
	Logger.Infow("pre-init log", "key", "value")
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{0, zapcore.WarnLevel},
		{1, zapcore.InfoLevel},
		{2, zapcore.DebugLevel},
		{3, zapcore.DebugLevel},
		{10, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestInitialize(t *testing.T) {
	require.NoError(t, Initialize(false, 1))
	require.NotNil(t, Logger)
	Logger.Infow("console logger works")

	require.NoError(t, Initialize(true, 2))
	assert.True(t, JSONOutput)
	Logger.Debugw("json logger works", "verbosity", 2)
}

func TestInitializeToFile(t *testing.T) {
	path := t.TempDir() + "/q2ls.log"
	require.NoError(t, InitializeToFile(path, 2))
	Logger.Infow("file logger works")
	Sync()
}
