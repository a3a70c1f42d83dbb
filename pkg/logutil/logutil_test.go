package logutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	logger, err := New("warn")
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = New("loud")
	require.Error(t, err)
}

func TestInit(t *testing.T) {
	before := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(before) })

	require.NoError(t, Init("debug"))
	require.NotSame(t, before, zap.L())
	require.True(t, zap.L().Core().Enabled(zapcore.DebugLevel))

	require.Error(t, Init("loud"))
	require.True(t, zap.L().Core().Enabled(zapcore.DebugLevel))
}
