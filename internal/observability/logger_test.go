package observability

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerWritesUppercaseSeverity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")
	logger, err := newLogger("debug", []string{path})
	require.NoError(t, err)

	logger.Debug("content resolved", zap.String("content_type", "team-members"))
	require.NoError(t, logger.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(raw, &entry))
	require.Equal(t, "DEBUG", entry["severity"])
	require.Equal(t, "content resolved", entry["message"])
	require.Equal(t, "team-members", entry["content_type"])
	require.NotEmpty(t, entry["timestamp"])
}

func TestNewLoggerDefaultsToInfo(t *testing.T) {
	for _, lvl := range []string{"", "verbose"} {
		logger, err := newLogger(lvl, []string{filepath.Join(t.TempDir(), "log.json")})
		require.NoError(t, err)
		require.False(t, logger.Core().Enabled(zapcore.DebugLevel))
		require.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	}
}

func TestContextLogger(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))

	logger := zap.NewExample()
	ctx := WithLogger(context.Background(), logger)
	require.Same(t, logger, FromContext(ctx))
}
