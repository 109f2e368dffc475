package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"storefront/config"
	"storefront/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNilLoggerSafety(t *testing.T) {
	restore := Replace(nil)
	defer restore()

	Debug("test debug")
	Info("test info")
	Warn("test warn")
	Error("test error")

	assert.NotNil(t, With(zap.String("key", "value")))
	assert.NotNil(t, WithRequestID("test-id"))
	assert.NotNil(t, FromContext(context.Background()))
	assert.NoError(t, Sync())
}

func TestInitConsoleAndJSON(t *testing.T) {
	restore := Replace(nil)
	defer restore()

	require.NoError(t, Init(&config.LogConfig{Level: "debug", Output: "stdout"}, "development"))
	Info("development logger initialized")

	require.NoError(t, Init(&config.LogConfig{Level: "info", Format: "json", Output: "stdout"}, "production"))
	Info("production logger initialized", zap.String("env", "production"))
	_ = Sync()
}

func TestFileOutput(t *testing.T) {
	restore := Replace(nil)
	defer restore()

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	require.NoError(t, Init(&config.LogConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: path,
	}, "production"))

	for i := 0; i < 10; i++ {
		Info("log entry", zap.Int("entry", i))
	}
	_ = Sync()

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestDynamicLogLevel(t *testing.T) {
	restore := Replace(nil)
	defer restore()

	require.NoError(t, Init(&config.LogConfig{Level: "debug", Output: "stdout"}, "development"))
	assert.True(t, atomLevel.Enabled(zapcore.DebugLevel))

	UpdateLevel("warn")
	assert.False(t, atomLevel.Enabled(zapcore.InfoLevel))
	assert.True(t, atomLevel.Enabled(zapcore.WarnLevel))
}

func TestFromContextAddsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := Replace(zap.New(core))
	defer restore()

	ctx := persistence.ContextWithRequestID(context.Background(), "req-42")
	FromContext(ctx).Info("payment settled")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "payment settled", entry.Message)
	assert.Equal(t, "req-42", entry.ContextMap()["request_id"])
}
