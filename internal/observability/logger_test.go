// File: internal/observability/logger_test.go
package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pagelens/pagelens/internal/config"
)

type syncBuffer struct {
	bytes.Buffer
}

func (*syncBuffer) Sync() error { return nil }

func TestInitializeJSONLogger(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	buf := &syncBuffer{}
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(buf))

	GetLogger().Warn("structure check", zap.String("key", "value"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "output must be one JSON object")
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "pagelens", entry["logger"])
	assert.Equal(t, "structure check", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}

func TestInitializeRespectsLevel(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	buf := &syncBuffer{}
	Initialize(config.LoggerConfig{Level: "warn", Format: "json"}, zapcore.AddSync(buf))

	GetLogger().Info("filtered out")
	assert.Empty(t, buf.String())

	GetLogger().Warn("let through")
	assert.Contains(t, buf.String(), "let through")
}

func TestInitializeWritesLogFile(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	path := filepath.Join(t.TempDir(), "pagelens.log")
	buf := &syncBuffer{}
	Initialize(config.LoggerConfig{
		Level: "debug", Format: "json", LogFile: path, MaxSizeMB: 1,
	}, zapcore.AddSync(buf))

	GetLogger().Error("file bound entry")
	Sync()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "file bound entry")
}

func TestInitializeRunsOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	first := &syncBuffer{}
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(first))
	logger1 := GetLogger()

	second := &syncBuffer{}
	Initialize(config.LoggerConfig{Level: "debug", Format: "json"}, zapcore.AddSync(second))
	logger2 := GetLogger()

	assert.Same(t, logger1, logger2)
	logger2.Info("routed to the first writer")
	assert.Contains(t, first.String(), "routed to the first writer")
	assert.Empty(t, second.String())
}

func TestGetLoggerFallback(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	logger := GetLogger()
	require.NotNil(t, logger)
	// Not the stored global: nothing was initialized.
	assert.Nil(t, globalLogger.Load())
}
