package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/tokengate/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected config.LogLevel
	}{
		{"off", config.LogLevelOff},
		{"OFF", config.LogLevelOff},
		{"none", config.LogLevelOff},
		{"error", config.LogLevelError},
		{"debug", config.LogLevelDebug},
		{"  debug  ", config.LogLevelDebug},
		{"warn", config.LogLevelError},
		{"", config.LogLevelError},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, config.ParseLogLevel(tt.input))
		})
	}
}

func TestLogLevel_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "off", config.LogLevelOff.String())
	assert.Equal(t, "error", config.LogLevelError.String())
	assert.Equal(t, "debug", config.LogLevelDebug.String())
	assert.Equal(t, "error", config.LogLevel(99).String())
}

func TestNewLogger_ValidPath(t *testing.T) {
	t.Parallel()
	logPath := filepath.Join(t.TempDir(), "nested", "test.log")

	logger, err := config.NewLogger(config.LogLevelDebug, logPath)
	require.NoError(t, err)
	defer func() { _ = logger.Close() }()

	logger.Debug("debug message %d", 1)
	logger.Error("error message")

	content := readLogFile(t, logPath)
	assert.Contains(t, content, "[DEBUG] debug message 1")
	assert.Contains(t, content, "[ERROR] error message")
}

func TestNewLogger_InvalidPath(t *testing.T) {
	t.Parallel()
	_, err := config.NewLogger(config.LogLevelDebug, "/proc/nonexistent/test.log")
	assert.Error(t, err)
}

func TestNewLogger_OffSkipsFile(t *testing.T) {
	t.Parallel()
	logPath := filepath.Join(t.TempDir(), "test.log")

	logger, err := config.NewLogger(config.LogLevelOff, logPath)
	require.NoError(t, err)
	require.NoError(t, logger.Close())

	_, err = os.Stat(logPath)
	assert.True(t, os.IsNotExist(err))
}

func TestLogger_LevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := config.NewWriterLogger(config.LogLevelError, &buf)

	logger.Debug("hidden")
	logger.Error("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	logger.SetLevel(config.LogLevelDebug)
	assert.Equal(t, config.LogLevelDebug, logger.Level())
	logger.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestLogger_Named(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	root := config.NewWriterLogger(config.LogLevelDebug, &buf)

	root.Named("session").Debug("connected %s", "abc")
	root.Named("notify").Named("http").Error("send failed")

	assert.Contains(t, buf.String(), "[DEBUG] [session] connected abc")
	assert.Contains(t, buf.String(), "[ERROR] [notify.http] send failed")

	// Children share the parent's level.
	root.SetLevel(config.LogLevelOff)
	root.Named("session").Error("dropped")
	assert.NotContains(t, buf.String(), "dropped")
}

func TestLogger_Writer(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := config.NewWriterLogger(config.LogLevelDebug, &buf)

	n, err := logger.Writer(config.LogLevelDebug).Write([]byte("written via io.Writer\n"))
	require.NoError(t, err)
	assert.Equal(t, len("written via io.Writer\n"), n)
	assert.Contains(t, buf.String(), "written via io.Writer")
}

func TestNullLogger(t *testing.T) {
	t.Parallel()
	logger := config.NullLogger()

	assert.Equal(t, config.LogLevelOff, logger.Level())
	logger.Debug("test debug")
	logger.Error("test error")
	logger.Named("x").Error("still silent")
	assert.NoError(t, logger.Close())
}

func readLogFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path) //nolint:gosec // test path from t.TempDir
	require.NoError(t, err)
	return string(content)
}
