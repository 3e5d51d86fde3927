package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		env       string
		wantLevel logrus.Level
		wantJSON  bool
	}{
		{"debug development", "debug", "development", logrus.DebugLevel, false},
		{"warn production", "warn", "production", logrus.WarnLevel, true},
		{"invalid level", "chatty", "staging", logrus.InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := NewLogger(tt.level, tt.env)
			assert.Equal(t, tt.wantLevel, log.GetLevel())
			_, isJSON := log.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.wantJSON, isJSON)
		})
	}
}

func TestBacktestLoggerRunCompleted(t *testing.T) {
	log, buf := setupTestLogger()
	backtestLogger := NewBacktestLogger(log)

	backtestLogger.LogRunCompleted("2023-24", 300, 198, 12, 0.66, 0.74)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "backtest", logEntry["component"])
	assert.Equal(t, "2023-24", logEntry["season"])
	assert.Equal(t, float64(300), logEntry["total"])
	assert.Equal(t, 0.66, logEntry["accuracy"])
	assert.Equal(t, "Backtest run completed", logEntry["msg"])
}

func TestBacktestLoggerMatchupSkipped(t *testing.T) {
	log, buf := setupTestLogger()

	NewBacktestLogger(log).LogMatchupSkipped("BOS", "NY", "OCT 25, 2023", "insufficient_history")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "insufficient_history", logEntry["reason"])
	assert.Equal(t, "debug", logEntry["level"])
}

func TestBacktestLoggerRunFailed(t *testing.T) {
	log, buf := setupTestLogger()

	NewBacktestLogger(log).LogRunFailed("2023-24", errors.New("only one class"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "error", logEntry["level"])
	assert.Equal(t, "only one class", logEntry["error"])
}

func TestMLLoggerModelTraining(t *testing.T) {
	log, buf := setupTestLogger()
	mlLogger := NewMLLogger(log)

	mlLogger.LogModelTraining(42, 1.25, map[string]float64{"test_log_loss": 0.61}, "early_stopping")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "ml", logEntry["component"])
	assert.Equal(t, float64(42), logEntry["rounds"])
	assert.Equal(t, "early_stopping", logEntry["stop_reason"])
	metrics, ok := logEntry["metrics"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 0.61, metrics["test_log_loss"])
}

func TestIngestLoggerTeamFailed(t *testing.T) {
	log, buf := setupTestLogger()

	NewIngestLogger(log).LogTeamFailed("GS", "2023-24", errors.New("status 503"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "ingest", logEntry["component"])
	assert.Equal(t, "GS", logEntry["team"])
	assert.Equal(t, "warning", logEntry["level"])
}
