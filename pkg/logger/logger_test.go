package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger(t *testing.T) {
	Logger = nil

	tests := []struct {
		name          string
		logLevel      string
		isDevelopment bool
		expectedLevel logrus.Level
	}{
		{
			name:          "development defaults to debug",
			logLevel:      "",
			isDevelopment: true,
			expectedLevel: logrus.DebugLevel,
		},
		{
			name:          "production defaults to info",
			logLevel:      "",
			isDevelopment: false,
			expectedLevel: logrus.InfoLevel,
		},
		{
			name:          "explicit level wins",
			logLevel:      "warn",
			isDevelopment: true,
			expectedLevel: logrus.WarnLevel,
		},
		{
			name:          "invalid level falls back to info",
			logLevel:      "verbose",
			isDevelopment: false,
			expectedLevel: logrus.InfoLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", "")
			log := InitLogger(tt.logLevel, tt.isDevelopment)
			assert.Equal(t, tt.expectedLevel, log.GetLevel())
			assert.Same(t, log, Logger)
		})
	}
}

func TestGetLoggerInitializesOnce(t *testing.T) {
	Logger = nil
	first := GetLogger()
	require.NotNil(t, first)
	assert.Same(t, first, GetLogger())
}

func TestWithRun(t *testing.T) {
	InitLogger("info", false)

	entry := WithRun("run-123", "pro")
	assert.Equal(t, "run-123", entry.Data["run_id"])
	assert.Equal(t, "pro", entry.Data["league"])
}

func TestWithLedger(t *testing.T) {
	InitLogger("info", false)

	entry := WithLedger("rushers")
	assert.Equal(t, "rushers", entry.Data["ledger"])
}
