package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitializeLogger(t *testing.T) {
	original := log
	t.Cleanup(func() { log = original })

	tests := []struct {
		name          string
		isDevelopment bool
		logLevelEnv   string
		enabled       zapcore.Level
		disabled      *zapcore.Level
	}{
		{name: "development", isDevelopment: true, enabled: zapcore.DebugLevel},
		{name: "production", enabled: zapcore.InfoLevel, disabled: levelPtr(zapcore.DebugLevel)},
		{name: "production with debug override", logLevelEnv: "debug", enabled: zapcore.DebugLevel},
		{name: "production with warn override", logLevelEnv: "warn", enabled: zapcore.WarnLevel, disabled: levelPtr(zapcore.InfoLevel)},
		{name: "invalid override keeps info", logLevelEnv: "loud", enabled: zapcore.InfoLevel, disabled: levelPtr(zapcore.DebugLevel)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.logLevelEnv)

			require.NoError(t, InitializeLogger(tt.isDevelopment))
			require.NotNil(t, L())
			assert.True(t, L().Core().Enabled(tt.enabled))
			if tt.disabled != nil {
				assert.False(t, L().Core().Enabled(*tt.disabled))
			}
		})
	}
}

func TestSync(t *testing.T) {
	require.NoError(t, InitializeLogger(true))
	// Syncing stderr fails on some platforms; only the nil path is strict.
	_ = Sync()

	original := log
	log = nil
	t.Cleanup(func() { log = original })
	assert.NoError(t, Sync())
}

func levelPtr(l zapcore.Level) *zapcore.Level { return &l }
