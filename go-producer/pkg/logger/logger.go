package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "notification-producer"

var log = zap.NewNop()

func init() {
	if err := InitializeLogger(false); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
	}
}

// InitializeLogger builds the global logger: JSON at info in production, the
// colored console encoder at debug in development. LOG_LEVEL wins over both.
func InitializeLogger(isDevelopment bool) error {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if isDevelopment {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		level, err := zapcore.ParseLevel(raw)
		if err == nil {
			config.Level = zap.NewAtomicLevelAt(level)
		}
	}

	built, err := config.Build(zap.Fields(zap.String("service", serviceName)))
	if err != nil {
		return fmt.Errorf("building %s logger: %w", serviceName, err)
	}
	log = built
	zap.RedirectStdLog(log)
	return nil
}

// Replace swaps the global logger, typically for a zaptest observer, and
// returns a func restoring the previous one.
func Replace(l *zap.Logger) (restore func()) {
	prev := log
	log = l
	return func() { log = prev }
}

func L() *zap.Logger {
	return log
}

func Sync() error {
	return log.Sync()
}
