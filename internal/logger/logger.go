// Package logger builds the zap logger used across Retrieva.
// Logs go to stderr so command output on stdout stays clean for
// piping; --verbose switches to the development encoder at debug level.
package logger

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a logger. Verbose mode uses the human-readable
// development encoder at debug level; otherwise a production JSON
// logger at info level.
func New(verbose bool) *zap.Logger {
	var conf zap.Config
	if verbose {
		conf = zap.NewDevelopmentConfig()
		conf.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		conf = zap.NewProductionConfig()
		conf.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		conf.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	conf.OutputPaths = []string{"stderr"}
	conf.ErrorOutputPaths = []string{"stderr"}

	logger, err := conf.Build()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	return logger
}

// Nop returns a logger that discards everything. Useful in tests.
func Nop() *zap.Logger {
	return zap.NewNop()
}
