// Package logger provides the global q2ls logger.
//
// All diagnostic output goes to stderr: when the language server runs over
// stdio, stdout carries the LSP wire protocol and a single stray log line
// would corrupt the stream.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger instance
	Logger *zap.SugaredLogger
	// JSONOutput tracks whether JSON output is enabled
	JSONOutput bool
)

func init() {
	// Safe no-op logger at package load time so callers never nil-panic
	// before Initialize() runs.
	Logger = zap.NewNop().Sugar()
}

// Initialize sets up the global logger.
//
// jsonOutput selects JSON structured output for machine consumption;
// otherwise a human-readable console encoder is used. verbosity follows the
// CLI -v count (see VerbosityToLevel).
func Initialize(jsonOutput bool, verbosity int) error {
	JSONOutput = jsonOutput
	level := VerbosityToLevel(verbosity)

	var encoder zapcore.Encoder
	if jsonOutput {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	}

	zapLogger := zap.New(
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level),
	)

	Logger = zapLogger.Sugar()
	return nil
}

// InitializeToFile sets up the global logger writing to a file instead of
// stderr. Used when editors capture stderr and a persistent log is wanted.
func InitializeToFile(path string, verbosity int) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	cfg := zap.NewDevelopmentEncoderConfig()
	zapLogger := zap.New(
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(cfg),
			zapcore.AddSync(f),
			VerbosityToLevel(verbosity),
		),
	)

	Logger = zapLogger.Sugar()
	return nil
}

// Sync flushes any buffered log entries. Call on shutdown.
func Sync() {
	_ = Logger.Sync()
}
