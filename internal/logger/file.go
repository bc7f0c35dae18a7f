package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// runLogPermissions restricts the diagnostic log to the invoking user.
const runLogPermissions = 0o600

// NewWithFile creates a logger that writes to the console at the provided
// level and mirrors every message, debug level included, to the given writer.
// The file side ignores quiet/verbose settings so the diagnostic log is
// always complete.
func NewWithFile(consoleLevel zapcore.LevelEnabler, w io.Writer, options ...zap.Option) *zap.SugaredLogger {
	if consoleLevel == nil {
		consoleLevel = defaultLevel
	}

	consoleCore := zapcore.NewCore(
		consoleEncoder(),
		zapcore.AddSync(os.Stdout),
		consoleLevel,
	)

	fileCore := zapcore.NewCore(
		fileEncoder(),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)

	return zap.New(zapcore.NewTee(consoleCore, fileCore), options...).Sugar()
}

// fileEncoder returns the encoder used for the diagnostic log: same layout as
// the console but without color escapes.
//
//nolint:exhaustruct // Default encoder configuration values are fine.
func fileEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:       "message",
		LevelKey:         "level",
		CallerKey:        "caller",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		ConsoleSeparator: ", ",
	})
}

// OpenRunLog creates the per-run diagnostic log file in the system temporary
// directory and returns its path together with the open handle. The file is
// opened append-only and survives workspace cleanup.
func OpenRunLog() (string, *os.File, error) {
	name := fmt.Sprintf("cursor-deb-%s.log", time.Now().Format("20060102-150405"))
	path := filepath.Join(os.TempDir(), name)

	file, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, runLogPermissions)
	if err != nil {
		return "", nil, fmt.Errorf("open run log: %w", err)
	}

	return path, file, nil
}
