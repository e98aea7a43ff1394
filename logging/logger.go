// Package logging sets up process-level logging for the test harness.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// New returns a logger that writes human-readable, colorized records to w. Debug records are
// only written if debug is true.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	}))
}

// PrintfLogger adapts a slog.Logger to the Printf-style logger interface used by the test
// framework.
type PrintfLogger struct {
	logger *slog.Logger
	level  slog.Level
}

func NewPrintfLogger(logger *slog.Logger, level slog.Level) PrintfLogger {
	return PrintfLogger{logger: logger, level: level}
}

func (p PrintfLogger) Printf(message string, args ...interface{}) {
	if !p.logger.Enabled(context.Background(), p.level) {
		return
	}
	p.logger.Log(context.Background(), p.level, fmt.Sprintf(message, args...))
}
