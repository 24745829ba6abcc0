// internal/adapters/queue/logger.go
package queue

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
)

// slogAdapter adapts slog for Asynq
type slogAdapter struct {
	logger *slog.Logger
}

// NewLogger wraps logger for asynq servers and schedulers.
func NewLogger(logger *slog.Logger) asynq.Logger {
	return &slogAdapter{logger: logger.With(slog.String("component", "asynq"))}
}

func (l *slogAdapter) Debug(args ...any) { l.logger.Debug(fmt.Sprint(args...)) }

func (l *slogAdapter) Info(args ...any) { l.logger.Info(fmt.Sprint(args...)) }

func (l *slogAdapter) Warn(args ...any) { l.logger.Warn(fmt.Sprint(args...)) }

func (l *slogAdapter) Error(args ...any) { l.logger.Error(fmt.Sprint(args...)) }

func (l *slogAdapter) Fatal(args ...any) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
