// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"os"
)

// GlobalLogger receives repository mutation logs. The middleware package replaces it
// with the request-aware logger at startup.
var GlobalLogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
	Level: slog.LevelInfo,
}))

func SetLogger(l *slog.Logger) {
	if l != nil {
		GlobalLogger = l
	}
}

// LoggingConfig toggles automatic repository logging.
type LoggingConfig struct {
	EnableRepoLogging bool
}

var Config = LoggingConfig{
	EnableRepoLogging: true,
}

// RepoLogger records writes to one table.
type RepoLogger struct {
	table string
}

func NewRepoLogger(table string) *RepoLogger {
	return &RepoLogger{table: table}
}

func (l *RepoLogger) log(ctx context.Context, level slog.Level, operation string, attrs []slog.Attr) {
	if !Config.EnableRepoLogging || !GlobalLogger.Enabled(ctx, level) {
		return
	}
	attrs = append([]slog.Attr{
		slog.String("table", l.table),
		slog.String("operation", operation),
	}, attrs...)
	GlobalLogger.LogAttrs(ctx, level, "repository "+operation, attrs...)
}

func (l *RepoLogger) LogCreate(ctx context.Context, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelInfo, "create", attrs)
}

// LogRead logs at debug level; listing pages read on every request.
func (l *RepoLogger) LogRead(ctx context.Context, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelDebug, "read", attrs)
}

func (l *RepoLogger) LogUpdate(ctx context.Context, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelInfo, "update", attrs)
}

func (l *RepoLogger) LogDelete(ctx context.Context, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelInfo, "delete", attrs)
}

// LogError logs a failed operation and marks the active span.
func (l *RepoLogger) LogError(ctx context.Context, err error, operation string) {
	RecordError(ctx, err)
	if !Config.EnableRepoLogging {
		return
	}
	GlobalLogger.LogAttrs(ctx, slog.LevelError, "repository error",
		slog.String("table", l.table),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}
