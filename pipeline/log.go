package pipeline

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// WithLogger returns a context carrying logger. Stages retrieve it with Logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// Logger returns the logger stored in ctx (or slog.Default) tagged with the
// current run_id, pipeline and stage when called from inside a stage.
func Logger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok || logger == nil {
		logger = slog.Default()
	}
	if m, ok := runMetaFromContext(ctx); ok {
		logger = logger.With("run_id", m.RunID, "pipeline", m.PipelineName, "stage", m.StageIndex)
	}
	return logger
}
