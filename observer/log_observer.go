package observer

import (
	"context"
	"log/slog"
	"strconv"
	"time"
)

// stageName returns names[i], or the index when the stage is unnamed.
func stageName(names []string, i int) string {
	if i >= 0 && i < len(names) && names[i] != "" {
		return names[i]
	}
	return strconv.Itoa(i)
}

func status(err error) string {
	if err != nil {
		return "failed"
	}
	return "success"
}

// LogObserver logs pipeline and stage boundaries with run_id, stage and duration.
type LogObserver struct {
	logger *slog.Logger
	stages []string
}

// NewLogObserver returns an observer logging to logger (slog.Default when nil).
// stageNames label stage indexes in log lines.
func NewLogObserver(logger *slog.Logger, stageNames []string) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger, stages: stageNames}
}

// BeforePipeline implements pipeline.Observer.
func (o *LogObserver) BeforePipeline(ctx context.Context, runID, name string, payload interface{}) error {
	o.logger.InfoContext(ctx, "pipeline started", "run_id", runID, "pipeline", name, "stages", len(o.stages))
	return nil
}

// AfterPipeline implements pipeline.Observer.
func (o *LogObserver) AfterPipeline(ctx context.Context, runID string, result interface{}, err error) error {
	if err != nil {
		o.logger.ErrorContext(ctx, "pipeline failed", "run_id", runID, "error", err)
		return nil
	}
	o.logger.InfoContext(ctx, "pipeline finished", "run_id", runID)
	return nil
}

// BeforeStage implements pipeline.Observer.
func (o *LogObserver) BeforeStage(ctx context.Context, runID string, stageIndex int, input interface{}) error {
	o.logger.DebugContext(ctx, "stage started", "run_id", runID, "stage", stageName(o.stages, stageIndex))
	return nil
}

// AfterStage implements pipeline.Observer.
func (o *LogObserver) AfterStage(ctx context.Context, runID string, stageIndex int, input, output interface{}, stageErr error, duration time.Duration) error {
	attrs := []any{"run_id", runID, "stage", stageName(o.stages, stageIndex), "duration", duration}
	if stageErr != nil {
		o.logger.ErrorContext(ctx, "stage failed", append(attrs, "error", stageErr)...)
		return nil
	}
	o.logger.DebugContext(ctx, "stage finished", attrs...)
	return nil
}
