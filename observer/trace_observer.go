package observer

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TraceObserver opens an OpenTelemetry span per run and a child span per stage.
type TraceObserver struct {
	tracer trace.Tracer
	stages []string

	mu   sync.Mutex
	runs map[string]*tracedRun
}

type tracedRun struct {
	ctx    context.Context
	root   trace.Span
	stages map[int]trace.Span
}

// NewTraceObserver returns an observer starting spans on tracer, or on the global
// provider's "tabprep" tracer when tracer is nil.
func NewTraceObserver(tracer trace.Tracer, stageNames []string) *TraceObserver {
	if tracer == nil {
		tracer = otel.Tracer("tabprep")
	}
	return &TraceObserver{tracer: tracer, stages: stageNames, runs: make(map[string]*tracedRun)}
}

// BeforePipeline implements pipeline.Observer.
func (o *TraceObserver) BeforePipeline(ctx context.Context, runID, name string, payload interface{}) error {
	ctx, span := o.tracer.Start(ctx, "pipeline."+name, trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.Int("stage_count", len(o.stages)),
	))
	o.mu.Lock()
	o.runs[runID] = &tracedRun{ctx: ctx, root: span, stages: make(map[int]trace.Span)}
	o.mu.Unlock()
	return nil
}

// AfterPipeline implements pipeline.Observer.
func (o *TraceObserver) AfterPipeline(ctx context.Context, runID string, result interface{}, err error) error {
	o.mu.Lock()
	run, ok := o.runs[runID]
	delete(o.runs, runID)
	o.mu.Unlock()
	if !ok {
		return nil
	}
	for _, span := range run.stages {
		span.End()
	}
	finish(run.root, err)
	return nil
}

// BeforeStage implements pipeline.Observer.
func (o *TraceObserver) BeforeStage(ctx context.Context, runID string, stageIndex int, input interface{}) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	run, ok := o.runs[runID]
	if !ok {
		return nil
	}
	_, span := o.tracer.Start(run.ctx, "stage."+stageName(o.stages, stageIndex), trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.Int("stage_index", stageIndex),
	))
	run.stages[stageIndex] = span
	return nil
}

// AfterStage implements pipeline.Observer.
func (o *TraceObserver) AfterStage(ctx context.Context, runID string, stageIndex int, input, output interface{}, stageErr error, duration time.Duration) error {
	o.mu.Lock()
	var span trace.Span
	if run, ok := o.runs[runID]; ok {
		span = run.stages[stageIndex]
		delete(run.stages, stageIndex)
	}
	o.mu.Unlock()
	if span == nil {
		return nil
	}
	span.SetAttributes(attribute.Int64("duration_ms", duration.Milliseconds()))
	finish(span, stageErr)
	return nil
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
