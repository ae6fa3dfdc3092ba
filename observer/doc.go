// Package observer provides pipeline.Observer implementations for preparation runs.
//
//   - LogObserver: logs run and stage boundaries through log/slog.
//   - MetricsObserver: stage durations and run outcomes as Prometheus metrics,
//     exported with WriteTextfile at the end of a batch run.
//   - TraceObserver: an OpenTelemetry span per run with a child span per stage.
//   - DBObserver: journals runs and stages to Postgres (prep_run, prep_run_stage).
//     Call EnsureSchema once before the first run.
//
// Every constructor takes the stage names so stage indexes can be reported by name.
// Combine several with pipeline.MultiObserver.
package observer
