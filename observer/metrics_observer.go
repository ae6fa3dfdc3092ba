package observer

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsObserver records run and stage outcomes as Prometheus metrics on its own
// registry. A batch run exports them once with WriteTextfile.
type MetricsObserver struct {
	registry *prometheus.Registry
	stages   []string

	stageDuration *prometheus.HistogramVec
	runsTotal     *prometheus.CounterVec
	lastSuccess   prometheus.Gauge
}

// NewMetricsObserver returns an observer with a fresh registry. stageNames label
// the per-stage series.
func NewMetricsObserver(stageNames []string) *MetricsObserver {
	o := &MetricsObserver{
		registry: prometheus.NewRegistry(),
		stages:   stageNames,
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tabprep",
			Name:      "stage_duration_seconds",
			Help:      "Duration of preparation stages.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"stage", "status"}),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tabprep",
			Name:      "runs_total",
			Help:      "Preparation runs by outcome.",
		}, []string{"status"}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tabprep",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
	}
	o.registry.MustRegister(o.stageDuration, o.runsTotal, o.lastSuccess)
	return o
}

// Registry returns the registry holding the observer's metrics.
func (o *MetricsObserver) Registry() *prometheus.Registry { return o.registry }

// WriteTextfile writes the current metrics in text exposition format to path,
// for the node_exporter textfile collector.
func (o *MetricsObserver) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, o.registry)
}

// BeforePipeline implements pipeline.Observer.
func (o *MetricsObserver) BeforePipeline(ctx context.Context, runID, name string, payload interface{}) error {
	return nil
}

// AfterPipeline implements pipeline.Observer.
func (o *MetricsObserver) AfterPipeline(ctx context.Context, runID string, result interface{}, err error) error {
	o.runsTotal.WithLabelValues(status(err)).Inc()
	if err == nil {
		o.lastSuccess.SetToCurrentTime()
	}
	return nil
}

// BeforeStage implements pipeline.Observer.
func (o *MetricsObserver) BeforeStage(ctx context.Context, runID string, stageIndex int, input interface{}) error {
	return nil
}

// AfterStage implements pipeline.Observer.
func (o *MetricsObserver) AfterStage(ctx context.Context, runID string, stageIndex int, input, output interface{}, stageErr error, duration time.Duration) error {
	o.stageDuration.WithLabelValues(stageName(o.stages, stageIndex), status(stageErr)).Observe(duration.Seconds())
	return nil
}
