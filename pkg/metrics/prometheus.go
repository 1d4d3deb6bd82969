package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// OutcomeSuccess labels successful runs.
	OutcomeSuccess = "success"
	// OutcomeError labels failed runs.
	OutcomeError = "error"
	// OutcomeSkipped labels schedule jobs that were never launched.
	OutcomeSkipped = "skipped"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	PipelineRuns  *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	ScheduleJobs  *prometheus.CounterVec
	HealthSignals *prometheus.CounterVec
	ErrorsCount   *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics on a dedicated registry.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		PipelineRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "The total number of recommendation pipeline runs, partitioned by outcome",
		}, []string{"outcome"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Time taken by each pipeline stage",
			Buckets:   []float64{0.05, 0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"stage", "outcome"}),
		ScheduleJobs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_jobs_total",
			Help:      "The total number of background schedule jobs, partitioned by outcome",
		}, []string{"outcome"}),
		HealthSignals: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "health_signals_total",
			Help:      "Health signal classifications computed for requests",
		}, []string{"classification"}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveStage records a stage duration and outcome label.
func (m *Metrics) ObserveStage(stage string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	if duration < 0 {
		duration = 0
	}
	m.StageDuration.WithLabelValues(stage, outcome(err)).Observe(duration.Seconds())
}

// ObservePipeline counts a completed pipeline run.
func (m *Metrics) ObservePipeline(err error) {
	if m == nil {
		return
	}
	m.PipelineRuns.WithLabelValues(outcome(err)).Inc()
}

// ObserveScheduleJob counts a background schedule job result.
func (m *Metrics) ObserveScheduleJob(result string) {
	if m == nil {
		return
	}
	m.ScheduleJobs.WithLabelValues(result).Inc()
}

// ObserveHealthSignal counts the classification of a computed health signal.
func (m *Metrics) ObserveHealthSignal(classification string) {
	if m == nil {
		return
	}
	m.HealthSignals.WithLabelValues(classification).Inc()
}

// IncError counts an error for an operation.
func (m *Metrics) IncError(operation string) {
	if m == nil {
		return
	}
	m.ErrorsCount.WithLabelValues(operation).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
