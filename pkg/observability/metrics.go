package observability

import (
	"context"

	"github.com/aretw0/scribe/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	UploadsTotal   prometheus.Counter
	UploadBytes    prometheus.Counter
	JobsIndexed    prometheus.Counter
	ChunksIndexed  prometheus.Counter
	IngestDuration prometheus.Histogram
	NarrationLines prometheus.Counter
	RunsActive     prometheus.Gauge
	RunsSuperseded prometheus.Counter
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
}

// NewMetrics registers the collector set on reg (use
// prometheus.DefaultRegisterer in production, a fresh Registry in tests).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UploadsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "scribe_uploads_total",
			Help: "Number of upload jobs received.",
		}),
		UploadBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "scribe_upload_bytes_total",
			Help: "Total bytes spooled from uploads.",
		}),
		JobsIndexed: factory.NewCounter(prometheus.CounterOpts{
			Name: "scribe_jobs_indexed_total",
			Help: "Number of jobs successfully indexed.",
		}),
		ChunksIndexed: factory.NewCounter(prometheus.CounterOpts{
			Name: "scribe_chunks_indexed_total",
			Help: "Number of text chunks produced by indexing.",
		}),
		IngestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scribe_ingest_duration_seconds",
			Help:    "Wall time of index builds.",
			Buckets: prometheus.DefBuckets,
		}),
		NarrationLines: factory.NewCounter(prometheus.CounterOpts{
			Name: "scribe_narration_lines_total",
			Help: "Narration lines fully revealed.",
		}),
		RunsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "scribe_narration_runs_active",
			Help: "Narration runs currently animating.",
		}),
		RunsSuperseded: factory.NewCounter(prometheus.CounterOpts{
			Name: "scribe_narration_runs_superseded_total",
			Help: "Narration runs cancelled by a newer run.",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scribe_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scribe_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Hooks returns a LifecycleHooks set that feeds the collectors. Merge it with
// application hooks if both are needed.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(context.Context, *domain.RunEvent) {
			m.RunsActive.Inc()
		},
		OnLineEnd: func(context.Context, *domain.RunEvent) {
			m.NarrationLines.Inc()
		},
		OnRunEnd: func(_ context.Context, ev *domain.RunEvent) {
			m.RunsActive.Dec()
			if ev.Superseded {
				m.RunsSuperseded.Inc()
			}
		},
		OnJobIndexed: func(_ context.Context, ev *domain.JobEvent) {
			m.JobsIndexed.Inc()
			m.ChunksIndexed.Add(float64(ev.Chunks))
			m.IngestDuration.Observe(ev.Duration.Seconds())
		},
	}
}
