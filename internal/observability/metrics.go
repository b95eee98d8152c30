// Package observability holds process-wide metrics and tracing.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics definitions
var (
	AuditDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "seolens_audit_seconds",
		Help:    "Wall time of a page audit including browser launch.",
		Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120, 180},
	}, []string{"type"})

	AuditResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seolens_audit_results_total",
		Help: "Finished audit runs by outcome.",
	}, []string{"outcome"})

	BrowsersLive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "seolens_browsers_live",
		Help: "Browser instances currently held by running audits.",
	})

	RenderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "seolens_render_seconds",
		Help:    "Time spent rendering a report document.",
		Buckets: prometheus.DefBuckets,
	})

	JobsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "seolens_jobs_active",
		Help: "Audit jobs that are pending or running.",
	})

	ScheduledDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seolens_scheduled_audits_dispatched_total",
		Help: "Scheduled audits handed to the worker pool.",
	})
)

// Outcome labels for AuditResults.
const (
	OutcomeSuccess             = "success"
	OutcomeEngineFailure       = "engine_failure"
	OutcomeResourceAcquisition = "resource_acquisition"
	OutcomeNormalization       = "normalization"
	OutcomeCanceled            = "canceled"
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
