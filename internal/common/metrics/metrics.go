// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_requests_total",
			Help: "Total number of design pipeline requests by terminal outcome",
		},
		[]string{"outcome"},
	)

	PipelineStepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_step_duration_seconds",
			Help: "Duration of individual pipeline steps in seconds",
		},
		[]string{"step"},
	)

	DependencyAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dependency_attempts_total",
			Help: "Outbound dependency call attempts by result (success, failure, skipped)",
		},
		[]string{"dependency", "result"},
	)

	FallbacksSynthesized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fallbacks_synthesized_total",
			Help: "Fallback outcomes synthesized in place of a dependency response",
		},
		[]string{"dependency"},
	)

	ComplianceCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compliance_cache_events_total",
			Help: "Compliance outcome cache events (hit, miss, error)",
		},
		[]string{"event"},
	)
)
