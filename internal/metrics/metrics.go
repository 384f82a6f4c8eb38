// Package metrics exposes Prometheus collectors for tool dispatch, the job
// store and the HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_coach_tool_calls_total",
			Help: "Total number of tool invocations by tool and outcome",
		},
		[]string{"tool", "outcome"},
	)

	ToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "career_coach_tool_duration_seconds",
			Help: "Duration of tool invocations in seconds",
		},
		[]string{"tool"},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_coach_store_errors_total",
			Help: "Job store queries that failed and degraded to empty results",
		},
		[]string{"operation"},
	)

	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "career_coach_search_results",
			Help:    "Number of jobs returned per search",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "career_coach_active_sessions",
			Help: "Number of sessions held in memory",
		},
	)

	StatsCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_coach_stats_cache_lookups_total",
			Help: "Job stats cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_coach_rate_limited_total",
			Help: "Requests rejected by the rate limiter, by bucket and scope",
		},
		[]string{"bucket", "scope"},
	)
)

// Outcome labels
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)
