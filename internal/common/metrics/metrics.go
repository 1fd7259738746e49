// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_engine_queries_total",
			Help: "Total number of queries processed by the registry",
		},
		[]string{"intent", "status"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "query_engine_query_duration_seconds",
			Help: "Duration of query processing in seconds",
		},
		[]string{"intent"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_engine_cache_lookups_total",
			Help: "Response cache lookups by result",
		},
		[]string{"result"},
	)

	PlanSteps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_engine_plan_steps_total",
			Help: "Reasoning plan steps executed by type and outcome",
		},
		[]string{"type", "status"},
	)

	Plans = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_engine_plans_total",
			Help: "Reasoning plans by terminal status",
		},
		[]string{"status"},
	)
)
