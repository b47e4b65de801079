// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WizardStageTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_stage_transitions_total",
			Help: "Total number of wizard stage transitions",
		},
		[]string{"from", "to"},
	)

	WizardSubmits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_submits_total",
			Help: "Total number of wizard submissions by outcome",
		},
		[]string{"outcome"},
	)

	ReportBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_builds_total",
			Help: "Total number of member reports assembled",
		},
		[]string{"category", "filter"},
	)

	ReportExports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_exports_total",
			Help: "Total number of report exports rendered by format",
		},
		[]string{"format"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "society_api_request_duration_seconds",
			Help: "Duration of society API calls in seconds",
		},
		[]string{"operation"},
	)

	CacheOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "member_cache_operations_total",
			Help: "Member cache operations by result",
		},
		[]string{"operation", "result"},
	)
)
