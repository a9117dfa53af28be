package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the monitoring loop for serve mode.
type Metrics struct {
	// CycleDuration: how long one queue manager's collect+evaluate+render
	// pass took.
	CycleDuration *prometheus.HistogramVec

	// CyclesTotal: completed passes per group.
	CyclesTotal *prometheus.CounterVec

	// GroupFailures: telemetry acquisition failures that degraded a group.
	GroupFailures *prometheus.CounterVec

	// Findings: evaluated entities by class and final severity.
	Findings *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. A nil registerer gets a
// private throwaway registry so one-shot CLI runs pay no wiring cost.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		CycleDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mqmon_cycle_duration_seconds",
			Help:    "Histogram of per-queue-manager monitoring cycle latencies.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"server", "manager"}),

		CyclesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "mqmon_cycles_total",
			Help: "Total number of completed monitoring cycles.",
		}, []string{"server", "manager"}),

		GroupFailures: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "mqmon_group_failures_total",
			Help: "Total number of cycles degraded by telemetry acquisition failures.",
		}, []string{"server", "manager"}),

		Findings: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "mqmon_findings_total",
			Help: "Total number of evaluated entities by class and severity.",
		}, []string{"class", "severity"}),
	}
}
