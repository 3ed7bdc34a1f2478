package aiservice

import "github.com/prometheus/client_golang/prometheus"

var (
	callsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "autodevstack",
			Subsystem: "ai",
			Name:      "calls_total",
			Help:      "AI calls by task and outcome",
		},
		[]string{"task", "outcome"},
	)

	callDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "autodevstack",
			Subsystem: "ai",
			Name:      "call_duration_seconds",
			Help:      "Duration of remote AI calls in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"task"},
	)

	selectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "autodevstack",
			Subsystem: "ai",
			Name:      "selections_total",
			Help:      "Model selections by source tier",
		},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(callsTotal, callDuration, selectionsTotal)
}

const (
	outcomeOK      = "ok"
	outcomeError   = "error"
	outcomeNoToken = "no_token"
)
