package prisma

import "github.com/prometheus/client_golang/prometheus"

var (
	migrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "autodevstack",
			Subsystem: "prisma",
			Name:      "migrations_total",
			Help:      "prisma migrate dev runs by result",
		},
		[]string{"result"},
	)

	resetsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "autodevstack",
			Subsystem: "prisma",
			Name:      "resets_total",
			Help:      "prisma migrate reset runs by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(migrationsTotal, resetsTotal)
}
