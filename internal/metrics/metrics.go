// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsScheduled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "automation_jobs_scheduled_total",
		Help: "Automation jobs inserted, by channel.",
	}, []string{"channel"})

	JobsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "automation_jobs_dispatched_total",
		Help: "Automation jobs processed by the dispatcher, by channel and outcome.",
	}, []string{"channel", "status"})

	DuplicatesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "automation_duplicates_skipped_total",
		Help: "Schedule attempts skipped by the duplicate guard, by channel.",
	}, []string{"channel"})
)
