package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the booking core.
type Metrics struct {
	// BookingsCreated counts admitted bookings by kind (user|guest).
	BookingsCreated *prometheus.CounterVec

	// BookingsRejected counts admission rejections by reason.
	BookingsRejected *prometheus.CounterVec

	// RemindersSent counts reminder emails by outcome (sent|failed).
	RemindersSent *prometheus.CounterVec

	// SweepDuration is the wall time of one reminder sweep.
	SweepDuration prometheus.Histogram
}

func New(namespace string) *Metrics {
	return &Metrics{
		BookingsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bookings_created_total",
				Help:      "Total number of admitted bookings",
			},
			[]string{"kind"},
		),

		BookingsRejected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bookings_rejected_total",
				Help:      "Total number of rejected admissions",
			},
			[]string{"reason"},
		),

		RemindersSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reminders_sent_total",
				Help:      "Total number of reminder sends",
			},
			[]string{"outcome"},
		),

		SweepDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "reminder_sweep_duration_seconds",
				Help:      "Duration of one reminder sweep",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}
