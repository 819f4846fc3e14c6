package bookings

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookly",
		Subsystem: "bookings",
		Name:      "requests_total",
		Help:      "Booking requests by outcome (accepted, unavailable, payment_failed, error).",
	}, []string{"outcome"})

	bookingTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookly",
		Subsystem: "bookings",
		Name:      "transitions_total",
		Help:      "Booking status transitions by target status.",
	}, []string{"status"})

	slotLockWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bookly",
		Subsystem: "bookings",
		Name:      "slot_lock_wait_seconds",
		Help:      "Time spent waiting for a per-slot reservation lock.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	})
)
