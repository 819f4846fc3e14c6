package waitlist

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	waitlistJoinsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bookly",
		Subsystem: "waitlist",
		Name:      "joins_total",
		Help:      "Parties added to a slot waitlist.",
	})

	waitlistAdmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bookly",
		Subsystem: "waitlist",
		Name:      "admitted_total",
		Help:      "Waitlisted parties admitted into freed capacity.",
	})

	waitlistNotifyFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bookly",
		Subsystem: "waitlist",
		Name:      "notify_failures_total",
		Help:      "Slot-available notices the notification channel rejected.",
	})
)
