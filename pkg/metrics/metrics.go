package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SettlementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workmart_settlements_total",
		Help: "Settlement outcomes by terminal transaction status.",
	}, []string{"status"})

	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workmart_webhook_events_total",
		Help: "Inbound gateway webhook events by handling result.",
	}, []string{"result"})

	InvariantViolationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workmart_ledger_invariant_violations_total",
		Help: "Budget ledger conservation violations detected. Any increase is a bug.",
	})
)
