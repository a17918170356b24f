package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ledger and state machine activity counters, exported on /metrics.
var (
	StockMovements = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "backoffice",
		Subsystem: "inventory",
		Name:      "stock_movements_total",
		Help:      "Stock movements appended to the ledger, by movement type.",
	}, []string{"type"})

	ReservationsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "backoffice",
		Subsystem: "inventory",
		Name:      "reservations_active",
		Help:      "Reservations currently holding stock.",
	})

	ReservationsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "backoffice",
		Subsystem: "inventory",
		Name:      "reservations_rejected_total",
		Help:      "Reservation requests rejected for insufficient availability.",
	})

	OrderTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "backoffice",
		Subsystem: "orders",
		Name:      "transitions_total",
		Help:      "Order state machine transitions, by target state.",
	}, []string{"to"})

	PaymentTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "backoffice",
		Subsystem: "payments",
		Name:      "transitions_total",
		Help:      "Payment state machine transitions, by target state.",
	}, []string{"to"})

	ConsistencyViolations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "backoffice",
		Subsystem: "inventory",
		Name:      "consistency_violations_total",
		Help:      "Detected invariant breaches. Always zero in correct operation.",
	})
)
