package settlement

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	swapsInitiatedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "htlx",
		Subsystem: "settlement",
		Name:      "swaps_initiated_total",
		Help:      "Total number of swaps entered in the registry.",
	})
	swapsCompletedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "htlx",
		Subsystem: "settlement",
		Name:      "swaps_completed_total",
		Help:      "Total number of swaps settled by secret reveal.",
	})
	swapsRefundedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "htlx",
		Subsystem: "settlement",
		Name:      "swaps_refunded_total",
		Help:      "Total number of swaps settled by refund.",
	})
	errorsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "htlx",
		Subsystem: "settlement",
		Name:      "errors_total",
		Help:      "Total number of failed settlement operations.",
	}, []string{"operation"})
)
