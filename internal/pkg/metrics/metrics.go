package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ModelCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aurum_model_calls_total",
			Help: "Total number of language model calls by owning service and outcome",
		},
		[]string{"service", "outcome"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aurum_cache_lookups_total",
			Help: "Cache lookups by cache and result",
		},
		[]string{"cache", "result"},
	)

	ChatReplies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aurum_chat_replies_total",
			Help: "Chat replies by the strategy that produced them",
		},
		[]string{"source"},
	)

	ThrottleWait = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aurum_throttle_wait_seconds",
			Help:    "Time a queued model call waited for its throttle slot",
			Buckets: []float64{0, 0.1, 0.5, 1, 2, 3, 5, 10, 30},
		},
		[]string{"service"},
	)

	QueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aurum_throttle_queue_depth",
			Help: "Number of model calls waiting in a throttle queue",
		},
		[]string{"service"},
	)
)
