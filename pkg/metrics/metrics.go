package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of order requests fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of order requests submitted from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of order requests from Kafka that failed to process",
		},
		[]string{"topic"},
	)
	KafkaConfirmationsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_confirmations_published_total",
			Help: "Number of order confirmations published to the result topic",
		},
		[]string{"topic"},
	)
)

var (
	OrdersRequested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "number_of_orders_requested",
			Help: "Orders accepted by the upstream platform",
		},
	)
	OrderStatusDerived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_status_derived_total",
			Help: "Derived order statuses",
		},
		[]string{"status"},
	)
)

var (
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Requests to the notification platform",
		},
		[]string{"op", "code"}, // code: HTTP-статус или "error"
	)
	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Latency of requests to the notification platform",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

var (
	TokenCacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_cache_operations_total",
			Help: "Access token cache operations",
		},
		[]string{"op"}, // hit|miss|expired|refreshed|refresh_failed|invalidated
	)
	TokenExpiresIn = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "token_cache_expires_in_seconds",
			Help: "Seconds left until the cached access token expires, at the last refresh",
		},
	)
)

var registerOnce sync.Once

// MustRegister — регистрация всех метрик; повторные вызовы ничего не делают.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed, KafkaConfirmationsPublished,
			OrdersRequested, OrderStatusDerived,
			UpstreamRequests, UpstreamDuration,
			TokenCacheOps, TokenExpiresIn,
		)
	})
}
