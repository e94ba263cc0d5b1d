package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Total number of checkout attempts by outcome",
	}, []string{"outcome"})

	CheckoutProcessingLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_processing_latency_seconds",
		Help:    "Latency of checkout processing, including the simulated payment delay",
		Buckets: prometheus.DefBuckets,
	})

	PaymentAuthorizationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "payment_authorization_latency_seconds",
		Help:    "Latency of mock payment authorization",
		Buckets: prometheus.DefBuckets,
	})

	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed",
	})

	OrderRevenueTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_revenue_usd_total",
		Help: "Sum of placed order totals in USD",
	})

	ValidationViolationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_validation_violations_total",
		Help: "Total number of checkout validation violations by field",
	}, []string{"field"})

	CatalogRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_requests_total",
		Help: "Total number of catalog reads by operation",
	}, []string{"operation"})

	CatalogQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_query_latency_seconds",
		Help:    "Latency of catalog filter, sort and pagination",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .05},
	}, []string{"operation"})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "events_published_total",
		Help: "Total number of domain events published by type and outcome",
	}, []string{"event_type", "outcome"})

	ConsumerMessagesDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "consumer_messages_dropped_total",
		Help: "Total number of consumed messages dropped after exhausting handler attempts",
	}, []string{"topic"})

	NewsletterSubscriptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsletter_subscriptions_total",
		Help: "Total number of newsletter subscription attempts by outcome",
	}, []string{"outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
