package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Gateway request metrics
	gatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexixpay_gateway_requests_total",
			Help: "Total number of Nexi XPay gateway requests",
		},
		[]string{"operation", "status"},
	)

	gatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nexixpay_gateway_request_duration_seconds",
			Help:    "Duration of Nexi XPay gateway requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	gatewayRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nexixpay_gateway_requests_in_flight",
			Help: "Number of gateway requests currently being processed",
		},
	)

	gatewayRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexixpay_gateway_retries_total",
			Help: "Total number of gateway request retries",
		},
		[]string{"operation"},
	)
)

// ObserveGatewayRequest records one completed gateway call.
func ObserveGatewayRequest(operation, status string, duration time.Duration) {
	gatewayRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	gatewayRequestsTotal.WithLabelValues(operation, status).Inc()
}

// ObserveGatewayRetry records one retry of a gateway call.
func ObserveGatewayRetry(operation string) {
	gatewayRetriesTotal.WithLabelValues(operation).Inc()
}

// TrackInFlight marks a gateway request as started and returns the matching
// completion callback.
func TrackInFlight() func() {
	gatewayRequestsInFlight.Inc()
	return gatewayRequestsInFlight.Dec
}
