package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	gatewayCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_gateway_calls_total",
			Help: "Total payment gateway calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	gatewayCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_gateway_call_duration_seconds",
			Help:    "Duration of payment gateway calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	settlements = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticket_settlements_total",
			Help: "Total payments settled into tickets",
		},
	)

	breakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state per dependency (0=closed, 1=open, 2=half-open)",
		},
		[]string{"name"},
	)
)

// Gateway call outcomes.
const (
	OutcomeSuccess      = "success"
	OutcomeError        = "error"
	OutcomeShortCircuit = "short_circuit"
)

// TrackGatewayCall records one guarded gateway call.
func TrackGatewayCall(operation, outcome string, duration time.Duration) {
	gatewayCalls.WithLabelValues(operation, outcome).Inc()
	gatewayCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// TrackSettlement records one payment settled into a ticket.
func TrackSettlement() {
	settlements.Inc()
}

// SetBreakerState records the breaker state after a guarded call.
func SetBreakerState(name string, state int) {
	breakerState.WithLabelValues(name).Set(float64(state))
}

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
