// Package metrics provides Prometheus metrics collection for Niches Hunter.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for Niches Hunter.
type Collector struct {
	// Request metrics
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	// Entitlement metrics
	EntitlementDecisions *prometheus.CounterVec
	GateDenials          *prometheus.CounterVec

	// Tool metrics
	ValidationRuns *prometheus.CounterVec
	SpinRequests   *prometheus.CounterVec

	// Billing metrics
	WebhookEvents    *prometheus.CounterVec
	CheckoutSessions prometheus.Counter

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
}

// New creates a new metrics collector registered on the default registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a new metrics collector with a custom registry.
// Useful for testing to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nicheshunter",
				Name:      "requests_total",
				Help:      "Total number of requests processed",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "nicheshunter",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path", "status"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "nicheshunter",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),
		EntitlementDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nicheshunter",
				Name:      "entitlement_decisions_total",
				Help:      "Total catalog entitlement decisions by outcome",
			},
			[]string{"outcome"}, // unlocked / redacted
		),
		GateDenials: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nicheshunter",
				Name:      "gate_denials_total",
				Help:      "Total mutation gate denials by action and reason",
			},
			[]string{"action", "reason"},
		),
		ValidationRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nicheshunter",
				Name:      "validation_runs_total",
				Help:      "Total idea validation runs by result",
			},
			[]string{"result"}, // ok / gated / error
		),
		SpinRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nicheshunter",
				Name:      "spin_requests_total",
				Help:      "Total roulette spin requests by result",
			},
			[]string{"result"}, // ok / limited
		),
		WebhookEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nicheshunter",
				Name:      "webhook_events_total",
				Help:      "Total payment webhook events by type and outcome",
			},
			[]string{"type", "outcome"},
		),
		CheckoutSessions: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "nicheshunter",
				Name:      "checkout_sessions_total",
				Help:      "Total checkout sessions created",
			},
		),
		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "nicheshunter",
				Name:      "config_reloads_total",
				Help:      "Total number of successful config reloads",
			},
		),
		ConfigReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "nicheshunter",
				Name:      "config_reload_errors_total",
				Help:      "Total number of config reload errors",
			},
		),
	}
}
