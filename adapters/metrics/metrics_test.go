package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/nicheshunter/nicheshunter/adapters/metrics"
)

func TestNewWithRegistry(t *testing.T) {
	// Use a new registry to avoid conflicts with other tests
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)

	if m == nil {
		t.Fatal("NewWithRegistry returned nil")
	}

	if m.RequestsTotal == nil {
		t.Error("RequestsTotal is nil")
	}
	if m.RequestDuration == nil {
		t.Error("RequestDuration is nil")
	}
	if m.EntitlementDecisions == nil {
		t.Error("EntitlementDecisions is nil")
	}
	if m.GateDenials == nil {
		t.Error("GateDenials is nil")
	}
	if m.ValidationRuns == nil {
		t.Error("ValidationRuns is nil")
	}
	if m.WebhookEvents == nil {
		t.Error("WebhookEvents is nil")
	}
	if m.ConfigReloads == nil {
		t.Error("ConfigReloads is nil")
	}
}

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)

	m.EntitlementDecisions.WithLabelValues("unlocked").Inc()
	m.EntitlementDecisions.WithLabelValues("redacted").Inc()
	m.EntitlementDecisions.WithLabelValues("redacted").Inc()

	got := testutil.ToFloat64(m.EntitlementDecisions.WithLabelValues("redacted"))
	if got != 2 {
		t.Errorf("redacted decisions = %v, want 2", got)
	}

	m.GateDenials.WithLabelValues("save", "unauthenticated").Inc()
	got = testutil.ToFloat64(m.GateDenials.WithLabelValues("save", "unauthenticated"))
	if got != 1 {
		t.Errorf("gate denials = %v, want 1", got)
	}

	m.CheckoutSessions.Inc()
	if got := testutil.ToFloat64(m.CheckoutSessions); got != 1 {
		t.Errorf("checkout sessions = %v, want 1", got)
	}
}
