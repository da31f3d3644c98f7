// Package metrics provides Prometheus metrics for session operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for session operations.
type Metrics struct {
	enabled bool

	// Login metrics
	loginsTotal *prometheus.CounterVec

	// Rehydration metrics
	rehydrationsTotal *prometheus.CounterVec

	// Session degradation metrics
	invalidationsTotal prometheus.Counter
	logoutsTotal       prometheus.Counter

	// Guard metrics
	guardDecisionsTotal *prometheus.CounterVec
}

// New creates and registers Prometheus metrics.
// If enabled is false, returns a no-op Metrics instance.
func New(enabled bool) *Metrics {
	m := &Metrics{enabled: enabled}

	if !enabled {
		return m
	}

	m.loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldops_session_logins_total",
		Help: "Total login attempts by result",
	}, []string{"result"})

	m.rehydrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldops_session_rehydrations_total",
		Help: "Total startup rehydrations by result",
	}, []string{"result"})

	m.invalidationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldops_session_invalidations_total",
		Help: "Total sessions cleared after a backend rejection",
	})

	m.logoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldops_session_logouts_total",
		Help: "Total explicit logouts",
	})

	m.guardDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldops_guard_decisions_total",
		Help: "Total route guard decisions",
	}, []string{"decision"})

	return m
}

// RecordLogin records a login attempt result ("success", "rejected", "error").
func (m *Metrics) RecordLogin(result string) {
	if !m.enabled {
		return
	}
	m.loginsTotal.WithLabelValues(result).Inc()
}

// RecordRehydration records a rehydration result ("authenticated", "anonymous").
func (m *Metrics) RecordRehydration(result string) {
	if !m.enabled {
		return
	}
	m.rehydrationsTotal.WithLabelValues(result).Inc()
}

// RecordInvalidation records a rejection-triggered session clear.
func (m *Metrics) RecordInvalidation() {
	if !m.enabled {
		return
	}
	m.invalidationsTotal.Inc()
}

// RecordLogout records an explicit logout.
func (m *Metrics) RecordLogout() {
	if !m.enabled {
		return
	}
	m.logoutsTotal.Inc()
}

// RecordGuardDecision records a guard decision ("pending", "grant", "redirect").
func (m *Metrics) RecordGuardDecision(decision string) {
	if !m.enabled {
		return
	}
	m.guardDecisionsTotal.WithLabelValues(decision).Inc()
}
