package usage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus instrumentation for one or more ledgers.
// All methods are safe on a nil receiver, so an uninstrumented ledger
// pays only a nil check.
type Metrics struct {
	// Wait checks by outcome ("allowed" or "limited")
	checks *prometheus.CounterVec

	// registrations counts every recorded use
	registrations prometheus.Counter

	// tracked is the number of identifiers currently held in records
	tracked prometheus.Gauge

	// swept counts records removed by Sweep
	swept prometheus.Counter
}

// NewMetrics creates Metrics registered with the default prometheus
// registerer. Call it at most once per process; use NewMetricsWith for
// tests or custom registries.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates Metrics registered with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		checks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ganymede_usage_checks_total",
				Help: "Total number of wait checks performed",
			},
			[]string{"result"},
		),

		registrations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ganymede_usage_registrations_total",
				Help: "Total number of uses registered",
			},
		),

		tracked: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ganymede_usage_tracked_identifiers",
				Help: "Number of identifiers currently tracked",
			},
		),

		swept: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ganymede_usage_swept_records_total",
				Help: "Total number of records removed by sweeps",
			},
		),
	}
}

func (m *Metrics) observeWait(limited bool) {
	if m == nil {
		return
	}
	result := "allowed"
	if limited {
		result = "limited"
	}
	m.checks.WithLabelValues(result).Inc()
}

func (m *Metrics) observeRegister(inserted bool) {
	if m == nil {
		return
	}
	m.registrations.Inc()
	if inserted {
		m.tracked.Inc()
	}
}

func (m *Metrics) observeSweep(removed int) {
	if m == nil {
		return
	}
	m.swept.Add(float64(removed))
	m.tracked.Sub(float64(removed))
}
