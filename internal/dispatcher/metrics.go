package dispatcher

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values of spsbridge_commands_total.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeUnknown  = "unknown"
	OutcomeFault    = "fault"
)

// Metrics holds the dispatcher's Prometheus collectors.
// Each Metrics owns its registry so several dispatchers can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	// CommandsTotal counts executed records by command name and outcome.
	CommandsTotal *prometheus.CounterVec

	// CommandDuration observes how long Execute took, by command name.
	CommandDuration *prometheus.HistogramVec

	// CyclesTotal counts completed dispatch cycles.
	CyclesTotal prometheus.Counter

	// WaypointsActive is the number of enabled waypoints after the last cycle.
	WaypointsActive prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spsbridge_commands_total",
				Help: "Total number of command records executed, by outcome.",
			},
			[]string{"command", "outcome"},
		),
		CommandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spsbridge_command_duration_seconds",
				Help:    "Time spent executing a command record.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),
		CyclesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "spsbridge_dispatch_cycles_total",
				Help: "Total number of completed dispatch cycles.",
			},
		),
		WaypointsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "spsbridge_waypoints_active",
				Help: "Number of enabled waypoints in the registry.",
			},
		),
	}

	m.registry.MustRegister(m.CommandsTotal, m.CommandDuration, m.CyclesTotal, m.WaypointsActive)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
