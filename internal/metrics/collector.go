package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector manages Prometheus metrics for the watchdog
type Collector struct {
	connectivityGauge *prometheus.GaugeVec
	transitionCounter *prometheus.CounterVec
	probeFailures     *prometheus.CounterVec
	recoveryCounter   *prometheus.CounterVec
	cooldownGauge     prometheus.Gauge
	checkCounter      prometheus.Counter
	registered        bool
	mu                sync.Mutex
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{
		connectivityGauge: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "netwatch_connectivity_state",
				Help: "Current connectivity state (1=active, 0=inactive)",
			},
			[]string{"state"},
		),
		transitionCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "netwatch_state_transitions_total",
				Help: "Count of connectivity state transitions by source/target state",
			},
			[]string{"from_state", "to_state"},
		),
		probeFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "netwatch_probe_failures_total",
				Help: "Count of failed probe executions by probe kind",
			},
			[]string{"probe"},
		),
		recoveryCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "netwatch_recovery_attempts_total",
				Help: "Count of network service recovery attempts",
			},
			[]string{"success"},
		),
		cooldownGauge: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "netwatch_recovery_cooldown_seconds",
				Help: "Current recovery cooldown window in seconds",
			},
		),
		checkCounter: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "netwatch_connectivity_checks_total",
				Help: "Count of completed connectivity evaluation cycles",
			},
		),
	}
}

// Register registers metrics with Prometheus
func (m *Collector) Register() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.registered {
		return
	}

	prometheus.MustRegister(m.connectivityGauge)
	prometheus.MustRegister(m.transitionCounter)
	prometheus.MustRegister(m.probeFailures)
	prometheus.MustRegister(m.recoveryCounter)
	prometheus.MustRegister(m.cooldownGauge)
	prometheus.MustRegister(m.checkCounter)

	m.registered = true
}

// UpdateState updates the connectivity state gauge
func (m *Collector) UpdateState(state string, all []string) {
	for _, s := range all {
		m.connectivityGauge.WithLabelValues(s).Set(0)
	}
	m.connectivityGauge.WithLabelValues(state).Set(1)
}

// RecordTransition records a state transition
func (m *Collector) RecordTransition(fromState, toState string) {
	m.transitionCounter.WithLabelValues(fromState, toState).Inc()
}

// RecordProbeFailure records a failed probe execution
func (m *Collector) RecordProbeFailure(probe string) {
	m.probeFailures.WithLabelValues(probe).Inc()
}

// RecordRecoveryAttempt records a recovery attempt
func (m *Collector) RecordRecoveryAttempt(successful bool) {
	successStr := "false"
	if successful {
		successStr = "true"
	}
	m.recoveryCounter.WithLabelValues(successStr).Inc()
}

// SetCooldownSeconds publishes the current cooldown window
func (m *Collector) SetCooldownSeconds(seconds float64) {
	m.cooldownGauge.Set(seconds)
}

// RecordCheck counts a completed evaluation cycle
func (m *Collector) RecordCheck() {
	m.checkCounter.Inc()
}
