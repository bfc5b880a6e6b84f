// Package monitor owns the connectivity state machine and the
// run/stop lifecycle of the watchdog loop.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"gw-netwatch/internal/features/notify"
	"gw-netwatch/internal/metrics"
)

// State is the connectivity verdict carried between cycles.
type State string

// Connectivity states.
const (
	StateOnline  State = "online"
	StateOffline State = "offline"
)

var allStates = []string{string(StateOnline), string(StateOffline)}

// Evaluator produces the online/offline verdict for one cycle.
type Evaluator interface {
	HasInternet(ctx context.Context) bool
}

// Recoverer drives the network service recovery while offline.
type Recoverer interface {
	TryReconnect(ctx context.Context) bool
	CooldownRemaining() time.Duration
}

// Snapshot is a point-in-time view of the monitor for the status
// endpoint.
type Snapshot struct {
	State             State         `json:"state"`
	LastCheck         time.Time     `json:"last_check"`
	OnlineSince       time.Time     `json:"online_since,omitempty"`
	Reconnects        int           `json:"reconnects"`
	Outages           int           `json:"outages"`
	CooldownRemaining time.Duration `json:"cooldown_remaining"`
}

// Monitor polls the evaluator on a fixed interval, announces state
// transitions, and dispatches recovery while offline. A single
// goroutine runs the loop; the mutex only guards snapshot reads from
// the HTTP surface.
type Monitor struct {
	evaluator Evaluator
	recoverer Recoverer
	notifier  notify.Notifier
	clock     clock.Clock
	logger    *slog.Logger
	collector *metrics.Collector
	interval  time.Duration

	mu          sync.RWMutex
	state       State
	lastCheck   time.Time
	onlineSince time.Time
	reconnects  int
	outages     int
}

// New creates a monitor. The initial state is Offline so boot never
// produces a spurious "reconnected" announcement. The collector is
// optional.
func New(evaluator Evaluator, recoverer Recoverer, notifier notify.Notifier, clk clock.Clock, logger *slog.Logger, interval time.Duration, collector *metrics.Collector) *Monitor {
	if clk == nil {
		clk = clock.New()
	}

	return &Monitor{
		evaluator: evaluator,
		recoverer: recoverer,
		notifier:  notifier,
		clock:     clk,
		logger:    logger,
		collector: collector,
		interval:  interval,
		state:     StateOffline,
	}
}

// Run executes the monitoring loop until the context is canceled. The
// in-progress cycle always finishes; cancellation is observed between
// cycles and during the end-of-cycle sleep.
func (m *Monitor) Run(ctx context.Context) {
	m.logger.Info("connectivity monitor started",
		"interval", m.interval.String())

	if m.collector != nil {
		m.collector.UpdateState(string(StateOffline), allStates)
	}

	for {
		if ctx.Err() != nil {
			break
		}

		m.cycle(ctx)

		if ctx.Err() != nil {
			break
		}

		select {
		case <-m.clock.After(m.interval):
		case <-ctx.Done():
		}
	}

	m.logger.Info("connectivity monitor stopped")
}

// Snapshot returns the current monitor state.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		State:             m.state,
		LastCheck:         m.lastCheck,
		OnlineSince:       m.onlineSince,
		Reconnects:        m.reconnects,
		Outages:           m.outages,
		CooldownRemaining: m.recoverer.CooldownRemaining(),
	}
}

// cycle runs one evaluation pass: verdict, transition handling, and
// recovery dispatch while offline. Notifications fire on transitions
// only; a persistently offline link must not re-announce every
// interval.
func (m *Monitor) cycle(ctx context.Context) {
	online := m.evaluator.HasInternet(ctx)
	now := m.clock.Now()

	m.mu.Lock()
	previous := m.state
	m.lastCheck = now

	switch {
	case online && previous == StateOffline:
		m.state = StateOnline
		m.onlineSince = now
		m.reconnects++
	case !online && previous == StateOnline:
		m.state = StateOffline
		m.onlineSince = time.Time{}
		m.outages++
	}
	current := m.state
	m.mu.Unlock()

	if m.collector != nil {
		m.collector.RecordCheck()
	}

	if current != previous {
		m.transition(ctx, previous, current)
	}

	if current == StateOffline {
		// The cooldown check inside TryReconnect makes this a cheap
		// no-op on most offline cycles.
		m.recoverer.TryReconnect(ctx)
	}
}

// transition logs, announces and records a state change.
func (m *Monitor) transition(ctx context.Context, from, to State) {
	switch to {
	case StateOnline:
		m.logger.Info("internet connectivity restored")
		m.notifier.Announce(ctx, notify.EventReconnected)
	case StateOffline:
		m.logger.Warn("internet connectivity lost")
		m.notifier.Announce(ctx, notify.EventLost)
	}

	if m.collector != nil {
		m.collector.UpdateState(string(to), allStates)
		m.collector.RecordTransition(string(from), string(to))
	}
}
