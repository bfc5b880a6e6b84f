package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cenkalti/backoff/v4"

	"gw-netwatch/internal/common"
	"gw-netwatch/internal/features/recovery/domain"
	"gw-netwatch/internal/metrics"
)

// Config holds the recovery policy tunables.
type Config struct {
	// Unit is the systemd unit of the primary network manager.
	Unit string

	// BaseCooldown is the cooldown applied after a verified success.
	BaseCooldown time.Duration

	// MaxCooldown is the hard cap the cooldown can grow to.
	MaxCooldown time.Duration

	// FailureThreshold is the consecutive-failure count at which the
	// cooldown starts doubling.
	FailureThreshold int

	// SettleDelay is the wait between stopping and starting the unit.
	SettleDelay time.Duration

	// StartupDelay is the wait after starting the unit before verification.
	StartupDelay time.Duration

	// VerifyGrace is the window granted for an interface to come up
	// during verification.
	VerifyGrace time.Duration
}

// DefaultConfig returns the recovery policy defaults for a unit.
func DefaultConfig(unit string) Config {
	return Config{
		Unit:             unit,
		BaseCooldown:     5 * time.Minute,
		MaxCooldown:      time.Hour,
		FailureThreshold: 3,
		SettleDelay:      5 * time.Second,
		StartupDelay:     10 * time.Second,
		VerifyGrace:      3 * time.Second,
	}
}

// Manager owns the recovery attempt record and drives the
// cooldown/backoff-governed restart of the network service. The monitor
// loop is the only caller of TryReconnect; the mutex exists so the
// status endpoint can read the record concurrently.
type Manager struct {
	controller domain.ServiceController
	clock      clock.Clock
	logger     *slog.Logger
	collector  *metrics.Collector
	cfg        Config

	mu     sync.Mutex
	record domain.AttemptRecord
}

// NewManager creates a recovery manager. The collector is optional.
func NewManager(controller domain.ServiceController, clk clock.Clock, logger *slog.Logger, cfg Config, collector *metrics.Collector) *Manager {
	if clk == nil {
		clk = clock.New()
	}
	if cfg.BaseCooldown <= 0 {
		cfg.BaseCooldown = 5 * time.Minute
	}
	if cfg.MaxCooldown <= 0 {
		cfg.MaxCooldown = time.Hour
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}

	return &Manager{
		controller: controller,
		clock:      clk,
		logger:     logger,
		collector:  collector,
		cfg:        cfg,
		record: domain.AttemptRecord{
			Cooldown: cfg.BaseCooldown,
		},
	}
}

// TryReconnect attempts to restart the network service and verify the
// link came back. It returns true only for a verified recovery. During
// the cooldown window it is a no-op returning false; that check is the
// backpressure preventing restart storms while the link stays down.
func (m *Manager) TryReconnect(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	if !m.record.LastAttempt.IsZero() {
		elapsed := now.Sub(m.record.LastAttempt)
		if elapsed < m.record.Cooldown {
			m.logger.Debug("recovery attempt suppressed by cooldown",
				"remaining", (m.record.Cooldown - elapsed).Round(time.Second).String())
			return false
		}
	}

	// Claim the attempt slot before doing any work so a restart
	// sequence that stalls or dies still respects the cooldown on the
	// next invocation.
	m.record.LastAttempt = now

	if err := m.restart(ctx); err != nil {
		if common.IsUnsupportedManager(err) {
			// Unsupported environments are logged and skipped, not
			// counted against the failure budget.
			m.logger.Warn("recovery skipped", "error", err)
			return false
		}
		if common.IsContextCanceled(err) {
			m.logger.Info("recovery attempt canceled", "error", err)
			return false
		}
		m.recordFailure(err)
		return false
	}

	m.recordSuccess()
	return true
}

// Record returns a snapshot of the attempt record.
func (m *Manager) Record() domain.AttemptRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record
}

// CooldownRemaining returns the time left until the next attempt is
// allowed, or zero when an attempt may proceed immediately.
func (m *Manager) CooldownRemaining() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.record.LastAttempt.IsZero() {
		return 0
	}
	remaining := m.record.Cooldown - m.clock.Now().Sub(m.record.LastAttempt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// restart runs the stop/settle/start/verify sequence against the
// primary network manager.
func (m *Manager) restart(ctx context.Context) error {
	manager := m.controller.DetectActiveManager(ctx)
	if manager != domain.ManagerNetworkManager {
		return common.UnsupportedManagerError("active network manager is %s", manager)
	}

	m.logger.Info("restarting network service", "unit", m.cfg.Unit)

	if err := m.controller.Stop(ctx, m.cfg.Unit); err != nil {
		return common.WrapError(err, "stopping network service")
	}
	if err := m.wait(ctx, m.cfg.SettleDelay); err != nil {
		return err
	}
	if err := m.controller.Start(ctx, m.cfg.Unit); err != nil {
		return common.WrapError(err, "starting network service")
	}
	if err := m.wait(ctx, m.cfg.StartupDelay); err != nil {
		return err
	}

	return m.verify(ctx)
}

// verify confirms the unit is active, not failed, and that a network
// interface came up within the grace window.
func (m *Manager) verify(ctx context.Context) error {
	active, err := m.controller.IsActive(ctx, m.cfg.Unit)
	if err != nil {
		return common.WrapError(err, "querying service state")
	}
	if !active {
		return common.VerificationFailedError("unit %s is not active after restart", m.cfg.Unit)
	}

	failed, err := m.controller.IsFailed(ctx, m.cfg.Unit)
	if err != nil {
		return common.WrapError(err, "querying service failure state")
	}
	if failed {
		return common.VerificationFailedError("unit %s reports failed after restart", m.cfg.Unit)
	}

	return m.waitForInterface(ctx)
}

// waitForInterface polls the link state with exponential backoff until
// an interface reports up or the grace window runs out.
func (m *Manager) waitForInterface(ctx context.Context) error {
	check := func() error {
		up, err := m.controller.InterfacesUp()
		if err != nil {
			return backoff.Permanent(common.WrapError(err, "reading interface state"))
		}
		if !up {
			return errors.New("no interface up yet")
		}
		return nil
	}

	if m.cfg.VerifyGrace <= 0 {
		if err := check(); err != nil {
			return common.VerificationFailedError("no network interface is up")
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxInterval = time.Second
	bo.MaxElapsedTime = m.cfg.VerifyGrace

	if err := backoff.Retry(check, backoff.WithContext(bo, ctx)); err != nil {
		if common.IsContextCanceled(err) {
			return err
		}
		return common.VerificationFailedError("no network interface came up within %v", m.cfg.VerifyGrace)
	}
	return nil
}

// recordSuccess resets the failure budget after a verified recovery.
func (m *Manager) recordSuccess() {
	m.record.ConsecutiveFailures = 0
	m.record.Cooldown = m.cfg.BaseCooldown

	m.logger.Info("network service recovered",
		"unit", m.cfg.Unit,
		"cooldown", m.record.Cooldown.String())

	if m.collector != nil {
		m.collector.RecordRecoveryAttempt(true)
		m.collector.SetCooldownSeconds(m.record.Cooldown.Seconds())
	}
}

// recordFailure counts the failure and escalates the cooldown once the
// threshold is reached, doubling up to the hard cap.
func (m *Manager) recordFailure(err error) {
	m.record.ConsecutiveFailures++

	if m.record.ConsecutiveFailures >= m.cfg.FailureThreshold {
		next := m.record.Cooldown * 2
		if next > m.cfg.MaxCooldown {
			next = m.cfg.MaxCooldown
		}
		if next != m.record.Cooldown {
			m.record.Cooldown = next
			m.logger.Warn("increasing recovery cooldown",
				"consecutive_failures", m.record.ConsecutiveFailures,
				"cooldown", m.record.Cooldown.String())
		}
	}

	m.logger.Error("recovery attempt failed",
		"consecutive_failures", m.record.ConsecutiveFailures,
		"error", err)

	if m.collector != nil {
		m.collector.RecordRecoveryAttempt(false)
		m.collector.SetCooldownSeconds(m.record.Cooldown.Seconds())
	}
}

// wait sleeps for d unless the context is canceled first.
func (m *Manager) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return common.CheckContext(ctx)
	}
	select {
	case <-m.clock.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
