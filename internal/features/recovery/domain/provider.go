package domain

import (
	"context"
	"time"
)

// ManagerKind identifies the network-management mechanism active on the
// appliance.
type ManagerKind string

// Known network managers, in detection precedence order.
const (
	ManagerNetworkManager ManagerKind = "NetworkManager"
	ManagerNetworkd       ManagerKind = "systemd-networkd"
	ManagerDHCPCD         ManagerKind = "dhcpcd"
	ManagerUnknown        ManagerKind = "unknown"
)

// ServiceController abstracts the service manager and link state so the
// recovery state machine can be exercised with scripted fakes.
type ServiceController interface {
	// IsActive reports whether the unit is in the active state.
	IsActive(ctx context.Context, unit string) (bool, error)

	// IsFailed reports whether the unit is in the failed state.
	IsFailed(ctx context.Context, unit string) (bool, error)

	// Stop stops the unit and waits for the job to finish.
	Stop(ctx context.Context, unit string) error

	// Start starts the unit and waits for the job to finish.
	Start(ctx context.Context, unit string) error

	// DetectActiveManager returns the first active known network
	// manager; the primary takes precedence when several are active.
	DetectActiveManager(ctx context.Context) ManagerKind

	// InterfacesUp reports whether at least one non-loopback network
	// interface is up.
	InterfacesUp() (bool, error)
}

// AttemptRecord tracks recovery attempt history. Exactly one record
// exists per process; it lives in memory only and resets when the
// watchdog itself restarts.
type AttemptRecord struct {
	// LastAttempt is the time the last attempt slot was claimed; the
	// zero value means no attempt has been made yet.
	LastAttempt time.Time

	// Cooldown is the minimum time required between attempts. It only
	// grows by doubling, capped at a maximum, and only resets to the
	// base value on a verified successful recovery.
	Cooldown time.Duration

	// ConsecutiveFailures counts failed attempts since the last
	// verified success.
	ConsecutiveFailures int
}
