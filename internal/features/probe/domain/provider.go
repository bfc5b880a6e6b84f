package domain

import (
	"context"
	"time"
)

// Pinger sends a single reachability probe to a host.
// Implementations must honor the per-host timeout.
type Pinger interface {
	// Ping reports whether the host answered within the timeout.
	// An error means the probe could not be executed, not that the
	// host is down.
	Ping(ctx context.Context, host string, timeout time.Duration) (bool, error)
}

// Resolver performs DNS lookups. The interface mirrors net.Resolver so
// resolution can be mocked in tests.
type Resolver interface {
	// LookupHost looks up the given host using the local resolver.
	LookupHost(ctx context.Context, host string) ([]string, error)
}
