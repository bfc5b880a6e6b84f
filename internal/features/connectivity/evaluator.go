// Package connectivity combines the layered probes into a single
// online/offline verdict.
package connectivity

import (
	"context"
	"log/slog"
)

// Prober exposes the probe layer to the evaluator.
type Prober interface {
	PingReachable(ctx context.Context, hosts []string) bool
	DNSResolvable(ctx context.Context, hostname string) bool
}

// Evaluator decides the connectivity verdict with an AND-of-probes
// policy: both reachability and name resolution must agree before the
// link counts as online.
type Evaluator struct {
	prober    Prober
	pingHosts []string
	dnsHost   string
	logger    *slog.Logger
}

// NewEvaluator creates a connectivity evaluator.
func NewEvaluator(prober Prober, pingHosts []string, dnsHost string, logger *slog.Logger) *Evaluator {
	return &Evaluator{
		prober:    prober,
		pingHosts: pingHosts,
		dnsHost:   dnsHost,
		logger:    logger,
	}
}

// HasInternet reports whether the host currently has working internet
// access. The DNS probe is skipped when ping already failed; resolution
// without reachability is not considered online, and skipping saves a
// resolver timeout.
func (e *Evaluator) HasInternet(ctx context.Context) bool {
	if !e.prober.PingReachable(ctx, e.pingHosts) {
		e.logger.Debug("connectivity check failed at ping stage")
		return false
	}

	if !e.prober.DNSResolvable(ctx, e.dnsHost) {
		e.logger.Debug("connectivity check failed at dns stage")
		return false
	}

	return true
}
