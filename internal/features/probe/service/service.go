package service

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"gw-netwatch/internal/features/probe/domain"
	"gw-netwatch/internal/metrics"
)

// DefaultPerHostTimeout bounds a single reachability probe.
const DefaultPerHostTimeout = 3 * time.Second

// Service runs the layered connectivity probes.
type Service struct {
	pinger         domain.Pinger
	resolver       domain.Resolver
	logger         *slog.Logger
	collector      *metrics.Collector
	perHostTimeout time.Duration
}

// NewService creates a probe service. The collector is optional.
func NewService(pinger domain.Pinger, resolver domain.Resolver, logger *slog.Logger, perHostTimeout time.Duration, collector *metrics.Collector) *Service {
	if perHostTimeout <= 0 {
		perHostTimeout = DefaultPerHostTimeout
	}

	return &Service{
		pinger:         pinger,
		resolver:       resolver,
		logger:         logger,
		collector:      collector,
		perHostTimeout: perHostTimeout,
	}
}

// PingReachable reports whether any host in the ordered list answers a
// single reachability probe. Evaluation follows the configured order and
// the first success short-circuits the remaining hosts. A probe that
// cannot execute counts as a non-response, never as a fatal error.
func (s *Service) PingReachable(ctx context.Context, hosts []string) bool {
	for _, host := range hosts {
		if ctx.Err() != nil {
			return false
		}

		ok, err := s.pinger.Ping(ctx, host, s.perHostTimeout)
		if err != nil {
			s.logger.Error("ping probe failed to execute",
				"host", host,
				"error", err)
			if s.collector != nil {
				s.collector.RecordProbeFailure("ping")
			}
			continue
		}
		if ok {
			s.logger.Debug("ping probe succeeded", "host", host)
			return true
		}
		s.logger.Debug("ping probe got no response", "host", host)
	}

	return false
}

// DNSResolvable reports whether the given hostname resolves through the
// local resolver. Transient resolution failures yield false at warn
// level; unexpected errors are logged at error level and also yield
// false.
func (s *Service) DNSResolvable(ctx context.Context, hostname string) bool {
	addrs, err := s.resolver.LookupHost(ctx, hostname)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) {
			s.logger.Warn("dns resolution failed",
				"hostname", hostname,
				"error", err)
		} else {
			s.logger.Error("dns probe failed to execute",
				"hostname", hostname,
				"error", err)
		}
		if s.collector != nil {
			s.collector.RecordProbeFailure("dns")
		}
		return false
	}

	return len(addrs) > 0
}
