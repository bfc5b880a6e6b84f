package service

import (
	"context"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"gw-netwatch/internal/features/probe/domain"
)

// icmpPinger implements domain.Pinger over ICMP echo.
type icmpPinger struct {
	privileged bool
}

// NewPinger creates a pinger sending raw ICMP echo requests. The
// privileged flag selects raw sockets over UDP ping, which the
// appliance image requires.
func NewPinger(privileged bool) domain.Pinger {
	return &icmpPinger{privileged: privileged}
}

// Ping implements domain.Pinger.Ping with a single echo request.
func (p *icmpPinger) Ping(ctx context.Context, host string, timeout time.Duration) (bool, error) {
	pinger, err := probing.NewPinger(host)
	if err != nil {
		return false, err
	}

	pinger.Count = 1
	pinger.Timeout = timeout
	pinger.SetPrivileged(p.privileged)

	if err := pinger.RunWithContext(ctx); err != nil {
		return false, err
	}

	return pinger.Statistics().PacketsRecv > 0, nil
}
