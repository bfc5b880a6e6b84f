// Package systemd implements the recovery service controller over the
// systemd D-Bus API.
package systemd

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	sd "github.com/coreos/go-systemd/v22/dbus"

	"gw-netwatch/internal/features/recovery/domain"
)

// managerUnits maps known network managers to their units, in detection
// precedence order.
var managerUnits = []struct {
	kind domain.ManagerKind
	unit string
}{
	{domain.ManagerNetworkManager, "NetworkManager.service"},
	{domain.ManagerNetworkd, "systemd-networkd.service"},
	{domain.ManagerDHCPCD, "dhcpcd.service"},
}

// Controller implements domain.ServiceController against the local
// systemd instance. The D-Bus connection is established lazily and
// reused across calls.
type Controller struct {
	logger *slog.Logger

	mu   sync.Mutex
	conn *sd.Conn
}

// NewController creates a systemd service controller.
func NewController(logger *slog.Logger) *Controller {
	return &Controller{logger: logger}
}

// Close releases the D-Bus connection.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// IsActive implements domain.ServiceController.
func (c *Controller) IsActive(ctx context.Context, unit string) (bool, error) {
	state, err := c.activeState(ctx, unit)
	if err != nil {
		return false, err
	}
	return state == "active", nil
}

// IsFailed implements domain.ServiceController.
func (c *Controller) IsFailed(ctx context.Context, unit string) (bool, error) {
	state, err := c.activeState(ctx, unit)
	if err != nil {
		return false, err
	}
	return state == "failed", nil
}

// Stop implements domain.ServiceController.
func (c *Controller) Stop(ctx context.Context, unit string) error {
	conn, err := c.connection(ctx)
	if err != nil {
		return err
	}

	results := make(chan string, 1)
	if _, err := conn.StopUnitContext(ctx, unit, "replace", results); err != nil {
		return fmt.Errorf("stop %s: %w", unit, err)
	}
	return c.awaitJob(ctx, results, unit, "stop")
}

// Start implements domain.ServiceController.
func (c *Controller) Start(ctx context.Context, unit string) error {
	conn, err := c.connection(ctx)
	if err != nil {
		return err
	}

	results := make(chan string, 1)
	if _, err := conn.StartUnitContext(ctx, unit, "replace", results); err != nil {
		return fmt.Errorf("start %s: %w", unit, err)
	}
	return c.awaitJob(ctx, results, unit, "start")
}

// DetectActiveManager implements domain.ServiceController. Units are
// queried in precedence order, so the primary wins when several report
// active.
func (c *Controller) DetectActiveManager(ctx context.Context) domain.ManagerKind {
	for _, candidate := range managerUnits {
		active, err := c.IsActive(ctx, candidate.unit)
		if err != nil {
			c.logger.Debug("network manager detection query failed",
				"unit", candidate.unit,
				"error", err)
			continue
		}
		if active {
			return candidate.kind
		}
	}
	return domain.ManagerUnknown
}

// InterfacesUp implements domain.ServiceController. Loopback does not
// count.
func (c *Controller) InterfacesUp() (bool, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false, fmt.Errorf("listing interfaces: %w", err)
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if iface.Flags&net.FlagUp != 0 {
			return true, nil
		}
	}
	return false, nil
}

// connection returns the cached D-Bus connection, dialing on first use.
func (c *Controller) connection(ctx context.Context) (*sd.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return c.conn, nil
	}

	conn, err := sd.NewWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("connecting to systemd: %w", err)
	}
	c.conn = conn
	return conn, nil
}

// activeState reads the ActiveState property of a unit.
func (c *Controller) activeState(ctx context.Context, unit string) (string, error) {
	conn, err := c.connection(ctx)
	if err != nil {
		return "", err
	}

	props, err := conn.GetUnitPropertiesContext(ctx, unit)
	if err != nil {
		return "", fmt.Errorf("querying %s: %w", unit, err)
	}

	state, _ := props["ActiveState"].(string)
	return state, nil
}

// awaitJob waits for a queued systemd job to finish and maps non-done
// results to errors.
func (c *Controller) awaitJob(ctx context.Context, results <-chan string, unit, verb string) error {
	select {
	case result := <-results:
		if result != "done" {
			return fmt.Errorf("%s job for %s finished with result %q", verb, unit, result)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
