package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gw-netwatch/internal/features/monitor"
)

// SnapshotProvider exposes the monitor state to the API
type SnapshotProvider interface {
	Snapshot() monitor.Snapshot
}

// StatusHandler serves the current connectivity state
type StatusHandler struct {
	monitor SnapshotProvider
	nodeID  int
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(monitor SnapshotProvider, nodeID int) *StatusHandler {
	return &StatusHandler{
		monitor: monitor,
		nodeID:  nodeID,
	}
}

// SetupRoutes registers handler routes to the router
func (h *StatusHandler) SetupRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/status", h.status)
	}
}

// status reports the connectivity state machine snapshot
func (h *StatusHandler) status(c *gin.Context) {
	snap := h.monitor.Snapshot()

	body := gin.H{
		"node_id":                    h.nodeID,
		"state":                      snap.State,
		"reconnects":                 snap.Reconnects,
		"outages":                    snap.Outages,
		"cooldown_remaining_seconds": int(snap.CooldownRemaining.Seconds()),
	}
	if !snap.LastCheck.IsZero() {
		body["last_check"] = snap.LastCheck.UTC().Format(time.RFC3339)
	}
	if !snap.OnlineSince.IsZero() {
		body["online_since"] = snap.OnlineSince.UTC().Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, body)
}
