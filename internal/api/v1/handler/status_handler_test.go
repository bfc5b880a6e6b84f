package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gw-netwatch/internal/features/monitor"
)

type fakeSnapshotProvider struct {
	snap monitor.Snapshot
}

func (f *fakeSnapshotProvider) Snapshot() monitor.Snapshot { return f.snap }

func TestStatusEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider := &fakeSnapshotProvider{snap: monitor.Snapshot{
		State:             monitor.StateOffline,
		LastCheck:         time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC),
		Reconnects:        2,
		Outages:           3,
		CooldownRemaining: 90 * time.Second,
	}}

	router := gin.New()
	NewStatusHandler(provider, 7).SetupRoutes(router)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, float64(7), body["node_id"])
	assert.Equal(t, "offline", body["state"])
	assert.Equal(t, float64(2), body["reconnects"])
	assert.Equal(t, float64(3), body["outages"])
	assert.Equal(t, float64(90), body["cooldown_remaining_seconds"])
	assert.Equal(t, "2026-08-26T10:00:00Z", body["last_check"])
	assert.NotContains(t, body, "online_since")
}
