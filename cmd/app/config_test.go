package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "netwatch.conf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `node_id=3
check_interval=45
ping_hosts=192.168.1.1, 8.8.8.8 ,1.1.1.1
dns_test_host=example.org
log_level=debug
network_service=NetworkManager.service
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.NodeID)
	assert.Equal(t, 45, cfg.CheckInterval)
	assert.Equal(t, []string{"192.168.1.1", "8.8.8.8", "1.1.1.1"}, cfg.Hosts())
	assert.Equal(t, "example.org", cfg.DNSTestHost)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "node_id=1\n")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.CheckInterval)
	assert.Equal(t, []string{"8.8.8.8", "1.1.1.1"}, cfg.Hosts())
	assert.Equal(t, 3, cfg.PingTimeout)
	assert.Equal(t, "NetworkManager.service", cfg.NetworkService)
	assert.Equal(t, 300, cfg.RecoveryBaseCooldown)
	assert.Equal(t, 3600, cfg.RecoveryMaxCooldown)
	assert.Equal(t, "aplay", cfg.PlayerCommand)
	assert.Equal(t, ":8080", cfg.ServerPort)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"node id zero", "node_id=0\n", "node_id"},
		{"interval too short", "check_interval=10\n", "check_interval"},
		{"interval too long", "check_interval=7200\n", "check_interval"},
		{"empty ping hosts", "ping_hosts= , \n", "ping_hosts"},
		{"bad ping timeout", "ping_timeout=0\n", "ping_timeout"},
		{"cooldown cap below base", "recovery_max_cooldown=100\n", "recovery_max_cooldown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)

			_, err := LoadFrom(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
