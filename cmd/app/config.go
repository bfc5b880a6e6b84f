package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the complete watchdog configuration. The settings file
// is plain key=value (env format); values are validated once at startup
// and immutable afterwards.
type Config struct {
	// NodeID identifies this gateway node in announcements and status
	NodeID int `mapstructure:"node_id"`

	// CheckInterval is the seconds between connectivity checks
	CheckInterval int `mapstructure:"check_interval"`

	// PingHosts is the ordered, comma-separated reachability target list
	PingHosts string `mapstructure:"ping_hosts"`

	// PingTimeout is the per-host probe timeout in seconds
	PingTimeout int `mapstructure:"ping_timeout"`

	// PingPrivileged selects raw ICMP sockets over UDP ping
	PingPrivileged bool `mapstructure:"ping_privileged"`

	// DNSTestHost is the hostname resolved by the DNS probe
	DNSTestHost string `mapstructure:"dns_test_host"`

	// SoundDir holds the pre-recorded announcement files
	SoundDir string `mapstructure:"sound_dir"`

	// PlayerCommand is the external audio player binary
	PlayerCommand string `mapstructure:"player_command"`

	// LogFile is the rotated log sink; empty logs to stdout
	LogFile string `mapstructure:"log_file"`

	// LogMaxSizeMB is the rotation threshold for the log file
	LogMaxSizeMB int `mapstructure:"log_max_size_mb"`

	// LogLevel is the minimum log level
	LogLevel string `mapstructure:"log_level"`

	// NetworkService is the systemd unit restarted during recovery
	NetworkService string `mapstructure:"network_service"`

	// RecoveryBaseCooldown is the post-success cooldown in seconds
	RecoveryBaseCooldown int `mapstructure:"recovery_base_cooldown"`

	// RecoveryMaxCooldown is the backoff cap in seconds
	RecoveryMaxCooldown int `mapstructure:"recovery_max_cooldown"`

	// ServerPort is the HTTP listen address for status and metrics
	ServerPort string `mapstructure:"server_port"`
}

// Hosts returns the ping host list in configured order.
func (c *Config) Hosts() []string {
	var hosts []string
	for _, host := range strings.Split(c.PingHosts, ",") {
		host = strings.TrimSpace(host)
		if host != "" {
			hosts = append(hosts, host)
		}
	}
	return hosts
}

// Load loads configuration from the default search paths and environment.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from an explicit file path, or from the
// default search paths when the path is empty.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure paths and file type
	configureViper(v, path)

	// Read config file
	if err := readConfig(v); err != nil {
		return nil, err
	}

	// Unmarshal configuration
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// configureViper sets up viper paths and the key=value file type
func configureViper(v *viper.Viper, path string) {
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
	} else {
		v.SetConfigName("netwatch")
		v.SetConfigType("env")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/netwatch/")
	}

	// Enable environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("NETWATCH")
}

// readConfig attempts to read the configuration file
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		// Only return error if it's not a "config file not found" error
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		// Otherwise, continue with defaults and environment variables
	}
	return nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.NodeID < 1 {
		return fmt.Errorf("node_id must be >= 1")
	}

	if cfg.CheckInterval < 30 || cfg.CheckInterval > 3600 {
		return fmt.Errorf("check_interval must be between 30 and 3600 seconds")
	}

	if len(cfg.Hosts()) == 0 {
		return fmt.Errorf("ping_hosts must list at least one host")
	}

	if cfg.PingTimeout <= 0 {
		return fmt.Errorf("ping_timeout must be positive")
	}

	if cfg.DNSTestHost == "" {
		return fmt.Errorf("dns_test_host is required")
	}

	if cfg.NetworkService == "" {
		return fmt.Errorf("network_service is required")
	}

	if cfg.RecoveryBaseCooldown <= 0 {
		return fmt.Errorf("recovery_base_cooldown must be positive")
	}
	if cfg.RecoveryMaxCooldown < cfg.RecoveryBaseCooldown {
		return fmt.Errorf("recovery_max_cooldown must be >= recovery_base_cooldown")
	}

	if cfg.ServerPort == "" {
		return fmt.Errorf("server_port is required")
	}

	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Node defaults
	v.SetDefault("node_id", 1)

	// Probe defaults
	v.SetDefault("check_interval", 60)
	v.SetDefault("ping_hosts", "8.8.8.8,1.1.1.1")
	v.SetDefault("ping_timeout", 3)
	v.SetDefault("ping_privileged", true)
	v.SetDefault("dns_test_host", "google.com")

	// Announcement defaults
	v.SetDefault("sound_dir", "/usr/share/netwatch/sounds")
	v.SetDefault("player_command", "aplay")

	// Logging defaults
	v.SetDefault("log_file", "")
	v.SetDefault("log_max_size_mb", 10)
	v.SetDefault("log_level", "info")

	// Recovery defaults
	v.SetDefault("network_service", "NetworkManager.service")
	v.SetDefault("recovery_base_cooldown", 300)
	v.SetDefault("recovery_max_cooldown", 3600)

	// Server defaults
	v.SetDefault("server_port", ":8080")
}
