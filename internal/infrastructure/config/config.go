package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for pendantd.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Pendant   PendantConfig   `yaml:"pendant"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// PendantConfig identifies the target pendant and tunes its poll and send
// timing. All *_ms values are milliseconds.
type PendantConfig struct {
	// Family groups pendants by fleet or cell (first topic level after the
	// message kind). Required.
	Family string `yaml:"family"`

	// Name is the pendant's unique name within its family. Required.
	Name string `yaml:"name"`

	// LayoutFile is an optional UI layout pushed to the pendant at startup.
	// Empty disables the push.
	LayoutFile string `yaml:"layout_file"`

	FeedbackTimeoutMs  int `yaml:"feedback_timeout_ms"`
	SendTimeoutMs      int `yaml:"send_timeout_ms"`
	LayoutTimeoutMs    int `yaml:"layout_timeout_ms"`
	DiscoveryTimeoutMs int `yaml:"discovery_timeout_ms"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings (seconds).
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// TelemetryConfig contains InfluxDB connection settings for the optional
// pendant state recorder.
type TelemetryConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string            `yaml:"level"`
	Format string            `yaml:"format"`
	Output string            `yaml:"output"`
	File   FileLoggingConfig `yaml:"file"`
}

// FileLoggingConfig contains rotation settings used when logging.output is
// "file". Sizes are megabytes, ages are days.
type FileLoggingConfig struct {
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: PENDANTD_SECTION_KEY
// For example: PENDANTD_MQTT_HOST, PENDANTD_PENDANT_NAME
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Pendant: PendantConfig{
			FeedbackTimeoutMs:  500,
			SendTimeoutMs:      500,
			LayoutTimeoutMs:    5000,
			DiscoveryTimeoutMs: 5000,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "pendantd",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Telemetry: TelemetryConfig{
			Enabled:       false,
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
			File: FileLoggingConfig{
				MaxSize:    100,
				MaxBackups: 3,
				MaxAge:     28,
				Compress:   true,
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: PENDANTD_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Pendant
	if v := os.Getenv("PENDANTD_PENDANT_FAMILY"); v != "" {
		cfg.Pendant.Family = v
	}
	if v := os.Getenv("PENDANTD_PENDANT_NAME"); v != "" {
		cfg.Pendant.Name = v
	}

	// MQTT
	if v := os.Getenv("PENDANTD_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("PENDANTD_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("PENDANTD_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// Telemetry
	if v := os.Getenv("PENDANTD_TELEMETRY_TOKEN"); v != "" {
		cfg.Telemetry.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Pendant validation
	if c.Pendant.Family == "" {
		errs = append(errs, "pendant.family is required")
	}
	if c.Pendant.Name == "" {
		errs = append(errs, "pendant.name is required")
	}
	if c.Pendant.FeedbackTimeoutMs <= 0 {
		errs = append(errs, "pendant.feedback_timeout_ms must be positive")
	}
	if c.Pendant.SendTimeoutMs <= 0 {
		errs = append(errs, "pendant.send_timeout_ms must be positive")
	}
	if c.Pendant.LayoutTimeoutMs <= 0 {
		errs = append(errs, "pendant.layout_timeout_ms must be positive")
	}
	if c.Pendant.DiscoveryTimeoutMs <= 0 {
		errs = append(errs, "pendant.discovery_timeout_ms must be positive")
	}

	// MQTT validation
	if c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// Telemetry validation (only when enabled)
	if c.Telemetry.Enabled {
		if c.Telemetry.URL == "" {
			errs = append(errs, "telemetry.url is required when telemetry is enabled")
		}
		if c.Telemetry.Token == "" {
			errs = append(errs, "telemetry.token is required when telemetry is enabled (set PENDANTD_TELEMETRY_TOKEN environment variable)")
		}
		if c.Telemetry.Org == "" {
			errs = append(errs, "telemetry.org is required when telemetry is enabled")
		}
		if c.Telemetry.Bucket == "" {
			errs = append(errs, "telemetry.bucket is required when telemetry is enabled")
		}
	}

	// Logging validation
	if c.Logging.Output == "file" && c.Logging.File.Path == "" {
		errs = append(errs, "logging.file.path is required when logging.output is \"file\"")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetFeedbackTimeout returns the feedback wait timeout as a Duration.
func (c *Config) GetFeedbackTimeout() time.Duration {
	return time.Duration(c.Pendant.FeedbackTimeoutMs) * time.Millisecond
}

// GetSendTimeout returns the acknowledged-send timeout as a Duration.
func (c *Config) GetSendTimeout() time.Duration {
	return time.Duration(c.Pendant.SendTimeoutMs) * time.Millisecond
}

// GetLayoutTimeout returns the layout transfer timeout as a Duration.
func (c *Config) GetLayoutTimeout() time.Duration {
	return time.Duration(c.Pendant.LayoutTimeoutMs) * time.Millisecond
}

// GetDiscoveryTimeout returns the discovery wait timeout as a Duration.
func (c *Config) GetDiscoveryTimeout() time.Duration {
	return time.Duration(c.Pendant.DiscoveryTimeoutMs) * time.Millisecond
}
