package config

import (
	"os"
	"path/filepath"
	"testing"
)

// validTestConfig returns a configuration that passes Validate. Tests mutate
// single fields to probe individual rules.
func validTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Pendant.Family = "cell-a"
	cfg.Pendant.Name = "pendant-01"
	return cfg
}

func TestLoad_ValidConfig(t *testing.T) {
	// Create a temporary config file
	content := `
pendant:
  family: "cell-a"
  name: "pendant-01"
  feedback_timeout_ms: 250
mqtt:
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
logging:
  level: debug
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Pendant.Family != "cell-a" {
		t.Errorf("Pendant.Family = %q, want %q", cfg.Pendant.Family, "cell-a")
	}

	if cfg.Pendant.FeedbackTimeoutMs != 250 {
		t.Errorf("Pendant.FeedbackTimeoutMs = %d, want 250", cfg.Pendant.FeedbackTimeoutMs)
	}

	if cfg.MQTT.Broker.Host != "localhost" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "localhost")
	}

	// Fields absent from the file keep their defaults.
	if cfg.Pendant.SendTimeoutMs != 500 {
		t.Errorf("Pendant.SendTimeoutMs = %d, want default 500", cfg.Pendant.SendTimeoutMs)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	content := `
pendant:
  family: "cell-a"
  name: ""
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected validation error for empty pendant.name, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing family",
			mutate:  func(c *Config) { c.Pendant.Family = "" },
			wantErr: true,
		},
		{
			name:    "missing name",
			mutate:  func(c *Config) { c.Pendant.Name = "" },
			wantErr: true,
		},
		{
			name:    "zero feedback timeout",
			mutate:  func(c *Config) { c.Pendant.FeedbackTimeoutMs = 0 },
			wantErr: true,
		},
		{
			name:    "negative send timeout",
			mutate:  func(c *Config) { c.Pendant.SendTimeoutMs = -1 },
			wantErr: true,
		},
		{
			name:    "missing broker host",
			mutate:  func(c *Config) { c.MQTT.Broker.Host = "" },
			wantErr: true,
		},
		{
			name:    "invalid broker port low",
			mutate:  func(c *Config) { c.MQTT.Broker.Port = 0 },
			wantErr: true,
		},
		{
			name:    "invalid broker port high",
			mutate:  func(c *Config) { c.MQTT.Broker.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "invalid QoS",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: true,
		},
		{
			name: "telemetry enabled without token",
			mutate: func(c *Config) {
				c.Telemetry.Enabled = true
				c.Telemetry.URL = "http://127.0.0.1:8086"
				c.Telemetry.Org = "hollis"
				c.Telemetry.Bucket = "pendants"
			},
			wantErr: true,
		},
		{
			name: "telemetry enabled fully configured",
			mutate: func(c *Config) {
				c.Telemetry.Enabled = true
				c.Telemetry.URL = "http://127.0.0.1:8086"
				c.Telemetry.Token = "dev-token"
				c.Telemetry.Org = "hollis"
				c.Telemetry.Bucket = "pendants"
			},
			wantErr: false,
		},
		{
			name:    "file output without path",
			mutate:  func(c *Config) { c.Logging.Output = "file" },
			wantErr: true,
		},
		{
			name: "file output with path",
			mutate: func(c *Config) {
				c.Logging.Output = "file"
				c.Logging.File.Path = "/var/log/pendantd.log"
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_GetTimeouts(t *testing.T) {
	cfg := &Config{
		Pendant: PendantConfig{
			FeedbackTimeoutMs:  250,
			SendTimeoutMs:      750,
			LayoutTimeoutMs:    4000,
			DiscoveryTimeoutMs: 9000,
		},
	}

	if got := cfg.GetFeedbackTimeout().Milliseconds(); got != 250 {
		t.Errorf("GetFeedbackTimeout() = %v, want 250", got)
	}

	if got := cfg.GetSendTimeout().Milliseconds(); got != 750 {
		t.Errorf("GetSendTimeout() = %v, want 750", got)
	}

	if got := cfg.GetLayoutTimeout().Milliseconds(); got != 4000 {
		t.Errorf("GetLayoutTimeout() = %v, want 4000", got)
	}

	if got := cfg.GetDiscoveryTimeout().Milliseconds(); got != 9000 {
		t.Errorf("GetDiscoveryTimeout() = %v, want 9000", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	// Set environment variables
	t.Setenv("PENDANTD_PENDANT_FAMILY", "cell-b")
	t.Setenv("PENDANTD_PENDANT_NAME", "pendant-07")
	t.Setenv("PENDANTD_MQTT_HOST", "mqtt.example.com")
	t.Setenv("PENDANTD_MQTT_USERNAME", "testuser")
	t.Setenv("PENDANTD_MQTT_PASSWORD", "testpass")
	t.Setenv("PENDANTD_TELEMETRY_TOKEN", "secret-token")

	applyEnvOverrides(cfg)

	if cfg.Pendant.Family != "cell-b" {
		t.Errorf("Pendant.Family = %q, want %q", cfg.Pendant.Family, "cell-b")
	}

	if cfg.Pendant.Name != "pendant-07" {
		t.Errorf("Pendant.Name = %q, want %q", cfg.Pendant.Name, "pendant-07")
	}

	if cfg.MQTT.Broker.Host != "mqtt.example.com" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "mqtt.example.com")
	}

	if cfg.MQTT.Auth.Username != "testuser" {
		t.Errorf("MQTT.Auth.Username = %q, want %q", cfg.MQTT.Auth.Username, "testuser")
	}

	if cfg.MQTT.Auth.Password != "testpass" {
		t.Errorf("MQTT.Auth.Password = %q, want %q", cfg.MQTT.Auth.Password, "testpass")
	}

	if cfg.Telemetry.Token != "secret-token" {
		t.Errorf("Telemetry.Token = %q, want %q", cfg.Telemetry.Token, "secret-token")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("defaultConfig MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}

	if cfg.Pendant.FeedbackTimeoutMs <= 0 {
		t.Error("defaultConfig should have a positive feedback timeout")
	}

	if cfg.Telemetry.Enabled {
		t.Error("defaultConfig should leave telemetry disabled")
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("defaultConfig Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}
