// Pendant Core - mobile operator panel service
//
// This is the main entry point for pendantd, the daemon that connects one
// mobile pendant (touchscreen operator panel) to a robot cell's MQTT bus:
//   - Discovers the pendant through retained announce messages
//   - Polls input feedback (buttons, axes, pose) and logs button transitions
//   - Pushes the configured UI layout at startup
//   - Optionally records state history to InfluxDB
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/hollis-robotics/pendant-core/internal/device"
	"github.com/hollis-robotics/pendant-core/internal/infrastructure/config"
	"github.com/hollis-robotics/pendant-core/internal/infrastructure/logging"
	"github.com/hollis-robotics/pendant-core/internal/infrastructure/mqtt"
	"github.com/hollis-robotics/pendant-core/internal/pendant"
	"github.com/hollis-robotics/pendant-core/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/pendantd.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting pendantd",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// Set up MQTT logging callbacks
	mqttClient.SetLogger(log)
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Connect to InfluxDB (optional)
	var recorder *telemetry.Recorder
	if cfg.Telemetry.Enabled {
		recorder, err = telemetry.Connect(cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("connecting telemetry: %w", err)
		}
		defer func() {
			log.Info("closing telemetry connection")
			if closeErr := recorder.Close(); closeErr != nil {
				log.Error("error closing telemetry", "error", closeErr)
			}
		}()
		log.Info("telemetry connected",
			"url", cfg.Telemetry.URL,
			"org", cfg.Telemetry.Org,
			"bucket", cfg.Telemetry.Bucket,
		)

		// Set up telemetry error callback
		recorder.SetOnError(func(err error) {
			log.Error("telemetry write error", "error", err)
		})
	} else {
		log.Info("telemetry disabled")
	}

	// Adapt the infrastructure client to the device bus interface
	bus := &mqttDeviceAdapter{client: mqttClient}

	// Start discovery
	lookup, err := device.NewLookup(bus)
	if err != nil {
		return fmt.Errorf("starting discovery: %w", err)
	}
	lookup.SetLogger(log)
	defer func() {
		log.Info("stopping discovery")
		if closeErr := lookup.Close(); closeErr != nil {
			log.Error("error closing discovery", "error", closeErr)
		}
	}()

	// Resolve the pendant and build its panel
	panel, group, err := startPanel(cfg, lookup, log)
	if err != nil {
		return fmt.Errorf("starting panel: %w", err)
	}
	defer func() {
		log.Info("closing pendant connection")
		if closeErr := group.Close(); closeErr != nil {
			log.Error("error closing pendant connection", "error", closeErr)
		}
	}()

	// Verify all connections are healthy
	if err := healthCheck(ctx, mqttClient, recorder); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	// Push the configured layout (failure keeps the app's current layout)
	if cfg.Pendant.LayoutFile != "" {
		if panel.SendLayout(cfg.Pendant.LayoutFile, cfg.GetLayoutTimeout()) {
			log.Info("layout pushed", "path", cfg.Pendant.LayoutFile)
		} else {
			log.Warn("layout push failed, pendant keeps its current layout",
				"path", cfg.Pendant.LayoutFile,
			)
		}
	}

	log.Info("initialisation complete, polling for pendant input")

	// Run the poll loop until the shutdown signal cancels the context
	g, pollCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return pollPanel(pollCtx, cfg, panel, recorder, log)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("poll loop: %w", err)
	}

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. Pendant connection group
	// 2. Discovery
	// 3. Telemetry (if enabled)
	// 4. MQTT

	log.Info("pendantd stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses PENDANTD_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("PENDANTD_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - mqttClient: MQTT client to check
//   - recorder: Telemetry recorder to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, mqttClient *mqtt.Client, recorder *telemetry.Recorder) error {
	// Check MQTT
	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	// Check telemetry (if enabled)
	if recorder != nil {
		if err := recorder.HealthCheck(ctx); err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
	}

	return nil
}

// startPanel resolves the configured pendant and builds its panel.
//
// The returned group is the transport handle behind the panel; the caller
// owns its lifecycle and must close it on shutdown.
//
// Parameters:
//   - cfg: Application configuration
//   - lookup: Discovery handle
//   - log: Logger instance
//
// Returns:
//   - *pendant.Panel: Panel ready for polling and command sends
//   - *device.Group: The panel's connection group (close on shutdown)
//   - error: If discovery or construction fails
func startPanel(cfg *config.Config, lookup *device.Lookup, log *logging.Logger) (*pendant.Panel, *device.Group, error) {
	family := cfg.Pendant.Family
	name := cfg.Pendant.Name

	group, err := lookup.NewGroup(family, []string{name}, cfg.GetDiscoveryTimeout())
	if err != nil {
		return nil, nil, fmt.Errorf("discovering pendant %s/%s: %w", family, name, err)
	}
	log.Info("pendant discovered", "family", family, "name", name)

	panel, err := pendant.New(group, pendant.Options{
		SendTimeout: cfg.GetSendTimeout(),
		Logger:      log,
	})
	if err != nil {
		// Clean up the group connection on error
		_ = group.Close()
		return nil, nil, fmt.Errorf("creating panel: %w", err)
	}

	return panel, group, nil
}

// pollPanel runs the input loop until ctx is cancelled.
//
// Each successful update logs button transitions at debug level and feeds
// the optional recorder. Missed polls (no feedback within the timeout) are
// normal while the operator is idle.
func pollPanel(ctx context.Context, cfg *config.Config, panel *pendant.Panel, recorder *telemetry.Recorder, log *logging.Logger) error {
	feedbackTimeout := cfg.GetFeedbackTimeout()
	family := cfg.Pendant.Family
	name := cfg.Pendant.Name

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !panel.Update(feedbackTimeout) {
			continue
		}

		for b := 1; b <= pendant.NumButtons; b++ {
			diff := panel.ButtonDiff(b)
			if diff == pendant.Unchanged {
				continue
			}
			log.Debug("button transition",
				"button", b,
				"transition", diff.String(),
			)
			if recorder != nil {
				recorder.RecordTransition(family, name, b, diff.String())
				recorder.RecordButton(family, name, b, panel.Button(b))
			}
		}

		if recorder != nil {
			for a := 1; a <= pendant.NumAxes; a++ {
				recorder.RecordAxis(family, name, a, panel.Axis(a))
			}
		}
	}
}

// mqttDeviceAdapter adapts the infrastructure MQTT client to the device
// package's MQTTClient interface. The primary difference is the Subscribe
// handler signature:
// - Infrastructure mqtt: func(topic string, payload []byte) error
// - Device bus expects:  func(topic string, payload []byte)
type mqttDeviceAdapter struct {
	client *mqtt.Client
}

// Publish implements device.MQTTClient.
func (a *mqttDeviceAdapter) Publish(topic string, payload []byte, qos byte, retained bool) error {
	return a.client.Publish(topic, payload, qos, retained)
}

// Subscribe implements device.MQTTClient.
func (a *mqttDeviceAdapter) Subscribe(topic string, qos byte, handler func(topic string, payload []byte)) error {
	// Wrap the void handler to return nil error (device handlers don't return errors)
	return a.client.Subscribe(topic, qos, func(t string, p []byte) error {
		handler(t, p)
		return nil
	})
}

// Unsubscribe implements device.MQTTClient.
func (a *mqttDeviceAdapter) Unsubscribe(topic string) error {
	return a.client.Unsubscribe(topic)
}
