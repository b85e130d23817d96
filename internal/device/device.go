package device

// MQTTClient defines the MQTT operations the device layer needs.
// The infrastructure mqtt client satisfies it through a thin adapter,
// and tests substitute a mock implementation.
type MQTTClient interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler func(topic string, payload []byte)) error
	Unsubscribe(topic string) error
}

// Logger interface for structured logging.
// Matches the slog interface from internal/infrastructure/logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// defaultQoS is the MQTT QoS level for all device traffic (at-least-once).
// Duplicate deliveries are safe: feedback carries absolute state and
// commands carry correlation ids.
const defaultQoS byte = 1
