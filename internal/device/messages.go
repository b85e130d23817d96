package device

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// MQTT message types for communication between pendant-core and the pendant
// app. Payloads are sparse: an absent map or field means "not reported" on
// feedback and "not commanded" on commands.

// AnalogValue is a float64 whose JSON form is null when NaN.
// encoding/json rejects NaN outright, and the protocol uses NaN as its
// "unset / disable" sentinel, so the null mapping must round-trip.
type AnalogValue float64

// MarshalJSON encodes NaN as null and everything else as a plain number.
func (v AnalogValue) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(v)) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(v))
}

// UnmarshalJSON decodes null as NaN and numbers as themselves.
func (v *AnalogValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = AnalogValue(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse analog value: %w", err)
	}
	*v = AnalogValue(f)
	return nil
}

// Vector3 is a position in metres, app-local frame.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quaternion is an orientation (w, x, y, z).
type Quaternion struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Color is an RGB LED color.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// FeedbackMessage is published by the pendant app with its current input
// state. Topic: pendant/feedback/{family}/{name}
type FeedbackMessage struct {
	// Device is the announcing device name.
	Device string `json:"device"`

	// Seq increases by one per message from a device. Gaps mean loss.
	Seq uint64 `json:"seq"`

	// Timestamp is when the state was sampled (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`

	// Digital contains boolean input fields (e.g., "b1".."b8").
	Digital map[string]bool `json:"digital,omitempty"`

	// Analog contains numeric input fields (e.g., "a1".."a8").
	Analog map[string]AnalogValue `json:"analog,omitempty"`

	// Strings contains free-text fields (e.g., operator annotations).
	Strings map[string]string `json:"strings,omitempty"`

	// Position is the device pose position, when the app tracks it.
	Position *Vector3 `json:"position,omitempty"`

	// Orientation is the device pose orientation, when the app tracks it.
	Orientation *Quaternion `json:"orientation,omitempty"`
}

// CommandMessage is published by pendant-core to drive the app's UI.
// Topic: pendant/command/{family}/{name}
type CommandMessage struct {
	// ID uniquely identifies this command for correlation with acks.
	ID string `json:"id"`

	// Device is the target device name.
	Device string `json:"device"`

	// Timestamp is when the command was issued (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`

	// AckRequired asks the app to publish an AckMessage for this command.
	AckRequired bool `json:"ack_required,omitempty"`

	// Digital contains boolean command fields (e.g., "led3", "ui.reset").
	Digital map[string]bool `json:"digital,omitempty"`

	// Analog contains numeric command fields (e.g., "v2", "s5").
	Analog map[string]AnalogValue `json:"analog,omitempty"`

	// Strings contains text command fields (e.g., "al1", "log.append").
	Strings map[string]string `json:"strings,omitempty"`

	// Colors contains color command fields (e.g., "led").
	Colors map[string]Color `json:"colors,omitempty"`

	// Payload is an opaque blob (base64 on the wire), used for layouts.
	Payload []byte `json:"payload,omitempty"`
}

// AckStatus represents the acknowledgment status of a command.
type AckStatus string

const (
	// AckReceived indicates the app received and applied the command.
	AckReceived AckStatus = "received"

	// AckFailed indicates the app could not apply the command.
	AckFailed AckStatus = "failed"
)

// AckMessage is published by the pendant app to acknowledge a command.
// Topic: pendant/ack/{family}/{name}
type AckMessage struct {
	// ID is the ID from the original command.
	ID string `json:"id"`

	// Device is the acknowledging device name.
	Device string `json:"device"`

	// Timestamp is when the acknowledgment was sent (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`

	// Status indicates the acknowledgment status.
	Status AckStatus `json:"status"`
}

// Presence states carried by AnnounceMessage.
const (
	// StatusOnline indicates the app is connected and announcing.
	StatusOnline = "online"

	// StatusOffline indicates the app disconnected. Published by the app
	// on clean shutdown and by the broker as the app's LWT.
	StatusOffline = "offline"
)

// AnnounceMessage is the retained presence message for a device.
// Topic: pendant/announce/{family}/{name}
// QoS: 1, Retained: Yes
type AnnounceMessage struct {
	// Family is the device family (e.g., "pendant").
	Family string `json:"family"`

	// Name is the device name, unique within the family.
	Name string `json:"name"`

	// Model is the app/hardware model string.
	Model string `json:"model,omitempty"`

	// Status is "online" or "offline".
	Status string `json:"status"`

	// Timestamp is when the status last changed (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`
}

// JSON marshalling helpers

// MarshalJSON marshals a CommandMessage to JSON.
func (m *CommandMessage) MarshalJSON() ([]byte, error) {
	type Alias CommandMessage
	return json.Marshal(&struct {
		*Alias
		Timestamp string `json:"timestamp"`
	}{
		Alias:     (*Alias)(m),
		Timestamp: m.Timestamp.UTC().Format(time.RFC3339),
	})
}

// UnmarshalJSON unmarshals a CommandMessage from JSON.
func (m *CommandMessage) UnmarshalJSON(data []byte) error {
	type Alias CommandMessage
	aux := &struct {
		*Alias
		Timestamp string `json:"timestamp"`
	}{
		Alias: (*Alias)(m),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return fmt.Errorf("unmarshal command message: %w", err)
	}
	if aux.Timestamp != "" {
		t, err := time.Parse(time.RFC3339, aux.Timestamp)
		if err != nil {
			return fmt.Errorf("parse timestamp: %w", err)
		}
		m.Timestamp = t
	}
	return nil
}

// NewAckMessage creates an acknowledgment for a command.
func NewAckMessage(cmd CommandMessage, status AckStatus) AckMessage {
	return AckMessage{
		ID:        cmd.ID,
		Device:    cmd.Device,
		Timestamp: time.Now().UTC(),
		Status:    status,
	}
}

// NewAnnounceMessage creates a presence message.
func NewAnnounceMessage(family, name, model, status string) AnnounceMessage {
	return AnnounceMessage{
		Family:    family,
		Name:      name,
		Model:     model,
		Status:    status,
		Timestamp: time.Now().UTC(),
	}
}
