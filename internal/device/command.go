package device

import "time"

// Command accumulates the fields of one outgoing command. Setters return the
// command so field sets can be chained; getters mirror the Feedback
// accessors. A command carries only the fields explicitly set on it.
type Command struct {
	digital map[string]bool
	analog  map[string]AnalogValue
	strings map[string]string
	colors  map[string]Color
	payload []byte
}

// NewCommand creates an empty command.
func NewCommand() *Command {
	return &Command{}
}

// SetDigital sets a boolean command field.
func (c *Command) SetDigital(field string, on bool) *Command {
	if c.digital == nil {
		c.digital = make(map[string]bool)
	}
	c.digital[field] = on
	return c
}

// SetAnalog sets a numeric command field. NaN is legal and travels as null.
func (c *Command) SetAnalog(field string, value float64) *Command {
	if c.analog == nil {
		c.analog = make(map[string]AnalogValue)
	}
	c.analog[field] = AnalogValue(value)
	return c
}

// SetString sets a text command field.
func (c *Command) SetString(field, value string) *Command {
	if c.strings == nil {
		c.strings = make(map[string]string)
	}
	c.strings[field] = value
	return c
}

// SetColor sets a color command field.
func (c *Command) SetColor(field string, color Color) *Command {
	if c.colors == nil {
		c.colors = make(map[string]Color)
	}
	c.colors[field] = color
	return c
}

// SetPayload sets the opaque payload blob.
func (c *Command) SetPayload(payload []byte) *Command {
	c.payload = payload
	return c
}

// Digital returns a boolean field by name.
func (c *Command) Digital(field string) (bool, bool) {
	v, ok := c.digital[field]
	return v, ok
}

// Analog returns a numeric field by name.
func (c *Command) Analog(field string) (float64, bool) {
	v, ok := c.analog[field]
	return float64(v), ok
}

// String returns a text field by name.
func (c *Command) String(field string) (string, bool) {
	v, ok := c.strings[field]
	return v, ok
}

// Color returns a color field by name.
func (c *Command) Color(field string) (Color, bool) {
	v, ok := c.colors[field]
	return v, ok
}

// Payload returns the opaque payload blob, nil when unset.
func (c *Command) Payload() []byte {
	return c.payload
}

// message assembles the wire form of the command for one target device.
func (c *Command) message(id, device string, ackRequired bool) CommandMessage {
	return CommandMessage{
		ID:          id,
		Device:      device,
		Timestamp:   time.Now().UTC(),
		AckRequired: ackRequired,
		Digital:     c.digital,
		Analog:      c.analog,
		Strings:     c.strings,
		Colors:      c.colors,
		Payload:     c.payload,
	}
}
