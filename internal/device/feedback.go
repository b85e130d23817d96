package device

import "time"

// Feedback is one decoded input-state report from a device.
// Accessors return (value, ok): ok is false when the field was absent from
// the report, which the protocol treats as "not reported this time".
type Feedback struct {
	msg FeedbackMessage
}

// NewFeedback wraps a decoded feedback message.
func NewFeedback(msg FeedbackMessage) *Feedback {
	return &Feedback{msg: msg}
}

// Device returns the reporting device name.
func (f *Feedback) Device() string {
	return f.msg.Device
}

// Seq returns the device's message sequence number.
func (f *Feedback) Seq() uint64 {
	return f.msg.Seq
}

// Time returns when the device sampled the state.
func (f *Feedback) Time() time.Time {
	return f.msg.Timestamp
}

// Digital returns a boolean field by name.
func (f *Feedback) Digital(field string) (bool, bool) {
	v, ok := f.msg.Digital[field]
	return v, ok
}

// Analog returns a numeric field by name. A field carried as null on the
// wire is reported as present with value NaN.
func (f *Feedback) Analog(field string) (float64, bool) {
	v, ok := f.msg.Analog[field]
	return float64(v), ok
}

// String returns a text field by name.
func (f *Feedback) String(field string) (string, bool) {
	v, ok := f.msg.Strings[field]
	return v, ok
}

// Position returns the device pose position, if the report carried one.
func (f *Feedback) Position() (Vector3, bool) {
	if f.msg.Position == nil {
		return Vector3{}, false
	}
	return *f.msg.Position, true
}

// Orientation returns the device pose orientation, if the report carried one.
func (f *Feedback) Orientation() (Quaternion, bool) {
	if f.msg.Orientation == nil {
		return Quaternion{}, false
	}
	return *f.msg.Orientation, true
}
