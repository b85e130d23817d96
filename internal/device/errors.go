package device

import "errors"

// Sentinel errors for device operations.
// Wrap these with fmt.Errorf and %w to add context; check with errors.Is.
var (
	// ErrNotFound indicates a device was not announced within the
	// discovery timeout.
	ErrNotFound = errors.New("device: device not found")

	// ErrFeedbackTimeout indicates no feedback arrived within the wait.
	// Retryable: the next wait may succeed.
	ErrFeedbackTimeout = errors.New("device: feedback timeout")

	// ErrAckTimeout indicates a command was published but not all members
	// acknowledged it in time. Ambiguous by nature: the command may never
	// have reached the device, or the acknowledgment may have been lost.
	ErrAckTimeout = errors.New("device: ack timeout")

	// ErrCommandRejected indicates a member acknowledged a command with a
	// failed status.
	ErrCommandRejected = errors.New("device: command rejected")

	// ErrClosed indicates the group or lookup has been closed.
	ErrClosed = errors.New("device: closed")
)
