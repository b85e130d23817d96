package pendant

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/hollis-robotics/pendant-core/internal/device"
)

const (
	// NumButtons is the number of virtual buttons on a pendant.
	NumButtons = 8

	// NumAxes is the number of virtual axes on a pendant.
	NumAxes = 8
)

// Default timeouts applied when Options leaves them zero.
const (
	DefaultSendTimeout      = 500 * time.Millisecond
	DefaultDiscoveryTimeout = 5 * time.Second
)

// ButtonDiff describes how a button changed between the two most recent
// successful updates.
type ButtonDiff int

const (
	// ToOff means the button was pressed before and is released now.
	ToOff ButtonDiff = -1

	// Unchanged means the button state did not change.
	Unchanged ButtonDiff = 0

	// ToOn means the button was released before and is pressed now.
	ToOn ButtonDiff = 1
)

// String returns the transition name for logging and telemetry.
func (d ButtonDiff) String() string {
	switch d {
	case ToOff:
		return "to_off"
	case ToOn:
		return "to_on"
	default:
		return "unchanged"
	}
}

// ButtonMode selects how the pendant app treats presses on a button.
type ButtonMode int

const (
	// Momentary buttons report pressed only while held.
	Momentary ButtonMode = iota

	// Toggle buttons flip state on each press.
	Toggle
)

// String returns the wire name of the mode.
func (m ButtonMode) String() string {
	if m == Toggle {
		return "toggle"
	}
	return "momentary"
}

// Group is the connection handle a Panel drives. *device.Group satisfies it;
// tests substitute a mock.
type Group interface {
	Size() int
	NextFeedback(timeout time.Duration) (*device.Feedback, error)
	SendCommand(cmd *device.Command, requireAck bool, timeout time.Duration) error
}

// Lookup resolves device names to connected groups. *device.Lookup
// satisfies it.
type Lookup interface {
	NewGroup(family string, names []string, timeout time.Duration) (*device.Group, error)
}

// Logger interface for structured logging.
// Matches the slog interface from internal/infrastructure/logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Options configures a Panel.
type Options struct {
	// SendTimeout bounds the ack wait of the UI command senders.
	// Zero means DefaultSendTimeout.
	SendTimeout time.Duration

	// DiscoveryTimeout bounds device resolution in Connect.
	// Zero means DefaultDiscoveryTimeout.
	DiscoveryTimeout time.Duration

	// Logger receives structured log output. Optional.
	Logger Logger
}

// snapshot is one generation of pendant input state.
type snapshot struct {
	buttons [NumButtons]bool
	axes    [NumAxes]float64
}

// Panel is the I/O adapter for a single pendant device.
//
// It caches the two most recent input snapshots (current and previous) so
// callers can read values and detect button edges, and it sends typed UI
// commands to the app. All button and axis indices are one-based; an index
// outside [1, NumButtons] or [1, NumAxes] is a programming error and panics.
//
// A Panel is not safe for concurrent use. Drive it from one goroutine; the
// transport underneath has its own guarantees.
type Panel struct {
	group       Group
	sendTimeout time.Duration

	prev snapshot
	cur  snapshot
	last *device.Feedback

	loggerMu sync.RWMutex
	logger   Logger
}

// New creates a Panel over an already connected group.
//
// The group must contain exactly one device: a panel models one operator's
// pendant, and feedback from multiple devices would interleave in the cache.
// Both snapshots start zeroed (buttons released, axes 0.0) until the first
// successful Update.
//
// Parameters:
//   - group: connection handle with Size() == 1
//   - opts: timeouts and optional logger
//
// Returns:
//   - *Panel: ready for Update and command sends
//   - error: if group is nil or wrapping ErrGroupSize for other sizes
func New(group Group, opts Options) (*Panel, error) {
	if group == nil {
		return nil, fmt.Errorf("group is required")
	}
	if size := group.Size(); size != 1 {
		return nil, fmt.Errorf("group has %d devices: %w", size, ErrGroupSize)
	}

	sendTimeout := opts.SendTimeout
	if sendTimeout == 0 {
		sendTimeout = DefaultSendTimeout
	}

	return &Panel{
		group:       group,
		sendTimeout: sendTimeout,
		logger:      opts.Logger,
	}, nil
}

// Connect resolves one pendant by family and name and builds its Panel.
//
// Discovery failure yields an error and no Panel. Reusing one Lookup across
// Connect calls avoids re-subscribing to the announce topics per panel.
//
// Parameters:
//   - lookup: discovery handle
//   - family, name: device address
//   - opts: timeouts and optional logger
//
// Returns:
//   - *Panel: connected panel
//   - error: discovery or construction failure
func Connect(lookup Lookup, family, name string, opts Options) (*Panel, error) {
	if lookup == nil {
		return nil, fmt.Errorf("lookup is required")
	}

	discoveryTimeout := opts.DiscoveryTimeout
	if discoveryTimeout == 0 {
		discoveryTimeout = DefaultDiscoveryTimeout
	}

	group, err := lookup.NewGroup(family, []string{name}, discoveryTimeout)
	if err != nil {
		return nil, fmt.Errorf("discover %s/%s: %w", family, name, err)
	}

	panel, err := New(group, opts)
	if err != nil {
		_ = group.Close()
		return nil, err
	}
	return panel, nil
}

// SetLogger sets the logger for panel operations.
func (p *Panel) SetLogger(logger Logger) {
	p.loggerMu.Lock()
	p.logger = logger
	p.loggerMu.Unlock()
}

// Update waits up to timeout for fresh feedback and folds it into the cache.
//
// On success the current snapshot becomes the previous one, then button
// fields "b1".."b8" and axis fields "a1".."a8" from the report overwrite the
// current snapshot. Fields absent from the report (or carried as null) leave
// their cached value unchanged, so sparse reports are fine. Exactly one
// generation of history is kept: ButtonDiff compares this update against the
// one before it.
//
// On failure (timeout, closed group) the cache is untouched and Update
// returns false; the caller simply tries again. Stale data is never reused
// as if it were new.
func (p *Panel) Update(timeout time.Duration) bool {
	fb, err := p.group.NextFeedback(timeout)
	if err != nil {
		p.logDebug("no feedback", "error", err)
		return false
	}

	p.prev = p.cur
	for i := 1; i <= NumButtons; i++ {
		if v, ok := fb.Digital(buttonField(i)); ok {
			p.cur.buttons[i-1] = v
		}
	}
	for i := 1; i <= NumAxes; i++ {
		if v, ok := fb.Analog(axisField(i)); ok && !math.IsNaN(v) {
			p.cur.axes[i-1] = v
		}
	}
	p.last = fb

	return true
}

// Axis returns the cached value of an axis from the latest snapshot.
// Panics if axis is outside [1, NumAxes].
func (p *Panel) Axis(axis int) float64 {
	checkAxis(axis)
	return p.cur.axes[axis-1]
}

// Button returns the cached pressed state of a button from the latest
// snapshot. Panics if button is outside [1, NumButtons].
func (p *Panel) Button(button int) bool {
	checkButton(button)
	return p.cur.buttons[button-1]
}

// ButtonDiff returns the button's transition between the previous and the
// latest snapshot. Panics if button is outside [1, NumButtons].
func (p *Panel) ButtonDiff(button int) ButtonDiff {
	checkButton(button)
	was := p.prev.buttons[button-1]
	now := p.cur.buttons[button-1]
	switch {
	case now && !was:
		return ToOn
	case !now && was:
		return ToOff
	default:
		return Unchanged
	}
}

// LastFeedback returns the raw report behind the latest snapshot, or nil
// before the first successful Update.
func (p *Panel) LastFeedback() *device.Feedback {
	return p.last
}

// Position returns the pendant's pose position from the latest report.
func (p *Panel) Position() (device.Vector3, bool) {
	if p.last == nil {
		return device.Vector3{}, false
	}
	return p.last.Position()
}

// Orientation returns the pendant's pose orientation from the latest report.
func (p *Panel) Orientation() (device.Quaternion, bool) {
	if p.last == nil {
		return device.Quaternion{}, false
	}
	return p.last.Orientation()
}

// buttonField is the feedback field name of a button ("b1".."b8").
func buttonField(button int) string {
	return "b" + strconv.Itoa(button)
}

// axisField is the feedback field name of an axis ("a1".."a8").
func axisField(axis int) string {
	return "a" + strconv.Itoa(axis)
}

func checkButton(button int) {
	if button < 1 || button > NumButtons {
		panic(fmt.Sprintf("pendant: button index %d out of range [1, %d]", button, NumButtons))
	}
}

func checkAxis(axis int) {
	if axis < 1 || axis > NumAxes {
		panic(fmt.Sprintf("pendant: axis index %d out of range [1, %d]", axis, NumAxes))
	}
}

// logError logs an error message if logger is set.
func (p *Panel) logError(msg string, err error) {
	p.loggerMu.RLock()
	logger := p.logger
	p.loggerMu.RUnlock()

	if logger != nil {
		logger.Error(msg, "error", err)
	}
}

// logDebug logs a debug message if logger is set.
func (p *Panel) logDebug(msg string, keysAndValues ...any) {
	p.loggerMu.RLock()
	logger := p.logger
	p.loggerMu.RUnlock()

	if logger != nil {
		logger.Debug(msg, keysAndValues...)
	}
}
