package pendant

import (
	"math"
	"strconv"

	"github.com/hollis-robotics/pendant-core/internal/device"
)

// Command field names shared with the pendant app. Per-control fields carry
// the one-based control number as a suffix.
const (
	fieldLedColor  = "led"
	fieldLogAppend = "log.append"
	fieldLogClear  = "log.clear"
	fieldUIReset   = "ui.reset"
)

func fieldAxisValue(axis int) string { return "v" + strconv.Itoa(axis) }
func fieldAxisSnap(axis int) string  { return "s" + strconv.Itoa(axis) }
func fieldAxisLabel(axis int) string { return "al" + strconv.Itoa(axis) }

func fieldButtonMode(button int) string  { return "bm" + strconv.Itoa(button) }
func fieldButtonLed(button int) string   { return "led" + strconv.Itoa(button) }
func fieldButtonLabel(button int) string { return "bl" + strconv.Itoa(button) }

// The UI command senders below share one contract.
//
// With ack false the return value only means the command was handed to the
// transport. With ack true the return value is true only when the pendant
// app confirmed the command within the panel's send timeout; false is
// ambiguous, covering both a command that never arrived and an ack that was
// lost on the way back. Every command carries absolute state rather than a
// delta, so resending after a false result is always safe.
//
// Senders never touch the cached input state: what the operator sees is
// only what the app reports back through Update.

// SetAxisValue moves an axis to value on the pendant's screen.
// Panics if axis is outside [1, NumAxes].
func (p *Panel) SetAxisValue(axis int, value float64, ack bool) bool {
	checkAxis(axis)
	return p.send(device.NewCommand().SetAnalog(fieldAxisValue(axis), value), ack)
}

// SetAxisSnap sets the position an axis springs back to when released.
// Passing NaN disables the spring. Panics if axis is outside [1, NumAxes].
func (p *Panel) SetAxisSnap(axis int, snapTo float64, ack bool) bool {
	checkAxis(axis)
	return p.send(device.NewCommand().SetAnalog(fieldAxisSnap(axis), snapTo), ack)
}

// DisableAxisSnap removes the spring-back position of an axis. It is exactly
// SetAxisSnap with NaN. Panics if axis is outside [1, NumAxes].
func (p *Panel) DisableAxisSnap(axis int, ack bool) bool {
	return p.SetAxisSnap(axis, math.NaN(), ack)
}

// SetAxisLabel sets the text shown next to an axis.
// Panics if axis is outside [1, NumAxes].
func (p *Panel) SetAxisLabel(axis int, label string, ack bool) bool {
	checkAxis(axis)
	return p.send(device.NewCommand().SetString(fieldAxisLabel(axis), label), ack)
}

// SetButtonMode switches a button between momentary and toggle behaviour.
// Panics if button is outside [1, NumButtons].
func (p *Panel) SetButtonMode(button int, mode ButtonMode, ack bool) bool {
	checkButton(button)
	return p.send(device.NewCommand().SetString(fieldButtonMode(button), mode.String()), ack)
}

// SetButtonLed switches the LED of a button on or off.
// Panics if button is outside [1, NumButtons].
func (p *Panel) SetButtonLed(button int, on bool, ack bool) bool {
	checkButton(button)
	return p.send(device.NewCommand().SetDigital(fieldButtonLed(button), on), ack)
}

// SetButtonLabel sets the text shown on a button.
// Panics if button is outside [1, NumButtons].
func (p *Panel) SetButtonLabel(button int, label string, ack bool) bool {
	checkButton(button)
	return p.send(device.NewCommand().SetString(fieldButtonLabel(button), label), ack)
}

// SetLedColor sets the pendant's global status LED color.
func (p *Panel) SetLedColor(r, g, b uint8, ack bool) bool {
	return p.send(device.NewCommand().SetColor(fieldLedColor, device.Color{R: r, G: g, B: b}), ack)
}

// AppendText appends a line to the pendant's text console.
func (p *Panel) AppendText(text string, ack bool) bool {
	return p.send(device.NewCommand().SetString(fieldLogAppend, text), ack)
}

// ClearText clears the pendant's text console.
func (p *Panel) ClearText(ack bool) bool {
	return p.send(device.NewCommand().SetDigital(fieldLogClear, true), ack)
}

// ResetUI restores the pendant's UI to its startup state: labels, modes,
// snap positions, LEDs, and console all revert to defaults.
func (p *Panel) ResetUI(ack bool) bool {
	return p.send(device.NewCommand().SetDigital(fieldUIReset, true), ack)
}

// send pushes one command through the group with the panel's send timeout.
func (p *Panel) send(cmd *device.Command, ack bool) bool {
	if err := p.group.SendCommand(cmd, ack, p.sendTimeout); err != nil {
		p.logDebug("command not confirmed", "error", err)
		return false
	}
	return true
}
