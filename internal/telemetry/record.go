package telemetry

import (
	"math"
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// RecordAxis writes a single axis position sample.
//
// This is the primary method for sampling pendant control state.
// The write is non-blocking; data is batched and sent asynchronously.
// NaN values are dropped: line protocol cannot represent them.
//
// Parameters:
//   - family: Pendant family tag (e.g., "cell-a")
//   - name: Pendant name tag (e.g., "op1")
//   - axis: One-based axis number
//   - value: The axis position
//
// Example:
//
//	recorder.RecordAxis("cell-a", "op1", 1, 0.42)
func (r *Recorder) RecordAxis(family, name string, axis int, value float64) {
	if !r.IsConnected() || math.IsNaN(value) {
		return
	}

	point := write.NewPoint(
		"pendant_axis",
		map[string]string{
			"family":  family,
			"pendant": name,
			"axis":    strconv.Itoa(axis),
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	r.writeAPI.WritePoint(point)
}

// RecordButton writes a single button state sample.
//
// Parameters:
//   - family: Pendant family tag
//   - name: Pendant name tag
//   - button: One-based button number
//   - pressed: Current button state
func (r *Recorder) RecordButton(family, name string, button int, pressed bool) {
	if !r.IsConnected() {
		return
	}

	point := write.NewPoint(
		"pendant_button",
		map[string]string{
			"family":  family,
			"pendant": name,
			"button":  strconv.Itoa(button),
		},
		map[string]interface{}{
			"pressed": pressed,
		},
		time.Now(),
	)

	r.writeAPI.WritePoint(point)
}

// RecordTransition writes a button edge event.
//
// Used for counting and correlating operator actions. The transition
// tag is "to_on" for a press and "to_off" for a release.
//
// Parameters:
//   - family: Pendant family tag
//   - name: Pendant name tag
//   - button: One-based button number
//   - transition: The edge direction
func (r *Recorder) RecordTransition(family, name string, button int, transition string) {
	if !r.IsConnected() {
		return
	}

	point := write.NewPoint(
		"pendant_event",
		map[string]string{
			"family":     family,
			"pendant":    name,
			"button":     strconv.Itoa(button),
			"transition": transition,
		},
		map[string]interface{}{
			"count": 1,
		},
		time.Now(),
	)

	r.writeAPI.WritePoint(point)
}
