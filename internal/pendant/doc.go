// Package pendant implements the I/O adapter for a single mobile pendant:
// the touchscreen operator panel used to jog, supervise, and annotate
// robots.
//
// # Architecture
//
// A Panel sits between application code and one pendant device:
//
//	┌─────────────┐        ┌─────────────┐   MQTT   ┌─────────────┐
//	│ Application │◄──────►│    Panel    │◄────────►│ Pendant App │
//	│    code     │  reads │ (this pkg)  │  device  │   (screen)  │
//	└─────────────┘  sends └─────────────┘   pkg    └─────────────┘
//
// Inputs flow right to left: the app reports 8 buttons and 8 axes, Update
// folds each report into a two-snapshot cache, and Axis/Button/ButtonDiff
// read from the cache without touching the network. Outputs flow left to
// right: typed senders (axis snap positions, button modes, labels, LEDs,
// text console, layout pushes) publish sparse commands, optionally waiting
// for the app's acknowledgment.
//
// # Usage
//
//	panel, err := pendant.Connect(lookup, "pendant", "cell-a-op1", pendant.Options{})
//	if err != nil {
//	    return err
//	}
//
//	panel.SetAxisLabel(1, "Lift", false)
//	for {
//	    if !panel.Update(500 * time.Millisecond) {
//	        continue
//	    }
//	    if panel.ButtonDiff(3) == pendant.ToOn {
//	        startJog(panel.Axis(1))
//	    }
//	}
//
// # Indexing
//
// Buttons and axes are addressed 1..8, matching the labels printed on the
// pendant UI. Passing 0 or 9 to any accessor or sender is a programming
// error and panics; it is never reported as a soft failure.
//
// # Acked sends
//
// Senders with ack true return false when no acknowledgment arrived in
// time. That result is deliberately ambiguous: the command or its ack may
// have been lost, and the transport cannot tell which. Commands carry
// absolute state, so the correct reaction is simply to send again.
//
// # Thread Safety
//
// A Panel is single-goroutine. Nothing here locks the snapshot cache;
// concurrent use requires external coordination.
package pendant
