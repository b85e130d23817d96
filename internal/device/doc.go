// Package device implements discovery, feedback, and command transport for
// pendant devices over MQTT.
//
// This package knows nothing about what the fields mean; it moves sparse
// field maps between pendant-core and the pendant app and correlates
// commands with acknowledgments. The pendant package layers panel semantics
// on top of it.
//
// # Architecture
//
//	┌─────────────────┐          ┌─────────────────┐
//	│  pendant-core   │   MQTT   │   Pendant App   │
//	│   (this pkg)    │◄────────►│  (phone/tablet) │
//	└─────────────────┘          └─────────────────┘
//
// Four topics per device, all under the pendant/ prefix:
//
//   - announce: retained presence, flipped to offline by the broker LWT
//   - feedback: input-state reports from the app
//   - command: UI commands from pendant-core
//   - ack: application-level command acknowledgments
//
// # Discovery
//
// A Lookup watches the retained announce topics and resolves family/name
// pairs to live devices:
//
//	lookup, err := device.NewLookup(client)
//	if err != nil {
//	    return err
//	}
//	group, err := lookup.NewGroup("pendant", []string{"cell-a-op1"}, 5*time.Second)
//	if err != nil {
//	    return err
//	}
//	defer group.Close()
//
// # Feedback and Commands
//
// A Group delivers the latest unread feedback and publishes commands:
//
//	fb, err := group.NextFeedback(500 * time.Millisecond)
//	if err == nil {
//	    level, ok := fb.Analog("a1")
//	    ...
//	}
//
//	cmd := device.NewCommand().SetString("al1", "Lift")
//	err = group.SendCommand(cmd, true, 500*time.Millisecond)
//
// Feedback is latest-wins: reports that arrive while nobody is waiting
// overwrite each other, so a consumer always sees current state, never a
// backlog.
//
// # Thread Safety
//
// Lookup and Group are safe for concurrent use from multiple goroutines.
package device
