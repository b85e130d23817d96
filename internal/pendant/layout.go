package pendant

import (
	"os"
	"time"

	"github.com/hollis-robotics/pendant-core/internal/device"
)

// SendLayout reads a layout file and pushes it to the pendant app.
//
// The file is read before anything touches the transport: an unreadable
// path returns false immediately with nothing sent. Otherwise the bytes go
// out via SendLayoutBuffer.
func (p *Panel) SendLayout(path string, timeout time.Duration) bool {
	layout, err := os.ReadFile(path)
	if err != nil {
		p.logError("layout file unreadable", err)
		return false
	}
	return p.SendLayoutBuffer(layout, timeout)
}

// SendLayoutBuffer pushes raw layout bytes to the pendant app.
//
// Layout pushes are always acknowledged; there is no fire-and-forget
// variant. The caller's timeout bounds the ack wait; zero or negative falls
// back to the panel's send timeout. The content is opaque to this layer,
// the app validates it.
func (p *Panel) SendLayoutBuffer(layout []byte, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = p.sendTimeout
	}
	cmd := device.NewCommand().SetPayload(layout)
	if err := p.group.SendCommand(cmd, true, timeout); err != nil {
		p.logDebug("layout not confirmed", "error", err)
		return false
	}
	return true
}
