package pendant

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hollis-robotics/pendant-core/internal/device"
)

func TestSendLayout(t *testing.T) {
	p, group := createTestPanel(t, Options{})

	layout := []byte(`{"grid":[4,2],"widgets":["jog","estop"]}`)
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := os.WriteFile(path, layout, 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	if !p.SendLayout(path, 2*time.Second) {
		t.Fatal("SendLayout() = false, want true")
	}

	sent := group.lastSent(t)
	if !sent.ack {
		t.Error("requireAck = false, layout pushes must be acknowledged")
	}
	if sent.timeout != 2*time.Second {
		t.Errorf("timeout = %v, want 2s", sent.timeout)
	}
	if !bytes.Equal(sent.cmd.Payload(), layout) {
		t.Errorf("payload = %q, want %q", sent.cmd.Payload(), layout)
	}
}

func TestSendLayoutUnreadableFile(t *testing.T) {
	p, group := createTestPanel(t, Options{})

	path := filepath.Join(t.TempDir(), "missing.json")
	if p.SendLayout(path, time.Second) {
		t.Fatal("SendLayout() = true, want false for unreadable file")
	}
	if n := len(group.sentCommands()); n != 0 {
		t.Errorf("sent %d commands, want 0 when the file cannot be read", n)
	}
}

func TestSendLayoutBuffer(t *testing.T) {
	p, group := createTestPanel(t, Options{})

	layout := []byte(`{"grid":[2,2]}`)
	if !p.SendLayoutBuffer(layout, time.Second) {
		t.Fatal("SendLayoutBuffer() = false, want true")
	}

	sent := group.lastSent(t)
	if !sent.ack {
		t.Error("requireAck = false, layout pushes must be acknowledged")
	}
	if !bytes.Equal(sent.cmd.Payload(), layout) {
		t.Errorf("payload = %q, want %q", sent.cmd.Payload(), layout)
	}
}

func TestSendLayoutBufferTimeoutFallback(t *testing.T) {
	p, group := createTestPanel(t, Options{SendTimeout: 250 * time.Millisecond})

	if !p.SendLayoutBuffer([]byte("{}"), 0) {
		t.Fatal("SendLayoutBuffer() = false, want true")
	}
	if got := group.lastSent(t).timeout; got != 250*time.Millisecond {
		t.Errorf("timeout = %v, want the configured send timeout", got)
	}
}

func TestSendLayoutBufferAckTimeout(t *testing.T) {
	p, group := createTestPanel(t, Options{})
	group.setSendErr(device.ErrAckTimeout)

	if p.SendLayoutBuffer([]byte("{}"), time.Second) {
		t.Error("SendLayoutBuffer() = true, want false when no ack arrives")
	}
}
