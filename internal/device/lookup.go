package device

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// announceTopicParts is the level count of pendant/announce/{family}/{name}.
const announceTopicParts = 4

// Entry is one device known to a Lookup.
type Entry struct {
	// Family is the device family.
	Family string

	// Name is the device name within the family.
	Name string

	// Model is the app/hardware model string from the announce.
	Model string

	// Online reports the last announced status.
	Online bool

	// LastSeen is when the last announce for this device arrived.
	LastSeen time.Time
}

// Lookup resolves device names to live devices by watching retained presence
// announces. One Lookup can serve any number of Find/NewGroup calls; keeping
// a single instance avoids re-subscribing per resolution.
type Lookup struct {
	client MQTTClient

	mu      sync.Mutex
	devices map[string]Entry
	waiters map[string][]chan Entry

	loggerMu sync.RWMutex
	logger   Logger

	closeOnce sync.Once
	closeErr  error
	done      chan struct{}
}

// NewLookup creates a Lookup and subscribes to the announce pattern.
// Retained announces seed the presence table as soon as the subscription is
// established.
//
// Parameters:
//   - client: connected MQTT client
//
// Returns:
//   - *Lookup: ready for Find / NewGroup calls
//   - error: if client is nil or the subscription fails
func NewLookup(client MQTTClient) (*Lookup, error) {
	if client == nil {
		return nil, fmt.Errorf("mqtt client is required")
	}

	l := &Lookup{
		client:  client,
		devices: make(map[string]Entry),
		waiters: make(map[string][]chan Entry),
		done:    make(chan struct{}),
	}

	if err := client.Subscribe(AnnounceSubscribeTopic(), defaultQoS, l.handleAnnounce); err != nil {
		return nil, fmt.Errorf("subscribe announces: %w", err)
	}

	return l, nil
}

// Find waits until the named device is announced online, up to timeout.
//
// Returns:
//   - *Entry: snapshot of the device's presence entry
//   - error: wrapping ErrNotFound when the device is not online in time,
//     ErrClosed after Close
func (l *Lookup) Find(family, name string, timeout time.Duration) (*Entry, error) {
	key := presenceKey(family, name)

	l.mu.Lock()
	if entry, ok := l.devices[key]; ok && entry.Online {
		l.mu.Unlock()
		return &entry, nil
	}

	// Not online yet. Register interest before releasing the lock so an
	// announce between the check and the wait cannot be missed.
	ch := make(chan Entry, 1)
	l.waiters[key] = append(l.waiters[key], ch)
	l.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case entry := <-ch:
		return &entry, nil
	case <-timer.C:
		l.removeWaiter(key, ch)
		return nil, fmt.Errorf("%s/%s not announced within %s: %w", family, name, timeout, ErrNotFound)
	case <-l.done:
		l.removeWaiter(key, ch)
		return nil, ErrClosed
	}
}

// NewGroup resolves every named device and constructs a group over them.
// The timeout bounds the whole resolution, not each member.
//
// Parameters:
//   - family: shared device family
//   - names: member device names, at least one
//   - timeout: total discovery budget
//
// Returns:
//   - *Group: subscribed to every member's feedback and ack topics
//   - error: the first member that cannot be resolved, or subscription
//     failure
func (l *Lookup) NewGroup(family string, names []string, timeout time.Duration) (*Group, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("at least one device name is required")
	}

	deadline := time.Now().Add(timeout)
	for _, name := range names {
		remaining := time.Until(deadline)
		if remaining < 0 {
			remaining = 0
		}
		if _, err := l.Find(family, name, remaining); err != nil {
			return nil, err
		}
	}

	g, err := NewGroup(l.client, family, names)
	if err != nil {
		return nil, err
	}
	g.SetLogger(l.getLogger())
	return g, nil
}

// Entries returns a snapshot of every known device, sorted by family then
// name.
func (l *Lookup) Entries() []Entry {
	l.mu.Lock()
	entries := make([]Entry, 0, len(l.devices))
	for _, entry := range l.devices {
		entries = append(entries, entry)
	}
	l.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Family != entries[j].Family {
			return entries[i].Family < entries[j].Family
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Close unsubscribes from announces and unblocks pending Find calls.
// Safe to call more than once.
func (l *Lookup) Close() error {
	l.closeOnce.Do(func() {
		close(l.done)
		l.closeErr = l.client.Unsubscribe(AnnounceSubscribeTopic())
	})
	return l.closeErr
}

// SetLogger sets the logger for lookup operations. Groups created afterwards
// inherit it.
func (l *Lookup) SetLogger(logger Logger) {
	l.loggerMu.Lock()
	l.logger = logger
	l.loggerMu.Unlock()
}

// handleAnnounce processes one presence message.
func (l *Lookup) handleAnnounce(topic string, payload []byte) {
	parts := strings.Split(topic, "/")
	if len(parts) != announceTopicParts {
		l.logDebug("ignoring announce on unexpected topic", "topic", topic)
		return
	}
	family := DecodeTopicLevel(parts[2])
	name := DecodeTopicLevel(parts[3])

	var msg AnnounceMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		l.logError("failed to parse announce message", err)
		return
	}

	entry := Entry{
		Family:   family,
		Name:     name,
		Model:    msg.Model,
		Online:   msg.Status == StatusOnline,
		LastSeen: time.Now().UTC(),
	}

	key := presenceKey(family, name)

	l.mu.Lock()
	l.devices[key] = entry
	var notify []chan Entry
	if entry.Online {
		notify = l.waiters[key]
		delete(l.waiters, key)
	}
	l.mu.Unlock()

	for _, ch := range notify {
		ch <- entry
	}

	l.logDebug("device announce",
		"family", family,
		"name", name,
		"status", msg.Status,
	)
}

// removeWaiter drops a waiter channel after a timed-out or cancelled Find.
func (l *Lookup) removeWaiter(key string, ch chan Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	waiters := l.waiters[key]
	for i, w := range waiters {
		if w == ch {
			l.waiters[key] = append(waiters[:i], waiters[i+1:]...)
			break
		}
	}
	if len(l.waiters[key]) == 0 {
		delete(l.waiters, key)
	}
}

func presenceKey(family, name string) string {
	return family + "/" + name
}

func (l *Lookup) getLogger() Logger {
	l.loggerMu.RLock()
	defer l.loggerMu.RUnlock()
	return l.logger
}

// logError logs an error message if logger is set.
func (l *Lookup) logError(msg string, err error) {
	if logger := l.getLogger(); logger != nil {
		logger.Error(msg, "error", err)
	}
}

// logDebug logs a debug message if logger is set.
func (l *Lookup) logDebug(msg string, keysAndValues ...any) {
	if logger := l.getLogger(); logger != nil {
		logger.Debug(msg, keysAndValues...)
	}
}
