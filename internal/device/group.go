package device

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Group is a connection handle over one or more devices of the same family.
// It serves two flows:
//
//   - Feedback: every member's input-state reports land in a single-slot
//     latest-wins mailbox that NextFeedback drains. The mailbox keeps the
//     MQTT receive path from ever blocking on a slow consumer; a report that
//     is overwritten before it is read is simply stale state.
//   - Commands: SendCommand publishes to every member, optionally waiting
//     for an application-level ack from each one.
//
// A Group does not own the MQTT connection; closing it only removes its
// subscriptions.
type Group struct {
	client  MQTTClient
	family  string
	members []string

	feedbackMu   sync.Mutex
	feedbackSlot *FeedbackMessage
	feedbackCh   chan struct{}

	ackMu      sync.Mutex
	ackWaiters map[string]*ackWaiter

	loggerMu sync.RWMutex
	logger   Logger

	closeOnce sync.Once
	closeErr  error
	done      chan struct{}
}

// ackWaiter tracks one acked command until every member has answered.
type ackWaiter struct {
	pending map[string]struct{}
	result  chan error
}

// NewGroup subscribes to the feedback and ack topics of every named member
// and returns the handle. It performs no discovery; use Lookup.NewGroup to
// resolve presence first.
//
// Parameters:
//   - client: connected MQTT client
//   - family: shared device family
//   - names: member device names, at least one
//
// Returns:
//   - *Group: subscribed and ready
//   - error: if arguments are missing or a subscription fails (in which
//     case any subscriptions already made are removed)
func NewGroup(client MQTTClient, family string, names []string) (*Group, error) {
	if client == nil {
		return nil, fmt.Errorf("mqtt client is required")
	}
	if family == "" {
		return nil, fmt.Errorf("device family is required")
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("at least one device name is required")
	}

	g := &Group{
		client:     client,
		family:     family,
		members:    append([]string(nil), names...),
		feedbackCh: make(chan struct{}, 1),
		ackWaiters: make(map[string]*ackWaiter),
		done:       make(chan struct{}),
	}

	var subscribed []string
	for _, name := range names {
		feedbackTopic := FeedbackTopic(family, name)
		if err := client.Subscribe(feedbackTopic, defaultQoS, g.handleFeedback); err != nil {
			g.rollbackSubscriptions(subscribed)
			return nil, fmt.Errorf("subscribe %s: %w", feedbackTopic, err)
		}
		subscribed = append(subscribed, feedbackTopic)

		ackTopic := AckTopic(family, name)
		if err := client.Subscribe(ackTopic, defaultQoS, g.handleAck); err != nil {
			g.rollbackSubscriptions(subscribed)
			return nil, fmt.Errorf("subscribe %s: %w", ackTopic, err)
		}
		subscribed = append(subscribed, ackTopic)
	}

	return g, nil
}

// Size returns the number of member devices.
func (g *Group) Size() int {
	return len(g.members)
}

// Family returns the shared device family.
func (g *Group) Family() string {
	return g.family
}

// Members returns a copy of the member device names.
func (g *Group) Members() []string {
	return append([]string(nil), g.members...)
}

// NextFeedback waits up to timeout for the next feedback from any member.
// Only the most recent unread report is returned; earlier ones overwritten
// while nobody was waiting are gone.
//
// Returns:
//   - *Feedback: the report
//   - error: wrapping ErrFeedbackTimeout when nothing arrived in time,
//     ErrClosed after Close
func (g *Group) NextFeedback(timeout time.Duration) (*Feedback, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		g.feedbackMu.Lock()
		if g.feedbackSlot != nil {
			msg := g.feedbackSlot
			g.feedbackSlot = nil
			g.feedbackMu.Unlock()
			return &Feedback{msg: *msg}, nil
		}
		g.feedbackMu.Unlock()

		select {
		case <-g.feedbackCh:
			// Re-check the slot.
		case <-timer.C:
			return nil, fmt.Errorf("no feedback within %s: %w", timeout, ErrFeedbackTimeout)
		case <-g.done:
			return nil, ErrClosed
		}
	}
}

// SendCommand publishes cmd to every member.
//
// With requireAck false the command is fire-and-forget: a nil return means
// it was handed to the transport, nothing more. With requireAck true the
// call blocks until every member acknowledged the command or timeout
// expires. A timeout is ambiguous and reported as such: the command may
// never have reached a device, or an ack may have been lost in transit.
//
// Returns:
//   - error: nil on success; publish failure, ErrAckTimeout wrap,
//     ErrCommandRejected wrap when a member answers status "failed", or
//     ErrClosed
func (g *Group) SendCommand(cmd *Command, requireAck bool, timeout time.Duration) error {
	if cmd == nil {
		return fmt.Errorf("command is required")
	}
	select {
	case <-g.done:
		return ErrClosed
	default:
	}

	if !requireAck {
		return g.publishToMembers(cmd, uuid.NewString(), false)
	}

	id := uuid.NewString()

	// Register the waiter before publishing so an ack that races the
	// publish cannot be lost.
	waiter := &ackWaiter{
		pending: make(map[string]struct{}, len(g.members)),
		result:  make(chan error, 1),
	}
	for _, name := range g.members {
		waiter.pending[name] = struct{}{}
	}
	g.ackMu.Lock()
	g.ackWaiters[id] = waiter
	g.ackMu.Unlock()
	defer g.removeAckWaiter(id)

	if err := g.publishToMembers(cmd, id, true); err != nil {
		return err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-waiter.result:
		return err
	case <-timer.C:
		return fmt.Errorf("command %s not acknowledged within %s: %w", id, timeout, ErrAckTimeout)
	case <-g.done:
		return ErrClosed
	}
}

// Close removes the group's subscriptions and unblocks pending waits.
// Safe to call more than once.
func (g *Group) Close() error {
	g.closeOnce.Do(func() {
		close(g.done)
		for _, name := range g.members {
			if err := g.client.Unsubscribe(FeedbackTopic(g.family, name)); err != nil && g.closeErr == nil {
				g.closeErr = err
			}
			if err := g.client.Unsubscribe(AckTopic(g.family, name)); err != nil && g.closeErr == nil {
				g.closeErr = err
			}
		}
	})
	return g.closeErr
}

// SetLogger sets the logger for group operations.
func (g *Group) SetLogger(logger Logger) {
	g.loggerMu.Lock()
	g.logger = logger
	g.loggerMu.Unlock()
}

// publishToMembers marshals and publishes one command message per member.
func (g *Group) publishToMembers(cmd *Command, id string, ackRequired bool) error {
	for _, name := range g.members {
		msg := cmd.message(id, name, ackRequired)
		payload, err := json.Marshal(&msg)
		if err != nil {
			return fmt.Errorf("marshal command: %w", err)
		}
		topic := CommandTopic(g.family, name)
		if err := g.client.Publish(topic, payload, defaultQoS, false); err != nil {
			return fmt.Errorf("publish %s: %w", topic, err)
		}
	}
	return nil
}

// handleFeedback stores one input-state report in the mailbox.
func (g *Group) handleFeedback(topic string, payload []byte) {
	var msg FeedbackMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		g.logError("failed to parse feedback message", err)
		return
	}

	g.feedbackMu.Lock()
	g.feedbackSlot = &msg
	g.feedbackMu.Unlock()

	// Non-blocking signal; a pending one already covers this report.
	select {
	case g.feedbackCh <- struct{}{}:
	default:
	}
}

// handleAck resolves the waiter for an acknowledged command.
func (g *Group) handleAck(topic string, payload []byte) {
	var msg AckMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		g.logError("failed to parse ack message", err)
		return
	}

	g.ackMu.Lock()
	waiter, ok := g.ackWaiters[msg.ID]
	if !ok {
		g.ackMu.Unlock()
		g.logDebug("ack for unknown command", "command_id", msg.ID, "device", msg.Device)
		return
	}

	if msg.Status == AckFailed {
		delete(g.ackWaiters, msg.ID)
		g.ackMu.Unlock()
		waiter.deliver(fmt.Errorf("device %s: %w", msg.Device, ErrCommandRejected))
		return
	}

	delete(waiter.pending, msg.Device)
	remaining := len(waiter.pending)
	if remaining == 0 {
		delete(g.ackWaiters, msg.ID)
	}
	g.ackMu.Unlock()

	if remaining == 0 {
		waiter.deliver(nil)
	}
}

// deliver hands the result to the waiting SendCommand, dropping it if the
// wait already gave up.
func (w *ackWaiter) deliver(err error) {
	select {
	case w.result <- err:
	default:
	}
}

// removeAckWaiter drops a waiter after SendCommand returns.
func (g *Group) removeAckWaiter(id string) {
	g.ackMu.Lock()
	delete(g.ackWaiters, id)
	g.ackMu.Unlock()
}

// rollbackSubscriptions removes subscriptions made before a failed
// construction.
func (g *Group) rollbackSubscriptions(topics []string) {
	for _, topic := range topics {
		if err := g.client.Unsubscribe(topic); err != nil {
			g.logError("failed to remove subscription", err)
		}
	}
}

// logError logs an error message if logger is set.
func (g *Group) logError(msg string, err error) {
	g.loggerMu.RLock()
	logger := g.logger
	g.loggerMu.RUnlock()

	if logger != nil {
		logger.Error(msg, "error", err)
	}
}

// logDebug logs a debug message if logger is set.
func (g *Group) logDebug(msg string, keysAndValues ...any) {
	g.loggerMu.RLock()
	logger := g.logger
	g.loggerMu.RUnlock()

	if logger != nil {
		logger.Debug(msg, keysAndValues...)
	}
}
