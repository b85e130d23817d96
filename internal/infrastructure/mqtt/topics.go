package mqtt

import "fmt"

// Topic prefixes for the pendant bus.
//
// Device-facing topics (announce, feedback, command, ack) are built by the
// device package next to its message types. This package only owns the
// service-level topics used by the client itself.
const (
	// TopicPrefix is the base for all pendant bus topics.
	TopicPrefix = "pendant"

	// TopicPrefixService is the base for service presence topics.
	TopicPrefixService = "pendant/service"
)

// ServiceStatusTopic returns the retained presence topic for a service
// client (pendantd instances, tooling).
//
// Example: pendant/service/pendantd-cell-a
func ServiceStatusTopic(clientID string) string {
	return fmt.Sprintf("%s/%s", TopicPrefixService, clientID)
}

// AllServiceStatuses returns a pattern matching every service presence topic.
//
// Pattern: pendant/service/+
func AllServiceStatuses() string {
	return fmt.Sprintf("%s/+", TopicPrefixService)
}
