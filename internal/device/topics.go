package device

import "fmt"

// TopicPrefix is the base topic for all pendant traffic.
const TopicPrefix = "pendant"

// AnnounceTopic returns the retained presence topic for a device.
// Example: pendant/announce/pendant/cell-a-op1
func AnnounceTopic(family, name string) string {
	return fmt.Sprintf("%s/announce/%s/%s", TopicPrefix, EncodeTopicLevel(family), EncodeTopicLevel(name))
}

// AnnounceSubscribeTopic returns the subscription pattern covering every
// device's presence message.
// Example: pendant/announce/+/+
func AnnounceSubscribeTopic() string {
	return fmt.Sprintf("%s/announce/+/+", TopicPrefix)
}

// FeedbackTopic returns the topic a device publishes its input state on.
// Example: pendant/feedback/pendant/cell-a-op1
func FeedbackTopic(family, name string) string {
	return fmt.Sprintf("%s/feedback/%s/%s", TopicPrefix, EncodeTopicLevel(family), EncodeTopicLevel(name))
}

// CommandTopic returns the topic a device listens for commands on.
// Example: pendant/command/pendant/cell-a-op1
func CommandTopic(family, name string) string {
	return fmt.Sprintf("%s/command/%s/%s", TopicPrefix, EncodeTopicLevel(family), EncodeTopicLevel(name))
}

// AckTopic returns the topic a device publishes acknowledgments on.
// Example: pendant/ack/pendant/cell-a-op1
func AckTopic(family, name string) string {
	return fmt.Sprintf("%s/ack/%s/%s", TopicPrefix, EncodeTopicLevel(family), EncodeTopicLevel(name))
}

// EncodeTopicLevel URL-encodes a family or name for use as a single MQTT
// topic level. Slashes would split the level and +/# would act as wildcards,
// so all three are encoded, along with % itself so decoding round-trips.
// Example: "cell/a" → "cell%2Fa"
func EncodeTopicLevel(level string) string {
	result := make([]byte, 0, len(level))
	for i := 0; i < len(level); i++ {
		switch level[i] {
		case '/':
			result = append(result, '%', '2', 'F')
		case '+':
			result = append(result, '%', '2', 'B')
		case '#':
			result = append(result, '%', '2', '3')
		case '%':
			result = append(result, '%', '2', '5')
		default:
			result = append(result, level[i])
		}
	}
	return string(result)
}

// DecodeTopicLevel decodes a topic level encoded by EncodeTopicLevel.
// Example: "cell%2Fa" → "cell/a"
func DecodeTopicLevel(encoded string) string {
	result := make([]byte, 0, len(encoded))
	for i := 0; i < len(encoded); i++ {
		if encoded[i] == '%' && i+2 < len(encoded) {
			switch encoded[i+1 : i+3] {
			case "2F":
				result = append(result, '/')
				i += 2
				continue
			case "2B":
				result = append(result, '+')
				i += 2
				continue
			case "23":
				result = append(result, '#')
				i += 2
				continue
			case "25":
				result = append(result, '%')
				i += 2
				continue
			}
		}
		result = append(result, encoded[i])
	}
	return string(result)
}
