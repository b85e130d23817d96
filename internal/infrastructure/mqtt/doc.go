// Package mqtt provides MQTT client connectivity for the pendant bus.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// MQTT is the bus between pendant apps and their supervisors. The broker
// decouples the two sides: pendants publish feedback and announces, services
// publish commands and wait for acks.
//
//	pendantd ↔ MQTT Broker ↔ Mobile Pendant App
//
// The device package layers discovery, feedback polling, and acknowledged
// command delivery on top of this client; nothing in here knows about
// pendant message formats.
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Publish latency: <10ms for QoS 1 to local broker
//   - Reconnect: Exponential backoff 1s-60s
//   - Message throughput: Broker-limited (far above one pendant's traffic)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Watch every pendantd instance on the bus
//	err = client.Subscribe(mqtt.AllServiceStatuses(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
package mqtt
