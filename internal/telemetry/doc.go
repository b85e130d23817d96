// Package telemetry records pendant state history to InfluxDB.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, batched writes, and health monitoring.
//
// # Purpose
//
// This package handles time-series storage for:
//   - Axis position samples at the poll rate
//   - Button state samples and press/release events
//   - Operator activity analysis and incident review
//
// # Usage
//
//	cfg := config.TelemetryConfig{
//	    Enabled: true,
//	    URL:     "http://localhost:8086",
//	    Token:   "your-token",
//	    Org:     "hollis",
//	    Bucket:  "pendant",
//	}
//
//	recorder, err := telemetry.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer recorder.Close()
//
//	recorder.RecordAxis("cell-a", "op1", 1, 0.42)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Record operations are non-blocking and batch errors are delivered via a
// callback. Connection and health check errors are returned directly.
//
// # Performance
//
// Writes are batched according to pendantd.yaml settings (batch_size,
// flush_interval). This reduces network overhead at high poll rates.
package telemetry
