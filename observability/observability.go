// Copyright 2026 The JazzPetri Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package observability provides the logging, metrics and tracing hooks
// used by the checker.
//
// Every hook is an interface with a zero-overhead NoOp implementation, so a
// checker built without options pays nothing for observability. Production
// adapters are provided for log/slog (SlogLogger), Prometheus
// (PrometheusMetrics) and OpenTelemetry (OtelTracer).
//
// The Observer type bundles the hooks together with a clock and an optional
// event log and is what the checker carries around.
package observability

// Tracer handles distributed tracing using OpenTelemetry or similar systems.
// Implementations should be thread-safe for concurrent use.
//
// Use NoOpTracer when tracing is disabled for zero overhead.
type Tracer interface {
	// StartSpan creates a new trace span with the given name.
	// The span should be ended by calling End() when the operation completes.
	//
	// Example:
	//   span := tracer.StartSpan("checker.brtdp")
	//   defer span.End()
	StartSpan(name string) Span
}

// Span represents a single trace span.
// Spans track operations and can carry attributes for additional context.
type Span interface {
	// End marks the span as complete.
	End()

	// SetAttribute adds a key-value attribute to the span.
	//
	// Supported value types:
	//   - string
	//   - int/int64
	//   - bool
	//   - float64
	// Other values are recorded by their fmt representation.
	SetAttribute(key string, value interface{})

	// RecordError records an error that occurred during the span.
	RecordError(err error)
}

// MetricsCollector handles metrics collection using Prometheus or similar systems.
// Implementations should be thread-safe for concurrent use.
//
// Use NoOpMetrics when metrics are disabled for zero overhead.
type MetricsCollector interface {
	// Inc increments a counter metric by 1.
	//
	// Example:
	//   metrics.Inc("probcheck_nodes_expanded_total")
	Inc(name string)

	// Add adds a value to a counter or gauge metric.
	// For counters, the value should be positive.
	Add(name string, value float64)

	// Observe records a value in a histogram metric.
	//
	// Example:
	//   metrics.Observe("probcheck_solve_duration_seconds", 0.123)
	Observe(name string, value float64)

	// Set sets a gauge metric to a specific value.
	//
	// Example:
	//   metrics.Set("probcheck_arg_nodes", 42)
	Set(name string, value float64)
}

// Logger handles structured logging with contextual fields.
// Implementations should be thread-safe for concurrent use.
//
// Use NoOpLogger when logging is disabled for zero overhead.
type Logger interface {
	// Debug logs a debug-level message with optional fields.
	//
	// Example:
	//   logger.Debug("end component merged", map[string]interface{}{
	//       "members": 3,
	//   })
	Debug(msg string, fields map[string]interface{})

	// Info logs an info-level message with optional fields.
	Info(msg string, fields map[string]interface{})

	// Warn logs a warning-level message with optional fields.
	Warn(msg string, fields map[string]interface{})

	// Error logs an error-level message with optional fields.
	Error(msg string, fields map[string]interface{})
}
