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

package observability

import (
	"github.com/jazzpetri/probcheck/clock"
	"github.com/jazzpetri/probcheck/eventlog"
)

// Observer carries the observability capabilities of one checker.
// It combines:
//   - Clock for timestamps and durations
//   - Tracer, Metrics and Logger hooks
//   - an optional event log recording exploration events
//
// All With* methods return modified copies; an Observer is never mutated
// after construction.
type Observer struct {
	// Clock provides time for event timestamps and solve durations.
	// Use VirtualClock for testing or RealTimeClock for production.
	Clock clock.Clock

	// Tracer handles tracing. Defaults to NoOpTracer.
	Tracer Tracer

	// Metrics handles metrics collection. Defaults to NoOpMetrics.
	Metrics MetricsCollector

	// Logger handles structured logging. Defaults to NoOpLogger.
	Logger Logger

	// Events records exploration events.
	// This is nil by default and must be explicitly configured.
	Events eventlog.EventLog
}

// NewObserver creates an observer with NoOp hooks.
//
// Parameters:
//   - clk: Clock implementation for time operations (nil selects RealTimeClock)
//
// Returns a new Observer with NoOp implementations for all hooks and no event log.
func NewObserver(clk clock.Clock) *Observer {
	o := &Observer{
		Clock:   clk,
		Tracer:  &NoOpTracer{},
		Metrics: &NoOpMetrics{},
		Logger:  &NoOpLogger{},
	}
	o.ensure()
	return o
}

// ensure replaces nil hooks with NoOp implementations.
func (o *Observer) ensure() {
	if o.Clock == nil {
		o.Clock = clock.NewRealTimeClock()
	}
	if o.Logger == nil {
		o.Logger = &NoOpLogger{}
	}
	if o.Metrics == nil {
		o.Metrics = &NoOpMetrics{}
	}
	if o.Tracer == nil {
		o.Tracer = &NoOpTracer{}
	}
}

// WithClock returns a copy using clk.
func (o *Observer) WithClock(clk clock.Clock) *Observer {
	n := *o
	n.Clock = clk
	n.ensure()
	return &n
}

// WithTracer returns a copy using tracer.
func (o *Observer) WithTracer(tracer Tracer) *Observer {
	n := *o
	n.Tracer = tracer
	n.ensure()
	return &n
}

// WithMetrics returns a copy using metrics.
func (o *Observer) WithMetrics(metrics MetricsCollector) *Observer {
	n := *o
	n.Metrics = metrics
	n.ensure()
	return &n
}

// WithLogger returns a copy using logger.
func (o *Observer) WithLogger(logger Logger) *Observer {
	n := *o
	n.Logger = logger
	n.ensure()
	return &n
}

// WithEventLog returns a copy recording events into log.
func (o *Observer) WithEventLog(log eventlog.EventLog) *Observer {
	n := *o
	n.Events = log
	return &n
}

// Record creates an event of the given type for run and appends it to the
// event log. It does nothing when no event log is configured and returns
// nil in that case. A string "error" metadata entry also sets the event's
// Error field. Append failures are logged at Warn and not propagated.
func (o *Observer) Record(eventType eventlog.EventType, runID string, nodeID int, metadata map[string]interface{}) *eventlog.Event {
	if o.Events == nil {
		return nil
	}
	e := eventlog.NewEvent(eventType, runID, o.Clock).WithNode(nodeID)
	if metadata != nil {
		e.SetMetadata(metadata)
		if msg, ok := metadata["error"].(string); ok {
			e.SetError(msg)
		}
	}
	if err := o.Events.Append(e); err != nil {
		o.Logger.Warn("event log append failed", map[string]interface{}{
			"event": string(eventType),
			"error": err.Error(),
		})
	}
	return e
}
