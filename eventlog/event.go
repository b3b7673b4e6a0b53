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

package eventlog

import (
	"time"

	"github.com/google/uuid"

	"github.com/jazzpetri/probcheck/clock"
)

// EventType identifies the category of an exploration event.
type EventType string

const (
	// EventSolveStarted is recorded when FullyExpanded or BRTDP begins
	EventSolveStarted EventType = "solve.started"

	// EventSolveFinished is recorded when a solve returns a probability
	EventSolveFinished EventType = "solve.finished"

	// EventNodeExpanded is recorded after a node has been expanded
	EventNodeExpanded EventType = "node.expanded"

	// EventNodeError is recorded when a node becomes a permanent error node
	EventNodeError EventType = "node.error"

	// EventNodeCovered is recorded when a node is covered by another node
	EventNodeCovered EventType = "node.covered"

	// EventNodeUncovered is recorded when a covering relation is withdrawn
	EventNodeUncovered EventType = "node.uncovered"

	// EventLabelChanged is recorded when a node's abstract label is strengthened
	EventLabelChanged EventType = "label.changed"

	// EventECMerged is recorded when BRTDP merges an end component
	EventECMerged EventType = "ec.merged"

	// EventRoundCompleted is recorded at the end of each BRTDP round
	EventRoundCompleted EventType = "round.completed"
)

// NoNode is the NodeID of events that do not concern a single node.
const NoNode = -1

// Event represents a single exploration event in the event log.
// Events are immutable records of what the checker did to the graph.
// They provide an append-only trail for debugging and auditing a run.
type Event struct {
	// ID is a unique identifier for this event
	ID string

	// Type identifies the category of event
	Type EventType

	// Timestamp records when the event occurred
	Timestamp time.Time

	// RunID identifies the solve call that generated this event
	RunID string

	// NodeID identifies the graph node the event concerns.
	// NoNode for run-level events.
	NodeID int

	// Error contains the error message for failed solves
	// Empty for non-error events
	Error string

	// Metadata contains additional context-specific information
	Metadata map[string]interface{}
}

// NewEvent creates a new event with a random UUID.
// The timestamp is set using the provided clock.
//
// Parameters:
//   - eventType: The type of event being created
//   - runID: The ID of the solve call generating the event
//   - clk: Clock for timestamp generation
//
// Returns a new Event with NodeID set to NoNode and an initialized metadata map.
func NewEvent(eventType EventType, runID string, clk clock.Clock) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: clk.Now(),
		RunID:     runID,
		NodeID:    NoNode,
		Metadata:  make(map[string]interface{}),
	}
}

// WithNode sets the node the event concerns and returns the event.
func (e *Event) WithNode(id int) *Event {
	e.NodeID = id
	return e
}

// SetError sets the error message field.
func (e *Event) SetError(err string) {
	e.Error = err
}

// SetMetadata sets or merges metadata fields.
func (e *Event) SetMetadata(m map[string]interface{}) {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	for k, v := range m {
		e.Metadata[k] = v
	}
}
