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
	"errors"
	"fmt"
	"sync"
	"time"
)

// Sentinel errors for event log operations.
var (
	// ErrNilEvent is returned when appending a nil event.
	ErrNilEvent = errors.New("cannot append nil event")

	// ErrMissingID is returned when appending an event without ID.
	ErrMissingID = errors.New("event must have an ID")

	// ErrDuplicateEvent is returned when an event ID is already present.
	ErrDuplicateEvent = errors.New("event already exists")

	// ErrEventNotFound is returned by Get for unknown IDs.
	ErrEventNotFound = errors.New("event not found")
)

// EventLog is the interface for event storage and retrieval.
// Implementations must be safe for concurrent access by multiple goroutines.
//
// EventLog supports:
//   - Appending new events (thread-safe)
//   - Retrieving events by ID, type, timestamp, run or node
//   - Counting total events
//   - Clearing all events (primarily for testing)
type EventLog interface {
	// Append adds a new event to the log.
	// Returns an error if the event is nil, has no ID, or has a duplicate ID.
	Append(event *Event) error

	// Get retrieves an event by its unique ID.
	Get(eventID string) (*Event, error)

	// GetAll retrieves all events in the order they were appended.
	GetAll() ([]*Event, error)

	// GetSince retrieves all events that occurred after the specified timestamp.
	// Events with timestamps exactly equal to the cutoff are not included.
	GetSince(timestamp time.Time) ([]*Event, error)

	// GetByType retrieves all events of a specific type.
	GetByType(eventType EventType) ([]*Event, error)

	// GetByRun retrieves all events of one solve call.
	GetByRun(runID string) ([]*Event, error)

	// GetByNode retrieves all events concerning one graph node, across runs.
	GetByNode(nodeID int) ([]*Event, error)

	// Count returns the total number of events in the log.
	Count() int

	// Clear removes all events from the log.
	Clear() error
}

// MemoryEventLog is an in-memory implementation of EventLog.
// It stores events in a slice and provides fast access via an index map.
//
// Circular Buffer Behavior:
// When MaxEvents is > 0, the log maintains a maximum number of events.
// Once the limit is reached, the oldest events are dropped (FIFO) to make room
// for new events. Long BRTDP runs emit many node events, so a bound is
// recommended outside tests.
// When MaxEvents is 0, the log grows unbounded (unlimited).
//
// Thread Safety:
// All operations are thread-safe using a RWMutex.
type MemoryEventLog struct {
	mu        sync.RWMutex
	events    []*Event
	index     map[string]*Event
	MaxEvents int // Maximum number of events to keep (0 = unlimited)
}

// NewMemoryEventLog creates a new in-memory event log with configurable max events.
//
// Parameters:
//   - maxEvents: Maximum number of events to keep (0 = unlimited)
//
// When the limit is reached, oldest events are dropped to maintain the limit.
func NewMemoryEventLog(maxEvents ...int) *MemoryEventLog {
	max := 0
	if len(maxEvents) > 0 {
		max = maxEvents[0]
	}
	return &MemoryEventLog{
		events:    make([]*Event, 0),
		index:     make(map[string]*Event),
		MaxEvents: max,
	}
}

// Append adds a new event to the log.
//
// If MaxEvents > 0 and the log is at capacity, the oldest event is removed
// to make room for the new event.
func (m *MemoryEventLog) Append(e *Event) error {
	if e == nil {
		return ErrNilEvent
	}
	if e.ID == "" {
		return ErrMissingID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.index[e.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEvent, e.ID)
	}

	if m.MaxEvents > 0 && len(m.events) >= m.MaxEvents {
		oldest := m.events[0]
		delete(m.index, oldest.ID)
		m.events = m.events[1:]
	}

	m.events = append(m.events, e)
	m.index[e.ID] = e
	return nil
}

// Get retrieves an event by its unique ID.
func (m *MemoryEventLog) Get(eventID string) (*Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	event, exists := m.index[eventID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}
	return event, nil
}

// GetAll retrieves all events in the order they were appended.
// Returns a copy of the events slice to prevent external modification.
func (m *MemoryEventLog) GetAll() ([]*Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Event, len(m.events))
	copy(result, m.events)
	return result, nil
}

// GetSince retrieves all events that occurred after the specified timestamp.
func (m *MemoryEventLog) GetSince(timestamp time.Time) ([]*Event, error) {
	return m.filter(func(e *Event) bool { return e.Timestamp.After(timestamp) }), nil
}

// GetByType retrieves all events of a specific type.
func (m *MemoryEventLog) GetByType(eventType EventType) ([]*Event, error) {
	return m.filter(func(e *Event) bool { return e.Type == eventType }), nil
}

// GetByRun retrieves all events of one solve call.
func (m *MemoryEventLog) GetByRun(runID string) ([]*Event, error) {
	return m.filter(func(e *Event) bool { return e.RunID == runID }), nil
}

// GetByNode retrieves all events concerning one graph node.
func (m *MemoryEventLog) GetByNode(nodeID int) ([]*Event, error) {
	return m.filter(func(e *Event) bool { return e.NodeID == nodeID }), nil
}

// Count returns the total number of events in the log.
func (m *MemoryEventLog) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events)
}

// Clear removes all events from the log.
func (m *MemoryEventLog) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = make([]*Event, 0)
	m.index = make(map[string]*Event)
	return nil
}

func (m *MemoryEventLog) filter(keep func(*Event) bool) []*Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Event, 0)
	for _, event := range m.events {
		if keep(event) {
			result = append(result, event)
		}
	}
	return result
}
