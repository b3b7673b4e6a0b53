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

package clock

import (
	"sync"
	"time"
)

// VirtualClock provides a Clock implementation with manual time control for testing.
// Unlike RealTimeClock, VirtualClock does not use actual wall-clock time. Instead,
// time only advances when explicitly commanded via AdvanceTo or AdvanceBy, or
// by a fixed step on every read when SetStep is used.
//
// VirtualClock is safe for concurrent use by multiple goroutines. All operations
// are protected by an internal mutex.
//
// Example:
//
//	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
//	clk := clock.NewVirtualClock(start)
//	clk.SetStep(time.Millisecond)
//	a := clk.Now() // start
//	b := clk.Now() // start + 1ms
type VirtualClock struct {
	mu      sync.Mutex
	current time.Time
	step    time.Duration
}

// NewVirtualClock creates a new virtual clock starting at the specified time.
// The clock's time will only advance when AdvanceTo() or AdvanceBy() is called.
func NewVirtualClock(start time.Time) *VirtualClock {
	return &VirtualClock{current: start}
}

// SetStep makes every subsequent Now() call advance the clock by d after
// reading it. A zero step disables auto-advance.
func (v *VirtualClock) SetStep(d time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if d < 0 {
		d = 0
	}
	v.step = d
}

// Now returns the current virtual time.
func (v *VirtualClock) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	now := v.current
	v.current = v.current.Add(v.step)
	return now
}

// Since returns the virtual time elapsed since t. It does not auto-advance.
func (v *VirtualClock) Since(t time.Time) time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current.Sub(t)
}

// AdvanceTo moves the virtual time to targetTime.
// Moving backwards is ignored: virtual time is monotonic.
func (v *VirtualClock) AdvanceTo(targetTime time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if targetTime.After(v.current) {
		v.current = targetTime
	}
}

// AdvanceBy moves the virtual time forward by d.
// Negative durations are ignored.
func (v *VirtualClock) AdvanceBy(d time.Duration) {
	if d <= 0 {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = v.current.Add(d)
}
