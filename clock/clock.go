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

// Package clock provides time abstractions for the checker's timestamps and
// duration metrics.
//
// The checker never waits on time; it only reads it to stamp exploration
// events and to measure how long solves and rounds take. Abstracting the
// clock keeps those measurements deterministic in tests.
//
// Example usage in production:
//
//	clk := clock.NewRealTimeClock()
//	start := clk.Now()
//	elapsed := clk.Since(start)
//
// Example usage in tests:
//
//	clk := clock.NewVirtualClock(start)
//	clk.AdvanceBy(5 * time.Second)
//	clk.Since(start) // exactly 5s
package clock

import "time"

// Clock abstracts reading the current time.
// Implementations must be safe for concurrent use by multiple goroutines.
type Clock interface {
	// Now returns the current time according to this clock.
	// For RealTimeClock, this is time.Now().
	// For VirtualClock, this is the manually advanced time.
	Now() time.Time

	// Since returns the time elapsed since t according to this clock.
	Since(t time.Time) time.Duration
}
