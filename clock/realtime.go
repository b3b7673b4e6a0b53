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

import "time"

// RealTimeClock provides a production Clock implementation using actual wall-clock time.
// All operations delegate directly to Go's time package with zero overhead.
//
// RealTimeClock is safe for concurrent use by multiple goroutines as it maintains no state.
type RealTimeClock struct{}

// NewRealTimeClock creates a new real-time clock for production use.
// The returned clock uses the system's wall-clock time.
func NewRealTimeClock() *RealTimeClock {
	return &RealTimeClock{}
}

// Now returns the current wall-clock time by delegating to time.Now().
func (r *RealTimeClock) Now() time.Time {
	return time.Now()
}

// Since delegates to time.Since().
func (r *RealTimeClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}
