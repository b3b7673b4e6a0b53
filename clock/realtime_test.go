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
	"testing"
	"time"
)

func TestNewRealTimeClock(t *testing.T) {
	clock := NewRealTimeClock()
	if clock == nil {
		t.Fatal("NewRealTimeClock() returned nil")
	}
}

func TestRealTimeClock_Now(t *testing.T) {
	clock := NewRealTimeClock()

	before := time.Now()
	now := clock.Now()
	after := time.Now()

	// Clock's Now() should be between our before/after measurements
	if now.Before(before) || now.After(after) {
		t.Errorf("clock.Now() = %v, expected between %v and %v", now, before, after)
	}
}

func TestRealTimeClock_Since(t *testing.T) {
	clock := NewRealTimeClock()
	start := clock.Now().Add(-time.Second)

	if d := clock.Since(start); d < time.Second {
		t.Errorf("Since() = %v, expected at least 1s", d)
	}
}

func TestRealTimeClock_ImplementsClockInterface(t *testing.T) {
	var _ Clock = NewRealTimeClock()
}
