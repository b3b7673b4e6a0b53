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

package checker

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Strategy selects the branch a BRTDP trace follows once the best edge of
// the current node has been chosen.
type Strategy int

const (
	// MaxDiff follows the branch with the largest bound gap.
	MaxDiff Strategy = iota
	// Random samples a branch by its probability.
	Random
	// WeightedMax follows the branch maximizing probability times gap.
	WeightedMax
	// WeightedRandom samples a branch proportionally to probability times gap.
	WeightedRandom
	// RoundRobin cycles through the branches of an edge across visits.
	RoundRobin
)

var strategyNames = [...]string{
	MaxDiff:        "maxdiff",
	Random:         "random",
	WeightedMax:    "weightedmax",
	WeightedRandom: "weightedrandom",
	RoundRobin:     "roundrobin",
}

// Strategies lists every strategy in declaration order.
func Strategies() []Strategy {
	return []Strategy{MaxDiff, Random, WeightedMax, WeightedRandom, RoundRobin}
}

// String returns the lower-case strategy name.
func (s Strategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return fmt.Sprintf("strategy(%d)", int(s))
	}
	return strategyNames[s]
}

// ParseStrategy parses a strategy name. Case, dashes and underscores are
// ignored, so "max-diff", "MAX_DIFF" and "maxdiff" are equivalent.
func ParseStrategy(s string) (Strategy, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "", "_", "").Replace(norm)
	for i, name := range strategyNames {
		if name == norm {
			return Strategy(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// MarshalYAML encodes the strategy by name.
func (s Strategy) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML decodes a strategy name.
func (s *Strategy) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseStrategy(value.Value)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
