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
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jazzpetri/probcheck/solver"
)

// Environment variables overriding configuration values.
const (
	EnvGoal      = "PROBCHECK_GOAL"
	EnvThreshold = "PROBCHECK_THRESHOLD"
	EnvSeed      = "PROBCHECK_SEED"
	EnvStrategy  = "PROBCHECK_STRATEGY"
)

// configValidate is the validator instance for Config.
var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
	_ = configValidate.RegisterValidation("probability", validateOpenUnit)
}

// validateOpenUnit accepts floats strictly between 0 and 1.
func validateOpenUnit(fl validator.FieldLevel) bool {
	v := fl.Field().Float()
	return v > 0 && v < 1
}

// Config controls how the checker explores and solves.
//
// # Fields
//
//   - Goal: maximize or minimize the probability of reaching an error node.
//   - UseMay / UseMust: abstraction strengthening modes; at least one is required.
//   - EagerPostImage: initialize child labels with PostImage instead of TopAfter.
//   - Threshold: default convergence threshold for callers that read it from config.
//   - Strategy: default BRTDP successor selection strategy.
//   - BoundedVI: default for FullyExpanded's bounded value iteration switch.
//   - Seed: seed of the BRTDP random generator.
//   - MaxNodes: exploration stops with ErrNodeLimit beyond this many nodes (0 = unlimited).
//   - MaxRounds: BRTDP stops with ErrRoundLimit after this many rounds (0 = unlimited).
type Config struct {
	Goal           solver.Goal `yaml:"goal" validate:"gte=0,lte=1"`
	UseMay         bool        `yaml:"use_may"`
	UseMust        bool        `yaml:"use_must"`
	EagerPostImage bool        `yaml:"eager_post_image"`
	Threshold      float64     `yaml:"threshold" validate:"probability"`
	Strategy       Strategy    `yaml:"strategy" validate:"gte=0,lte=4"`
	BoundedVI      bool        `yaml:"bounded_vi"`
	Seed           uint64      `yaml:"seed"`
	MaxNodes       int         `yaml:"max_nodes" validate:"gte=0"`
	MaxRounds      int         `yaml:"max_rounds" validate:"gte=0"`
}

// DefaultConfig returns a configuration maximizing error reachability with
// both abstraction modes enabled.
func DefaultConfig() Config {
	return Config{
		Goal:      solver.Max,
		UseMay:    true,
		UseMust:   true,
		Threshold: 1e-6,
		Strategy:  MaxDiff,
		BoundedVI: true,
		Seed:      1,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if !c.UseMay && !c.UseMust {
		return ErrNoAbstractionMode
	}
	if err := configValidate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: field %s failed %q", ErrInvalidConfig, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig builds a configuration with priority env > file > defaults.
// A missing file is not an error; an empty path skips the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadConfigFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := loadConfigFromEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func loadConfigFromEnv(cfg *Config) error {
	if v := os.Getenv(EnvGoal); v != "" {
		g, err := solver.ParseGoal(v)
		if err != nil {
			return err
		}
		cfg.Goal = g
	}
	if v := os.Getenv(EnvThreshold); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvThreshold, err)
		}
		cfg.Threshold = f
	}
	if v := os.Getenv(EnvSeed); v != "" {
		s, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		cfg.Seed = s
	}
	if v := os.Getenv(EnvStrategy); v != "" {
		s, err := ParseStrategy(v)
		if err != nil {
			return err
		}
		cfg.Strategy = s
	}
	return nil
}
