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

package checker_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jazzpetri/probcheck/checker"
	"github.com/jazzpetri/probcheck/solver"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := checker.DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, solver.Max, cfg.Goal)
	assert.True(t, cfg.UseMay)
	assert.True(t, cfg.UseMust)
	assert.Equal(t, checker.MaxDiff, cfg.Strategy)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*checker.Config)
		want   error
	}{
		{"no mode", func(c *checker.Config) { c.UseMay, c.UseMust = false, false }, checker.ErrNoAbstractionMode},
		{"zero threshold", func(c *checker.Config) { c.Threshold = 0 }, checker.ErrInvalidConfig},
		{"threshold one", func(c *checker.Config) { c.Threshold = 1 }, checker.ErrInvalidConfig},
		{"bad strategy", func(c *checker.Config) { c.Strategy = 9 }, checker.ErrInvalidConfig},
		{"bad goal", func(c *checker.Config) { c.Goal = -1 }, checker.ErrInvalidConfig},
		{"negative node limit", func(c *checker.Config) { c.MaxNodes = -1 }, checker.ErrInvalidConfig},
		{"negative round limit", func(c *checker.Config) { c.MaxRounds = -3 }, checker.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := checker.DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "probcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := writeConfig(t, "goal: min\nstrategy: round-robin\nthreshold: 0.001\nmax_rounds: 50\n")
	t.Setenv(checker.EnvSeed, "42")
	t.Setenv(checker.EnvStrategy, "WEIGHTED_RANDOM")

	cfg, err := checker.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, solver.Min, cfg.Goal)
	assert.Equal(t, checker.WeightedRandom, cfg.Strategy, "env overrides file")
	assert.Equal(t, 0.001, cfg.Threshold)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 50, cfg.MaxRounds)
	assert.True(t, cfg.UseMay, "unset fields keep their defaults")
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := checker.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, checker.DefaultConfig(), cfg)

	cfg, err = checker.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, checker.DefaultConfig(), cfg)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("invalid yaml", func(t *testing.T) {
		_, err := checker.LoadConfig(writeConfig(t, "goal: [unterminated\n"))
		assert.Error(t, err)
	})
	t.Run("unknown strategy in file", func(t *testing.T) {
		_, err := checker.LoadConfig(writeConfig(t, "strategy: greedy\n"))
		assert.ErrorIs(t, err, checker.ErrUnknownStrategy)
	})
	t.Run("validation", func(t *testing.T) {
		_, err := checker.LoadConfig(writeConfig(t, "threshold: 2\n"))
		assert.ErrorIs(t, err, checker.ErrInvalidConfig)
	})
	t.Run("no mode", func(t *testing.T) {
		_, err := checker.LoadConfig(writeConfig(t, "use_may: false\nuse_must: false\n"))
		assert.ErrorIs(t, err, checker.ErrNoAbstractionMode)
	})
	t.Run("bad env goal", func(t *testing.T) {
		t.Setenv(checker.EnvGoal, "sideways")
		_, err := checker.LoadConfig("")
		assert.ErrorIs(t, err, solver.ErrUnknownGoal)
	})
	t.Run("bad env threshold", func(t *testing.T) {
		t.Setenv(checker.EnvThreshold, "small")
		_, err := checker.LoadConfig("")
		assert.Error(t, err)
	})
	t.Run("bad env seed", func(t *testing.T) {
		t.Setenv(checker.EnvSeed, "-1")
		_, err := checker.LoadConfig("")
		assert.Error(t, err)
	})
}

func TestStrategy_ParseAndYAML(t *testing.T) {
	for _, s := range checker.Strategies() {
		parsed, err := checker.ParseStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	s, err := checker.ParseStrategy(" Max-Diff ")
	require.NoError(t, err)
	assert.Equal(t, checker.MaxDiff, s)

	_, err = checker.ParseStrategy("greedy")
	assert.ErrorIs(t, err, checker.ErrUnknownStrategy)
	assert.Equal(t, "strategy(9)", checker.Strategy(9).String())

	out, err := yaml.Marshal(struct {
		Strategy checker.Strategy `yaml:"strategy"`
	}{checker.RoundRobin})
	require.NoError(t, err)
	assert.Equal(t, "strategy: roundrobin\n", string(out))
}
