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

// Package checker computes the probability of reaching an error state of a
// probabilistic system by lazy abstraction refinement.
//
// The checker builds an abstract reachability graph (see package arg) in
// which every node pairs an exact concrete state with an abstract label.
// Nodes whose concrete state is contained in the label of an existing node
// are covered instead of explored. Labels are strengthened on demand so that
// every covering stays sound, and strengthening is propagated backwards
// through the graph built so far.
//
// Two explorations are available:
//   - FullyExpanded explores breadth-first until no uncovered node is left
//     and hands the graph to the solver package.
//   - BRTDP samples traces guided by upper and lower bounds, merges end
//     components on the fly, and stops once the bounds of the initial node
//     are within the threshold.
//
// A Checker is not safe for concurrent use. Every solve call starts from an
// empty graph.
//
// # Usage
//
//	c, err := checker.New(model, domain, init, top, checker.DefaultConfig(),
//	    checker.WithLogger(observability.NewSlogLogger(nil)))
//	p, err := c.BRTDP(checker.MaxDiff, 1e-6)
package checker

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/jazzpetri/probcheck/arg"
	"github.com/jazzpetri/probcheck/clock"
	"github.com/jazzpetri/probcheck/eventlog"
	"github.com/jazzpetri/probcheck/observability"
)

// Bounds is a pair of lower and upper bounds on a reachability probability.
type Bounds struct {
	Lower float64
	Upper float64
}

// Gap returns Upper - Lower.
func (b Bounds) Gap() float64 {
	return b.Upper - b.Lower
}

// Mid returns the midpoint of the bounds.
func (b Bounds) Mid() float64 {
	return (b.Lower + b.Upper) / 2
}

// Option configures the observability of a Checker.
type Option func(*observability.Observer) *observability.Observer

// WithObserver replaces the whole observer.
func WithObserver(o *observability.Observer) Option {
	return func(*observability.Observer) *observability.Observer { return o }
}

// WithLogger sets the logger.
func WithLogger(l observability.Logger) Option {
	return func(o *observability.Observer) *observability.Observer { return o.WithLogger(l) }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m observability.MetricsCollector) Option {
	return func(o *observability.Observer) *observability.Observer { return o.WithMetrics(m) }
}

// WithTracer sets the tracer.
func WithTracer(t observability.Tracer) Option {
	return func(o *observability.Observer) *observability.Observer { return o.WithTracer(t) }
}

// WithEventLog records exploration events into log.
func WithEventLog(log eventlog.EventLog) Option {
	return func(o *observability.Observer) *observability.Observer { return o.WithEventLog(log) }
}

// WithClock sets the clock used for event timestamps and durations.
func WithClock(clk clock.Clock) Option {
	return func(o *observability.Observer) *observability.Observer { return o.WithClock(clk) }
}

// Checker runs lazy abstraction refinement over one model.
type Checker[SC, SA any, A comparable, E any] struct {
	model        Model[SC, A, E]
	domain       Domain[SC, SA, A, E]
	initial      SC
	initialLabel SA
	cfg          Config
	obs          *observability.Observer

	graph *arg.Graph[SC, SA, A, E]
	root  arg.NodeID
	runID string
	rng   *rand.Rand

	// onUncover is called for every node whose covering is withdrawn.
	onUncover func(arg.NodeID)
	// onCover is called for every node that becomes covered.
	onCover func(arg.NodeID)

	// BRTDP state, indexed by node ID.
	upper   []float64
	lower   []float64
	groups  map[arg.NodeID]*group
	history []Bounds
}

// New creates a checker.
//
// Parameters:
//   - model: supplies standard and error commands
//   - domain: concrete and abstract semantics
//   - initial: the initial concrete state
//   - initialLabel: the label of the initial node (usually the top label)
//   - cfg: exploration configuration, validated here
//   - opts: observability options
//
// Returns ErrNoAbstractionMode or ErrInvalidConfig for a bad configuration.
func New[SC, SA any, A comparable, E any](
	model Model[SC, A, E],
	domain Domain[SC, SA, A, E],
	initial SC,
	initialLabel SA,
	cfg Config,
	opts ...Option,
) (*Checker[SC, SA, A, E], error) {
	if model == nil || domain == nil {
		return nil, fmt.Errorf("%w: model and domain are required", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	obs := observability.NewObserver(nil)
	for _, opt := range opts {
		if next := opt(obs); next != nil {
			obs = next
		}
	}

	c := &Checker[SC, SA, A, E]{
		model:        model,
		domain:       domain,
		initial:      initial,
		initialLabel: initialLabel,
		cfg:          cfg,
		obs:          obs,
		graph:        arg.New[SC, SA, A, E](),
		root:         arg.NoNode,
	}
	c.Reset()
	return c, nil
}

// Config returns the checker's configuration.
func (c *Checker[SC, SA, A, E]) Config() Config {
	return c.cfg
}

// Graph exposes the graph built by the last solve call. Callers must not
// modify it.
func (c *Checker[SC, SA, A, E]) Graph() *arg.Graph[SC, SA, A, E] {
	return c.graph
}

// Root returns the ID of the initial node of the last solve call, or
// arg.NoNode before the first call.
func (c *Checker[SC, SA, A, E]) Root() arg.NodeID {
	return c.root
}

// RunID returns the ID of the last solve call.
func (c *Checker[SC, SA, A, E]) RunID() string {
	return c.runID
}

// Reset discards the graph, the bounds, the merge groups and the history.
// Solve calls reset on entry, so calling Reset is only needed to release
// memory.
func (c *Checker[SC, SA, A, E]) Reset() {
	c.graph.Reset()
	c.root = arg.NoNode
	c.upper = c.upper[:0]
	c.lower = c.lower[:0]
	c.groups = make(map[arg.NodeID]*group)
	c.history = nil
	c.onUncover = nil
	c.onCover = nil
	c.rng = rand.New(rand.NewPCG(c.cfg.Seed, c.cfg.Seed^0x9e3779b97f4a7c15))
}

// begin resets the checker for a new solve call and creates the root node.
func (c *Checker[SC, SA, A, E]) begin() {
	c.Reset()
	c.runID = uuid.NewString()
	c.root = c.addNode(c.initial, c.initialLabel)
}

// addNode creates a node with fresh bounds.
func (c *Checker[SC, SA, A, E]) addNode(sc SC, label SA) arg.NodeID {
	id := c.graph.AddNode(sc, label)
	c.upper = append(c.upper, 1)
	c.lower = append(c.lower, 0)
	c.obs.Metrics.Set(MetricARGNodes, float64(c.graph.Len()))
	return id
}

// checkThreshold validates a threshold argument.
func checkThreshold(threshold float64) error {
	if !(threshold > 0 && threshold < 1) {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
	}
	return nil
}

// record appends an event for the current run.
func (c *Checker[SC, SA, A, E]) record(t eventlog.EventType, node arg.NodeID, metadata map[string]interface{}) {
	c.obs.Record(t, c.runID, int(node), metadata)
}
