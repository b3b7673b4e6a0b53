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
	"github.com/jazzpetri/probcheck/arg"
	"github.com/jazzpetri/probcheck/eventlog"
)

// startSolve opens the span, logs and records the start of a solve call.
// The returned function closes them with the call's outcome.
func (c *Checker[SC, SA, A, E]) startSolve(mode string, attrs map[string]interface{}) func(p float64, err error) {
	span := c.obs.Tracer.StartSpan("checker." + mode)
	start := c.obs.Clock.Now()

	fields := map[string]interface{}{
		"run_id": c.runID,
		"mode":   mode,
		"goal":   c.cfg.Goal.String(),
	}
	for k, v := range attrs {
		fields[k] = v
	}
	for k, v := range fields {
		span.SetAttribute(k, v)
	}
	c.obs.Logger.Info("solve started", fields)
	c.record(eventlog.EventSolveStarted, arg.NoNode, fields)

	return func(p float64, err error) {
		elapsed := c.obs.Clock.Since(start)
		c.obs.Metrics.Observe(MetricSolveDuration, elapsed.Seconds())

		out := map[string]interface{}{
			"run_id":   c.runID,
			"mode":     mode,
			"nodes":    c.graph.Len(),
			"edges":    c.graph.EdgeCount(),
			"duration": elapsed.String(),
		}
		span.SetAttribute("nodes", c.graph.Len())
		if err != nil {
			span.RecordError(err)
			out["error"] = err.Error()
			c.obs.Logger.Error("solve failed", out)
		} else {
			span.SetAttribute("probability", p)
			out["probability"] = p
			c.obs.Logger.Info("solve finished", out)
		}
		c.record(eventlog.EventSolveFinished, arg.NoNode, out)
		span.End()
	}
}
