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

// Metric names reported through the observer's MetricsCollector.
const (
	MetricNodesExpanded  = "probcheck_nodes_expanded_total"
	MetricNodesCovered   = "probcheck_nodes_covered_total"
	MetricNodesUncovered = "probcheck_nodes_uncovered_total"
	MetricLabelChanges   = "probcheck_label_changes_total"
	MetricECMerges       = "probcheck_ec_merges_total"
	MetricRounds         = "probcheck_brtdp_rounds_total"
	MetricARGNodes       = "probcheck_arg_nodes"
	MetricGap            = "probcheck_brtdp_gap"
	MetricSolveDuration  = "probcheck_solve_duration_seconds"
	MetricTraceLength    = "probcheck_brtdp_trace_length"
)
