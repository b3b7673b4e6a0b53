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

// Command probcheck runs the lazy abstraction-refinement checker on the
// builtin example models.
//
// Usage:
//
//	probcheck models
//	probcheck full covering --bounded
//	probcheck brtdp cycle --strategy weighted-random --goal min
//	probcheck compare covering
//
// Configuration is read from --config (yaml) and PROBCHECK_* environment
// variables; command-line flags override both.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jazzpetri/probcheck/checker"
	"github.com/jazzpetri/probcheck/domain/explicit"
	"github.com/jazzpetri/probcheck/observability"
	"github.com/jazzpetri/probcheck/solver"
)

// options holds the flags shared by the solve commands.
type options struct {
	configPath string
	goal       string
	threshold  float64
	seed       uint64
	strategy   string
	bounded    bool
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "probcheck",
		Short:        "Probabilistic reachability by lazy abstraction refinement",
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "yaml configuration file")
	pf.StringVar(&opts.goal, "goal", "", "max or min (overrides config)")
	pf.Float64Var(&opts.threshold, "threshold", 0, "convergence threshold in (0, 1) (overrides config)")
	pf.Uint64Var(&opts.seed, "seed", 0, "BRTDP random seed (overrides config)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log every round at debug level")

	root.AddCommand(
		&cobra.Command{
			Use:   "models",
			Short: "List the builtin models",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				for _, name := range modelNames() {
					fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", name, builtins[name].description)
				}
			},
		},
		newFullCmd(opts),
		newBRTDPCmd(opts),
		newCompareCmd(opts),
	)
	return root
}

func newFullCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "full MODEL",
		Short: "Explore the whole graph and solve it by value iteration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			ch, err := newChecker(args[0], cfg, newLogger(cmd.ErrOrStderr(), opts.verbose))
			if err != nil {
				return err
			}
			p, err := ch.FullyExpanded(cfg.BoundedVI, cfg.Threshold)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: P(error) = %.6f (%s, %d nodes)\n",
				args[0], p, cfg.Goal, ch.Graph().Len())
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.bounded, "bounded", true, "use bounded value iteration (overrides config)")
	return cmd
}

func newBRTDPCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brtdp MODEL",
		Short: "Bound the probability by simulation-guided refinement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			ch, err := newChecker(args[0], cfg, newLogger(cmd.ErrOrStderr(), opts.verbose))
			if err != nil {
				return err
			}
			p, err := ch.BRTDP(cfg.Strategy, cfg.Threshold)
			if err != nil {
				return err
			}
			b := ch.Bounds()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: P(error) = %.6f in [%.6f, %.6f] (%s, %s, %d rounds)\n",
				args[0], p, b.Lower, b.Upper, cfg.Goal, cfg.Strategy, len(ch.History()))
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "successor selection strategy (overrides config)")
	return cmd
}

// compareMaxRounds bounds every BRTDP run of compare when the
// configuration leaves MaxRounds unlimited.
const compareMaxRounds = 1_000_000

// compareConfig returns cfg with a finite round limit, so one run that does
// not converge fails instead of holding up the whole comparison.
func compareConfig(cfg checker.Config) checker.Config {
	if cfg.MaxRounds == 0 {
		cfg.MaxRounds = compareMaxRounds
	}
	return cfg
}

// result is one line of the compare table.
type result struct {
	method string
	p      float64
	nodes  int
	rounds int
}

func newCompareCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "compare MODEL",
		Short: "Run the exact solver and every BRTDP strategy side by side",
		Long:  fmt.Sprintf(`Run the exact solver and every BRTDP strategy side by side.

All runs start together and the table is printed once every run has
finished. The first failing run fails the command. BRTDP runs stop after
max_rounds rounds, or after %d rounds when the configuration sets none.`, compareMaxRounds),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			cfg = compareConfig(cfg)
			logger := newLogger(cmd.ErrOrStderr(), opts.verbose)

			var (
				mu      sync.Mutex
				results []result
			)
			add := func(r result) {
				mu.Lock()
				defer mu.Unlock()
				results = append(results, r)
			}

			// checkers are not safe for concurrent use; each run owns one
			var g errgroup.Group
			g.Go(func() error {
				ch, err := newChecker(args[0], cfg, logger)
				if err != nil {
					return err
				}
				p, err := ch.FullyExpanded(cfg.BoundedVI, cfg.Threshold)
				if err != nil {
					return fmt.Errorf("fully expanded: %w", err)
				}
				add(result{method: "fully-expanded", p: p, nodes: ch.Graph().Len()})
				return nil
			})
			for _, s := range checker.Strategies() {
				g.Go(func() error {
					ch, err := newChecker(args[0], cfg, logger)
					if err != nil {
						return err
					}
					p, err := ch.BRTDP(s, cfg.Threshold)
					if err != nil {
						return fmt.Errorf("brtdp %s: %w", s, err)
					}
					add(result{method: "brtdp/" + s.String(), p: p, nodes: ch.Graph().Len(), rounds: len(ch.History())})
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			sort.Slice(results, func(i, j int) bool { return results[i].method < results[j].method })
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-22s %-10s %6s %7s\n", "METHOD", "P(error)", "NODES", "ROUNDS")
			for _, r := range results {
				fmt.Fprintf(out, "%-22s %-10.6f %6d %7d\n", r.method, r.p, r.nodes, r.rounds)
			}
			return nil
		},
	}
}

// resolveConfig loads the configuration and applies the flags the user set.
func resolveConfig(cmd *cobra.Command, opts *options) (checker.Config, error) {
	cfg, err := checker.LoadConfig(opts.configPath)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("goal") {
		if cfg.Goal, err = solver.ParseGoal(opts.goal); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("threshold") {
		cfg.Threshold = opts.threshold
	}
	if flags.Changed("seed") {
		cfg.Seed = opts.seed
	}
	if flags.Changed("strategy") {
		if cfg.Strategy, err = checker.ParseStrategy(opts.strategy); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("bounded") {
		cfg.BoundedVI = opts.bounded
	}
	return cfg, cfg.Validate()
}

func newLogger(w io.Writer, verbose bool) observability.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return observability.NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func newChecker(model string, cfg checker.Config, logger observability.Logger) (*checker.Checker[explicit.Valuation, explicit.Label, string, explicit.Expr], error) {
	program, initial, err := lookupModel(model)
	if err != nil {
		return nil, err
	}
	return checker.New[explicit.Valuation, explicit.Label, string, explicit.Expr](
		program, explicit.NewDomain(program), initial, explicit.Top(), cfg,
		checker.WithLogger(logger))
}
