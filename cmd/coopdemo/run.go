package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/b97tsk/coop/internal/config"
	"github.com/b97tsk/coop/internal/demo"
)

var runCmd = &cobra.Command{
	Use:   "run [scenario...]",
	Short: "Run one or more scenarios",
	Long: `Run the named scenarios, each on its own executor.

With several scenarios (or --all) the executors run side by side, one
goroutine each. Tasks inside a scenario still share a single thread.`,
	RunE: runScenarios,
}

func init() {
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("all", false, "run every scenario")
	cmd.Flags().Duration("idle-wait", -1, "pause after a tick that resumed nothing (overrides loop.idle_wait_ms)")
	cmd.Flags().Duration("timeout", -1, "bound each scenario run (overrides loop.timeout_ms)")
	cmd.Flags().Bool("quiet", false, "do not print the summary")
}

func runScenarios(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd, cfg.Log)
	if err != nil {
		return err
	}

	if err := applyColor(cmd); err != nil {
		return err
	}

	all, _ := cmd.Flags().GetBool("all")
	quiet, _ := cmd.Flags().GetBool("quiet")

	scenarios, err := selectScenarios(cfg, args, all)
	if err != nil {
		return err
	}

	opts, err := runOptions(cmd, cfg.Loop)
	if err != nil {
		return err
	}
	opts.Logger = logger

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	printer := demo.NewPrinter(cmd.OutOrStdout(), color.NoColor)

	var (
		mu      sync.Mutex
		results = make([]demo.Result, len(scenarios))
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range scenarios {
		g.Go(func() error {
			res, err := demo.Run(gctx, s, printer, opts)
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return err
		})
	}

	err = g.Wait()

	if !quiet {
		printSummary(cmd, results)
	}

	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return fmt.Errorf("interrupted: %w", err)
	}
	return err
}

func selectScenarios(cfg config.Config, names []string, all bool) ([]config.Scenario, error) {
	switch {
	case all && len(names) != 0:
		return nil, errors.New("--all takes no scenario names")
	case all:
		return cfg.Scenarios, nil
	case len(names) == 0:
		return nil, errors.New("no scenario given (use --all to run every scenario, or list to see them)")
	}

	scenarios := make([]config.Scenario, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		s, ok := cfg.Scenario(name)
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q", name)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func runOptions(cmd *cobra.Command, loop config.LoopConfig) (demo.Options, error) {
	idleWait, err := loop.IdleWait()
	if err != nil {
		return demo.Options{}, err
	}
	if d, _ := cmd.Flags().GetDuration("idle-wait"); d >= 0 {
		idleWait = d
	}

	timeout, err := loop.Timeout()
	if err != nil {
		return demo.Options{}, err
	}
	if d, _ := cmd.Flags().GetDuration("timeout"); d >= 0 {
		timeout = d
	}

	return demo.Options{IdleWait: idleWait, Timeout: timeout}, nil
}

func printSummary(cmd *cobra.Command, results []demo.Result) {
	w := cmd.ErrOrStderr()
	bold := color.New(color.Bold)
	for _, r := range results {
		if r.Scenario == "" {
			continue
		}
		fmt.Fprintf(w, "%s: %s ticks, %s resumes, %d completed, %d failed in %s\n",
			bold.Sprint(r.Scenario),
			humanize.Comma(int64(r.Stats.Ticks)),
			humanize.Comma(int64(r.Stats.Resumed)),
			r.Stats.Completed,
			r.Stats.Failed,
			r.Elapsed.Round(time.Millisecond),
		)
	}
}
