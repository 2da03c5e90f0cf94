// Package demo turns configured scenarios into coop tasks and runs them.
package demo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/b97tsk/coop"
	"github.com/b97tsk/coop/internal/config"
)

// KindFlag is the instruction kind yielded by wait_for steps.
// Run registers it with an explicit handler that polls it from the active
// queue.
const KindFlag coop.Kind = "flag"

// Options configures a scenario run.
type Options struct {
	Logger   *slog.Logger
	Clock    coop.Clock
	IdleWait time.Duration
	Timeout  time.Duration
}

// Result reports what happened during a run.
type Result struct {
	Scenario string
	Elapsed  time.Duration
	Stats    coop.Stats
}

type flags map[string]bool

type flagWait struct {
	flags flags
	name  string
}

func (w flagWait) Ready() bool {
	return w.flags[w.name]
}

type run struct {
	exec    *coop.Executor
	printer *Printer
	flags   flags
	tasks   map[string]*coop.Task
	specs   map[string]config.Task
	logger  *slog.Logger
}

// Run runs scenario s on a fresh executor until all of its tasks complete,
// a task fails, the timeout passes, or ctx is done.
func Run(ctx context.Context, s config.Scenario, p *Printer, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("scenario", s.Name)

	clock := opts.Clock
	if clock == nil {
		clock = coop.WallClock()
	}

	r := &run{
		exec: coop.New(
			coop.WithClock(clock),
			coop.WithLogger(logger),
			coop.WithIdleWait(opts.IdleWait),
		),
		printer: p,
		flags:   make(flags),
		tasks:   make(map[string]*coop.Task, len(s.Tasks)),
		specs:   make(map[string]config.Task, len(s.Tasks)),
		logger:  logger,
	}

	r.exec.Handle(KindFlag, func(coop.Instruction) coop.Placement {
		return coop.Placement{Queue: coop.QueueActive}
	})

	for _, spec := range s.Tasks {
		r.specs[spec.Name] = spec
		r.tasks[spec.Name] = coop.NewTask(spec.Name, r.operation(spec))
	}

	for _, spec := range s.Tasks {
		if !spec.Deferred {
			r.exec.Admit(r.tasks[spec.Name])
		}
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	logger.Info("scenario started", "tasks", len(s.Tasks))

	start := clock.Now()
	err := r.exec.Loop(ctx)
	res := Result{Scenario: s.Name, Elapsed: clock.Now().Sub(start), Stats: r.exec.Stats()}

	if err != nil {
		logger.Error("scenario failed", "error", err, "elapsed", res.Elapsed)
		return res, fmt.Errorf("scenario %q: %w", s.Name, err)
	}

	logger.Info("scenario finished", "elapsed", res.Elapsed, "ticks", res.Stats.Ticks)
	return res, nil
}

func (r *run) operation(spec config.Task) coop.Operation {
	ops := make([]coop.Operation, 0, len(spec.Steps))
	for _, st := range spec.Steps {
		ops = append(ops, r.step(spec.Name, st))
	}
	return coop.Chain(ops...)
}

func (r *run) step(task string, st config.Step) coop.Operation {
	switch {
	case st.SleepMs != nil:
		d, err := config.Millis(*st.SleepMs)
		if err != nil {
			return fail(err)
		}
		return coop.Delay(d)
	case st.Immediate:
		return coop.Wait(coop.Immediate())
	case st.Idle:
		return coop.Wait(coop.HardIdle())
	case st.Print != "":
		text := st.Print
		return coop.Do(func() { r.printer.Print(task, text) })
	case st.Wake != "":
		target := st.Wake
		return coop.Do(func() {
			if !r.exec.Wake(r.tasks[target]) {
				r.logger.Warn("wake had no effect", "task", task, "target", target)
			}
		})
	case st.Spawn != "":
		target := st.Spawn
		return func(t *coop.Task) coop.Result {
			if r.tasks[target].Executor() != nil {
				return t.Fail(fmt.Errorf("task %q spawned twice", target))
			}
			r.exec.Admit(r.tasks[target])
			return t.End()
		}
	case st.Set != "":
		name := st.Set
		return coop.Do(func() { r.flags[name] = true })
	case st.WaitFor != "":
		return coop.Wait(coop.Custom(KindFlag, flagWait{flags: r.flags, name: st.WaitFor}))
	default:
		return coop.Nop()
	}
}

func fail(err error) coop.Operation {
	return func(t *coop.Task) coop.Result {
		return t.Fail(err)
	}
}
