package coop

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// An Executor is a [Task] runner.
//
// An Executor keeps suspended tasks in one of three queues, according to the
// [Instruction] each of them last yielded:
//   - an active queue, scanned once per tick, for tasks whose Instruction is
//     checked by calling its Ready method;
//   - a delayed queue, a min-heap ordered by wake-up time, for sleeping tasks;
//   - a hard-idle set, for tasks that only [Executor.Wake] can bring back.
//
// A task is in at most one of them at any time, and in none while it runs.
//
// The Step method runs one tick; the Loop method runs ticks until all three
// queues are empty.
// It is done in a single-threaded manner.
// If one Task blocks, no other Tasks can run.
// The best practice is not to block.
//
// The zero value of Executor is ready to use, with the wall clock and no
// logging. Use [New] to configure one.
//
// An Executor is not safe for concurrent use.
type Executor struct {
	clock    Clock
	logger   *slog.Logger
	idleWait time.Duration
	handlers map[Kind]PlacementFunc
	active   []activeEntry
	delayed  priorityqueue[*delayedEntry]
	idle     map[*Task]struct{}
	seq      uint64
	running  bool
	stepping bool
	stats    Stats
}

type activeEntry struct {
	task *Task
	inst Instruction
}

type delayedEntry struct {
	wakeAt time.Time
	seq    uint64
	task   *Task
}

func (d *delayedEntry) less(other *delayedEntry) bool {
	if d.wakeAt.Equal(other.wakeAt) {
		return d.seq < other.seq
	}
	return d.wakeAt.Before(other.wakeAt)
}

// Stats is a snapshot of what an [Executor] has done and holds.
type Stats struct {
	Ticks     uint64 // Calls to Step.
	Resumed   uint64 // Times a task was resumed.
	Completed uint64 // Tasks that ended normally.
	Failed    uint64 // Tasks that failed or panicked.
	Active    int    // Tasks in the active queue.
	Delayed   int    // Tasks in the delayed queue.
	Idle      int    // Tasks in the hard-idle set.
}

// New creates an [Executor] configured by opts.
func New(opts ...Option) *Executor {
	e := &Executor{handlers: builtinHandlers()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Executor) now() time.Time {
	if e.clock == nil {
		e.clock = wallClock{}
	}
	return e.clock.Now()
}

// Sleep returns an [Instruction] that becomes ready once d has elapsed on
// the clock of e.
// Like [Sleep], the deadline is fixed when Sleep is called.
func (e *Executor) Sleep(d time.Duration) Instruction {
	e.now()
	return sleepOn(e.clock, d)
}

// Admit adds t to e. t resumes on the next tick.
//
// A Task can only be admitted once. Admit panics if t has already been
// admitted into any Executor, or if t has ended.
func (e *Executor) Admit(t *Task) {
	switch {
	case t.loc == locEnded:
		panic("coop: Admit an ended task")
	case t.executor != nil:
		panic("coop: Admit a task already admitted")
	}
	t.executor = e
	e.activate(t)
	e.debug("task admitted", t)
}

// Spawn creates a [Task] named name to work on op, admits it into e, and
// returns it.
func (e *Executor) Spawn(name string, op Operation) *Task {
	t := NewTask(name, op)
	e.Admit(t)
	return t
}

// Wake moves t, if it is hard-idled in e, back into the active queue so that
// it resumes on the next tick, and reports true.
// Otherwise, Wake does nothing and reports false. It is safe to call Wake
// more than once, or with a task that belongs to another Executor.
func (e *Executor) Wake(t *Task) bool {
	if _, ok := e.idle[t]; !ok {
		return false
	}
	delete(e.idle, t)
	e.activate(t)
	e.debug("task woken", t)
	return true
}

func (e *Executor) activate(t *Task) {
	e.active = append(e.active, activeEntry{task: t, inst: Immediate()})
	t.loc = locActive
}

// Running reports whether e is inside a call to Loop with work pending.
func (e *Executor) Running() bool {
	return e.running
}

// Finished reports whether all three queues of e are empty.
func (e *Executor) Finished() bool {
	return len(e.active) == 0 && e.delayed.Empty() && len(e.idle) == 0
}

// Stats returns a snapshot of the counters and queue sizes of e.
func (e *Executor) Stats() Stats {
	s := e.stats
	s.Active = len(e.active)
	s.Delayed = e.delayed.Len()
	s.Idle = len(e.idle)
	return s
}

// Step runs one tick.
//
// First, every sleeping task whose wake-up time is before the time Step
// started is resumed, earliest first.
// Then, every task in the active queue at that point is checked once, and
// resumed if its Instruction is ready.
// Tasks that land in the active queue during the tick are left for the next
// one.
//
// If a task fails or panics, Step returns the error right away; the rest of
// the tick is skipped.
//
// Step must not be called from within a task.
func (e *Executor) Step() error {
	if e.stepping {
		panic("coop: Step called from within a task")
	}
	e.stepping = true
	defer func() { e.stepping = false }()

	e.stats.Ticks++

	if err := e.stepDelayed(); err != nil {
		return err
	}
	return e.stepActive()
}

func (e *Executor) stepDelayed() error {
	now := e.now()
	for !e.delayed.Empty() {
		if !e.delayed.Peek().wakeAt.Before(now) {
			break
		}
		d := e.delayed.Pop()
		if err := e.resume(d.task); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) stepActive() error {
	// Only entries in active[:end] are scanned this tick.
	// New entries are appended past end.
	end := len(e.active)
	for i := 0; i < end; {
		entry := e.active[i]
		if !entry.inst.Ready() {
			i++
			continue
		}

		// Remove before resuming, in O(1): the last scanned entry fills the
		// hole and the newest entry fills its place.
		last := len(e.active) - 1
		e.active[i] = e.active[end-1]
		e.active[end-1] = e.active[last]
		e.active[last] = activeEntry{}
		e.active = e.active[:last]
		end--

		if err := e.resume(entry.task); err != nil {
			return err
		}
	}
	return nil
}

// resume advances t by one step and dispatches whatever it yields.
func (e *Executor) resume(t *Task) error {
	t.loc = locRunning
	e.stats.Resumed++

	var res Result

	for {
		op := t.op
		if err := try(t.name, func() { res = op(t) }); err != nil {
			return e.fail(t, err)
		}

		if res.op != nil {
			t.op = res.op
		}

		if res.action != doSwitch {
			break
		}
	}

	switch res.action {
	case doYield:
		e.dispatch(t, res.inst)
		return nil
	case doFail:
		return e.fail(t, fmt.Errorf("coop: task %q: %w", t.name, res.err))
	}

	e.stats.Completed++
	e.debug("task completed", t)
	return try(t.name, t.end)
}

func (e *Executor) fail(t *Task, err error) error {
	e.stats.Failed++
	e.debug("task failed", t, "error", err)
	if derr := try(t.name, t.end); derr != nil {
		return fmt.Errorf("%w (and then: %w)", err, derr)
	}
	return err
}

// Loop runs ticks until e is finished.
//
// Loop returns nil when all queues are empty, ctx.Err() if ctx is done
// before that, or the first error returned by Step.
// ctx is checked between ticks; a running task is never interrupted.
//
// Unless [WithIdleWait] is used, Loop never pauses: while tasks are pending
// but none is ready, it keeps polling.
// Tasks left hard-idled with nobody to wake them keep Loop going until ctx
// is done.
func (e *Executor) Loop(ctx context.Context) error {
	defer func() { e.running = false }()

	for !e.Finished() {
		if err := ctx.Err(); err != nil {
			return err
		}

		e.running = true

		resumed := e.stats.Resumed

		if err := e.Step(); err != nil {
			return err
		}

		if e.idleWait > 0 && e.stats.Resumed == resumed {
			e.pause()
		}
	}

	return nil
}

func (e *Executor) pause() {
	d := e.idleWait
	if !e.delayed.Empty() {
		// A deadline is due once the clock is strictly past it.
		until := e.delayed.Peek().wakeAt.Sub(e.now()) + time.Nanosecond
		if until < d {
			d = until
		}
	}
	if d > 0 {
		e.clock.Sleep(d)
	}
}

func (e *Executor) debug(msg string, t *Task, args ...any) {
	if e.logger == nil || !e.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	e.logger.Debug(msg, append([]any{"task", t.name}, args...)...)
}
