package coop

import (
	"errors"
	"iter"
	"time"
)

const (
	doEnd = iota
	doYield
	doSwitch
	doFail
)

type location uint8

const (
	locNone location = iota
	locActive
	locDelayed
	locIdle
	locRunning
	locEnded
)

// A Task is an execution of code, similar to a goroutine but cooperative and
// stackless.
//
// A Task is created with a function called [Operation].
// A Task's job is to complete it.
// When an [Executor] resumes a Task, it calls the Operation with the Task as
// the argument.
// The return value determines whether to end the Task, or to suspend it with
// an [Instruction] so that it could resume later.
//
// A Task can also switch to work on another Operation according to the
// return value of the Operation.
// A Task can switch from one Operation to another until an Operation ends it.
//
// A Task is tracked by at most one Executor, and at most once.
type Task struct {
	name     string
	op       Operation
	executor *Executor
	loc      location
	defers   []func()
}

// NewTask creates a [Task] named name to work on op.
// The name is only used in logs and errors.
//
// The Task does nothing until it is admitted into an [Executor].
func NewTask(name string, op Operation) *Task {
	if op == nil {
		panic("coop: NewTask with nil Operation")
	}
	return &Task{name: name, op: op}
}

// Name returns the name of t.
func (t *Task) Name() string {
	return t.name
}

// Executor returns the [Executor] that t has been admitted into, or nil.
func (t *Task) Executor() *Executor {
	return t.executor
}

// Ended reports whether t has ended, successfully or not.
func (t *Task) Ended() bool {
	return t.loc == locEnded
}

// Defer adds a function call for when t ends, successfully or not.
// Deferred calls run in last-in-first-out order.
func (t *Task) Defer(f func()) {
	t.defers = append(t.defers, f)
}

func (t *Task) end() {
	t.loc = locEnded
	t.op = nil
	defers := t.defers
	t.defers = nil
	for i := len(defers) - 1; i >= 0; i-- {
		defers[i]()
	}
}

// Result is the type of the return value of an [Operation].
// A Result determines what next for a [Task] to do after calling an
// Operation.
//
// A Result can be created by calling one of the following methods of Task:
//   - [Task.End]: for ending a Task;
//   - [Task.Await]: for suspending a Task with an [Instruction];
//   - [Task.Yield]: for suspending a Task with an Instruction and another
//     Operation to which will be switched when resuming;
//   - [Task.Switch]: for switching to another Operation;
//   - [Task.Fail]: for ending a Task with an error.
type Result struct {
	action int
	inst   Instruction
	op     Operation
	err    error
}

// End returns a [Result] that will cause t to end or switch to work on
// another [Operation] in a [Chain].
func (t *Task) End() Result {
	return Result{action: doEnd}
}

// Await returns a [Result] that will cause t to suspend with inst.
// When t resumes, the current [Operation] is called again.
func (t *Task) Await(inst Instruction) Result {
	return Result{action: doYield, inst: inst}
}

// Yield returns a [Result] that will cause t to suspend with inst.
// op becomes the current [Operation] of t so that, when t resumes, op is
// called instead.
func (t *Task) Yield(inst Instruction, op Operation) Result {
	if op == nil {
		panic("Yield(nil): undefined behavior")
	}
	return Result{action: doYield, inst: inst, op: op}
}

// Switch returns a [Result] that will cause t to switch to work on op.
// op is called immediately as the current [Operation] of t.
func (t *Task) Switch(op Operation) Result {
	if op == nil {
		panic("Switch(nil): undefined behavior")
	}
	return Result{action: doSwitch, op: op}
}

// Fail returns a [Result] that will cause t to end with err.
// The [Executor] drops t and returns err from [Executor.Step].
func (t *Task) Fail(err error) Result {
	if err == nil {
		panic("Fail(nil): undefined behavior")
	}
	return Result{action: doFail, err: err}
}

// An Operation is a piece of work that a [Task] is given to do.
// The return value of an Operation, a [Result], determines what next for
// a Task to do.
type Operation func(t *Task) Result

// Chain returns an [Operation] that will work on each of the provided
// Operations in sequence.
// When one Operation completes, Chain works on another.
//
// The returned Operation keeps its progress, so it must not be shared by
// more than one Task.
func Chain(s ...Operation) Operation {
	var op Operation
	return func(t *Task) Result {
		if op == nil {
			if len(s) == 0 {
				return t.End()
			}
			op, s = s[0], s[1:]
		}
		switch res := op(t); res.action {
		case doEnd:
			op = nil
			return Result{action: doSwitch}
		case doYield, doSwitch:
			if res.op != nil {
				op = res.op
			}
			return Result{action: res.action, inst: res.inst}
		case doFail:
			return res
		default:
			panic("internal error: unknown action")
		}
	}
}

// Then returns an [Operation] that first works on op, then switches to
// work on next after op completes.
//
// To chain multiple Operations, use [Chain] function.
func (op Operation) Then(next Operation) Operation {
	if next == nil {
		panic("Then(nil): undefined behavior")
	}
	return func(t *Task) Result {
		switch res := op(t); res.action {
		case doEnd:
			return Result{action: doSwitch, op: next}
		case doYield, doSwitch:
			if res.op != nil {
				op = res.op
			}
			return Result{action: res.action, inst: res.inst}
		case doFail:
			return res
		default:
			panic("internal error: unknown action")
		}
	}
}

// Do returns an [Operation] that calls f, and then completes.
func Do(f func()) Operation {
	return func(t *Task) Result {
		f()
		return t.End()
	}
}

// Nop returns an [Operation] that completes without doing anything.
func Nop() Operation {
	return (*Task).End
}

// Wait returns an [Operation] that suspends once with inst, and then
// completes.
//
// A sleep instruction passed to Wait has its deadline fixed already.
// To start counting when the Operation runs, use [Delay].
func Wait(inst Instruction) Operation {
	return func(t *Task) Result {
		return t.Yield(inst, Nop())
	}
}

// Delay returns an [Operation] that sleeps for d, counted from when it
// runs, and then completes.
// The sleep uses the clock of the [Executor] running the task.
func Delay(d time.Duration) Operation {
	return func(t *Task) Result {
		return t.Yield(t.executor.Sleep(d), Nop())
	}
}

// ErrBreak is returned by the Operation passed to [Loop] and [LoopN] via
// [Task.Fail] to stop the loop without failing.
var ErrBreak = errors.New("coop: break")

// Loop returns an [Operation] that repeatedly works on the Operation made by
// newOp, until one of them fails.
// Failing with [ErrBreak] ends the loop instead.
//
// newOp is called once per iteration so that iterations do not share state.
func Loop(newOp func() Operation) Operation {
	return loop(-1, newOp)
}

// LoopN is like [Loop] but stops after n iterations.
func LoopN(n int, newOp func() Operation) Operation {
	return loop(n, newOp)
}

func loop(n int, newOp func() Operation) Operation {
	var op Operation
	return func(t *Task) Result {
		for {
			if op == nil {
				if n == 0 {
					return t.End()
				}
				if n > 0 {
					n--
				}
				op = newOp()
			}
			res := op(t)
			switch res.action {
			case doEnd:
				op = nil
				continue
			case doSwitch:
				if res.op != nil {
					op = res.op
				}
				continue
			case doYield:
				if res.op != nil {
					op = res.op
				}
				return Result{action: doYield, inst: res.inst}
			case doFail:
				if errors.Is(res.err, ErrBreak) {
					return t.End()
				}
				return res
			default:
				panic("internal error: unknown action")
			}
		}
	}
}

// FromSeq returns an [Operation] that works through seq, a range function
// that yields Instructions.
// Each yielded Instruction suspends the [Task]; when the Task resumes, seq
// continues from where it left off.
// When seq returns, the Operation completes.
//
// seq runs on its own goroutine but strictly in turns with the [Executor]:
// the Executor waits while seq runs, and seq waits while suspended.
// A Task that never completes keeps seq parked; drive such Tasks to
// completion, or wake them so they can return.
func FromSeq(seq iter.Seq[Instruction]) Operation {
	return func(t *Task) Result {
		next, stop := iter.Pull(seq)
		t.Defer(stop)
		var pull Operation
		pull = func(t *Task) Result {
			inst, ok := next()
			if !ok {
				return t.End()
			}
			return t.Yield(inst, pull)
		}
		return t.Switch(pull)
	}
}
