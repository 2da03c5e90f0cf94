package coop

import "time"

// Kind identifies what an [Instruction] asks of an [Executor].
// The dispatcher routes a suspended [Task] by the Kind of the Instruction it
// yielded.
type Kind string

// Built-in kinds.
const (
	KindImmediate Kind = "immediate"
	KindPoll      Kind = "poll"
	KindSleep     Kind = "sleep"
	KindHardIdle  Kind = "hard-idle"
)

// Readier is the interface of anything that can tell whether a suspended
// [Task] may resume.
//
// Ready is called at most once per tick for each task waiting on it.
// It should be cheap and must not have side effects.
type Readier interface {
	Ready() bool
}

// A ReadyFunc is a func() bool that implements the [Readier] interface.
type ReadyFunc func() bool

// Ready implements the [Readier] interface.
func (f ReadyFunc) Ready() bool { return f() }

// An Instruction is what a [Task] yields when it suspends.
//
// The zero Instruction is [Immediate].
// Instructions are values; once made, they do not change.
type Instruction struct {
	kind     Kind
	deadline time.Time
	clock    Clock
	r        Readier
}

// Immediate returns an [Instruction] that is always ready.
// A task yielding it resumes on the next tick.
func Immediate() Instruction {
	return Instruction{kind: KindImmediate}
}

// Poll returns an [Instruction] that is ready whenever r is.
// A nil r is always ready.
func Poll(r Readier) Instruction {
	return Instruction{kind: KindPoll, r: r}
}

// Until returns an [Instruction] that is ready whenever f returns true.
func Until(f func() bool) Instruction {
	if f == nil {
		return Poll(nil)
	}
	return Poll(ReadyFunc(f))
}

// Sleep returns an [Instruction] that becomes ready once d has elapsed.
//
// The deadline is taken from the wall clock when Sleep is called, not when
// the instruction is yielded. Time spent between the two still counts.
// To sleep against the clock of a particular [Executor], use
// [Executor.Sleep].
func Sleep(d time.Duration) Instruction {
	return sleepOn(wallClock{}, d)
}

// SleepUntil returns an [Instruction] that becomes ready once the wall clock
// is past t.
func SleepUntil(t time.Time) Instruction {
	return Instruction{kind: KindSleep, deadline: t}
}

func sleepOn(c Clock, d time.Duration) Instruction {
	return Instruction{kind: KindSleep, deadline: c.Now().Add(d), clock: c}
}

// HardIdle returns an [Instruction] that is never ready.
// A task yielding it stays suspended until [Executor.Wake] is called with it.
func HardIdle() Instruction {
	return Instruction{kind: KindHardIdle}
}

// Custom returns an [Instruction] of kind k whose readiness is reported by r.
//
// Where a task yielding it is placed depends on the handler registered for k
// with [Executor.Handle]. Without one, it is treated like [Poll].
// Custom panics if k is one of the built-in kinds.
func Custom(k Kind, r Readier) Instruction {
	switch k {
	case "", KindImmediate, KindPoll, KindSleep, KindHardIdle:
		panic("coop: Custom with a built-in kind: " + string(k))
	}
	return Instruction{kind: k, r: r}
}

// Kind returns the kind of inst.
func (inst Instruction) Kind() Kind {
	if inst.kind == "" {
		return KindImmediate
	}
	return inst.kind
}

// Deadline returns the wake-up time of a sleep instruction.
// For other kinds it returns the zero time.
func (inst Instruction) Deadline() time.Time {
	return inst.deadline
}

// Readier returns the [Readier] that inst delegates to, if any.
// Handlers of custom kinds use it to get at their own state.
func (inst Instruction) Readier() Readier {
	return inst.r
}

// Ready reports whether a task suspended with inst may resume now.
func (inst Instruction) Ready() bool {
	switch inst.Kind() {
	case KindImmediate:
		return true
	case KindSleep:
		c := inst.clock
		if c == nil {
			c = wallClock{}
		}
		return inst.deadline.Before(c.Now())
	case KindHardIdle:
		return false
	default:
		return inst.r == nil || inst.r.Ready()
	}
}

// String returns the kind of inst, for logging.
func (inst Instruction) String() string {
	return string(inst.Kind())
}
