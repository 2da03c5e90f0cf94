package coop

import "time"

// Queue names one of the three containers an [Executor] keeps suspended
// tasks in.
type Queue uint8

const (
	// QueueActive holds tasks whose Instruction is checked on every tick.
	QueueActive Queue = iota
	// QueueDelayed holds tasks ordered by the time they wake up.
	QueueDelayed
	// QueueHardIdle holds tasks that only [Executor.Wake] can bring back.
	QueueHardIdle
)

func (q Queue) String() string {
	switch q {
	case QueueActive:
		return "active"
	case QueueDelayed:
		return "delayed"
	case QueueHardIdle:
		return "hard-idle"
	default:
		return "unknown"
	}
}

// Placement tells an [Executor] where to put a suspended task.
// WakeAt is only used with [QueueDelayed].
type Placement struct {
	Queue  Queue
	WakeAt time.Time
}

// A PlacementFunc decides the [Placement] of a task that has just yielded
// inst.
type PlacementFunc func(inst Instruction) Placement

func placeActive(Instruction) Placement {
	return Placement{Queue: QueueActive}
}

func placeDelayed(inst Instruction) Placement {
	return Placement{Queue: QueueDelayed, WakeAt: inst.Deadline()}
}

func placeHardIdle(Instruction) Placement {
	return Placement{Queue: QueueHardIdle}
}

func builtinHandlers() map[Kind]PlacementFunc {
	return map[Kind]PlacementFunc{
		KindImmediate: placeActive,
		KindPoll:      placeActive,
		KindSleep:     placeDelayed,
		KindHardIdle:  placeHardIdle,
	}
}

// Handle registers f as the placement handler for instructions of kind k,
// replacing any previous one, built-in kinds included.
// Passing a nil f removes the handler; instructions of kind k then land in
// the active queue.
//
// Handle must not be called while e is running a tick.
func (e *Executor) Handle(k Kind, f PlacementFunc) {
	if e.handlers == nil {
		e.handlers = builtinHandlers()
	}
	if f == nil {
		delete(e.handlers, k)
		return
	}
	e.handlers[k] = f
}

func (e *Executor) placement(inst Instruction) Placement {
	if e.handlers == nil {
		e.handlers = builtinHandlers()
	}
	f := e.handlers[inst.Kind()]
	if f == nil {
		f = placeActive
	}
	return f(inst)
}

// dispatch places t, which has just yielded inst, into exactly one queue.
func (e *Executor) dispatch(t *Task, inst Instruction) {
	switch p := e.placement(inst); p.Queue {
	case QueueDelayed:
		e.seq++
		e.delayed.Push(&delayedEntry{wakeAt: p.WakeAt, seq: e.seq, task: t})
		t.loc = locDelayed
	case QueueHardIdle:
		if e.idle == nil {
			e.idle = make(map[*Task]struct{})
		}
		e.idle[t] = struct{}{}
		t.loc = locIdle
	default:
		e.active = append(e.active, activeEntry{task: t, inst: inst})
		t.loc = locActive
	}
}
