// Package coop is a minimal cooperative task scheduler.
//
// An [Executor] is a single-threaded run-loop. It repeatedly resumes a set
// of suspended [Task]s, each of which, when resumed, runs until it yields an
// [Instruction] describing when it wants to be resumed again, or until it
// completes.
// One can create as many executors as they like.
// Executors share nothing, so independent executors can run in different
// goroutines at the same time.
//
// # Instructions
//
// An [Instruction] answers a single question: is the task that yielded it
// ready to be resumed now?
// The following kinds are built in:
//   - [Immediate]: ready on the very next tick;
//   - [Poll] (and [Until]): ready once a caller-supplied predicate reports
//     true, re-checked once per tick;
//   - [Sleep] (and [SleepUntil]): ready once the clock passes a deadline
//     captured when the instruction is created;
//   - [HardIdle]: never ready on its own; only [Executor.Wake] brings the task
//     back.
//
// Other kinds can be made with [Custom] and routed with [Executor.Handle].
// A kind without a handler is treated like [Poll].
//
// # Tasks
//
// A [Task] is created with a function called [Operation].
// Each time a task is resumed, its Operation is called with the task as the
// argument, and the returned [Result] determines what happens next: suspend
// with an Instruction, switch to another Operation, end, or fail.
//
// Operations are ordinary functions, so a task is an explicit state machine.
// For code that reads top to bottom, [FromSeq] turns a range function that
// yields Instructions into an Operation:
//
//	task := coop.NewTask("greeter", coop.FromSeq(func(yield func(coop.Instruction) bool) {
//		if !yield(coop.Sleep(100 * time.Millisecond)) {
//			return
//		}
//		fmt.Println("done")
//	}))
//
// # Ticks
//
// [Executor.Step] runs exactly one tick. A tick first resumes every sleeping
// task whose deadline has passed, in deadline order, and then scans the
// active tasks once, resuming each one whose Instruction is ready.
// A task resumed during a tick is never resumed again in the same tick, even
// if it yields [Immediate].
//
// [Executor.Loop] runs ticks until nothing is pending.
// By default the loop busy-polls: a tick in which nothing is ready returns
// immediately and the next tick starts right away.
// Use [WithIdleWait] to make the loop pause between idle ticks.
//
// # Failures
//
// A task may fail by returning [Task.Fail], or by panicking.
// Either way the task is dropped and the failure is returned from
// [Executor.Step], halting that tick.
// A recovered panic is reported as a [*PanicError] that carries the stack
// trace.
// The executor has no policy for partial failure; callers that want to keep
// going simply call Step (or Loop) again.
package coop
