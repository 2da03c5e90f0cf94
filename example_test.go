package coop_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/b97tsk/coop"
)

func Example() {
	// Create an executor.
	// A manual clock lets the example sleep without waiting; the idle wait
	// is how far the clock moves each time nothing is ready.
	clock := coop.NewManualClock(time.Unix(0, 0))

	myExecutor := coop.New(coop.WithClock(clock), coop.WithIdleWait(time.Second))

	// A task that waits for a while, then wakes you up.
	wakeUpCall := func(d time.Duration) coop.Operation {
		return coop.FromSeq(func(yield func(coop.Instruction) bool) {
			if !yield(myExecutor.Sleep(d)) {
				return
			}
			fmt.Println("Rise and shine!")
		})
	}

	// A task that simulates a slow request: a helper task makes the socket
	// readable after 6 seconds, while the request polls for it.
	webRequest := coop.FromSeq(func(yield func(coop.Instruction) bool) {
		readable := false

		myExecutor.Spawn("socket", coop.Chain(
			coop.Delay(6*time.Second),
			coop.Do(func() { readable = true }),
		))

		if !yield(coop.Until(func() bool { return readable })) {
			return
		}

		fmt.Println("Connected.")
	})

	myExecutor.Spawn("wake-up call", wakeUpCall(5*time.Second))
	myExecutor.Spawn("web request", webRequest)

	// Run until every task completes.
	if err := myExecutor.Loop(context.Background()); err != nil {
		fmt.Println(err)
	}

	fmt.Println("finished:", myExecutor.Finished())

	// Output:
	// Rise and shine!
	// Connected.
	// finished: true
}

// This example demonstrates how a hard-idled task is woken up.
func Example_hardIdle() {
	var myExecutor coop.Executor

	c := myExecutor.Spawn("C", func(t *coop.Task) coop.Result {
		return t.Yield(coop.HardIdle(), coop.Do(func() { fmt.Println("woken") }))
	})

	for range 5 {
		_ = myExecutor.Step()
	}

	fmt.Println("--- SEPARATOR ---")

	myExecutor.Wake(c)

	_ = myExecutor.Step()
	_ = myExecutor.Step()

	fmt.Println("ended:", c.Ended())

	// Output:
	// --- SEPARATOR ---
	// woken
	// ended: true
}

func ExampleFromSeq() {
	var myExecutor coop.Executor

	var myState coop.State[int]

	myExecutor.Spawn("odd printer", coop.FromSeq(
		func(yield func(coop.Instruction) bool) {
			for yield(myState.Await()) {
				v := myState.Get()
				if v%2 != 0 {
					fmt.Println(v)
				}
				if v >= 7 {
					return
				}
			}
		},
	))

	for i := 1; i <= 9; i++ {
		myExecutor.Spawn("setter", coop.Do(func() { myState.Set(i) }))
		_ = myExecutor.Step()
		_ = myExecutor.Step()
	}

	fmt.Println(myState.Get()) // Prints 9.

	// Output:
	// 1
	// 3
	// 5
	// 7
	// 9
}

func ExampleChain() {
	var myExecutor coop.Executor

	myExecutor.Spawn("steps", coop.Chain(
		coop.Do(func() { fmt.Println("one") }),
		coop.Wait(coop.Immediate()),
		coop.Do(func() { fmt.Println("two") }),
		coop.Wait(coop.Immediate()),
		coop.Do(func() { fmt.Println("three") }),
	))

	for !myExecutor.Finished() {
		fmt.Println("tick")
		_ = myExecutor.Step()
	}

	// Output:
	// tick
	// one
	// tick
	// two
	// tick
	// three
}

func ExampleLoopN() {
	var myExecutor coop.Executor

	myExecutor.Spawn("loop", coop.LoopN(3, func() coop.Operation {
		return coop.Do(func() { fmt.Println("iteration") }).Then(coop.Wait(coop.Immediate()))
	}))

	if err := myExecutor.Loop(context.Background()); err != nil {
		fmt.Println(err)
	}

	fmt.Println("ticks:", myExecutor.Stats().Ticks)

	// Output:
	// iteration
	// iteration
	// iteration
	// ticks: 4
}

func ExampleExecutor_Handle() {
	clock := coop.NewManualClock(time.Unix(0, 0))

	myExecutor := coop.New(coop.WithClock(clock))

	// A deadline is a custom instruction that sleeps until a time.
	type deadline struct {
		coop.ReadyFunc
		at time.Time
	}

	const kindDeadline coop.Kind = "deadline"

	myExecutor.Handle(kindDeadline, func(inst coop.Instruction) coop.Placement {
		return coop.Placement{Queue: coop.QueueDelayed, WakeAt: inst.Readier().(*deadline).at}
	})

	until := func(at time.Time) coop.Instruction {
		return coop.Custom(kindDeadline, &deadline{
			ReadyFunc: func() bool { return clock.Now().After(at) },
			at:        at,
		})
	}

	myExecutor.Spawn("alarm", coop.Wait(until(time.Unix(60, 0))).Then(coop.Do(func() {
		fmt.Println("alarm at", clock.Now().Unix())
	})))

	_ = myExecutor.Step()

	fmt.Printf("%+v\n", myExecutor.Stats())

	clock.Advance(61 * time.Second)

	_ = myExecutor.Step()

	// Output:
	// {Ticks:1 Resumed:1 Completed:0 Failed:0 Active:0 Delayed:1 Idle:0}
	// alarm at 61
}

// This example demonstrates how failures come out of an executor.
func Example_failure() {
	var myExecutor coop.Executor

	errDummy := errors.New("dummy")

	myExecutor.Spawn("failing", func(t *coop.Task) coop.Result {
		return t.Fail(errDummy)
	})

	err := myExecutor.Loop(context.Background())
	fmt.Println(errors.Is(err, errDummy))
	fmt.Println(err)

	myExecutor.Spawn("panicking", func(t *coop.Task) coop.Result {
		panic("oops")
	})

	err = myExecutor.Loop(context.Background())

	var pe *coop.PanicError
	if errors.As(err, &pe) {
		fmt.Println(pe.Task, pe.Value)
	}

	// Output:
	// true
	// coop: task "failing": dummy
	// panicking oops
}
