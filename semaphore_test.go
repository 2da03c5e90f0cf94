package coop_test

import (
	"context"
	"testing"

	"github.com/b97tsk/coop"
)

func TestSemaphore(t *testing.T) {
	t.Run("TryAcquire", func(t *testing.T) {
		sema := coop.NewSemaphore(10)

		if !sema.TryAcquire(6) {
			t.Fatal("TryAcquire(6) of 10 failed")
		}

		if sema.TryAcquire(5) {
			t.Fatal("TryAcquire(5) succeeded with 4 left")
		}

		sema.Release(6)

		if !sema.TryAcquire(10) {
			t.Fatal("TryAcquire(10) failed after Release")
		}
	})
	t.Run("Acquire", func(t *testing.T) {
		var e coop.Executor

		sema := coop.NewSemaphore(1)

		held := 0
		maxHeld := 0

		worker := func() coop.Operation {
			return coop.Chain(
				sema.Acquire(1),
				coop.Do(func() {
					held++
					maxHeld = max(maxHeld, held)
				}),
				coop.Wait(coop.Immediate()),
				coop.Do(func() {
					held--
					sema.Release(1)
				}),
			)
		}

		for range 5 {
			e.Spawn("worker", worker())
		}

		if err := e.Loop(context.Background()); err != nil {
			t.Fatal(err)
		}

		if maxHeld != 1 || held != 0 {
			t.Fatalf("held %d at most, %d at the end", maxHeld, held)
		}
	})
	t.Run("TooHeavy", func(t *testing.T) {
		var e coop.Executor

		e.Spawn("greedy", coop.NewSemaphore(1).Acquire(2))

		if err := e.Step(); err == nil {
			t.Fatal("Acquire of more than the size did not fail")
		}
	})
	t.Run("ReleaseMoreThanHeld", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("Release did not panic")
			}
		}()

		coop.NewSemaphore(1).Release(1)
	})
}
