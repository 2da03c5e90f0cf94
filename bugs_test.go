package coop_test

import (
	"testing"

	"github.com/b97tsk/coop"
)

func TestBugs(t *testing.T) {
	t.Run("SwapRemove-1", func(t *testing.T) {
		// A task that re-enters the active queue while the scan is in
		// progress must neither be resumed again in the same tick, nor push
		// a still-pending task out of the scan window.
		var e coop.Executor

		counts := map[string]int{}

		immediateForever := func(name string) coop.Operation {
			return func(t *coop.Task) coop.Result {
				counts[name]++
				return t.Await(coop.Immediate())
			}
		}

		e.Spawn("a", immediateForever("a"))
		e.Spawn("b", immediateForever("b"))
		e.Spawn("c", immediateForever("c"))
		e.Spawn("d", immediateForever("d"))

		for tick := 1; tick <= 3; tick++ {
			if err := e.Step(); err != nil {
				t.Fatal(err)
			}
			for _, name := range []string{"a", "b", "c", "d"} {
				if counts[name] != tick {
					t.Fatalf("tick %d: task %s resumed %d times", tick, name, counts[name])
				}
			}
		}
	})
	t.Run("SwapRemove-2", func(t *testing.T) {
		// Not-ready tasks interleaved with ready ones that spawn more tasks.
		var e coop.Executor

		var gate bool

		counts := map[string]int{}

		waiter := func(name string) coop.Operation {
			return func(t *coop.Task) coop.Result {
				counts[name]++
				if gate {
					return t.End()
				}
				return t.Await(coop.Until(func() bool { return gate }))
			}
		}

		spawner := func(name string) coop.Operation {
			return func(t *coop.Task) coop.Result {
				counts[name]++
				t.Executor().Spawn(name+"'", func(t *coop.Task) coop.Result {
					counts[name+"'"]++
					return t.End()
				})
				return t.Await(coop.Immediate())
			}
		}

		e.Spawn("w1", waiter("w1"))
		e.Spawn("s1", spawner("s1"))
		e.Spawn("w2", waiter("w2"))
		e.Spawn("s2", spawner("s2"))

		if err := e.Step(); err != nil {
			t.Fatal(err)
		}

		for name, want := range map[string]int{"w1": 1, "w2": 1, "s1": 1, "s2": 1, "s1'": 0, "s2'": 0} {
			if counts[name] != want {
				t.Fatalf("after tick 1: task %s resumed %d times, want %d", name, counts[name], want)
			}
		}

		if err := e.Step(); err != nil {
			t.Fatal(err)
		}

		for name, want := range map[string]int{"w1": 1, "w2": 1, "s1": 2, "s2": 2, "s1'": 1, "s2'": 1} {
			if counts[name] != want {
				t.Fatalf("after tick 2: task %s resumed %d times, want %d", name, counts[name], want)
			}
		}

		gate = true

		if err := e.Step(); err != nil {
			t.Fatal(err)
		}

		if counts["w1"] != 2 || counts["w2"] != 2 {
			t.Fatalf("waiters not resumed after gate opened: %v", counts)
		}

		if s := e.Stats(); s.Active != 4 {
			t.Fatalf("want 4 active tasks (2 spawners, 2 new spawns), got %d", s.Active)
		}
	})
}
