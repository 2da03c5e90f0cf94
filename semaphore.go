package coop

import "fmt"

// Semaphore provides a way to bound access to a resource among tasks of
// one [Executor].
// The callers can request access with a given weight.
//
// Waiters are not queued: whichever task is resumed first after weight
// becomes available gets it.
//
// A Semaphore must not be shared by more than one [Executor].
type Semaphore struct {
	size int64
	cur  int64
}

// NewSemaphore creates a new weighted semaphore with the given maximum
// combined weight.
func NewSemaphore(n int64) *Semaphore {
	return &Semaphore{size: n}
}

// TryAcquire acquires the semaphore with a weight of n without waiting.
// On success, returns true. On failure, returns false and leaves the
// semaphore unchanged.
func (s *Semaphore) TryAcquire(n int64) bool {
	if n < 0 {
		panic("coop(Semaphore): negative weight")
	}
	if s.size-s.cur < n {
		return false
	}
	s.cur += n
	return true
}

// Acquire returns an [Operation] that waits until a weight of n is acquired
// from the semaphore, and then completes.
//
// Asking for more than the size of the semaphore fails the task.
func (s *Semaphore) Acquire(n int64) Operation {
	if n < 0 {
		panic("coop(Semaphore): negative weight")
	}
	available := func() bool { return s.size-s.cur >= n }
	return func(t *Task) Result {
		if s.TryAcquire(n) {
			return t.End()
		}
		if n > s.size {
			return t.Fail(fmt.Errorf("coop(Semaphore): weight %d exceeds size %d", n, s.size))
		}
		return t.Await(Until(available))
	}
}

// Release releases the semaphore with a weight of n.
func (s *Semaphore) Release(n int64) {
	if n < 0 {
		panic("coop(Semaphore): negative weight")
	}
	if s.cur >= 0 {
		s.cur -= n
	}
	if s.cur < 0 {
		panic("coop(Semaphore): released more than held")
	}
}
