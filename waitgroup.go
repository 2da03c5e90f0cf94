package coop

// A WaitGroup is a counter that tasks can wait on to become zero.
//
// A WaitGroup must not be shared by more than one [Executor].
type WaitGroup struct {
	n int
}

// Add adds delta, which may be negative, to the [WaitGroup] counter.
// If the [WaitGroup] counter is negative, Add panics.
func (wg *WaitGroup) Add(delta int) {
	if wg.n >= 0 {
		wg.n += delta
	}
	if wg.n < 0 {
		panic("coop(WaitGroup): negative counter")
	}
}

// Done decrements the [WaitGroup] counter by one.
func (wg *WaitGroup) Done() {
	wg.Add(-1)
}

// Await returns an [Instruction] that is ready whenever the [WaitGroup]
// counter is zero.
func (wg *WaitGroup) Await() Instruction {
	return Poll(wg)
}

// Ready reports whether the counter is zero.
// It makes a WaitGroup a [Readier].
func (wg *WaitGroup) Ready() bool {
	return wg.n == 0
}
