package coop

// Signal is a notification that tasks can wait for.
//
// Calling the Notify method of a Signal makes every [Instruction] previously
// returned by its Await method ready.
//
// A Signal must not be shared by more than one [Executor].
type Signal struct {
	gen uint64
}

// Notify makes every pending [Signal.Await] instruction of s ready.
//
// One should only call this method in an [Operation], or between ticks.
func (s *Signal) Notify() {
	s.gen++
}

// Await returns an [Instruction] that becomes ready once s is notified after
// Await returns.
func (s *Signal) Await() Instruction {
	return Poll(&signalWait{s: s, gen: s.gen})
}

type signalWait struct {
	s   *Signal
	gen uint64
}

func (w *signalWait) Ready() bool {
	return w.s.gen != w.gen
}
