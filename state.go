package coop

// A State is a [Signal] that carries a value.
// To retrieve the value, call the Get method.
//
// Calling the Set method of a state updates the value and notifies any task
// waiting on the state.
//
// A State must not be shared by more than one [Executor].
type State[T any] struct {
	Signal
	value T
}

// NewState creates a new [State] with its initial value set to v.
func NewState[T any](v T) *State[T] {
	return &State[T]{value: v}
}

// Get retrieves the value of s.
func (s *State[T]) Get() T {
	return s.value
}

// Set updates the value of s and notifies any task waiting on s.
func (s *State[T]) Set(v T) {
	s.value = v
	s.Notify()
}

// Update sets the value of s to f(s.Get()) and notifies any task waiting on s.
func (s *State[T]) Update(f func(v T) T) {
	s.Set(f(s.value))
}

// Until returns an [Instruction] that is ready whenever f reports true for
// the value of s.
func (s *State[T]) Until(f func(v T) bool) Instruction {
	return Until(func() bool { return f(s.value) })
}
