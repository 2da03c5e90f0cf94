package coop

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// A PanicError is returned from [Executor.Step] when a [Task] panics.
// It records the panic value and the stack trace of the panicking goroutine.
type PanicError struct {
	Task  string
	Value any
	Stack []byte
}

func (pe *PanicError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "coop: task %q panicked: %v", pe.Task, pe.Value)
	if pe.Stack != nil {
		b.WriteString("\n\n")
		b.Write(pe.Stack)
	}
	return b.String()
}

// Unwrap returns the panic value if it is an error.
func (pe *PanicError) Unwrap() error {
	if err, ok := pe.Value.(error); ok {
		return err
	}
	return nil
}

// try calls f and converts a panic into a [*PanicError].
func try(name string, f func()) (err error) {
	ok := false
	defer func() {
		if !ok {
			v := recover()
			if v == nil {
				panic("coop: coop does not support runtime.Goexit()")
			}
			err = &PanicError{Task: name, Value: v, Stack: debug.Stack()}
		}
	}()
	f()
	ok = true
	return nil
}
