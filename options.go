package coop

import (
	"log/slog"
	"time"
)

// An Option configures an [Executor] made by [New].
type Option func(e *Executor)

// WithClock makes the executor read time from c.
// The default is [WallClock].
func WithClock(c Clock) Option {
	return func(e *Executor) {
		e.clock = c
	}
}

// WithLogger makes the executor log task lifecycle events to l at debug
// level. The default discards them.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l.With("component", "coop")
		}
	}
}

// WithIdleWait makes [Executor.Loop] pause after a tick that resumed nothing.
// The pause lasts d, or until the earliest sleeping task is due if that is
// sooner.
//
// The default of zero keeps the loop busy-polling.
func WithIdleWait(d time.Duration) Option {
	return func(e *Executor) {
		e.idleWait = d
	}
}
