// Package config loads the TOML description of demo scenarios.
//
// A scenario is a set of tasks, each a list of steps run in order:
//
//	[[scenario]]
//	name = "wake-up-call"
//
//	  [[scenario.task]]
//	  name = "alarm"
//
//	    [[scenario.task.step]]
//	    sleep_ms = 5000
//
//	    [[scenario.task.step]]
//	    print = "Rise and shine!"
//
// Exactly one field of a step may be set.
package config

import (
	"errors"
	"fmt"
	"math"
	"time"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
)

// Config is the root of a demo configuration file.
type Config struct {
	Log       LogConfig  `toml:"log"`
	Loop      LoopConfig `toml:"loop"`
	Scenarios []Scenario `toml:"scenario"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text, json
}

// LoopConfig configures the run-loop.
type LoopConfig struct {
	// IdleWaitMs is how long the loop pauses after a tick that resumed
	// nothing. Zero busy-polls.
	IdleWaitMs uint64 `toml:"idle_wait_ms"`
	// TimeoutMs bounds a whole scenario run. Zero means no bound.
	TimeoutMs uint64 `toml:"timeout_ms"`
}

// Scenario is a named group of tasks run on one executor.
type Scenario struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Tasks       []Task `toml:"task"`
}

// Task describes one task of a scenario.
type Task struct {
	Name string `toml:"name"`
	// Deferred tasks are not admitted at start; a spawn step admits them.
	Deferred bool   `toml:"deferred"`
	Steps    []Step `toml:"step"`
}

// Step is a single action of a task.
type Step struct {
	SleepMs   *uint64 `toml:"sleep_ms"`  // yield a sleep
	Immediate bool    `toml:"immediate"` // yield an immediate instruction
	Idle      bool    `toml:"idle"`      // yield hard-idle; needs a wake
	Print     string  `toml:"print"`     // print a line
	Wake      string  `toml:"wake"`      // wake a hard-idled task by name
	Spawn     string  `toml:"spawn"`     // admit a deferred task by name
	Set       string  `toml:"set"`       // raise a named flag
	WaitFor   string  `toml:"wait_for"`  // poll until a named flag is raised
}

// IdleWait returns the configured idle wait.
func (c LoopConfig) IdleWait() (time.Duration, error) {
	return Millis(c.IdleWaitMs)
}

// Timeout returns the configured scenario timeout.
func (c LoopConfig) Timeout() (time.Duration, error) {
	return Millis(c.TimeoutMs)
}

// Millis converts a count of milliseconds to a time.Duration, failing on
// overflow.
func Millis(ms uint64) (time.Duration, error) {
	n, err := safecast.Conv[int64](ms)
	if err != nil {
		return 0, fmt.Errorf("%d ms: %w", ms, err)
	}
	if n > math.MaxInt64/int64(time.Millisecond) {
		return 0, fmt.Errorf("%d ms: out of range", ms)
	}
	return time.Duration(n) * time.Millisecond, nil
}

// Load reads and validates the configuration file at path.
// Scenarios from the file replace the built-in ones; unset log and loop
// fields keep their defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	cfg.Scenarios = nil

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return Config{}, fmt.Errorf("load %s: unknown keys %v", path, undecoded)
	}

	if len(cfg.Scenarios) == 0 {
		cfg.Scenarios = DefaultConfig().Scenarios
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}

	return cfg, nil
}

// Scenario returns the scenario named name.
func (c Config) Scenario(name string) (Scenario, bool) {
	for _, s := range c.Scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

// Validate checks that names are unique and that every step does exactly
// one thing and refers to tasks that exist.
func (c Config) Validate() error {
	if _, err := c.Loop.IdleWait(); err != nil {
		return fmt.Errorf("loop.idle_wait_ms: %w", err)
	}
	if _, err := c.Loop.Timeout(); err != nil {
		return fmt.Errorf("loop.timeout_ms: %w", err)
	}

	var errs []error

	seen := make(map[string]bool)
	for _, s := range c.Scenarios {
		if s.Name == "" {
			errs = append(errs, errors.New("scenario without a name"))
			continue
		}
		if seen[s.Name] {
			errs = append(errs, fmt.Errorf("duplicate scenario %q", s.Name))
		}
		seen[s.Name] = true
		if err := s.validate(); err != nil {
			errs = append(errs, fmt.Errorf("scenario %q: %w", s.Name, err))
		}
	}

	return errors.Join(errs...)
}

func (s Scenario) validate() error {
	if len(s.Tasks) == 0 {
		return errors.New("no tasks")
	}

	tasks := make(map[string]Task, len(s.Tasks))
	for _, t := range s.Tasks {
		if t.Name == "" {
			return errors.New("task without a name")
		}
		if _, dup := tasks[t.Name]; dup {
			return fmt.Errorf("duplicate task %q", t.Name)
		}
		tasks[t.Name] = t
	}

	for _, t := range s.Tasks {
		for i, st := range t.Steps {
			if err := st.validate(tasks); err != nil {
				return fmt.Errorf("task %q step %d: %w", t.Name, i+1, err)
			}
		}
	}

	return nil
}

func (st Step) validate(tasks map[string]Task) error {
	n := 0
	count := func(set bool) {
		if set {
			n++
		}
	}
	count(st.SleepMs != nil)
	count(st.Immediate)
	count(st.Idle)
	count(st.Print != "")
	count(st.Wake != "")
	count(st.Spawn != "")
	count(st.Set != "")
	count(st.WaitFor != "")

	switch {
	case n == 0:
		return errors.New("empty step")
	case n > 1:
		return errors.New("more than one action in a step")
	}

	if st.SleepMs != nil {
		if _, err := Millis(*st.SleepMs); err != nil {
			return fmt.Errorf("sleep_ms: %w", err)
		}
	}

	if st.Wake != "" {
		if _, ok := tasks[st.Wake]; !ok {
			return fmt.Errorf("wake: no task %q", st.Wake)
		}
	}

	if st.Spawn != "" {
		t, ok := tasks[st.Spawn]
		if !ok {
			return fmt.Errorf("spawn: no task %q", st.Spawn)
		}
		if !t.Deferred {
			return fmt.Errorf("spawn: task %q is not deferred", st.Spawn)
		}
	}

	return nil
}
