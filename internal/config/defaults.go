package config

func ms(n uint64) *uint64 { return &n }

// DefaultConfig returns the built-in scenarios with info-level text logs
// and a busy-polling loop.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{Level: "info", Format: "text"},
		Loop: LoopConfig{
			TimeoutMs: 60_000,
		},
		Scenarios: []Scenario{
			{
				Name:        "wake-up-call",
				Description: "sleep for a while, then print",
				Tasks: []Task{
					{Name: "alarm", Steps: []Step{
						{SleepMs: ms(5000)},
						{Print: "Rise and shine!"},
					}},
				},
			},
			{
				Name:        "web-request",
				Description: "poll a simulated socket that a helper task makes readable",
				Tasks: []Task{
					{Name: "request", Steps: []Step{
						{Spawn: "socket"},
						{WaitFor: "readable"},
						{Print: "Connected."},
					}},
					{Name: "socket", Deferred: true, Steps: []Step{
						{SleepMs: ms(6000)},
						{Set: "readable"},
					}},
				},
			},
			{
				Name:        "hard-idle",
				Description: "a task idles until another task wakes it",
				Tasks: []Task{
					{Name: "sleeper", Steps: []Step{
						{Idle: true},
						{Print: "woken"},
					}},
					{Name: "waker", Steps: []Step{
						{SleepMs: ms(1000)},
						{Print: "waking the sleeper"},
						{Wake: "sleeper"},
					}},
				},
			},
			{
				Name:        "mixed",
				Description: "a sleeping task and a task that completes right away",
				Tasks: []Task{
					{Name: "A", Steps: []Step{
						{SleepMs: ms(100)},
						{Print: "done"},
					}},
					{Name: "B"},
				},
			},
		},
	}
}
