package refresh

import "time"

// Config controls the per-user regeneration debounce.
type Config struct {
	// Window is how long a trigger waits for follow-up triggers before the
	// run fires. Later triggers within the window re-arm the timer.
	Window time.Duration
	// RunTimeout bounds one regeneration run.
	RunTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Window:     2 * time.Second,
		RunTimeout: 30 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.Window <= 0 {
		c.Window = defaults.Window
	}
	if c.RunTimeout <= 0 {
		c.RunTimeout = defaults.RunTimeout
	}
	return c
}
