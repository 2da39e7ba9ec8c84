package localproc

import "time"

const (
	DefaultReadySentinel  = "MODEL_READY"
	DefaultStartupTimeout = 5 * time.Minute
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRestarts    = 3
	DefaultRestartBackoff = 2 * time.Second
	DefaultShutdownGrace  = 2 * time.Second

	maxLineBytes = 1 << 20
)

type Config struct {
	Command string
	Args    []string
	Dir     string
	// Env entries are appended to the parent environment.
	Env []string

	ReadySentinel  string
	StartupTimeout time.Duration
	RequestTimeout time.Duration

	// Pipelined allows several requests in flight on the shared stream. The
	// worker must then echo correlation ids on interleaved responses.
	Pipelined bool

	// MaxRestarts caps consecutive failed starts before the backend gives up.
	MaxRestarts    int
	RestartBackoff time.Duration
	ShutdownGrace  time.Duration
}

func (c Config) withDefaults() Config {
	if c.ReadySentinel == "" {
		c.ReadySentinel = DefaultReadySentinel
	}
	if c.StartupTimeout <= 0 {
		c.StartupTimeout = DefaultStartupTimeout
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.MaxRestarts < 0 {
		c.MaxRestarts = 0
	}
	if c.RestartBackoff <= 0 {
		c.RestartBackoff = DefaultRestartBackoff
	}
	if c.ShutdownGrace <= 0 {
		c.ShutdownGrace = DefaultShutdownGrace
	}
	return c
}
