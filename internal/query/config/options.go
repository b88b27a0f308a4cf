package config

import (
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/ledgerdb/qldb-go-sdk/retry"
	"github.com/ledgerdb/qldb-go-sdk/trace"
)

type Option func(*Config)

// WithPoolLimit defines upper bound of pooled sessions.
// If size is less than or equal to zero then the DefaultPoolLimit is used.
func WithPoolLimit(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.poolLimit = size
		}
	}
}

// WithSessionCreateTimeout limits maximum time spent on start session request
// If createSessionTimeout is less than or equal to zero then no used timeout on start session request
func WithSessionCreateTimeout(createSessionTimeout time.Duration) Option {
	return func(c *Config) {
		if createSessionTimeout > 0 {
			c.sessionCreateTimeout = createSessionTimeout
		} else {
			c.sessionCreateTimeout = 0
		}
	}
}

// WithSessionDeleteTimeout limits maximum time spent on end session request
// If deleteTimeout is less than or equal to zero then the DefaultSessionDeleteTimeout is used.
func WithSessionDeleteTimeout(deleteTimeout time.Duration) Option {
	return func(c *Config) {
		if deleteTimeout > 0 {
			c.sessionDeleteTimeout = deleteTimeout
		}
	}
}

// WithAbortTimeout limits maximum time spent on abort of a failed transaction
// If abortTimeout is less than or equal to zero then the DefaultAbortTimeout is used.
func WithAbortTimeout(abortTimeout time.Duration) Option {
	return func(c *Config) {
		if abortTimeout > 0 {
			c.abortTimeout = abortTimeout
		}
	}
}

func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Config) {
		c.retryPolicy = p
	}
}

func WithPanicCallback(cb func(e any)) Option {
	return func(c *Config) {
		c.panicCallback = cb
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPoolTrace appends pool trace to early defined traces
func WithPoolTrace(t *trace.Pool) Option {
	return func(c *Config) {
		c.poolTrace = c.poolTrace.Compose(t)
	}
}

// WithRetryTrace appends retry trace to early defined traces
func WithRetryTrace(t *trace.Retry) Option {
	return func(c *Config) {
		c.retryTrace = c.retryTrace.Compose(t)
	}
}

// WithSessionTrace appends session trace to early defined traces
func WithSessionTrace(t *trace.Session) Option {
	return func(c *Config) {
		c.sessionTrace = c.sessionTrace.Compose(t)
	}
}

func WithClock(clock clockwork.Clock) Option {
	return func(c *Config) {
		if clock != nil {
			c.clock = clock
		}
	}
}
