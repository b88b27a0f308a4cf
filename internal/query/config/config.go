package config

import (
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/ledgerdb/qldb-go-sdk/internal/xerrors"
	"github.com/ledgerdb/qldb-go-sdk/retry"
	"github.com/ledgerdb/qldb-go-sdk/trace"
)

const (
	DefaultPoolLimit            = 50
	DefaultSessionCreateTimeout = 5 * time.Second
	DefaultSessionDeleteTimeout = 500 * time.Millisecond
	DefaultAbortTimeout         = 5 * time.Second
)

type Config struct {
	ledgerName string

	poolLimit int

	sessionCreateTimeout time.Duration
	sessionDeleteTimeout time.Duration
	abortTimeout         time.Duration

	retryPolicy   retry.Policy
	panicCallback func(e any)

	logger *zap.Logger

	poolTrace    *trace.Pool
	retryTrace   *trace.Retry
	sessionTrace *trace.Session

	clock clockwork.Clock
}

func New(ledgerName string, opts ...Option) *Config {
	c := defaults()
	c.ledgerName = ledgerName
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

func defaults() *Config {
	return &Config{
		poolLimit:            DefaultPoolLimit,
		sessionCreateTimeout: DefaultSessionCreateTimeout,
		sessionDeleteTimeout: DefaultSessionDeleteTimeout,
		abortTimeout:         DefaultAbortTimeout,
		retryPolicy:          retry.DefaultPolicy(),
		logger:               zap.NewNop(),
		clock:                clockwork.NewRealClock(),
	}
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	switch {
	case c.ledgerName == "":
		return xerrors.WithStackTrace(xerrors.Client("ledger name must not be empty"))
	case c.retryPolicy.MaxAttempts < 1:
		return xerrors.WithStackTrace(xerrors.Client("retry policy: max attempts must be positive, got %d",
			c.retryPolicy.MaxAttempts,
		))
	case c.retryPolicy.BaseDelay < 0 || c.retryPolicy.MaxDelay < 0:
		return xerrors.WithStackTrace(xerrors.Client("retry policy: delays must not be negative"))
	case c.retryPolicy.MaxDelay > 0 && c.retryPolicy.MaxDelay < c.retryPolicy.BaseDelay:
		return xerrors.WithStackTrace(xerrors.Client("retry policy: max delay %v is less than base delay %v",
			c.retryPolicy.MaxDelay, c.retryPolicy.BaseDelay,
		))
	}

	return nil
}

func (c *Config) LedgerName() string {
	return c.ledgerName
}

// PoolLimit is an upper bound of pooled sessions and so of concurrent transactions.
func (c *Config) PoolLimit() int {
	return c.poolLimit
}

// SessionCreateTimeout limits maximum time spent on start session request.
// Zero means no timeout.
func (c *Config) SessionCreateTimeout() time.Duration {
	return c.sessionCreateTimeout
}

// SessionDeleteTimeout limits maximum time spent on end session request.
func (c *Config) SessionDeleteTimeout() time.Duration {
	return c.sessionDeleteTimeout
}

// AbortTimeout limits maximum time spent on best-effort abort of a failed transaction.
func (c *Config) AbortTimeout() time.Duration {
	return c.abortTimeout
}

func (c *Config) RetryPolicy() retry.Policy {
	return c.retryPolicy
}

func (c *Config) PanicCallback() func(e any) {
	return c.panicCallback
}

func (c *Config) Logger() *zap.Logger {
	return c.logger
}

func (c *Config) PoolTrace() *trace.Pool {
	return c.poolTrace
}

func (c *Config) RetryTrace() *trace.Retry {
	return c.retryTrace
}

func (c *Config) SessionTrace() *trace.Session {
	return c.sessionTrace
}

// Clock defines clock
func (c *Config) Clock() clockwork.Clock {
	return c.clock
}
