package qldb

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ledgerdb/qldb-go-sdk/internal/query/config"
	"github.com/ledgerdb/qldb-go-sdk/retry"
	"github.com/ledgerdb/qldb-go-sdk/trace"
)

// Option contains configuration values for Driver
type Option func(ctx context.Context, d *Driver) error

// WithMaxConcurrentTransactions limits the number of sessions, and
// therefore of transactions running at the same time. Default is 50.
func WithMaxConcurrentTransactions(limit int) Option {
	return func(ctx context.Context, d *Driver) error {
		d.options = append(d.options, config.WithPoolLimit(limit))

		return nil
	}
}

// WithRetryPolicy sets the default retry policy of Execute.
func WithRetryPolicy(p retry.Policy) Option {
	return func(ctx context.Context, d *Driver) error {
		d.options = append(d.options, config.WithRetryPolicy(p))

		return nil
	}
}

// WithLogger logs driver events to l. The driver is silent by default.
func WithLogger(l *zap.Logger) Option {
	return func(ctx context.Context, d *Driver) error {
		if l != nil {
			d.logger = l
		}

		return nil
	}
}

func WithTracePool(t *trace.Pool) Option {
	return func(ctx context.Context, d *Driver) error {
		d.options = append(d.options, config.WithPoolTrace(t))

		return nil
	}
}

func WithTraceRetry(t *trace.Retry) Option {
	return func(ctx context.Context, d *Driver) error {
		d.options = append(d.options, config.WithRetryTrace(t))

		return nil
	}
}

func WithTraceSession(t *trace.Session) Option {
	return func(ctx context.Context, d *Driver) error {
		d.options = append(d.options, config.WithSessionTrace(t))

		return nil
	}
}

// WithMetrics registers pool metrics in r. They are unregistered on Close.
func WithMetrics(r prometheus.Registerer) Option {
	return func(ctx context.Context, d *Driver) error {
		d.registerer = r

		return nil
	}
}

// WithClock replaces the clock of retry backoff.
func WithClock(clock clockwork.Clock) Option {
	return func(ctx context.Context, d *Driver) error {
		d.options = append(d.options, config.WithClock(clock))

		return nil
	}
}

func WithSessionCreateTimeout(timeout time.Duration) Option {
	return func(ctx context.Context, d *Driver) error {
		d.options = append(d.options, config.WithSessionCreateTimeout(timeout))

		return nil
	}
}

func WithSessionCloseTimeout(timeout time.Duration) Option {
	return func(ctx context.Context, d *Driver) error {
		d.options = append(d.options, config.WithSessionDeleteTimeout(timeout))

		return nil
	}
}

// WithAbortTimeout limits the abort of a failed transaction, which runs
// even after the context of Execute is canceled.
func WithAbortTimeout(timeout time.Duration) Option {
	return func(ctx context.Context, d *Driver) error {
		d.options = append(d.options, config.WithAbortTimeout(timeout))

		return nil
	}
}

// WithPanicCallback intercepts panics of transaction functions: the
// callback is called and Execute fails instead of panicking.
func WithPanicCallback(panicCallback func(e any)) Option {
	return func(ctx context.Context, d *Driver) error {
		d.options = append(d.options, config.WithPanicCallback(panicCallback))

		return nil
	}
}

// With applies low-level configuration options.
func With(options ...config.Option) Option {
	return func(ctx context.Context, d *Driver) error {
		d.options = append(d.options, options...)

		return nil
	}
}

// MergeOptions concatenates provided options to one cumulative value.
func MergeOptions(opts ...Option) Option {
	return func(ctx context.Context, d *Driver) error {
		for _, opt := range opts {
			if opt != nil {
				if err := opt(ctx, d); err != nil {
					return err
				}
			}
		}

		return nil
	}
}
