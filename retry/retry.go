package retry

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/ledgerdb/qldb-go-sdk/internal/backoff"
	"github.com/ledgerdb/qldb-go-sdk/internal/retry"
	"github.com/ledgerdb/qldb-go-sdk/internal/stack"
	"github.com/ledgerdb/qldb-go-sdk/internal/xerrors"
	"github.com/ledgerdb/qldb-go-sdk/trace"
)

// retryOperation is the interface that holds an operation for retry.
// if retryOperation returns not nil - operation will retry
// if retryOperation returns nil - retry loop will break
type retryOperation func(context.Context) (err error)

type retryOptions struct {
	label  string
	call   interface{ FunctionID() string }
	trace  *trace.Retry
	policy Policy
	clock  clockwork.Clock

	panicCallback func(e any)
}

type Option func(o *retryOptions)

// WithLabel applies label for identification call Retry in trace.Retry.OnRetry
func WithLabel(label string) Option {
	return func(o *retryOptions) {
		o.label = label
	}
}

// WithCall overrides the caller reported in trace.Retry.OnRetry
func WithCall(call interface{ FunctionID() string }) Option {
	return func(o *retryOptions) {
		if call != nil {
			o.call = call
		}
	}
}

// WithTrace returns trace option
func WithTrace(t *trace.Retry) Option {
	return func(o *retryOptions) {
		o.trace = o.trace.Compose(t)
	}
}

func WithPolicy(p Policy) Option {
	return func(o *retryOptions) {
		o.policy = p
	}
}

// WithClock replaces the clock used for backoff waits
func WithClock(clock clockwork.Clock) Option {
	return func(o *retryOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithPanicCallback returns panic callback option
// If not defined - panic would not intercept with driver
func WithPanicCallback(panicCallback func(e any)) Option {
	return func(o *retryOptions) {
		o.panicCallback = panicCallback
	}
}

// Retry provide the best effort fo retrying operation
//
// Retry implements internal busy loop until one of the following conditions is met:
//
// - context was canceled or deadlined
//
// - retry operation returned nil as error
//
// - retry operation returned an error which is not retryable
//
// - attempts of the Policy are exhausted
//
// If you need to retry your op func on some logic errors - you must return RetryableError() from retryOperation
func Retry(ctx context.Context, op retryOperation, opts ...Option) (finalErr error) {
	options := &retryOptions{
		call:   stack.FunctionID(""),
		policy: DefaultPolicy(),
		clock:  clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	var (
		attempts       int
		maxAttempts    = options.policy.maxAttempts()
		b              = options.policy.backoff()
		onIntermediate = trace.RetryOnRetry(options.trace, &ctx, options.call, options.label)
		onDone         = func(int, error) {}
	)
	defer func() {
		onDone(attempts, finalErr)
	}()

	var lastErr error
	for {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return xerrors.WithStackTrace(xerrors.Join(lastErr, err))
			}

			return xerrors.WithStackTrace(err)
		}

		attempts++
		err := opWithRecover(ctx, options, op)
		onDone = onIntermediate(attempts, err)
		if err == nil {
			return nil
		}
		lastErr = err

		m := retry.Check(err)
		if !m.MustRetry() {
			return xerrors.WithStackTrace(err)
		}

		if attempts >= maxAttempts {
			return &RetriesExhaustedError{
				Attempts: attempts,
				Err:      err,
			}
		}

		if m.MustBackoff() {
			if waitErr := backoff.Wait(ctx, options.clock, b, attempts-1); waitErr != nil {
				return xerrors.WithStackTrace(xerrors.Join(err, waitErr))
			}
		}
	}
}

func opWithRecover(ctx context.Context, options *retryOptions, op retryOperation) (err error) {
	if options.panicCallback != nil {
		defer func() {
			if e := recover(); e != nil {
				options.panicCallback(e)
				err = xerrors.WithStackTrace(xerrors.New(xerrors.KindClient,
					fmt.Sprintf("panic recovered: %v", e),
				))
			}
		}()
	}

	return op(ctx)
}
