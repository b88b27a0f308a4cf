package retry

import (
	"fmt"

	"github.com/ledgerdb/qldb-go-sdk/internal/xerrors"
)

// RetriesExhaustedError reports that the last attempt permitted by the
// Policy failed with a retryable error. It unwraps to that error.
type RetriesExhaustedError struct {
	Attempts int
	Err      error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.Err
}

type retryableErrorOption xerrors.RetryableErrorOption

// WithDeleteSession makes retryable error option with delete session flag
func WithDeleteSession() retryableErrorOption {
	return retryableErrorOption(xerrors.WithDeleteSession())
}

// RetryableError makes retryable error from options
// RetryableError provides retrying on custom errors
func RetryableError(err error, opts ...retryableErrorOption) error {
	return xerrors.Retryable(
		err,
		func() (retryableErrorOptions []xerrors.RetryableErrorOption) {
			for _, opt := range opts {
				if opt != nil {
					retryableErrorOptions = append(retryableErrorOptions, xerrors.RetryableErrorOption(opt))
				}
			}

			return retryableErrorOptions
		}()...,
	)
}
