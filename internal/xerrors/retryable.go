package xerrors

type RetryableErrorOption func(e *Error)

// WithDeleteSession marks the retryable error as one that must invalidate the session.
func WithDeleteSession() RetryableErrorOption {
	return func(e *Error) {
		e.kind = KindInvalidSession
	}
}

// Retryable classifies an arbitrary error as a transient failure so that the
// retry loop re-runs the operation.
func Retryable(err error, opts ...RetryableErrorOption) error {
	e := New(KindTransient, "", WithCode("retryable"), WithCause(err))
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	return e
}
