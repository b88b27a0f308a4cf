package qldb

import (
	internalQuery "github.com/ledgerdb/qldb-go-sdk/internal/query"
	"github.com/ledgerdb/qldb-go-sdk/internal/xerrors"
	"github.com/ledgerdb/qldb-go-sdk/retry"
)

var (
	// ErrDriverClosed is returned by Execute after Close.
	ErrDriverClosed = xerrors.New(xerrors.KindClient, "driver closed")

	// ErrTransactionAborted is returned by Executor.Abort. Execute fails
	// with it when the transaction function returns it.
	ErrTransactionAborted = internalQuery.ErrTransactionAborted

	// ErrTransactionClosed is returned by the executor of a finished transaction.
	ErrTransactionClosed = internalQuery.ErrTransactionClosed
)

// Kind is the classification of driver errors.
type Kind = xerrors.Kind

const (
	KindUnknown            = xerrors.KindUnknown
	KindOccConflict        = xerrors.KindOccConflict
	KindInvalidSession     = xerrors.KindInvalidSession
	KindTransactionExpired = xerrors.KindTransactionExpired
	KindResourceNotFound   = xerrors.KindResourceNotFound
	KindInvalidParameter   = xerrors.KindInvalidParameter
	KindPreconditionNotMet = xerrors.KindPreconditionNotMet
	KindThrottled          = xerrors.KindThrottled
	KindTransient          = xerrors.KindTransient
	KindClient             = xerrors.KindClient
	KindIntegrity          = xerrors.KindIntegrity
	KindCanceled           = xerrors.KindCanceled
)

// KindOf returns the kind of the first classified error in the chain of err.
func KindOf(err error) Kind {
	return xerrors.KindOf(err)
}

// IsOccConflict reports whether err is an optimistic concurrency conflict.
func IsOccConflict(err error) bool {
	return xerrors.IsKind(err, xerrors.KindOccConflict)
}

func IsInvalidSession(err error) bool {
	return xerrors.IsKind(err, xerrors.KindInvalidSession)
}

// IsIntegrityError reports a commit digest mismatch. The commit may have
// been applied by the service.
func IsIntegrityError(err error) bool {
	return xerrors.IsKind(err, xerrors.KindIntegrity)
}

// IsRetriesExhausted reports whether Execute gave up after the last attempt
// of the retry policy.
func IsRetriesExhausted(err error) bool {
	var e *retry.RetriesExhaustedError

	return xerrors.As(err, &e)
}

// IsRetryable reports whether the driver retries a transaction failed with err.
func IsRetryable(err error) bool {
	return KindOf(err).Retryable()
}
