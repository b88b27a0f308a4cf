package query

import (
	"github.com/ledgerdb/qldb-go-sdk/internal/xerrors"
)

var (
	// ErrTransactionAborted is returned by Executor.Abort. It comes first in
	// the chain, so a failed abort call never makes the transaction retryable.
	ErrTransactionAborted = xerrors.New(xerrors.KindClient, "transaction aborted")

	ErrTransactionClosed  = xerrors.New(xerrors.KindClient, "transaction already committed or aborted")
	errStreamClosed       = xerrors.New(xerrors.KindClient, "stream closed: its transaction is over")
	errSessionInvalidated = xerrors.New(xerrors.KindClient, "session invalidated")
	errSessionClosed      = xerrors.New(xerrors.KindClient, "session closed")
)
