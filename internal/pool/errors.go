package pool

import (
	"github.com/ledgerdb/qldb-go-sdk/internal/xerrors"
)

// ErrClosed is returned by With after Close.
var ErrClosed = xerrors.New(xerrors.KindClient, "pool closed")
