package backoff

import (
	"context"

	"github.com/jonboulle/clockwork"

	"github.com/ledgerdb/qldb-go-sdk/internal/xerrors"
)

// Wait waits for i-th Backoff b or ctx expiration.
// It returns non-nil error if and only if deadline expiration branch wins.
func Wait(ctx context.Context, clock clockwork.Clock, b Backoff, i int) error {
	d := b.Delay(i)
	if d <= 0 {
		return nil
	}

	t := clock.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.Chan():
		return nil
	case <-ctx.Done():
		return xerrors.WithStackTrace(ctx.Err())
	}
}
