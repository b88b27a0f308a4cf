package query

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ledgerdb/qldb-go-sdk/internal/communicator"
	"github.com/ledgerdb/qldb-go-sdk/internal/digest"
	"github.com/ledgerdb/qldb-go-sdk/internal/stack"
	"github.com/ledgerdb/qldb-go-sdk/internal/value"
	"github.com/ledgerdb/qldb-go-sdk/internal/xerrors"
	"github.com/ledgerdb/qldb-go-sdk/query"
	"github.com/ledgerdb/qldb-go-sdk/trace"
)

var _ query.Executor = (*transaction)(nil)

type txState uint32

const (
	txStateOpen = txState(iota)
	txStateCommitted
	txStateAborted
)

// transaction is one remote transaction of a session.
//
// All protocol calls of a transaction hold mu: the service rejects
// concurrent calls on one transaction id.
type transaction struct {
	id string
	s  *Session

	mu     sync.Mutex
	state  atomic.Uint32
	digest *digest.Accumulator
}

func begin(ctx context.Context, s *Session) (_ *transaction, finalErr error) {
	var tx *transaction
	onDone := trace.SessionOnTxBegin(s.cfg.SessionTrace(), &ctx,
		stack.FunctionID("github.com/ledgerdb/qldb-go-sdk/internal/query.begin"), s,
	)
	defer func() {
		if finalErr != nil {
			onDone(nil, finalErr)
		} else {
			onDone(tx, nil)
		}
	}()

	id, err := s.comm.StartTransaction(ctx, s.token)
	if err != nil {
		return nil, xerrors.WithStackTrace(err)
	}
	acc, err := digest.NewAccumulator(id)
	if err != nil {
		return nil, xerrors.WithStackTrace(err)
	}
	tx = &transaction{
		id:     id,
		s:      s,
		digest: acc,
	}

	return tx, nil
}

func (tx *transaction) ID() string {
	return tx.id
}

func (tx *transaction) terminal() bool {
	return txState(tx.state.Load()) != txStateOpen
}

// tx.mu must be locked
func (tx *transaction) checkOpen() error {
	if tx.terminal() {
		return xerrors.WithStackTrace(ErrTransactionClosed)
	}

	return nil
}

// tx.mu must be locked
func (tx *transaction) execute(
	ctx context.Context, statement string, params ...any,
) (_ *communicator.Page, finalErr error) {
	onDone := trace.SessionOnTxExecute(tx.s.cfg.SessionTrace(), &ctx,
		stack.FunctionID("github.com/ledgerdb/qldb-go-sdk/internal/query.(*transaction).execute"),
		tx.s, tx, statement,
	)
	defer func() {
		onDone(finalErr)
	}()

	if err := tx.checkOpen(); err != nil {
		return nil, err
	}
	encoded, err := value.Marshal(params...)
	if err != nil {
		return nil, xerrors.WithStackTrace(err)
	}
	page, err := tx.s.comm.ExecuteStatement(ctx, tx.s.token, tx.id, statement, encoded)
	if err != nil {
		return nil, xerrors.WithStackTrace(err)
	}
	if err := tx.digest.Statement(statement, encoded...); err != nil {
		return nil, xerrors.WithStackTrace(err)
	}

	return page, nil
}

// fetchPageLocked fetches the page of a result. tx.mu must be locked.
func (tx *transaction) fetchPageLocked(ctx context.Context, pageToken string) (
	_ *communicator.Page, finalErr error,
) {
	var page *communicator.Page
	onDone := trace.SessionOnTxFetchPage(tx.s.cfg.SessionTrace(), &ctx,
		stack.FunctionID("github.com/ledgerdb/qldb-go-sdk/internal/query.(*transaction).fetchPageLocked"), tx,
	)
	defer func() {
		if page != nil {
			onDone(len(page.Values), page.Last(), finalErr)
		} else {
			onDone(0, false, finalErr)
		}
	}()

	if err := tx.checkOpen(); err != nil {
		return nil, err
	}
	page, err := tx.s.comm.FetchPage(ctx, tx.s.token, tx.id, pageToken)
	if err != nil {
		return nil, xerrors.WithStackTrace(err)
	}

	return page, nil
}

func (tx *transaction) fetchPage(ctx context.Context, pageToken string) (*communicator.Page, error) {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	return tx.fetchPageLocked(ctx, pageToken)
}

func (tx *transaction) Execute(ctx context.Context, statement string, params ...any) (query.Result, error) {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	page, err := tx.execute(ctx, statement, params...)
	if err != nil {
		return nil, xerrors.WithStackTrace(err)
	}
	r, err := newPager(page, tx.fetchPageLocked).collect(ctx)
	if err != nil {
		return nil, xerrors.WithStackTrace(err)
	}

	return r, nil
}

func (tx *transaction) Query(ctx context.Context, statement string, params ...any) (query.Stream, error) {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	page, err := tx.execute(ctx, statement, params...)
	if err != nil {
		return nil, xerrors.WithStackTrace(err)
	}

	return &stream{
		tx:    tx,
		pager: newPager(page, tx.fetchPage),
	}, nil
}

func (tx *transaction) BufferResult(ctx context.Context, s query.Stream) (query.Result, error) {
	r := &bufferedResult{}
	for v, err := range s.Range(ctx) {
		if err != nil {
			return nil, xerrors.WithStackTrace(err)
		}
		r.values = append(r.values, v)
	}
	r.stats = s.Stats()

	return r, nil
}

func (tx *transaction) Abort(ctx context.Context) error {
	if err := tx.abort(ctx); err != nil {
		// the transaction may still be open on the service
		tx.s.Invalidate()

		return xerrors.WithStackTrace(xerrors.Join(ErrTransactionAborted, err))
	}

	return xerrors.WithStackTrace(ErrTransactionAborted)
}

// commit commits the transaction and verifies the digest acknowledged by
// the service, if any. The transaction stays open when the commit fails.
func (tx *transaction) commit(ctx context.Context) (finalErr error) {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	onDone := trace.SessionOnTxCommit(tx.s.cfg.SessionTrace(), &ctx,
		stack.FunctionID("github.com/ledgerdb/qldb-go-sdk/internal/query.(*transaction).commit"), tx.s, tx,
	)
	defer func() {
		onDone(finalErr)
	}()

	if err := tx.checkOpen(); err != nil {
		return err
	}
	sent := tx.digest.Sum()
	ack, err := tx.s.comm.CommitTransaction(ctx, tx.s.token, tx.id, sent)
	if err != nil {
		return xerrors.WithStackTrace(err)
	}
	tx.state.Store(uint32(txStateCommitted))
	if ack != nil && !sent.Equal(ack) {
		return xerrors.WithStackTrace(xerrors.New(xerrors.KindIntegrity,
			"commit digest of transaction "+tx.id+" does not match the digest acknowledged by the service",
		))
	}

	return nil
}

// abort is a no-op for a transaction which is already over.
func (tx *transaction) abort(ctx context.Context) (finalErr error) {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	if tx.terminal() {
		return nil
	}
	tx.state.Store(uint32(txStateAborted))

	onDone := trace.SessionOnTxAbort(tx.s.cfg.SessionTrace(), &ctx,
		stack.FunctionID("github.com/ledgerdb/qldb-go-sdk/internal/query.(*transaction).abort"), tx.s, tx,
	)
	defer func() {
		onDone(finalErr)
	}()

	if err := tx.s.comm.AbortTransaction(ctx, tx.s.token); err != nil {
		return xerrors.WithStackTrace(err)
	}

	return nil
}
