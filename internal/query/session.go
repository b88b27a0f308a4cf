package query

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/ledgerdb/qldb-go-sdk/internal/communicator"
	"github.com/ledgerdb/qldb-go-sdk/internal/query/config"
	internalRetry "github.com/ledgerdb/qldb-go-sdk/internal/retry"
	"github.com/ledgerdb/qldb-go-sdk/internal/stack"
	"github.com/ledgerdb/qldb-go-sdk/internal/xerrors"
	"github.com/ledgerdb/qldb-go-sdk/query"
	"github.com/ledgerdb/qldb-go-sdk/trace"
)

// Session is a server side session of the ledger. A session runs at most
// one transaction at a time.
type Session struct {
	token string
	comm  *communicator.Communicator
	cfg   *config.Config

	status      atomic.Uint32
	invalidated atomic.Bool
}

func createSession(ctx context.Context, comm *communicator.Communicator, cfg *config.Config) (
	_ *Session, finalErr error,
) {
	var s *Session
	onDone := trace.SessionOnSessionCreate(cfg.SessionTrace(), &ctx,
		stack.FunctionID("github.com/ledgerdb/qldb-go-sdk/internal/query.createSession"),
		comm.Ledger(),
	)
	defer func() {
		if finalErr != nil {
			onDone(nil, finalErr)
		} else {
			onDone(s, nil)
		}
	}()

	token, err := comm.StartSession(ctx)
	if err != nil {
		return nil, xerrors.WithStackTrace(err)
	}
	s = &Session{
		token: token,
		comm:  comm,
		cfg:   cfg,
	}
	s.setStatus(statusReady)

	return s, nil
}

func (s *Session) ID() string {
	return s.token
}

func (s *Session) Status() string {
	return sessionStatus(s.status.Load()).String()
}

func (s *Session) setStatus(status sessionStatus) {
	s.status.Store(uint32(status))
}

func (s *Session) String() string {
	return fmt.Sprintf("session{id:%q,status:%s}", s.token, s.Status())
}

// IsAlive reports whether the session may be reused by the pool.
func (s *Session) IsAlive() bool {
	if s.invalidated.Load() {
		return false
	}

	return sessionStatus(s.status.Load()) != statusClosed
}

// Invalidate marks the session as not reusable. It is idempotent.
func (s *Session) Invalidate() {
	s.invalidated.Store(true)
}

// Close ends the session on the service. Errors are reported to the trace
// only by the pool.
func (s *Session) Close(ctx context.Context) (finalErr error) {
	if sessionStatus(s.status.Swap(uint32(statusClosed))) == statusClosed {
		return nil
	}

	onDone := trace.SessionOnSessionDelete(s.cfg.SessionTrace(), &ctx,
		stack.FunctionID("github.com/ledgerdb/qldb-go-sdk/internal/query.(*Session).Close"), s,
	)
	defer func() {
		onDone(finalErr)
	}()

	if err := s.comm.EndSession(ctx, s.token); err != nil {
		return xerrors.WithStackTrace(err)
	}

	return nil
}

// runTransaction runs op inside a new transaction of the session.
//
// The transaction is committed when op succeeds and aborted otherwise.
// Errors which leave the session unusable invalidate it, so the pool
// closes it instead of handing it out again.
func (s *Session) runTransaction(ctx context.Context, op query.Operation) (_ any, finalErr error) {
	switch {
	case sessionStatus(s.status.Load()) == statusClosed:
		return nil, xerrors.WithStackTrace(errSessionClosed)
	case s.invalidated.Load():
		return nil, xerrors.WithStackTrace(errSessionInvalidated)
	}

	s.setStatus(statusInUse)
	defer func() {
		if finalErr != nil && internalRetry.Check(finalErr).MustDeleteSession() {
			s.Invalidate()
		}
		s.status.CompareAndSwap(uint32(statusInUse), uint32(statusReady))
	}()

	tx, err := begin(ctx, s)
	if err != nil {
		return nil, xerrors.WithStackTrace(err)
	}

	var (
		result    any
		committed bool
	)
	defer func() {
		if !committed {
			if abortErr := s.abort(ctx, tx, finalErr); abortErr != nil {
				s.Invalidate()
			}
		}
	}()

	result, err = op(ctx, tx)
	if err != nil {
		return nil, xerrors.WithStackTrace(err)
	}

	if err = tx.commit(ctx); err != nil {
		// a rejected digest means the commit itself went through
		committed = tx.terminal()

		return nil, xerrors.WithStackTrace(err)
	}
	committed = true

	return result, nil
}

// abort rolls back tx after a failure. The abort is skipped when the cause
// already ended the transaction on the service side. It runs with its own
// timeout even when ctx is canceled.
func (s *Session) abort(ctx context.Context, tx *transaction, cause error) error {
	if xerrors.IsKind(cause, xerrors.KindInvalidSession, xerrors.KindTransactionExpired) {
		tx.state.CompareAndSwap(uint32(txStateOpen), uint32(txStateAborted))

		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.AbortTimeout())
	defer cancel()

	return tx.abort(ctx)
}
