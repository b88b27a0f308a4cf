package trace

import (
	"context"
)

type (
	// Session specified trace of ledger session and transaction activity.
	Session struct {
		OnSessionCreate func(SessionCreateStartInfo) func(SessionCreateDoneInfo)
		OnSessionDelete func(SessionDeleteStartInfo) func(SessionDeleteDoneInfo)
		OnTxBegin       func(TxBeginStartInfo) func(TxBeginDoneInfo)
		OnTxExecute     func(TxExecuteStartInfo) func(TxExecuteDoneInfo)
		OnTxFetchPage   func(TxFetchPageStartInfo) func(TxFetchPageDoneInfo)
		OnTxCommit      func(TxCommitStartInfo) func(TxCommitDoneInfo)
		OnTxAbort       func(TxAbortStartInfo) func(TxAbortDoneInfo)
	}
	SessionCreateStartInfo struct {
		Context *context.Context
		Call    call
		Ledger  string
	}
	SessionCreateDoneInfo struct {
		Session sessionInfo
		Error   error
	}
	SessionDeleteStartInfo struct {
		Context *context.Context
		Call    call
		Session sessionInfo
	}
	SessionDeleteDoneInfo struct {
		Error error
	}
	TxBeginStartInfo struct {
		Context *context.Context
		Call    call
		Session sessionInfo
	}
	TxBeginDoneInfo struct {
		Tx    txInfo
		Error error
	}
	TxExecuteStartInfo struct {
		Context   *context.Context
		Call      call
		Session   sessionInfo
		Tx        txInfo
		Statement string
	}
	TxExecuteDoneInfo struct {
		Error error
	}
	TxFetchPageStartInfo struct {
		Context *context.Context
		Call    call
		Tx      txInfo
	}
	TxFetchPageDoneInfo struct {
		Values int
		Last   bool
		Error  error
	}
	TxCommitStartInfo struct {
		Context *context.Context
		Call    call
		Session sessionInfo
		Tx      txInfo
	}
	TxCommitDoneInfo struct {
		Error error
	}
	TxAbortStartInfo struct {
		Context *context.Context
		Call    call
		Session sessionInfo
		Tx      txInfo
	}
	TxAbortDoneInfo struct {
		Error error
	}
)

// Compose returns a new Session which has functional fields composed both from t and x.
func (t *Session) Compose(x *Session) *Session {
	var ret Session
	if t == nil {
		t = &Session{}
	}
	if x == nil {
		x = &Session{}
	}
	ret.OnSessionCreate = composeStartDone(t.OnSessionCreate, x.OnSessionCreate)
	ret.OnSessionDelete = composeStartDone(t.OnSessionDelete, x.OnSessionDelete)
	ret.OnTxBegin = composeStartDone(t.OnTxBegin, x.OnTxBegin)
	ret.OnTxExecute = composeStartDone(t.OnTxExecute, x.OnTxExecute)
	ret.OnTxFetchPage = composeStartDone(t.OnTxFetchPage, x.OnTxFetchPage)
	ret.OnTxCommit = composeStartDone(t.OnTxCommit, x.OnTxCommit)
	ret.OnTxAbort = composeStartDone(t.OnTxAbort, x.OnTxAbort)

	return &ret
}

func SessionOnSessionCreate(t *Session, c *context.Context, call call, ledger string) func(s sessionInfo, err error) {
	var h func(SessionCreateStartInfo) func(SessionCreateDoneInfo)
	if t != nil {
		h = t.OnSessionCreate
	}
	onDone := onStart(h, SessionCreateStartInfo{Context: c, Call: call, Ledger: ledger})

	return func(s sessionInfo, err error) {
		onDone(SessionCreateDoneInfo{Session: s, Error: err})
	}
}

func SessionOnSessionDelete(t *Session, c *context.Context, call call, s sessionInfo) func(err error) {
	var h func(SessionDeleteStartInfo) func(SessionDeleteDoneInfo)
	if t != nil {
		h = t.OnSessionDelete
	}
	onDone := onStart(h, SessionDeleteStartInfo{Context: c, Call: call, Session: s})

	return func(err error) {
		onDone(SessionDeleteDoneInfo{Error: err})
	}
}

func SessionOnTxBegin(t *Session, c *context.Context, call call, s sessionInfo) func(tx txInfo, err error) {
	var h func(TxBeginStartInfo) func(TxBeginDoneInfo)
	if t != nil {
		h = t.OnTxBegin
	}
	onDone := onStart(h, TxBeginStartInfo{Context: c, Call: call, Session: s})

	return func(tx txInfo, err error) {
		onDone(TxBeginDoneInfo{Tx: tx, Error: err})
	}
}

func SessionOnTxExecute(t *Session, c *context.Context, call call,
	s sessionInfo, tx txInfo, statement string,
) func(err error) {
	var h func(TxExecuteStartInfo) func(TxExecuteDoneInfo)
	if t != nil {
		h = t.OnTxExecute
	}
	onDone := onStart(h, TxExecuteStartInfo{Context: c, Call: call, Session: s, Tx: tx, Statement: statement})

	return func(err error) {
		onDone(TxExecuteDoneInfo{Error: err})
	}
}

func SessionOnTxFetchPage(t *Session, c *context.Context, call call, tx txInfo) func(values int, last bool, err error) {
	var h func(TxFetchPageStartInfo) func(TxFetchPageDoneInfo)
	if t != nil {
		h = t.OnTxFetchPage
	}
	onDone := onStart(h, TxFetchPageStartInfo{Context: c, Call: call, Tx: tx})

	return func(values int, last bool, err error) {
		onDone(TxFetchPageDoneInfo{Values: values, Last: last, Error: err})
	}
}

func SessionOnTxCommit(t *Session, c *context.Context, call call, s sessionInfo, tx txInfo) func(err error) {
	var h func(TxCommitStartInfo) func(TxCommitDoneInfo)
	if t != nil {
		h = t.OnTxCommit
	}
	onDone := onStart(h, TxCommitStartInfo{Context: c, Call: call, Session: s, Tx: tx})

	return func(err error) {
		onDone(TxCommitDoneInfo{Error: err})
	}
}

func SessionOnTxAbort(t *Session, c *context.Context, call call, s sessionInfo, tx txInfo) func(err error) {
	var h func(TxAbortStartInfo) func(TxAbortDoneInfo)
	if t != nil {
		h = t.OnTxAbort
	}
	onDone := onStart(h, TxAbortStartInfo{Context: c, Call: call, Session: s, Tx: tx})

	return func(err error) {
		onDone(TxAbortDoneInfo{Error: err})
	}
}
