package trace

import (
	"context"
)

type (
	// Pool specified trace of session pool activity.
	Pool struct {
		OnNew    func(PoolNewStartInfo) func(PoolNewDoneInfo)
		OnClose  func(PoolCloseStartInfo) func(PoolCloseDoneInfo)
		OnWith   func(PoolWithStartInfo) func(PoolWithDoneInfo)
		OnGet    func(PoolGetStartInfo) func(PoolGetDoneInfo)
		OnPut    func(PoolPutStartInfo) func(PoolPutDoneInfo)
		OnChange func(PoolChange)
	}
	PoolNewStartInfo struct {
		Context *context.Context
		Call    call
	}
	PoolNewDoneInfo struct {
		Limit int
	}
	PoolCloseStartInfo struct {
		Context *context.Context
		Call    call
	}
	PoolCloseDoneInfo struct {
		Error error
	}
	PoolWithStartInfo struct {
		Context *context.Context
		Call    call
	}
	PoolWithDoneInfo struct {
		Error error
	}
	PoolGetStartInfo struct {
		Context *context.Context
		Call    call
	}
	PoolGetDoneInfo struct {
		Item    any
		Created bool
		Error   error
	}
	PoolPutStartInfo struct {
		Context *context.Context
		Call    call
		Item    any
	}
	PoolPutDoneInfo struct {
		Discarded bool
		Error     error
	}
	PoolChange struct {
		Limit   int
		Idle    int
		InUse   int
		Created uint64
		Closed  uint64
	}
)

// Compose returns a new Pool which has functional fields composed both from t and x.
func (t *Pool) Compose(x *Pool) *Pool {
	var ret Pool
	if t == nil {
		t = &Pool{}
	}
	if x == nil {
		x = &Pool{}
	}
	ret.OnNew = composeStartDone(t.OnNew, x.OnNew)
	ret.OnClose = composeStartDone(t.OnClose, x.OnClose)
	ret.OnWith = composeStartDone(t.OnWith, x.OnWith)
	ret.OnGet = composeStartDone(t.OnGet, x.OnGet)
	ret.OnPut = composeStartDone(t.OnPut, x.OnPut)
	{
		h1, h2 := t.OnChange, x.OnChange
		ret.OnChange = func(info PoolChange) {
			if h1 != nil {
				h1(info)
			}
			if h2 != nil {
				h2(info)
			}
		}
	}

	return &ret
}

func PoolOnNew(t *Pool, c *context.Context, call call) func(limit int) {
	onDone := onStart(t.onNew(), PoolNewStartInfo{Context: c, Call: call})

	return func(limit int) {
		onDone(PoolNewDoneInfo{Limit: limit})
	}
}

func PoolOnClose(t *Pool, c *context.Context, call call) func(err error) {
	onDone := onStart(t.onClose(), PoolCloseStartInfo{Context: c, Call: call})

	return func(err error) {
		onDone(PoolCloseDoneInfo{Error: err})
	}
}

func PoolOnWith(t *Pool, c *context.Context, call call) func(err error) {
	onDone := onStart(t.onWith(), PoolWithStartInfo{Context: c, Call: call})

	return func(err error) {
		onDone(PoolWithDoneInfo{Error: err})
	}
}

func PoolOnGet(t *Pool, c *context.Context, call call) func(item any, created bool, err error) {
	onDone := onStart(t.onGet(), PoolGetStartInfo{Context: c, Call: call})

	return func(item any, created bool, err error) {
		onDone(PoolGetDoneInfo{Item: item, Created: created, Error: err})
	}
}

func PoolOnPut(t *Pool, c *context.Context, call call, item any) func(discarded bool, err error) {
	onDone := onStart(t.onPut(), PoolPutStartInfo{Context: c, Call: call, Item: item})

	return func(discarded bool, err error) {
		onDone(PoolPutDoneInfo{Discarded: discarded, Error: err})
	}
}

func PoolOnChange(t *Pool, change PoolChange) {
	if t != nil && t.OnChange != nil {
		t.OnChange(change)
	}
}

func (t *Pool) onNew() func(PoolNewStartInfo) func(PoolNewDoneInfo) {
	if t == nil {
		return nil
	}

	return t.OnNew
}

func (t *Pool) onClose() func(PoolCloseStartInfo) func(PoolCloseDoneInfo) {
	if t == nil {
		return nil
	}

	return t.OnClose
}

func (t *Pool) onWith() func(PoolWithStartInfo) func(PoolWithDoneInfo) {
	if t == nil {
		return nil
	}

	return t.OnWith
}

func (t *Pool) onGet() func(PoolGetStartInfo) func(PoolGetDoneInfo) {
	if t == nil {
		return nil
	}

	return t.OnGet
}

func (t *Pool) onPut() func(PoolPutStartInfo) func(PoolPutDoneInfo) {
	if t == nil {
		return nil
	}

	return t.OnPut
}
