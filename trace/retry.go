package trace

import (
	"context"
)

type (
	// Retry specified trace of retry loop activity.
	Retry struct {
		OnRetry func(RetryLoopStartInfo) func(RetryLoopIntermediateInfo) func(RetryLoopDoneInfo)
	}
	RetryLoopStartInfo struct {
		// Context make available context in trace callback function.
		// Pointer to context provide replacement of context in trace callback function.
		// Warning: concurrent access to pointer on client side must be excluded.
		// Safe replacement of context are provided only inside callback function
		Context *context.Context
		Call    call
		Label   string
	}
	RetryLoopIntermediateInfo struct {
		Attempt int
		Error   error
	}
	RetryLoopDoneInfo struct {
		Attempts int
		Error    error
	}
)

// Compose returns a new Retry which has functional fields composed both from t and x.
func (t *Retry) Compose(x *Retry) *Retry {
	var ret Retry
	if t == nil {
		t = &Retry{}
	}
	if x == nil {
		x = &Retry{}
	}
	h1, h2 := t.OnRetry, x.OnRetry
	ret.OnRetry = func(info RetryLoopStartInfo) func(RetryLoopIntermediateInfo) func(RetryLoopDoneInfo) {
		var r1, r2 func(RetryLoopIntermediateInfo) func(RetryLoopDoneInfo)
		if h1 != nil {
			r1 = h1(info)
		}
		if h2 != nil {
			r2 = h2(info)
		}

		return func(info RetryLoopIntermediateInfo) func(RetryLoopDoneInfo) {
			var d1, d2 func(RetryLoopDoneInfo)
			if r1 != nil {
				d1 = r1(info)
			}
			if r2 != nil {
				d2 = r2(info)
			}

			return func(info RetryLoopDoneInfo) {
				if d1 != nil {
					d1(info)
				}
				if d2 != nil {
					d2(info)
				}
			}
		}
	}

	return &ret
}

func RetryOnRetry(t *Retry, c *context.Context, call call, label string) func(attempt int, err error) func(attempts int, err error) {
	var onIntermediate func(RetryLoopIntermediateInfo) func(RetryLoopDoneInfo)
	if t != nil && t.OnRetry != nil {
		onIntermediate = t.OnRetry(RetryLoopStartInfo{
			Context: c,
			Call:    call,
			Label:   label,
		})
	}

	return func(attempt int, err error) func(int, error) {
		var onDone func(RetryLoopDoneInfo)
		if onIntermediate != nil {
			onDone = onIntermediate(RetryLoopIntermediateInfo{
				Attempt: attempt,
				Error:   err,
			})
		}

		return func(attempts int, err error) {
			if onDone != nil {
				onDone(RetryLoopDoneInfo{
					Attempts: attempts,
					Error:    err,
				})
			}
		}
	}
}
