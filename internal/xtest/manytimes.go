package xtest

import (
	"sync"
	"testing"
	"time"
)

type manyTimesOptions struct {
	duration time.Duration
	limit    int
}

type ManyTimesOption func(o *manyTimesOptions)

// StopAfter bounds the total run time, one second by default.
func StopAfter(d time.Duration) ManyTimesOption {
	return func(o *manyTimesOptions) {
		o.duration = d
	}
}

// AtMost bounds the number of runs.
func AtMost(n int) ManyTimesOption {
	return func(o *manyTimesOptions) {
		o.limit = n
	}
}

// TestManyTimes repeats test until the time is out, at least once.
// Each run has its own cleanup stack.
func TestManyTimes(t testing.TB, test func(t testing.TB), opts ...ManyTimesOption) {
	t.Helper()

	options := manyTimesOptions{
		duration: time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	start := time.Now()
	for i := 1; ; i++ {
		runOnce(t, test)

		if t.Failed() || time.Since(start) > options.duration {
			return
		}
		if options.limit > 0 && i >= options.limit {
			return
		}
	}
}

func runOnce(t testing.TB, test func(t testing.TB)) {
	t.Helper()

	r := &run{TB: t}
	defer r.cleanup()

	test(r)
}

type run struct {
	testing.TB

	mu       sync.Mutex
	cleanups []func()
}

func (r *run) Cleanup(f func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cleanups = append(r.cleanups, f)
}

func (r *run) cleanup() {
	r.mu.Lock()
	cleanups := r.cleanups
	r.cleanups = nil
	r.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}
