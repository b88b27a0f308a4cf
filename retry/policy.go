package retry

import (
	"time"

	"github.com/ledgerdb/qldb-go-sdk/internal/backoff"
)

const (
	DefaultMaxAttempts = 4
	DefaultBaseDelay   = backoff.DefaultSlotDuration
	DefaultMaxDelay    = backoff.DefaultMaxDelay

	// jitterLimit keeps half of every delay fixed and randomizes the rest
	jitterLimit = 0.5
)

// Policy bounds the retry loop.
//
// The delay before the attempt i+1 grows exponentially as BaseDelay·2^(i-1)
// and never exceeds MaxDelay.
type Policy struct {
	// MaxAttempts is the total number of attempts including the first one.
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
	}
}

func (p Policy) maxAttempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}

	return p.MaxAttempts
}

func (p Policy) backoff() backoff.Backoff {
	return backoff.New(
		backoff.WithSlotDuration(p.BaseDelay),
		backoff.WithMaxDelay(p.MaxDelay),
		backoff.WithJitterLimit(jitterLimit),
	)
}
