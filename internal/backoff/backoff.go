package backoff

import (
	"math"
	"math/rand/v2"
	"time"
)

// Backoff is the interface that contains logic of delaying operation retry.
type Backoff interface {
	// Delay returns mapping of i to Delay.
	Delay(i int) time.Duration
}

const (
	DefaultSlotDuration = 10 * time.Millisecond
	DefaultMaxDelay     = 5 * time.Second

	// defaultCeiling keeps 1<<ceiling far from time.Duration overflow
	defaultCeiling = 16
)

var Default = New()

var _ Backoff = (*logBackoff)(nil)

// logBackoff contains logarithmic Backoff policy.
type logBackoff struct {
	// slotDuration is a size of a single time slot used in Backoff Delay
	// calculation.
	// If slotDuration is less or equal to zero, then the DefaultSlotDuration
	// value is used.
	slotDuration time.Duration

	// maxDelay is an upper bound of Delay.
	// If maxDelay is less or equal to zero, then Delay is bounded by ceiling only.
	maxDelay time.Duration

	// ceiling is a maximum degree of Backoff Delay growth.
	ceiling uint

	// jitterLimit controls fixed and random portions of Backoff Delay.
	// Its value can be in range [0, 1].
	// If jitterLimit is non zero, then the Backoff Delay will be equal to (F + R),
	// where F is a result of multiplication of this value and calculated Delay
	// duration D; and R is a random sized part from [0,(D - F)].
	jitterLimit float64
}

type option func(b *logBackoff)

func WithSlotDuration(slotDuration time.Duration) option {
	return func(b *logBackoff) {
		b.slotDuration = slotDuration
	}
}

func WithMaxDelay(maxDelay time.Duration) option {
	return func(b *logBackoff) {
		b.maxDelay = maxDelay
	}
}

func WithCeiling(ceiling uint) option {
	return func(b *logBackoff) {
		b.ceiling = ceiling
	}
}

func WithJitterLimit(jitterLimit float64) option {
	return func(b *logBackoff) {
		b.jitterLimit = jitterLimit
	}
}

func New(opts ...option) logBackoff {
	b := logBackoff{
		slotDuration: DefaultSlotDuration,
		maxDelay:     DefaultMaxDelay,
		ceiling:      defaultCeiling,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&b)
		}
	}

	return b
}

// Delay returns mapping of i to Delay.
func (b logBackoff) Delay(i int) time.Duration {
	s := b.slotDuration
	if s <= 0 {
		s = DefaultSlotDuration
	}
	if i < 0 {
		i = 0
	}
	n := min(uint(i), b.ceiling, defaultCeiling)
	d := time.Duration(math.MaxInt64)
	if s <= d>>n {
		d = s << n
	}
	if b.maxDelay > 0 && d > b.maxDelay {
		d = b.maxDelay
	}
	j := math.Min(1, math.Abs(b.jitterLimit))
	if j == 1 {
		return d
	}
	f := time.Duration(j * float64(d))
	r := int64(d - f)
	if r < math.MaxInt64 {
		r++
	}

	return f + time.Duration(rand.Int64N(r))
}
