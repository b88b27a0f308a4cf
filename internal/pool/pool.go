package pool

import (
	"context"
	"sync"
	"time"

	"github.com/eapache/queue"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/ledgerdb/qldb-go-sdk/internal/stack"
	"github.com/ledgerdb/qldb-go-sdk/internal/xerrors"
	"github.com/ledgerdb/qldb-go-sdk/trace"
)

const DefaultLimit = 50

type (
	Item[T any] interface {
		*T
		IsAlive() bool
		Close(ctx context.Context) error
	}
	Config[PT Item[T], T any] struct {
		trace         *trace.Pool
		limit         int
		createItem    func(ctx context.Context) (PT, error)
		createTimeout time.Duration
		closeTimeout  time.Duration
	}
	// Pool is a bounded set of reusable items.
	//
	// A permit of the weighted semaphore is held for every item in use, so
	// waiters are served in FIFO order. Items are created only when no idle
	// item exists, therefore the number of live items never exceeds the limit.
	Pool[PT Item[T], T any] struct {
		config Config[PT, T]

		sema *semaphore.Weighted

		mu      sync.Mutex
		idle    *queue.Queue
		inUse   int
		created uint64
		closed  uint64

		done      chan struct{}
		closeOnce sync.Once
	}
	option[PT Item[T], T any] func(c *Config[PT, T])
)

func WithCreateFunc[PT Item[T], T any](f func(ctx context.Context) (PT, error)) option[PT, T] {
	return func(c *Config[PT, T]) {
		c.createItem = f
	}
}

func WithCreateItemTimeout[PT Item[T], T any](t time.Duration) option[PT, T] {
	return func(c *Config[PT, T]) {
		c.createTimeout = t
	}
}

func WithCloseItemTimeout[PT Item[T], T any](t time.Duration) option[PT, T] {
	return func(c *Config[PT, T]) {
		c.closeTimeout = t
	}
}

func WithLimit[PT Item[T], T any](size int) option[PT, T] {
	return func(c *Config[PT, T]) {
		if size > 0 {
			c.limit = size
		}
	}
}

func WithTrace[PT Item[T], T any](t *trace.Pool) option[PT, T] {
	return func(c *Config[PT, T]) {
		c.trace = c.trace.Compose(t)
	}
}

func New[PT Item[T], T any](
	ctx context.Context,
	opts ...option[PT, T],
) *Pool[PT, T] {
	p := &Pool[PT, T]{
		config: Config[PT, T]{
			limit:      DefaultLimit,
			createItem: defaultCreateItem[T, PT],
		},
		idle: queue.New(),
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&p.config)
		}
	}

	onDone := trace.PoolOnNew(p.config.trace, &ctx,
		stack.FunctionID("github.com/ledgerdb/qldb-go-sdk/internal/pool.New"),
	)
	defer func() {
		onDone(p.config.limit)
	}()

	p.sema = semaphore.NewWeighted(int64(p.config.limit))

	return p
}

// defaultCreateItem returns a new item
func defaultCreateItem[T any, PT Item[T]](context.Context) (PT, error) {
	var item T

	return &item, nil
}

func (p *Pool[PT, T]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.stats()
}

// p.mu must be locked
func (p *Pool[PT, T]) stats() Stats {
	return Stats{
		Limit:   p.config.limit,
		Idle:    p.idle.Length(),
		InUse:   p.inUse,
		Created: p.created,
		Closed:  p.closed,
	}
}

// change applies f under the lock and reports the resulting stats.
func (p *Pool[PT, T]) change(f func()) {
	p.mu.Lock()
	f()
	s := p.stats()
	p.mu.Unlock()

	trace.PoolOnChange(p.config.trace, trace.PoolChange{
		Limit:   s.Limit,
		Idle:    s.Idle,
		InUse:   s.InUse,
		Created: s.Created,
		Closed:  s.Closed,
	})
}

func (p *Pool[PT, T]) isClosed() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// getItemFromIdle pops the oldest idle item and marks it in use.
func (p *Pool[PT, T]) getItemFromIdle() (item PT) {
	p.change(func() {
		if p.idle.Length() == 0 {
			return
		}
		item = p.idle.Remove().(PT) //nolint:forcetypeassert
		p.inUse++
	})

	return item
}

func (p *Pool[PT, T]) createItem(ctx context.Context) (PT, error) {
	var (
		createCtx context.Context
		cancel    context.CancelFunc
	)
	if d := p.config.createTimeout; d > 0 {
		createCtx, cancel = context.WithTimeout(ctx, d)
	} else {
		createCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	item, err := p.config.createItem(createCtx)
	if err != nil {
		if xerrors.IsContextError(err) && ctx.Err() == nil {
			// the create timeout expired, the caller still waits
			return nil, xerrors.WithStackTrace(xerrors.Retryable(err))
		}

		return nil, xerrors.WithStackTrace(err)
	}

	p.change(func() {
		p.created++
		p.inUse++
	})

	return item, nil
}

// getItem returns an alive idle item or a new one. A permit must be held.
func (p *Pool[PT, T]) getItem(ctx context.Context) (_ PT, finalErr error) {
	var (
		item    PT
		created bool
	)
	onDone := trace.PoolOnGet(p.config.trace, &ctx,
		stack.FunctionID("github.com/ledgerdb/qldb-go-sdk/internal/pool.(*Pool).getItem"),
	)
	defer func() {
		onDone(item, created, finalErr)
	}()

	for {
		item = p.getItemFromIdle()
		if item == nil {
			break
		}
		if item.IsAlive() {
			return item, nil
		}
		_ = p.closeItem(ctx, item)
	}

	item, err := p.createItem(ctx)
	if err != nil {
		return nil, xerrors.WithStackTrace(err)
	}
	created = true

	return item, nil
}

// putItem returns the item to the idle set or closes it if it must not be reused.
func (p *Pool[PT, T]) putItem(ctx context.Context, item PT, reusable bool) (finalErr error) {
	discarded := !reusable || !item.IsAlive()
	onDone := trace.PoolOnPut(p.config.trace, &ctx,
		stack.FunctionID("github.com/ledgerdb/qldb-go-sdk/internal/pool.(*Pool).putItem"), item,
	)
	defer func() {
		onDone(discarded, finalErr)
	}()

	if !discarded {
		// checked under the lock: Close drains the idle set after closing done
		p.change(func() {
			if p.isClosed() {
				discarded = true

				return
			}
			p.inUse--
			p.idle.Add(item)
		})
	}

	if discarded {
		return p.closeItem(ctx, item)
	}

	return nil
}

// closeItem closes an item counted as in use. The close is not
// interrupted by the cancellation of ctx, only by the close timeout.
func (p *Pool[PT, T]) closeItem(ctx context.Context, item PT) error {
	var (
		closeCtx context.Context
		cancel   context.CancelFunc
	)
	if d := p.config.closeTimeout; d > 0 {
		closeCtx, cancel = context.WithTimeout(context.WithoutCancel(ctx), d)
	} else {
		closeCtx, cancel = context.WithCancel(context.WithoutCancel(ctx))
	}
	defer cancel()

	err := item.Close(closeCtx)

	p.change(func() {
		p.inUse--
		p.closed++
	})

	if err != nil {
		return xerrors.WithStackTrace(err)
	}

	return nil
}

// With runs f with an item of the pool.
//
// The item is returned to the pool after f unless it reports itself dead.
// If f panics, the item is closed and the panic goes on.
func (p *Pool[PT, T]) With(
	ctx context.Context,
	f func(ctx context.Context, item PT) error,
) (finalErr error) {
	onDone := trace.PoolOnWith(p.config.trace, &ctx,
		stack.FunctionID("github.com/ledgerdb/qldb-go-sdk/internal/pool.(*Pool).With"),
	)
	defer func() {
		onDone(finalErr)
	}()

	if p.isClosed() {
		return xerrors.WithStackTrace(ErrClosed)
	}

	if err := p.sema.Acquire(ctx, 1); err != nil {
		return xerrors.WithStackTrace(err)
	}
	defer p.sema.Release(1)

	if p.isClosed() {
		return xerrors.WithStackTrace(ErrClosed)
	}

	item, err := p.getItem(ctx)
	if err != nil {
		return xerrors.WithStackTrace(err)
	}

	completed := false
	defer func() {
		_ = p.putItem(ctx, item, completed)
	}()

	err = f(ctx, item)
	completed = true
	if err != nil {
		return xerrors.WithStackTrace(err)
	}

	return nil
}

// Close closes all idle items in parallel. Items in use are closed when
// they are returned. Further calls of With fail with ErrClosed.
func (p *Pool[PT, T]) Close(ctx context.Context) (finalErr error) {
	onDone := trace.PoolOnClose(p.config.trace, &ctx,
		stack.FunctionID("github.com/ledgerdb/qldb-go-sdk/internal/pool.(*Pool).Close"),
	)
	defer func() {
		onDone(finalErr)
	}()

	var idle []PT
	p.closeOnce.Do(func() {
		close(p.done)

		p.change(func() {
			for p.idle.Length() > 0 {
				idle = append(idle, p.idle.Remove().(PT)) //nolint:forcetypeassert
			}
			// taken out of the idle set as closeItem expects
			p.inUse += len(idle)
		})
	})

	var g errgroup.Group
	for _, item := range idle {
		g.Go(func() error {
			return p.closeItem(ctx, item)
		})
	}
	if err := g.Wait(); err != nil {
		return xerrors.WithStackTrace(err)
	}

	return nil
}
