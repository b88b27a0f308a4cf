package query

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ledgerdb/qldb-go-sdk/internal/communicator"
	"github.com/ledgerdb/qldb-go-sdk/internal/pool"
	"github.com/ledgerdb/qldb-go-sdk/internal/query/config"
	"github.com/ledgerdb/qldb-go-sdk/internal/stack"
	"github.com/ledgerdb/qldb-go-sdk/internal/xerrors"
	"github.com/ledgerdb/qldb-go-sdk/query"
	"github.com/ledgerdb/qldb-go-sdk/retry"
)

// Client executes transactions over a pool of sessions with retries.
type Client struct {
	cfg  *config.Config
	comm *communicator.Communicator
	pool *pool.Pool[*Session, Session]

	closeOnce sync.Once
	done      chan struct{}
}

func New(ctx context.Context, comm *communicator.Communicator, cfg *config.Config) *Client {
	c := &Client{
		cfg:  cfg,
		comm: comm,
		done: make(chan struct{}),
	}
	c.pool = pool.New(ctx,
		pool.WithLimit[*Session, Session](cfg.PoolLimit()),
		pool.WithCreateItemTimeout[*Session, Session](cfg.SessionCreateTimeout()),
		pool.WithCloseItemTimeout[*Session, Session](cfg.SessionDeleteTimeout()),
		pool.WithTrace[*Session, Session](cfg.PoolTrace()),
		pool.WithCreateFunc(func(ctx context.Context) (*Session, error) {
			return createSession(ctx, comm, cfg)
		}),
	)

	return c
}

// Do runs op in a transaction and retries the whole transaction on
// retryable failures, each time with a fresh transaction.
func (c *Client) Do(ctx context.Context, op query.Operation, opts ...query.ExecuteOption) (any, error) {
	select {
	case <-c.done:
		return nil, xerrors.WithStackTrace(pool.ErrClosed)
	default:
	}

	executeOptions := query.NewExecuteOptions(opts...)
	executionID := uuid.NewString()

	retryOptions := []retry.Option{
		retry.WithLabel(executionID),
		retry.WithCall(stack.FunctionID("github.com/ledgerdb/qldb-go-sdk/internal/query.(*Client).Do")),
		retry.WithPolicy(c.cfg.RetryPolicy()),
		retry.WithClock(c.cfg.Clock()),
		retry.WithTrace(c.cfg.RetryTrace()),
		retry.WithPanicCallback(c.cfg.PanicCallback()),
	}
	retryOptions = append(retryOptions, executeOptions.RetryOptions...)
	if executeOptions.Label != "" {
		retryOptions = append(retryOptions, retry.WithLabel(executeOptions.Label+"#"+executionID))
	}

	var result any
	err := retry.Retry(ctx, func(ctx context.Context) error {
		return c.pool.With(ctx, func(ctx context.Context, s *Session) error {
			r, err := s.runTransaction(ctx, op)
			if err != nil {
				return xerrors.WithStackTrace(err)
			}
			result = r

			return nil
		})
	}, retryOptions...)
	if err != nil {
		c.cfg.Logger().Debug("execution failed",
			zap.String("executionID", executionID),
			zap.String("label", executeOptions.Label),
			zap.Error(err),
		)

		return nil, xerrors.WithStackTrace(err)
	}

	return result, nil
}

func (c *Client) Stats() pool.Stats {
	return c.pool.Stats()
}

// Close closes the session pool. Subsequent calls of Do fail.
func (c *Client) Close(ctx context.Context) (finalErr error) {
	c.closeOnce.Do(func() {
		close(c.done)
		finalErr = c.pool.Close(ctx)
	})
	if finalErr != nil {
		return xerrors.WithStackTrace(finalErr)
	}

	return nil
}
