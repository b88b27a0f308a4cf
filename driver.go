package qldb

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/qldbsession"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ledgerdb/qldb-go-sdk/internal/communicator"
	"github.com/ledgerdb/qldb-go-sdk/internal/pool"
	internalQuery "github.com/ledgerdb/qldb-go-sdk/internal/query"
	"github.com/ledgerdb/qldb-go-sdk/internal/query/config"
	"github.com/ledgerdb/qldb-go-sdk/internal/xerrors"
	"github.com/ledgerdb/qldb-go-sdk/log"
	"github.com/ledgerdb/qldb-go-sdk/query"
)

// tableNamesStatement lists the active tables of the ledger.
const tableNamesStatement = "SELECT VALUE name FROM information_schema.user_tables WHERE status = 'ACTIVE'"

// Service is the ledger session API. *qldbsession.Client implements it.
type Service interface {
	SendCommand(
		ctx context.Context, params *qldbsession.SendCommandInput, optFns ...func(*qldbsession.Options),
	) (*qldbsession.SendCommandOutput, error)
}

var _ Service = (*qldbsession.Client)(nil)

// Driver executes transactions against one ledger.
//
// Driver is safe for concurrent use. Every Execute borrows a session from a
// bounded pool, so at most WithMaxConcurrentTransactions transactions run at
// the same time and other callers wait in arrival order.
type Driver struct {
	ledgerName string

	logger  *zap.Logger
	options []config.Option

	registerer prometheus.Registerer
	metrics    prometheus.Collector

	config *config.Config
	client *internalQuery.Client

	closeOnce sync.Once
	done      chan struct{}
}

// New makes a Driver for the ledger ledgerName over service.
func New(ctx context.Context, ledgerName string, service Service, opts ...Option) (_ *Driver, finalErr error) {
	if service == nil {
		return nil, xerrors.WithStackTrace(xerrors.Client("service must not be nil"))
	}

	d := &Driver{
		ledgerName: ledgerName,
		logger:     zap.NewNop(),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			if err := opt(ctx, d); err != nil {
				return nil, xerrors.WithStackTrace(err)
			}
		}
	}

	logger := d.logger.Named("qldb")
	d.config = config.New(ledgerName, append([]config.Option{
		config.WithLogger(logger),
		config.WithPoolTrace(log.Pool(logger)),
		config.WithRetryTrace(log.Retry(logger)),
		config.WithSessionTrace(log.Session(logger)),
	}, d.options...)...)
	if err := d.config.Validate(); err != nil {
		return nil, xerrors.WithStackTrace(err)
	}

	d.client = internalQuery.New(ctx, communicator.New(service, ledgerName), d.config)
	defer func() {
		if finalErr != nil {
			_ = d.client.Close(ctx)
		}
	}()

	if d.registerer != nil {
		d.metrics = pool.NewMetricsCollector(ledgerName, d.client)
		if err := d.registerer.Register(d.metrics); err != nil {
			return nil, xerrors.WithStackTrace(xerrors.Client("register metrics: %w", err))
		}
	}

	return d, nil
}

func (d *Driver) LedgerName() string {
	return d.ledgerName
}

func (d *Driver) isClosed() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

// Execute runs op in a transaction, committing it when op returns without
// error and retrying it as a whole on retryable failures. The value returned
// by the last, committed attempt of op is returned.
//
// op may be called several times, each time with a new transaction, so it
// must not have side effects outside of the transaction.
func (d *Driver) Execute(ctx context.Context, op query.Operation, opts ...query.ExecuteOption) (any, error) {
	if d.isClosed() {
		return nil, xerrors.WithStackTrace(ErrDriverClosed)
	}

	res, err := d.client.Do(ctx, op, opts...)
	if err != nil {
		return nil, xerrors.WithStackTrace(err)
	}

	return res, nil
}

// Execute is the typed form of (*Driver).Execute.
func Execute[T any](
	ctx context.Context, d *Driver, op func(ctx context.Context, tx query.Executor) (T, error),
	opts ...query.ExecuteOption,
) (T, error) {
	var zero T
	res, err := d.Execute(ctx, func(ctx context.Context, tx query.Executor) (any, error) {
		return op(ctx, tx)
	}, opts...)
	if err != nil {
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		return zero, nil
	}

	return v, nil
}

// TableNames returns names of the active tables of the ledger.
func (d *Driver) TableNames(ctx context.Context) ([]string, error) {
	return Execute(ctx, d, func(ctx context.Context, tx query.Executor) ([]string, error) {
		r, err := tx.Execute(ctx, tableNamesStatement)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(r.Values()))
		for _, v := range r.Values() {
			var name string
			if err := v.Unmarshal(&name); err != nil {
				return nil, err
			}
			names = append(names, name)
		}

		return names, nil
	}, query.WithLabel("TableNames"))
}

// Close closes all pooled sessions. Transactions in flight finish
// normally and their sessions are closed on return. Close is idempotent.
func (d *Driver) Close(ctx context.Context) (finalErr error) {
	d.closeOnce.Do(func() {
		close(d.done)
		if d.metrics != nil {
			d.registerer.Unregister(d.metrics)
		}
		finalErr = d.client.Close(ctx)
	})
	if finalErr != nil {
		return xerrors.WithStackTrace(finalErr)
	}

	return nil
}
