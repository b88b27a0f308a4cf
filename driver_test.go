package qldb

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/qldbsession/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ledgerdb/qldb-go-sdk/internal/xtest"
	"github.com/ledgerdb/qldb-go-sdk/query"
	"github.com/ledgerdb/qldb-go-sdk/retry"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testLedgerName = "vehicles"

type vehicle struct {
	VIN  string `ion:"VIN"`
	Make string `ion:"Make"`
	Year int    `ion:"Year"`
}

func newTestDriver(t testing.TB, l *xtest.Ledger, opts ...Option) *Driver {
	t.Helper()

	ctx := xtest.Context(t)
	d, err := New(ctx, testLedgerName, l, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = d.Close(context.Background())
	})

	return d
}

func TestNew(t *testing.T) {
	ctx := xtest.Context(t)
	l := xtest.NewLedger(testLedgerName)
	t.Run("EmptyLedgerName", func(t *testing.T) {
		_, err := New(ctx, "", l)
		require.Error(t, err)
		require.Equal(t, KindClient, KindOf(err))
	})
	t.Run("NilService", func(t *testing.T) {
		_, err := New(ctx, testLedgerName, nil)
		require.Error(t, err)
	})
	t.Run("InvalidRetryPolicy", func(t *testing.T) {
		_, err := New(ctx, testLedgerName, l, WithRetryPolicy(retry.Policy{MaxAttempts: 0}))
		require.Error(t, err)
	})
	t.Run("NoSessionsUntilFirstExecute", func(t *testing.T) {
		d, err := New(ctx, testLedgerName, l)
		require.NoError(t, err)
		require.Zero(t, l.Stats().SessionsStarted)
		require.NoError(t, d.Close(ctx))
	})
}

func TestExecute(t *testing.T) {
	ctx := xtest.Context(t)
	l := xtest.NewLedger(testLedgerName)
	l.Result("SELECT * FROM Vehicle WHERE Year > ?", []any{
		vehicle{VIN: "1N4AL11D75C109151", Make: "Volvo", Year: 2011},
	}, []any{
		vehicle{VIN: "KM8SRDHF6EU074761", Make: "Tesla", Year: 2015},
	})
	d := newTestDriver(t, l, WithLogger(xtest.Logger(t)))

	vehicles, err := Execute(ctx, d, func(ctx context.Context, tx query.Executor) ([]vehicle, error) {
		r, err := tx.Execute(ctx, "SELECT * FROM Vehicle WHERE Year > ?", 2010)
		if err != nil {
			return nil, err
		}
		out := make([]vehicle, len(r.Values()))
		for i, v := range r.Values() {
			if err := v.Unmarshal(&out[i]); err != nil {
				return nil, err
			}
		}

		return out, nil
	})
	require.NoError(t, err)
	require.Equal(t, []vehicle{
		{VIN: "1N4AL11D75C109151", Make: "Volvo", Year: 2011},
		{VIN: "KM8SRDHF6EU074761", Make: "Tesla", Year: 2015},
	}, vehicles)
}

func TestTableNames(t *testing.T) {
	ctx := xtest.Context(t)
	l := xtest.NewLedger(testLedgerName)
	l.Result(tableNamesStatement, []any{"Vehicle", "Person"}, []any{"DriversLicense"})
	d := newTestDriver(t, l)

	names, err := d.TableNames(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Vehicle", "Person", "DriversLicense"}, names)
}

func TestErrors(t *testing.T) {
	ctx := xtest.Context(t)
	t.Run("OccConflictExhausted", func(t *testing.T) {
		l := xtest.NewLedger(testLedgerName, xtest.WithOnCommit(func(context.Context, string) error {
			return &types.OccConflictException{Message: aws.String("conflict")}
		}))
		d := newTestDriver(t, l, WithRetryPolicy(retry.Policy{MaxAttempts: 2, BaseDelay: 1, MaxDelay: 1}))

		_, err := d.Execute(ctx, func(ctx context.Context, tx query.Executor) (any, error) {
			return nil, nil
		})
		require.True(t, IsOccConflict(err))
		require.True(t, IsRetriesExhausted(err))
		require.True(t, IsRetryable(err))
		require.False(t, IsInvalidSession(err))
	})
	t.Run("Integrity", func(t *testing.T) {
		l := xtest.NewLedger(testLedgerName, xtest.WithCorruptCommitDigest())
		d := newTestDriver(t, l)

		_, err := d.Execute(ctx, func(ctx context.Context, tx query.Executor) (any, error) {
			return tx.Execute(ctx, "INSERT INTO Vehicle ?", vehicle{VIN: "3HGGK5G53FM761765"})
		})
		require.True(t, IsIntegrityError(err))
		require.False(t, IsRetriesExhausted(err))
	})
	t.Run("Aborted", func(t *testing.T) {
		d := newTestDriver(t, xtest.NewLedger(testLedgerName))

		_, err := d.Execute(ctx, func(ctx context.Context, tx query.Executor) (any, error) {
			return nil, tx.Abort(ctx)
		})
		require.ErrorIs(t, err, ErrTransactionAborted)
	})
}

func TestClose(t *testing.T) {
	ctx := xtest.Context(t)
	l := xtest.NewLedger(testLedgerName)
	registry := prometheus.NewRegistry()
	d, err := New(ctx, testLedgerName, l, WithMetrics(registry), WithMaxConcurrentTransactions(3))
	require.NoError(t, err)

	_, err = d.Execute(ctx, func(ctx context.Context, tx query.Executor) (any, error) {
		return nil, nil
	})
	require.NoError(t, err)
	n, err := testutil.GatherAndCount(registry)
	require.NoError(t, err)
	require.Equal(t, 5, n)

	require.NoError(t, d.Close(ctx))
	require.NoError(t, d.Close(ctx))
	require.Zero(t, l.OpenSessions())
	n, err = testutil.GatherAndCount(registry)
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = d.Execute(ctx, func(ctx context.Context, tx query.Executor) (any, error) {
		return nil, nil
	})
	require.ErrorIs(t, err, ErrDriverClosed)
}

func TestLogger(t *testing.T) {
	ctx := xtest.Context(t)
	core, logs := observer.New(zap.DebugLevel)
	l := xtest.NewLedger(testLedgerName, xtest.WithOnExecute(func() func(context.Context, string, string) error {
		var calls int

		return func(context.Context, string, string) error {
			calls++
			if calls == 1 {
				return &types.OccConflictException{Message: aws.String("conflict")}
			}

			return nil
		}
	}()))
	d := newTestDriver(t, l, WithLogger(zap.New(core)),
		WithRetryPolicy(retry.Policy{MaxAttempts: 3, BaseDelay: 1, MaxDelay: 1}),
	)

	_, err := d.Execute(ctx, func(ctx context.Context, tx query.Executor) (any, error) {
		return tx.Execute(ctx, "UPDATE Vehicle SET Year = 2012")
	}, query.WithLabel("update"))
	require.NoError(t, err)

	require.NotZero(t, logs.FilterLoggerName("qldb.session").Len())
	require.NotZero(t, logs.FilterLoggerName("qldb.pool").Len())
	require.NotZero(t, logs.FilterLoggerName("qldb.retry").Len())
}
