package log

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ledgerdb/qldb-go-sdk/internal/xerrors"
	"github.com/ledgerdb/qldb-go-sdk/trace"
)

type testInfo string

func (id testInfo) ID() string { return string(id) }

func (id testInfo) Status() string { return "ready" }

func TestRetry(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tr := Retry(zap.New(core).Named("qldb"))

	ctx := context.Background()
	onIntermediate := trace.RetryOnRetry(tr, &ctx, nil, "insert")
	onIntermediate(1, xerrors.New(xerrors.KindOccConflict, "conflict", xerrors.WithRequestID("req-1")))
	onIntermediate(2, nil)(2, nil)

	entries := logs.All()
	require.Len(t, entries, 4)
	require.Equal(t, "start", entries[0].Message)
	require.Equal(t, "attempt failed", entries[1].Message)
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
	require.Equal(t, "occ-conflict", entries[1].ContextMap()["kind"])
	require.Equal(t, "req-1", entries[1].ContextMap()["requestID"])
	require.Equal(t, true, entries[1].ContextMap()["retryable"])
	require.Equal(t, "attempt done", entries[2].Message)
	require.Equal(t, "done", entries[3].Message)
	require.EqualValues(t, 2, entries[3].ContextMap()["attempts"])
	require.Equal(t, "qldb.retry", entries[3].LoggerName)
}

func TestRetryUserErrorIsQuiet(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	tr := Retry(zap.New(core))

	ctx := context.Background()
	err := errors.New("user")
	trace.RetryOnRetry(tr, &ctx, nil, "")(1, err)(1, err)

	require.Zero(t, logs.Len())
}

func TestSession(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tr := Session(zap.New(core).Named("qldb"))

	ctx := context.Background()
	trace.SessionOnSessionCreate(tr, &ctx, nil, "vehicles")(testInfo("s1"), nil)
	trace.SessionOnTxBegin(tr, &ctx, nil, testInfo("s1"))(testInfo("tx1"), nil)
	trace.SessionOnTxCommit(tr, &ctx, nil, testInfo("s1"), testInfo("tx1"))(
		xerrors.New(xerrors.KindIntegrity, "digest mismatch"),
	)

	entries := logs.All()
	require.Len(t, entries, 3)
	require.Equal(t, "created", entries[0].Message)
	require.Equal(t, "vehicles", entries[0].ContextMap()["ledger"])
	require.Equal(t, "qldb.session", entries[0].LoggerName)
	require.Equal(t, "tx1", entries[1].ContextMap()["tx"])
	require.Equal(t, "tx commit failed", entries[2].Message)
	require.Equal(t, zapcore.WarnLevel, entries[2].Level)
	require.Equal(t, true, entries[2].ContextMap()["deleteSession"])
}

func TestPool(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tr := Pool(zap.New(core))

	trace.PoolOnChange(tr, trace.PoolChange{Limit: 2, Idle: 1, InUse: 1, Created: 2})

	entries := logs.FilterMessage("change").All()
	require.Len(t, entries, 1)
	require.EqualValues(t, 2, entries[0].ContextMap()["limit"])
	require.EqualValues(t, 1, entries[0].ContextMap()["inUse"])
}
