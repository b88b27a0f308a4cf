// Package log turns driver trace events into structured zap log records.
package log

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ledgerdb/qldb-go-sdk/internal/retry"
	"github.com/ledgerdb/qldb-go-sdk/internal/xerrors"
)

func latencyField(start time.Time) zap.Field {
	return zap.Duration("latency", time.Since(start))
}

// errorFields describes a classified failure.
func errorFields(err error) []zap.Field {
	m := retry.Check(err)
	fields := []zap.Field{
		zap.Error(err),
		zap.Stringer("kind", m.Kind()),
		zap.Bool("retryable", m.MustRetry()),
		zap.Bool("deleteSession", m.MustDeleteSession()),
	}
	if m.Code() != "" {
		fields = append(fields, zap.String("code", m.Code()))
	}
	var e *xerrors.Error
	if xerrors.As(err, &e) && e.RequestID() != "" {
		fields = append(fields, zap.String("requestID", e.RequestID()))
	}

	return fields
}

// failedLevel logs expected outcomes of user functions quieter than service failures.
func failedLevel(err error, serviceLevel zapcore.Level) zapcore.Level {
	if xerrors.IsKind(err, xerrors.KindUnknown, xerrors.KindCanceled) {
		return zapcore.DebugLevel
	}

	return serviceLevel
}
