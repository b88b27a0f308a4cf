package log

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ledgerdb/qldb-go-sdk/trace"
)

// Retry returns trace.Retry with logging events of retry loops
func Retry(l *zap.Logger) *trace.Retry {
	ll := l.Named("retry")

	return &trace.Retry{
		OnRetry: func(
			info trace.RetryLoopStartInfo,
		) func(
			trace.RetryLoopIntermediateInfo,
		) func(
			trace.RetryLoopDoneInfo,
		) {
			fields := []zap.Field{zap.String("label", info.Label)}
			if info.Call != nil {
				fields = append(fields, zap.String("call", info.Call.FunctionID()))
			}
			ll.Debug("start", fields...)
			start := time.Now()

			return func(info trace.RetryLoopIntermediateInfo) func(trace.RetryLoopDoneInfo) {
				if info.Error == nil {
					ll.Debug("attempt done",
						append(fields, zap.Int("attempt", info.Attempt), latencyField(start))...,
					)
				} else {
					ll.Log(failedLevel(info.Error, zapcore.WarnLevel), "attempt failed",
						append(append(fields, zap.Int("attempt", info.Attempt), latencyField(start)),
							errorFields(info.Error)...,
						)...,
					)
				}

				return func(info trace.RetryLoopDoneInfo) {
					if info.Error == nil {
						ll.Debug("done",
							append(fields, zap.Int("attempts", info.Attempts), latencyField(start))...,
						)
					} else {
						ll.Log(failedLevel(info.Error, zapcore.ErrorLevel), "failed",
							append(append(fields, zap.Int("attempts", info.Attempts), latencyField(start)),
								errorFields(info.Error)...,
							)...,
						)
					}
				}
			}
		},
	}
}
