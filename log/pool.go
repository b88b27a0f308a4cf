package log

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ledgerdb/qldb-go-sdk/trace"
)

// Pool makes trace.Pool with logging events of the session pool
func Pool(l *zap.Logger) *trace.Pool {
	ll := l.Named("pool")

	return &trace.Pool{
		OnNew: func(info trace.PoolNewStartInfo) func(trace.PoolNewDoneInfo) {
			ll.Debug("create start")
			start := time.Now()

			return func(info trace.PoolNewDoneInfo) {
				ll.Info("created",
					zap.Int("limit", info.Limit),
					latencyField(start),
				)
			}
		},
		OnClose: func(info trace.PoolCloseStartInfo) func(trace.PoolCloseDoneInfo) {
			ll.Debug("close start")
			start := time.Now()

			return func(info trace.PoolCloseDoneInfo) {
				if info.Error == nil {
					ll.Info("closed", latencyField(start))
				} else {
					ll.Warn("close failed", append(errorFields(info.Error), latencyField(start))...)
				}
			}
		},
		OnGet: func(info trace.PoolGetStartInfo) func(trace.PoolGetDoneInfo) {
			start := time.Now()

			return func(info trace.PoolGetDoneInfo) {
				if info.Error == nil {
					ll.Debug("got",
						zap.Any("item", info.Item),
						zap.Bool("created", info.Created),
						latencyField(start),
					)
				} else {
					ll.Log(failedLevel(info.Error, zapcore.WarnLevel), "get failed",
						append(errorFields(info.Error), latencyField(start))...,
					)
				}
			}
		},
		OnPut: func(info trace.PoolPutStartInfo) func(trace.PoolPutDoneInfo) {
			item := info.Item

			return func(info trace.PoolPutDoneInfo) {
				if info.Error == nil {
					ll.Debug("put",
						zap.Any("item", item),
						zap.Bool("discarded", info.Discarded),
					)
				} else {
					ll.Warn("put failed", append(errorFields(info.Error), zap.Any("item", item))...)
				}
			}
		},
		OnChange: func(info trace.PoolChange) {
			ll.Debug("change",
				zap.Int("limit", info.Limit),
				zap.Int("idle", info.Idle),
				zap.Int("inUse", info.InUse),
				zap.Uint64("created", info.Created),
				zap.Uint64("closed", info.Closed),
			)
		},
	}
}
