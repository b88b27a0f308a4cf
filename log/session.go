package log

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ledgerdb/qldb-go-sdk/trace"
)

// Session makes trace.Session with logging events of sessions and transactions
func Session(l *zap.Logger) *trace.Session {
	ll := l.Named("session")

	return &trace.Session{
		OnSessionCreate: func(info trace.SessionCreateStartInfo) func(trace.SessionCreateDoneInfo) {
			ledger := info.Ledger
			start := time.Now()

			return func(info trace.SessionCreateDoneInfo) {
				if info.Error == nil {
					ll.Debug("created",
						zap.String("ledger", ledger),
						zap.String("session", info.Session.ID()),
						latencyField(start),
					)
				} else {
					ll.Log(failedLevel(info.Error, zapcore.WarnLevel), "create failed",
						append(errorFields(info.Error), zap.String("ledger", ledger), latencyField(start))...,
					)
				}
			}
		},
		OnSessionDelete: func(info trace.SessionDeleteStartInfo) func(trace.SessionDeleteDoneInfo) {
			id := info.Session.ID()
			status := info.Session.Status()
			start := time.Now()

			return func(info trace.SessionDeleteDoneInfo) {
				if info.Error == nil {
					ll.Debug("deleted",
						zap.String("session", id),
						zap.String("status", status),
						latencyField(start),
					)
				} else {
					ll.Info("delete failed",
						append(errorFields(info.Error), zap.String("session", id), latencyField(start))...,
					)
				}
			}
		},
		OnTxBegin: func(info trace.TxBeginStartInfo) func(trace.TxBeginDoneInfo) {
			session := info.Session.ID()
			start := time.Now()

			return func(info trace.TxBeginDoneInfo) {
				if info.Error == nil {
					ll.Debug("tx begin",
						zap.String("session", session),
						zap.String("tx", info.Tx.ID()),
						latencyField(start),
					)
				} else {
					ll.Log(failedLevel(info.Error, zapcore.WarnLevel), "tx begin failed",
						append(errorFields(info.Error), zap.String("session", session), latencyField(start))...,
					)
				}
			}
		},
		OnTxExecute: func(info trace.TxExecuteStartInfo) func(trace.TxExecuteDoneInfo) {
			fields := []zap.Field{
				zap.String("session", info.Session.ID()),
				zap.String("tx", info.Tx.ID()),
				zap.String("statement", info.Statement),
			}
			start := time.Now()

			return func(info trace.TxExecuteDoneInfo) {
				if info.Error == nil {
					ll.Debug("tx execute", append(fields, latencyField(start))...)
				} else {
					ll.Log(failedLevel(info.Error, zapcore.WarnLevel), "tx execute failed",
						append(append(fields, latencyField(start)), errorFields(info.Error)...)...,
					)
				}
			}
		},
		OnTxFetchPage: func(info trace.TxFetchPageStartInfo) func(trace.TxFetchPageDoneInfo) {
			tx := info.Tx.ID()
			start := time.Now()

			return func(info trace.TxFetchPageDoneInfo) {
				if info.Error == nil {
					ll.Debug("tx fetch page",
						zap.String("tx", tx),
						zap.Int("values", info.Values),
						zap.Bool("last", info.Last),
						latencyField(start),
					)
				} else {
					ll.Log(failedLevel(info.Error, zapcore.WarnLevel), "tx fetch page failed",
						append(errorFields(info.Error), zap.String("tx", tx), latencyField(start))...,
					)
				}
			}
		},
		OnTxCommit: func(info trace.TxCommitStartInfo) func(trace.TxCommitDoneInfo) {
			session := info.Session.ID()
			tx := info.Tx.ID()
			start := time.Now()

			return func(info trace.TxCommitDoneInfo) {
				if info.Error == nil {
					ll.Debug("tx committed",
						zap.String("session", session),
						zap.String("tx", tx),
						latencyField(start),
					)
				} else {
					ll.Log(failedLevel(info.Error, zapcore.WarnLevel), "tx commit failed",
						append(errorFields(info.Error), zap.String("session", session), zap.String("tx", tx),
							latencyField(start))...,
					)
				}
			}
		},
		OnTxAbort: func(info trace.TxAbortStartInfo) func(trace.TxAbortDoneInfo) {
			session := info.Session.ID()
			tx := info.Tx.ID()
			start := time.Now()

			return func(info trace.TxAbortDoneInfo) {
				if info.Error == nil {
					ll.Debug("tx aborted",
						zap.String("session", session),
						zap.String("tx", tx),
						latencyField(start),
					)
				} else {
					// abort is best-effort
					ll.Info("tx abort failed",
						append(errorFields(info.Error), zap.String("session", session), zap.String("tx", tx),
							latencyField(start))...,
					)
				}
			}
		},
	}
}
