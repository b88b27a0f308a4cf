// Package qldb is a driver for ledger databases served by the ledger session API.
//
// A Driver keeps a pool of server sessions and runs transaction functions
// over them:
//
//	names, err := qldb.Execute(ctx, driver, func(ctx context.Context, tx query.Executor) ([]string, error) {
//		r, err := tx.Execute(ctx, "SELECT VALUE name FROM Person WHERE age > ?", 30)
//		...
//	})
//
// Transactions are committed when the function returns no error and are
// retried as a whole on optimistic concurrency conflicts, invalid sessions
// and transient service failures. Every commit is verified against the
// digest acknowledged by the service.
package qldb
