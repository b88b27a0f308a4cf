// Package query declares what a transactional function sees: the executor of
// its transaction and the results of executed statements.
package query

import (
	"context"
	"iter"
	"time"
)

type (
	// Operation is a transactional function. It may be called more than once,
	// each time in a new transaction, so it must not keep state between calls.
	Operation func(ctx context.Context, tx Executor) (any, error)

	// Executor runs statements in one open transaction.
	//
	// The calls of one executor are serialized. After the transaction is
	// committed or aborted every call fails.
	Executor interface {
		// ID returns the transaction id assigned by the service.
		ID() string

		// Execute runs the statement and reads the whole result.
		Execute(ctx context.Context, statement string, params ...any) (Result, error)

		// Query runs the statement and returns a stream over its result.
		// The stream must be consumed before the transaction commits.
		Query(ctx context.Context, statement string, params ...any) (Stream, error)

		// BufferResult reads the rest of the stream.
		BufferResult(ctx context.Context, s Stream) (Result, error)

		// Abort aborts the transaction. It returns ErrTransactionAborted which
		// the operation should return as is.
		Abort(ctx context.Context) error
	}

	// Result is a fully read statement result.
	Result interface {
		Values() []Value
		// Stream replays the values from memory.
		Stream() Stream
		Stats() Stats
	}

	// Stream reads a statement result page by page.
	Stream interface {
		// Next returns io.EOF after the last value.
		Next(ctx context.Context) (Value, error)
		// Range ranges over the values left. It is not restartable.
		Range(ctx context.Context) iter.Seq2[Value, error]
		// Stats is accumulated over the pages read so far.
		Stats() Stats
	}

	// Value is an immutable document.
	Value interface {
		Unmarshal(dst any) error
		Interface() (any, error)
		Bytes() []byte
	}

	// Stats is the cost reported by the service for a statement.
	Stats struct {
		ReadIOs        int64
		WriteIOs       int64
		ProcessingTime time.Duration
	}
)
