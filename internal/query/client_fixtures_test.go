package query

import (
	"context"
	"time"

	"github.com/rekby/fixenv"

	"github.com/ledgerdb/qldb-go-sdk/internal/communicator"
	"github.com/ledgerdb/qldb-go-sdk/internal/query/config"
	"github.com/ledgerdb/qldb-go-sdk/internal/xtest"
	"github.com/ledgerdb/qldb-go-sdk/retry"
)

const (
	testLedgerName = "vehicles"
	selectPeople   = "SELECT * FROM Person"
)

type person struct {
	Name string `ion:"name"`
	Age  int    `ion:"age"`
}

// people are served in four pages, one of them empty.
var people = []person{
	{Name: "Alice", Age: 30},
	{Name: "Bob", Age: 41},
	{Name: "Carol", Age: 27},
	{Name: "Dave", Age: 35},
	{Name: "Eve", Age: 52},
}

func peoplePages() [][]any {
	return [][]any{
		{people[0], people[1]},
		{},
		{people[2], people[3]},
		{people[4]},
	}
}

var testRetryPolicy = retry.Policy{
	MaxAttempts: 4,
	BaseDelay:   time.Millisecond,
	MaxDelay:    5 * time.Millisecond,
}

func newTestLedger(opts ...xtest.LedgerOption) *xtest.Ledger {
	l := xtest.NewLedger(testLedgerName, opts...)
	l.Result(selectPeople, peoplePages()...)

	return l
}

func newTestClient(ctx context.Context, l *xtest.Ledger, opts ...config.Option) *Client {
	cfg := config.New(testLedgerName, append([]config.Option{
		config.WithRetryPolicy(testRetryPolicy),
	}, opts...)...)

	return New(ctx, communicator.New(l, testLedgerName), cfg)
}

func LedgerInMemory(e fixenv.Env) *xtest.Ledger {
	f := func() (*fixenv.GenericResult[*xtest.Ledger], error) {
		return fixenv.NewGenericResult(newTestLedger()), nil
	}

	return fixenv.CacheResult(e, f)
}

func ClientOverLedger(e fixenv.Env) *Client {
	f := func() (*fixenv.GenericResult[*Client], error) {
		c := newTestClient(context.Background(), LedgerInMemory(e))

		return fixenv.NewGenericResultWithCleanup(c, func() {
			_ = c.Close(context.Background())
		}), nil
	}

	return fixenv.CacheResult(e, f)
}
