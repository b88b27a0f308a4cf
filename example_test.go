package qldb_test

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/qldbsession"
	"go.uber.org/zap"

	qldb "github.com/ledgerdb/qldb-go-sdk"
	"github.com/ledgerdb/qldb-go-sdk/query"
	"github.com/ledgerdb/qldb-go-sdk/retry"
)

type Person struct {
	FirstName string `ion:"FirstName"`
	LastName  string `ion:"LastName"`
	DOB       string `ion:"DOB"`
}

func Example() {
	ctx := context.TODO()
	service := qldbsession.NewFromConfig(aws.Config{Region: "us-east-1"})

	driver, err := qldb.New(ctx, "vehicle-registration", service,
		qldb.WithMaxConcurrentTransactions(10),
		qldb.WithRetryPolicy(retry.Policy{
			MaxAttempts: 5,
			BaseDelay:   20 * time.Millisecond,
			MaxDelay:    time.Second,
		}),
		qldb.WithLogger(zap.NewExample()),
	)
	if err != nil {
		fmt.Printf("create driver failed: %v\n", err)

		return
	}
	defer func() { _ = driver.Close(ctx) }()

	people, err := qldb.Execute(ctx, driver, func(ctx context.Context, tx query.Executor) ([]Person, error) {
		if _, err := tx.Execute(ctx, "INSERT INTO Person ?", Person{
			FirstName: "Raul", LastName: "Lewis", DOB: "1963-08-19",
		}); err != nil {
			return nil, err
		}

		r, err := tx.Execute(ctx, "SELECT * FROM Person WHERE LastName = ?", "Lewis")
		if err != nil {
			return nil, err
		}
		people := make([]Person, len(r.Values()))
		for i, v := range r.Values() {
			if err := v.Unmarshal(&people[i]); err != nil {
				return nil, err
			}
		}

		return people, nil
	}, query.WithLabel("register person"))
	if err != nil {
		fmt.Printf("transaction failed: %v\n", err)

		return
	}
	fmt.Println(len(people))
}

func Example_stream() {
	ctx := context.TODO()
	driver, err := qldb.New(ctx, "vehicle-registration",
		qldbsession.NewFromConfig(aws.Config{Region: "us-east-1"}),
	)
	if err != nil {
		fmt.Printf("create driver failed: %v\n", err)

		return
	}
	defer func() { _ = driver.Close(ctx) }()

	_, err = driver.Execute(ctx, func(ctx context.Context, tx query.Executor) (any, error) {
		s, err := tx.Query(ctx, "SELECT VIN FROM Vehicle")
		if err != nil {
			return nil, err
		}
		// the stream must be consumed before the function returns
		for v, err := range s.Range(ctx) {
			if err != nil {
				return nil, err
			}
			var row struct {
				VIN string `ion:"VIN"`
			}
			if err := v.Unmarshal(&row); err != nil {
				return nil, err
			}
			fmt.Println(row.VIN)
		}

		return nil, nil
	})
	if err != nil && qldb.IsOccConflict(err) {
		fmt.Println("conflicting transactions")
	}
}
