package query

import (
	"github.com/ledgerdb/qldb-go-sdk/retry"
	"github.com/ledgerdb/qldb-go-sdk/trace"
)

type (
	ExecuteOptions struct {
		Label        string
		RetryOptions []retry.Option
	}
	ExecuteOption interface {
		applyExecuteOption(o *ExecuteOptions)
	}

	labelOption       string
	retryPolicyOption retry.Policy
	retryTraceOption  struct{ t *trace.Retry }
)

func (label labelOption) applyExecuteOption(o *ExecuteOptions) {
	o.Label = string(label)
	o.RetryOptions = append(o.RetryOptions, retry.WithLabel(string(label)))
}

func (p retryPolicyOption) applyExecuteOption(o *ExecuteOptions) {
	o.RetryOptions = append(o.RetryOptions, retry.WithPolicy(retry.Policy(p)))
}

func (o retryTraceOption) applyExecuteOption(opts *ExecuteOptions) {
	opts.RetryOptions = append(opts.RetryOptions, retry.WithTrace(o.t))
}

// WithLabel names the call in traces and logs
func WithLabel(label string) ExecuteOption {
	return labelOption(label)
}

// WithRetryPolicy overrides the retry policy of the driver for one call
func WithRetryPolicy(p retry.Policy) ExecuteOption {
	return retryPolicyOption(p)
}

// WithRetryTrace adds a retry trace for one call
func WithRetryTrace(t *trace.Retry) ExecuteOption {
	return retryTraceOption{t: t}
}

func NewExecuteOptions(opts ...ExecuteOption) (o ExecuteOptions) {
	for _, opt := range opts {
		if opt != nil {
			opt.applyExecuteOption(&o)
		}
	}

	return o
}
