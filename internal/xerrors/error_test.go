package xerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/qldbsession/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/stretchr/testify/require"
)

func responseError(status int, requestID string, err error) *awshttp.ResponseError {
	return &awshttp.ResponseError{
		ResponseError: &smithyhttp.ResponseError{
			Response: &smithyhttp.Response{Response: &http.Response{StatusCode: status}},
			Err:      err,
		},
		RequestID: requestID,
	}
}

func TestFromService(t *testing.T) {
	for _, tt := range []struct {
		name string
		err  error
		kind Kind
	}{
		{
			name: "OccConflict",
			err:  &types.OccConflictException{Message: aws.String("conflict")},
			kind: KindOccConflict,
		},
		{
			name: "InvalidSession",
			err:  &types.InvalidSessionException{Message: aws.String("session expired")},
			kind: KindInvalidSession,
		},
		{
			name: "TransactionExpired",
			err: &types.InvalidSessionException{
				Message: aws.String("Transaction 324weqr2314 has expired"),
			},
			kind: KindTransactionExpired,
		},
		{
			name: "BadRequest",
			err:  &types.BadRequestException{Message: aws.String("bad statement")},
			kind: KindInvalidParameter,
		},
		{
			name: "RateExceeded",
			err:  &types.RateExceededException{Message: aws.String("slow down")},
			kind: KindThrottled,
		},
		{
			name: "CapacityExceeded",
			err:  &types.CapacityExceededException{Message: aws.String("capacity")},
			kind: KindThrottled,
		},
		{
			name: "LimitExceeded",
			err:  &types.LimitExceededException{Message: aws.String("limit")},
			kind: KindThrottled,
		},
		{
			name: "ResourceNotFound",
			err:  &smithy.GenericAPIError{Code: "ResourceNotFoundException", Message: "no ledger"},
			kind: KindResourceNotFound,
		},
		{
			name: "PreconditionNotMet",
			err:  &smithy.GenericAPIError{Code: "ResourcePreconditionNotMetException"},
			kind: KindPreconditionNotMet,
		},
		{
			name: "UnknownCodeOver503",
			err: responseError(http.StatusServiceUnavailable, "req",
				&smithy.GenericAPIError{Code: "SomethingOdd"},
			),
			kind: KindTransient,
		},
		{
			name: "Plain500",
			err:  responseError(http.StatusInternalServerError, "req", errors.New("boom")),
			kind: KindTransient,
		},
		{
			name: "Plain400",
			err:  responseError(http.StatusBadRequest, "req", errors.New("boom")),
			kind: KindUnknown,
		},
		{
			name: "ContextCanceled",
			err:  fmt.Errorf("send: %w", context.Canceled),
			kind: KindCanceled,
		},
		{
			name: "Unknown",
			err:  errors.New("whatever"),
			kind: KindUnknown,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			err := FromService(tt.err)
			require.Equal(t, tt.kind, KindOf(err))
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestFromServiceKeepsRequestID(t *testing.T) {
	err := FromService(responseError(http.StatusBadRequest, "request-42",
		&types.OccConflictException{Message: aws.String("conflict")},
	))
	var e *Error
	require.True(t, As(err, &e))
	require.Equal(t, "request-42", e.RequestID())
	require.Equal(t, "OccConflictException", e.Code())
	require.Contains(t, e.Error(), "occ-conflict/OccConflictException")
}

func TestFromServiceIsIdempotent(t *testing.T) {
	first := FromService(&types.OccConflictException{Message: aws.String("conflict")})
	require.Same(t, first, FromService(first))
}

func TestKindProperties(t *testing.T) {
	for _, tt := range []struct {
		kind          Kind
		retryable     bool
		deleteSession bool
	}{
		{KindOccConflict, true, false},
		{KindInvalidSession, true, true},
		{KindTransactionExpired, false, true},
		{KindResourceNotFound, false, false},
		{KindInvalidParameter, false, false},
		{KindPreconditionNotMet, false, false},
		{KindThrottled, true, false},
		{KindTransient, true, false},
		{KindClient, false, false},
		{KindIntegrity, false, true},
		{KindCanceled, false, false},
		{KindUnknown, false, false},
	} {
		t.Run(tt.kind.String(), func(t *testing.T) {
			require.Equal(t, tt.retryable, tt.kind.Retryable())
			require.Equal(t, tt.deleteSession, tt.kind.MustDeleteSession())
		})
	}
}

func TestWithStackTrace(t *testing.T) {
	err := WithStackTrace(New(KindOccConflict, "conflict"))
	require.Contains(t, err.Error(), "xerrors.TestWithStackTrace(error_test.go:")
	require.True(t, IsKind(err, KindOccConflict))
	require.Nil(t, WithStackTrace(nil))
}

func TestJoin(t *testing.T) {
	require.NoError(t, Join(nil, nil))

	single := errors.New("single")
	require.Same(t, single, Join(nil, single))

	err := Join(New(KindThrottled, "slow"), context.Canceled)
	require.Equal(t, KindThrottled, KindOf(err))
	require.ErrorIs(t, err, context.Canceled)
}

func TestRetryable(t *testing.T) {
	base := errors.New("custom")

	err := Retryable(base)
	require.Equal(t, KindTransient, KindOf(err))
	require.ErrorIs(t, err, base)

	err = Retryable(base, WithDeleteSession())
	require.Equal(t, KindInvalidSession, KindOf(err))
}
