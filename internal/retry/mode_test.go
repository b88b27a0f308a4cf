package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerdb/qldb-go-sdk/internal/xerrors"
)

func TestCheck(t *testing.T) {
	for _, tt := range []struct {
		name          string
		err           error
		kind          xerrors.Kind
		retry         bool
		deleteSession bool
	}{
		{
			name:  "OccConflict",
			err:   xerrors.WithStackTrace(xerrors.New(xerrors.KindOccConflict, "conflict")),
			kind:  xerrors.KindOccConflict,
			retry: true,
		},
		{
			name:          "InvalidSession",
			err:           fmt.Errorf("wrapped: %w", xerrors.New(xerrors.KindInvalidSession, "expired")),
			kind:          xerrors.KindInvalidSession,
			retry:         true,
			deleteSession: true,
		},
		{
			name: "NotFound",
			err:  xerrors.New(xerrors.KindResourceNotFound, "no table"),
			kind: xerrors.KindResourceNotFound,
		},
		{
			name:          "Integrity",
			err:           xerrors.New(xerrors.KindIntegrity, "digest mismatch"),
			kind:          xerrors.KindIntegrity,
			deleteSession: true,
		},
		{
			name: "UserError",
			err:  errors.New("user"),
			kind: xerrors.KindUnknown,
		},
		{
			name: "Canceled",
			err:  context.Canceled,
			kind: xerrors.KindCanceled,
		},
		{
			name:  "UserRetryable",
			err:   xerrors.Retryable(errors.New("user")),
			kind:  xerrors.KindTransient,
			retry: true,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			m := Check(tt.err)
			require.Equal(t, tt.kind, m.Kind())
			require.Equal(t, tt.retry, m.MustRetry())
			require.Equal(t, tt.retry, m.MustBackoff())
			require.Equal(t, tt.deleteSession, m.MustDeleteSession())
		})
	}
}
