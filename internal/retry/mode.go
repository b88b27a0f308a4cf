package retry

import (
	"github.com/ledgerdb/qldb-go-sdk/internal/xerrors"
)

// Mode reports whether operation is able retried and with which properties.
type Mode struct {
	kind          xerrors.Kind
	code          string
	retryable     bool
	backoff       bool
	deleteSession bool
}

// Check returns retry mode for err.
func Check(err error) Mode {
	var e *xerrors.Error
	if xerrors.As(err, &e) {
		return Mode{
			kind:          e.Kind(),
			code:          e.Code(),
			retryable:     e.Kind().Retryable(),
			backoff:       e.Kind().MustBackoff(),
			deleteSession: e.Kind().MustDeleteSession(),
		}
	}

	return Mode{
		kind: xerrors.KindOf(err),
	}
}

func (m Mode) Kind() xerrors.Kind { return m.kind }

func (m Mode) Code() string { return m.code }

func (m Mode) MustRetry() bool { return m.retryable }

func (m Mode) MustBackoff() bool { return m.backoff }

func (m Mode) MustDeleteSession() bool { return m.deleteSession }
