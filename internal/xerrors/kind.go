package xerrors

import "fmt"

// Kind is a closed classification of failures. Every error produced by the
// driver carries exactly one Kind, assigned where the failure is observed.
type Kind uint8

const (
	KindUnknown = Kind(iota)
	// KindOccConflict reports that a competing transaction committed first.
	KindOccConflict
	// KindInvalidSession reports that the session was expired or terminated remotely.
	KindInvalidSession
	// KindTransactionExpired reports that the transaction outlived its time limit.
	KindTransactionExpired
	KindResourceNotFound
	KindInvalidParameter
	KindPreconditionNotMet
	// KindThrottled reports rate, capacity or limit exceeded responses.
	KindThrottled
	// KindTransient reports internal service or transport faults.
	KindTransient
	// KindClient reports local faults: decode failures, misuse after close.
	KindClient
	// KindIntegrity reports a commit digest mismatch.
	KindIntegrity
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindOccConflict:
		return "occ-conflict"
	case KindInvalidSession:
		return "invalid-session"
	case KindTransactionExpired:
		return "transaction-expired"
	case KindResourceNotFound:
		return "resource-not-found"
	case KindInvalidParameter:
		return "invalid-parameter"
	case KindPreconditionNotMet:
		return "precondition-not-met"
	case KindThrottled:
		return "throttled"
	case KindTransient:
		return "transient"
	case KindClient:
		return "client"
	case KindIntegrity:
		return "integrity"
	case KindCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("unknown_%d", uint8(k))
	}
}

func (k Kind) Retryable() bool {
	switch k {
	case KindOccConflict, KindInvalidSession, KindThrottled, KindTransient:
		return true
	default:
		return false
	}
}

// MustDeleteSession reports whether the session that observed the failure
// must not be used again.
func (k Kind) MustDeleteSession() bool {
	switch k {
	case KindInvalidSession, KindTransactionExpired, KindIntegrity:
		return true
	default:
		return false
	}
}

func (k Kind) MustBackoff() bool {
	return k.Retryable()
}
