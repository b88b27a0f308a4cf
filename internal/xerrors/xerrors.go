package xerrors

import (
	"errors"
)

// As is a proxy to errors.As
// This need to single import errors
func As(err error, targets ...any) (ok bool) {
	if err == nil {
		return false
	}
	for _, t := range targets {
		if errors.As(err, t) {
			ok = true
		}
	}

	return ok
}

// Is is a improved proxy to errors.Is
// This need to single import errors
func Is(err error, targets ...error) bool {
	if len(targets) == 0 {
		panic("empty targets")
	}
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// KindOf returns the kind of the first classified error in the err chain.
// Unclassified errors are KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	if IsContextError(err) {
		return KindCanceled
	}

	return KindUnknown
}

func IsKind(err error, kinds ...Kind) bool {
	if err == nil {
		return false
	}
	k := KindOf(err)
	for _, kind := range kinds {
		if k == kind {
			return true
		}
	}

	return false
}
