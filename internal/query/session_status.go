package query

import (
	"fmt"
)

type sessionStatus uint32

const (
	statusUnknown = sessionStatus(iota)
	statusReady
	statusInUse
	statusClosed
)

func (s sessionStatus) String() string {
	switch s {
	case statusUnknown:
		return "unknown"
	case statusReady:
		return "ready"
	case statusInUse:
		return "in-use"
	case statusClosed:
		return "closed"
	default:
		return fmt.Sprintf("unknown_%d", s)
	}
}
