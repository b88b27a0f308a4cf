package pool

// Stats is a snapshot of pool bookkeeping.
type Stats struct {
	Limit int
	Idle  int
	InUse int

	// Created and Closed count items over the pool lifetime.
	Created uint64
	Closed  uint64
}

// Live is the number of items created and not closed yet.
func (s Stats) Live() int {
	return int(s.Created - s.Closed)
}
