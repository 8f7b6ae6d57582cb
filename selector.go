package dbroute

import "sync/atomic"

// Balancer chooses which replica key serves the next read.
type Balancer interface {
	// Next returns one of keys. It fails with ErrNoReplicasAvailable when
	// keys is empty.
	Next(keys []Key) (Key, error)
}

// RoundRobin cycles over the replica keys in order, one position per
// selection. The cursor is shared by all units of work; the
// read-increment-return is a single atomic operation, so concurrent callers
// never reuse a cursor slot and no increment is lost. Callers racing for the
// cursor are served in whatever order the increments serialize, which is the
// contract: round-robin over completed selections, not over call arrival.
type RoundRobin struct {
	current uint64
}

// NewRoundRobin creates a round-robin balancer with the cursor at the first
// key.
func NewRoundRobin() *RoundRobin {
	return &RoundRobin{}
}

// Next implements Balancer.
func (r *RoundRobin) Next(keys []Key) (Key, error) {
	if len(keys) == 0 {
		return "", ErrNoReplicasAvailable
	}

	next := atomic.AddUint64(&r.current, 1)

	return keys[(next-1)%uint64(len(keys))], nil
}
