package cartparser

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces a unique opaque identifier per call.
type IDGenerator interface {
	NextID() string
}

// UUIDGenerator issues random (v4) UUIDs.
type UUIDGenerator struct{}

// NextID returns a new random UUID string.
func (UUIDGenerator) NextID() string {
	return uuid.NewString()
}

// SequenceGenerator issues prefix-1, prefix-2, ... It is deterministic and
// intended for tests and reproducible output.
type SequenceGenerator struct {
	Prefix string
	n      atomic.Int64
}

// NextID returns the next identifier in the sequence.
func (g *SequenceGenerator) NextID() string {
	return g.Prefix + strconv.FormatInt(g.n.Add(1), 10)
}
