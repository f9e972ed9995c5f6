package ids

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Source produces identifiers for store entities. Implementations must be
// safe for concurrent use and must never return the same value twice.
type Source interface {
	NewID(prefix string) string
}

// UUIDSource generates prefixed UUIDv4 identifiers, e.g. "comment-9f1c...".
type UUIDSource struct{}

func NewUUIDSource() *UUIDSource { return &UUIDSource{} }

func (UUIDSource) NewID(prefix string) string {
	if prefix == "" {
		return uuid.NewString()
	}
	return prefix + "-" + uuid.NewString()
}

// Sequence generates deterministic monotonic identifiers ("comment-1",
// "comment-2", ...) for tests.
type Sequence struct {
	n atomic.Uint64
}

func NewSequence() *Sequence { return &Sequence{} }

func (s *Sequence) NewID(prefix string) string {
	n := s.n.Add(1)
	if prefix == "" {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s-%d", prefix, n)
}
