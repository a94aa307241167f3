package elemset

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrIndexRange   = errors.New("index out of range")
	ErrSizeMismatch = errors.New("capacity mismatch")
)

// Set is a membership set over [0, Cap()). The capacity never changes
// after construction.
type Set interface {
	Cap() int
	Add(i int) error
	Remove(i int) error
	Contains(i int) (bool, error)
	// Min, Max and Next return -1 when there is no such member.
	Min() int
	Max() int
	Next(i int) (int, error)
	Len() int
	Slice() []int
	Each(fn func(i int))
	AddAll(other Set) error
	Disjoint(other Set) (bool, error)
	Superset(other Set) (bool, error)
	// DifferenceLen counts the members not contained in other.
	DifferenceLen(other Set) (int, error)
	Equal(other Set) bool
	Hash() uint64
	Clone() Set
	String() string
}

type Kind int

const (
	CompactKind Kind = iota
	CachedKind
)

func (k Kind) String() string {
	switch k {
	case CompactKind:
		return "compact"
	case CachedKind:
		return "cached"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func New(kind Kind, capacity int) Set {
	switch kind {
	case CachedKind:
		return NewCached(capacity)
	default:
		return NewCompact(capacity)
	}
}

func Of(kind Kind, capacity int, members ...int) (Set, error) {
	s := New(kind, capacity)
	for _, m := range members {
		if err := s.Add(m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func checkIndex(i, capacity int) error {
	if i < 0 || i >= capacity {
		return errors.Wrapf(ErrIndexRange, "index %d, capacity %d", i, capacity)
	}
	return nil
}

func checkCap(a, b Set) error {
	if a.Cap() != b.Cap() {
		return errors.Wrapf(ErrSizeMismatch, "capacity %d vs %d", a.Cap(), b.Cap())
	}
	return nil
}

func hashMembers(capacity int, members []int) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	put := func(v int) {
		u := uint64(v)
		for k := 0; k < 8; k++ {
			buf[k] = byte(u >> (8 * k))
		}
		h.Write(buf[:])
	}
	put(capacity)
	for _, m := range members {
		put(m)
	}
	return h.Sum64()
}

func format(members []int) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for k, m := range members {
		if k > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d", m)
	}
	sb.WriteByte('}')
	return sb.String()
}

// generic fallbacks for mixed variants

func disjoint(a, b Set) bool {
	if a.Len() > b.Len() {
		a, b = b, a
	}
	for _, m := range a.Slice() {
		if ok, _ := b.Contains(m); ok {
			return false
		}
	}
	return true
}

func differenceLen(a, b Set) int {
	n := 0
	a.Each(func(i int) {
		if ok, _ := b.Contains(i); !ok {
			n++
		}
	})
	return n
}

func equal(a, b Set) bool {
	if a.Cap() != b.Cap() || a.Len() != b.Len() {
		return false
	}
	return differenceLen(a, b) == 0
}
