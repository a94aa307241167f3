package cover

import (
	"fmt"

	"github.com/pkg/errors"

	"setcover/elemset"
)

// DefaultKind is the element set variant used by the index based
// constructors.
var DefaultKind = elemset.CompactKind

type Storage int

const (
	// Owned subsets hold their own membership and may be mutated.
	Owned Storage = iota
	// Shared subsets alias another subset's membership. Both sides are
	// read-only until Own detaches them.
	Shared
)

// Subset is a weighted subset of the universe [0, Universe()).
// Equality and hashing only look at the universe and the members.
type Subset struct {
	members elemset.Set
	cost    float64
	storage Storage
	hash    uint64
	hashed  bool
}

func checkCost(cost float64) error {
	if cost < 0 {
		return errors.Wrapf(ErrInvalidState, "negative cost %v", cost)
	}
	return nil
}

func NewSubset(universe int, cost float64, indices ...int) (*Subset, error) {
	if err := checkCost(cost); err != nil {
		return nil, err
	}
	members, err := elemset.Of(DefaultKind, universe, indices...)
	if err != nil {
		return nil, err
	}
	return &Subset{members: members, cost: cost}, nil
}

func NewUnitSubset(universe int, indices ...int) (*Subset, error) {
	return NewSubset(universe, 1, indices...)
}

// MustSubset is NewSubset for literals known to be valid.
func MustSubset(universe int, cost float64, indices ...int) *Subset {
	s, err := NewSubset(universe, cost, indices...)
	if err != nil {
		panic(err)
	}
	return s
}

// NewSubsetOf takes ownership of members.
func NewSubsetOf(members elemset.Set, cost float64) (*Subset, error) {
	if err := checkCost(cost); err != nil {
		return nil, err
	}
	return &Subset{members: members, cost: cost}, nil
}

// ShareSubset returns a subset with its own cost that aliases the
// membership of s. s becomes Shared as well.
func ShareSubset(s *Subset, cost float64) (*Subset, error) {
	if err := checkCost(cost); err != nil {
		return nil, err
	}
	s.storage = Shared
	return &Subset{members: s.members, cost: cost, storage: Shared, hash: s.hash, hashed: s.hashed}, nil
}

func CopySubset(s *Subset, cost float64) (*Subset, error) {
	if err := checkCost(cost); err != nil {
		return nil, err
	}
	return &Subset{members: s.members.Clone(), cost: cost, hash: s.hash, hashed: s.hashed}, nil
}

func (s *Subset) Storage() Storage { return s.storage }

// Own replaces shared membership with a private copy.
func (s *Subset) Own() {
	if s.storage == Shared {
		s.members = s.members.Clone()
		s.storage = Owned
	}
}

func (s *Subset) writable() error {
	if s.storage == Shared {
		return errors.Wrap(ErrInvalidState, "subset membership is shared")
	}
	return nil
}

func (s *Subset) Add(i int) error {
	if err := s.writable(); err != nil {
		return err
	}
	if err := s.members.Add(i); err != nil {
		return err
	}
	s.hashed = false
	return nil
}

func (s *Subset) Remove(i int) error {
	if err := s.writable(); err != nil {
		return err
	}
	if err := s.members.Remove(i); err != nil {
		return err
	}
	s.hashed = false
	return nil
}

func (s *Subset) Universe() int { return s.members.Cap() }
func (s *Subset) Cost() float64 { return s.cost }
func (s *Subset) Len() int { return s.members.Len() }
func (s *Subset) Min() int { return s.members.Min() }
func (s *Subset) Max() int { return s.members.Max() }
func (s *Subset) Next(i int) (int, error) { return s.members.Next(i) }
func (s *Subset) Contains(i int) (bool, error) { return s.members.Contains(i) }
func (s *Subset) Indices() []int { return s.members.Slice() }
func (s *Subset) Each(fn func(i int)) { s.members.Each(fn) }
func (s *Subset) Disjoint(o *Subset) (bool, error) { return s.members.Disjoint(o.members) }

// Members exposes the underlying set. Callers must not mutate it.
func (s *Subset) Members() elemset.Set { return s.members }

func (s *Subset) has(i int) bool {
	ok, _ := s.members.Contains(i)
	return ok
}

// AsGoodOrBetter reports whether s costs at most as much as o and
// contains all of its members.
func (s *Subset) AsGoodOrBetter(o *Subset) (bool, error) {
	sup, err := s.members.Superset(o.members)
	if err != nil {
		return false, err
	}
	return sup && s.cost <= o.cost, nil
}

// UniquelyContained counts the members of s that are not members of o.
func (s *Subset) UniquelyContained(o *Subset) (int, error) {
	return s.members.DifferenceLen(o.members)
}

func (s *Subset) Equal(o *Subset) bool {
	if s == o {
		return true
	}
	if o == nil {
		return false
	}
	return s.members.Equal(o.members)
}

func (s *Subset) Hash() uint64 {
	if !s.hashed {
		s.hash = s.members.Hash()
		s.hashed = true
	}
	return s.hash
}

// Compare orders subsets by universe, then members, then cost.
func (s *Subset) Compare(o *Subset) int {
	if s == o {
		return 0
	}
	if s.Universe() != o.Universe() {
		return cmpInt(s.Universe(), o.Universe())
	}
	a, b := s.members.Slice(), o.members.Slice()
	for k := 0; k < len(a) && k < len(b); k++ {
		if a[k] != b[k] {
			return cmpInt(a[k], b[k])
		}
	}
	if len(a) != len(b) {
		return cmpInt(len(a), len(b))
	}
	switch {
	case s.cost < o.cost:
		return -1
	case s.cost > o.cost:
		return 1
	}
	return 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (s *Subset) String() string {
	return fmt.Sprintf("%s:%v", s.members.String(), s.cost)
}
