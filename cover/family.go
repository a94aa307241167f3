package cover

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"setcover/elemset"
)

type Option func(*Family)

// WithQuota makes the family report an inflated cost once it holds more
// than maxSize subsets: every subset is then charged penalty on top of
// its own cost. maxSize 0 disables the quota.
func WithQuota(maxSize int, penalty float64) Option {
	return func(f *Family) {
		if maxSize < 0 || penalty < 0 {
			panic("quota cannot be negative")
		}
		f.maxSize = maxSize
		f.penalty = penalty
	}
}

// Family is a set of subsets over one universe with incrementally
// maintained coverage bookkeeping. It is not safe for concurrent use.
type Family struct {
	universe int
	slots    []*Subset
	free     []int
	buckets  map[uint64][]int
	size     int

	coverCount []int
	uncovered  *elemset.Compact
	uncoveredN int
	singleN    int
	multipleN  int
	cost       float64
	freqSum    int
	maxSize    int
	penalty    float64

	// necessity: alone[slot] is the number of indices covered only by
	// that slot (-1 for free slots), sole[i] the only slot covering i.
	alone      []int
	sole       []int
	necessary  int
	last, prev int

	hash   uint64
	hashed bool
}

func NewFamily(universe int, opts ...Option) *Family {
	if universe < 0 {
		panic("universe size cannot be negative")
	}
	f := &Family{
		universe:   universe,
		buckets:    make(map[uint64][]int),
		coverCount: make([]int, universe),
		uncovered:  elemset.NewCompact(universe),
		uncoveredN: universe,
		sole:       make([]int, universe),
		last:       -1,
		prev:       -1,
	}
	for i := 0; i < universe; i++ {
		f.uncovered.Add(i)
		f.sole[i] = -1
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Family) Universe() int { return f.universe }
func (f *Family) Len() int { return f.size }
func (f *Family) MaxSize() int { return f.maxSize }
func (f *Family) Penalty() float64 { return f.penalty }

func (f *Family) lookup(s *Subset) int {
	if s.Universe() != f.universe {
		return -1
	}
	for _, slot := range f.buckets[s.Hash()] {
		if f.slots[slot].Equal(s) {
			return slot
		}
	}
	return -1
}

func (f *Family) Contains(s *Subset) bool {
	return f.lookup(s) >= 0
}

// Lookup returns the member equal to s, or nil.
func (f *Family) Lookup(s *Subset) *Subset {
	if slot := f.lookup(s); slot >= 0 {
		return f.slots[slot]
	}
	return nil
}

func (f *Family) allocate(s *Subset) int {
	var slot int
	if n := len(f.free); n > 0 {
		slot = f.free[n-1]
		f.free = f.free[:n-1]
		f.slots[slot] = s
	} else {
		slot = len(f.slots)
		f.slots = append(f.slots, s)
		f.alone = append(f.alone, -1)
	}
	h := s.Hash()
	f.buckets[h] = append(f.buckets[h], slot)
	return slot
}

func (f *Family) release(slot int) {
	h := f.slots[slot].Hash()
	bucket := f.buckets[h]
	for k, other := range bucket {
		if other == slot {
			bucket = append(bucket[:k], bucket[k+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(f.buckets, h)
	} else {
		f.buckets[h] = bucket
	}
	f.slots[slot] = nil
	f.alone[slot] = -1
	f.free = append(f.free, slot)
}

// Add inserts s. Adding a subset that is already present does nothing.
func (f *Family) Add(s *Subset) error {
	if s.Universe() != f.universe {
		return errors.Wrapf(ErrSizeMismatch, "subset universe %d, family universe %d", s.Universe(), f.universe)
	}
	if f.lookup(s) >= 0 {
		return nil
	}
	slot := f.allocate(s)
	alone := 0
	s.Each(func(i int) {
		switch f.coverCount[i] {
		case 0:
			f.uncoveredN--
			f.singleN++
			f.uncovered.Remove(i)
			f.sole[i] = slot
			alone++
		case 1:
			f.singleN--
			f.multipleN++
			old := f.sole[i]
			f.alone[old]--
			if f.alone[old] == 0 {
				f.necessary--
			}
			f.sole[i] = -1
		}
		f.coverCount[i]++
	})
	f.alone[slot] = alone
	if alone > 0 {
		f.necessary++
	}
	f.size++
	f.cost += s.Cost()
	f.freqSum += s.Len()
	f.prev, f.last = f.last, slot
	f.hashed = false
	return nil
}

// Remove deletes s. Removing an absent subset does nothing.
func (f *Family) Remove(s *Subset) error {
	if s.Universe() != f.universe {
		return errors.Wrapf(ErrSizeMismatch, "subset universe %d, family universe %d", s.Universe(), f.universe)
	}
	slot := f.lookup(s)
	if slot < 0 {
		return nil
	}
	member := f.slots[slot]
	if f.alone[slot] > 0 {
		f.necessary--
	}
	f.alone[slot] = 0
	member.Each(func(i int) {
		switch f.coverCount[i] {
		case 1:
			f.uncoveredN++
			f.singleN--
			f.uncovered.Add(i)
			f.sole[i] = -1
		case 2:
			f.multipleN--
			f.singleN++
			other := f.remainingCoverer(i, slot)
			f.sole[i] = other
			f.alone[other]++
			if f.alone[other] == 1 {
				f.necessary++
			}
		}
		f.coverCount[i]--
	})
	f.release(slot)
	if f.last == slot {
		f.last = -1
	}
	if f.prev == slot {
		f.prev = -1
	}
	f.size--
	f.cost -= member.Cost()
	if f.cost < 0 || f.size == 0 {
		f.cost = 0
	}
	f.freqSum -= member.Len()
	f.hashed = false
	return nil
}

// remainingCoverer finds the slot other than exclude that contains i.
// The two most recently added subsets are tried first.
func (f *Family) remainingCoverer(i, exclude int) int {
	for _, slot := range []int{f.last, f.prev} {
		if slot >= 0 && slot != exclude && f.slots[slot] != nil && f.slots[slot].has(i) {
			return slot
		}
	}
	for slot, s := range f.slots {
		if slot != exclude && s != nil && s.has(i) {
			return slot
		}
	}
	panic("coverage count out of sync")
}

// Merge adds every subset of other.
func (f *Family) Merge(other *Family) error {
	for _, s := range other.Subsets() {
		if err := f.Add(s); err != nil {
			return err
		}
	}
	return nil
}

// Subsets returns the members in slot order.
func (f *Family) Subsets() []*Subset {
	out := make([]*Subset, 0, f.size)
	for _, s := range f.slots {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (f *Family) Each(fn func(s *Subset)) {
	for _, s := range f.slots {
		if s != nil {
			fn(s)
		}
	}
}

// Cost is the sum of the member costs plus the quota penalty.
func (f *Family) Cost() float64 {
	if f.maxSize == 0 || f.size <= f.maxSize {
		return f.cost
	}
	return f.cost + float64(f.size)*f.penalty
}

// AddCost is the change of Cost caused by adding s.
func (f *Family) AddCost(s *Subset) float64 {
	switch {
	case f.Contains(s):
		return 0
	case f.maxSize == 0 || f.size < f.maxSize:
		return s.Cost()
	case f.size == f.maxSize:
		return s.Cost() + float64(f.size+1)*f.penalty
	default:
		return s.Cost() + f.penalty
	}
}

// RemoveCost is the decrease of Cost caused by removing s.
func (f *Family) RemoveCost(s *Subset) float64 {
	member := f.Lookup(s)
	switch {
	case member == nil:
		return 0
	case f.maxSize == 0 || f.size <= f.maxSize:
		return member.Cost()
	case f.size-1 == f.maxSize:
		return member.Cost() + float64(f.size)*f.penalty
	default:
		return member.Cost() + f.penalty
	}
}

// CoverCount is the number of members containing index i.
// i must lie inside the universe.
func (f *Family) CoverCount(i int) int { return f.coverCount[i] }

func (f *Family) Uncovered() int { return f.uncoveredN }
func (f *Family) Covered() int { return f.universe - f.uncoveredN }
func (f *Family) SinglyCovered() int { return f.singleN }
func (f *Family) MultiplyCovered() int { return f.multipleN }
func (f *Family) Complete() bool { return f.uncoveredN == 0 }
func (f *Family) FrequencySum() int { return f.freqSum }

func (f *Family) UncoveredIndices() []int {
	return f.uncovered.Slice()
}

// UniquelyCovered returns, for a member, the number of indices only s
// covers; for a non-member the number of its indices that are not
// covered yet.
func (f *Family) UniquelyCovered(s *Subset) int {
	if slot := f.lookup(s); slot >= 0 {
		return f.alone[slot]
	}
	if f.uncoveredN == 0 || s.Universe() != f.universe {
		return 0
	}
	n := 0
	s.Each(func(i int) {
		if f.coverCount[i] == 0 {
			n++
		}
	})
	return n
}

// IsNecessary reports whether s covers at least one index no other
// member covers. For a non-member this is whether adding it would cover
// a new index.
func (f *Family) IsNecessary(s *Subset) bool {
	return f.UniquelyCovered(s) > 0
}

func (f *Family) NecessaryCount() int { return f.necessary }
func (f *Family) RedundantCount() int { return f.size - f.necessary }

func (f *Family) NecessarySubsets() []*Subset {
	out := make([]*Subset, 0, f.necessary)
	for slot, s := range f.slots {
		if s != nil && f.alone[slot] > 0 {
			out = append(out, s)
		}
	}
	return out
}

func (f *Family) RedundantSubsets() []*Subset {
	out := make([]*Subset, 0, f.size-f.necessary)
	for slot, s := range f.slots {
		if s != nil && f.alone[slot] == 0 {
			out = append(out, s)
		}
	}
	return out
}

// NewlyRedundant returns the members that are necessary now and would
// stop being necessary if s were added.
func (f *Family) NewlyRedundant(s *Subset) []*Subset {
	if f.singleN == 0 || s.Universe() != f.universe || f.Contains(s) {
		return nil
	}
	lost := make(map[int]int)
	s.Each(func(i int) {
		if f.coverCount[i] == 1 {
			lost[f.sole[i]]++
		}
	})
	slots := make([]int, 0, len(lost))
	for slot, n := range lost {
		if n == f.alone[slot] {
			slots = append(slots, slot)
		}
	}
	sort.Ints(slots)
	out := make([]*Subset, len(slots))
	for k, slot := range slots {
		out[k] = f.slots[slot]
	}
	return out
}

// UniformCost reports whether every member has the same cost. A family
// with a quota never counts as uniform.
func (f *Family) UniformCost() bool {
	if f.size == 0 {
		return true
	}
	if f.maxSize > 0 {
		return false
	}
	first := -1.0
	uniform := true
	f.Each(func(s *Subset) {
		if first < 0 {
			first = s.Cost()
		} else if s.Cost() != first {
			uniform = false
		}
	})
	return uniform
}

// LinearCost reports whether Cost is the plain sum of member costs.
func (f *Family) LinearCost() bool {
	return f.size == 0 || f.maxSize == 0
}

func (f *Family) MeanFrequency() float64 {
	if f.universe == 0 {
		return 0
	}
	return float64(f.freqSum) / float64(f.universe)
}

func (f *Family) MeanSubsetSize() float64 {
	if f.size == 0 {
		return 0
	}
	return float64(f.freqSum) / float64(f.size)
}

func (f *Family) MeanDensity() float64 {
	if f.size == 0 {
		return 0
	}
	return f.MeanFrequency() / float64(f.size)
}

// Clone copies the bookkeeping. Member subsets are shared.
func (f *Family) Clone() *Family {
	c := *f
	c.slots = append([]*Subset(nil), f.slots...)
	c.free = append([]int(nil), f.free...)
	c.buckets = make(map[uint64][]int, len(f.buckets))
	for h, b := range f.buckets {
		c.buckets[h] = append([]int(nil), b...)
	}
	c.coverCount = append([]int(nil), f.coverCount...)
	c.uncovered = f.uncovered.Clone().(*elemset.Compact)
	c.alone = append([]int(nil), f.alone...)
	c.sole = append([]int(nil), f.sole...)
	return &c
}

// DeepClone is Clone with private copies of every member subset.
func (f *Family) DeepClone() *Family {
	c := f.Clone()
	for slot, s := range c.slots {
		if s != nil {
			copied, _ := CopySubset(s, s.Cost())
			c.slots[slot] = copied
		}
	}
	return c
}

func (f *Family) CloneWithQuota(maxSize int, penalty float64) *Family {
	c := f.Clone()
	WithQuota(maxSize, penalty)(c)
	c.hashed = false
	return c
}

// Empty returns a family without members over the same universe and
// with the same quota.
func (f *Family) Empty() *Family {
	return NewFamily(f.universe, WithQuota(f.maxSize, f.penalty))
}

func (f *Family) Clear() {
	*f = *f.Empty()
}

// Equal reports whether both families hold the same subsets.
func (f *Family) Equal(o *Family) bool {
	if f.universe != o.universe || f.size != o.size || f.Hash() != o.Hash() {
		return false
	}
	for _, s := range f.slots {
		if s != nil && !o.Contains(s) {
			return false
		}
	}
	return true
}

func (f *Family) Hash() uint64 {
	if !f.hashed {
		var h uint64
		f.Each(func(s *Subset) { h ^= s.Hash() })
		f.hash = h ^ uint64(f.universe)
		f.hashed = true
	}
	return f.hash
}

func (f *Family) String() string {
	subsets := f.Subsets()
	sort.Slice(subsets, func(a, b int) bool { return subsets[a].Compare(subsets[b]) < 0 })
	parts := make([]string, len(subsets))
	for k, s := range subsets {
		parts[k] = s.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
