package elemset

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// Cached keeps a dense bitset plus a lazily built sorted member list.
// The list is dropped on every mutation. A cursor remembers the position
// of the last Next result so ascending scans cost O(1) per step.
type Cached struct {
	capacity int
	bits     *bitset.BitSet
	sorted   []int
	valid    bool
	cursor   int
}

func NewCached(capacity int) *Cached {
	if capacity < 0 {
		panic("element set capacity cannot be negative")
	}
	return &Cached{capacity: capacity, bits: bitset.New(uint(capacity))}
}

func (c *Cached) invalidate() {
	c.valid = false
	c.sorted = nil
	c.cursor = 0
}

func (c *Cached) members() []int {
	if !c.valid {
		c.sorted = make([]int, 0, c.bits.Count())
		for i, ok := c.bits.NextSet(0); ok; i, ok = c.bits.NextSet(i + 1) {
			c.sorted = append(c.sorted, int(i))
		}
		c.valid = true
		c.cursor = 0
	}
	return c.sorted
}

func (c *Cached) Cap() int { return c.capacity }

func (c *Cached) Add(i int) error {
	if err := checkIndex(i, c.capacity); err != nil {
		return err
	}
	if !c.bits.Test(uint(i)) {
		c.bits.Set(uint(i))
		c.invalidate()
	}
	return nil
}

func (c *Cached) Remove(i int) error {
	if err := checkIndex(i, c.capacity); err != nil {
		return err
	}
	if c.bits.Test(uint(i)) {
		c.bits.Clear(uint(i))
		c.invalidate()
	}
	return nil
}

func (c *Cached) Contains(i int) (bool, error) {
	if err := checkIndex(i, c.capacity); err != nil {
		return false, err
	}
	return c.bits.Test(uint(i)), nil
}

func (c *Cached) Min() int {
	m := c.members()
	if len(m) == 0 {
		return -1
	}
	return m[0]
}

func (c *Cached) Max() int {
	m := c.members()
	if len(m) == 0 {
		return -1
	}
	return m[len(m)-1]
}

func (c *Cached) Next(i int) (int, error) {
	if err := checkIndex(i, c.capacity); err != nil {
		return -1, err
	}
	m := c.members()
	pos := c.cursor
	if pos >= len(m) || m[pos] != i {
		pos = sort.SearchInts(m, i)
		if pos < len(m) && m[pos] != i {
			// i is not a member, pos already points past it
			pos--
		}
	}
	pos++
	if pos >= len(m) {
		return -1, nil
	}
	c.cursor = pos
	return m[pos], nil
}

func (c *Cached) Len() int { return int(c.bits.Count()) }

func (c *Cached) Slice() []int {
	return append([]int(nil), c.members()...)
}

func (c *Cached) Each(fn func(i int)) {
	for _, m := range c.members() {
		fn(m)
	}
}

func (c *Cached) AddAll(other Set) error {
	if err := checkCap(c, other); err != nil {
		return err
	}
	if o, ok := other.(*Cached); ok {
		c.bits.InPlaceUnion(o.bits)
	} else {
		other.Each(func(i int) { c.bits.Set(uint(i)) })
	}
	c.invalidate()
	return nil
}

func (c *Cached) Disjoint(other Set) (bool, error) {
	if err := checkCap(c, other); err != nil {
		return false, err
	}
	if o, ok := other.(*Cached); ok {
		return c.bits.IntersectionCardinality(o.bits) == 0, nil
	}
	return disjoint(c, other), nil
}

func (c *Cached) Superset(other Set) (bool, error) {
	if err := checkCap(c, other); err != nil {
		return false, err
	}
	if o, ok := other.(*Cached); ok {
		return c.bits.IsSuperSet(o.bits), nil
	}
	return differenceLen(other, c) == 0, nil
}

func (c *Cached) DifferenceLen(other Set) (int, error) {
	if err := checkCap(c, other); err != nil {
		return 0, err
	}
	if o, ok := other.(*Cached); ok {
		return int(c.bits.DifferenceCardinality(o.bits)), nil
	}
	return differenceLen(c, other), nil
}

func (c *Cached) Equal(other Set) bool {
	if o, ok := other.(*Cached); ok {
		return c.capacity == o.capacity && c.bits.Equal(o.bits)
	}
	return equal(c, other)
}

func (c *Cached) Hash() uint64 {
	return hashMembers(c.capacity, c.members())
}

func (c *Cached) Clone() Set {
	return &Cached{capacity: c.capacity, bits: c.bits.Clone()}
}

func (c *Cached) String() string {
	return format(c.members())
}
