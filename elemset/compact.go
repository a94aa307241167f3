package elemset

import (
	"golang.org/x/tools/container/intsets"
)

// Compact stores members in a sparse bit vector only. Min, Max and Next
// walk the block list.
type Compact struct {
	capacity int
	bits     intsets.Sparse
}

func NewCompact(capacity int) *Compact {
	if capacity < 0 {
		panic("element set capacity cannot be negative")
	}
	return &Compact{capacity: capacity}
}

func (c *Compact) Cap() int { return c.capacity }

func (c *Compact) Add(i int) error {
	if err := checkIndex(i, c.capacity); err != nil {
		return err
	}
	c.bits.Insert(i)
	return nil
}

func (c *Compact) Remove(i int) error {
	if err := checkIndex(i, c.capacity); err != nil {
		return err
	}
	c.bits.Remove(i)
	return nil
}

func (c *Compact) Contains(i int) (bool, error) {
	if err := checkIndex(i, c.capacity); err != nil {
		return false, err
	}
	return c.bits.Has(i), nil
}

func (c *Compact) Min() int {
	if c.bits.IsEmpty() {
		return -1
	}
	return c.bits.Min()
}

func (c *Compact) Max() int {
	if c.bits.IsEmpty() {
		return -1
	}
	return c.bits.Max()
}

func (c *Compact) Next(i int) (int, error) {
	if err := checkIndex(i, c.capacity); err != nil {
		return -1, err
	}
	next := c.bits.LowerBound(i + 1)
	if next == intsets.MaxInt {
		return -1, nil
	}
	return next, nil
}

func (c *Compact) Len() int { return c.bits.Len() }

func (c *Compact) Slice() []int {
	return c.bits.AppendTo(make([]int, 0, c.bits.Len()))
}

func (c *Compact) Each(fn func(i int)) {
	for _, m := range c.Slice() {
		fn(m)
	}
}

func (c *Compact) AddAll(other Set) error {
	if err := checkCap(c, other); err != nil {
		return err
	}
	if o, ok := other.(*Compact); ok {
		c.bits.UnionWith(&o.bits)
		return nil
	}
	other.Each(func(i int) { c.bits.Insert(i) })
	return nil
}

func (c *Compact) Disjoint(other Set) (bool, error) {
	if err := checkCap(c, other); err != nil {
		return false, err
	}
	if o, ok := other.(*Compact); ok {
		return !c.bits.Intersects(&o.bits), nil
	}
	return disjoint(c, other), nil
}

func (c *Compact) Superset(other Set) (bool, error) {
	if err := checkCap(c, other); err != nil {
		return false, err
	}
	if o, ok := other.(*Compact); ok {
		return o.bits.SubsetOf(&c.bits), nil
	}
	return differenceLen(other, c) == 0, nil
}

func (c *Compact) DifferenceLen(other Set) (int, error) {
	if err := checkCap(c, other); err != nil {
		return 0, err
	}
	if o, ok := other.(*Compact); ok {
		var diff intsets.Sparse
		diff.Difference(&c.bits, &o.bits)
		return diff.Len(), nil
	}
	return differenceLen(c, other), nil
}

func (c *Compact) Equal(other Set) bool {
	if o, ok := other.(*Compact); ok {
		return c.capacity == o.capacity && c.bits.Equals(&o.bits)
	}
	return equal(c, other)
}

func (c *Compact) Hash() uint64 {
	return hashMembers(c.capacity, c.Slice())
}

func (c *Compact) Clone() Set {
	clone := &Compact{capacity: c.capacity}
	clone.bits.Copy(&c.bits)
	return clone
}

func (c *Compact) String() string {
	return format(c.Slice())
}
