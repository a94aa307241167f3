package solver

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"setcover/cover"
	"setcover/graph"
)

// Decomposed solves every connected component of the subset overlap
// graph on its own and joins the partial covers. Components are
// renumbered onto a universe of their own indices, so the inner coverer
// sees complete problems.
type Decomposed struct {
	inner      Coverer
	components int
}

func NewDecomposed(inner Coverer) *Decomposed {
	return &Decomposed{inner: inner}
}

// component is a part of the problem over a compact universe, with the
// original subset of every local one.
type component struct {
	problem  *cover.Family
	original map[*cover.Subset]*cover.Subset
}

func compact(part *cover.Family) (*component, error) {
	local := make(map[int]int)
	part.Each(func(s *cover.Subset) {
		s.Each(func(i int) {
			if _, ok := local[i]; !ok {
				local[i] = len(local)
			}
		})
	})
	c := &component{
		problem:  cover.NewFamily(len(local)),
		original: make(map[*cover.Subset]*cover.Subset, part.Len()),
	}
	for _, s := range part.Subsets() {
		indices := make([]int, 0, s.Len())
		s.Each(func(i int) { indices = append(indices, local[i]) })
		ls, err := cover.NewSubset(len(local), s.Cost(), indices...)
		if err != nil {
			return nil, err
		}
		if err := c.problem.Add(ls); err != nil {
			return nil, err
		}
		c.original[ls] = s
	}
	return c, nil
}

func (d *Decomposed) Cover(problem, known *cover.Family) (*cover.Family, error) {
	if !problem.Complete() {
		return nil, nil
	}
	parts := graph.Split(problem)
	d.components += len(parts)
	if len(parts) <= 1 {
		return d.inner.Cover(problem, known)
	}
	log.WithField("components", len(parts)).Debug("Problem decomposed")
	result := problem.Empty()
	for _, part := range parts {
		c, err := compact(part)
		if err != nil {
			return nil, err
		}
		partial, err := d.inner.Cover(c.problem, nil)
		if err != nil || partial == nil {
			return nil, err
		}
		for _, s := range partial.Subsets() {
			if canonical := c.problem.Lookup(s); canonical != nil {
				s = canonical
			}
			if err := result.Add(c.original[s]); err != nil {
				return nil, err
			}
		}
	}
	log.WithFields(logrus.Fields{"cost": result.Cost(), "subsets": result.Len()}).Debug("Components joined")
	if known != nil && Better(known, result) {
		return known, nil
	}
	return result, nil
}

func (d *Decomposed) Statistics() string {
	return fmt.Sprintf("components: %d\n%s", d.components, d.inner.Statistics())
}
