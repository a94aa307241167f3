package optimize

import (
	"setcover/cover"
	"setcover/greedy"
)

// MaxRemove bounds the alone count of the members IterRemove drops.
const MaxRemove = 2

// IterRemove drops every member covering at most k indices alone and
// completes the cover again, for k = 1, 2, ... until that pays off.
// Only problems with uniform subset cost are optimized.
type IterRemove struct{}

func (IterRemove) once(problem, c, best *cover.Family, st Strategy) (*cover.Family, error) {
	maxAlone := -1
	c.Each(func(s *cover.Subset) {
		maxAlone = max(maxAlone, c.UniquelyCovered(s))
	})
	next := c
	for k := 1; k <= min(maxAlone-1, MaxRemove) && next.Cost() >= c.Cost(); k++ {
		var drop []*cover.Subset
		c.Each(func(s *cover.Subset) {
			if c.UniquelyCovered(s) <= k {
				drop = append(drop, s)
			}
		})
		next = c.Clone()
		for _, s := range drop {
			if err := next.Remove(s); err != nil {
				return nil, err
			}
		}
		if err := greedy.Complete(next, best, problem.Subsets(), drop, st.Creation, st.Selection); err != nil {
			return nil, err
		}
	}
	return cheaper(c, next, st)
}

func (o IterRemove) Optimize(problem, c, best *cover.Family, st Strategy) (*cover.Family, error) {
	if err := checkCover(c); err != nil {
		return nil, err
	}
	if !problem.UniformCost() {
		return c, nil
	}
	return untilStable(c, func(current *cover.Family) (*cover.Family, error) {
		return o.once(problem, current, best, st)
	})
}
