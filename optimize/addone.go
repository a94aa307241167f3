package optimize

import (
	"setcover/cover"
)

// AddOne tries every subset of the problem that is not in the cover and
// keeps the single addition after which removing redundant subsets
// lowers the cost most.
type AddOne struct {
	Border int
}

func (a AddOne) once(problem, c *cover.Family, st Strategy) (*cover.Family, error) {
	sp := Support{Border: a.Border, Selection: st.Selection}
	work := c.Clone()
	minCost := c.Cost()
	var pick *cover.Subset
	for _, s := range problem.Subsets() {
		if work.Contains(s) {
			continue
		}
		if err := work.Add(s); err != nil {
			return nil, err
		}
		if work.RedundantCount() > 1 {
			cost, err := sp.MinCostWithoutRedundant(work, without(work.RedundantSubsets(), s))
			if err != nil {
				return nil, err
			}
			if cost < minCost {
				pick, minCost = s, cost
			}
		}
		if err := work.Remove(s); err != nil {
			return nil, err
		}
	}
	if pick == nil {
		return c, nil
	}
	next := c.Clone()
	if err := next.Add(pick); err != nil {
		return nil, err
	}
	next, err := sp.BestReducedFamily(next, without(next.RedundantSubsets(), pick))
	if err != nil {
		return nil, err
	}
	return cheaper(c, next, st)
}

func (a AddOne) Optimize(problem, c, best *cover.Family, st Strategy) (*cover.Family, error) {
	if err := checkCover(c); err != nil {
		return nil, err
	}
	return untilStable(c, func(current *cover.Family) (*cover.Family, error) {
		return a.once(problem, current, st)
	})
}
