package optimize

import (
	mapset "github.com/deckarep/golang-set/v2"

	"setcover/cover"
)

// AddTwo is AddOne for pairs of subsets.
type AddTwo struct {
	Border int
}

// redundantExcept lists the redundant members of f other than the
// subsets just added.
func redundantExcept(f *cover.Family, added mapset.Set[*cover.Subset]) []*cover.Subset {
	var out []*cover.Subset
	for _, s := range f.RedundantSubsets() {
		if !added.Contains(s) {
			out = append(out, s)
		}
	}
	return out
}

func (a AddTwo) once(problem, c *cover.Family, st Strategy) (*cover.Family, error) {
	sp := Support{Border: a.Border, Selection: st.Selection}
	work := c.Clone()
	minCost := c.Cost()
	var first, second *cover.Subset
	subsets := problem.Subsets()
	for k, s1 := range subsets {
		if work.Contains(s1) {
			continue
		}
		if err := work.Add(s1); err != nil {
			return nil, err
		}
		for _, s2 := range subsets[k+1:] {
			if work.Contains(s2) {
				continue
			}
			if err := work.Add(s2); err != nil {
				return nil, err
			}
			if work.RedundantCount() > 2 {
				added := mapset.NewThreadUnsafeSet(s1, s2)
				cost, err := sp.MinCostWithoutRedundant(work, redundantExcept(work, added))
				if err != nil {
					return nil, err
				}
				if cost < minCost {
					first, second, minCost = s1, s2, cost
				}
			}
			if err := work.Remove(s2); err != nil {
				return nil, err
			}
		}
		if err := work.Remove(s1); err != nil {
			return nil, err
		}
	}
	if first == nil {
		return c, nil
	}
	next := c.Clone()
	if err := next.Add(first); err != nil {
		return nil, err
	}
	if err := next.Add(second); err != nil {
		return nil, err
	}
	next, err := sp.BestReducedFamily(next, redundantExcept(next, mapset.NewThreadUnsafeSet(first, second)))
	if err != nil {
		return nil, err
	}
	return cheaper(c, next, st)
}

func (a AddTwo) Optimize(problem, c, best *cover.Family, st Strategy) (*cover.Family, error) {
	if err := checkCover(c); err != nil {
		return nil, err
	}
	return untilStable(c, func(current *cover.Family) (*cover.Family, error) {
		return a.once(problem, current, st)
	})
}
