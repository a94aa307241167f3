package optimize

import (
	mapset "github.com/deckarep/golang-set/v2"

	"setcover/cover"
	"setcover/greedy"
)

// Inferior collects every member that some single addition makes
// worth removing, drops them all and completes the cover again.
type Inferior struct {
	Border int
}

func (o Inferior) Optimize(problem, c, best *cover.Family, st Strategy) (*cover.Family, error) {
	if err := checkCover(c); err != nil {
		return nil, err
	}
	sp := Support{Border: o.Border, Selection: st.Selection}
	work := c.Clone()
	seen := mapset.NewThreadUnsafeSet[*cover.Subset]()
	var inferior []*cover.Subset
	for _, s := range problem.Subsets() {
		if work.Contains(s) {
			continue
		}
		if err := work.Add(s); err != nil {
			return nil, err
		}
		if work.RedundantCount() > 1 {
			redundant := without(work.RedundantSubsets(), s)
			cost, err := sp.MinCostWithoutRedundant(work, redundant)
			if err != nil {
				return nil, err
			}
			if cost < c.Cost() {
				for _, r := range redundant {
					if seen.Add(r) {
						inferior = append(inferior, r)
					}
				}
			}
		}
		if err := work.Remove(s); err != nil {
			return nil, err
		}
	}
	if len(inferior) == 0 {
		return c, nil
	}
	next := c.Clone()
	for _, s := range inferior {
		if err := next.Remove(s); err != nil {
			return nil, err
		}
	}
	if err := greedy.Complete(next, best, problem.Subsets(), inferior, st.Creation, st.Selection); err != nil {
		return nil, err
	}
	return cheaper(c, next, st)
}
