package optimize

import (
	"github.com/pkg/errors"

	"setcover/cover"
	"setcover/greedy"
)

// FullOptBorder is the number of removal candidates up to which every
// combination of removals is tried.
const FullOptBorder = 8

// Support finds cheap ways to drop redundant subsets. Above Border
// candidates it removes the one chosen by Selection instead of trying
// every combination.
type Support struct {
	Border    int
	Selection greedy.Selection
}

func (sp Support) border() int {
	if sp.Border <= 0 {
		return FullOptBorder
	}
	return sp.Border
}

// split removes the candidates that are disjoint from every other one
// and returns them together with the candidates still redundant.
func split(f *cover.Family, list []*cover.Subset) (removed, rest []*cover.Subset, err error) {
	for k, s := range list {
		if f.IsNecessary(s) {
			continue
		}
		alone := true
		for j, o := range list {
			if j != k && !disjoint(s, o) {
				alone = false
				break
			}
		}
		if !alone {
			rest = append(rest, s)
			continue
		}
		if err := f.Remove(s); err != nil {
			return removed, nil, err
		}
		removed = append(removed, s)
	}
	return removed, rest, nil
}

// MinCostWithoutRedundant returns the lowest cost f reaches by removing
// subsets of list. f is restored before returning.
func (sp Support) MinCostWithoutRedundant(f *cover.Family, list []*cover.Subset) (minCost float64, err error) {
	if f.RedundantCount() == 0 {
		return f.Cost(), nil
	}
	var removed, rest []*cover.Subset
	removed, rest, err = split(f, list)
	defer func() {
		for _, s := range removed {
			if aerr := f.Add(s); aerr != nil && err == nil {
				minCost, err = 0, errors.Wrap(aerr, "restore family")
			}
		}
	}()
	if err != nil {
		return 0, err
	}
	minCost = f.Cost()
	switch {
	case len(rest) == 0:
	case len(rest) == 1:
		minCost -= f.RemoveCost(rest[0])
	case len(rest) > sp.border():
		pick, err := sp.Selection.SelectRemove(rest, f)
		if err != nil {
			return 0, err
		}
		if err := f.Remove(pick); err != nil {
			return 0, err
		}
		minCost, err = sp.MinCostWithoutRedundant(f, without(rest, pick))
		if aerr := f.Add(pick); err == nil {
			err = aerr
		}
		if err != nil {
			return 0, err
		}
	default:
		for k, s := range rest {
			if err := f.Remove(s); err != nil {
				return 0, err
			}
			cost, err := sp.MinCostWithoutRedundant(f, rest[k+1:])
			if aerr := f.Add(s); err == nil {
				err = aerr
			}
			if err != nil {
				return 0, err
			}
			minCost = min(minCost, cost)
		}
	}
	return minCost, nil
}

// BestReducedFamily removes subsets of list from f, one at a time, each
// time the one leading to the lowest reachable cost. It modifies and
// returns f.
func (sp Support) BestReducedFamily(f *cover.Family, list []*cover.Subset) (*cover.Family, error) {
	for f.RedundantCount() > 0 {
		minCost := f.Cost()
		_, rest, err := split(f, list)
		if err != nil {
			return nil, err
		}
		var pick *cover.Subset
		switch {
		case len(rest) == 0:
		case len(rest) == 1:
			pick = rest[0]
		case len(rest) > sp.border():
			if pick, err = sp.Selection.SelectRemove(rest, f); err != nil {
				return nil, err
			}
		default:
			for k, s := range rest {
				if err := f.Remove(s); err != nil {
					return nil, err
				}
				cost, err := sp.MinCostWithoutRedundant(f, rest[k+1:])
				if aerr := f.Add(s); err == nil {
					err = aerr
				}
				if err != nil {
					return nil, err
				}
				if cost < minCost {
					pick, minCost = s, cost
				}
			}
		}
		if pick == nil {
			return f, nil
		}
		if err := f.Remove(pick); err != nil {
			return nil, err
		}
		list = without(rest, pick)
	}
	return f, nil
}
