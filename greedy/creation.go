package greedy

import (
	"math"

	"setcover/cover"
)

// Creation proposes the candidates a Selection chooses from.
type Creation interface {
	ForAdd(pool []*cover.Subset, partial, best *cover.Family) []*cover.Subset
	ForRemove(pool []*cover.Subset, partial, best *cover.Family) []*cover.Subset
}

// Fewest proposes the non-members covering the most uncovered indices
// and the members covering the fewest indices alone.
type Fewest struct{}

func (Fewest) ForAdd(pool []*cover.Subset, partial, best *cover.Family) []*cover.Subset {
	var out []*cover.Subset
	maxValue := 1
	for _, s := range pool {
		if partial.Contains(s) {
			continue
		}
		value := partial.UniquelyCovered(s)
		if value > maxValue {
			maxValue = value
			out = out[:0]
			out = append(out, s)
		} else if value == maxValue {
			out = append(out, s)
		}
	}
	return out
}

func (Fewest) ForRemove(pool []*cover.Subset, partial, best *cover.Family) []*cover.Subset {
	var out []*cover.Subset
	minValue := partial.Universe() + 1
	partial.Each(func(s *cover.Subset) {
		value := partial.UniquelyCovered(s)
		if value < minValue {
			minValue = value
			out = out[:0]
			out = append(out, s)
		} else if value == minValue {
			out = append(out, s)
		}
	})
	return out
}

// Most proposes every non-member that covers enough uncovered indices
// to finish within the family's quota and is cheaper than the best
// known cover. It falls back to Fewest when that leaves nothing.
type Most struct{}

func (Most) ForAdd(pool []*cover.Subset, partial, best *cover.Family) []*cover.Subset {
	minAlone := 1
	if partial.MaxSize() > 0 {
		remaining := partial.MaxSize() - partial.Len()
		if remaining <= 0 {
			return Fewest{}.ForAdd(pool, partial, best)
		}
		minAlone = int(math.Ceil(float64(partial.Uncovered()) / float64(remaining)))
	}
	var out []*cover.Subset
	for _, s := range pool {
		if partial.Contains(s) || partial.UniquelyCovered(s) < minAlone {
			continue
		}
		if best != nil && partial.AddCost(s) >= best.Cost() {
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return Fewest{}.ForAdd(pool, partial, best)
	}
	return out
}

func (Most) ForRemove(pool []*cover.Subset, partial, best *cover.Family) []*cover.Subset {
	return partial.RedundantSubsets()
}
