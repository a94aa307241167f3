package greedy

import (
	"math/rand"

	mapset "github.com/deckarep/golang-set/v2"

	"setcover/cover"
)

const (
	// RestoreLow and RestoreHigh bound the fraction of subsets kept per
	// shrinking round.
	RestoreLow  = 0.6
	RestoreHigh = 0.8

	UnicostZeroProb   = 0.2
	MulticostZeroProb = 0.0
	NonlinearZeroProb = 0.0
)

// UniformShrinking turns a cover into a partial cover by dropping
// subsets at random.
type UniformShrinking struct {
	rng *rand.Rand
}

func NewUniformShrinking(rng *rand.Rand) *UniformShrinking {
	return &UniformShrinking{rng: rng}
}

// Partial returns a copy of c that no longer covers the universe. The
// fixed subsets are never dropped, so the result stays complete when
// they cover everything on their own.
func (u *UniformShrinking) Partial(c, problem *cover.Family, fixed []*cover.Subset) *cover.Family {
	zeroProb := NonlinearZeroProb
	if problem.UniformCost() {
		zeroProb = UnicostZeroProb
	} else if problem.LinearCost() {
		zeroProb = MulticostZeroProb
	}
	keep := mapset.NewThreadUnsafeSet[*cover.Subset]()
	for _, s := range fixed {
		if m := c.Lookup(s); m != nil {
			keep.Add(m)
		}
	}
	var candidates []*cover.Subset
	c.Each(func(s *cover.Subset) {
		if !keep.Contains(s) {
			candidates = append(candidates, s)
		}
	})
	partial := c.Clone()
	for partial.Complete() {
		restore := 0.0
		if u.rng.Float64() >= zeroProb {
			restore = RestoreLow + (RestoreHigh-RestoreLow)*u.rng.Float64()
		}
		left := 0
		for _, s := range candidates {
			if partial.Contains(s) && u.rng.Float64() > restore {
				// members of the same universe, Remove cannot fail
				_ = partial.Remove(s)
			}
			if partial.Contains(s) {
				left++
			}
		}
		if left == 0 {
			break
		}
	}
	return partial
}
