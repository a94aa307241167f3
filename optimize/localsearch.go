package optimize

import (
	"math"
	"math/rand"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"

	"setcover/cover"
)

const (
	Restarts            = 5
	TabooFactor         = 0.2
	DefaultChangeFactor = 10
)

// LocalSearch is a tabu search over single additions and removals for
// problems with uniform subset cost. Moves are rated by family size
// plus uncovered indices; each restart begins at the best cover found
// and runs until ChangeFactor/density moves pass without improvement.
type LocalSearch struct {
	// MemoryEfficient scans every problem subset for additions instead
	// of keeping an index to subsets table.
	MemoryEfficient bool
	ChangeFactor    int

	rng *rand.Rand
}

func NewLocalSearch(rng *rand.Rand, memoryEfficient bool) *LocalSearch {
	return &LocalSearch{MemoryEfficient: memoryEfficient, ChangeFactor: DefaultChangeFactor, rng: rng}
}

func containingSubsets(problem *cover.Family) [][]*cover.Subset {
	containing := make([][]*cover.Subset, problem.Universe())
	problem.Each(func(s *cover.Subset) {
		s.Each(func(i int) {
			containing[i] = append(containing[i], s)
		})
	})
	return containing
}

// candidates returns the problem subsets worth trying to add: those
// containing an uncovered index of the last removed subset, or of the
// whole universe when nothing was removed last.
func (l *LocalSearch) candidates(problem, next *cover.Family, containing [][]*cover.Subset, lastRemoved *cover.Subset) []*cover.Subset {
	if l.MemoryEfficient {
		return problem.Subsets()
	}
	seen := mapset.NewThreadUnsafeSet[*cover.Subset]()
	var out []*cover.Subset
	collect := func(i int) {
		if next.CoverCount(i) > 0 {
			return
		}
		for _, s := range containing[i] {
			if seen.Add(s) {
				out = append(out, s)
			}
		}
	}
	if lastRemoved == nil {
		for _, i := range next.UncoveredIndices() {
			collect(i)
		}
	} else {
		lastRemoved.Each(collect)
	}
	return out
}

func (l *LocalSearch) Optimize(problem, c, best *cover.Family, st Strategy) (*cover.Family, error) {
	if err := checkCover(c); err != nil {
		return nil, err
	}
	density := problem.MeanDensity()
	if !problem.UniformCost() || density <= 0 {
		return c, nil
	}
	factor := l.ChangeFactor
	if factor <= 0 {
		factor = DefaultChangeFactor
	}
	moves := int(math.Round(float64(factor) / density))
	var containing [][]*cover.Subset
	if !l.MemoryEfficient {
		containing = containingSubsets(problem)
	}
	key := func(s *cover.Subset) *cover.Subset {
		if m := problem.Lookup(s); m != nil {
			return m
		}
		return s
	}

	optimized := c
	bestSize := c.Len()
	var lastRemoved *cover.Subset
	for restart := 0; restart < Restarts; restart++ {
		next := optimized.Clone()
		tabooLen := 1
		if n := int(math.Round(float64(next.Len()) * TabooFactor)); n > 0 {
			tabooLen += l.rng.Intn(n)
		}
		taboo := NewTaboo[*cover.Subset](tabooLen)
		for move := 0; move < moves; {
			move++
			size := next.Len()
			uncovered := next.Uncovered()
			bestRating := math.MaxInt
			var adds, removes []*cover.Subset
			if size < bestSize-1 {
				for _, s := range l.candidates(problem, next, containing, lastRemoved) {
					if next.Contains(s) {
						continue
					}
					alone := next.UniquelyCovered(s)
					if alone != uncovered && ((lastRemoved != nil && disjoint(s, lastRemoved)) || taboo.Contains(key(s))) {
						continue
					}
					rating := size + 1 + uncovered - alone
					if rating < bestRating {
						adds, bestRating = adds[:0], rating
					}
					if rating == bestRating {
						adds = append(adds, s)
					}
				}
			}
			next.Each(func(s *cover.Subset) {
				if taboo.Contains(key(s)) {
					return
				}
				rating := size - 1 + uncovered + next.UniquelyCovered(s)
				if rating < bestRating {
					adds, removes, bestRating = adds[:0], removes[:0], rating
				}
				if rating == bestRating {
					removes = append(removes, s)
				}
			})
			n := len(adds) + len(removes)
			if n == 0 {
				break
			}
			var chosen *cover.Subset
			if pick := l.rng.Intn(n); pick < len(adds) {
				chosen = adds[pick]
				if err := next.Add(chosen); err != nil {
					return nil, err
				}
				lastRemoved = nil
			} else {
				chosen = removes[pick-len(adds)]
				if err := next.Remove(chosen); err != nil {
					return nil, err
				}
				lastRemoved = chosen
			}
			taboo.Add(key(chosen))
			if next.Complete() && next.Cost() < optimized.Cost() {
				optimized = next.Clone()
				move = 0
				bestSize = min(bestSize, next.Len())
				log.WithFields(logrus.Fields{"restart": restart, "cost": optimized.Cost()}).Debug("Local search improved cover")
			}
		}
	}
	if optimized == c {
		return c, nil
	}
	return cheaper(c, optimized, st)
}
