package solver

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"setcover/cover"
	"setcover/greedy"
	"setcover/optimize"
	"setcover/rating"
)

const (
	NumberOfIterations = 10

	// Chances of the ratings drawn for the later iterations on problems
	// with linear cost. The rest goes to Frequency.
	UnicostProbabilityPortion   = 0.2
	MulticostProbabilityPortion = 0.25
	UnicostChvatalPortion       = 0.4
	MulticostChvatalPortion     = 0.75
	FrequencyAbsPortion         = 0.5
)

// DefaultOptimizer is applied to every greedy cover of an
// IteratedGreedy unless replaced.
func DefaultOptimizer(rng *rand.Rand, memoryEfficient bool) optimize.Sequence {
	return optimize.Sequence{
		optimize.Inferior{},
		optimize.AddOne{},
		optimize.NewLocalSearch(rng, memoryEfficient),
	}
}

// IteratedGreedy repeats greedy construction and optimization, each
// time starting from a random shrinking of the best cover so far.
type IteratedGreedy struct {
	Iterations int
	Optimizer  optimize.Optimizer
	// RatingFor, if set, chooses the rating of an iteration. A nil
	// result falls back to the built-in choice.
	RatingFor func(iteration int, problem *cover.Family) rating.Rating

	rng       *rand.Rand
	shrinking *greedy.UniformShrinking
	processed int
}

func NewIteratedGreedy(rng *rand.Rand) *IteratedGreedy {
	return &IteratedGreedy{
		Iterations: NumberOfIterations,
		Optimizer:  DefaultOptimizer(rng, false),
		rng:        rng,
		shrinking:  greedy.NewUniformShrinking(rng),
	}
}

func (g *IteratedGreedy) rating(iteration int, problem *cover.Family, unicost, linear bool) rating.Rating {
	if g.RatingFor != nil {
		if r := g.RatingFor(iteration, problem); r != nil {
			return r
		}
	}
	if iteration == 0 {
		if linear {
			return rating.NewProbability(problem)
		}
		return rating.Chvatal{}
	}
	if !linear {
		return rating.Chvatal{}
	}
	probability, chvatal := MulticostProbabilityPortion, MulticostChvatalPortion
	if unicost {
		probability, chvatal = UnicostProbabilityPortion, UnicostChvatalPortion
	}
	draw := g.rng.Float64()
	switch {
	case draw < probability:
		return rating.NewProbability(problem)
	case draw < probability+chvatal:
		return rating.Chvatal{}
	default:
		return rating.NewDefaultFrequency(!unicost || g.rng.Float64() < FrequencyAbsPortion)
	}
}

func (g *IteratedGreedy) Cover(problem, known *cover.Family) (*cover.Family, error) {
	if known != nil && !known.Complete() {
		return nil, errors.Wrap(cover.ErrInvalidState, "known solution is not a cover")
	}
	g.processed++
	if !problem.Complete() {
		return nil, nil
	}
	if problem.Universe() == 0 {
		return problem.Empty(), nil
	}
	extended := problem.Clone()
	if known != nil {
		if err := extended.Merge(known); err != nil {
			return nil, err
		}
	}
	necessary := extended.NecessarySubsets()
	partial := extended.Empty()
	for _, s := range necessary {
		if err := partial.Add(s); err != nil {
			return nil, err
		}
	}
	if partial.Complete() {
		return partial, nil
	}
	unicost := extended.UniformCost()
	linear := extended.LinearCost()

	var best *cover.Family
	if known != nil {
		best = known.Clone()
	}
	for i := 0; i < max(g.Iterations, 1); i++ {
		r := g.rating(i, extended, unicost, linear)
		var selection greedy.Selection
		if i == 0 {
			selection = greedy.NewStrictBestRating(r, g.rng)
		} else {
			selection = greedy.NewBestRating(r, g.rng)
		}
		var creation greedy.Creation = greedy.Fewest{}
		if _, ok := r.(*rating.Probability); ok || !unicost {
			creation = greedy.Most{}
		}
		gr := greedy.New(creation, selection, g.rng)
		next, err := gr.CoverFrom(extended, best, partial)
		if err != nil {
			return nil, errors.Wrapf(err, "iteration %d", i)
		}
		if g.Optimizer != nil {
			st := optimize.Strategy{Creation: creation, Selection: selection}
			if next, err = g.Optimizer.Optimize(extended, next, best, st); err != nil {
				return nil, errors.Wrapf(err, "iteration %d", i)
			}
		}
		if best == nil || next.Cost() <= best.Cost() {
			best = next.Clone()
		}
		log.WithFields(logrus.Fields{"iteration": i, "cost": next.Cost(), "best": best.Cost()}).Debug("Iteration done")
		partial = g.shrinking.Partial(best, extended, necessary)
	}
	return best, nil
}

func (g *IteratedGreedy) Statistics() string {
	return fmt.Sprintf("processed problems: %d", g.processed)
}
