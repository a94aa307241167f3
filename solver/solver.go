// Package solver combines greedy construction, subset selection and
// cover optimization into complete set covering heuristics.
package solver

import (
	"context"
	"math/rand"

	"github.com/sirupsen/logrus"

	"setcover/config"
	"setcover/cover"
	"setcover/optimize"
	"setcover/rating"
)

var log = logrus.WithField("prefix", "solver")

// Coverer computes a cover of problem. A known cover, if not nil, is
// used as a bound and returned when nothing better is found. A nil
// result without error means the problem's subsets cannot cover the
// universe.
type Coverer interface {
	Cover(problem, known *cover.Family) (*cover.Family, error)
	Statistics() string
}

// ContextCoverer stops starting new work once its context is done.
type ContextCoverer interface {
	Coverer
	CoverContext(ctx context.Context, problem, known *cover.Family) (*cover.Family, error)
}

// Better reports whether a is a better cover than b: it leaves fewer
// indices uncovered, or as many at strictly lower cost. A nil family is
// worse than any other.
func Better(a, b *cover.Family) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	case a.Uncovered() != b.Uncovered():
		return a.Uncovered() < b.Uncovered()
	default:
		return a.Cost() < b.Cost()
	}
}

// New builds the coverer described by cfg.
func New(cfg config.Config) (Coverer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	build := func(seed int64) Coverer {
		return newIterated(cfg, seed)
	}
	var c Coverer
	if cfg.Portfolio > 1 {
		c = NewPortfolio(cfg.Seed, cfg.Portfolio, build)
	} else {
		c = build(cfg.Seed)
	}
	if sel := cfg.Selector; sel.MinSubsets > 0 || sel.Factor > 0 {
		utility := rating.NewFrequencyUtility(rating.DefaultFrequencyExponent, true)
		c = NewReduceThenCover(sel.MinSubsets, sel.MinCover, sel.Factor, utility, c)
	}
	if cfg.Decompose {
		c = NewDecomposed(c)
	}
	log.WithFields(logrus.Fields{
		"seed":      cfg.Seed,
		"portfolio": cfg.Portfolio,
		"decompose": cfg.Decompose,
	}).Debug("Solver configured")
	return c, nil
}

func newIterated(cfg config.Config, seed int64) *IteratedGreedy {
	rng := rand.New(rand.NewSource(seed))
	g := NewIteratedGreedy(rng)
	g.Iterations = cfg.Iterations
	g.Optimizer = optimizers(cfg, rng)
	if cfg.Rating != config.RatingAuto {
		name := cfg.Rating
		g.RatingFor = func(_ int, problem *cover.Family) rating.Rating {
			return namedRating(name, problem)
		}
	}
	return g
}

func optimizers(cfg config.Config, rng *rand.Rand) optimize.Sequence {
	var seq optimize.Sequence
	for _, name := range cfg.Optimizations {
		switch name {
		case config.OptInferior:
			seq = append(seq, optimize.Inferior{Border: cfg.FullOptBorder})
		case config.OptAddOne:
			seq = append(seq, optimize.AddOne{Border: cfg.FullOptBorder})
		case config.OptAddTwo:
			seq = append(seq, optimize.AddTwo{Border: cfg.FullOptBorder})
		case config.OptIterRemove:
			seq = append(seq, optimize.IterRemove{})
		case config.OptLocalSearch:
			ls := optimize.NewLocalSearch(rng, cfg.MemoryEfficient)
			ls.ChangeFactor = cfg.TabooChangeFactor
			seq = append(seq, ls)
		}
	}
	return seq
}

func namedRating(name string, problem *cover.Family) rating.Rating {
	switch name {
	case config.RatingFrequency:
		return rating.NewDefaultFrequency(true)
	case config.RatingProbability:
		return rating.NewProbability(problem)
	case config.RatingProbability2:
		return rating.NewProbability2()
	default:
		return rating.Chvatal{}
	}
}
