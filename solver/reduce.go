package solver

import (
	"github.com/sirupsen/logrus"

	"setcover/cover"
	"setcover/rating"
	"setcover/selector"
)

// ReduceThenCover narrows the problem to the subsets a selector keeps
// and lets an inner coverer work on that smaller problem.
type ReduceThenCover struct {
	MinSubsets int
	MinCover   int
	Factor     float64

	utility rating.Utility
	inner   Coverer
}

func NewReduceThenCover(minSubsets, minCover int, factor float64, utility rating.Utility, inner Coverer) *ReduceThenCover {
	return &ReduceThenCover{
		MinSubsets: minSubsets,
		MinCover:   minCover,
		Factor:     factor,
		utility:    utility,
		inner:      inner,
	}
}

func (c *ReduceThenCover) Cover(problem, known *cover.Family) (*cover.Family, error) {
	var opts []selector.Option
	if c.Factor > 0 {
		opts = append(opts, selector.WithFactor(c.Factor))
	}
	sel := selector.New(problem.Universe(), c.MinSubsets, c.MinCover, c.utility, opts...)
	if _, err := sel.AddAll(problem.Subsets()); err != nil {
		return nil, err
	}
	reduced := sel.Selection()
	log.WithFields(logrus.Fields{"subsets": problem.Len(), "kept": reduced.Len()}).Debug("Problem reduced")
	return c.inner.Cover(reduced, known)
}

func (c *ReduceThenCover) Statistics() string {
	return c.inner.Statistics()
}
