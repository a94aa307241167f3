// Package optimize improves covers that contain no redundant subset.
// Every optimizer returns either its input or a cheaper cover without
// redundant subsets, and never modifies the families it is given.
package optimize

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"setcover/cover"
	"setcover/greedy"
)

var log = logrus.WithField("prefix", "optimize")

// Strategy is the greedy configuration an optimizer uses to complete
// and reduce covers.
type Strategy struct {
	Creation  greedy.Creation
	Selection greedy.Selection
}

type Optimizer interface {
	Optimize(problem, c, best *cover.Family, st Strategy) (*cover.Family, error)
}

func checkCover(c *cover.Family) error {
	if n := c.RedundantCount(); n > 0 {
		return errors.Wrapf(cover.ErrInvalidState, "cover contains %d redundant subsets", n)
	}
	return nil
}

// cheaper returns next when it beats c, stripped of redundant subsets,
// and c otherwise.
func cheaper(c, next *cover.Family, st Strategy) (*cover.Family, error) {
	if next == c || !next.Complete() || next.Cost() >= c.Cost() {
		return c, nil
	}
	if err := greedy.StripRedundant(next, st.Selection); err != nil {
		return nil, err
	}
	return next, nil
}

// untilStable applies once until the cost stops decreasing.
func untilStable(c *cover.Family, once func(*cover.Family) (*cover.Family, error)) (*cover.Family, error) {
	current := c
	for {
		next, err := once(current)
		if err != nil {
			return nil, err
		}
		if next.Cost() >= current.Cost() {
			return current, nil
		}
		log.WithFields(logrus.Fields{"before": current.Cost(), "after": next.Cost()}).Debug("Cover improved")
		current = next
	}
}

// Sequence applies its optimizers one after the other.
type Sequence []Optimizer

func (s Sequence) Optimize(problem, c, best *cover.Family, st Strategy) (*cover.Family, error) {
	current := c
	for _, o := range s {
		next, err := o.Optimize(problem, current, best, st)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

func without(subsets []*cover.Subset, drop ...*cover.Subset) []*cover.Subset {
	out := make([]*cover.Subset, 0, len(subsets))
outer:
	for _, s := range subsets {
		for _, d := range drop {
			if s.Equal(d) {
				continue outer
			}
		}
		out = append(out, s)
	}
	return out
}

func disjoint(a, b *cover.Subset) bool {
	ok, err := a.Disjoint(b)
	return err == nil && ok
}
