package solver

import (
	"fmt"

	"setcover/cover"
	"setcover/rating"
	"setcover/selector"
)

// SelectThenCover offers every subset to a selector and lowers its
// capacity one subset at a time down to one. The selector never gives
// up coverage, so what remains is a cover with few redundant subsets.
type SelectThenCover struct {
	utility   rating.Utility
	processed int
}

func NewSelectThenCover(utility rating.Utility) *SelectThenCover {
	return &SelectThenCover{utility: utility}
}

func (c *SelectThenCover) Cover(problem, known *cover.Family) (*cover.Family, error) {
	c.processed++
	sel := selector.New(problem.Universe(), problem.Len(), 0, c.utility)
	if _, err := sel.AddAll(problem.Subsets()); err != nil {
		return nil, err
	}
	for m := problem.Len() - 1; m > 0; m-- {
		if err := sel.SetMinSubsets(m); err != nil {
			return nil, err
		}
	}
	selection := sel.Selection()
	if known != nil && Better(known, selection) {
		return known, nil
	}
	return selection, nil
}

func (c *SelectThenCover) Statistics() string {
	return fmt.Sprintf("processed problems: %d", c.processed)
}
