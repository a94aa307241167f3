package greedy

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"setcover/cover"
)

var log = logrus.WithField("prefix", "greedy")

// RemoveProbability is the chance of removing a necessary subset after
// an add step, which lets the construction escape poor early choices.
const RemoveProbability = 0.1

// Greedy builds a cover by repeatedly adding the best rated candidate
// and removing subsets that became redundant.
type Greedy struct {
	// Creation may be nil, then Fewest is used for unicost problems and
	// Most otherwise.
	Creation  Creation
	Selection Selection
	// SelectNr is the number of candidates added per step, 0 adds all.
	SelectNr int

	rng       *rand.Rand
	processed int
}

func New(creation Creation, selection Selection, rng *rand.Rand) *Greedy {
	return &Greedy{Creation: creation, Selection: selection, SelectNr: 1, rng: rng}
}

// Cover returns a cover of problem built from scratch, or nil when the
// problem's subsets cannot cover the universe.
func (g *Greedy) Cover(problem, known *cover.Family) (*cover.Family, error) {
	return g.CoverFrom(problem, known, problem.Empty())
}

// CoverFrom completes a copy of partial.
func (g *Greedy) CoverFrom(problem, known, partial *cover.Family) (*cover.Family, error) {
	if g.SelectNr < 0 {
		return nil, errors.Wrap(cover.ErrInvalidState, "negative number of candidates per step")
	}
	if known != nil && !known.Complete() {
		return nil, errors.Wrap(cover.ErrInvalidState, "known solution is not a cover")
	}
	g.processed++
	if !problem.Complete() {
		return nil, nil
	}
	creation := g.Creation
	if creation == nil {
		if problem.UniformCost() {
			creation = Fewest{}
		} else {
			creation = Most{}
		}
	}
	pool := problem.Subsets()
	if known != nil {
		known.Each(func(s *cover.Subset) {
			if !problem.Contains(s) {
				pool = append(pool, s)
			}
		})
	}
	result := partial.Clone()
	if err := g.generate(result, known, pool, creation); err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"subsets": result.Len(), "cost": result.Cost()}).Debug("Greedy cover built")
	return result, nil
}

func (g *Greedy) removeIsOkay(partial *cover.Family) bool {
	switch {
	case partial.Len() == 0:
		return false
	case partial.RedundantCount() > 0:
		return true
	default:
		return g.rng.Float64() < RemoveProbability
	}
}

func (g *Greedy) generate(partial, known *cover.Family, pool []*cover.Subset, creation Creation) error {
	fallback := Fewest{}
	candidates := append([]*cover.Subset(nil), pool...)
	for !partial.Complete() {
		if len(candidates) > 0 {
			candidates = creation.ForAdd(candidates, partial, known)
		}
		if len(candidates) == 0 {
			candidates = fallback.ForAdd(pool, partial, known)
		}
		if len(candidates) == 0 {
			return errors.Wrap(cover.ErrInvalidState, "candidates cannot complete the cover")
		}
		toAdd := len(candidates)
		if g.SelectNr > 0 && g.SelectNr < toAdd {
			toAdd = g.SelectNr
		}
		for added := 0; added < toAdd && len(candidates) > 0; {
			s, err := g.Selection.SelectAdd(candidates, partial)
			if err != nil {
				return err
			}
			if partial.UniquelyCovered(s) == 0 {
				break
			}
			if err := partial.Add(s); err != nil {
				return err
			}
			candidates = without(candidates, s)
			added++
		}
		for g.removeIsOkay(partial) {
			removable := creation.ForRemove(pool, partial, known)
			if len(removable) == 0 {
				removable = partial.Subsets()
			}
			s, err := g.Selection.SelectRemove(removable, partial)
			if err != nil {
				return err
			}
			if err := partial.Remove(s); err != nil {
				return err
			}
			candidates = append(candidates[:0], pool...)
		}
	}
	return nil
}

func (g *Greedy) Statistics() string {
	return fmt.Sprintf("processed problems: %d", g.processed)
}

// without returns subsets minus s, reusing the backing array.
func without(subsets []*cover.Subset, s *cover.Subset) []*cover.Subset {
	out := subsets[:0]
	for _, other := range subsets {
		if other != s {
			out = append(out, other)
		}
	}
	return out
}
