package greedy

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"

	"setcover/cover"
)

// Complete adds subsets of pool to partial until it covers the
// universe. The subsets in exclude are only offered once the first
// subset has been added. Redundant subsets are stripped after every
// addition, one at a time so coverage never drops, and become
// available again.
func Complete(partial, best *cover.Family, pool, exclude []*cover.Subset, creation Creation, selection Selection) error {
	excluded := mapset.NewThreadUnsafeSet[uint64]()
	for _, s := range exclude {
		excluded.Add(s.Hash())
	}
	offered := func(first bool) []*cover.Subset {
		out := make([]*cover.Subset, 0, len(pool))
		for _, s := range pool {
			if partial.Contains(s) {
				continue
			}
			if first && excluded.Contains(s.Hash()) && contains(exclude, s) {
				continue
			}
			out = append(out, s)
		}
		return out
	}
	first := true
	for !partial.Complete() {
		candidates := creation.ForAdd(offered(first), partial, best)
		if first && len(candidates) == 0 {
			candidates = creation.ForAdd(offered(false), partial, best)
		}
		first = false
		if len(candidates) == 0 {
			return errors.Wrapf(cover.ErrInvalidState, "pool cannot cover %d indices", partial.Uncovered())
		}
		s, err := selection.SelectAdd(candidates, partial)
		if err != nil {
			return err
		}
		if err := partial.Add(s); err != nil {
			return err
		}
		if err := StripRedundant(partial, selection); err != nil {
			return err
		}
	}
	return nil
}

// StripRedundant removes redundant subsets chosen by selection until
// every member is necessary.
func StripRedundant(f *cover.Family, selection Selection) error {
	for f.RedundantCount() > 0 {
		s, err := selection.SelectRemove(f.RedundantSubsets(), f)
		if err != nil {
			return err
		}
		if err := f.Remove(s); err != nil {
			return err
		}
	}
	return nil
}

func contains(subsets []*cover.Subset, s *cover.Subset) bool {
	for _, o := range subsets {
		if o.Equal(s) {
			return true
		}
	}
	return false
}
