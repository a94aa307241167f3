package rating

import (
	"math"

	"github.com/pkg/errors"

	"setcover/cover"
)

// Rating scores candidate subsets relative to a family. Higher add
// scores mean more worth adding, higher remove scores more worth
// removing. Add candidates must not be members of f, remove candidates
// must be.
type Rating interface {
	RateAdd(candidates []*cover.Subset, f *cover.Family) ([]float64, error)
	RateRemove(candidates []*cover.Subset, f *cover.Family) ([]float64, error)
}

// Single is a rating that scores each candidate on its own.
type Single interface {
	ScoreAdd(s *cover.Subset, f *cover.Family) (float64, error)
	ScoreRemove(s *cover.Subset, f *cover.Family) (float64, error)
}

// Utility measures how useful a family is and how that changes when a
// subset is added or removed.
type Utility interface {
	FamilyUtility(f *cover.Family) float64
	// AddUtilityPot is the gain of adding s without checking membership.
	AddUtilityPot(s *cover.Subset, f *cover.Family) float64
	AddUtility(s *cover.Subset, f *cover.Family) (float64, error)
	// RemoveUtility is the (non-positive) change caused by removing s.
	RemoveUtility(s *cover.Subset, f *cover.Family) (float64, error)
}

const maxScore = math.MaxFloat64

func mustBeAbsent(s *cover.Subset, f *cover.Family) error {
	if f.Contains(s) {
		return errors.Wrapf(cover.ErrInvalidState, "subset %s already present", s)
	}
	return nil
}

func mustBePresent(s *cover.Subset, f *cover.Family) error {
	if !f.Contains(s) {
		return errors.Wrapf(cover.ErrInvalidState, "subset %s not present", s)
	}
	return nil
}

func scoreAll(candidates []*cover.Subset, f *cover.Family, score func(*cover.Subset, *cover.Family) (float64, error)) ([]float64, error) {
	out := make([]float64, len(candidates))
	for k, s := range candidates {
		v, err := score(s, f)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func checkAll(candidates []*cover.Subset, f *cover.Family, present bool) error {
	for _, s := range candidates {
		if present {
			if err := mustBePresent(s, f); err != nil {
				return err
			}
		} else if err := mustBeAbsent(s, f); err != nil {
			return err
		}
	}
	return nil
}

// uniform is the score every remove candidate gets from the probability
// ratings.
func uniform(n int) []float64 {
	out := make([]float64, n)
	for k := range out {
		out[k] = -1.0 / float64(n)
	}
	return out
}

func power(base, exponent float64) float64 {
	switch exponent {
	case 1:
		return base
	case 2:
		return base * base
	case 0.5:
		return math.Sqrt(base)
	}
	return math.Pow(base, exponent)
}
