package rating

import (
	"math"

	"setcover/cover"
)

// Chvatal rates by the cost freed per uniquely covered index.
type Chvatal struct{}

func (Chvatal) ScoreAdd(s *cover.Subset, f *cover.Family) (float64, error) {
	if err := mustBeAbsent(s, f); err != nil {
		return 0, err
	}
	alone := float64(f.UniquelyCovered(s))
	freed := 0.0
	for _, r := range f.NewlyRedundant(s) {
		freed = math.Max(freed, f.RemoveCost(r))
	}
	gain := freed - f.AddCost(s)
	switch {
	case gain < 0:
		if alone == 0 {
			return -maxScore, nil
		}
		return gain / alone, nil
	case gain == 0:
		if f.Universe() == 0 {
			return 0, nil
		}
		return alone / float64(f.Universe()), nil
	default:
		return gain * alone, nil
	}
}

func (Chvatal) ScoreRemove(s *cover.Subset, f *cover.Family) (float64, error) {
	if err := mustBePresent(s, f); err != nil {
		return 0, err
	}
	cost := f.RemoveCost(s)
	alone := f.UniquelyCovered(s)
	if alone == 0 {
		return cost * math.Sqrt(maxScore), nil
	}
	return cost / float64(alone), nil
}

func (c Chvatal) RateAdd(candidates []*cover.Subset, f *cover.Family) ([]float64, error) {
	return scoreAll(candidates, f, c.ScoreAdd)
}

func (c Chvatal) RateRemove(candidates []*cover.Subset, f *cover.Family) ([]float64, error) {
	return scoreAll(candidates, f, c.ScoreRemove)
}
