package rating

import (
	"setcover/cover"
)

const (
	DefaultFrequencyExponent = 0.5
	DefaultCostExponent      = 1.0
)

// FrequencyUtility values a family by a power of the coverage count of
// every index, optionally plus the number of covered indices. The power
// cache makes it unsafe for concurrent use.
type FrequencyUtility struct {
	exponent         float64
	withElementCount bool
	powers           []float64
}

func NewFrequencyUtility(exponent float64, withElementCount bool) *FrequencyUtility {
	return &FrequencyUtility{exponent: exponent, withElementCount: withElementCount}
}

func (u *FrequencyUtility) pow(k int) float64 {
	if k >= len(u.powers) {
		u.powers = make([]float64, 2*k+1)
		for i := range u.powers {
			u.powers[i] = power(float64(i), u.exponent)
		}
	}
	return u.powers[k]
}

func (u *FrequencyUtility) FamilyUtility(f *cover.Family) float64 {
	value := 0.0
	if u.withElementCount {
		value = float64(f.Covered())
	}
	if f.Universe() == 0 {
		return value
	}
	sum := 0.0
	for i := 0; i < f.Universe(); i++ {
		sum += u.pow(f.CoverCount(i))
	}
	return value + sum/float64(f.Universe())
}

func (u *FrequencyUtility) delta(s *cover.Subset, f *cover.Family, add bool) float64 {
	alone := 0
	sum := 0.0
	s.Each(func(i int) {
		count := f.CoverCount(i)
		if u.withElementCount {
			if add && count == 0 {
				alone++
			} else if !add && count == 1 {
				alone--
			}
		}
		next := 0.0
		if add {
			next = u.pow(count + 1)
		} else if count > 0 {
			next = u.pow(count - 1)
		}
		sum += next - u.pow(count)
	})
	if f.Universe() == 0 {
		return float64(alone)
	}
	return float64(alone) + sum/float64(f.Universe())
}

func (u *FrequencyUtility) AddUtilityPot(s *cover.Subset, f *cover.Family) float64 {
	return u.delta(s, f, true)
}

func (u *FrequencyUtility) AddUtility(s *cover.Subset, f *cover.Family) (float64, error) {
	if err := mustBeAbsent(s, f); err != nil {
		return 0, err
	}
	return u.delta(s, f, true), nil
}

func (u *FrequencyUtility) RemoveUtility(s *cover.Subset, f *cover.Family) (float64, error) {
	if err := mustBePresent(s, f); err != nil {
		return 0, err
	}
	return u.delta(s, f, false), nil
}

// Frequency rates the change of FrequencyUtility against the change of
// cost. In absolute mode the plain ratio is used, in relative mode the
// change of the family's utility per cost ratio.
type Frequency struct {
	utility      *FrequencyUtility
	costExponent float64
	absolute     bool
}

func NewFrequency(frequencyExponent, costExponent float64, absolute bool) *Frequency {
	return &Frequency{
		utility:      NewFrequencyUtility(frequencyExponent, true),
		costExponent: costExponent,
		absolute:     absolute,
	}
}

func NewDefaultFrequency(absolute bool) *Frequency {
	return NewFrequency(DefaultFrequencyExponent, DefaultCostExponent, absolute)
}

func (r *Frequency) score(s *cover.Subset, f *cover.Family, add bool) float64 {
	if !add && f.Len() == 1 {
		return -maxScore
	}
	var cost, gain float64
	if add {
		cost = f.AddCost(s)
	} else {
		cost = -f.RemoveCost(s)
	}
	if cost == 0 {
		if add {
			return maxScore
		}
		return -maxScore
	}
	gain = r.utility.delta(s, f, add)
	if r.absolute {
		if add {
			return gain / cost
		}
		// gain is a loss here and the ratio is negated on purpose so that a
		// smaller loss per cost saved rates higher, as in relative mode
		return gain / -cost
	}
	familyUtility := r.utility.FamilyUtility(f)
	familyCost := f.Cost()
	if familyCost == 0 {
		return gain / cost
	}
	if familyCost+cost <= 0 {
		return maxScore
	}
	familyPow := power(familyCost, r.costExponent)
	sumPow := power(familyCost+cost, r.costExponent)
	return ((familyUtility+gain)*familyPow - familyUtility*sumPow) / (sumPow * familyPow)
}

func (r *Frequency) ScoreAdd(s *cover.Subset, f *cover.Family) (float64, error) {
	if err := mustBeAbsent(s, f); err != nil {
		return 0, err
	}
	return r.score(s, f, true), nil
}

func (r *Frequency) ScoreRemove(s *cover.Subset, f *cover.Family) (float64, error) {
	if err := mustBePresent(s, f); err != nil {
		return 0, err
	}
	return r.score(s, f, false), nil
}

func (r *Frequency) RateAdd(candidates []*cover.Subset, f *cover.Family) ([]float64, error) {
	return scoreAll(candidates, f, r.ScoreAdd)
}

func (r *Frequency) RateRemove(candidates []*cover.Subset, f *cover.Family) ([]float64, error) {
	return scoreAll(candidates, f, r.ScoreRemove)
}
