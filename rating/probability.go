package rating

import (
	"math"

	"setcover/cover"
)

const (
	ProbabilityIterations = 10
	ProbabilityDamping    = 0.0
	unicostRelExponent    = 1.0
	multicostRelExponent  = 2.0
)

// Probability estimates for every add candidate the probability that it
// belongs to a good cover. Each pass spreads the candidates' utility per
// cost over the indices they contain and recomputes the probability that
// a candidate is the one covering at least one of its uncovered indices.
type Probability struct {
	Iterations  int
	Damping     float64
	relExponent float64
}

// NewProbability picks the relevance exponent from the cost regime of
// the whole problem.
func NewProbability(problem *cover.Family) *Probability {
	exp := multicostRelExponent
	if problem.UniformCost() {
		exp = unicostRelExponent
	}
	return &Probability{Iterations: ProbabilityIterations, Damping: ProbabilityDamping, relExponent: exp}
}

func (r *Probability) addCosts(candidates []*cover.Subset, f *cover.Family) []float64 {
	costs := make([]float64, len(candidates))
	maxCost := 0.0
	for k, s := range candidates {
		costs[k] = f.AddCost(s)
		if costs[k] > maxCost && costs[k] < math.MaxFloat64 {
			maxCost = costs[k]
		}
	}
	if maxCost > 0 {
		for k := range costs {
			costs[k] /= maxCost
		}
	}
	return costs
}

func (r *Probability) sums(probs, costs []float64, candidates []*cover.Subset, universe int) []float64 {
	sums := make([]float64, universe)
	for t, s := range candidates {
		var rel float64
		if costs[t] == 0 {
			rel = math.MaxFloat64 / float64(len(candidates))
		} else {
			rel = power(probs[t]/costs[t], r.relExponent)
		}
		s.Each(func(e int) { sums[e] += rel })
	}
	for e := range sums {
		if sums[e] == 0 {
			sums[e] = math.SmallestNonzeroFloat64
		}
	}
	return sums
}

func (r *Probability) probabilities(sums, prev, costs []float64, candidates []*cover.Subset, f *cover.Family) []float64 {
	probs := make([]float64, len(candidates))
	for t, s := range candidates {
		rel := 0.0
		if costs[t] != 0 {
			rel = power(prev[t]/costs[t], r.relExponent)
		}
		product := 1.0
		s.Each(func(e int) {
			if f.CoverCount(e) > 0 {
				return
			}
			p := 1.0
			if costs[t] != 0 {
				p = rel / sums[e]
			}
			product *= 1 - p
		})
		probs[t] = 1 - product
	}
	return probs
}

func anyOne(values []float64) bool {
	for _, v := range values {
		if v == 1 {
			return true
		}
	}
	return false
}

func (r *Probability) RateAdd(candidates []*cover.Subset, f *cover.Family) ([]float64, error) {
	if err := checkAll(candidates, f, false); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	costs := r.addCosts(candidates, f)
	probs := make([]float64, len(candidates))
	for t := range probs {
		probs[t] = 1.0 / float64(len(candidates))
	}
	for it := 0; it < r.Iterations && !anyOne(probs); it++ {
		sums := r.sums(probs, costs, candidates, f.Universe())
		next := r.probabilities(sums, probs, costs, candidates, f)
		for t := range next {
			next[t] = r.Damping*probs[t] + (1-r.Damping)*next[t]
		}
		probs = next
	}
	return probs, nil
}

func (r *Probability) RateRemove(candidates []*cover.Subset, f *cover.Family) ([]float64, error) {
	if err := checkAll(candidates, f, true); err != nil {
		return nil, err
	}
	return uniform(len(candidates)), nil
}
