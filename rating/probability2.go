package rating

import (
	"math"

	"setcover/cover"
)

// Probability2 iterates over element costs instead of subset
// probabilities: a subset's utility is the summed cost of its uncovered
// elements, and every element is charged the expected cost of the
// subsets covering it.
type Probability2 struct {
	Iterations  int
	Damping     float64
	RelExponent float64
}

func NewProbability2() *Probability2 {
	return &Probability2{Iterations: 15, Damping: 0, RelExponent: 10}
}

func (r *Probability2) utilities(elemCosts []float64, candidates []*cover.Subset, f *cover.Family) []float64 {
	util := make([]float64, len(candidates))
	for t, s := range candidates {
		sum := 0.0
		s.Each(func(e int) {
			if f.CoverCount(e) == 0 {
				sum += elemCosts[e]
			}
		})
		util[t] = sum
	}
	return util
}

func (r *Probability2) relevance(util, cost float64, n int) float64 {
	if cost == 0 {
		return math.MaxFloat64 / float64(n)
	}
	rel := math.Pow(util/cost, r.RelExponent)
	if math.IsInf(rel, 1) {
		return math.MaxFloat64 / float64(n)
	}
	return rel
}

func (r *Probability2) RateAdd(candidates []*cover.Subset, f *cover.Family) ([]float64, error) {
	if err := checkAll(candidates, f, false); err != nil {
		return nil, err
	}
	n := len(candidates)
	if n == 0 {
		return nil, nil
	}
	costs := make([]float64, n)
	for t, s := range candidates {
		costs[t] = f.AddCost(s)
	}
	elemCosts := make([]float64, f.Universe())
	for e := range elemCosts {
		elemCosts[e] = 1
	}
	var probs, prev []float64
	for it := 0; it < r.Iterations; it++ {
		if probs != nil && anyOne(probs) {
			break
		}
		util := r.utilities(elemCosts, candidates, f)
		sums := make([]float64, f.Universe())
		for t, s := range candidates {
			rel := r.relevance(util[t], costs[t], n)
			s.Each(func(e int) { sums[e] += rel })
		}
		for e := range sums {
			if sums[e] == 0 {
				sums[e] = math.SmallestNonzeroFloat64
			}
		}
		probs = make([]float64, n)
		for t, s := range candidates {
			rel := r.relevance(util[t], costs[t], n)
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
		if prev != nil {
			for t := range probs {
				probs[t] = r.Damping*prev[t] + (1-r.Damping)*probs[t]
			}
		}
		prev = append([]float64(nil), probs...)
		for e := range elemCosts {
			elemCosts[e] = 0
		}
		for t, s := range candidates {
			share := probs[t] * costs[t] / float64(s.Len())
			s.Each(func(e int) { elemCosts[e] += share })
		}
	}
	return probs, nil
}

func (r *Probability2) RateRemove(candidates []*cover.Subset, f *cover.Family) ([]float64, error) {
	if err := checkAll(candidates, f, true); err != nil {
		return nil, err
	}
	return uniform(len(candidates)), nil
}
