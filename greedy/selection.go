package greedy

import (
	"math/rand"

	"github.com/pkg/errors"

	"setcover/cover"
	"setcover/rating"
)

const (
	// CmpInterval is the relative distance from the best rating within
	// which candidates count as equally good.
	CmpInterval = 0.001
	AddRand     = 0.05
	RemoveRand  = 0.05
)

type Selection interface {
	SelectAdd(candidates []*cover.Subset, f *cover.Family) (*cover.Subset, error)
	SelectRemove(candidates []*cover.Subset, f *cover.Family) (*cover.Subset, error)
}

// BestRating picks uniformly among the best rated candidates. With
// probability AddRand (RemoveRand) it ignores the rating altogether.
type BestRating struct {
	Rating     rating.Rating
	AddRand    float64
	RemoveRand float64
	rng        *rand.Rand
}

func NewBestRating(r rating.Rating, rng *rand.Rand) *BestRating {
	return &BestRating{Rating: r, AddRand: AddRand, RemoveRand: RemoveRand, rng: rng}
}

// NewStrictBestRating never ignores the rating.
func NewStrictBestRating(r rating.Rating, rng *rand.Rand) *BestRating {
	return &BestRating{Rating: r, rng: rng}
}

func (b *BestRating) SelectAdd(candidates []*cover.Subset, f *cover.Family) (*cover.Subset, error) {
	return b.pick(candidates, f, b.AddRand, b.Rating.RateAdd)
}

func (b *BestRating) SelectRemove(candidates []*cover.Subset, f *cover.Family) (*cover.Subset, error) {
	return b.pick(candidates, f, b.RemoveRand, b.Rating.RateRemove)
}

func (b *BestRating) pick(candidates []*cover.Subset, f *cover.Family, randomness float64,
	rate func([]*cover.Subset, *cover.Family) ([]float64, error)) (*cover.Subset, error) {
	if len(candidates) == 0 {
		return nil, errors.Wrap(cover.ErrInvalidState, "no candidates to select from")
	}
	if b.rng.Float64() < randomness || len(candidates) == 1 {
		return candidates[b.rng.Intn(len(candidates))], nil
	}
	values, err := rate(candidates, f)
	if err != nil {
		return nil, err
	}
	best := values[0]
	for _, v := range values[1:] {
		if v > best {
			best = v
		}
	}
	threshold := best * (1 + CmpInterval)
	if best > 0 {
		threshold = best / (1 + CmpInterval)
	}
	favourites := make([]*cover.Subset, 0, len(candidates))
	for k, s := range candidates {
		if values[k] >= threshold {
			favourites = append(favourites, s)
		}
	}
	return favourites[b.rng.Intn(len(favourites))], nil
}
