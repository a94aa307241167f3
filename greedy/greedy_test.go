package greedy

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"setcover/cover"
	"setcover/rating"
)

func randomProblem(t *testing.T, rng *rand.Rand, universe, subsets int, unicost bool) *cover.Family {
	t.Helper()
	problem := cover.NewFamily(universe)
	for k := 0; k < subsets; k++ {
		cost := 1.0
		if !unicost {
			cost = float64(1 + rng.Intn(5))
		}
		var indices []int
		for i := 0; i < universe; i++ {
			if rng.Float64() < 0.3 {
				indices = append(indices, i)
			}
		}
		require.NoError(t, problem.Add(cover.MustSubset(universe, cost, indices...)))
	}
	fill := 3.0
	if unicost {
		fill = 1
	}
	for _, i := range problem.UncoveredIndices() {
		require.NoError(t, problem.Add(cover.MustSubset(universe, fill, i)))
	}
	return problem
}

func checkCover(t *testing.T, problem, c *cover.Family) {
	t.Helper()
	require.NotNil(t, c)
	assert.True(t, c.Complete())
	assert.Zero(t, c.RedundantCount())
	c.Each(func(s *cover.Subset) {
		assert.True(t, problem.Contains(s), "%s not in problem", s)
	})
}

func TestGreedyCovers(t *testing.T) {
	type testcase struct {
		name      string
		unicost   bool
		selectNr  int
		creation  Creation
		selection func(rng *rand.Rand, problem *cover.Family) Selection
	}
	cases := []testcase{
		{name: "chvatal unicost", unicost: true, selectNr: 1,
			selection: func(rng *rand.Rand, _ *cover.Family) Selection { return NewBestRating(rating.Chvatal{}, rng) }},
		{name: "chvatal weighted", selectNr: 1,
			selection: func(rng *rand.Rand, _ *cover.Family) Selection { return NewBestRating(rating.Chvatal{}, rng) }},
		{name: "probability", selectNr: 1, creation: Most{},
			selection: func(rng *rand.Rand, p *cover.Family) Selection {
				return NewStrictBestRating(rating.NewProbability(p), rng)
			}},
		{name: "frequency batch of three", unicost: true, selectNr: 3, creation: Fewest{},
			selection: func(rng *rand.Rand, _ *cover.Family) Selection {
				return NewBestRating(rating.NewDefaultFrequency(false), rng)
			}},
		{name: "probability2 all at once", selectNr: 0, creation: Most{},
			selection: func(rng *rand.Rand, _ *cover.Family) Selection {
				return NewBestRating(rating.NewProbability2(), rng)
			}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(7))
			problem := randomProblem(t, rng, 30, 25, c.unicost)
			g := New(c.creation, c.selection(rng, problem), rng)
			g.SelectNr = c.selectNr
			result, err := g.Cover(problem, nil)
			require.NoError(t, err)
			checkCover(t, problem, result)
			assert.Equal(t, "processed problems: 1", g.Statistics())
		})
	}
}

func TestGreedyUsesKnownCover(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	problem := randomProblem(t, rng, 12, 8, true)
	extra := cover.MustSubset(12, 1, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11)
	known := cover.NewFamily(12)
	require.NoError(t, known.Add(extra))

	g := New(nil, NewStrictBestRating(rating.Chvatal{}, rng), rng)
	result, err := g.Cover(problem, known)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Len())
	assert.True(t, result.Contains(extra))
}

func TestGreedyPreconditions(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g := New(nil, NewBestRating(rating.Chvatal{}, rng), rng)

	uncoverable := cover.NewFamily(4)
	require.NoError(t, uncoverable.Add(cover.MustSubset(4, 1, 0, 1)))
	result, err := g.Cover(uncoverable, nil)
	require.NoError(t, err)
	assert.Nil(t, result)

	partial := cover.NewFamily(4)
	require.NoError(t, partial.Add(cover.MustSubset(4, 1, 3)))
	_, err = g.Cover(uncoverable, partial)
	assert.True(t, errors.Is(err, cover.ErrInvalidState))

	empty, err := g.Cover(cover.NewFamily(0), nil)
	require.NoError(t, err)
	assert.Zero(t, empty.Len())
}

func TestCreation(t *testing.T) {
	a := cover.MustSubset(6, 1, 0, 1, 2)
	b := cover.MustSubset(6, 4, 3, 4, 5)
	c := cover.MustSubset(6, 1, 3)
	d := cover.MustSubset(6, 1, 2, 3)
	pool := []*cover.Subset{a, b, c, d}
	partial := cover.NewFamily(6)
	require.NoError(t, partial.Add(a))

	assert.Equal(t, []*cover.Subset{b}, Fewest{}.ForAdd(pool, partial, nil))
	assert.Equal(t, []*cover.Subset{b, c, d}, Most{}.ForAdd(pool, partial, nil))

	best := cover.NewFamily(6)
	require.NoError(t, best.Add(cover.MustSubset(6, 3, 0, 1, 2, 3, 4, 5)))
	assert.Equal(t, []*cover.Subset{c, d}, Most{}.ForAdd(pool, partial, best))

	quota := cover.NewFamily(6, cover.WithQuota(2, 0))
	require.NoError(t, quota.Add(a))
	assert.Equal(t, []*cover.Subset{b}, Most{}.ForAdd(pool, quota, nil))

	require.NoError(t, partial.Add(b))
	require.NoError(t, partial.Add(d))
	assert.Equal(t, []*cover.Subset{d}, Fewest{}.ForRemove(pool, partial, nil))
	assert.Equal(t, []*cover.Subset{d}, Most{}.ForRemove(pool, partial, nil))
}

func TestBestRatingSelection(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	cheap := cover.MustSubset(4, 1, 0, 1, 2)
	pricey := cover.MustSubset(4, 5, 0, 1, 2)
	small := cover.MustSubset(4, 1, 3)
	f := cover.NewFamily(4)

	sel := NewStrictBestRating(rating.Chvatal{}, rng)
	for k := 0; k < 20; k++ {
		s, err := sel.SelectAdd([]*cover.Subset{pricey, cheap, small}, f)
		require.NoError(t, err)
		assert.Same(t, cheap, s)
	}
	_, err := sel.SelectAdd(nil, f)
	assert.True(t, errors.Is(err, cover.ErrInvalidState))

	require.NoError(t, f.Add(cheap))
	_, err = sel.SelectAdd([]*cover.Subset{cheap}, f)
	require.NoError(t, err, "single candidates are returned without rating")
	_, err = sel.SelectAdd([]*cover.Subset{cheap, small}, f)
	assert.True(t, errors.Is(err, cover.ErrInvalidState))
}

func TestUniformShrinking(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	problem := randomProblem(t, rng, 20, 20, true)
	g := New(nil, NewBestRating(rating.Chvatal{}, rng), rng)
	full, err := g.Cover(problem, nil)
	require.NoError(t, err)
	fixed := full.Subsets()[:1]

	shrink := NewUniformShrinking(rng)
	for k := 0; k < 10; k++ {
		partial := shrink.Partial(full, problem, fixed)
		assert.False(t, partial.Complete())
		assert.True(t, partial.Contains(fixed[0]))
		assert.True(t, full.Complete(), "input is not modified")
	}

	all := shrink.Partial(full, problem, full.Subsets())
	assert.True(t, all.Equal(full))
}

func TestComplete(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	a := cover.MustSubset(5, 1, 0, 1, 2, 3, 4)
	b := cover.MustSubset(5, 1, 0, 1)
	c := cover.MustSubset(5, 1, 2, 3, 4)
	sel := NewStrictBestRating(rating.Chvatal{}, rng)

	partial := cover.NewFamily(5)
	require.NoError(t, Complete(partial, nil, []*cover.Subset{a, b, c}, []*cover.Subset{a}, Fewest{}, sel))
	assert.True(t, partial.Complete())
	assert.Zero(t, partial.RedundantCount())

	partial = cover.NewFamily(5)
	require.NoError(t, partial.Add(b))
	err := Complete(partial, nil, []*cover.Subset{b}, nil, Fewest{}, sel)
	assert.True(t, errors.Is(err, cover.ErrInvalidState))
}
