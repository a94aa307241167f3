package optimize

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"setcover/cover"
	"setcover/greedy"
	"setcover/rating"
)

func family(t *testing.T, universe int, subsets ...*cover.Subset) *cover.Family {
	t.Helper()
	f := cover.NewFamily(universe)
	for _, s := range subsets {
		require.NoError(t, f.Add(s))
	}
	return f
}

func strategy(rng *rand.Rand) Strategy {
	return Strategy{Creation: greedy.Most{}, Selection: greedy.NewStrictBestRating(rating.Chvatal{}, rng)}
}

// triangle has two disjoint halves that one slightly cheaper subset
// covers at once.
func triangle(t *testing.T) (problem *cover.Family, a, b, c *cover.Subset) {
	a = cover.MustSubset(4, 1, 0, 1)
	b = cover.MustSubset(4, 1, 2, 3)
	c = cover.MustSubset(4, 1.5, 0, 1, 2, 3)
	return family(t, 4, a, b, c), a, b, c
}

func TestMinCostWithoutRedundantRestoresOnError(t *testing.T) {
	problem, a, b, c := triangle(t)
	sp := Support{Selection: greedy.NewStrictBestRating(rating.Chvatal{}, rand.New(rand.NewSource(1)))}
	foreign := cover.MustSubset(5, 1, 4)
	type testcase struct {
		name string
		list []*cover.Subset
	}
	cases := []testcase{
		{name: "foreign last", list: []*cover.Subset{a, b, c, foreign}},
		{name: "foreign first", list: []*cover.Subset{foreign, a, b, c}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := problem.String()
			cost, err := sp.MinCostWithoutRedundant(problem, tc.list)
			require.Error(t, err)
			assert.True(t, errors.Is(err, cover.ErrSizeMismatch))
			assert.Zero(t, cost)
			assert.Equal(t, before, problem.String())
			assert.Equal(t, 3.5, problem.Cost())
		})
	}
}

func TestMinCostWithoutRedundant(t *testing.T) {
	problem, a, b, c := triangle(t)
	sp := Support{Selection: greedy.NewStrictBestRating(rating.Chvatal{}, rand.New(rand.NewSource(1)))}
	before := problem.String()

	cost, err := sp.MinCostWithoutRedundant(problem, []*cover.Subset{a, b, c})
	require.NoError(t, err)
	assert.Equal(t, 1.5, cost)
	assert.Equal(t, before, problem.String())
	assert.Equal(t, 3.5, problem.Cost())

	reduced, err := sp.BestReducedFamily(problem.Clone(), []*cover.Subset{a, b, c})
	require.NoError(t, err)
	assert.Equal(t, "[{0 1 2 3}:1.5]", reduced.String())
}

func TestGreedyReductionAboveBorder(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	var subsets []*cover.Subset
	for i := 0; i < 12; i++ {
		subsets = append(subsets, cover.MustSubset(12, 1, i, (i+1)%12))
	}
	f := family(t, 12, subsets...)
	sp := Support{Border: 2, Selection: greedy.NewStrictBestRating(rating.Chvatal{}, rng)}
	reduced, err := sp.BestReducedFamily(f, f.RedundantSubsets())
	require.NoError(t, err)
	assert.True(t, reduced.Complete())
	assert.Less(t, reduced.Len(), 12)
}

func TestAddOneAndInferior(t *testing.T) {
	cases := []struct {
		name      string
		optimizer Optimizer
	}{
		{"add one", AddOne{}},
		{"add two", AddTwo{}},
		{"inferior", Inferior{}},
		{"sequence", Sequence{Inferior{}, AddOne{}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			problem, a, b, _ := triangle(t)
			start := family(t, 4, a, b)
			got, err := tc.optimizer.Optimize(problem, start, nil, strategy(rand.New(rand.NewSource(1))))
			require.NoError(t, err)
			if tc.name == "add two" {
				assert.Same(t, start, got, "a pair cannot beat the single swap here")
				return
			}
			assert.Equal(t, "[{0 1 2 3}:1.5]", got.String())
			assert.Equal(t, 2, start.Len())
		})
	}
}

func TestIterRemove(t *testing.T) {
	p := cover.MustSubset(4, 1, 0, 1)
	q := cover.MustSubset(4, 1, 2)
	r := cover.MustSubset(4, 1, 3)
	s := cover.MustSubset(4, 1, 2, 3)
	problem := family(t, 4, p, q, r, s)
	start := family(t, 4, p, q, r)
	st := strategy(rand.New(rand.NewSource(2)))
	st.Creation = greedy.Fewest{}

	got, err := IterRemove{}.Optimize(problem, start, nil, st)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.Cost())
	assert.True(t, got.Contains(s))

	weighted := family(t, 4, p, q, r, cover.MustSubset(4, 3, 0, 1, 2, 3))
	got, err = IterRemove{}.Optimize(weighted, start, nil, st)
	require.NoError(t, err)
	assert.Same(t, start, got)
}

func TestLocalSearchSkipsWeightedProblems(t *testing.T) {
	problem, a, b, _ := triangle(t)
	start := family(t, 4, a, b)
	got, err := NewLocalSearch(rand.New(rand.NewSource(1)), false).Optimize(problem, start, nil, strategy(rand.New(rand.NewSource(1))))
	require.NoError(t, err)
	assert.Same(t, start, got)
}

func TestRejectsRedundantCover(t *testing.T) {
	problem, a, b, c := triangle(t)
	redundant := family(t, 4, a, b, c)
	st := strategy(rand.New(rand.NewSource(1)))
	for _, o := range []Optimizer{
		AddOne{}, AddTwo{}, Inferior{}, IterRemove{},
		NewLocalSearch(rand.New(rand.NewSource(1)), true), Sequence{AddOne{}},
	} {
		_, err := o.Optimize(problem, redundant, nil, st)
		assert.True(t, errors.Is(err, cover.ErrInvalidState), "%T", o)
	}
}

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
			if rng.Float64() < 0.25 {
				indices = append(indices, i)
			}
		}
		require.NoError(t, problem.Add(cover.MustSubset(universe, cost, indices...)))
	}
	for _, i := range problem.UncoveredIndices() {
		require.NoError(t, problem.Add(cover.MustSubset(universe, 1, i)))
	}
	return problem
}

func TestOptimizersNeverRegress(t *testing.T) {
	for _, unicost := range []bool{true, false} {
		for seed := int64(1); seed <= 3; seed++ {
			rng := rand.New(rand.NewSource(seed))
			problem := randomProblem(t, rng, 18, 16, unicost)
			st := strategy(rng)
			start, err := greedy.New(nil, greedy.NewBestRating(rating.Chvatal{}, rng), rng).Cover(problem, nil)
			require.NoError(t, err)
			require.Zero(t, start.RedundantCount())
			before := start.String()

			for _, o := range []Optimizer{
				AddOne{}, AddTwo{}, Inferior{}, IterRemove{},
				NewLocalSearch(rng, false), NewLocalSearch(rng, true),
				Sequence{Inferior{}, AddOne{}, NewLocalSearch(rng, false)},
			} {
				got, err := o.Optimize(problem, start, nil, st)
				require.NoError(t, err, "%T", o)
				assert.LessOrEqual(t, got.Cost(), start.Cost(), "%T", o)
				assert.True(t, got.Complete(), "%T", o)
				assert.Zero(t, got.RedundantCount(), "%T", o)
				got.Each(func(s *cover.Subset) {
					assert.True(t, problem.Contains(s))
				})
				assert.Equal(t, before, start.String(), "%T modified its input", o)
			}
		}
	}
}

func TestTaboo(t *testing.T) {
	taboo := NewTaboo[string](2)
	assert.False(t, taboo.Add("a"))
	assert.False(t, taboo.Add("b"))
	assert.True(t, taboo.Add("c"))
	assert.False(t, taboo.Contains("a"))
	assert.False(t, taboo.Add("b"))
	assert.True(t, taboo.Add("d"))
	assert.False(t, taboo.Contains("b"))
	assert.True(t, taboo.Contains("c"))
	assert.Equal(t, 2, taboo.Len())
}
