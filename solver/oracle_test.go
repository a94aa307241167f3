package solver

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/crillab/gophersat/maxsat"
	"github.com/stretchr/testify/require"

	"setcover/cover"
)

// optimum solves a unicost problem exactly: one soft clause per subset
// asks to leave it out, one hard clause per index asks to cover it.
func optimum(t *testing.T, problem *cover.Family) int {
	t.Helper()
	subsets := problem.Subsets()
	constrs := make([]maxsat.Constr, 0, len(subsets)+problem.Universe())
	for k := range subsets {
		constrs = append(constrs, maxsat.SoftClause(maxsat.Var(strconv.Itoa(k)).Negation()))
	}
	for i := 0; i < problem.Universe(); i++ {
		var lits []maxsat.Lit
		for k, s := range subsets {
			if ok, _ := s.Contains(i); ok {
				lits = append(lits, maxsat.Var(strconv.Itoa(k)))
			}
		}
		constrs = append(constrs, maxsat.HardClause(lits...))
	}
	model, cost := maxsat.New(constrs...).Solve()
	require.NotNil(t, model)
	return cost
}

// unicostProblem draws subsets of two to four indices and patches every
// index left uncovered with an extra pair.
func unicostProblem(t *testing.T, rng *rand.Rand, universe, subsets int) *cover.Family {
	t.Helper()
	f := cover.NewFamily(universe)
	for k := 0; k < subsets; k++ {
		size := 2 + rng.Intn(3)
		indices := make([]int, 0, size)
		for j := 0; j < size; j++ {
			indices = append(indices, rng.Intn(universe))
		}
		require.NoError(t, f.Add(cover.MustSubset(universe, 1, indices...)))
	}
	for _, i := range f.UncoveredIndices() {
		require.NoError(t, f.Add(cover.MustSubset(universe, 1, i, rng.Intn(universe))))
	}
	return f
}
