package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"setcover/cover"
)

func family(t *testing.T, universe int, subsets ...*cover.Subset) *cover.Family {
	t.Helper()
	f := cover.NewFamily(universe)
	for _, s := range subsets {
		require.NoError(t, f.Add(s))
	}
	return f
}

func TestRender(t *testing.T) {
	a := cover.MustSubset(4, 1, 2, 3)
	b := cover.MustSubset(4, 1, 0, 1)
	problem := family(t, 4, a, b, cover.MustSubset(4, 3, 0, 1, 2, 3))

	out := Render(Result{
		Name:       "demo",
		Problem:    problem,
		Cover:      family(t, 4, a, b),
		Statistics: "processed problems: 1\n",
	})
	assert.Equal(t, `instance: demo
universe: 4, subsets: 3
cover cost: 2
cover size: 2
  0 1 (1)
  2 3 (1)
statistics:
  processed problems: 1
`, out)

	out = Render(Result{
		Name:       "gap",
		Problem:    family(t, 4, b),
		Duplicates: 2,
		Elapsed:    1500 * time.Millisecond,
	})
	assert.Contains(t, out, "universe: 4, subsets: 1, duplicates dropped: 2\n")
	assert.Contains(t, out, "no cover exists, never covered: 2 3\n")
	assert.Contains(t, out, "elapsed: 1.5s\n")
	assert.NotContains(t, out, "statistics")
}

func TestSummarize(t *testing.T) {
	a := cover.MustSubset(4, 1, 2, 3)
	b := cover.MustSubset(4, 0.5, 0, 1)
	problem := family(t, 4, a, b)

	data, err := json.Marshal(Summarize(problem, family(t, 4, a, b), ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"cost": 1.5, "uncovered": 0, "subsets": [[0, 1], [2, 3]]}`, string(data))

	data, err = json.Marshal(Summarize(family(t, 4, b), nil, "processed problems: 1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"cost": 0, "uncovered": 2, "subsets": [], "statistics": "processed problems: 1"}`, string(data))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "#1, #2", joinInt([]int{1, 2}, "#", ", "))
	assert.Equal(t, "", joinInt(nil, "#", ", "))
	assert.Equal(t, "- a\n- b", joinStr([]string{"a", "b"}, "- ", "\n"))
}
