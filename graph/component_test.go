package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"setcover/cover"
)

func TestComponents(t *testing.T) {
	g := NewGraph(5)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(4, 3)
	g.AddEdge(3, 4)
	assert.Equal(t, [][]int{{0, 1, 2}, {3, 4}}, g.Components())
	assert.Nil(t, NewGraph(0).Components())
}

func TestSplit(t *testing.T) {
	type testcase struct {
		name    string
		subsets [][]int
		parts   []string
	}
	cases := []testcase{
		{"chain", [][]int{{0, 1}, {1, 2}, {2, 3}}, []string{"[{0 1}:1, {1 2}:1, {2 3}:1]"}},
		{"two islands", [][]int{{0, 1}, {4, 5}, {1, 2}, {5}}, []string{"[{0 1}:1, {1 2}:1]", "[{4 5}:1, {5}:1]"}},
		{"singletons", [][]int{{0}, {3}}, []string{"[{0}:1]", "[{3}:1]"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := cover.NewFamily(6)
			for _, indices := range c.subsets {
				require.NoError(t, f.Add(cover.MustSubset(6, 1, indices...)))
			}
			parts := Split(f)
			require.Len(t, parts, len(c.parts))
			for k, part := range parts {
				assert.Equal(t, c.parts[k], part.String())
				assert.Equal(t, 6, part.Universe())
			}
		})
	}
}
