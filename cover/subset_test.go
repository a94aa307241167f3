package cover

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"setcover/elemset"
)

func TestSubsetConstruction(t *testing.T) {
	_, err := NewSubset(5, -1, 1)
	assert.True(t, errors.Is(err, ErrInvalidState))

	_, err = NewSubset(5, 1, 5)
	assert.True(t, errors.Is(err, ErrIndexRange))

	s, err := NewUnitSubset(5, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Cost())
	assert.Equal(t, 5, s.Universe())
	assert.Equal(t, []int{1, 4}, s.Indices())
	assert.Equal(t, "{1 4}:1", s.String())
}

func TestSubsetIdentityIgnoresCost(t *testing.T) {
	a := MustSubset(6, 1, 0, 2)
	b := MustSubset(6, 7, 2, 0)
	c := MustSubset(7, 1, 0, 2)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.False(t, a.Equal(c))
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, c.Compare(a))
}

func TestAsGoodOrBetter(t *testing.T) {
	type testcase struct {
		a, b   *Subset
		expect bool
	}
	cases := []testcase{
		{MustSubset(6, 1, 0, 1, 2), MustSubset(6, 1, 0, 1), true},
		{MustSubset(6, 1, 0, 1, 2), MustSubset(6, 0.5, 0, 1), false},
		{MustSubset(6, 1, 0, 1), MustSubset(6, 1, 0, 1, 2), false},
		{MustSubset(6, 1, 3), MustSubset(6, 1, 3), true},
	}
	for _, tc := range cases {
		got, err := tc.a.AsGoodOrBetter(tc.b)
		require.NoError(t, err)
		assert.Equal(t, tc.expect, got, "%s vs %s", tc.a, tc.b)
	}
	_, err := MustSubset(6, 1).AsGoodOrBetter(MustSubset(5, 1))
	assert.True(t, errors.Is(err, ErrSizeMismatch))
}

func TestUniquelyContainedAndDisjoint(t *testing.T) {
	a := MustSubset(8, 1, 0, 1, 2, 3)
	b := MustSubset(8, 1, 2, 3, 4)
	n, err := a.UniquelyContained(b)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	d, err := a.Disjoint(b)
	require.NoError(t, err)
	assert.False(t, d)
	d, err = a.Disjoint(MustSubset(8, 1, 7))
	require.NoError(t, err)
	assert.True(t, d)
}

func TestHashResetOnMutation(t *testing.T) {
	s := MustSubset(10, 1, 1, 2)
	before := s.Hash()
	require.NoError(t, s.Add(3))
	assert.NotEqual(t, before, s.Hash())
	require.NoError(t, s.Remove(3))
	assert.Equal(t, before, s.Hash())
	assert.True(t, errors.Is(s.Add(10), ErrIndexRange))
}

func TestSharedStorage(t *testing.T) {
	s := MustSubset(10, 1, 1, 2)
	shared, err := ShareSubset(s, 3)
	require.NoError(t, err)
	assert.Equal(t, Shared, shared.Storage())
	assert.Equal(t, Shared, s.Storage())
	assert.True(t, errors.Is(shared.Add(4), ErrInvalidState))
	assert.True(t, errors.Is(s.Add(4), ErrInvalidState))

	shared.Own()
	require.NoError(t, shared.Add(4))
	assert.Equal(t, []int{1, 2}, s.Indices())
	assert.Equal(t, []int{1, 2, 4}, shared.Indices())

	copied, err := CopySubset(s, 2)
	require.NoError(t, err)
	assert.Equal(t, Owned, copied.Storage())
	assert.True(t, copied.Equal(s))
}

func TestSubsetOverCachedSet(t *testing.T) {
	members, err := elemset.Of(elemset.CachedKind, 10, 9, 3)
	require.NoError(t, err)
	s, err := NewSubsetOf(members, 2)
	require.NoError(t, err)
	assert.True(t, s.Equal(MustSubset(10, 1, 3, 9)))
	assert.Equal(t, 3, s.Min())
	assert.Equal(t, 9, s.Max())
	next, err := s.Next(3)
	require.NoError(t, err)
	assert.Equal(t, 9, next)
}
