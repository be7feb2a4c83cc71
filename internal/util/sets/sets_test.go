package sets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetBasics(t *testing.T) {
	s := New("a", "b")
	require.Equal(t, 2, s.Len())
	require.True(t, s.Has("a"))
	require.False(t, s.Has("c"))

	s.Add("c")
	require.True(t, s.Has("c"))

	s.Delete("a")
	require.False(t, s.Has("a"))
	require.Equal(t, 2, s.Len())
}

func TestClone(t *testing.T) {
	s := New(1, 2)
	c := s.Clone()
	c.Add(3)
	require.True(t, c.Has(3))
	require.False(t, s.Has(3))
}

func TestSortedStrings(t *testing.T) {
	s := New("zeta", "alpha", "mid")
	require.Equal(t, []string{"alpha", "mid", "zeta"}, SortedStrings(s))
	require.Empty(t, SortedStrings(New[string]()))
}
