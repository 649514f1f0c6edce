package orderedset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertRejectsDuplicates(t *testing.T) {
	s := New[string]()

	assert.True(t, s.Insert("a"))
	assert.True(t, s.Insert("b"))
	assert.False(t, s.Insert("a"))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"a", "b"}, s.Values())
}

func TestRemoveHeadInInsertionOrder(t *testing.T) {
	s := New[int]()
	for _, v := range []int{5, 3, 9, 1} {
		require.True(t, s.Insert(v))
	}

	for _, want := range []int{5, 3, 9, 1} {
		got, ok := s.RemoveHead()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := s.RemoveHead()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestPeekHeadDoesNotRemove(t *testing.T) {
	s := New[int]()

	_, ok := s.PeekHead()
	assert.False(t, ok)

	s.Insert(7)
	s.Insert(8)
	v, ok := s.PeekHead()
	require.True(t, ok)
	assert.Equal(t, 7, v)
	assert.Equal(t, 2, s.Len())
}

func TestReinsertGoesToTail(t *testing.T) {
	s := New[string]()
	s.Insert("x")
	s.Insert("y")
	s.Insert("z")

	require.True(t, s.Remove("x"))
	require.True(t, s.Insert("x"))

	assert.Equal(t, []string{"y", "z", "x"}, s.Values())
}

func TestRemoveArbitraryElement(t *testing.T) {
	s := New[int]()
	s.Insert(1)
	s.Insert(2)
	s.Insert(3)

	assert.True(t, s.Remove(2))
	assert.False(t, s.Remove(2))
	assert.False(t, s.Contains(2))
	assert.True(t, s.Contains(1))
	assert.Equal(t, []int{1, 3}, s.Values())
}

func TestClear(t *testing.T) {
	s := New[int]()
	for i := 0; i < 100; i++ {
		s.Insert(i)
	}
	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Values())
	assert.True(t, s.Insert(42), "insert after clear must succeed")
}

type point struct{ x, y int }

func TestStructElementsCompareByValue(t *testing.T) {
	s := New[point]()

	assert.True(t, s.Insert(point{1, 2}))
	assert.False(t, s.Insert(point{1, 2}))
	assert.True(t, s.Insert(point{2, 1}))
	assert.True(t, s.Contains(point{2, 1}))
}
