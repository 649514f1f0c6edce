package uniquequeue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i5heu/GoUniqueQueue/internal/queue"
)

// Compile-time enforcement of the surfaces the harness drives.
func enforceBlocking[T any, Q queue.BlockingQueueValidationInterface[T]](Q) {}
func enforceDedup[T any, Q queue.DedupQueueValidationInterface[T]](Q)       {}

var (
	_ = enforceBlocking[string, *UniqueQueue[string]]
	_ = enforceDedup[string, *UniqueQueue[string]]
)

func TestSequentialScenario(t *testing.T) {
	q := New[string]()
	assert.Equal(t, 0, q.Size())

	assert.True(t, q.Add("cool"))
	assert.True(t, q.Add("fun"))
	assert.True(t, q.Add("smile"))
	assert.False(t, q.Add("cool"))
	assert.True(t, q.Add("1"))
	assert.Equal(t, 4, q.Size())

	v, ok := q.Poll()
	require.True(t, ok)
	assert.Equal(t, "cool", v)

	assert.True(t, q.AddAll("cool", "fun", "sun", "2"))
	assert.Equal(t, 6, q.Size())

	v, ok = q.Peek()
	require.True(t, ok)
	assert.Equal(t, "fun", v)

	for _, want := range []string{"fun", "smile", "1", "cool", "sun", "2"} {
		v, ok := q.Poll()
		require.True(t, ok)
		assert.Equal(t, want, v)
	}

	v, ok = q.Poll()
	assert.False(t, ok)
	assert.Equal(t, "", v)
	assert.Equal(t, 0, q.Size())
}

func TestOfferThenPoll(t *testing.T) {
	q := New[string]()
	data := []string{"1", "3", "6", "10", "4"}
	for _, s := range data {
		q.Offer(s)
	}

	for _, s := range data {
		v, ok := q.Poll()
		require.True(t, ok)
		assert.Equal(t, s, v)
	}
	assert.True(t, q.IsEmpty())
}

func TestOfferDuplicates(t *testing.T) {
	q := New[int]()

	assert.True(t, q.Offer(1))
	assert.False(t, q.Offer(1))
	assert.Equal(t, 1, q.Size())
}

func TestPeek(t *testing.T) {
	q := New[int]()

	_, ok := q.Peek()
	assert.False(t, ok)

	assert.True(t, q.Offer(66))
	v, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, 66, v)
	assert.Equal(t, 1, q.Size())
}

func TestRemove(t *testing.T) {
	q := New[int]()

	_, err := q.Remove()
	assert.ErrorIs(t, err, ErrNoSuchElement)

	assert.True(t, q.Offer(3))
	assert.True(t, q.Offer(1))
	assert.True(t, q.Offer(2))

	v, err := q.Remove()
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.Equal(t, 2, q.Size())

	v, err = q.Remove()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	v, err = q.Remove()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.True(t, q.IsEmpty())
}

func TestElement(t *testing.T) {
	q := New[int]()

	_, err := q.Element()
	assert.ErrorIs(t, err, ErrNoSuchElement)

	assert.True(t, q.Offer(4))
	assert.True(t, q.Offer(1))

	v, err := q.Element()
	require.NoError(t, err)
	assert.Equal(t, 4, v)
	assert.Equal(t, 2, q.Size())
}

func TestEmptySignalsAreNotErrors(t *testing.T) {
	q := New[int]()

	_, ok := q.Poll()
	assert.False(t, ok)
	_, ok = q.Peek()
	assert.False(t, ok)

	_, err := q.Remove()
	assert.ErrorIs(t, err, ErrNoSuchElement)
	assert.NotErrorIs(t, err, ErrInterrupted)
}

func TestRemoveValueAnywhere(t *testing.T) {
	q := New[string]()
	q.AddAll("a", "b", "c")

	assert.True(t, q.RemoveValue("b"))
	assert.False(t, q.RemoveValue("b"))
	assert.False(t, q.Contains("b"))
	assert.Equal(t, []string{"a", "c"}, q.Values())
}

func TestReinsertAfterRemovalGoesToTail(t *testing.T) {
	q := New[string]()
	q.AddAll("a", "b", "c")

	v, _ := q.Poll()
	require.Equal(t, "a", v)
	assert.True(t, q.Add("a"))

	assert.Equal(t, []string{"b", "c", "a"}, q.Values())
}

func TestAddAllReportsChange(t *testing.T) {
	q := New[int]()

	assert.True(t, q.AddAll(1, 2, 2, 3))
	assert.Equal(t, 3, q.Size())
	assert.False(t, q.AddAll(1, 2, 3))
	assert.False(t, q.AddAll())
	assert.Equal(t, []int{1, 2, 3}, q.Values())
}

func TestContains(t *testing.T) {
	q := New[int]()
	assert.False(t, q.Contains(1))

	q.Add(1)
	assert.True(t, q.Contains(1))

	q.Poll()
	assert.False(t, q.Contains(1))
}

func TestClear(t *testing.T) {
	q := New[int]()
	q.AddAll(1, 2, 3)
	q.Clear()

	assert.True(t, q.IsEmpty())
	assert.True(t, q.Add(1))
}

func TestValuesIsASnapshot(t *testing.T) {
	q := New[int]()
	q.AddAll(1, 2)

	vals := q.Values()
	vals[0] = 99
	q.Add(3)

	assert.Equal(t, []int{99, 2}, vals)
	assert.Equal(t, []int{1, 2, 3}, q.Values())
}

type employee struct {
	id   int64
	name string
}

func TestStructValuesDeduplicateByEquality(t *testing.T) {
	q := New[employee]()

	assert.True(t, q.Add(employee{1, "John"}))
	assert.False(t, q.Add(employee{1, "John"}))
	assert.True(t, q.Add(employee{1, "Harry"}))
	assert.Equal(t, 2, q.Size())
}
