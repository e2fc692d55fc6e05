package fifo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGrowPreservesOrder matches spec.md §8 scenario 4: with initial
// capacity 2, enqueue a, b (now full), enqueue c forces a grow to 4; then
// three dequeues return a, b, c in order and size drops to 0.
func TestGrowPreservesOrder(t *testing.T) {
	q := New[string](2)

	q.Enqueue("a")
	q.Enqueue("b")
	require.Equal(t, 2, q.Capacity())

	q.Enqueue("c")
	assert.Equal(t, 4, q.Capacity())

	for _, want := range []string{"a", "b", "c"} {
		got, ok := q.Dequeue(false)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 0, q.Size())
}

func TestDequeueEmptyNonBlocking(t *testing.T) {
	q := New[int](4)
	_, ok := q.Dequeue(false)
	assert.False(t, ok)
}

func TestResetClearsQueue(t *testing.T) {
	q := New[int](4)
	q.Enqueue(1)
	q.Enqueue(2)
	q.Reset()
	assert.Equal(t, 0, q.Size())
	_, ok := q.Dequeue(false)
	assert.False(t, ok)
}

func TestDiscardDropsOldest(t *testing.T) {
	q := New[int](8)
	for i := 0; i < 5; i++ {
		q.Enqueue(i)
	}
	q.Discard(2)
	assert.Equal(t, 2, q.Size())
	got, ok := q.Dequeue(false)
	require.True(t, ok)
	assert.Equal(t, 3, got)
}

func TestSizeBounds(t *testing.T) {
	q := New[int](4)
	for i := 0; i < 10; i++ {
		q.Enqueue(i)
		size := q.Size()
		assert.GreaterOrEqual(t, size, 0)
		assert.Less(t, size, q.Capacity())
	}
}
