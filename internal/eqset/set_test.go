package eqset

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// item is a test element with a mutable ordering key, mirroring how the
// learn session classifies card wrappers by a shadow level that can change.
type item struct {
	name  string
	level int
}

func byLevel(a, b *item) int {
	return a.level - b.level
}

func newTestSet(seed int64) *Set[*item] {
	return NewWithRand(byLevel, rand.New(rand.NewSource(seed)))
}

func TestSetMembership(t *testing.T) {
	t.Parallel()

	s := newTestSet(1)
	a := &item{name: "a", level: 0}
	b := &item{name: "b", level: 1}

	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.Size())

	s.Add(a)
	s.Add(b)
	s.Add(a) // duplicate add is a no-op

	assert.Equal(t, 2, s.Size())
	assert.True(t, s.Contains(a))
	assert.True(t, s.Contains(b))

	assert.True(t, s.Remove(a))
	assert.False(t, s.Remove(a))
	assert.False(t, s.Contains(a))
	assert.Equal(t, 1, s.Size())
}

func TestElementsAreInClassOrder(t *testing.T) {
	t.Parallel()

	s := newTestSet(7)
	s.AddAll([]*item{
		{name: "c2", level: 2},
		{name: "a0", level: 0},
		{name: "b1", level: 1},
		{name: "d0", level: 0},
	})

	levels := make([]int, 0, 4)
	for _, it := range s.Elements() {
		levels = append(levels, it.level)
	}
	assert.Equal(t, []int{0, 0, 1, 2}, levels)
}

func TestLoopIteratorDrawsLowestClassFirst(t *testing.T) {
	t.Parallel()

	s := newTestSet(3)
	low := &item{name: "low", level: 0}
	high := &item{name: "high", level: 5}
	s.Add(high)
	s.Add(low)

	it := s.LoopIterator()
	got, err := it.Next()
	require.NoError(t, err)
	assert.Same(t, low, got)

	got, err = it.Next()
	require.NoError(t, err)
	assert.Same(t, high, got)
}

func TestLoopIteratorPassOffersEveryElementOnce(t *testing.T) {
	t.Parallel()

	s := newTestSet(11)
	const n = 8
	members := make([]*item, n)
	for i := range members {
		members[i] = &item{name: string(rune('a' + i)), level: 0}
		s.Add(members[i])
	}

	it := s.LoopIterator()
	seen := make(map[*item]int)
	for i := 0; i < n; i++ {
		got, err := it.Next()
		require.NoError(t, err)
		seen[got]++
	}

	// First n draws offer each member exactly once, in some order.
	require.Len(t, seen, n)
	for _, count := range seen {
		assert.Equal(t, 1, count)
	}

	// Draw n+1 revisits some member of the reshuffled class.
	got, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, seen[got])
}

func TestLoopIteratorOnEmptySet(t *testing.T) {
	t.Parallel()

	s := newTestSet(1)
	_, err := s.LoopIterator().Next()
	assert.ErrorIs(t, err, ErrEmptySet)
}

func TestAddExpiredIsIneligibleUntilPassRestarts(t *testing.T) {
	t.Parallel()

	s := newTestSet(5)
	a := &item{name: "a", level: 0}
	b := &item{name: "b", level: 0}
	s.Add(a)
	s.Add(b)

	it := s.LoopIterator()
	first, err := it.Next()
	require.NoError(t, err)

	// Pull the drawn element out and put it back expired: the remaining
	// element must be offered before the expired one reappears.
	s.Remove(first)
	s.AddExpired(first)

	second, err := it.Next()
	require.NoError(t, err)
	assert.NotSame(t, first, second, "expired element must not be redrawn in the same pass")

	// Pass is now exhausted, the restarted pass includes the expired element.
	seen := map[*item]bool{}
	for i := 0; i < 2; i++ {
		got, err := it.Next()
		require.NoError(t, err)
		seen[got] = true
	}
	assert.True(t, seen[first])
	assert.True(t, seen[second])
}

func TestPartitionTakesLowestClassesFirst(t *testing.T) {
	t.Parallel()

	s := newTestSet(13)
	var all []*item
	for i := 0; i < 6; i++ {
		it := &item{name: string(rune('a' + i)), level: i / 2} // levels 0,0,1,1,2,2
		all = append(all, it)
		s.Add(it)
	}

	taken := s.Partition(3)

	assert.Equal(t, 3, taken.Size())
	assert.Equal(t, 3, s.Size())

	// No overlap, union is the original content.
	for _, it := range all {
		assert.NotEqual(t, taken.Contains(it), s.Contains(it))
	}

	// The three lowest-level items went into the new set.
	for _, it := range taken.Elements() {
		assert.LessOrEqual(t, it.level, 1)
	}
	for _, it := range s.Elements() {
		assert.GreaterOrEqual(t, it.level, 1)
	}
}

func TestPartitionLargerThanSize(t *testing.T) {
	t.Parallel()

	s := newTestSet(17)
	a := &item{name: "a", level: 0}
	s.Add(a)

	taken := s.Partition(5)
	assert.Equal(t, 1, taken.Size())
	assert.True(t, s.IsEmpty())
}

func TestResetEquivalenceClassRelocates(t *testing.T) {
	t.Parallel()

	s := newTestSet(19)
	low := &item{name: "low", level: 0}
	moved := &item{name: "moved", level: 4}
	s.Add(low)
	s.Add(moved)

	// Key change without reclassification leaves the element where it was;
	// the relocation is explicit.
	moved.level = 0
	s.ResetEquivalenceClass(moved)

	assert.True(t, s.Contains(moved))
	levels := []int{}
	for _, it := range s.Elements() {
		levels = append(levels, it.level)
	}
	assert.Equal(t, []int{0, 0}, levels)

	// After relocation the element is drawable from its new class.
	seen := map[*item]bool{}
	it := s.LoopIterator()
	for i := 0; i < 2; i++ {
		got, err := it.Next()
		require.NoError(t, err)
		seen[got] = true
	}
	assert.True(t, seen[low])
	assert.True(t, seen[moved])
}

func TestRemoveEvictsFromPendingDrawOrder(t *testing.T) {
	t.Parallel()

	s := newTestSet(23)
	a := &item{name: "a", level: 0}
	b := &item{name: "b", level: 0}
	s.Add(a)
	s.Add(b)

	s.Remove(a)

	it := s.LoopIterator()
	for i := 0; i < 4; i++ {
		got, err := it.Next()
		require.NoError(t, err)
		assert.Same(t, b, got)
	}
}
