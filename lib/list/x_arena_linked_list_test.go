package list

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestXNodeArena_AllocateAndRecycle(t *testing.T) {
	arena := newXNodeArena[string](2)
	a := arena.allocate("a")
	b := arena.allocate("b")
	c := arena.allocate("c") // grows by a chunk
	require.Equal(t, []int{0, 1, 2}, []int{a, b, c})
	require.Len(t, arena.chunks, 2)
	require.Equal(t, 3, arena.inUse())

	// Addresses are stable across growth.
	require.Equal(t, "a", arena.get(a).value)
	require.Equal(t, nilIndex, arena.get(a).next)

	require.Equal(t, "b", arena.release(b))
	require.Equal(t, 2, arena.inUse())
	require.Equal(t, "", arena.get(b).value)

	// Released slots are handed out before the arena grows.
	d := arena.allocate("d")
	require.Equal(t, b, d)
	require.Len(t, arena.chunks, 2)

	arena.reset()
	require.Equal(t, 0, arena.inUse())
	require.Equal(t, 0, arena.allocate("e"))
}

func TestXNodeArena_DefaultChunk(t *testing.T) {
	arena := newXNodeArena[int](0)
	require.Equal(t, defaultArenaChunk, arena.chunkCap)
}

func TestXArenaSinglyLinkedList_ReusesReleasedSlots(t *testing.T) {
	l := NewArenaSinglyLinkedList[int](4, 1, 2, 3, 4).(*xArenaSinglyLinkedList[int])
	require.Len(t, l.arena.chunks, 1)

	for i := 0; i < 100; i++ {
		l.Append(i)
		_, err := l.PopFirst()
		require.NoError(t, err)
	}
	// A steady length keeps the arena at its first chunk plus at most one more.
	require.LessOrEqual(t, len(l.arena.chunks), 2)
	require.Equal(t, int(l.Len()), l.arena.inUse())
	require.NoError(t, l.Validate())
}

func TestXArenaSinglyLinkedList_ValidateDetectsCorruption(t *testing.T) {
	l := NewArenaSinglyLinkedList[int](0, 1, 2, 3).(*xArenaSinglyLinkedList[int])
	require.NoError(t, l.Validate())

	l.setNext(l.tail, l.head) // cycle
	require.ErrorIs(t, l.Validate(), ErrBrokenInvariant)
	l.setNext(l.tail, nilIndex)

	leaked := l.arena.allocate(9) // a live slot not reachable from head
	require.ErrorIs(t, l.Validate(), ErrBrokenInvariant)
	l.arena.release(leaked)
	require.NoError(t, l.Validate())
}
