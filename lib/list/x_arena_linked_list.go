package list

import "iter"

var _ SinglyLinkedList[struct{}] = (*xArenaSinglyLinkedList[struct{}])(nil)

const (
	nilIndex           = -1
	defaultArenaChunk  = 64
	arenaRecycleCapMin = 16
)

type xArenaNode[T any] struct {
	next  int // nilIndex means no successor.
	value T
}

// xNodeArena hands out stable integer addresses. It grows by whole chunks so
// an allocated slot never moves, and released slots are recycled first.
type xNodeArena[T any] struct {
	chunks    [][]xArenaNode[T]
	recycled  []int
	chunkCap  int
	allocated int
}

func newXNodeArena[T any](capPerChunk uint32) *xNodeArena[T] {
	if capPerChunk == 0 {
		capPerChunk = defaultArenaChunk
	}
	return &xNodeArena[T]{
		chunks:   make([][]xArenaNode[T], 0, 8),
		recycled: make([]int, 0, max(arenaRecycleCapMin, int(capPerChunk)/4)),
		chunkCap: int(capPerChunk),
	}
}

func (arena *xNodeArena[T]) get(idx int) *xArenaNode[T] {
	return &arena.chunks[idx/arena.chunkCap][idx%arena.chunkCap]
}

func (arena *xNodeArena[T]) allocate(v T) int {
	var idx int
	if rl := len(arena.recycled); rl > 0 {
		idx = arena.recycled[rl-1]
		arena.recycled = arena.recycled[:rl-1]
	} else {
		if arena.allocated == len(arena.chunks)*arena.chunkCap {
			arena.chunks = append(arena.chunks, make([]xArenaNode[T], arena.chunkCap))
		}
		idx = arena.allocated
		arena.allocated++
	}
	n := arena.get(idx)
	n.value = v
	n.next = nilIndex
	return idx
}

// release zeroes the slot and returns the value it held.
func (arena *xNodeArena[T]) release(idx int) T {
	n := arena.get(idx)
	v := n.value
	*n = xArenaNode[T]{next: nilIndex}
	arena.recycled = append(arena.recycled, idx)
	return v
}

// inUse counts the slots currently owned by a list.
func (arena *xNodeArena[T]) inUse() int {
	return arena.allocated - len(arena.recycled)
}

func (arena *xNodeArena[T]) reset() {
	arena.chunks = arena.chunks[:0]
	arena.recycled = arena.recycled[:0]
	arena.allocated = 0
}

type xArenaSinglyLinkedList[T any] struct {
	arena *xNodeArena[T]
	head  int
	tail  int
	len   int64
}

// NewArenaSinglyLinkedList creates a list whose nodes live in an arena
// addressed by integer indices. capPerChunk is the arena growth step,
// zero means the default step.
func NewArenaSinglyLinkedList[T any](capPerChunk uint32, values ...T) SinglyLinkedList[T] {
	l := &xArenaSinglyLinkedList[T]{
		arena: newXNodeArena[T](capPerChunk),
		head:  nilIndex,
		tail:  nilIndex,
	}
	for _, v := range values {
		l.Append(v)
	}
	return l
}

func (l *xArenaSinglyLinkedList[T]) Len() int64 {
	return l.len
}

func (l *xArenaSinglyLinkedList[T]) IsEmpty() bool {
	return l.len == 0
}

func (l *xArenaSinglyLinkedList[T]) next(idx int) int {
	return l.arena.get(idx).next
}

func (l *xArenaSinglyLinkedList[T]) setNext(idx, next int) {
	l.arena.get(idx).next = next
}

func (l *xArenaSinglyLinkedList[T]) nodeAt(pos int64) int {
	idx := l.head
	for i := int64(0); i < pos; i++ {
		idx = l.next(idx)
	}
	return idx
}

func (l *xArenaSinglyLinkedList[T]) Append(v T) {
	idx := l.arena.allocate(v)
	if l.len == 0 {
		l.head, l.tail = idx, idx
	} else {
		l.setNext(l.tail, idx)
		l.tail = idx
	}
	l.len++
}

func (l *xArenaSinglyLinkedList[T]) Prepend(v T) {
	idx := l.arena.allocate(v)
	if l.len == 0 {
		l.head, l.tail = idx, idx
	} else {
		l.setNext(idx, l.head)
		l.head = idx
	}
	l.len++
}

func (l *xArenaSinglyLinkedList[T]) Insert(pos int64, v T) error {
	if pos < 0 || pos > l.len {
		return errIndexOutOfRange("insert", pos, l.len)
	}

	switch pos {
	case 0:
		l.Prepend(v)
		return nil
	case l.len:
		l.Append(v)
		return nil
	default:
	}

	prev := l.nodeAt(pos - 1)
	idx := l.arena.allocate(v)
	l.setNext(idx, l.next(prev))
	l.setNext(prev, idx)
	l.len++
	return nil
}

func (l *xArenaSinglyLinkedList[T]) Remove(pos int64) (T, error) {
	var zero T
	if l.len == 0 {
		return zero, errRemoveFromEmpty(pos)
	}
	if pos < 0 || pos >= l.len {
		return zero, errIndexOutOfRange("remove", pos, l.len-1)
	}

	switch pos {
	case 0:
		return l.PopFirst()
	case l.len - 1:
		return l.Pop()
	default:
	}

	prev := l.nodeAt(pos - 1)
	target := l.next(prev)
	l.setNext(prev, l.next(target))
	l.len--
	return l.arena.release(target), nil
}

func (l *xArenaSinglyLinkedList[T]) Pop() (T, error) {
	if l.len == 0 {
		var zero T
		return zero, errEmptyList("pop")
	}

	target := l.tail
	if l.len == 1 {
		l.head, l.tail = nilIndex, nilIndex
	} else {
		prev := l.nodeAt(l.len - 2)
		l.setNext(prev, nilIndex)
		l.tail = prev
	}
	l.len--
	return l.arena.release(target), nil
}

func (l *xArenaSinglyLinkedList[T]) PopFirst() (T, error) {
	if l.len == 0 {
		var zero T
		return zero, errEmptyList("pop first")
	}

	target := l.head
	if l.len == 1 {
		l.head, l.tail = nilIndex, nilIndex
	} else {
		l.head = l.next(target)
	}
	l.len--
	return l.arena.release(target), nil
}

func (l *xArenaSinglyLinkedList[T]) Traverse() iter.Seq2[int64, NodeView[T]] {
	return func(yield func(int64, NodeView[T]) bool) {
		pos := int64(0)
		for idx := l.head; idx != nilIndex; {
			n := l.arena.get(idx)
			view := NodeView[T]{
				Value:  n.value,
				IsHead: idx == l.head,
				IsTail: idx == l.tail,
			}
			if !yield(pos, view) {
				return
			}
			idx = n.next
			pos++
		}
	}
}

func (l *xArenaSinglyLinkedList[T]) Foreach(fn func(idx int64, v NodeView[T]) error) error {
	return foreach(l.Traverse(), fn)
}

func (l *xArenaSinglyLinkedList[T]) Front() (T, error) {
	if l.len == 0 {
		var zero T
		return zero, errEmptyList("front")
	}
	return l.arena.get(l.head).value, nil
}

func (l *xArenaSinglyLinkedList[T]) Back() (T, error) {
	if l.len == 0 {
		var zero T
		return zero, errEmptyList("back")
	}
	return l.arena.get(l.tail).value, nil
}

func (l *xArenaSinglyLinkedList[T]) Get(pos int64) (T, error) {
	if pos < 0 || pos >= l.len {
		var zero T
		return zero, errIndexOutOfRange("get", pos, l.len-1)
	}
	return l.arena.get(l.nodeAt(pos)).value, nil
}

func (l *xArenaSinglyLinkedList[T]) FindFirst(fn func(v T) bool) (int64, bool) {
	return findFirst(l.Traverse(), fn)
}

func (l *xArenaSinglyLinkedList[T]) ToSlice() []T {
	return toSlice(l.Traverse(), l.len)
}

// Clear drops every chunk, the arena restarts from the first slot.
func (l *xArenaSinglyLinkedList[T]) Clear() {
	l.arena.reset()
	l.head, l.tail = nilIndex, nilIndex
	l.len = 0
}

func (l *xArenaSinglyLinkedList[T]) Validate() error {
	switch {
	case l.len < 0:
		return errBrokenInvariant("negative length %d", l.len)
	case l.len == 0:
		if l.head != nilIndex || l.tail != nilIndex {
			return errBrokenInvariant("empty list keeps head or tail")
		}
		return nil
	case l.head == nilIndex || l.tail == nilIndex:
		return errBrokenInvariant("length %d without head or tail", l.len)
	case int64(l.arena.inUse()) != l.len:
		return errBrokenInvariant("arena holds %d live nodes, length %d", l.arena.inUse(), l.len)
	}

	idx := l.head
	for i := int64(1); i < l.len; i++ {
		if l.next(idx) == nilIndex {
			return errBrokenInvariant("chain ends after %d nodes, length %d", i, l.len)
		}
		idx = l.next(idx)
	}
	if idx != l.tail {
		return errBrokenInvariant("node at %d is not the tail", l.len-1)
	}
	if l.next(idx) != nilIndex {
		return errBrokenInvariant("tail has a successor")
	}
	return nil
}
