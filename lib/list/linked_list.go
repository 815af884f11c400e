package list

import "iter"

var _ SinglyLinkedList[struct{}] = (*singlyLinkedList[struct{}])(nil) // Type check assertion

// singlyLinkedList owns the chain from head onward. Each node owns its
// successor and nothing outside the list keeps a node reference.
type singlyLinkedList[T any] struct {
	head *node[T]
	tail *node[T]
	len  int64
}

// NewSinglyLinkedList creates an empty list or a list seeded with values
// in order.
func NewSinglyLinkedList[T any](values ...T) SinglyLinkedList[T] {
	l := &singlyLinkedList[T]{}
	for _, v := range values {
		l.Append(v)
	}
	return l
}

func (l *singlyLinkedList[T]) Len() int64 {
	return l.len
}

func (l *singlyLinkedList[T]) IsEmpty() bool {
	return l.len == 0
}

// nodeAt walks idx successors from head. The caller guarantees 0 <= idx < len.
func (l *singlyLinkedList[T]) nodeAt(idx int64) *node[T] {
	n := l.head
	for i := int64(0); i < idx; i++ {
		n = n.next
	}
	return n
}

func (l *singlyLinkedList[T]) Append(v T) {
	n := newNode(v)
	if l.len == 0 {
		l.head, l.tail = n, n
	} else {
		l.tail.next = n
		l.tail = n
	}
	l.len++
}

func (l *singlyLinkedList[T]) Prepend(v T) {
	n := newNode(v)
	if l.len == 0 {
		l.head, l.tail = n, n
	} else {
		n.next = l.head
		l.head = n
	}
	l.len++
}

func (l *singlyLinkedList[T]) Insert(idx int64, v T) error {
	if idx < 0 || idx > l.len {
		return errIndexOutOfRange("insert", idx, l.len)
	}

	switch idx {
	case 0:
		l.Prepend(v)
		return nil
	case l.len:
		l.Append(v)
		return nil
	default:
	}

	prev := l.nodeAt(idx - 1)
	n := newNode(v)
	n.next = prev.next
	prev.next = n
	l.len++
	return nil
}

func (l *singlyLinkedList[T]) Remove(idx int64) (T, error) {
	var zero T
	if l.len == 0 {
		return zero, errRemoveFromEmpty(idx)
	}
	if idx < 0 || idx >= l.len {
		return zero, errIndexOutOfRange("remove", idx, l.len-1)
	}

	switch idx {
	case 0:
		return l.PopFirst()
	case l.len - 1:
		return l.Pop()
	default:
	}

	prev := l.nodeAt(idx - 1)
	target := prev.next
	prev.next = target.next
	l.len--
	return target.release(), nil
}

func (l *singlyLinkedList[T]) Pop() (T, error) {
	if l.len == 0 {
		var zero T
		return zero, errEmptyList("pop")
	}

	target := l.tail
	if l.len == 1 {
		l.head, l.tail = nil, nil
	} else {
		// No backward reference, so rediscover the tail's predecessor.
		prev := l.nodeAt(l.len - 2)
		prev.next = nil
		l.tail = prev
	}
	l.len--
	return target.release(), nil
}

func (l *singlyLinkedList[T]) PopFirst() (T, error) {
	if l.len == 0 {
		var zero T
		return zero, errEmptyList("pop first")
	}

	target := l.head
	if l.len == 1 {
		l.head, l.tail = nil, nil
	} else {
		l.head = target.next
	}
	l.len--
	return target.release(), nil
}

func (l *singlyLinkedList[T]) Traverse() iter.Seq2[int64, NodeView[T]] {
	return func(yield func(int64, NodeView[T]) bool) {
		idx := int64(0)
		for n := l.head; n != nil; n = n.next {
			view := NodeView[T]{
				Value:  n.value,
				IsHead: n == l.head,
				IsTail: n == l.tail,
			}
			if !yield(idx, view) {
				return
			}
			idx++
		}
	}
}

func (l *singlyLinkedList[T]) Foreach(fn func(idx int64, v NodeView[T]) error) error {
	return foreach(l.Traverse(), fn)
}

func (l *singlyLinkedList[T]) Front() (T, error) {
	if l.len == 0 {
		var zero T
		return zero, errEmptyList("front")
	}
	return l.head.value, nil
}

func (l *singlyLinkedList[T]) Back() (T, error) {
	if l.len == 0 {
		var zero T
		return zero, errEmptyList("back")
	}
	return l.tail.value, nil
}

func (l *singlyLinkedList[T]) Get(idx int64) (T, error) {
	if idx < 0 || idx >= l.len {
		var zero T
		return zero, errIndexOutOfRange("get", idx, l.len-1)
	}
	return l.nodeAt(idx).value, nil
}

func (l *singlyLinkedList[T]) FindFirst(fn func(v T) bool) (int64, bool) {
	return findFirst(l.Traverse(), fn)
}

func (l *singlyLinkedList[T]) ToSlice() []T {
	return toSlice(l.Traverse(), l.len)
}

func (l *singlyLinkedList[T]) Clear() {
	for n := l.head; n != nil; {
		next := n.next
		n.release()
		n = next
	}
	l.head, l.tail = nil, nil
	l.len = 0
}

func (l *singlyLinkedList[T]) Validate() error {
	switch {
	case l.len < 0:
		return errBrokenInvariant("negative length %d", l.len)
	case l.len == 0:
		if l.head != nil || l.tail != nil {
			return errBrokenInvariant("empty list keeps head or tail")
		}
		return nil
	case l.head == nil || l.tail == nil:
		return errBrokenInvariant("length %d without head or tail", l.len)
	}

	n := l.head
	for i := int64(1); i < l.len; i++ {
		if n.next == nil {
			return errBrokenInvariant("chain ends after %d nodes, length %d", i, l.len)
		}
		n = n.next
	}
	if n != l.tail {
		return errBrokenInvariant("node at %d is not the tail", l.len-1)
	}
	if n.next != nil {
		return errBrokenInvariant("tail has a successor")
	}
	return nil
}
