package list

import "iter"

// Note that the singly linked list is not thread safe.
// A single owner mutates it; traversal must not overlap a mutation.

// NodeView is the read-only projection of a node produced by traversal.
type NodeView[T any] struct {
	Value  T
	IsHead bool
	IsTail bool
}

// SinglyLinkedList is an unordered sequence of opaque values
// linked from head to tail.
type SinglyLinkedList[T any] interface {
	Len() int64
	IsEmpty() bool
	// Append adds v after the current tail.
	Append(v T)
	// Prepend adds v before the current head.
	Prepend(v T)
	// Insert places v so that it becomes the element at position idx.
	// The valid range is [0, Len()], otherwise ErrIndexOutOfRange is
	// returned and the list is unchanged.
	Insert(idx int64, v T) error
	// Remove unlinks the element at position idx and returns its value.
	// The valid range is [0, Len()).
	Remove(idx int64) (T, error)
	// Pop unlinks the tail. It walks the whole chain to find the new tail.
	Pop() (T, error)
	// PopFirst unlinks the head.
	PopFirst() (T, error)
	// Traverse returns a lazy and restartable walk from head to tail.
	// Every call to the returned sequence observes the list as it is
	// at that moment.
	Traverse() iter.Seq2[int64, NodeView[T]]
	// Foreach traverses the list and executes function fn for each element.
	// If fn returns an error, the traversal stops and returns the error.
	Foreach(fn func(idx int64, v NodeView[T]) error) error
	Front() (T, error)
	Back() (T, error)
	Get(idx int64) (T, error)
	// FindFirst returns the index of the first value matched by fn.
	FindFirst(fn func(v T) bool) (int64, bool)
	ToSlice() []T
	// Clear releases all nodes.
	Clear()
	// Validate walks the chain and reports the first broken invariant.
	Validate() error
}
