package list

type node[T any] struct {
	next  *node[T]
	value T // The type of value may be a small size type.
	// It should be placed at the end of the struct to avoid taking too much padding.
}

func newNode[T any](v T) *node[T] {
	return &node[T]{value: v}
}

// release severs the successor and drops the value reference,
// then returns the value it held.
func (n *node[T]) release() T {
	v := n.value
	var zero T
	n.value = zero
	n.next = nil
	return v
}
