package list

import "iter"

func foreach[T any](seq iter.Seq2[int64, NodeView[T]], fn func(idx int64, v NodeView[T]) error) error {
	if fn == nil {
		return nil
	}
	for idx, v := range seq {
		if err := fn(idx, v); err != nil {
			return err
		}
	}
	return nil
}

func findFirst[T any](seq iter.Seq2[int64, NodeView[T]], fn func(v T) bool) (int64, bool) {
	if fn == nil {
		return -1, false
	}
	for idx, v := range seq {
		if fn(v.Value) {
			return idx, true
		}
	}
	return -1, false
}

func toSlice[T any](seq iter.Seq2[int64, NodeView[T]], size int64) []T {
	res := make([]T, 0, size)
	for _, v := range seq {
		res = append(res, v.Value)
	}
	return res
}
