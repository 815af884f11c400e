package list

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/benz9527/dsvisual/lib/infra"
)

type ListErr string

const (
	ErrIndexOutOfRange ListErr = "index out of range"
	ErrEmptyList       ListErr = "empty list"
	ErrBrokenInvariant ListErr = "broken invariant"
)

func (err ListErr) Error() string {
	return string(err)
}

func errIndexOutOfRange(op string, idx, upper int64) error {
	return infra.WrapErrorStackWithMessage(
		ErrIndexOutOfRange,
		fmt.Sprintf("[singly-linked-list] %s at %d, valid range [0, %d]", op, idx, upper),
	)
}

func errEmptyList(op string) error {
	return infra.WrapErrorStackWithMessage(ErrEmptyList, "[singly-linked-list] "+op)
}

// Removing by index from an empty list is both an index error and an
// empty list error.
func errRemoveFromEmpty(idx int64) error {
	return infra.WrapErrorStackWithMessage(
		multierr.Combine(ErrIndexOutOfRange, ErrEmptyList),
		fmt.Sprintf("[singly-linked-list] remove at %d", idx),
	)
}

func errBrokenInvariant(format string, args ...any) error {
	return infra.WrapErrorStackWithMessage(
		ErrBrokenInvariant,
		"[singly-linked-list] "+fmt.Sprintf(format, args...),
	)
}
