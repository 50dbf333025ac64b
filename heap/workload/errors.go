package workload

import "errors"

var (
	// ErrSyntax indicates a trace line that is not a valid op.
	ErrSyntax = errors.New("workload: syntax error")

	// ErrUnknownName indicates a free of a name with no live allocation.
	ErrUnknownName = errors.New("workload: no live allocation with that name")

	// ErrDuplicateName indicates an alloc reusing a name that is still live.
	ErrDuplicateName = errors.New("workload: name already live")
)
