package adapter

import (
	"fmt"

	"github.com/joshuapare/kheap/internal/logger"
)

// OOMError reports an allocation the heap could not satisfy.
type OOMError struct {
	Size  uint64
	Align uint64
	Err   error
}

func (e *OOMError) Error() string {
	return fmt.Sprintf("allocation error: size=%d align=%d: %v", e.Size, e.Align, e.Err)
}

func (e *OOMError) Unwrap() error { return e.Err }

// OOMHandler is invoked when an allocation fails. The kernel has no paging
// or swap to fall back on, so the standard handler never returns.
type OOMHandler func(*OOMError)

// Fatal logs the failed request and panics with it.
func Fatal(e *OOMError) {
	logger.L.Error("out of memory",
		"size", e.Size,
		"align", e.Align,
		"err", e.Err)
	panic(e)
}
