//go:build !unix

package mmap

import "fmt"

// Anonymous falls back to Go-managed memory when mmap is not available.
// The slice is never moved by the collector, so its address is stable for
// the lifetime of the returned cleanup.
func Anonymous(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("mmap: invalid size %d", size)
	}
	data := make([]byte, size)
	return data, func() error { return nil }, nil
}
