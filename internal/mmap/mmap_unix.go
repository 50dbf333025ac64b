//go:build unix

// Package mmap obtains anonymous, private, read-write memory straight from the
// operating system so a heap region can sit at a real address outside the Go
// heap.
package mmap

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Anonymous maps size bytes of zeroed memory, rounded up to the page size.
// The returned cleanup unmaps it; calling cleanup twice is a no-op.
func Anonymous(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("mmap: invalid size %d", size)
	}
	page := unix.Getpagesize()
	if size > int(^uint(0)>>1)-page {
		return nil, nil, fmt.Errorf("mmap: size too large to map (%d bytes)", size)
	}
	length := (size + page - 1) &^ (page - 1)

	data, err := unix.Mmap(-1, 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap: %w", err)
	}
	cleanup := func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		data = nil
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
	return data[:size], cleanup, nil
}
