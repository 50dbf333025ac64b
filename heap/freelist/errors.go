package freelist

import "errors"

var (
	// ErrNoFit indicates that no free block is large enough for the request,
	// including requests larger than the whole heap.
	ErrNoFit = errors.New("freelist: no free block large enough")

	// ErrUnsupportedAlign indicates an alignment above format.Align or one
	// that is not a power of two.
	ErrUnsupportedAlign = errors.New("freelist: unsupported alignment")

	// ErrSizeOverflow indicates that computing the block size overflowed.
	ErrSizeOverflow = errors.New("freelist: block size overflows")

	// ErrRegionTooSmall indicates a region that cannot hold a single block
	// once aligned.
	ErrRegionTooSmall = errors.New("freelist: region too small for one block")

	// ErrCorrupt indicates a broken heap invariant: mismatched tags, a list
	// out of order, a double free or a pointer that was never allocated.
	ErrCorrupt = errors.New("freelist: heap corrupt")
)
