package format

import "github.com/joshuapare/kheap/internal/buf"

// AlignUp returns n rounded up to the next multiple of Align.
// The caller guarantees n+AlignMask does not overflow; use AlignUpChecked
// for untrusted sizes.
//
// Example:
//
//	AlignUp(1)  = 16
//	AlignUp(16) = 16
//	AlignUp(17) = 32
func AlignUp(n uint64) uint64 {
	return (n + AlignMask) &^ AlignMask
}

// AlignUpChecked is AlignUp that reports overflow instead of wrapping.
func AlignUpChecked(n uint64) (uint64, bool) {
	sum, ok := buf.AddU64(n, AlignMask)
	if !ok {
		return 0, false
	}
	return sum &^ AlignMask, true
}

// AlignDown returns n rounded down to a multiple of Align.
func AlignDown(n uint64) uint64 {
	return n &^ AlignMask
}

// IsAligned reports whether n is a multiple of Align.
func IsAligned(n uint64) bool {
	return n&AlignMask == 0
}

// IsPowerOfTwo reports whether n is a non-zero power of two.
func IsPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// BlockSize returns the total block size for a payload of size bytes:
// the payload rounded up to Align, plus Overhead, rounded up to Align again.
// A zero payload is treated as one byte. ok is false when the arithmetic
// overflows.
//
// Example:
//
//	BlockSize(0)  = 48
//	BlockSize(16) = 48
//	BlockSize(32) = 64
//	BlockSize(100) = 144
func BlockSize(size uint64) (uint64, bool) {
	if size == 0 {
		size = 1
	}
	payload, ok := AlignUpChecked(size)
	if !ok {
		return 0, false
	}
	total, ok := buf.AddU64(payload, Overhead)
	if !ok {
		return 0, false
	}
	return AlignUpChecked(total)
}
