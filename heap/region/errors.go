package region

import "errors"

var (
	// ErrOutOfRange indicates an access that falls outside the region.
	ErrOutOfRange = errors.New("region: address out of range")

	// ErrMisaligned indicates a tag access at an address that is not word aligned.
	ErrMisaligned = errors.New("region: misaligned tag access")

	// ErrNullBase indicates a region that starts at address zero, which collides
	// with the free-list terminator.
	ErrNullBase = errors.New("region: base address must be non-zero")

	// ErrWrap indicates a region whose end wraps past the top of the address space.
	ErrWrap = errors.New("region: end address wraps")
)
