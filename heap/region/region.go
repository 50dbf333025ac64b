// Package region is the single boundary between the heap's bookkeeping and the
// memory it manages. A Region is a contiguous span of writable bytes together
// with the address that span occupies; every header and footer read or write
// in the heap goes through Word and SetWord, which assert range and alignment
// on every call.
//
// Three sources are supported:
//
//   - New: caller-supplied bytes standing in for a fixed physical span (the
//     address is nominal, e.g. 0x280000).
//   - FromBytes: caller-supplied bytes addressed by their real location.
//   - Map: anonymous memory from the operating system at its real location.
package region

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/kheap/internal/buf"
	"github.com/joshuapare/kheap/internal/format"
	"github.com/joshuapare/kheap/internal/mmap"
)

// Addr is an address in the region's address space.
type Addr uint64

// String renders the address in hex, the way kernel diagnostics print them.
func (a Addr) String() string {
	return fmt.Sprintf("%#x", uint64(a))
}

// Region is a contiguous span [Base, Base+Len) of writable memory.
// A Region must not be copied after first use.
type Region struct {
	base    Addr
	mem     []byte
	release func() error
}

// New wraps mem as the span starting at base.
func New(base Addr, mem []byte) (*Region, error) {
	if base == 0 {
		return nil, ErrNullBase
	}
	if _, ok := buf.AddU64(uint64(base), uint64(len(mem))); !ok {
		return nil, fmt.Errorf("%w: base=%s len=%d", ErrWrap, base, len(mem))
	}
	return &Region{base: base, mem: mem}, nil
}

// FromBytes wraps mem at its real address. mem must stay reachable and must
// not be resliced by the caller while the region is in use.
func FromBytes(mem []byte) (*Region, error) {
	if len(mem) == 0 {
		return nil, fmt.Errorf("%w: empty span", ErrOutOfRange)
	}
	return New(Addr(uintptr(unsafe.Pointer(&mem[0]))), mem)
}

// Map obtains size bytes of anonymous memory and wraps it at its real address.
// Close releases the mapping.
func Map(size int) (*Region, error) {
	mem, cleanup, err := mmap.Anonymous(size)
	if err != nil {
		return nil, err
	}
	r, err := FromBytes(mem)
	if err != nil {
		_ = cleanup()
		return nil, err
	}
	r.release = cleanup
	return r, nil
}

// Base returns the first address of the region.
func (r *Region) Base() Addr { return r.base }

// Len returns the region length in bytes.
func (r *Region) Len() uint64 { return uint64(len(r.mem)) }

// End returns the first address past the region.
func (r *Region) End() Addr { return r.base + Addr(len(r.mem)) }

// Contains reports whether [a, a+n) lies inside the region.
func (r *Region) Contains(a Addr, n uint64) bool {
	if a < r.base {
		return false
	}
	end, ok := buf.AddU64(uint64(a), n)
	return ok && end <= uint64(r.End())
}

// offset translates a to an index into mem, asserting that n bytes fit.
func (r *Region) offset(a Addr, n uint64) int {
	if !r.Contains(a, n) {
		panic(fmt.Errorf("%w: [%s, +%d) not in [%s, %s)", ErrOutOfRange, a, n, r.base, r.End()))
	}
	return int(a - r.base)
}

// Word reads the tag word at a.
func (r *Region) Word(a Addr) uint64 {
	if a%format.WordSize != 0 {
		panic(fmt.Errorf("%w: read at %s", ErrMisaligned, a))
	}
	return format.ReadU64(r.mem, r.offset(a, format.WordSize))
}

// SetWord writes the tag word at a.
func (r *Region) SetWord(a Addr, v uint64) {
	if a%format.WordSize != 0 {
		panic(fmt.Errorf("%w: write at %s", ErrMisaligned, a))
	}
	format.PutU64(r.mem, r.offset(a, format.WordSize), v)
}

// Bytes returns the n bytes at a as a slice aliasing the region.
func (r *Region) Bytes(a Addr, n uint64) []byte {
	if !r.Contains(a, n) {
		panic(fmt.Errorf("%w: [%s, +%d)", ErrOutOfRange, a, n))
	}
	b, _ := buf.Slice(r.mem, int(a-r.base), int(n))
	return b
}

// Close releases memory obtained by Map. It is a no-op for other regions.
func (r *Region) Close() error {
	if r.release == nil {
		return nil
	}
	err := r.release()
	r.release = nil
	r.mem = nil
	return err
}
