// Package freelist implements the kernel heap: a boundary-tag allocator over a
// single fixed region, with the free blocks kept on an address-ordered, singly
// linked list threaded through their own headers.
//
// # Block Layout
//
// Every block, free or allocated, carries its total size twice: in a 16-byte
// header at its lowest address and in an 8-byte footer at its highest. Free
// blocks also use the second header word as the link to the next free block.
// See internal/format for the exact offsets.
//
//	+--------+--------+----------------------+--------+
//	|  size  |  next  |       payload        |  size  |
//	+--------+--------+----------------------+--------+
//	^ block            ^ returned pointer
//
// All sizes and block addresses are multiples of format.Align (16), so every
// payload is 16-byte aligned.
//
// # Usage
//
//	r, _ := region.New(0x280000, mem)
//	fl, err := freelist.Init(r, freelist.BestFit, nil)
//	if err != nil {
//	    return err
//	}
//
//	p, err := fl.Allocate(32, 8)
//	if errors.Is(err, freelist.ErrNoFit) {
//	    // out of memory
//	}
//	fl.Deallocate(p)
//
// # Placement Strategies
//
//   - FirstFit: first block from the head that fits; stops early.
//   - BestFit: smallest block that fits; full scan unless an exact fit turns up.
//   - WorstFit: largest block that fits; full scan.
//   - NextFit: FirstFit starting at a cursor left behind by the previous
//     allocation, wrapping once to the head.
//
// Ties between equal-size candidates always go to the lowest address.
//
// # Splitting
//
// A candidate is split when what is left after the request could still hold
// a block's tags (remainder >= format.Overhead, i.e. at least 32 bytes once
// aligned). The low part is handed out and the remainder takes the
// candidate's place in the list. Otherwise the whole candidate is handed out
// and the slack stays inside it.
//
// # Coalescing
//
// Deallocate inserts the block in address order, then merges forward with
// the next free block when they touch, and backward with the previous free
// block when they touch. The backward neighbour is found through the footer
// in front of the block and is only merged when it is the block's list
// predecessor, so an allocated neighbour is never absorbed.
//
// # Failure
//
// Allocate never panics on a bad request: unsupported alignment, size
// overflow and no fit all come back as errors and leave the heap untouched.
// Deallocate trusts its argument unless Options.Check (or KHEAP_CHECK) is set.
//
// # Thread Safety
//
// FreeList instances are not thread-safe. The kernel serialises access
// through heap/locked.
package freelist
