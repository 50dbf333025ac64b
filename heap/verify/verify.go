// Package verify provides validation functions for heap structures.
// These helpers walk the raw tags independently of the allocator's own
// traversal, so they can be used in tests and debug builds to confirm that
// heap invariants are maintained.
package verify

import (
	"fmt"

	"github.com/joshuapare/kheap/heap/region"
	"github.com/joshuapare/kheap/internal/format"
)

// Heap is the view of an allocator the checks need.
type Heap interface {
	Region() *region.Region
	Start() region.Addr
	Capacity() uint64
	Head() region.Addr
}

// ValidationError describes the first invariant found broken.
type ValidationError struct {
	Type    string
	Message string
	Offset  int64 // offset from the heap start, -1 when not tied to a block
	Details map[string]any
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates all heap invariants in one call.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(h Heap) error {
	if err := BlockTags(h); err != nil {
		return err
	}
	if err := FreeListOrder(h); err != nil {
		return err
	}
	if err := Coverage(h); err != nil {
		return err
	}
	return nil
}

func offsetOf(h Heap, a region.Addr) int64 {
	return int64(a - h.Start())
}

// readSize reads the header size of the block at a, or reports why it can't.
func readSize(h Heap, a region.Addr) (uint64, bool) {
	r := h.Region()
	if !r.Contains(a, format.HeaderSize) || a%format.WordSize != 0 {
		return 0, false
	}
	return r.Word(a + format.HeaderSizeOffset), true
}

// BlockTags walks every block from the heap start and checks that each one
// is aligned, at least format.MinBlock long, inside the heap, and that its
// header and footer agree.
func BlockTags(h Heap) error {
	r := h.Region()
	end := h.Start() + region.Addr(h.Capacity())

	for at := h.Start(); at < end; {
		size, ok := readSize(h, at)
		if !ok {
			return &ValidationError{
				Type:    "BlockTags",
				Message: "header outside region",
				Offset:  offsetOf(h, at),
			}
		}
		if size < format.MinBlock || !format.IsAligned(size) {
			return &ValidationError{
				Type:    "BlockTags",
				Message: fmt.Sprintf("invalid block size %d (must be >= %d and %d-aligned)", size, format.MinBlock, format.Align),
				Offset:  offsetOf(h, at),
			}
		}
		if size > uint64(end-at) {
			return &ValidationError{
				Type:    "BlockTags",
				Message: fmt.Sprintf("block extends beyond heap: size=%d, available=%d", size, end-at),
				Offset:  offsetOf(h, at),
			}
		}
		footer := r.Word(at + region.Addr(size) - format.FooterSize)
		if footer != size {
			return &ValidationError{
				Type:    "BlockTags",
				Message: fmt.Sprintf("header/footer mismatch: header=%d footer=%d", size, footer),
				Offset:  offsetOf(h, at),
				Details: map[string]any{"header": size, "footer": footer},
			}
		}
		at += region.Addr(size)
	}
	return nil
}

// FreeListOrder checks that the free list is strictly address-ordered, stays
// inside the heap, and never holds two blocks that touch.
func FreeListOrder(h Heap) error {
	r := h.Region()
	end := h.Start() + region.Addr(h.Capacity())
	limit := h.Capacity()/format.MinBlock + 1

	var prevEnd region.Addr
	var steps uint64
	for cur := h.Head(); cur != format.NilLink; steps++ {
		if steps > limit {
			return &ValidationError{
				Type:    "FreeListOrder",
				Message: fmt.Sprintf("list longer than %d nodes (cycle?)", limit),
				Offset:  -1,
			}
		}
		if cur < h.Start() || cur >= end || !format.IsAligned(uint64(cur-h.Start())) {
			return &ValidationError{
				Type:    "FreeListOrder",
				Message: fmt.Sprintf("node %s outside heap or misaligned", cur),
				Offset:  -1,
			}
		}
		if prevEnd != 0 {
			if cur < prevEnd {
				return &ValidationError{
					Type:    "FreeListOrder",
					Message: fmt.Sprintf("node %s precedes end of previous node %s", cur, prevEnd),
					Offset:  offsetOf(h, cur),
				}
			}
			if cur == prevEnd {
				return &ValidationError{
					Type:    "FreeListOrder",
					Message: fmt.Sprintf("node %s touches previous free block (missed coalesce)", cur),
					Offset:  offsetOf(h, cur),
				}
			}
		}
		size := r.Word(cur + format.HeaderSizeOffset)
		if size < format.MinBlock || size > uint64(end-cur) {
			return &ValidationError{
				Type:    "FreeListOrder",
				Message: fmt.Sprintf("free node has invalid size %d", size),
				Offset:  offsetOf(h, cur),
			}
		}
		prevEnd = cur + region.Addr(size)
		cur = region.Addr(r.Word(cur + format.HeaderNextOffset))
	}
	return nil
}

// Coverage checks that the blocks tile the heap exactly: their sizes sum to
// the capacity and every free-list node sits on a block boundary.
func Coverage(h Heap) error {
	r := h.Region()
	end := h.Start() + region.Addr(h.Capacity())

	boundaries := make(map[region.Addr]struct{})
	var total uint64
	at := h.Start()
	for at < end {
		size, ok := readSize(h, at)
		if !ok || size < format.MinBlock || size > uint64(end-at) {
			return &ValidationError{
				Type:    "Coverage",
				Message: "walk stopped on an invalid block",
				Offset:  offsetOf(h, at),
			}
		}
		boundaries[at] = struct{}{}
		total += size
		at += region.Addr(size)
	}
	if total != h.Capacity() || at != end {
		return &ValidationError{
			Type:    "Coverage",
			Message: fmt.Sprintf("blocks cover %d bytes, heap capacity is %d", total, h.Capacity()),
			Offset:  -1,
			Details: map[string]any{"covered": total, "capacity": h.Capacity()},
		}
	}

	limit := h.Capacity()/format.MinBlock + 1
	var steps uint64
	for cur := h.Head(); cur != format.NilLink && steps <= limit; steps++ {
		if _, ok := boundaries[cur]; !ok {
			return &ValidationError{
				Type:    "Coverage",
				Message: fmt.Sprintf("free node %s is not a block boundary", cur),
				Offset:  -1,
			}
		}
		cur = region.Addr(r.Word(cur + format.HeaderNextOffset))
	}
	return nil
}
