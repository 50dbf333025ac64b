package freelist

import (
	"fmt"
	"os"

	"github.com/joshuapare/kheap/heap/region"
	"github.com/joshuapare/kheap/internal/format"
	"github.com/joshuapare/kheap/internal/logger"
)

var (
	// logAlloc enables per-operation debug records (split, coalesce, no-fit).
	// Controlled by the KHEAP_LOG_ALLOC env var.
	logAlloc = os.Getenv("KHEAP_LOG_ALLOC") != ""

	// checkEnv turns on Options.Check for every FreeList. Controlled by the
	// KHEAP_CHECK env var.
	checkEnv = os.Getenv("KHEAP_CHECK") != ""
)

// Options tunes a FreeList. The zero value is the production configuration.
type Options struct {
	// Check enables debug-time assertions on Deallocate: the pointer must be
	// a live payload inside the heap, its tags must agree, and it must not
	// already be on the free list. A failed assertion panics with ErrCorrupt.
	Check bool
}

// DefaultOptions is used when Init receives nil.
var DefaultOptions = Options{}

// FreeList manages one heap region as an address-ordered, singly linked list
// of free blocks threaded through the blocks' own headers.
//
// Invariants, holding between any two calls:
//   - list nodes appear in strictly increasing address order;
//   - no two free blocks touch (they would have been coalesced);
//   - the blocks tile [Start, Start+Capacity) exactly;
//   - head is NilLink iff no free memory remains.
//
// A FreeList is not safe for concurrent use; see heap/locked.
type FreeList struct {
	r        *region.Region
	start    region.Addr
	capacity uint64
	strategy Strategy
	check    bool

	head   region.Addr
	cursor region.Addr
}

// Init lays a single free block over the usable part of r and returns the
// list managing it. The region start is rounded up to format.Align and the
// remaining length rounded down to a multiple of it; a result smaller than
// one block fails with ErrRegionTooSmall.
//
// Init may be called again on the same region; doing so is a full reset and
// invalidates every earlier allocation.
func Init(r *region.Region, strategy Strategy, opts *Options) (*FreeList, error) {
	if opts == nil {
		opts = &DefaultOptions
	}
	if !strategy.Valid() {
		return nil, fmt.Errorf("freelist: invalid strategy %d", uint8(strategy))
	}

	base := uint64(r.Base())
	start, ok := format.AlignUpChecked(base)
	if !ok {
		return nil, fmt.Errorf("%w: base %s cannot be aligned", ErrRegionTooSmall, r.Base())
	}
	loss := start - base
	if loss >= r.Len() {
		return nil, fmt.Errorf("%w: %d bytes lost to alignment of %d", ErrRegionTooSmall, loss, r.Len())
	}
	capacity := format.AlignDown(r.Len() - loss)
	if capacity < format.MinBlock {
		return nil, fmt.Errorf("%w: usable %d < %d", ErrRegionTooSmall, capacity, format.MinBlock)
	}

	fl := &FreeList{
		r:        r,
		start:    region.Addr(start),
		capacity: capacity,
		strategy: strategy,
		check:    opts.Check || checkEnv,
	}
	b := block{r: r, at: fl.start}
	b.writeTags(capacity)
	b.setNext(format.NilLink)
	fl.head = fl.start
	fl.cursor = fl.start

	logger.L.Debug("heap initialised",
		"start", fl.start,
		"capacity", capacity,
		"alignLoss", loss,
		"strategy", strategy.String())
	return fl, nil
}

// Region returns the managed region.
func (fl *FreeList) Region() *region.Region { return fl.r }

// Start returns the aligned start of the heap.
func (fl *FreeList) Start() region.Addr { return fl.start }

// Capacity returns the usable heap size fixed at Init.
func (fl *FreeList) Capacity() uint64 { return fl.capacity }

// Strategy returns the placement strategy.
func (fl *FreeList) Strategy() Strategy { return fl.strategy }

// Head returns the first free block, or NilLink when the heap is full.
func (fl *FreeList) Head() region.Addr { return fl.head }

// Cursor returns the node the next Next-Fit search starts from.
func (fl *FreeList) Cursor() region.Addr { return fl.cursor }

func (fl *FreeList) block(at region.Addr) block {
	return block{r: fl.r, at: at}
}

// link makes n the successor of prev, or the head when prev is NilLink.
func (fl *FreeList) link(prev, n region.Addr) {
	if prev == format.NilLink {
		fl.head = n
		return
	}
	fl.block(prev).setNext(n)
}

// BlockInfo describes one block.
type BlockInfo struct {
	Addr region.Addr `json:"addr"`
	Size uint64      `json:"size"`
	Free bool        `json:"free"`
}

// Payload returns the first payload byte of the block.
func (b BlockInfo) Payload() region.Addr { return b.Addr + format.HeaderSize }

// End returns the first address past the block.
func (b BlockInfo) End() region.Addr { return b.Addr + region.Addr(b.Size) }

// FreeBlocks returns the free list in list order.
func (fl *FreeList) FreeBlocks() []BlockInfo {
	var out []BlockInfo
	for cur := fl.head; cur != format.NilLink; {
		b := fl.block(cur)
		out = append(out, BlockInfo{Addr: cur, Size: b.size(), Free: true})
		cur = b.next()
	}
	return out
}

// FreeBytes returns the total size of all free blocks, tags included.
func (fl *FreeList) FreeBytes() uint64 {
	var total uint64
	for cur := fl.head; cur != format.NilLink; {
		b := fl.block(cur)
		total += b.size()
		cur = b.next()
	}
	return total
}

// Walk visits every block, free or allocated, in address order until fn
// returns false. It stops with ErrCorrupt on a size that cannot be a block.
func (fl *FreeList) Walk(fn func(BlockInfo) bool) error {
	end := fl.start + region.Addr(fl.capacity)
	nextFree := fl.head
	for at := fl.start; at < end; {
		size := fl.block(at).size()
		if size < format.MinBlock || !format.IsAligned(size) || size > uint64(end-at) {
			return fmt.Errorf("%w: block %s has size %d", ErrCorrupt, at, size)
		}
		free := at == nextFree
		if free {
			nextFree = fl.block(at).next()
		}
		if !fn(BlockInfo{Addr: at, Size: size, Free: free}) {
			return nil
		}
		at += region.Addr(size)
	}
	return nil
}

// Blocks returns every block in address order.
func (fl *FreeList) Blocks() ([]BlockInfo, error) {
	var out []BlockInfo
	err := fl.Walk(func(b BlockInfo) bool {
		out = append(out, b)
		return true
	})
	return out, err
}
