package freelist

import (
	"fmt"

	"github.com/joshuapare/kheap/heap/region"
	"github.com/joshuapare/kheap/internal/format"
	"github.com/joshuapare/kheap/internal/logger"
)

// Allocate reserves a block whose payload holds at least size bytes aligned
// to align, and returns the payload address. A zero size is served as one
// byte; a zero align as one.
//
// Failures wrap ErrUnsupportedAlign, ErrSizeOverflow or ErrNoFit. A failed
// call leaves the heap untouched.
func (fl *FreeList) Allocate(size, align uint64) (region.Addr, error) {
	if align == 0 {
		align = 1
	}
	if align > format.Align || !format.IsPowerOfTwo(align) {
		return 0, fmt.Errorf("%w: align=%d (max %d)", ErrUnsupportedAlign, align, format.Align)
	}
	total, ok := format.BlockSize(size)
	if !ok {
		return 0, fmt.Errorf("%w: size=%d", ErrSizeOverflow, size)
	}
	if total > fl.capacity {
		return 0, fmt.Errorf("%w: need=%d capacity=%d", ErrNoFit, total, fl.capacity)
	}

	node, prev := fl.find(total)
	if node == format.NilLink {
		if logAlloc {
			logger.L.Debug("no fit",
				"size", size,
				"need", total,
				"free", fl.FreeBytes(),
				"strategy", fl.strategy.String())
		}
		return 0, fmt.Errorf("%w: need=%d strategy=%s", ErrNoFit, total, fl.strategy)
	}

	b := fl.block(node)
	have := b.size()
	succ := b.next()

	// follow is the free node right after the consumed region; Next-Fit
	// resumes there.
	var follow region.Addr
	if have-total >= format.Overhead {
		// Split: the low part is handed out, the high remainder takes the
		// node's place in the list.
		rest := fl.block(node + region.Addr(total))
		rest.writeTags(have - total)
		rest.setNext(succ)
		fl.link(prev, rest.at)
		b.writeTags(total)
		follow = rest.at

		if logAlloc {
			logger.L.Debug("split", "block", node, "need", total, "rest", have-total)
		}
	} else {
		// Consume the whole block; the slack is internal fragmentation.
		fl.link(prev, succ)
		b.writeTags(have)
		follow = succ
	}
	b.setNext(format.NilLink)

	if follow == format.NilLink {
		follow = fl.head
	}
	fl.cursor = follow

	return b.payload(), nil
}

// Deallocate returns the block whose payload starts at p to the free list and
// merges it with free neighbours on either side. p must have come from
// Allocate on this list and must not have been freed since; with
// Options.Check a violation panics with ErrCorrupt, otherwise the behaviour
// is undefined.
func (fl *FreeList) Deallocate(p region.Addr) {
	if fl.check {
		fl.assertLive(p)
	}
	b := headerOf(fl.r, p)

	// Address-ordered insertion before the first node above b.
	var prev region.Addr
	cur := fl.head
	for cur != format.NilLink && cur < b.at {
		prev = cur
		cur = fl.block(cur).next()
	}
	b.setNext(cur)
	fl.link(prev, b.at)

	// Forward: absorb the successor when it starts where b ends.
	if cur != format.NilLink && b.end() == cur {
		next := fl.block(cur)
		b.setNext(next.next())
		b.writeTags(b.size() + next.size())
		if logAlloc {
			logger.L.Debug("coalesce forward", "block", b.at, "absorbed", cur, "size", b.size())
		}
	}

	// Backward: the footer below b names the size of the block in front of
	// it. That block is only merged when it is b's list predecessor, i.e. a
	// genuinely free block, and ends exactly at b.
	if b.at > fl.start && prev != format.NilLink {
		below := fl.r.Word(b.at - format.FooterSize)
		if below <= uint64(b.at-fl.start) && b.at-region.Addr(below) == prev {
			pb := fl.block(prev)
			if pb.end() == b.at {
				pb.setNext(b.next())
				pb.writeTags(pb.size() + b.size())
				if logAlloc {
					logger.L.Debug("coalesce backward", "block", prev, "absorbed", b.at, "size", pb.size())
				}
			}
		}
	}

	fl.cursor = fl.head
}
