package freelist

import (
	"github.com/joshuapare/kheap/heap/region"
	"github.com/joshuapare/kheap/internal/format"
)

// Every search takes the total block size (tags included) and returns the
// chosen node and its list predecessor. A NilLink node means no fit; a NilLink
// predecessor means the node is the head.

// find dispatches to the configured strategy.
func (fl *FreeList) find(total uint64) (node, prev region.Addr) {
	if total > fl.capacity {
		return format.NilLink, format.NilLink
	}
	switch fl.strategy {
	case BestFit:
		return fl.findBestFit(total)
	case WorstFit:
		return fl.findWorstFit(total)
	case NextFit:
		return fl.findNextFit(total)
	default:
		return fl.findFirstFit(total)
	}
}

// findFirstFit returns the first node from the head with size >= total.
func (fl *FreeList) findFirstFit(total uint64) (node, prev region.Addr) {
	return fl.scan(fl.head, format.NilLink, format.NilLink, total)
}

// scan walks from cur (whose predecessor is prev) up to, but excluding, stop
// and returns the first node that fits.
func (fl *FreeList) scan(cur, prev, stop region.Addr, total uint64) (node, before region.Addr) {
	for cur != format.NilLink && cur != stop {
		b := fl.block(cur)
		if b.size() >= total {
			return cur, prev
		}
		prev = cur
		cur = b.next()
	}
	return format.NilLink, format.NilLink
}

// findBestFit returns the smallest node with size >= total. Ties go to the
// lowest address.
func (fl *FreeList) findBestFit(total uint64) (node, prev region.Addr) {
	var (
		best, bestPrev region.Addr
		bestSize       uint64
		before         region.Addr
	)
	for cur := fl.head; cur != format.NilLink; {
		b := fl.block(cur)
		size := b.size()
		if size >= total && (best == format.NilLink || size < bestSize) {
			best, bestPrev, bestSize = cur, before, size
			if size == total {
				// Nothing can beat an exact fit, and later ties lose anyway.
				break
			}
		}
		before = cur
		cur = b.next()
	}
	return best, bestPrev
}

// findWorstFit returns the largest node with size >= total. Ties go to the
// lowest address.
func (fl *FreeList) findWorstFit(total uint64) (node, prev region.Addr) {
	var (
		worst, worstPrev region.Addr
		worstSize        uint64
		before           region.Addr
	)
	for cur := fl.head; cur != format.NilLink; {
		b := fl.block(cur)
		size := b.size()
		if size >= total && (worst == format.NilLink || size > worstSize) {
			worst, worstPrev, worstSize = cur, before, size
		}
		before = cur
		cur = b.next()
	}
	return worst, worstPrev
}

// findNextFit scans from the cursor to the tail, then wraps once from the
// head back up to the cursor.
func (fl *FreeList) findNextFit(total uint64) (node, prev region.Addr) {
	cursor, cursorPrev, ok := fl.locateCursor()
	if !ok {
		fl.cursor = fl.head
		return fl.findFirstFit(total)
	}
	if node, prev = fl.scan(cursor, cursorPrev, format.NilLink, total); node != format.NilLink {
		return node, prev
	}
	return fl.scan(fl.head, format.NilLink, cursor, total)
}

// locateCursor finds the cursor's predecessor. ok is false when the cursor is
// not on the list.
func (fl *FreeList) locateCursor() (cursor, prev region.Addr, ok bool) {
	if fl.cursor == format.NilLink {
		return format.NilLink, format.NilLink, false
	}
	for cur := fl.head; cur != format.NilLink; {
		if cur == fl.cursor {
			return cur, prev, true
		}
		if cur > fl.cursor {
			break
		}
		prev = cur
		cur = fl.block(cur).next()
	}
	return format.NilLink, format.NilLink, false
}
