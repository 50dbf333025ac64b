package freelist

import (
	"fmt"

	"github.com/joshuapare/kheap/heap/region"
	"github.com/joshuapare/kheap/internal/format"
)

// assertLive panics unless p is the payload of an allocated block.
func (fl *FreeList) assertLive(p region.Addr) {
	end := fl.start + region.Addr(fl.capacity)
	if p < fl.start+format.HeaderSize || p >= end {
		panic(fmt.Errorf("%w: free of %s outside heap [%s, %s)", ErrCorrupt, p, fl.start, end))
	}
	at := p - format.HeaderSize
	if !format.IsAligned(uint64(at - fl.start)) {
		panic(fmt.Errorf("%w: free of misaligned pointer %s", ErrCorrupt, p))
	}

	b := fl.block(at)
	size := b.size()
	if size < format.MinAllocBlock || !format.IsAligned(size) || size > uint64(end-at) {
		panic(fmt.Errorf("%w: block %s has impossible size %d", ErrCorrupt, at, size))
	}
	if footer := b.footer(); footer != size {
		panic(fmt.Errorf("%w: block %s header size %d != footer size %d", ErrCorrupt, at, size, footer))
	}

	for cur := fl.head; cur != format.NilLink && cur <= at; cur = fl.block(cur).next() {
		if cur == at {
			panic(fmt.Errorf("%w: double free of %s", ErrCorrupt, p))
		}
		if fl.block(cur).end() > at {
			panic(fmt.Errorf("%w: free of %s inside free block %s", ErrCorrupt, p, cur))
		}
	}
}
