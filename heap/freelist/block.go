package freelist

import (
	"github.com/joshuapare/kheap/heap/region"
	"github.com/joshuapare/kheap/internal/format"
)

// block is a typed view of the tags of the block starting at at.
// All reads and writes go through the region's asserted accessors.
type block struct {
	r  *region.Region
	at region.Addr
}

func (b block) size() uint64 {
	return b.r.Word(b.at + format.HeaderSizeOffset)
}

func (b block) next() region.Addr {
	return region.Addr(b.r.Word(b.at + format.HeaderNextOffset))
}

func (b block) setNext(n region.Addr) {
	b.r.SetWord(b.at+format.HeaderNextOffset, uint64(n))
}

func (b block) end() region.Addr {
	return b.at + region.Addr(b.size())
}

func (b block) footer() uint64 {
	return b.r.Word(b.end() - format.FooterSize)
}

func (b block) payload() region.Addr {
	return b.at + format.HeaderSize
}

// writeTags sets both boundary tags to size.
func (b block) writeTags(size uint64) {
	b.r.SetWord(b.at+format.HeaderSizeOffset, size)
	b.r.SetWord(b.at+region.Addr(size)-format.FooterSize, size)
}

// headerOf returns the block whose payload starts at p.
func headerOf(r *region.Region, p region.Addr) block {
	return block{r: r, at: p - format.HeaderSize}
}
