// Package format describes the in-place layout of heap blocks: the header and
// footer ("boundary tags") written into the managed memory itself, the fixed
// alignment every block obeys, and the arithmetic that turns a payload request
// into a block size. Nothing here touches memory directly; heap/region owns
// the bytes.
package format

// Word layout.
//
//	header (16 bytes, lowest address of the block)
//	  0x00  size  u64  total block size, header and footer included
//	  0x08  next  u64  address of the next free block, NilLink for none
//	payload
//	footer (8 bytes, highest address of the block)
//	  0x00  size  u64  copy of the header size
const (
	// WordSize is the width of every tag field.
	WordSize = 8

	// HeaderSizeOffset is the offset of the size word inside a header.
	HeaderSizeOffset = 0x00

	// HeaderNextOffset is the offset of the free-list link inside a header.
	// The word is only meaningful while the block is free.
	HeaderNextOffset = 0x08

	// HeaderSize is the number of bytes in front of every payload.
	HeaderSize = 2 * WordSize

	// FooterSize is the number of bytes after every payload.
	FooterSize = WordSize

	// Overhead is the bookkeeping cost of one block.
	Overhead = HeaderSize + FooterSize
)

// Alignment.
const (
	// Align is the fixed alignment of every block start, block size and
	// payload address. Requests for a stricter alignment are refused.
	Align = 16

	// AlignMask is Align-1, for masking.
	AlignMask = Align - 1
)

const (
	// MinBlock is the smallest legal block: room for both tags, rounded to
	// Align. Split remainders are never smaller than this.
	MinBlock = (Overhead + AlignMask) &^ AlignMask

	// MinAllocBlock is the size of the block produced for a 1-byte payload.
	MinAllocBlock = ((1+AlignMask)&^AlignMask + Overhead + AlignMask) &^ AlignMask

	// NilLink marks the end of the free list.
	NilLink = 0
)
