package adapter

import (
	"fmt"

	"github.com/joshuapare/kheap/heap/region"
	"github.com/joshuapare/kheap/internal/buf"
	"github.com/joshuapare/kheap/internal/format"
)

const wordBytes = format.WordSize

// Box allocates a word-sized cell on the heap and stores v in it.
// It returns 0 only when a non-fatal OOM handler returned.
func (a *Adapter) Box(v uint64) region.Addr {
	p := a.Alloc(wordBytes, wordBytes)
	if p == 0 {
		return 0
	}
	format.PutU64(a.Bytes(p, wordBytes), 0, v)
	return p
}

// Unbox reads the word stored by Box.
func (a *Adapter) Unbox(p region.Addr) uint64 {
	return format.ReadU64(a.Bytes(p, wordBytes), 0)
}

// Vec is a growable array of words living on the kernel heap. Growth
// reallocates to double the capacity, copies, and frees the old block.
type Vec struct {
	a    *Adapter
	data region.Addr
	len  uint64
	cap  uint64
}

// NewVec returns an empty vector; nothing is allocated until the first Push.
func NewVec(a *Adapter) *Vec {
	return &Vec{a: a}
}

// Push appends x. It reports false when growth failed and a non-fatal OOM
// handler returned; the vector is unchanged in that case.
func (v *Vec) Push(x uint64) bool {
	if v.len == v.cap && !v.grow() {
		return false
	}
	format.PutU64(v.a.Bytes(v.data+region.Addr(v.len*wordBytes), wordBytes), 0, x)
	v.len++
	return true
}

func (v *Vec) grow() bool {
	newCap := max(4, v.cap*2)
	size, ok := buf.MulU64(newCap, wordBytes)
	if !ok {
		v.a.onOOM(&OOMError{Size: newCap, Align: wordBytes, Err: fmt.Errorf("vec: capacity %d overflows", newCap)})
		return false
	}
	p := v.a.Alloc(size, wordBytes)
	if p == 0 {
		return false
	}
	if v.data != 0 {
		used := v.len * wordBytes
		copy(v.a.Bytes(p, used), v.a.Bytes(v.data, used))
		v.a.Free(v.data)
	}
	v.data = p
	v.cap = newCap
	return true
}

// Get returns element i.
func (v *Vec) Get(i uint64) uint64 {
	if i >= v.len {
		panic(fmt.Sprintf("vec: index %d out of range [0:%d]", i, v.len))
	}
	return format.ReadU64(v.a.Bytes(v.data+region.Addr(i*wordBytes), wordBytes), 0)
}

// Len returns the number of elements.
func (v *Vec) Len() uint64 { return v.len }

// Cap returns the allocated capacity in elements.
func (v *Vec) Cap() uint64 { return v.cap }

// Values copies the elements out.
func (v *Vec) Values() []uint64 {
	out := make([]uint64, v.len)
	for i := range out {
		out[i] = v.Get(uint64(i))
	}
	return out
}

// Release frees the backing block and empties the vector.
func (v *Vec) Release() {
	if v.data != 0 {
		v.a.Free(v.data)
	}
	*v = Vec{a: v.a}
}
