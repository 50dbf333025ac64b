package freelist

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/kheap/heap/region"
	"github.com/joshuapare/kheap/heap/verify"
)

const testBase region.Addr = 0x1000

// newList builds a checked free list over size bytes at testBase.
func newList(t *testing.T, size uint64, strategy Strategy) *FreeList {
	t.Helper()
	r, err := region.New(testBase, make([]byte, size))
	require.NoError(t, err)
	fl, err := Init(r, strategy, &Options{Check: true})
	require.NoError(t, err)
	return fl
}

func mustAlloc(t *testing.T, fl *FreeList, size, align uint64) region.Addr {
	t.Helper()
	p, err := fl.Allocate(size, align)
	require.NoError(t, err, "Allocate(%d, %d)", size, align)
	return p
}

func requireValid(t *testing.T, fl *FreeList) {
	t.Helper()
	require.NoError(t, verify.AllInvariants(fl))
}

func free(addr region.Addr, size uint64) BlockInfo {
	return BlockInfo{Addr: addr, Size: size, Free: true}
}

func used(addr region.Addr, size uint64) BlockInfo {
	return BlockInfo{Addr: addr, Size: size}
}

func requireBlocks(t *testing.T, fl *FreeList, want ...BlockInfo) {
	t.Helper()
	got, err := fl.Blocks()
	require.NoError(t, err)
	require.Equal(t, want, got)
	requireValid(t, fl)
}

func requireFreeList(t *testing.T, fl *FreeList, want ...BlockInfo) {
	t.Helper()
	if len(want) == 0 {
		require.Empty(t, fl.FreeBlocks())
		return
	}
	require.Equal(t, want, fl.FreeBlocks())
}

// requireCorruptPanic asserts that fn panics with an error wrapping ErrCorrupt.
func requireCorruptPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		v := recover()
		require.NotNil(t, v, "expected a panic")
		err, ok := v.(error)
		require.True(t, ok, "panic value %T is not an error", v)
		require.ErrorIs(t, err, ErrCorrupt)
	}()
	fn()
}
