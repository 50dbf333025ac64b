package adapter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/kheap/heap/freelist"
	"github.com/joshuapare/kheap/heap/region"
)

func resetGlobal(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		if global != nil {
			_ = global.Close()
		}
		global = nil
	})
}

func TestGlobal_BeforeInitPanics(t *testing.T) {
	resetGlobal(t)
	global = nil
	require.Panics(t, func() { Global() })
}

func TestGlobal_InitAndUse(t *testing.T) {
	resetGlobal(t)

	a := Init(Config{Start: 0x1000, Size: 256, Strategy: freelist.FirstFit})
	require.Same(t, a, Global())

	p := Alloc(32, 8)
	require.Equal(t, region.Addr(0x1010), p)
	Free(p)
}

func TestGlobal_ReinitIsFullReset(t *testing.T) {
	resetGlobal(t)

	Init(Config{Start: 0x1000, Size: 256})
	Alloc(32, 8)

	b := Init(Config{Start: 0x2000, Size: 512})
	require.Same(t, b, Global())

	blocks, err := b.Layout()
	require.NoError(t, err)
	require.Equal(t, []freelist.BlockInfo{{Addr: 0x2000, Size: 512, Free: true}}, blocks)
}

func TestGlobal_InitTooSmallPanics(t *testing.T) {
	resetGlobal(t)
	require.Panics(t, func() { Init(Config{Start: 0x1000, Size: 8}) })
}
