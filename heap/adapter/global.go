package adapter

import (
	"fmt"

	"github.com/joshuapare/kheap/heap/region"
)

// global is the kernel's one allocator. It is written only by Init.
var global *Adapter

// Init creates the process-wide adapter. It must run once, before the first
// allocation. Calling it again is a full reset: the old heap is dropped and
// every pointer it handed out becomes invalid. A heap that cannot hold a
// single block is a fatal misconfiguration and panics.
func Init(cfg Config) *Adapter {
	a, err := New(cfg)
	if err != nil {
		panic(fmt.Errorf("heap init: %w", err))
	}
	if global != nil {
		logReset(global, a)
		_ = global.Close()
	}
	global = a
	return a
}

// Global returns the adapter created by Init. It panics before Init.
func Global() *Adapter {
	if global == nil {
		panic("adapter: heap used before Init")
	}
	return global
}

// Alloc allocates from the global adapter.
func Alloc(size, align uint64) region.Addr { return Global().Alloc(size, align) }

// Free releases p to the global adapter.
func Free(p region.Addr) { Global().Free(p) }
