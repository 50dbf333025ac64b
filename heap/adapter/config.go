package adapter

import (
	"os"

	"github.com/joshuapare/kheap/heap/freelist"
	"github.com/joshuapare/kheap/heap/locked"
	"github.com/joshuapare/kheap/heap/region"
)

// Kernel memory map defaults.
const (
	// KernelStart is where the boot stub loads the kernel image.
	KernelStart region.Addr = 0x80000

	// HeapStart sits 2MB above the kernel stack top.
	HeapStart region.Addr = KernelStart + 0x200000

	// HeapSize is the size of the kernel heap.
	HeapSize uint64 = 0x200000
)

// Config describes the heap handed to Init.
type Config struct {
	// Region, when set, is used as-is and Start/Size are ignored.
	Region *region.Region

	// Start is the address the heap occupies. Zero maps fresh anonymous
	// memory of Size bytes and uses its real address.
	Start region.Addr

	// Size is the heap length in bytes.
	Size uint64

	// Strategy is the placement strategy, fixed for the heap's lifetime.
	Strategy freelist.Strategy

	// Guard serialises access. Nil means the single-core NoGuard.
	Guard locked.Guard

	// Check enables freelist debug assertions.
	Check bool

	// Shadow tracks live allocations out of band to catch overlaps,
	// double frees and forged pointers.
	Shadow bool

	// OnOOM is called when an allocation cannot be satisfied. Nil means Fatal.
	OnOOM OOMHandler
}

// DefaultConfig returns the kernel's standard heap: 2MB at HeapStart, best fit.
// KHEAP_STRATEGY overrides the strategy when it names a valid one.
func DefaultConfig() Config {
	cfg := Config{
		Start:    HeapStart,
		Size:     HeapSize,
		Strategy: freelist.BestFit,
	}
	if name := os.Getenv("KHEAP_STRATEGY"); name != "" {
		if s, err := freelist.ParseStrategy(name); err == nil {
			cfg.Strategy = s
		}
	}
	return cfg
}

// buildRegion resolves the region a Config describes. The returned bool
// reports whether the adapter owns the region and must close it.
func (c Config) buildRegion() (*region.Region, bool, error) {
	if c.Region != nil {
		return c.Region, false, nil
	}
	if c.Start == 0 {
		r, err := region.Map(int(c.Size))
		return r, true, err
	}
	r, err := region.New(c.Start, make([]byte, c.Size))
	return r, false, err
}
