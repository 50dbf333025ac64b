// Package adapter is the kernel's allocator entry point. It turns the
// runtime's "N bytes aligned to A" and "release this pointer" requests into
// free-list operations and makes failure fatal.
//
// Exactly one Adapter serves the kernel. It is created by Init at start-up,
// before any allocation, and reached through Global afterwards.
package adapter

import (
	"errors"
	"fmt"

	"github.com/joshuapare/kheap/heap/freelist"
	"github.com/joshuapare/kheap/heap/locked"
	"github.com/joshuapare/kheap/heap/region"
	"github.com/joshuapare/kheap/heap/shadow"
	"github.com/joshuapare/kheap/internal/logger"
)

// Adapter serves allocation requests from one heap.
type Adapter struct {
	heap   *locked.Locked[freelist.FreeList]
	region *region.Region
	owned  bool
	shadow *shadow.Tracker
	onOOM  OOMHandler
}

// New builds an adapter over the heap cfg describes.
func New(cfg Config) (*Adapter, error) {
	r, owned, err := cfg.buildRegion()
	if err != nil {
		return nil, fmt.Errorf("adapter: heap region: %w", err)
	}
	fl, err := freelist.Init(r, cfg.Strategy, &freelist.Options{Check: cfg.Check})
	if err != nil {
		if owned {
			_ = r.Close()
		}
		return nil, fmt.Errorf("adapter: %w", err)
	}

	a := &Adapter{
		heap:   locked.New(fl, cfg.Guard),
		region: r,
		owned:  owned,
		onOOM:  cfg.OnOOM,
	}
	if a.onOOM == nil {
		a.onOOM = Fatal
	}
	if cfg.Shadow {
		a.shadow = shadow.New()
	}
	return a, nil
}

// TryAlloc allocates size bytes aligned to align and reports failure as an
// error instead of escalating it.
func (a *Adapter) TryAlloc(size, align uint64) (region.Addr, error) {
	fl, release := a.heap.Lock()
	p, err := fl.Allocate(size, align)
	release()
	if err != nil {
		return 0, err
	}
	if a.shadow != nil {
		if serr := a.shadow.Add(p, size); serr != nil {
			panic(fmt.Errorf("%w: %w", freelist.ErrCorrupt, serr))
		}
	}
	return p, nil
}

// Alloc allocates size bytes aligned to align. On failure it hands an
// *OOMError to the configured handler and returns 0 if the handler returns.
func (a *Adapter) Alloc(size, align uint64) region.Addr {
	p, err := a.TryAlloc(size, align)
	if err != nil {
		a.onOOM(&OOMError{Size: size, Align: align, Err: err})
		return 0
	}
	return p
}

// Free releases p, which must have come from this adapter and not been freed
// since. Only the shadow tracker, when enabled, checks that.
func (a *Adapter) Free(p region.Addr) {
	if a.shadow != nil {
		if _, err := a.shadow.Remove(p); err != nil {
			panic(fmt.Errorf("%w: %w", freelist.ErrCorrupt, err))
		}
	}
	fl, release := a.heap.Lock()
	defer release()
	fl.Deallocate(p)
}

// Bytes returns the n bytes at p as a slice aliasing heap memory.
func (a *Adapter) Bytes(p region.Addr, n uint64) []byte {
	return a.region.Bytes(p, n)
}

// Layout returns every heap block in address order.
func (a *Adapter) Layout() ([]freelist.BlockInfo, error) {
	fl, release := a.heap.Lock()
	defer release()
	return fl.Blocks()
}

// Inspect runs fn with the free list held. fn must not allocate or free.
func (a *Adapter) Inspect(fn func(*freelist.FreeList)) {
	a.heap.With(fn)
}

// Close releases a region the adapter mapped itself.
func (a *Adapter) Close() error {
	if !a.owned {
		return nil
	}
	return a.region.Close()
}

// IsOOM reports whether err is an allocation failure of any kind.
func IsOOM(err error) bool {
	return errors.Is(err, freelist.ErrNoFit) ||
		errors.Is(err, freelist.ErrUnsupportedAlign) ||
		errors.Is(err, freelist.ErrSizeOverflow)
}

// logReset notes that a heap is being replaced.
func logReset(old, next *Adapter) {
	logger.L.Warn("heap re-initialised; earlier allocations are invalid",
		"oldStart", old.region.Base(),
		"newStart", next.region.Base())
}
