// Package shadow keeps an out-of-band index of live allocations so debug
// builds can catch what the in-place tags cannot: overlapping grants, double
// frees and frees of pointers the heap never handed out.
//
// The index lives on the Go heap, not in the managed region, and is therefore
// only usable where the Go runtime is available (tests, the heapctl tool,
// hosted builds).
package shadow

import (
	"errors"
	"fmt"

	"github.com/google/btree"

	"github.com/joshuapare/kheap/heap/region"
)

var (
	// ErrOverlap indicates a new allocation that intersects a live one.
	ErrOverlap = errors.New("shadow: allocation overlaps a live allocation")

	// ErrUnknown indicates a free of a pointer that is not live.
	ErrUnknown = errors.New("shadow: pointer is not a live allocation")
)

// Span is a live allocation [Start, Start+Size).
type Span struct {
	Start region.Addr
	Size  uint64
}

// End returns the first address past the span.
func (s Span) End() region.Addr { return s.Start + region.Addr(s.Size) }

func (s Span) overlaps(o Span) bool {
	return s.Start < o.End() && o.Start < s.End()
}

// Tracker indexes live spans by start address.
type Tracker struct {
	live *btree.BTreeG[Span]
}

// New returns an empty tracker.
func New() *Tracker {
	return &Tracker{
		live: btree.NewG[Span](16, func(a, b Span) bool { return a.Start < b.Start }),
	}
}

// Add records [start, start+size). A zero size is recorded as one byte so
// every live pointer occupies a distinct address.
func (t *Tracker) Add(start region.Addr, size uint64) error {
	if size == 0 {
		size = 1
	}
	s := Span{Start: start, Size: size}

	var clash *Span
	t.live.DescendLessOrEqual(s, func(prev Span) bool {
		if prev.overlaps(s) {
			clash = &prev
		}
		return false
	})
	if clash == nil {
		t.live.AscendGreaterOrEqual(s, func(next Span) bool {
			if next.overlaps(s) {
				clash = &next
			}
			return false
		})
	}
	if clash != nil {
		return fmt.Errorf("%w: [%s, %s) vs [%s, %s)", ErrOverlap, s.Start, s.End(), clash.Start, clash.End())
	}
	t.live.ReplaceOrInsert(s)
	return nil
}

// Remove forgets the span starting at start and returns it.
func (t *Tracker) Remove(start region.Addr) (Span, error) {
	s, ok := t.live.Delete(Span{Start: start})
	if !ok {
		return Span{}, fmt.Errorf("%w: %s", ErrUnknown, start)
	}
	return s, nil
}

// Lookup returns the live span starting at start.
func (t *Tracker) Lookup(start region.Addr) (Span, bool) {
	return t.live.Get(Span{Start: start})
}

// Len returns the number of live spans.
func (t *Tracker) Len() int { return t.live.Len() }

// Spans returns the live spans in address order.
func (t *Tracker) Spans() []Span {
	out := make([]Span, 0, t.live.Len())
	t.live.Ascend(func(s Span) bool {
		out = append(out, s)
		return true
	})
	return out
}
