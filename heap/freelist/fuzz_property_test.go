package freelist

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/kheap/heap/region"
	"github.com/joshuapare/kheap/heap/shadow"
	"github.com/joshuapare/kheap/heap/verify"
	"github.com/joshuapare/kheap/internal/format"
)

type liveAlloc struct {
	p    region.Addr
	size uint64
	fill byte
}

// TestFuzz_RandomOperations runs a fixed-seed mix of allocations and frees
// against every strategy and checks the heap invariants after each step:
// tags agree, the list is ordered and fully coalesced, blocks tile the heap,
// live payloads never overlap and are never overwritten by the allocator.
func TestFuzz_RandomOperations(t *testing.T) {
	const (
		heapSize = 64 << 10
		steps    = 4000
	)
	aligns := []uint64{0, 1, 2, 4, 8, 16}

	for _, strategy := range Strategies() {
		t.Run(strategy.String(), func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			fl := newList(t, heapSize, strategy)
			tracker := shadow.New()
			var live []liveAlloc

			for step := 0; step < steps; step++ {
				if len(live) == 0 || rng.Intn(100) < 55 {
					size := uint64(rng.Intn(700))
					if rng.Intn(20) == 0 {
						size = uint64(rng.Intn(8 << 10))
					}
					align := aligns[rng.Intn(len(aligns))]

					p, err := fl.Allocate(size, align)
					if err != nil {
						require.ErrorIs(t, err, ErrNoFit, "step %d", step)
						continue
					}
					require.True(t, format.IsAligned(uint64(p)), "step %d: payload %s", step, p)
					require.NoError(t, tracker.Add(p, size), "step %d", step)

					fill := byte(step)
					b := fl.Region().Bytes(p, size)
					for i := range b {
						b[i] = fill
					}
					live = append(live, liveAlloc{p: p, size: size, fill: fill})
				} else {
					i := rng.Intn(len(live))
					la := live[i]
					for j, c := range fl.Region().Bytes(la.p, la.size) {
						require.Equal(t, la.fill, c, "step %d: payload %s byte %d clobbered", step, la.p, j)
					}
					_, err := tracker.Remove(la.p)
					require.NoError(t, err)
					fl.Deallocate(la.p)
					live[i] = live[len(live)-1]
					live = live[:len(live)-1]
				}

				require.NoError(t, verify.AllInvariants(fl), "step %d", step)
				require.Equal(t, len(live), tracker.Len())
				requireAccounting(t, fl, len(live))
			}

			rng.Shuffle(len(live), func(i, j int) { live[i], live[j] = live[j], live[i] })
			for _, la := range live {
				fl.Deallocate(la.p)
				require.NoError(t, verify.AllInvariants(fl))
			}
			requireBlocks(t, fl, free(testBase, heapSize))
		})
	}
}

// requireAccounting checks that free and allocated blocks add up to the
// capacity and that the allocated count matches the live set.
func requireAccounting(t *testing.T, fl *FreeList, live int) {
	t.Helper()
	var freeBytes, usedBytes uint64
	var usedBlocks int
	require.NoError(t, fl.Walk(func(b BlockInfo) bool {
		if b.Free {
			freeBytes += b.Size
		} else {
			usedBytes += b.Size
			usedBlocks++
		}
		return true
	}))
	require.Equal(t, fl.Capacity(), freeBytes+usedBytes)
	require.Equal(t, fl.FreeBytes(), freeBytes)
	require.Equal(t, live, usedBlocks)
}
