package workload

import (
	"fmt"

	"github.com/joshuapare/kheap/heap/freelist"
	"github.com/joshuapare/kheap/heap/region"
	"github.com/joshuapare/kheap/heap/verify"
	"github.com/joshuapare/kheap/internal/logger"
)

// Failure records an op that did not take effect.
type Failure struct {
	Op  Op
	Err error
}

func (f Failure) Error() string {
	if f.Op.Line > 0 {
		return fmt.Sprintf("line %d: %s: %v", f.Op.Line, f.Op, f.Err)
	}
	return fmt.Sprintf("%s: %v", f.Op, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Stats summarises a replay.
type Stats struct {
	Strategy freelist.Strategy `json:"strategy"`
	Capacity uint64            `json:"capacity"`

	Allocs   int       `json:"allocs"`
	Frees    int       `json:"frees"`
	Failures []Failure `json:"-"`

	LiveBlocks    int    `json:"liveBlocks"`
	FreeBlocks    int    `json:"freeBlocks"`
	FreeBytes     uint64 `json:"freeBytes"`
	LargestFree   uint64 `json:"largestFree"`
	PeakUsedBytes uint64 `json:"peakUsedBytes"`
}

// Fragmentation returns the external fragmentation of the final heap:
// the share of free memory that is not in the largest free block.
func (s Stats) Fragmentation() float64 {
	if s.FreeBytes == 0 {
		return 0
	}
	return 1 - float64(s.LargestFree)/float64(s.FreeBytes)
}

// Options tunes Replay.
type Options struct {
	// Verify runs the full invariant walk after every op and stops the
	// replay at the first violation.
	Verify bool
}

// Replay runs ops against fl. Ops that fail are recorded in Stats.Failures
// and skipped; the replay carries on. The returned error is non-nil only
// when Options.Verify found a broken invariant.
func Replay(fl *freelist.FreeList, ops []Op, opts Options) (Stats, error) {
	st := Stats{Strategy: fl.Strategy(), Capacity: fl.Capacity()}
	live := make(map[string]region.Addr)

	for _, op := range ops {
		switch op.Kind {
		case KindAlloc:
			if _, dup := live[op.Name]; dup {
				st.Failures = append(st.Failures, Failure{Op: op, Err: ErrDuplicateName})
				continue
			}
			p, err := fl.Allocate(op.Size, op.Align)
			if err != nil {
				st.Failures = append(st.Failures, Failure{Op: op, Err: err})
				continue
			}
			live[op.Name] = p
			st.Allocs++
			if used := fl.Capacity() - fl.FreeBytes(); used > st.PeakUsedBytes {
				st.PeakUsedBytes = used
			}

		case KindFree:
			p, ok := live[op.Name]
			if !ok {
				st.Failures = append(st.Failures, Failure{Op: op, Err: ErrUnknownName})
				continue
			}
			fl.Deallocate(p)
			delete(live, op.Name)
			st.Frees++
		}

		if opts.Verify {
			if err := verify.AllInvariants(fl); err != nil {
				return st, fmt.Errorf("workload: line %d: after %s: %w", op.Line, op, err)
			}
		}
	}

	st.LiveBlocks = len(live)
	for _, b := range fl.FreeBlocks() {
		st.FreeBlocks++
		st.FreeBytes += b.Size
		st.LargestFree = max(st.LargestFree, b.Size)
	}

	logger.L.Debug("replay finished",
		"strategy", st.Strategy.String(),
		"allocs", st.Allocs,
		"frees", st.Frees,
		"failures", len(st.Failures),
		"freeBlocks", st.FreeBlocks)
	return st, nil
}

// Config describes the fresh heap Run replays into.
type Config struct {
	Start    region.Addr
	Size     uint64
	Strategy freelist.Strategy
	Options  Options
}

// Run builds a heap from cfg, replays ops into it and returns the stats and
// the final block layout.
func Run(cfg Config, ops []Op) (Stats, []freelist.BlockInfo, error) {
	r, err := region.New(cfg.Start, make([]byte, cfg.Size))
	if err != nil {
		return Stats{}, nil, fmt.Errorf("workload: %w", err)
	}
	fl, err := freelist.Init(r, cfg.Strategy, nil)
	if err != nil {
		return Stats{}, nil, fmt.Errorf("workload: %w", err)
	}
	st, err := Replay(fl, ops, cfg.Options)
	if err != nil {
		return st, nil, err
	}
	blocks, err := fl.Blocks()
	return st, blocks, err
}
