package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/kheap/heap/freelist"
	"github.com/joshuapare/kheap/heap/region"
	"github.com/joshuapare/kheap/heap/workload"
)

var (
	replayStrategy = freelist.FirstFit
	replaySize     uint64
	replayStart    uint64
	replayVerify   bool
	replayLayout   bool
)

func init() {
	cmd := newReplayCmd()
	cmd.Flags().Var(&replayStrategy, "strategy", "Placement strategy (first-fit, best-fit, worst-fit, next-fit)")
	addHeapFlags(cmd, &replaySize, &replayStart, &replayVerify)
	cmd.Flags().BoolVar(&replayLayout, "layout", false, "Print the final block layout")
	rootCmd.AddCommand(cmd)
}

// addHeapFlags registers the heap geometry flags shared by replay and compare.
func addHeapFlags(cmd *cobra.Command, size, start *uint64, verify *bool) {
	cmd.Flags().Uint64Var(size, "size", 64<<10, "Heap size in bytes")
	cmd.Flags().Uint64Var(start, "start", 0x100000, "Heap start address")
	cmd.Flags().BoolVar(verify, "verify", false, "Check every heap invariant after each op")
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <trace>",
		Short: "Replay an allocation trace",
		Long: `The replay command runs an allocation trace against a fresh heap and
reports failed operations and final fragmentation.

Trace format, one op per line:
  alloc <name> <size> [align]
  free <name>
  # comment

Example:
  heapctl replay boot.trace
  heapctl replay boot.trace --strategy worst-fit --size 0x10000 --layout
  heapctl replay boot.trace --verify --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(args)
		},
	}
	return cmd
}

func loadTrace(path string) ([]workload.Op, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace: %w", err)
	}
	defer f.Close()
	return workload.Parse(f)
}

type replayResult struct {
	Trace    string        `json:"trace"`
	Stats    statsJSON     `json:"stats"`
	Failures []string      `json:"failures,omitempty"`
	Layout   []layoutEntry `json:"layout,omitempty"`
}

type statsJSON struct {
	workload.Stats
	Strategy      string  `json:"strategy"`
	Fragmentation float64 `json:"fragmentation"`
}

func newStatsJSON(st workload.Stats) statsJSON {
	return statsJSON{Stats: st, Strategy: st.Strategy.String(), Fragmentation: st.Fragmentation()}
}

func runReplay(args []string) error {
	tracePath := args[0]
	printVerbose("Loading trace: %s\n", tracePath)

	ops, err := loadTrace(tracePath)
	if err != nil {
		return err
	}

	st, blocks, err := workload.Run(workload.Config{
		Start:    region.Addr(replayStart),
		Size:     replaySize,
		Strategy: replayStrategy,
		Options:  workload.Options{Verify: replayVerify},
	}, ops)
	if err != nil {
		return err
	}

	if jsonOut {
		res := replayResult{Trace: tracePath, Stats: newStatsJSON(st)}
		for _, f := range st.Failures {
			res.Failures = append(res.Failures, f.Error())
		}
		if replayLayout {
			res.Layout = toLayout(blocks)
		}
		return printJSON(res)
	}

	printInfo("Replayed %d ops from %s (%s, %d byte heap)\n", len(ops), tracePath, st.Strategy, st.Capacity)
	printInfo("  allocs:        %d\n", st.Allocs)
	printInfo("  frees:         %d\n", st.Frees)
	printInfo("  failures:      %d\n", len(st.Failures))
	printInfo("  live blocks:   %d\n", st.LiveBlocks)
	printInfo("  free blocks:   %d\n", st.FreeBlocks)
	printInfo("  free bytes:    %d\n", st.FreeBytes)
	printInfo("  largest free:  %d\n", st.LargestFree)
	printInfo("  peak used:     %d\n", st.PeakUsedBytes)
	printInfo("  fragmentation: %.1f%%\n", st.Fragmentation()*100)

	for _, f := range st.Failures {
		printVerbose("  ! %s\n", f.Error())
	}
	if replayLayout {
		printInfo("\nLayout (%d blocks):\n", len(blocks))
		printLayout(blocks)
	}
	return nil
}
