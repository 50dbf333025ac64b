package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/kheap/heap/freelist"
	"github.com/joshuapare/kheap/heap/region"
	"github.com/joshuapare/kheap/heap/workload"
)

var (
	compareSize   uint64
	compareStart  uint64
	compareVerify bool
)

func init() {
	cmd := newCompareCmd()
	addHeapFlags(cmd, &compareSize, &compareStart, &compareVerify)
	rootCmd.AddCommand(cmd)
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <trace>",
		Short: "Replay a trace under every placement strategy",
		Long: `The compare command replays the same allocation trace under first-fit,
best-fit, worst-fit and next-fit and prints the outcome side by side.

Example:
  heapctl compare boot.trace
  heapctl compare boot.trace --size 0x8000 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(args)
		},
	}
	return cmd
}

func runCompare(args []string) error {
	ops, err := loadTrace(args[0])
	if err != nil {
		return err
	}

	var rows []statsJSON
	for _, s := range freelist.Strategies() {
		st, _, err := workload.Run(workload.Config{
			Start:    region.Addr(compareStart),
			Size:     compareSize,
			Strategy: s,
			Options:  workload.Options{Verify: compareVerify},
		}, ops)
		if err != nil {
			return err
		}
		rows = append(rows, newStatsJSON(st))
	}

	if jsonOut {
		return printJSON(rows)
	}

	printInfo("%-10s %8s %8s %10s %12s %12s %8s\n",
		"STRATEGY", "FAILED", "FREE#", "FREE", "LARGEST", "PEAK", "FRAG")
	for _, r := range rows {
		printInfo("%-10s %8d %8d %10d %12d %12d %7.1f%%\n",
			r.Strategy, len(r.Failures), r.FreeBlocks, r.FreeBytes, r.LargestFree, r.PeakUsedBytes, r.Fragmentation*100)
	}
	return nil
}
