package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/kheap/heap/adapter"
	"github.com/joshuapare/kheap/heap/freelist"
	"github.com/joshuapare/kheap/heap/region"
)

var (
	demoStrategy = freelist.BestFit
	demoSize     uint64
	demoStart    uint64
	demoCount    uint64
)

func init() {
	cmd := newDemoCmd()
	cmd.Flags().Var(&demoStrategy, "strategy", "Placement strategy (first-fit, best-fit, worst-fit, next-fit)")
	cmd.Flags().Uint64Var(&demoSize, "size", adapter.HeapSize, "Heap size in bytes")
	cmd.Flags().Uint64Var(&demoStart, "start", uint64(adapter.HeapStart), "Heap start address (0 maps real memory)")
	cmd.Flags().Uint64Var(&demoCount, "count", 5, "Number of elements pushed into the vector")
	rootCmd.AddCommand(cmd)
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the boot-time heap smoke test",
		Long: `The demo command initialises the heap the way the kernel does at boot,
boxes a single value, grows a vector, and prints the resulting heap layout.

Example:
  heapctl demo
  heapctl demo --strategy next-fit --count 100
  heapctl demo --start 0 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
	return cmd
}

type demoResult struct {
	Strategy string        `json:"strategy"`
	Boxed    uint64        `json:"boxed"`
	BoxAddr  string        `json:"boxAddr"`
	Vector   []uint64      `json:"vector"`
	Layout   []layoutEntry `json:"layout"`
}

func runDemo() error {
	cfg := adapter.DefaultConfig()
	cfg.Strategy = demoStrategy
	cfg.Size = demoSize
	cfg.Start = region.Addr(demoStart)
	cfg.Check = true
	cfg.Shadow = true

	a, err := adapter.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	printVerbose("Heap: %d bytes, %s\n", cfg.Size, cfg.Strategy)

	box := a.Box(42)
	v := adapter.NewVec(a)
	for i := uint64(0); i < demoCount; i++ {
		v.Push(i)
	}

	blocks, err := a.Layout()
	if err != nil {
		return err
	}
	res := demoResult{
		Strategy: cfg.Strategy.String(),
		Boxed:    a.Unbox(box),
		BoxAddr:  box.String(),
		Vector:   v.Values(),
		Layout:   toLayout(blocks),
	}

	v.Release()
	a.Free(box)

	if jsonOut {
		return printJSON(res)
	}

	printInfo("Box at %s holds %d\n", res.BoxAddr, res.Boxed)
	printInfo("Vec len=%d: %v\n", len(res.Vector), res.Vector)
	printInfo("\nLayout (%d blocks):\n", len(blocks))
	printLayout(blocks)
	return nil
}
