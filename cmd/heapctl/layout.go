package main

import (
	"github.com/joshuapare/kheap/heap/freelist"
)

// layoutEntry is the JSON shape of one block.
type layoutEntry struct {
	Addr string `json:"addr"`
	Size uint64 `json:"size"`
	Free bool   `json:"free"`
}

func toLayout(blocks []freelist.BlockInfo) []layoutEntry {
	out := make([]layoutEntry, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, layoutEntry{Addr: b.Addr.String(), Size: b.Size, Free: b.Free})
	}
	return out
}

// printLayout prints one line per block.
func printLayout(blocks []freelist.BlockInfo) {
	for _, b := range blocks {
		state := "used"
		if b.Free {
			state = "free"
		}
		printInfo("  %-12s %-4s %d bytes\n", b.Addr, state, b.Size)
	}
}
