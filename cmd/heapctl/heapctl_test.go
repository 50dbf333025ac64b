package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/kheap/heap/freelist"
)

const fragTrace = `# three holes, then a small request
alloc a 96
alloc g1 16
alloc b 32
alloc g2 16
alloc c 64
alloc g3 16
free a
free b
free c
alloc x 32
free missing
`

func TestDemo(t *testing.T) {
	resetFlags(t)

	out, err := captureOutput(t, runDemo)
	require.NoError(t, err)
	require.Contains(t, out, "holds 42")
	require.Contains(t, out, "Vec len=5")
	require.Contains(t, out, "Layout (")
}

func TestDemo_JSON(t *testing.T) {
	resetFlags(t)
	jsonOut = true

	out, err := captureOutput(t, runDemo)
	require.NoError(t, err)

	var res demoResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, uint64(42), res.Boxed)
	require.Equal(t, []uint64{0, 1, 2, 3, 4}, res.Vector)
	require.Equal(t, "best-fit", res.Strategy)
	require.NotEmpty(t, res.Layout)
}

func TestReplay(t *testing.T) {
	resetFlags(t)
	replayStrategy = freelist.BestFit
	replaySize = 1024
	replayStart = 0x1000
	replayLayout = true
	replayVerify = true

	out, err := captureOutput(t, func() error {
		return runReplay([]string{writeTrace(t, fragTrace)})
	})
	require.NoError(t, err)
	require.Contains(t, out, "best-fit")
	require.Contains(t, out, "failures:      1")
	require.Contains(t, out, "free blocks:   3")
	require.Contains(t, out, "0x11b0")
}

func TestReplay_JSON(t *testing.T) {
	resetFlags(t)
	jsonOut = true
	replayStrategy = freelist.WorstFit
	replaySize = 1024
	replayStart = 0x1000

	out, err := captureOutput(t, func() error {
		return runReplay([]string{writeTrace(t, fragTrace)})
	})
	require.NoError(t, err)

	var res struct {
		Stats struct {
			Strategy    string `json:"strategy"`
			FreeBlocks  int    `json:"freeBlocks"`
			LargestFree uint64 `json:"largestFree"`
		} `json:"stats"`
		Failures []string `json:"failures"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, "worst-fit", res.Stats.Strategy)
	require.Equal(t, 4, res.Stats.FreeBlocks)
	require.Equal(t, uint64(528), res.Stats.LargestFree)
	require.Len(t, res.Failures, 1)
	require.Contains(t, res.Failures[0], "free missing")
}

func TestReplay_Errors(t *testing.T) {
	resetFlags(t)
	replaySize = 1024
	replayStart = 0x1000

	_, err := captureOutput(t, func() error { return runReplay([]string{"/nonexistent/trace"}) })
	require.Error(t, err)

	_, err = captureOutput(t, func() error {
		return runReplay([]string{writeTrace(t, "malloc a 1\n")})
	})
	require.Error(t, err)
}

func TestCompare(t *testing.T) {
	resetFlags(t)
	compareSize = 1024
	compareStart = 0x1000

	out, err := captureOutput(t, func() error {
		return runCompare([]string{writeTrace(t, fragTrace)})
	})
	require.NoError(t, err)
	for _, s := range freelist.Strategies() {
		require.Contains(t, out, s.String())
	}
}

func TestCompare_JSON(t *testing.T) {
	resetFlags(t)
	jsonOut = true
	compareSize = 1024
	compareStart = 0x1000

	out, err := captureOutput(t, func() error {
		return runCompare([]string{writeTrace(t, fragTrace)})
	})
	require.NoError(t, err)

	var rows []struct {
		Strategy    string `json:"strategy"`
		LargestFree uint64 `json:"largestFree"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 4)
	require.Equal(t, "best-fit", rows[1].Strategy)
	require.Equal(t, uint64(592), rows[1].LargestFree)
	require.Equal(t, uint64(528), rows[2].LargestFree)
}
