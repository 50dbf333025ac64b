package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAlignUp(t *testing.T) {
	cases := []struct{ in, want uint64 }{
		{0, 0},
		{1, 16},
		{15, 16},
		{16, 16},
		{17, 32},
		{0x1003, 0x1010},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, AlignUp(tc.in), "AlignUp(%d)", tc.in)
	}
}

func TestAlignUpChecked_Overflow(t *testing.T) {
	_, ok := AlignUpChecked(math.MaxUint64)
	require.False(t, ok)

	_, ok = AlignUpChecked(math.MaxUint64 - AlignMask + 1)
	require.False(t, ok)

	got, ok := AlignUpChecked(math.MaxUint64 - AlignMask)
	require.True(t, ok)
	require.Equal(t, uint64(math.MaxUint64-AlignMask), got)
}

func TestAlignDown(t *testing.T) {
	require.Equal(t, uint64(0), AlignDown(15))
	require.Equal(t, uint64(256), AlignDown(256))
	require.Equal(t, uint64(256), AlignDown(271))
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, n := range []uint64{1, 2, 4, 8, 16, 1 << 40} {
		require.True(t, IsPowerOfTwo(n), "%d", n)
	}
	for _, n := range []uint64{0, 3, 6, 12, 24} {
		require.False(t, IsPowerOfTwo(n), "%d", n)
	}
}

func TestBlockSize(t *testing.T) {
	cases := []struct{ payload, want uint64 }{
		{0, 48},
		{1, 48},
		{16, 48},
		{17, 64},
		{32, 64},
		{64, 96},
		{96, 128},
		{100, 144},
	}
	for _, tc := range cases {
		got, ok := BlockSize(tc.payload)
		require.True(t, ok)
		require.Equal(t, tc.want, got, "BlockSize(%d)", tc.payload)
		require.True(t, IsAligned(got))
	}
}

func TestBlockSize_Overflow(t *testing.T) {
	for _, n := range []uint64{math.MaxUint64, math.MaxUint64 - 8, math.MaxUint64 - 20} {
		_, ok := BlockSize(n)
		require.False(t, ok, "BlockSize(%d) should overflow", n)
	}
}

func TestLayoutConstants(t *testing.T) {
	require.Equal(t, 24, Overhead)
	require.Equal(t, 32, MinBlock)
	require.Equal(t, 48, MinAllocBlock)
}

func TestEncodingRoundTrip(t *testing.T) {
	b := make([]byte, 16)
	PutU64(b, 8, 0x0123456789abcdef)
	require.Equal(t, uint64(0x0123456789abcdef), ReadU64(b, 8))
	require.Equal(t, byte(0xef), b[8])
	require.Equal(t, uint64(0), ReadU64(b, 0))
}
