package region

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestNew_RejectsNullBaseAndWrap(t *testing.T) {
	_, err := New(0, make([]byte, 64))
	require.ErrorIs(t, err, ErrNullBase)

	_, err = New(Addr(^uint64(0)-8), make([]byte, 64))
	require.ErrorIs(t, err, ErrWrap)
}

func TestRegion_Bounds(t *testing.T) {
	r, err := New(0x1000, make([]byte, 256))
	require.NoError(t, err)

	require.Equal(t, Addr(0x1000), r.Base())
	require.Equal(t, Addr(0x1100), r.End())
	require.Equal(t, uint64(256), r.Len())

	require.True(t, r.Contains(0x1000, 256))
	require.True(t, r.Contains(0x10F8, 8))
	require.False(t, r.Contains(0x10F8, 9))
	require.False(t, r.Contains(0x0FF8, 8))
	require.False(t, r.Contains(0x1000, ^uint64(0)))
}

func TestRegion_WordRoundTrip(t *testing.T) {
	mem := make([]byte, 64)
	r, err := New(0x2000, mem)
	require.NoError(t, err)

	r.SetWord(0x2008, 0xDEADBEEF)
	require.Equal(t, uint64(0xDEADBEEF), r.Word(0x2008))
	require.Equal(t, byte(0xEF), mem[8], "tags are little-endian")
	require.Equal(t, uint64(0), r.Word(0x2000))
}

func TestRegion_WordAsserts(t *testing.T) {
	r, err := New(0x2000, make([]byte, 64))
	require.NoError(t, err)

	require.Panics(t, func() { r.Word(0x2004) }, "misaligned read")
	require.Panics(t, func() { r.SetWord(0x2040, 1) }, "write past end")
	require.Panics(t, func() { r.Word(0x1FF8) }, "read before base")
}

func TestRegion_Bytes(t *testing.T) {
	mem := make([]byte, 64)
	r, err := New(0x3000, mem)
	require.NoError(t, err)

	b := r.Bytes(0x3010, 4)
	copy(b, []byte{1, 2, 3, 4})
	require.Equal(t, []byte{1, 2, 3, 4}, mem[16:20])
	require.Panics(t, func() { r.Bytes(0x3030, 32) })
}

func TestFromBytes_UsesRealAddress(t *testing.T) {
	mem := make([]byte, 128)
	r, err := FromBytes(mem)
	require.NoError(t, err)
	require.Equal(t, Addr(uintptr(unsafe.Pointer(&mem[0]))), r.Base())
	require.NoError(t, r.Close())

	_, err = FromBytes(nil)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestMap(t *testing.T) {
	r, err := Map(8192)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, uint64(8192), r.Len())
	r.SetWord(r.Base()+16, 42)
	require.Equal(t, uint64(42), r.Word(r.Base()+16))
}

func TestAddr_String(t *testing.T) {
	require.Equal(t, "0x1000", Addr(0x1000).String())
}
