//go:build unix

package mmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnonymous_ReadWrite(t *testing.T) {
	data, cleanup, err := Anonymous(10000)
	require.NoError(t, err)
	require.Len(t, data, 10000)

	for i := range data {
		require.Zero(t, data[i], "fresh mapping must be zeroed at %d", i)
	}
	data[0] = 0xAA
	data[len(data)-1] = 0xBB
	require.Equal(t, byte(0xAA), data[0])
	require.Equal(t, byte(0xBB), data[len(data)-1])

	require.NoError(t, cleanup())
	require.NoError(t, cleanup(), "second cleanup should be a no-op")
}

func TestAnonymous_InvalidSize(t *testing.T) {
	_, _, err := Anonymous(0)
	require.Error(t, err)

	_, _, err = Anonymous(-1)
	require.Error(t, err)
}
