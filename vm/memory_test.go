package vm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryGrowsInWords(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Write8(0, u64(0xff)))
	require.Equal(t, 32, m.Len()) // grows to the next 32-byte word, not just 1 byte
}

func TestMemoryReadZeroFilledPastWrites(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Write32(0, u64(1)))
	word, err := m.Read32(32)
	require.NoError(t, err)
	require.Equal(t, Zero(), word)
}

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	v := SetBytes([]byte{0xde, 0xad, 0xbe, 0xef})
	require.NoError(t, m.Write32(64, v))
	got, err := m.Read32(64)
	require.NoError(t, err)
	require.Equal(t, v, got)
}

func TestMemoryTooLargeFaults(t *testing.T) {
	m := NewMemory()
	_, err := m.ReadRange(maxMemoryBytes, 1)
	require.ErrorIs(t, err, errMemoryTooLarge)
}
