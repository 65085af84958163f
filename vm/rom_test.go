package vm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJumpDestPrecomputeSkipsPushImmediates(t *testing.T) {
	// PUSH1 0x5b is a single instruction whose immediate byte happens to
	// equal the JUMPDEST opcode. A naive scan for 0x5b bytes would
	// misclassify offset 1 as a valid jump target; the precomputed
	// bitmap must not.
	code := []byte{Push1, JumpDest, Stop}
	rom := NewRom(code)
	require.False(t, rom.IsJumpDest(1))
	require.False(t, rom.IsJumpDest(0))
}

func TestRealJumpDestIsValid(t *testing.T) {
	code := []byte{JumpDest, Stop}
	rom := NewRom(code)
	require.True(t, rom.IsJumpDest(0))
	require.NoError(t, rom.Jump(0))
}

func TestInvalidJumpDest(t *testing.T) {
	code := []byte{Stop, Stop}
	rom := NewRom(code)
	err := rom.Jump(0)
	require.Error(t, err)
	var target *InvalidJumpError
	require.ErrorAs(t, err, &target)
}

func TestROMOutOfBounds(t *testing.T) {
	rom := NewRom([]byte{Stop})
	_, err := rom.NextByte()
	require.NoError(t, err)
	_, err = rom.NextByte()
	require.Error(t, err)
	var target *ROMOutOfBoundsError
	require.ErrorAs(t, err, &target)
}
