package vm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisassembleKnownOpcodes(t *testing.T) {
	code := []byte{Push1, 0x2a, Add, Stop}
	var buf bytes.Buffer
	require.NoError(t, Disassemble(code, &buf))
	out := buf.String()
	require.Contains(t, out, "PUSH1")
	require.Contains(t, out, "0x2a")
	require.Contains(t, out, "ADD")
	require.Contains(t, out, "STOP")
}

func TestDisassembleUnknownOpcodeAsHex(t *testing.T) {
	code := []byte{0x0c} // unassigned in the 0x00 arithmetic block
	var buf bytes.Buffer
	require.NoError(t, Disassemble(code, &buf))
	require.Contains(t, buf.String(), "0x0c")
}

func TestDisassembleNeverFaultsOnTruncatedPush(t *testing.T) {
	code := []byte{Push2, 0x01} // missing second immediate byte
	var buf bytes.Buffer
	err := Disassemble(code, &buf)
	require.NoError(t, err)
}
